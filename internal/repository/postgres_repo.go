package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/MicroFocus/ppm-smartsheet-connector/internal/model"
)

type DBConfig struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

type PostgresRepo struct {
	DB *sql.DB
}

func NewPostgresRepoFromConfig(cfg *DBConfig) (*PostgresRepo, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Pass, cfg.Name)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &PostgresRepo{DB: db}, nil
}

func (r *PostgresRepo) RunMigrations(ctx context.Context) error {
	queries := []string{
		`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
		`CREATE TABLE IF NOT EXISTS admins (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			username VARCHAR(100) UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY,
			name TEXT,
			email TEXT UNIQUE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS sync_runs (
			id TEXT PRIMARY KEY,
			sheet_id TEXT NOT NULL,
			sheet_name TEXT,
			task_count INT NOT NULL DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			sheet_id TEXT NOT NULL,
			id TEXT NOT NULL,
			name TEXT,
			parent_id TEXT,
			status TEXT,
			owner_id BIGINT,
			start_date TIMESTAMP WITH TIME ZONE,
			finish_date TIMESTAMP WITH TIME ZONE,
			sync_run_id TEXT,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
			PRIMARY KEY (sheet_id, id)
		);`,
		`CREATE TABLE IF NOT EXISTS task_actuals (
			id BIGSERIAL PRIMARY KEY,
			sheet_id TEXT NOT NULL,
			task_id TEXT NOT NULL,
			resource_id BIGINT,
			scheduled_effort DOUBLE PRECISION NOT NULL DEFAULT 0,
			actual_effort DOUBLE PRECISION NOT NULL DEFAULT 0,
			remaining_effort DOUBLE PRECISION NOT NULL DEFAULT 0,
			percent_complete DOUBLE PRECISION NOT NULL DEFAULT 0,
			actual_start TIMESTAMP WITH TIME ZONE,
			actual_finish TIMESTAMP WITH TIME ZONE
		);`,
	}
	for _, q := range queries {
		if _, err := r.DB.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepo) UpsertAdmin(ctx context.Context, username, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO admins (username, password_hash) VALUES ($1, $2)
		 ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash`,
		username, passwordHash)
	return err
}

func (r *PostgresRepo) GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at
		 FROM admins WHERE username = $1 LIMIT 1`, username)

	var a model.Admin
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PostgresRepo) UpsertUser(ctx context.Context, u *model.User) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (id, name, email) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, email = EXCLUDED.email, updated_at = now()`,
		u.ID, u.Name, u.Email)
	return err
}

func (r *PostgresRepo) GetUserIDByEmail(ctx context.Context, email string) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx,
		`SELECT id FROM users WHERE LOWER(email) = LOWER($1) LIMIT 1`, email).Scan(&id)
	return id, err
}

func (r *PostgresRepo) GetUserIDByName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx,
		`SELECT id FROM users WHERE LOWER(name) = LOWER($1) LIMIT 1`, name).Scan(&id)
	return id, err
}

// InsertSyncRun records one work-plan sync of a sheet.
func (r *PostgresRepo) InsertSyncRun(ctx context.Context, runID, sheetID, sheetName string, taskCount int) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO sync_runs (id, sheet_id, sheet_name, task_count) VALUES ($1, $2, $3, $4)`,
		runID, sheetID, sheetName, taskCount)
	return err
}

// ReplaceSheetTasks swaps the persisted task set for a sheet with the freshly
// mapped one in a single transaction. Task trees are rebuilt from scratch on
// every sync, so the previous rows are dropped first.
func (r *PostgresRepo) ReplaceSheetTasks(ctx context.Context, sheetID, runID string, tasks []*model.Task) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_actuals WHERE sheet_id = $1`, sheetID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE sheet_id = $1`, sheetID); err != nil {
		return err
	}

	for _, t := range tasks {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO tasks (sheet_id, id, name, parent_id, status, owner_id, start_date, finish_date, sync_run_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			sheetID, t.ID, t.Name, t.ParentID, t.Status, t.OwnerID, t.Start, t.Finish, runID)
		if err != nil {
			return fmt.Errorf("failed to insert task %s: %w", t.ID, err)
		}
		for _, a := range t.Actuals {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO task_actuals (sheet_id, task_id, resource_id, scheduled_effort, actual_effort, remaining_effort, percent_complete, actual_start, actual_finish)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				sheetID, t.ID, a.ResourceID, a.ScheduledEffort, a.ActualEffort, a.RemainingEffort, a.PercentComplete, a.ActualStart, a.ActualFinish)
			if err != nil {
				return fmt.Errorf("failed to insert actuals for task %s: %w", t.ID, err)
			}
		}
	}

	return tx.Commit()
}

// GetSheetTasks returns the persisted flat task list of a sheet with its
// actuals, ordered as mapped.
func (r *PostgresRepo) GetSheetTasks(ctx context.Context, sheetID string) ([]*model.Task, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, parent_id, status, owner_id, start_date, finish_date
		 FROM tasks WHERE sheet_id = $1`, sheetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*model.Task
	byID := make(map[string]*model.Task)
	for rows.Next() {
		var t model.Task
		var start, finish sql.NullTime
		if err := rows.Scan(&t.ID, &t.Name, &t.ParentID, &t.Status, &t.OwnerID, &start, &finish); err != nil {
			return nil, err
		}
		if start.Valid {
			t.Start = &start.Time
		}
		if finish.Valid {
			t.Finish = &finish.Time
		}
		tasks = append(tasks, &t)
		byID[t.ID] = &t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	actualRows, err := r.DB.QueryContext(ctx,
		`SELECT task_id, resource_id, scheduled_effort, actual_effort, remaining_effort, percent_complete, actual_start, actual_finish
		 FROM task_actuals WHERE sheet_id = $1 ORDER BY id`, sheetID)
	if err != nil {
		return nil, err
	}
	defer actualRows.Close()

	for actualRows.Next() {
		var taskID string
		var resourceID sql.NullInt64
		var actualStart, actualFinish sql.NullTime
		var a model.Actuals
		err := actualRows.Scan(&taskID, &resourceID, &a.ScheduledEffort, &a.ActualEffort, &a.RemainingEffort, &a.PercentComplete, &actualStart, &actualFinish)
		if err != nil {
			return nil, err
		}
		if resourceID.Valid {
			a.ResourceID = &resourceID.Int64
		}
		if actualStart.Valid {
			a.ActualStart = &actualStart.Time
		}
		if actualFinish.Valid {
			a.ActualFinish = &actualFinish.Time
		}
		if t, ok := byID[taskID]; ok {
			t.Actuals = append(t.Actuals, a)
		}
	}
	if err := actualRows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}
