package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/MicroFocus/ppm-smartsheet-connector/internal/model"
	"github.com/MicroFocus/ppm-smartsheet-connector/internal/repository"
)

// SmartsheetAPI is the slice of the REST client the sync service uses.
type SmartsheetAPI interface {
	FetchHome(ctx context.Context) (*model.Home, error)
	FetchSheet(ctx context.Context, sheetID string) (*model.Sheet, error)
	FetchSheetColumns(ctx context.Context, sheetID string) (*model.Sheet, error)
	FetchUsers(ctx context.Context) ([]model.User, error)
}

// SyncService drives listings and work-plan syncs: it fetches from
// Smartsheet, runs the mapping/assembly engine and persists the result.
type SyncService struct {
	Client SmartsheetAPI
	Repo   *repository.PostgresRepo
}

func NewSyncService(client SmartsheetAPI, repo *repository.PostgresRepo) *SyncService {
	return &SyncService{Client: client, Repo: repo}
}

// SyncResult summarizes one completed sheet sync.
type SyncResult struct {
	RunID     string        `json:"run_id"`
	SheetID   string        `json:"sheet_id"`
	SheetName string        `json:"sheet_name"`
	TaskCount int           `json:"task_count"`
	Roots     []*model.Task `json:"roots"`
}

// ListSheets fetches the container tree and resolves it to path-qualified
// sheet listings, optionally restricted to one workspace or folder.
func (s *SyncService) ListSheets(ctx context.Context, restriction string) ([]SheetRef, error) {
	home, err := s.Client.FetchHome(ctx)
	if err != nil {
		return nil, err
	}
	return ListSheets(*home, restriction), nil
}

// ListContainers fetches the container tree and lists every workspace and
// folder for the restriction selector.
func (s *SyncService) ListContainers(ctx context.Context) ([]ContainerOption, error) {
	home, err := s.Client.FetchHome(ctx)
	if err != nil {
		return nil, err
	}
	return AllContainers(*home), nil
}

// SheetColumns returns column-only metadata for the mapping configuration.
func (s *SyncService) SheetColumns(ctx context.Context, sheetID string) (*model.Sheet, error) {
	return s.Client.FetchSheetColumns(ctx, sheetID)
}

// SyncUsers mirrors the Smartsheet user list into the local users table so
// resource cells can be resolved during sheet syncs.
func (s *SyncService) SyncUsers(ctx context.Context) (int, error) {
	users, err := s.Client.FetchUsers(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for i := range users {
		if err := s.Repo.UpsertUser(ctx, &users[i]); err != nil {
			log.Printf("failed to upsert user %d: %v", users[i].ID, err)
			continue
		}
		count++
	}
	log.Printf("user sync complete, %d users", count)
	return count, nil
}

// SyncSheet fetches one sheet with all its rows, maps every non-blank row to
// a task, assembles the task forest and persists the flat task set. The
// whole tree is rebuilt from fresh data on every call.
func (s *SyncService) SyncSheet(ctx context.Context, sheetID string, mapping model.FieldMapping) (*SyncResult, error) {
	sheet, err := s.Client.FetchSheet(ctx, sheetID)
	if err != nil {
		return nil, err
	}

	resolver := &repoPersonResolver{ctx: ctx, repo: s.Repo}

	var tasks []*model.Task
	for _, row := range sheet.Rows {
		if row.IsBlank() {
			continue
		}
		tasks = append(tasks, MapRow(row, mapping, resolver))
	}

	roots := AssembleTree(tasks)

	runID := uuid.NewString()
	if err := s.Repo.ReplaceSheetTasks(ctx, sheet.ID, runID, tasks); err != nil {
		return nil, fmt.Errorf("failed to persist tasks for sheet %s: %w", sheet.ID, err)
	}
	if err := s.Repo.InsertSyncRun(ctx, runID, sheet.ID, sheet.Name, len(tasks)); err != nil {
		return nil, fmt.Errorf("failed to record sync run %s: %w", runID, err)
	}

	log.Printf("synced sheet %s (%s): %d tasks, %d roots", sheet.ID, sheet.Name, len(tasks), len(roots))

	return &SyncResult{
		RunID:     runID,
		SheetID:   sheet.ID,
		SheetName: sheet.Name,
		TaskCount: len(tasks),
		Roots:     roots,
	}, nil
}

// GetSheetTasks returns the persisted flat task list from the last sync.
func (s *SyncService) GetSheetTasks(ctx context.Context, sheetID string) ([]*model.Task, error) {
	return s.Repo.GetSheetTasks(ctx, sheetID)
}

// repoPersonResolver resolves emails and names against the mirrored users
// table. Misses are not errors; the row simply gets no resource.
type repoPersonResolver struct {
	ctx  context.Context
	repo *repository.PostgresRepo
}

func (r *repoPersonResolver) ResolveByEmail(email string) (int64, bool) {
	id, err := r.repo.GetUserIDByEmail(r.ctx, email)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (r *repoPersonResolver) ResolveByUsername(username string) (int64, bool) {
	id, err := r.repo.GetUserIDByName(r.ctx, username)
	if err != nil {
		return 0, false
	}
	return id, true
}
