package service

import (
	"log"
	"strings"
	"time"

	"github.com/MicroFocus/ppm-smartsheet-connector/internal/model"
)

// PersonResolver resolves a person reference from a sheet cell to a resource
// id. Lookups are plain synchronous call-outs; a miss is not an error.
type PersonResolver interface {
	ResolveByEmail(email string) (int64, bool)
	ResolveByUsername(username string) (int64, bool)
}

// placeholderName substitutes for an empty name cell. Sheets commonly end
// with rows that look blank but still carry a value in some other column.
const placeholderName = "?"

// Cell date values come in three shapes: bare date, local date-time without
// offset, and ISO-8601 date-time with an offset. Offset-aware layouts are
// tried first.
var dateTimeLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05-07",
	"2006-01-02T15:04:05",
}

// MapRow turns one non-blank row into a task using the active field mapping.
// Every per-field degradation (unparsable date or number, unknown person) is
// recovered locally so a partially mappable sheet still yields a task tree.
func MapRow(row model.Row, mapping model.FieldMapping, people PersonResolver) *model.Task {
	cells := row.CellsByColumn()

	task := &model.Task{
		ID:       row.ID,
		ParentID: row.ParentID,
		Name:     mapName(cells, mapping.Name),
		Start:    mapDate(cells, mapping.StartDate),
		Finish:   mapDate(cells, mapping.FinishDate),
	}

	resources := mapResources(cells, mapping.Resources, people)

	effort := ReconcileEffort(EffortInput{
		ActualEffort:    parseEffort(cellValue(cells, mapping.ActualEffort)),
		ScheduledEffort: parseEffort(cellValue(cells, mapping.ScheduledEffort)),
		RemainingEffort: parseEffort(cellValue(cells, mapping.RemainingEffort)),
		PercentComplete: parsePercent(cellDisplayValue(cells, mapping.PercentComplete)),
	})

	task.Status = statusFromPercent(effort.PercentComplete)

	task.OwnerID = model.DefaultOwnerID
	if len(resources) > 0 {
		task.OwnerID = resources[0]
	}

	task.Actuals = splitActuals(effort, resources, task.Start, task.Finish)

	return task
}

// statusFromPercent derives the task status purely from percent complete.
func statusFromPercent(pc float64) string {
	switch {
	case pc <= 0:
		return model.StatusReady
	case pc < 100:
		return model.StatusInProgress
	default:
		return model.StatusCompleted
	}
}

// splitActuals emits one actuals record per resolved resource with the effort
// divided per head, or a single unassigned record when nothing resolved.
// Percent complete is never split.
func splitActuals(effort EffortValues, resources []int64, start, finish *time.Time) []model.Actuals {
	record := func(v EffortValues, resourceID *int64) model.Actuals {
		a := model.Actuals{
			ResourceID:      resourceID,
			ScheduledEffort: v.ScheduledEffort,
			ActualEffort:    v.ActualEffort,
			RemainingEffort: v.RemainingEffort,
			PercentComplete: v.PercentComplete,
		}
		if v.PercentComplete > 0 {
			a.ActualStart = start
		}
		if v.PercentComplete >= 100 {
			a.ActualFinish = finish
		}
		return a
	}

	if len(resources) == 0 {
		return []model.Actuals{record(effort, nil)}
	}

	n := float64(len(resources))
	share := EffortValues{
		ActualEffort:    effort.ActualEffort / n,
		ScheduledEffort: effort.ScheduledEffort / n,
		RemainingEffort: effort.RemainingEffort / n,
		PercentComplete: effort.PercentComplete,
	}

	actuals := make([]model.Actuals, 0, len(resources))
	for i := range resources {
		actuals = append(actuals, record(share, &resources[i]))
	}
	return actuals
}

func mapName(cells map[string]model.Cell, columnID string) string {
	if columnID == "" {
		return ""
	}
	if v := cellValue(cells, columnID); v != "" {
		return v
	}
	return placeholderName
}

func mapDate(cells map[string]model.Cell, columnID string) *time.Time {
	if columnID == "" {
		return nil
	}
	return parseCellDate(cellValue(cells, columnID))
}

// parseCellDate parses a stored date value, returning nil on blank or
// unparsable text so the host falls back to its default date.
func parseCellDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if !strings.Contains(raw, "T") {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			log.Printf("ignoring unparsable date %q: %v", raw, err)
			return nil
		}
		return &t
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	log.Printf("ignoring unparsable date-time %q", raw)
	return nil
}

// mapResources resolves the mapped cell to zero or one resource id. The value
// is treated as an email when it contains "@", with a username lookup as
// fallback; anything else contributes no resource.
func mapResources(cells map[string]model.Cell, columnID string, people PersonResolver) []int64 {
	if columnID == "" || people == nil {
		return nil
	}

	v := strings.TrimSpace(cellValue(cells, columnID))
	if v == "" || !strings.Contains(v, "@") {
		return nil
	}

	if id, ok := people.ResolveByEmail(v); ok {
		return []int64{id}
	}
	if id, ok := people.ResolveByUsername(v); ok {
		return []int64{id}
	}
	log.Printf("no resource found for %q", v)
	return nil
}

func cellValue(cells map[string]model.Cell, columnID string) string {
	if columnID == "" {
		return ""
	}
	cell, ok := cells[columnID]
	if !ok || cell.Value == nil {
		return ""
	}
	return *cell.Value
}

// cellDisplayValue prefers the formatted display value, which is the one
// carrying the "%" suffix for percentage columns, falling back to the raw
// value when no display value was stored.
func cellDisplayValue(cells map[string]model.Cell, columnID string) string {
	if columnID == "" {
		return ""
	}
	cell, ok := cells[columnID]
	if !ok {
		return ""
	}
	if cell.DisplayValue != "" {
		return cell.DisplayValue
	}
	if cell.Value != nil {
		return *cell.Value
	}
	return ""
}
