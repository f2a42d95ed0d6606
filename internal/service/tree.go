package service

import (
	"strings"

	"github.com/MicroFocus/ppm-smartsheet-connector/internal/model"
)

// AssembleTree builds a forest from the flat, ordered task list of one sheet.
// A task whose parent id is blank or does not match any id in the list
// becomes a root; otherwise it is attached under its parent. Input order is
// preserved among roots and among siblings. Dangling and foreign parent ids
// fall back to root placement, so a single linear pass suffices.
func AssembleTree(tasks []*model.Task) []*model.Task {
	byID := make(map[string]*model.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	var roots []*model.Task
	for _, t := range tasks {
		parent, ok := byID[t.ParentID]
		if strings.TrimSpace(t.ParentID) == "" || !ok {
			roots = append(roots, t)
			continue
		}
		parent.Children = append(parent.Children, t)
	}
	return roots
}
