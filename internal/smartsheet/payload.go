package smartsheet

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MicroFocus/ppm-smartsheet-connector/internal/model"
)

// Wire shapes of the Smartsheet API. Object ids are numeric on the wire and
// kept as opaque strings in the model; cell values may be string, number or
// boolean and are normalized to their string form.

type homePayload struct {
	Sheets     []sheetPayload     `json:"sheets"`
	Folders    []folderPayload    `json:"folders"`
	Workspaces []workspacePayload `json:"workspaces"`
}

type workspacePayload struct {
	ID      json.Number     `json:"id"`
	Name    string          `json:"name"`
	Folders []folderPayload `json:"folders"`
	Sheets  []sheetPayload  `json:"sheets"`
}

type folderPayload struct {
	ID      json.Number     `json:"id"`
	Name    string          `json:"name"`
	Folders []folderPayload `json:"folders"`
	Sheets  []sheetPayload  `json:"sheets"`
}

type sheetPayload struct {
	ID      json.Number     `json:"id"`
	Name    string          `json:"name"`
	Columns []columnPayload `json:"columns"`
	Rows    []rowPayload    `json:"rows"`
}

type columnPayload struct {
	ID    json.Number `json:"id"`
	Index int         `json:"index"`
	Title string      `json:"title"`
	Type  string      `json:"type"`
}

type rowPayload struct {
	ID        json.Number   `json:"id"`
	RowNumber int           `json:"rowNumber"`
	ParentID  json.Number   `json:"parentId"`
	Cells     []cellPayload `json:"cells"`
}

type cellPayload struct {
	ColumnID     json.Number `json:"columnId"`
	Value        any         `json:"value"`
	DisplayValue string      `json:"displayValue"`
}

type userPayload struct {
	ID        json.Number `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
}

func (p homePayload) toModel() model.Home {
	home := model.Home{}
	for _, s := range p.Sheets {
		home.Sheets = append(home.Sheets, s.toModel())
	}
	for _, f := range p.Folders {
		home.Folders = append(home.Folders, f.toModel())
	}
	for _, w := range p.Workspaces {
		home.Workspaces = append(home.Workspaces, model.Workspace{
			ID:      w.ID.String(),
			Name:    w.Name,
			Folders: foldersToModel(w.Folders),
			Sheets:  sheetsToModel(w.Sheets),
		})
	}
	return home
}

func (p folderPayload) toModel() model.Folder {
	return model.Folder{
		ID:      p.ID.String(),
		Name:    p.Name,
		Folders: foldersToModel(p.Folders),
		Sheets:  sheetsToModel(p.Sheets),
	}
}

func (p sheetPayload) toModel() model.Sheet {
	sheet := model.Sheet{
		ID:   p.ID.String(),
		Name: p.Name,
	}
	for _, c := range p.Columns {
		sheet.Columns = append(sheet.Columns, model.Column{
			ID:    c.ID.String(),
			Index: c.Index,
			Title: c.Title,
			Type:  c.Type,
		})
	}
	for _, r := range p.Rows {
		row := model.Row{
			ID:        r.ID.String(),
			RowNumber: r.RowNumber,
			ParentID:  r.ParentID.String(),
		}
		for _, c := range r.Cells {
			cell := model.Cell{
				ColumnID:     c.ColumnID.String(),
				DisplayValue: c.DisplayValue,
			}
			if c.Value != nil {
				v := valueString(c.Value)
				cell.Value = &v
			}
			row.Cells = append(row.Cells, cell)
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}

func (p userPayload) toModel() model.User {
	id, _ := p.ID.Int64()
	name := p.Name
	if name == "" {
		name = strings.TrimSpace(p.FirstName + " " + p.LastName)
	}
	return model.User{ID: id, Name: name, Email: p.Email}
}

func foldersToModel(payloads []folderPayload) []model.Folder {
	var out []model.Folder
	for _, f := range payloads {
		out = append(out, f.toModel())
	}
	return out
}

func sheetsToModel(payloads []sheetPayload) []model.Sheet {
	var out []model.Sheet
	for _, s := range payloads {
		out = append(out, s.toModel())
	}
	return out
}

func valueString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
