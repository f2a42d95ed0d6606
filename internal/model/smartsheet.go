package model

// Smartsheet data as consumed by the connector: sheets with typed columns and
// hierarchical rows, nested in folders and workspaces fetched from the Home tree.

type Column struct {
	ID    string `json:"id"`
	Index int    `json:"index"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// Cell holds one column's value within a row. Value is the raw stored value and
// is nil when the cell is empty; DisplayValue is the formatted representation,
// which differs from Value for percentage columns (raw is a fraction, display
// is "25%").
type Cell struct {
	ColumnID     string  `json:"column_id"`
	Value        *string `json:"value"`
	DisplayValue string  `json:"display_value,omitempty"`
}

type Row struct {
	ID        string `json:"id"`
	RowNumber int    `json:"row_number"`
	ParentID  string `json:"parent_id,omitempty"`
	Cells     []Cell `json:"cells"`
}

// IsBlank reports whether the row carries no data at all. Blank rows never
// become tasks and never participate in parent/child linkage.
func (r Row) IsBlank() bool {
	if len(r.Cells) == 0 {
		return true
	}
	for _, c := range r.Cells {
		if c.Value != nil {
			return false
		}
	}
	return true
}

// CellsByColumn indexes the row's cells by column id. At most one cell exists
// per column.
func (r Row) CellsByColumn() map[string]Cell {
	out := make(map[string]Cell, len(r.Cells))
	for _, c := range r.Cells {
		out[c.ColumnID] = c
	}
	return out
}

type Sheet struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Path    string   `json:"path,omitempty"`
	Columns []Column `json:"columns,omitempty"`
	Rows    []Row    `json:"rows,omitempty"`
}

// FullName is the display name qualified by the workspace/folder path the
// sheet was found under.
func (s Sheet) FullName() string {
	if s.Path == "" {
		return s.Name
	}
	return s.Path + s.Name
}

type Folder struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Folders []Folder `json:"folders,omitempty"`
	Sheets  []Sheet  `json:"sheets,omitempty"`
}

// Workspace contains folders and sheets. Workspaces do not nest.
type Workspace struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Folders []Folder `json:"folders,omitempty"`
	Sheets  []Sheet  `json:"sheets,omitempty"`
}

// Home is the root container listing returned by the Smartsheet Home API.
type Home struct {
	Sheets     []Sheet     `json:"sheets"`
	Folders    []Folder    `json:"folders"`
	Workspaces []Workspace `json:"workspaces"`
}
