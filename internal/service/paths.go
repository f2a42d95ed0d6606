package service

import (
	"strings"

	"github.com/MicroFocus/ppm-smartsheet-connector/internal/model"
)

// HomePath prefixes sheets sitting directly in the Home root.
const HomePath = "[Home]/"

// Container key prefixes let a single flat selector value distinguish
// "restrict to workspace X" from "restrict to folder X".
const (
	workspaceKeyPrefix = "W"
	folderKeyPrefix    = "F"
)

// SheetRef is one sheet found during container traversal, together with the
// fully qualified display path it was found under.
type SheetRef struct {
	Sheet model.Sheet `json:"sheet"`
	Path  string      `json:"path"`
}

// FullName is path + sheet name, the label shown to users picking a sheet.
func (r SheetRef) FullName() string {
	return r.Path + r.Sheet.Name
}

// ContainerOption is one selectable workspace or folder in the restriction
// dropdown. Key carries a one-letter type tag followed by the raw id.
type ContainerOption struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// ListSheets flattens the Home tree into (sheet, path) pairs, optionally
// restricted to one workspace or folder subtree. An empty restriction lists
// everything; an unknown or malformed restriction yields an empty result,
// never an error.
func ListSheets(home model.Home, restriction string) []SheetRef {
	if restriction == "" {
		return AllSheets(home)
	}
	if id, ok := strings.CutPrefix(restriction, workspaceKeyPrefix); ok {
		return WorkspaceSheets(home, id)
	}
	if id, ok := strings.CutPrefix(restriction, folderKeyPrefix); ok {
		return FolderSheets(home, id)
	}
	return nil
}

// AllSheets lists every sheet in the Home tree in traversal order: Home-root
// sheets first, then workspace sheets, then root-folder sheets. Workspace
// names are bracketed in paths; root folders carry no Home prefix.
func AllSheets(home model.Home) []SheetRef {
	refs := appendSheets(nil, home.Sheets, HomePath)

	for _, ws := range home.Workspaces {
		refs = appendWorkspaceSheets(refs, ws, true)
	}

	for _, folder := range home.Folders {
		refs = appendFolderSheets(refs, folder, "")
	}

	return refs
}

// WorkspaceSheets lists the sheets of one workspace and its nested folders.
// The workspace's own bracketed name is omitted from paths since the scope is
// already the workspace. A blank or unknown id yields an empty result.
func WorkspaceSheets(home model.Home, workspaceID string) []SheetRef {
	if strings.TrimSpace(workspaceID) == "" {
		return nil
	}
	for _, ws := range home.Workspaces {
		if ws.ID == workspaceID {
			return appendWorkspaceSheets(nil, ws, false)
		}
	}
	return nil
}

// FolderSheets lists the sheets of one folder and its sub-folders, without
// any ancestor prefix. The folder is searched depth-first among Home folders
// first, then inside every workspace.
func FolderSheets(home model.Home, folderID string) []SheetRef {
	if strings.TrimSpace(folderID) == "" {
		return nil
	}

	folder := findFolder(home.Folders, folderID)
	if folder == nil {
		for _, ws := range home.Workspaces {
			if folder = findFolder(ws.Folders, folderID); folder != nil {
				break
			}
		}
	}
	if folder == nil {
		return nil
	}

	return appendFolderSheets(nil, *folder, "")
}

// AllContainers lists every workspace and every folder (root and nested,
// across all workspaces) for populating the restriction selector.
func AllContainers(home model.Home) []ContainerOption {
	var opts []ContainerOption

	for _, ws := range home.Workspaces {
		opts = append(opts, ContainerOption{
			Key:  workspaceKeyPrefix + ws.ID,
			Name: ws.Name,
			Path: "[" + ws.Name + "]",
		})
		opts = appendFolderOptions(opts, ws.Folders, "["+ws.Name+"]/")
	}

	opts = appendFolderOptions(opts, home.Folders, "")

	return opts
}

func appendFolderOptions(opts []ContainerOption, folders []model.Folder, parentPath string) []ContainerOption {
	for _, f := range folders {
		opts = append(opts, ContainerOption{
			Key:  folderKeyPrefix + f.ID,
			Name: f.Name,
			Path: parentPath + f.Name,
		})
		opts = appendFolderOptions(opts, f.Folders, parentPath+f.Name+"/")
	}
	return opts
}

func findFolder(folders []model.Folder, folderID string) *model.Folder {
	for i := range folders {
		if folders[i].ID == folderID {
			return &folders[i]
		}
		if found := findFolder(folders[i].Folders, folderID); found != nil {
			return found
		}
	}
	return nil
}

func appendWorkspaceSheets(refs []SheetRef, ws model.Workspace, includeWorkspaceInPath bool) []SheetRef {
	path := ""
	if includeWorkspaceInPath {
		path = "[" + ws.Name + "]/"
	}

	refs = appendSheets(refs, ws.Sheets, path)
	for _, folder := range ws.Folders {
		refs = appendFolderSheets(refs, folder, path)
	}
	return refs
}

func appendFolderSheets(refs []SheetRef, folder model.Folder, parentPath string) []SheetRef {
	path := parentPath + folder.Name + "/"

	refs = appendSheets(refs, folder.Sheets, path)
	for _, sub := range folder.Folders {
		refs = appendFolderSheets(refs, sub, path)
	}
	return refs
}

func appendSheets(refs []SheetRef, sheets []model.Sheet, path string) []SheetRef {
	for _, sheet := range sheets {
		sheet.Path = path
		refs = append(refs, SheetRef{Sheet: sheet, Path: path})
	}
	return refs
}
