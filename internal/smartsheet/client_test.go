package smartsheet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const sheetJSON = `{
	"id": 4583173393803140,
	"name": "Release Plan",
	"columns": [
		{"id": 7960873114331012, "index": 0, "title": "Task Name", "type": "TEXT_NUMBER"},
		{"id": 642523719853956, "index": 1, "title": "Done", "type": "TEXT_NUMBER"}
	],
	"rows": [
		{
			"id": 6572427401553796,
			"rowNumber": 1,
			"cells": [
				{"columnId": 7960873114331012, "value": "Ship it", "displayValue": "Ship it"},
				{"columnId": 642523719853956, "value": 0.25, "displayValue": "25%"}
			]
		},
		{
			"id": 6572427401553797,
			"rowNumber": 2,
			"parentId": 6572427401553796,
			"cells": [
				{"columnId": 7960873114331012, "value": null}
			]
		}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient("test-token")
	client.BaseURL = srv.URL
	return client, srv
}

func TestFetchSheet(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("expected bearer auth, got %q", got)
		}
		if r.Header.Get("X-B3-TraceId") == "" {
			t.Error("expected trace id header")
		}
		if !strings.Contains(r.URL.RawQuery, "includeAll=true") {
			t.Errorf("expected includeAll query, got %q", r.URL.RawQuery)
		}
		w.Write([]byte(sheetJSON))
	})

	sheet, err := client.FetchSheet(context.Background(), "4583173393803140")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sheet.ID != "4583173393803140" {
		t.Errorf("expected numeric id kept verbatim as string, got %q", sheet.ID)
	}
	if len(sheet.Columns) != 2 || sheet.Columns[0].Title != "Task Name" {
		t.Fatalf("unexpected columns: %+v", sheet.Columns)
	}
	if len(sheet.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(sheet.Rows))
	}

	first := sheet.Rows[0]
	if first.ParentID != "" {
		t.Errorf("expected no parent on first row, got %q", first.ParentID)
	}
	if v := first.Cells[1]; v.Value == nil || *v.Value != "0.25" || v.DisplayValue != "25%" {
		t.Errorf("expected numeric cell normalized to string with display kept, got %+v", v)
	}

	second := sheet.Rows[1]
	if second.ParentID != "6572427401553796" {
		t.Errorf("expected parent id, got %q", second.ParentID)
	}
	if second.Cells[0].Value != nil {
		t.Errorf("expected null cell value to stay nil, got %q", *second.Cells[0].Value)
	}
	if !second.IsBlank() {
		t.Error("row with only null cells should be blank")
	}
}

func TestFetchSheetColumns_Cached(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if !strings.Contains(r.URL.RawQuery, "rowIds=1") {
			t.Errorf("expected rowIds=1 query, got %q", r.URL.RawQuery)
		}
		w.Write([]byte(sheetJSON))
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		sheet, err := client.FetchSheetColumns(ctx, "4583173393803140")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sheet.Rows) != 0 {
			t.Errorf("column fetch should carry no rows, got %d", len(sheet.Rows))
		}
	}
	if calls != 1 {
		t.Errorf("expected a single upstream call, got %d", calls)
	}

	// Switching credentials must drop the cache.
	client.SetToken("other-token")
	if _, err := client.FetchSheetColumns(ctx, "4583173393803140"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected cache invalidation after token change, got %d calls", calls)
	}

	// Same token again is a no-op.
	client.SetToken("other-token")
	if _, err := client.FetchSheetColumns(ctx, "4583173393803140"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected cache kept for unchanged token, got %d calls", calls)
	}
}

func TestFetchHome(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"sheets": [{"id": 1, "name": "Root Sheet"}],
			"folders": [{"id": 2, "name": "Archive", "folders": [{"id": 3, "name": "2019"}]}],
			"workspaces": [{"id": 4, "name": "W", "sheets": [{"id": 5, "name": "S"}]}]
		}`))
	})

	home, err := client.FetchHome(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(home.Sheets) != 1 || home.Sheets[0].Name != "Root Sheet" {
		t.Errorf("unexpected root sheets: %+v", home.Sheets)
	}
	if len(home.Folders) != 1 || len(home.Folders[0].Folders) != 1 {
		t.Errorf("expected nested folder, got %+v", home.Folders)
	}
	if len(home.Workspaces) != 1 || len(home.Workspaces[0].Sheets) != 1 {
		t.Errorf("expected workspace with one sheet, got %+v", home.Workspaces)
	}
}

func TestFetchUsers(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [
			{"id": 11, "email": "ana@example.com", "firstName": "Ana", "lastName": "Lima"},
			{"id": 12, "email": "bob@example.com", "name": "Bob"}
		]}`))
	})

	users, err := client.FetchUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].ID != 11 || users[0].Name != "Ana Lima" {
		t.Errorf("expected name built from first/last, got %+v", users[0])
	}
	if users[1].Name != "Bob" {
		t.Errorf("expected explicit name kept, got %+v", users[1])
	}
}

func TestDoRequest_ErrorStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorCode": 1006, "message": "Not Found"}`, http.StatusNotFound)
	})

	_, err := client.FetchSheet(context.Background(), "123")
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("expected status code in error, got %v", err)
	}
}
