package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/lgbarn/chessql-go/internal/query"
)

func testResponse() *query.Response {
	return &query.Response{
		Columns: []string{"id", "white_elo", "opening"},
		Results: []map[string]any{
			{"id": "scout", "white_elo": int64(1800), "opening": "Scotch Game"},
			{"id": "sac", "white_elo": nil, "opening": []byte("Italian Game")},
		},
		Count:      2,
		TotalCount: 5,
		PageNo:     1,
		Limit:      2,
		TotalPages: 3,
		HasNext:    true,
	}
}

func TestNew(t *testing.T) {
	for _, format := range []string{"table", "JSON", "csv", ""} {
		if _, err := New(format, &bytes.Buffer{}); err != nil {
			t.Errorf("New(%q) error = %v", format, err)
		}
	}
	if _, err := New("xml", &bytes.Buffer{}); err == nil {
		t.Error("New(xml) returned nil error")
	}
}

func TestTableWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTableWriter(&buf).WriteResponse(testResponse()); err != nil {
		t.Fatalf("WriteResponse() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		"ID     WHITE_ELO  OPENING",
		"scout  1800       Scotch Game",
		"sac    NULL       Italian Game",
		"rows 1-2 of 5 (page 1 of 3)",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	for i := range want {
		if strings.TrimRight(lines[i], " ") != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestTableWriter_Empty(t *testing.T) {
	var buf bytes.Buffer
	resp := &query.Response{Columns: []string{"id"}, TotalCount: 0, PageNo: 1}
	if err := NewTableWriter(&buf).WriteResponse(resp); err != nil {
		t.Fatalf("WriteResponse() error = %v", err)
	}
	if !strings.Contains(buf.String(), "no rows (0 total)") {
		t.Errorf("output = %q, want empty footer", buf.String())
	}
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONWriter(&buf).WriteResponse(testResponse()); err != nil {
		t.Fatalf("WriteResponse() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if got["total_count"] != float64(5) {
		t.Errorf("total_count = %v, want 5", got["total_count"])
	}
	if got["has_next"] != true {
		t.Errorf("has_next = %v, want true", got["has_next"])
	}
}

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCSVWriter(&buf).WriteResponse(testResponse()); err != nil {
		t.Fatalf("WriteResponse() error = %v", err)
	}
	want := "id,white_elo,opening\nscout,1800,Scotch Game\nsac,NULL,Italian Game\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}
