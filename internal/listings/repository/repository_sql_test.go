package repository

import (
	"strings"
	"testing"

	"lostpaws_backend/internal/listings/domain"
	"lostpaws_backend/internal/listings/query"

	"github.com/google/uuid"
)

func strPtr(s string) *string { return &s }

func TestBuildListFiltersDefault(t *testing.T) {
	q, err := query.Build(query.Params{})
	if err != nil {
		t.Fatalf("build query: %v", err)
	}

	where, args := buildListFilters(q)
	if where != "WHERE l.status = $1" {
		t.Fatalf("where = %q", where)
	}
	if len(args) != 1 || args[0] != domain.StatusActive {
		t.Fatalf("args = %v, want [active]", args)
	}
}

func TestBuildListFiltersColorUsesILIKE(t *testing.T) {
	q, err := query.Build(query.Params{Color: "bro"})
	if err != nil {
		t.Fatalf("build query: %v", err)
	}

	where, args := buildListFilters(q)
	if !strings.Contains(where, "l.color ILIKE $2") {
		t.Fatalf("where = %q, want ILIKE clause", where)
	}
	if args[1] != "%bro%" {
		t.Fatalf("color arg = %v, want %%bro%%", args[1])
	}
}

func TestBuildListFiltersDateBoundsInclusive(t *testing.T) {
	q, err := query.Build(query.Params{EventDateFrom: "2025-01-01", EventDateTo: "2025-02-01"})
	if err != nil {
		t.Fatalf("build query: %v", err)
	}

	where, _ := buildListFilters(q)
	if !strings.Contains(where, "l.event_date >= $2") {
		t.Errorf("missing inclusive lower bound: %q", where)
	}
	if !strings.Contains(where, "l.event_date <= $3") {
		t.Errorf("missing inclusive upper bound: %q", where)
	}
}

func TestBuildListFiltersPlaceholdersMatchArgs(t *testing.T) {
	q, err := query.Build(query.Params{
		Type:      "found",
		Species:   "cat",
		Region:    "pomorskie",
		Subregion: "gdansk",
		Size:      "small",
		Color:     "black",
		AgeRange:  "young",
		AuthorID:  uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("build query: %v", err)
	}

	where, args := buildListFilters(q)
	// status + 8 filters
	if len(args) != 9 {
		t.Fatalf("got %d args: %v", len(args), args)
	}
	if strings.Count(where, "$") != len(args) {
		t.Fatalf("placeholder count mismatch: %q with %d args", where, len(args))
	}
	if !strings.Contains(where, " AND ") {
		t.Fatalf("clauses not joined with AND: %q", where)
	}
}

func TestBuildUpdateScopesToAuthor(t *testing.T) {
	p := UpdateParams{
		ID:       uuid.New(),
		AuthorID: uuid.New(),
		Title:    strPtr("Updated title"),
	}

	sql, args := buildUpdate(p)
	if !strings.Contains(sql, "WHERE id = $3 AND author_id = $4") {
		t.Fatalf("update not scoped to author: %q", sql)
	}
	// title, updated_at, id, author_id
	if len(args) != 4 {
		t.Fatalf("got %d args: %v", len(args), args)
	}
	if args[0] != "Updated title" {
		t.Fatalf("title arg = %v", args[0])
	}
}

func TestBuildUpdateClearsNullableColumns(t *testing.T) {
	p := UpdateParams{
		ID:       uuid.New(),
		AuthorID: uuid.New(),
		Color:    PatchNull[string](),
		Size:     Patch[domain.Size]{Set: true, Value: ptrSize(domain.SizeLarge)},
	}

	sql, args := buildUpdate(p)
	if !strings.Contains(sql, "color = $1") {
		t.Fatalf("missing color assignment: %q", sql)
	}
	if args[0] != (*string)(nil) {
		t.Fatalf("cleared column should bind NULL, got %v", args[0])
	}
	if !strings.Contains(sql, "size = $2") {
		t.Fatalf("missing size assignment: %q", sql)
	}
	if *args[1].(*domain.Size) != domain.SizeLarge {
		t.Fatalf("size arg = %v", args[1])
	}
}

func TestBuildUpdateAlwaysTouchesUpdatedAt(t *testing.T) {
	p := UpdateParams{ID: uuid.New(), AuthorID: uuid.New(), Status: ptrStatus(domain.StatusResolved)}

	sql, _ := buildUpdate(p)
	if !strings.Contains(sql, "updated_at = $") {
		t.Fatalf("updated_at not set: %q", sql)
	}
	if !strings.Contains(sql, "status = $1") {
		t.Fatalf("status not set: %q", sql)
	}
}

func TestUpdateParamsHasChanges(t *testing.T) {
	empty := UpdateParams{ID: uuid.New(), AuthorID: uuid.New()}
	if empty.HasChanges() {
		t.Fatal("empty patch reports changes")
	}

	withClear := empty
	withClear.Description = PatchNull[string]()
	if !withClear.HasChanges() {
		t.Fatal("clearing a column is a change")
	}
}

func ptrSize(s domain.Size) *domain.Size       { return &s }
func ptrStatus(s domain.Status) *domain.Status { return &s }
