package query

import (
	"net/url"
	"testing"

	"lostpaws_backend/internal/listings/domain"
	"lostpaws_backend/platform/apperr"
)

func TestBuildDefaults(t *testing.T) {
	q, err := Build(Params{})
	if err != nil {
		t.Fatalf("Build(empty) returned error: %v", err)
	}

	if q.Status != domain.StatusActive {
		t.Errorf("default status = %s, want active", q.Status)
	}
	if q.Page != 1 || q.Limit != 20 {
		t.Errorf("default page/limit = %d/%d, want 1/20", q.Page, q.Limit)
	}
	if q.OrderBy != domain.OrderByCreatedAt || q.Order != domain.OrderDesc {
		t.Errorf("default ordering = %s %s, want createdAt desc", q.OrderBy, q.Order)
	}
	if q.Type != nil || q.Species != nil || q.Color != nil || q.AuthorID != nil {
		t.Error("optional filters should default to nil")
	}
}

func TestBuildValidInput(t *testing.T) {
	q, err := Build(Params{
		Type:          "lost",
		Species:       "dog",
		Region:        "mazowieckie",
		Subregion:     "warszawa",
		Size:          "medium",
		Color:         "brown",
		AgeRange:      "adult",
		EventDateFrom: "2025-01-01",
		EventDateTo:   "2025-06-30",
		Status:        "resolved",
		AuthorID:      "7f8f0c9a-4f09-4b62-97ad-6a4a04a24f2b",
		Page:          "3",
		Limit:         "50",
		OrderBy:       "eventDate",
		Order:         "asc",
	})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if *q.Type != domain.TypeLost || *q.Species != domain.SpeciesDog {
		t.Errorf("type/species = %s/%s", *q.Type, *q.Species)
	}
	if q.Status != domain.StatusResolved {
		t.Errorf("status = %s, want resolved", q.Status)
	}
	if q.Page != 3 || q.Limit != 50 {
		t.Errorf("page/limit = %d/%d, want 3/50", q.Page, q.Limit)
	}
	if q.Offset() != 100 {
		t.Errorf("Offset() = %d, want 100", q.Offset())
	}
	if q.OrderBy != domain.OrderByEventDate || q.Order != domain.OrderAsc {
		t.Errorf("ordering = %s %s", q.OrderBy, q.Order)
	}
}

func TestBuildCollectsAllErrors(t *testing.T) {
	_, err := Build(Params{
		Type:    "stolen",
		Species: "parrot",
		Size:    "giant",
		Page:    "zero",
		Limit:   "9999",
		Order:   "sideways",
	})
	if err == nil {
		t.Fatal("Build should fail")
	}

	appErr, ok := err.(*apperr.Error)
	if !ok {
		t.Fatalf("error is %T, want *apperr.Error", err)
	}
	if appErr.Kind != apperr.KindValidation {
		t.Fatalf("kind = %v, want validation", appErr.Kind)
	}

	fields, ok := appErr.Details.([]apperr.FieldError)
	if !ok {
		t.Fatalf("details are %T, want []apperr.FieldError", appErr.Details)
	}
	if len(fields) != 6 {
		t.Fatalf("got %d field errors, want 6: %+v", len(fields), fields)
	}

	seen := map[string]bool{}
	for _, f := range fields {
		seen[f.Field] = true
	}
	for _, want := range []string{"type", "species", "size", "page", "limit", "order"} {
		if !seen[want] {
			t.Errorf("missing field error for %q", want)
		}
	}
}

func TestBuildDateValidation(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{"valid range", Params{EventDateFrom: "2025-01-01", EventDateTo: "2025-01-31"}, false},
		{"equal bounds", Params{EventDateFrom: "2025-01-15", EventDateTo: "2025-01-15"}, false},
		{"inverted range", Params{EventDateFrom: "2025-02-01", EventDateTo: "2025-01-01"}, true},
		{"bad format", Params{EventDateFrom: "01-02-2025"}, true},
		{"impossible date", Params{EventDateTo: "2025-02-30"}, true},
		{"not a date", Params{EventDateFrom: "soon"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.params)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Build() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildPaginationBounds(t *testing.T) {
	for _, bad := range []string{"0", "-1", "1.5", "abc"} {
		if _, err := Build(Params{Page: bad}); err == nil {
			t.Errorf("page %q should be rejected", bad)
		}
	}
	for _, bad := range []string{"0", "101", "-5"} {
		if _, err := Build(Params{Limit: bad}); err == nil {
			t.Errorf("limit %q should be rejected", bad)
		}
	}
	if q, err := Build(Params{Limit: "100"}); err != nil || q.Limit != 100 {
		t.Errorf("limit 100 should be accepted, got %v", err)
	}
}

func TestFromValuesIgnoresUnknownKeys(t *testing.T) {
	values, _ := url.ParseQuery("species=cat&utm_source=newsletter&foo=bar")
	q, err := Build(FromValues(values))
	if err != nil {
		t.Fatalf("unknown keys must not fail the query: %v", err)
	}
	if q.Species == nil || *q.Species != domain.SpeciesCat {
		t.Fatal("recognized key was not decoded")
	}
}

func TestFromValuesEmptyValuesAreAbsent(t *testing.T) {
	values, _ := url.ParseQuery("type=&color=")
	q, err := Build(FromValues(values))
	if err != nil {
		t.Fatalf("empty values should fall back to defaults: %v", err)
	}
	if q.Type != nil || q.Color != nil {
		t.Fatal("empty values should leave filters unset")
	}
}
