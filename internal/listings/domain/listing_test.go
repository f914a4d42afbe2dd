package domain

import "testing"

func TestStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"active to resolved", StatusActive, StatusResolved, true},
		{"active to active", StatusActive, StatusActive, true},
		{"resolved to resolved", StatusResolved, StatusResolved, true},
		{"resolved to active", StatusResolved, StatusActive, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Fatalf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestParseRejectsUnknownLiterals(t *testing.T) {
	if _, ok := ParseType("stolen"); ok {
		t.Fatal("ParseType accepted unknown literal")
	}
	if _, ok := ParseSpecies("parrot"); ok {
		t.Fatal("ParseSpecies accepted unknown literal")
	}
	if _, ok := ParseSize("giant"); ok {
		t.Fatal("ParseSize accepted unknown literal")
	}
	if _, ok := ParseAgeRange("puppy"); ok {
		t.Fatal("ParseAgeRange accepted unknown literal")
	}
	if _, ok := ParseStatus("archived"); ok {
		t.Fatal("ParseStatus accepted unknown literal")
	}
	if _, ok := ParseOrderBy("title"); ok {
		t.Fatal("ParseOrderBy accepted unknown literal")
	}
	if _, ok := ParseOrder("random"); ok {
		t.Fatal("ParseOrder accepted unknown literal")
	}
}

func TestParseIsCaseSensitive(t *testing.T) {
	if _, ok := ParseType("Lost"); ok {
		t.Fatal("ParseType should not accept mixed case")
	}
	if v, ok := ParseType("lost"); !ok || v != TypeLost {
		t.Fatalf("ParseType(lost) = %q, %v", v, ok)
	}
}

func TestOrderByColumn(t *testing.T) {
	if got := OrderByCreatedAt.Column(); got != "created_at" {
		t.Fatalf("OrderByCreatedAt.Column() = %q", got)
	}
	if got := OrderByEventDate.Column(); got != "event_date" {
		t.Fatalf("OrderByEventDate.Column() = %q", got)
	}
}
