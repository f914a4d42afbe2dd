// Package search is the consumer-side companion to the listings API: a typed
// filter model, a URL query codec, an HTTP client and a fetch orchestrator
// that keeps filter state, pagination and results consistent.
package search

import "time"

// Field names a filter key accepted by Set.
type Field string

const (
	FieldType      Field = "type"
	FieldSpecies   Field = "species"
	FieldRegion    Field = "region"
	FieldSubregion Field = "subregion"
	FieldSize      Field = "size"
	FieldColor     Field = "color"
	FieldAgeRange  Field = "ageRange"
	FieldDateFrom  Field = "eventDateFrom"
	FieldDateTo    Field = "eventDateTo"
	FieldStatus    Field = "status"
)

var enumFields = map[Field][]string{
	FieldType:     {"lost", "found"},
	FieldSpecies:  {"dog", "cat"},
	FieldSize:     {"small", "medium", "large"},
	FieldAgeRange: {"young", "adult", "senior"},
	FieldStatus:   {"active", "resolved"},
}

// DefaultStatus is the status applied when none is chosen.
const DefaultStatus = "active"

// FilterState holds the active listing filters. Nil fields are unset; Status
// falls back to DefaultStatus when nil. Dates are calendar dates in the
// user's local time.
type FilterState struct {
	Type      *string
	Species   *string
	Region    *string
	Subregion *string
	Size      *string
	Color     *string
	AgeRange  *string
	DateFrom  *time.Time
	DateTo    *time.Time
	Status    *string
}

// EffectiveStatus returns the status filter with the default applied.
func (f FilterState) EffectiveStatus() string {
	if f.Status != nil {
		return *f.Status
	}
	return DefaultStatus
}

// Set assigns one filter field from its string form. An empty value unsets
// the field. Unknown fields and invalid enum or date values are ignored, so
// stale input can never corrupt the state.
func (f *FilterState) Set(field Field, value string) {
	if value == "" {
		f.unset(field)
		return
	}
	if allowed, ok := enumFields[field]; ok && !contains(allowed, value) {
		return
	}

	switch field {
	case FieldType:
		f.Type = &value
	case FieldSpecies:
		f.Species = &value
	case FieldRegion:
		f.Region = &value
	case FieldSubregion:
		f.Subregion = &value
	case FieldSize:
		f.Size = &value
	case FieldColor:
		f.Color = &value
	case FieldAgeRange:
		f.AgeRange = &value
	case FieldStatus:
		f.Status = &value
	case FieldDateFrom:
		if t, err := time.ParseInLocation(dateLayout, value, time.Local); err == nil {
			f.DateFrom = &t
		}
	case FieldDateTo:
		if t, err := time.ParseInLocation(dateLayout, value, time.Local); err == nil {
			f.DateTo = &t
		}
	}
}

func (f *FilterState) unset(field Field) {
	switch field {
	case FieldType:
		f.Type = nil
	case FieldSpecies:
		f.Species = nil
	case FieldRegion:
		f.Region = nil
	case FieldSubregion:
		f.Subregion = nil
	case FieldSize:
		f.Size = nil
	case FieldColor:
		f.Color = nil
	case FieldAgeRange:
		f.AgeRange = nil
	case FieldStatus:
		f.Status = nil
	case FieldDateFrom:
		f.DateFrom = nil
	case FieldDateTo:
		f.DateTo = nil
	}
}

// Clear resets every filter to its default.
func (f *FilterState) Clear() {
	*f = FilterState{}
}

// Equals reports whether two filter states select the same listings.
func (f FilterState) Equals(other FilterState) bool {
	return eqStr(f.Type, other.Type) &&
		eqStr(f.Species, other.Species) &&
		eqStr(f.Region, other.Region) &&
		eqStr(f.Subregion, other.Subregion) &&
		eqStr(f.Size, other.Size) &&
		eqStr(f.Color, other.Color) &&
		eqStr(f.AgeRange, other.AgeRange) &&
		eqDate(f.DateFrom, other.DateFrom) &&
		eqDate(f.DateTo, other.DateTo) &&
		f.EffectiveStatus() == other.EffectiveStatus()
}

// Pagination mirrors the server's pagination metadata.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func eqStr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Format(dateLayout) == b.Format(dateLayout)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
