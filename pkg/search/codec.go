package search

import (
	"net/url"
	"strconv"
)

const dateLayout = "2006-01-02"

// Encode renders the filter state and page as a canonical URL query string.
// Defaults are omitted so a pristine search produces an empty query: no
// status=active, no page=1. Dates encode as the local calendar date.
func Encode(f FilterState, page int) string {
	values := url.Values{}

	setOpt := func(key string, v *string) {
		if v != nil {
			values.Set(key, *v)
		}
	}
	setOpt("type", f.Type)
	setOpt("species", f.Species)
	setOpt("region", f.Region)
	setOpt("subregion", f.Subregion)
	setOpt("size", f.Size)
	setOpt("color", f.Color)
	setOpt("ageRange", f.AgeRange)
	if f.DateFrom != nil {
		values.Set("eventDateFrom", f.DateFrom.Format(dateLayout))
	}
	if f.DateTo != nil {
		values.Set("eventDateTo", f.DateTo.Format(dateLayout))
	}
	if f.EffectiveStatus() != DefaultStatus {
		values.Set("status", f.EffectiveStatus())
	}
	if page > 1 {
		values.Set("page", strconv.Itoa(page))
	}

	return values.Encode()
}

// Decode restores filter state and page from a raw query string. Decoding is
// best-effort and never fails: malformed input, unknown keys and invalid
// values fall back to defaults so any shared or hand-edited URL still loads.
func Decode(rawQuery string) (FilterState, int) {
	var f FilterState
	page := 1

	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return f, page
	}

	for _, field := range []Field{
		FieldType, FieldSpecies, FieldRegion, FieldSubregion,
		FieldSize, FieldColor, FieldAgeRange,
		FieldDateFrom, FieldDateTo, FieldStatus,
	} {
		if v := values.Get(string(field)); v != "" {
			f.Set(field, v)
		}
	}

	if raw := values.Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 1 {
			page = v
		}
	}

	// An inverted date range would always return nothing; drop the lower
	// bound rather than ship a dead query.
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		f.DateFrom = nil
	}

	return f, page
}

// queryValues renders the filter as API request parameters, always explicit
// about status so the server default never diverges from the client state.
func queryValues(f FilterState, page, limit int) url.Values {
	values, _ := url.ParseQuery(Encode(f, 1))
	values.Set("status", f.EffectiveStatus())
	values.Set("page", strconv.Itoa(page))
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	return values
}
