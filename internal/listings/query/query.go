// Package query builds validated listing queries from raw request parameters.
// Decoding is total: any input either yields a fully-defaulted Query or a
// validation error listing every invalid parameter, never a partial result.
package query

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"lostpaws_backend/internal/listings/domain"
	"lostpaws_backend/platform/apperr"

	"github.com/google/uuid"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Params holds the raw string form of every recognized query parameter.
// Unrecognized keys are dropped by FromValues, keeping old bookmarked URLs
// working when parameters are renamed.
type Params struct {
	Type          string
	Species       string
	Region        string
	Subregion     string
	Size          string
	Color         string
	AgeRange      string
	EventDateFrom string
	EventDateTo   string
	Status        string
	AuthorID      string
	Page          string
	Limit         string
	OrderBy       string
	Order         string
}

// FromValues extracts the recognized parameters from a parsed query string.
func FromValues(values url.Values) Params {
	return Params{
		Type:          values.Get("type"),
		Species:       values.Get("species"),
		Region:        values.Get("region"),
		Subregion:     values.Get("subregion"),
		Size:          values.Get("size"),
		Color:         values.Get("color"),
		AgeRange:      values.Get("ageRange"),
		EventDateFrom: values.Get("eventDateFrom"),
		EventDateTo:   values.Get("eventDateTo"),
		Status:        values.Get("status"),
		AuthorID:      values.Get("authorId"),
		Page:          values.Get("page"),
		Limit:         values.Get("limit"),
		OrderBy:       values.Get("orderBy"),
		Order:         values.Get("order"),
	}
}

// Query is a fully validated and defaulted listing query. Optional filters
// are nil when absent; pagination and ordering always carry concrete values.
type Query struct {
	Type          *domain.Type
	Species       *domain.Species
	Region        *string
	Subregion     *string
	Size          *domain.Size
	Color         *string
	AgeRange      *domain.AgeRange
	EventDateFrom *string
	EventDateTo   *string
	Status        domain.Status
	AuthorID      *uuid.UUID
	Page          int
	Limit         int
	OrderBy       domain.OrderBy
	Order         domain.Order
}

// Offset returns the row offset implied by the page and limit.
func (q Query) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Build validates every parameter and applies defaults. All invalid
// parameters are reported together in a single validation error.
func Build(p Params) (Query, error) {
	q := Query{
		Status:  domain.StatusActive,
		Page:    DefaultPage,
		Limit:   DefaultLimit,
		OrderBy: domain.OrderByCreatedAt,
		Order:   domain.OrderDesc,
	}
	var fields []apperr.FieldError

	invalid := func(field, message string) {
		fields = append(fields, apperr.FieldError{Field: field, Message: message})
	}
	oneOf := func(values []string) string {
		return "must be one of: " + strings.Join(values, ", ")
	}

	if p.Type != "" {
		if v, ok := domain.ParseType(p.Type); ok {
			q.Type = &v
		} else {
			invalid("type", oneOf(domain.TypeValues()))
		}
	}
	if p.Species != "" {
		if v, ok := domain.ParseSpecies(p.Species); ok {
			q.Species = &v
		} else {
			invalid("species", oneOf(domain.SpeciesValues()))
		}
	}
	if p.Region != "" {
		region := p.Region
		q.Region = &region
	}
	if p.Subregion != "" {
		subregion := p.Subregion
		q.Subregion = &subregion
	}
	if p.Size != "" {
		if v, ok := domain.ParseSize(p.Size); ok {
			q.Size = &v
		} else {
			invalid("size", oneOf(domain.SizeValues()))
		}
	}
	if p.Color != "" {
		color := p.Color
		q.Color = &color
	}
	if p.AgeRange != "" {
		if v, ok := domain.ParseAgeRange(p.AgeRange); ok {
			q.AgeRange = &v
		} else {
			invalid("ageRange", oneOf(domain.AgeRangeValues()))
		}
	}
	if p.EventDateFrom != "" {
		if v, ok := parseISODate(p.EventDateFrom); ok {
			q.EventDateFrom = &v
		} else {
			invalid("eventDateFrom", "must be a date in YYYY-MM-DD format")
		}
	}
	if p.EventDateTo != "" {
		if v, ok := parseISODate(p.EventDateTo); ok {
			q.EventDateTo = &v
		} else {
			invalid("eventDateTo", "must be a date in YYYY-MM-DD format")
		}
	}
	// Valid ISO dates compare correctly as strings.
	if q.EventDateFrom != nil && q.EventDateTo != nil && *q.EventDateFrom > *q.EventDateTo {
		invalid("eventDateFrom", "must not be after eventDateTo")
	}
	if p.Status != "" {
		if v, ok := domain.ParseStatus(p.Status); ok {
			q.Status = v
		} else {
			invalid("status", oneOf(domain.StatusValues()))
		}
	}
	if p.AuthorID != "" {
		if v, err := uuid.Parse(p.AuthorID); err == nil {
			q.AuthorID = &v
		} else {
			invalid("authorId", "must be a valid UUID")
		}
	}
	if p.Page != "" {
		if v, err := strconv.Atoi(p.Page); err == nil && v >= 1 {
			q.Page = v
		} else {
			invalid("page", "must be an integer greater than or equal to 1")
		}
	}
	if p.Limit != "" {
		if v, err := strconv.Atoi(p.Limit); err == nil && v >= 1 && v <= MaxLimit {
			q.Limit = v
		} else {
			invalid("limit", fmt.Sprintf("must be an integer between 1 and %d", MaxLimit))
		}
	}
	if p.OrderBy != "" {
		if v, ok := domain.ParseOrderBy(p.OrderBy); ok {
			q.OrderBy = v
		} else {
			invalid("orderBy", oneOf(domain.OrderByValues()))
		}
	}
	if p.Order != "" {
		if v, ok := domain.ParseOrder(p.Order); ok {
			q.Order = v
		} else {
			invalid("order", oneOf(domain.OrderValues()))
		}
	}

	if len(fields) > 0 {
		return Query{}, apperr.ValidationFields("invalid query parameters", fields)
	}
	return q, nil
}

func parseISODate(raw string) (string, bool) {
	if !isoDatePattern.MatchString(raw) {
		return "", false
	}
	if _, err := time.ParseInLocation("2006-01-02", raw, time.Local); err != nil {
		return "", false
	}
	return raw, true
}
