// Package domain defines the listing entity and its closed enum types.
// Invalid enum literals are unrepresentable for internal callers; external
// input goes through the Parse constructors and surfaces structured
// validation failures instead of panics.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Type classifies a listing as a lost or found report.
type Type string

const (
	TypeLost  Type = "lost"
	TypeFound Type = "found"
)

// TypeValues lists the permitted type literals.
func TypeValues() []string { return []string{string(TypeLost), string(TypeFound)} }

// ParseType validates a raw literal against the closed set.
func ParseType(raw string) (Type, bool) {
	switch Type(raw) {
	case TypeLost, TypeFound:
		return Type(raw), true
	}
	return "", false
}

// Species identifies the animal species.
type Species string

const (
	SpeciesDog Species = "dog"
	SpeciesCat Species = "cat"
)

// SpeciesValues lists the permitted species literals.
func SpeciesValues() []string { return []string{string(SpeciesDog), string(SpeciesCat)} }

// ParseSpecies validates a raw literal against the closed set.
func ParseSpecies(raw string) (Species, bool) {
	switch Species(raw) {
	case SpeciesDog, SpeciesCat:
		return Species(raw), true
	}
	return "", false
}

// Size is the coarse animal size bucket.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// SizeValues lists the permitted size literals.
func SizeValues() []string {
	return []string{string(SizeSmall), string(SizeMedium), string(SizeLarge)}
}

// ParseSize validates a raw literal against the closed set.
func ParseSize(raw string) (Size, bool) {
	switch Size(raw) {
	case SizeSmall, SizeMedium, SizeLarge:
		return Size(raw), true
	}
	return "", false
}

// AgeRange is the coarse animal age bucket.
type AgeRange string

const (
	AgeYoung  AgeRange = "young"
	AgeAdult  AgeRange = "adult"
	AgeSenior AgeRange = "senior"
)

// AgeRangeValues lists the permitted age range literals.
func AgeRangeValues() []string {
	return []string{string(AgeYoung), string(AgeAdult), string(AgeSenior)}
}

// ParseAgeRange validates a raw literal against the closed set.
func ParseAgeRange(raw string) (AgeRange, bool) {
	switch AgeRange(raw) {
	case AgeYoung, AgeAdult, AgeSenior:
		return AgeRange(raw), true
	}
	return "", false
}

// Status is the listing lifecycle state. The lifecycle is one-way:
// a listing starts active and may only advance to resolved.
type Status string

const (
	StatusActive   Status = "active"
	StatusResolved Status = "resolved"
)

// StatusValues lists the permitted status literals.
func StatusValues() []string {
	return []string{string(StatusActive), string(StatusResolved)}
}

// ParseStatus validates a raw literal against the closed set.
func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusActive, StatusResolved:
		return Status(raw), true
	}
	return "", false
}

// CanTransitionTo reports whether the status may change to next. Same-value
// writes are no-ops and always allowed; resolved never reverts to active.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	return s == StatusActive && next == StatusResolved
}

// OrderBy is the whitelisted sort key for listing queries.
type OrderBy string

const (
	OrderByCreatedAt OrderBy = "createdAt"
	OrderByEventDate OrderBy = "eventDate"
)

// OrderByValues lists the permitted sort key literals.
func OrderByValues() []string {
	return []string{string(OrderByCreatedAt), string(OrderByEventDate)}
}

// ParseOrderBy validates a raw literal against the closed set.
func ParseOrderBy(raw string) (OrderBy, bool) {
	switch OrderBy(raw) {
	case OrderByCreatedAt, OrderByEventDate:
		return OrderBy(raw), true
	}
	return "", false
}

// Column returns the database column backing the sort key.
func (o OrderBy) Column() string {
	if o == OrderByEventDate {
		return "event_date"
	}
	return "created_at"
}

// Order is the sort direction.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// OrderValues lists the permitted sort direction literals.
func OrderValues() []string { return []string{string(OrderAsc), string(OrderDesc)} }

// ParseOrder validates a raw literal against the closed set.
func ParseOrder(raw string) (Order, bool) {
	switch Order(raw) {
	case OrderAsc, OrderDesc:
		return Order(raw), true
	}
	return "", false
}

// Author is the public profile embedded in listing reads. Only safe fields
// are exposed; private profile data never leaves the profiles module.
type Author struct {
	ID        uuid.UUID
	Username  string
	AvatarURL *string
	JoinedAt  time.Time
}

// Listing is the central entity: a lost/found animal report.
// ID, AuthorID and CreatedAt are write-once; Status only advances
// active -> resolved; EventDate is never in the future.
type Listing struct {
	ID              uuid.UUID
	Type            Type
	Species         Species
	Region          string
	Subregion       string
	LocationDetails *string
	EventDate       time.Time
	Title           string
	Description     *string
	ImageURL        string
	Size            *Size
	Color           *string
	AgeRange        *AgeRange
	SpecialMarks    *string
	IsAggressive    bool
	IsFearful       bool
	Status          Status
	AuthorID        uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Author is the joined public profile, nil when the profile row is missing.
	Author *Author
}
