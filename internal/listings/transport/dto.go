// Package transport defines the HTTP request and response shapes for the
// listings API.
package transport

import (
	"encoding/json"
	"reflect"
	"time"

	"lostpaws_backend/internal/listings/domain"

	"github.com/google/uuid"
)

// Optional is a tri-state JSON field for partial updates. An absent field
// leaves Set false; an explicit null sets Set with a nil Value; anything else
// sets both. This lets a patch distinguish "leave unchanged" from "clear".
type Optional[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON is only invoked when the field is present in the payload.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// OptionalStringValue unwraps Optional[string] for validation. Unset or null
// fields report as empty so omitempty rules skip them.
func OptionalStringValue(field reflect.Value) interface{} {
	if o, ok := field.Interface().(Optional[string]); ok && o.Value != nil {
		return *o.Value
	}
	return nil
}

// CreateListingRequest is the payload for creating a listing. The author and
// initial status are never part of the payload.
type CreateListingRequest struct {
	Title           string  `json:"title" validate:"required,min=3,max=200"`
	Type            string  `json:"type" validate:"required,oneof=lost found"`
	Species         string  `json:"species" validate:"required,oneof=dog cat"`
	Region          string  `json:"region" validate:"required,min=1,max=100"`
	Subregion       string  `json:"subregion" validate:"required,min=1,max=100"`
	EventDate       string  `json:"eventDate" validate:"required,isodate,pastdate"`
	ImageURL        string  `json:"imageUrl" validate:"required,url"`
	Description     *string `json:"description" validate:"omitempty,max=2000"`
	LocationDetails *string `json:"locationDetails" validate:"omitempty,max=500"`
	Size            *string `json:"size" validate:"omitempty,oneof=small medium large"`
	Color           *string `json:"color" validate:"omitempty,max=50"`
	AgeRange        *string `json:"ageRange" validate:"omitempty,oneof=young adult senior"`
	SpecialMarks    *string `json:"specialMarks" validate:"omitempty,max=500"`
	IsAggressive    *bool   `json:"isAggressive"`
	IsFearful       *bool   `json:"isFearful"`
}

// UpdateListingRequest is the payload for partially updating a listing.
// Required columns use plain pointers (absent means unchanged, null is a type
// error); clearable columns use Optional so null empties them.
type UpdateListingRequest struct {
	Title           *string          `json:"title" validate:"omitempty,min=3,max=200"`
	Type            *string          `json:"type" validate:"omitempty,oneof=lost found"`
	Species         *string          `json:"species" validate:"omitempty,oneof=dog cat"`
	Region          *string          `json:"region" validate:"omitempty,min=1,max=100"`
	Subregion       *string          `json:"subregion" validate:"omitempty,min=1,max=100"`
	EventDate       *string          `json:"eventDate" validate:"omitempty,isodate,pastdate"`
	ImageURL        *string          `json:"imageUrl" validate:"omitempty,url"`
	Status          *string          `json:"status" validate:"omitempty,oneof=active resolved"`
	Description     Optional[string] `json:"description" validate:"omitempty,max=2000"`
	LocationDetails Optional[string] `json:"locationDetails" validate:"omitempty,max=500"`
	Size            Optional[string] `json:"size" validate:"omitempty,oneof=small medium large"`
	Color           Optional[string] `json:"color" validate:"omitempty,max=50"`
	AgeRange        Optional[string] `json:"ageRange" validate:"omitempty,oneof=young adult senior"`
	SpecialMarks    Optional[string] `json:"specialMarks" validate:"omitempty,max=500"`
	IsAggressive    *bool            `json:"isAggressive"`
	IsFearful       *bool            `json:"isFearful"`
}

// AuthorResponse is the public profile embedded in listing responses.
type AuthorResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	AvatarURL *string   `json:"avatarUrl"`
	JoinedAt  string    `json:"joinedAt"`
}

// ListingResponse is the API shape of a listing.
type ListingResponse struct {
	ID              uuid.UUID       `json:"id"`
	Type            string          `json:"type"`
	Species         string          `json:"species"`
	Region          string          `json:"region"`
	Subregion       string          `json:"subregion"`
	LocationDetails *string         `json:"locationDetails"`
	EventDate       string          `json:"eventDate"`
	Title           string          `json:"title"`
	Description     *string         `json:"description"`
	ImageURL        string          `json:"imageUrl"`
	Size            *string         `json:"size"`
	Color           *string         `json:"color"`
	AgeRange        *string         `json:"ageRange"`
	SpecialMarks    *string         `json:"specialMarks"`
	IsAggressive    bool            `json:"isAggressive"`
	IsFearful       bool            `json:"isFearful"`
	Status          string          `json:"status"`
	AuthorID        uuid.UUID       `json:"authorId"`
	CreatedAt       string          `json:"createdAt"`
	UpdatedAt       string          `json:"updatedAt"`
	Author          *AuthorResponse `json:"author"`
}

// Pagination describes one page of a listing query result.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ListListingsResponse is the envelope for a listing query: one page of data
// plus pagination metadata, at the top level with no extra wrapping.
type ListListingsResponse struct {
	Data       []ListingResponse `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

// NewListingResponse maps the domain entity to its API shape. Dates render as
// YYYY-MM-DD, timestamps as RFC 3339 UTC.
func NewListingResponse(l domain.Listing) ListingResponse {
	resp := ListingResponse{
		ID:              l.ID,
		Type:            string(l.Type),
		Species:         string(l.Species),
		Region:          l.Region,
		Subregion:       l.Subregion,
		LocationDetails: l.LocationDetails,
		EventDate:       l.EventDate.Format("2006-01-02"),
		Title:           l.Title,
		Description:     l.Description,
		ImageURL:        l.ImageURL,
		Color:           l.Color,
		SpecialMarks:    l.SpecialMarks,
		IsAggressive:    l.IsAggressive,
		IsFearful:       l.IsFearful,
		Status:          string(l.Status),
		AuthorID:        l.AuthorID,
		CreatedAt:       l.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       l.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if l.Size != nil {
		size := string(*l.Size)
		resp.Size = &size
	}
	if l.AgeRange != nil {
		ageRange := string(*l.AgeRange)
		resp.AgeRange = &ageRange
	}
	if l.Author != nil {
		resp.Author = &AuthorResponse{
			ID:        l.Author.ID,
			Username:  l.Author.Username,
			AvatarURL: l.Author.AvatarURL,
			JoinedAt:  l.Author.JoinedAt.UTC().Format(time.RFC3339),
		}
	}
	return resp
}
