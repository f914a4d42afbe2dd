// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"lostpaws_backend/platform/events"
	"lostpaws_backend/platform/logger"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
// This is a convenience re-export from platform/events.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Listings Domain Events
// =============================================================================

// ListingCreated is published when a new listing is created.
type ListingCreated struct {
	BaseEvent
	ListingID uuid.UUID `json:"listingId"`
	AuthorID  uuid.UUID `json:"authorId"`
	Type      string    `json:"type"`
	Species   string    `json:"species"`
	Region    string    `json:"region"`
}

func (e ListingCreated) EventName() string { return "listings.listing.created" }

// ListingResolved is published when a listing transitions from active to
// resolved. The transition is one-way, so this fires at most once per listing.
type ListingResolved struct {
	BaseEvent
	ListingID uuid.UUID `json:"listingId"`
	AuthorID  uuid.UUID `json:"authorId"`
}

func (e ListingResolved) EventName() string { return "listings.listing.resolved" }

// ListingDeleted is published when a listing is removed by its author.
type ListingDeleted struct {
	BaseEvent
	ListingID uuid.UUID `json:"listingId"`
	AuthorID  uuid.UUID `json:"authorId"`
}

func (e ListingDeleted) EventName() string { return "listings.listing.deleted" }
