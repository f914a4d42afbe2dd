// Package service contains the listing business logic: query execution,
// ownership-scoped mutations and the status lifecycle.
package service

import (
	"context"

	"lostpaws_backend/internal/events"
	"lostpaws_backend/internal/listings/domain"
	"lostpaws_backend/internal/listings/query"
	"lostpaws_backend/internal/listings/repository"
	"lostpaws_backend/internal/listings/transport"
	"lostpaws_backend/platform/apperr"
	"lostpaws_backend/platform/logger"

	"github.com/google/uuid"
)

// ListingService orchestrates listing reads and writes on top of the
// repository. Ownership is never decided from a prior read: scoped writes
// carry the author in the statement itself.
type ListingService struct {
	repo repository.ListingRepository
	bus  events.Bus
	log  *logger.Logger
}

// NewListingService creates the listing service.
func NewListingService(repo repository.ListingRepository, bus events.Bus, log *logger.Logger) *ListingService {
	return &ListingService{repo: repo, bus: bus, log: log}
}

// List executes a validated query and returns one page plus pagination
// metadata computed from the pre-pagination total.
func (s *ListingService) List(ctx context.Context, q query.Query) (*transport.ListListingsResponse, error) {
	listings, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + q.Limit - 1) / q.Limit
	}

	items := make([]transport.ListingResponse, 0, len(listings))
	for _, l := range listings {
		items = append(items, transport.NewListingResponse(l))
	}

	return &transport.ListListingsResponse{
		Data: items,
		Pagination: transport.Pagination{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// GetByID returns a single listing regardless of status. Resolved listings
// stay reachable by direct link even though the default feed hides them.
func (s *ListingService) GetByID(ctx context.Context, id uuid.UUID) (*transport.ListingResponse, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := transport.NewListingResponse(*listing)
	return &resp, nil
}

// Create persists a new listing for the author. Status always starts active
// and the author comes from the verified identity, never the payload.
func (s *ListingService) Create(ctx context.Context, authorID uuid.UUID, req transport.CreateListingRequest) (*transport.ListingResponse, error) {
	params := repository.InsertParams{
		Type:            domain.Type(req.Type),
		Species:         domain.Species(req.Species),
		Region:          req.Region,
		Subregion:       req.Subregion,
		LocationDetails: req.LocationDetails,
		EventDate:       req.EventDate,
		Title:           req.Title,
		Description:     req.Description,
		ImageURL:        req.ImageURL,
		SpecialMarks:    req.SpecialMarks,
		IsAggressive:    req.IsAggressive != nil && *req.IsAggressive,
		IsFearful:       req.IsFearful != nil && *req.IsFearful,
		Status:          domain.StatusActive,
		AuthorID:        authorID,
	}
	if req.Size != nil {
		size := domain.Size(*req.Size)
		params.Size = &size
	}
	if req.Color != nil {
		params.Color = req.Color
	}
	if req.AgeRange != nil {
		ageRange := domain.AgeRange(*req.AgeRange)
		params.AgeRange = &ageRange
	}

	id, err := s.repo.Insert(ctx, params)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.ListingCreated{
		BaseEvent: events.NewBaseEvent(),
		ListingID: created.ID,
		AuthorID:  created.AuthorID,
		Type:      string(created.Type),
		Species:   string(created.Species),
		Region:    created.Region,
	})
	s.log.Info("listing created", "listingId", created.ID, "authorId", created.AuthorID)

	resp := transport.NewListingResponse(*created)
	return &resp, nil
}

// Update applies a partial update on behalf of the author. The status
// lifecycle is one-way: writing the current value back is a no-op, writing
// active over resolved is rejected.
func (s *ListingService) Update(ctx context.Context, id, authorID uuid.UUID, req transport.UpdateListingRequest) (*transport.ListingResponse, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Ownership is decided before any patch semantics: a non-owner gets 403
	// even for a no-op patch, and never sees status-rule detail.
	if existing.AuthorID != authorID {
		return nil, apperr.Forbidden("you do not own this listing")
	}

	var statusChange *domain.Status
	if req.Status != nil {
		next := domain.Status(*req.Status)
		if !existing.Status.CanTransitionTo(next) {
			return nil, apperr.ValidationFields("invalid status transition", []apperr.FieldError{
				{Field: "status", Message: "a resolved listing cannot be reactivated"},
			})
		}
		if next != existing.Status {
			statusChange = &next
		}
	}

	params := s.buildUpdateParams(id, authorID, req, statusChange)
	if !params.HasChanges() {
		resp := transport.NewListingResponse(*existing)
		return &resp, nil
	}

	updated, err := s.repo.Update(ctx, params)
	if err != nil {
		return nil, err
	}
	if !updated {
		// The scoped write matched nothing. Either the row vanished since the
		// read or it belongs to someone else.
		return nil, s.classifyMiss(ctx, id)
	}

	if statusChange != nil && *statusChange == domain.StatusResolved {
		s.bus.Publish(ctx, events.ListingResolved{
			BaseEvent: events.NewBaseEvent(),
			ListingID: id,
			AuthorID:  authorID,
		})
		s.log.Info("listing resolved", "listingId", id, "authorId", authorID)
	}

	fresh, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := transport.NewListingResponse(*fresh)
	return &resp, nil
}

// Delete removes a listing on behalf of the author.
func (s *ListingService) Delete(ctx context.Context, id, authorID uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id, authorID)
	if err != nil {
		return err
	}
	if !deleted {
		return s.classifyMiss(ctx, id)
	}

	s.bus.Publish(ctx, events.ListingDeleted{
		BaseEvent: events.NewBaseEvent(),
		ListingID: id,
		AuthorID:  authorID,
	})
	s.log.Info("listing deleted", "listingId", id, "authorId", authorID)
	return nil
}

// classifyMiss disambiguates a scoped write that affected no rows: a missing
// listing is 404, an existing listing owned by someone else is 403.
func (s *ListingService) classifyMiss(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.AuthorOf(ctx, id); err != nil {
		return err
	}
	return apperr.Forbidden("you do not own this listing")
}

func (s *ListingService) buildUpdateParams(id, authorID uuid.UUID, req transport.UpdateListingRequest, statusChange *domain.Status) repository.UpdateParams {
	params := repository.UpdateParams{
		ID:           id,
		AuthorID:     authorID,
		Title:        req.Title,
		Region:       req.Region,
		Subregion:    req.Subregion,
		EventDate:    req.EventDate,
		ImageURL:     req.ImageURL,
		IsAggressive: req.IsAggressive,
		IsFearful:    req.IsFearful,
		Status:       statusChange,
	}
	if req.Type != nil {
		t := domain.Type(*req.Type)
		params.Type = &t
	}
	if req.Species != nil {
		sp := domain.Species(*req.Species)
		params.Species = &sp
	}
	if req.Description.Set {
		params.Description = repository.Patch[string]{Set: true, Value: req.Description.Value}
	}
	if req.LocationDetails.Set {
		params.LocationDetails = repository.Patch[string]{Set: true, Value: req.LocationDetails.Value}
	}
	if req.Size.Set {
		params.Size = repository.Patch[domain.Size]{Set: true}
		if req.Size.Value != nil {
			size := domain.Size(*req.Size.Value)
			params.Size.Value = &size
		}
	}
	if req.Color.Set {
		params.Color = repository.Patch[string]{Set: true, Value: req.Color.Value}
	}
	if req.AgeRange.Set {
		params.AgeRange = repository.Patch[domain.AgeRange]{Set: true}
		if req.AgeRange.Value != nil {
			ageRange := domain.AgeRange(*req.AgeRange.Value)
			params.AgeRange.Value = &ageRange
		}
	}
	if req.SpecialMarks.Set {
		params.SpecialMarks = repository.Patch[string]{Set: true, Value: req.SpecialMarks.Value}
	}
	return params
}
