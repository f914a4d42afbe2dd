// Package handler exposes the listings HTTP endpoints.
package handler

import (
	"net/http"

	"lostpaws_backend/internal/listings/query"
	"lostpaws_backend/internal/listings/service"
	"lostpaws_backend/internal/listings/transport"
	"lostpaws_backend/platform/apperr"
	"lostpaws_backend/platform/httpkit"
	"lostpaws_backend/platform/logger"
	"lostpaws_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListingHandler handles listing HTTP requests.
type ListingHandler struct {
	svc *service.ListingService
	val *validator.Validator
	log *logger.Logger
}

// NewListingHandler creates the listings HTTP handler.
func NewListingHandler(svc *service.ListingService, val *validator.Validator, log *logger.Logger) *ListingHandler {
	return &ListingHandler{svc: svc, val: val, log: log}
}

// List handles GET /listings. Unknown query parameters are ignored; invalid
// values of recognized parameters are all reported in one response.
func (h *ListingHandler) List(c *gin.Context) {
	q, err := query.Build(query.FromValues(c.Request.URL.Query()))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	result, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.JSON(c, http.StatusOK, result)
}

// Get handles GET /listings/:id.
func (h *ListingHandler) Get(c *gin.Context) {
	id, ok := h.listingID(c)
	if !ok {
		return
	}

	listing, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, listing)
}

// Create handles POST /listings.
func (h *ListingHandler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.CreateListingRequest
	if err := httpkit.BindStrictJSON(c, &req); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.ValidationFields("invalid request body", validator.FieldErrors(err)))
		return
	}

	listing, err := h.svc.Create(c.Request.Context(), identity.UserID(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, listing)
}

// Update handles PATCH /listings/:id.
func (h *ListingHandler) Update(c *gin.Context) {
	id, ok := h.listingID(c)
	if !ok {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.UpdateListingRequest
	if err := httpkit.BindStrictJSON(c, &req); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.ValidationFields("invalid request body", validator.FieldErrors(err)))
		return
	}

	listing, err := h.svc.Update(c.Request.Context(), id, identity.UserID(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, listing)
}

// Delete handles DELETE /listings/:id.
func (h *ListingHandler) Delete(c *gin.Context) {
	id, ok := h.listingID(c)
	if !ok {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, identity.UserID()); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.NoContent(c)
}

// listingID parses the path parameter. A malformed ID is a validation error,
// not a not found, so typos are distinguishable from deleted listings.
func (h *ListingHandler) listingID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.ValidationFields("invalid listing id", []apperr.FieldError{
			{Field: "id", Message: "must be a valid UUID"},
		}))
		return uuid.Nil, false
	}
	return id, true
}
