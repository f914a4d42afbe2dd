// Package listings wires the lost/found listing feature: the filtered feed,
// single reads and ownership-scoped mutations.
package listings

import (
	apphttp "lostpaws_backend/internal/http"
	"lostpaws_backend/internal/listings/handler"
	"lostpaws_backend/internal/listings/repository"
	"lostpaws_backend/internal/listings/service"
	"lostpaws_backend/internal/listings/transport"
	"lostpaws_backend/platform/events"
	"lostpaws_backend/platform/logger"
	"lostpaws_backend/platform/validator"
)

// Module bundles the listings feature for registration with the HTTP router.
type Module struct {
	handler *handler.ListingHandler
}

// NewModule wires the listings service and handler on top of any
// ListingRepository implementation.
func NewModule(repo repository.ListingRepository, val *validator.Validator, bus events.Bus, log *logger.Logger) *Module {
	val.RegisterCustomTypeFunc(transport.OptionalStringValue, transport.Optional[string]{})

	svc := service.NewListingService(repo, bus, log)
	h := handler.NewListingHandler(svc, val, log)

	return &Module{handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "listings"
}

// RegisterRoutes mounts the listing endpoints. Reads are public; mutations
// require authentication and share the per-IP write rate limit.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/listings", m.handler.List)
	ctx.V1.GET("/listings/:id", m.handler.Get)

	writes := ctx.Protected.Group("")
	writes.Use(ctx.WriteRateLimiter.RateLimit())
	writes.POST("/listings", m.handler.Create)
	writes.PATCH("/listings/:id", m.handler.Update)
	writes.DELETE("/listings/:id", m.handler.Delete)
}

var _ apphttp.Module = (*Module)(nil)
