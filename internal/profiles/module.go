// Package profiles exposes read-only public profile lookups, the same
// projection embedded as the author on listings.
package profiles

import (
	apphttp "lostpaws_backend/internal/http"
	"lostpaws_backend/internal/profiles/handler"
	"lostpaws_backend/internal/profiles/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module bundles the profiles feature for registration with the HTTP router.
type Module struct {
	handler *handler.ProfileHandler
}

// NewModule wires the profiles repository and handler.
func NewModule(pool *pgxpool.Pool) *Module {
	repo := repository.NewPostgresProfileRepository(pool)
	return &Module{handler: handler.NewProfileHandler(repo)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "profiles"
}

// RegisterRoutes mounts the profile endpoints. Reads are public.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/profiles/:id", m.handler.Get)
}

var _ apphttp.Module = (*Module)(nil)
