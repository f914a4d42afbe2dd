package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lostpaws_backend/internal/events"
	"lostpaws_backend/internal/listings/domain"
	"lostpaws_backend/internal/listings/query"
	"lostpaws_backend/internal/listings/repository"
	"lostpaws_backend/internal/listings/service"
	"lostpaws_backend/internal/listings/transport"
	"lostpaws_backend/platform/apperr"
	"lostpaws_backend/platform/httpkit"
	"lostpaws_backend/platform/logger"
	"lostpaws_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type memRepo struct {
	listings map[uuid.UUID]*domain.Listing
}

func newMemRepo() *memRepo {
	return &memRepo{listings: make(map[uuid.UUID]*domain.Listing)}
}

func (m *memRepo) seed(l domain.Listing) uuid.UUID {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	m.listings[l.ID] = &l
	return l.ID
}

func (m *memRepo) List(_ context.Context, q query.Query) ([]domain.Listing, int, error) {
	matched := []domain.Listing{}
	for _, l := range m.listings {
		if l.Status != q.Status {
			continue
		}
		if q.Type != nil && l.Type != *q.Type {
			continue
		}
		if q.Species != nil && l.Species != *q.Species {
			continue
		}
		if q.Color != nil && (l.Color == nil || !strings.Contains(strings.ToLower(*l.Color), strings.ToLower(*q.Color))) {
			continue
		}
		matched = append(matched, *l)
	}
	return matched, len(matched), nil
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Listing, error) {
	l, ok := m.listings[id]
	if !ok {
		return nil, apperr.NotFound("listing not found")
	}
	copied := *l
	return &copied, nil
}

func (m *memRepo) Insert(_ context.Context, p repository.InsertParams) (uuid.UUID, error) {
	eventDate, _ := time.ParseInLocation("2006-01-02", p.EventDate, time.Local)
	return m.seed(domain.Listing{
		Type: p.Type, Species: p.Species,
		Region: p.Region, Subregion: p.Subregion,
		EventDate: eventDate, Title: p.Title, ImageURL: p.ImageURL,
		Status: p.Status, AuthorID: p.AuthorID,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}), nil
}

func (m *memRepo) Update(_ context.Context, p repository.UpdateParams) (bool, error) {
	l, ok := m.listings[p.ID]
	if !ok || l.AuthorID != p.AuthorID {
		return false, nil
	}
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	return true, nil
}

func (m *memRepo) Delete(_ context.Context, id, authorID uuid.UUID) (bool, error) {
	l, ok := m.listings[id]
	if !ok || l.AuthorID != authorID {
		return false, nil
	}
	delete(m.listings, id)
	return true, nil
}

func (m *memRepo) AuthorOf(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	l, ok := m.listings[id]
	if !ok {
		return uuid.Nil, apperr.NotFound("listing not found")
	}
	return l.AuthorID, nil
}

// setupRouter mounts the handler the way the module does. When user is not
// nil the protected group behaves as if that user passed authentication.
func setupRouter(repo repository.ListingRepository, user *uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.New("development")
	val := validator.New()
	val.RegisterCustomTypeFunc(transport.OptionalStringValue, transport.Optional[string]{})

	svc := service.NewListingService(repo, events.NewInMemoryBus(log), log)
	h := NewListingHandler(svc, val, log)

	engine := gin.New()
	v1 := engine.Group("/api/v1")
	v1.GET("/listings", h.List)
	v1.GET("/listings/:id", h.Get)

	protected := v1.Group("")
	if user != nil {
		id := *user
		protected.Use(func(c *gin.Context) {
			c.Set(httpkit.ContextUserIDKey, id)
			c.Next()
		})
	}
	protected.POST("/listings", h.Create)
	protected.PATCH("/listings/:id", h.Update)
	protected.DELETE("/listings/:id", h.Delete)

	return engine
}

func doRequest(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httpkit.ErrorResponse {
	t.Helper()
	var resp httpkit.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error envelope: %v (%s)", err, rec.Body.String())
	}
	return resp
}

func seedListing(repo *memRepo, author uuid.UUID, typ domain.Type, species domain.Species) uuid.UUID {
	return repo.seed(domain.Listing{
		Type: typ, Species: species,
		Region: "mazowieckie", Subregion: "warszawa",
		EventDate: time.Now().AddDate(0, 0, -2),
		Title:     "Lost brown labrador", ImageURL: "https://example.com/dog.jpg",
		Status: domain.StatusActive, AuthorID: author,
	})
}

func TestListFiltersAndPagination(t *testing.T) {
	repo := newMemRepo()
	author := uuid.New()
	seedListing(repo, author, domain.TypeLost, domain.SpeciesDog)
	seedListing(repo, author, domain.TypeLost, domain.SpeciesDog)
	seedListing(repo, author, domain.TypeFound, domain.SpeciesDog)
	seedListing(repo, author, domain.TypeLost, domain.SpeciesCat)
	engine := setupRouter(repo, nil)

	rec := doRequest(engine, http.MethodGet, "/api/v1/listings?type=lost&species=dog", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp transport.ListListingsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 2 || resp.Pagination.Total != 2 {
		t.Fatalf("got %d listings, total %d, want 2/2", len(resp.Data), resp.Pagination.Total)
	}
	if resp.Pagination.Page != 1 || resp.Pagination.Limit != 20 {
		t.Fatalf("pagination defaults = %+v", resp.Pagination)
	}
}

func TestListInvalidParamsReportedTogether(t *testing.T) {
	engine := setupRouter(newMemRepo(), nil)

	rec := doRequest(engine, http.MethodGet, "/api/v1/listings?species=parrot&page=0", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}

	resp := decodeError(t, rec)
	if resp.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("code = %q", resp.Error.Code)
	}
	details, ok := resp.Error.Details.([]interface{})
	if !ok || len(details) != 2 {
		t.Fatalf("details = %v, want two field errors", resp.Error.Details)
	}
}

func TestListIgnoresUnknownParams(t *testing.T) {
	repo := newMemRepo()
	seedListing(repo, uuid.New(), domain.TypeLost, domain.SpeciesDog)
	engine := setupRouter(repo, nil)

	rec := doRequest(engine, http.MethodGet, "/api/v1/listings?utm_source=poster&whatever=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetUnknownIDIs404(t *testing.T) {
	engine := setupRouter(newMemRepo(), nil)

	rec := doRequest(engine, http.MethodGet, "/api/v1/listings/"+uuid.NewString(), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error.Code != "NOT_FOUND" {
		t.Fatalf("code = %q", resp.Error.Code)
	}
}

func TestGetMalformedIDIs400(t *testing.T) {
	engine := setupRouter(newMemRepo(), nil)

	rec := doRequest(engine, http.MethodGet, "/api/v1/listings/not-a-uuid", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCreateRequiresAuthentication(t *testing.T) {
	engine := setupRouter(newMemRepo(), nil)

	rec := doRequest(engine, http.MethodPost, "/api/v1/listings", `{"title":"x"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error.Code != "UNAUTHORIZED" {
		t.Fatalf("code = %q", resp.Error.Code)
	}
}

func TestCreateHappyPath(t *testing.T) {
	author := uuid.New()
	engine := setupRouter(newMemRepo(), &author)

	body := `{
		"title": "Lost brown labrador",
		"type": "lost",
		"species": "dog",
		"region": "mazowieckie",
		"subregion": "warszawa",
		"eventDate": "2025-03-08",
		"imageUrl": "https://example.com/dog.jpg"
	}`
	rec := doRequest(engine, http.MethodPost, "/api/v1/listings", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data transport.ListingResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Status != "active" {
		t.Errorf("status = %q, want active", resp.Data.Status)
	}
	if resp.Data.AuthorID != author {
		t.Errorf("authorId = %s, want %s", resp.Data.AuthorID, author)
	}
}

func TestCreateRejectsUnknownBodyField(t *testing.T) {
	author := uuid.New()
	engine := setupRouter(newMemRepo(), &author)

	rec := doRequest(engine, http.MethodPost, "/api/v1/listings", `{"title":"Lost dog","authorId":"spoofed"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateValidationErrorsAreComplete(t *testing.T) {
	author := uuid.New()
	engine := setupRouter(newMemRepo(), &author)

	// Missing everything except an invalid species and too-short title.
	rec := doRequest(engine, http.MethodPost, "/api/v1/listings", `{"title":"ab","species":"parrot"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}

	resp := decodeError(t, rec)
	details, ok := resp.Error.Details.([]interface{})
	if !ok {
		t.Fatalf("details = %v", resp.Error.Details)
	}
	if len(details) < 6 {
		t.Fatalf("got %d field errors, want all missing fields reported: %v", len(details), details)
	}
}

func TestUpdateByNonOwnerIs403(t *testing.T) {
	repo := newMemRepo()
	owner := uuid.New()
	id := seedListing(repo, owner, domain.TypeLost, domain.SpeciesDog)

	intruder := uuid.New()
	engine := setupRouter(repo, &intruder)

	rec := doRequest(engine, http.MethodPatch, "/api/v1/listings/"+id.String(), `{"title":"Hijacked title"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if resp := decodeError(t, rec); resp.Error.Code != "FORBIDDEN" {
		t.Fatalf("code = %q", resp.Error.Code)
	}
}

func TestResolveFlow(t *testing.T) {
	repo := newMemRepo()
	owner := uuid.New()
	id := seedListing(repo, owner, domain.TypeLost, domain.SpeciesDog)
	engine := setupRouter(repo, &owner)

	rec := doRequest(engine, http.MethodPatch, "/api/v1/listings/"+id.String(), `{"status":"resolved"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("resolve status = %d: %s", rec.Code, rec.Body.String())
	}

	// The listing stays readable by ID but leaves the default feed.
	rec = doRequest(engine, http.MethodGet, "/api/v1/listings/"+id.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get after resolve = %d", rec.Code)
	}
	rec = doRequest(engine, http.MethodGet, "/api/v1/listings", "")
	var list transport.ListListingsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list.Pagination.Total != 0 {
		t.Fatalf("resolved listing still in default feed: %+v", list.Pagination)
	}

	// Reactivation is rejected.
	rec = doRequest(engine, http.MethodPatch, "/api/v1/listings/"+id.String(), `{"status":"active"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("reactivate status = %d", rec.Code)
	}
}

func TestDeleteHappyPath(t *testing.T) {
	repo := newMemRepo()
	owner := uuid.New()
	id := seedListing(repo, owner, domain.TypeLost, domain.SpeciesDog)
	engine := setupRouter(repo, &owner)

	rec := doRequest(engine, http.MethodDelete, "/api/v1/listings/"+id.String(), "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = doRequest(engine, http.MethodGet, "/api/v1/listings/"+id.String(), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete = %d", rec.Code)
	}
}
