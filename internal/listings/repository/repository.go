// Package repository provides PostgreSQL persistence for listings.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lostpaws_backend/internal/listings/domain"
	"lostpaws_backend/internal/listings/query"
	"lostpaws_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// ListingRepository defines persistence operations for listings.
type ListingRepository interface {
	// List returns one page of listings matching the query plus the total
	// match count before pagination.
	List(ctx context.Context, q query.Query) ([]domain.Listing, int, error)
	// GetByID returns a single listing with its author embedded.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
	// Insert persists a new listing and returns its generated ID.
	Insert(ctx context.Context, p InsertParams) (uuid.UUID, error)
	// Update applies a partial update scoped to the author and reports
	// whether a row was changed. Ownership is enforced inside the statement.
	Update(ctx context.Context, p UpdateParams) (bool, error)
	// Delete removes a listing scoped to the author and reports whether a
	// row was removed.
	Delete(ctx context.Context, id, authorID uuid.UUID) (bool, error)
	// AuthorOf returns the author of a listing, or a not found error.
	AuthorOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// InsertParams carries the full set of fields for a new listing. Identity,
// status and timestamps are assigned by the database and the service layer.
type InsertParams struct {
	Type            domain.Type
	Species         domain.Species
	Region          string
	Subregion       string
	LocationDetails *string
	EventDate       string
	Title           string
	Description     *string
	ImageURL        string
	Size            *domain.Size
	Color           *string
	AgeRange        *domain.AgeRange
	SpecialMarks    *string
	IsAggressive    bool
	IsFearful       bool
	Status          domain.Status
	AuthorID        uuid.UUID
}

// Patch carries a tri-state value for partial updates: absent (Set false),
// replaced with a value, or cleared to NULL (Set true, Value nil).
type Patch[T any] struct {
	Set   bool
	Value *T
}

// PatchOf builds a set Patch holding v.
func PatchOf[T any](v T) Patch[T] {
	return Patch[T]{Set: true, Value: &v}
}

// PatchNull builds a set Patch clearing the column.
func PatchNull[T any]() Patch[T] {
	return Patch[T]{Set: true}
}

// UpdateParams carries a partial update. Nil pointers mean "leave unchanged";
// Patch fields additionally support clearing to NULL.
type UpdateParams struct {
	ID       uuid.UUID
	AuthorID uuid.UUID

	Title           *string
	Type            *domain.Type
	Species         *domain.Species
	Region          *string
	Subregion       *string
	EventDate       *string
	ImageURL        *string
	IsAggressive    *bool
	IsFearful       *bool
	Status          *domain.Status
	Description     Patch[string]
	LocationDetails Patch[string]
	Size            Patch[domain.Size]
	Color           Patch[string]
	AgeRange        Patch[domain.AgeRange]
	SpecialMarks    Patch[string]
}

// HasChanges reports whether any field of the patch is set.
func (p UpdateParams) HasChanges() bool {
	return p.Title != nil || p.Type != nil || p.Species != nil ||
		p.Region != nil || p.Subregion != nil || p.EventDate != nil ||
		p.ImageURL != nil || p.IsAggressive != nil || p.IsFearful != nil ||
		p.Status != nil || p.Description.Set || p.LocationDetails.Set ||
		p.Size.Set || p.Color.Set || p.AgeRange.Set || p.SpecialMarks.Set
}

const listingColumns = `l.id, l.type, l.species, l.region, l.subregion, l.location_details,
	l.event_date, l.title, l.description, l.image_url, l.size, l.color, l.age_range,
	l.special_marks, l.is_aggressive, l.is_fearful, l.status, l.author_id,
	l.created_at, l.updated_at,
	p.id, p.username, p.avatar_url, p.created_at`

const authorJoin = `LEFT JOIN profiles p ON p.id = l.author_id`

// PostgresListingRepository implements ListingRepository using pgx.
type PostgresListingRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresListingRepository creates a PostgreSQL-backed listing repository.
func NewPostgresListingRepository(pool *pgxpool.Pool) *PostgresListingRepository {
	return &PostgresListingRepository{pool: pool}
}

var _ ListingRepository = (*PostgresListingRepository)(nil)

// List runs the filtered count and page queries concurrently. The total is
// computed before pagination so the client can render page controls.
func (r *PostgresListingRepository) List(ctx context.Context, q query.Query) ([]domain.Listing, int, error) {
	where, args := buildListFilters(q)

	countSQL := "SELECT COUNT(*) FROM listings l " + where
	pageSQL := fmt.Sprintf(
		"SELECT %s FROM listings l %s %s ORDER BY l.%s %s LIMIT %d OFFSET %d",
		listingColumns, authorJoin, where,
		q.OrderBy.Column(), strings.ToUpper(string(q.Order)),
		q.Limit, q.Offset(),
	)

	var (
		total    int
		listings []domain.Listing
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := r.pool.QueryRow(gctx, countSQL, args...).Scan(&total); err != nil {
			return fmt.Errorf("count listings: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		rows, err := r.pool.Query(gctx, pageSQL, args...)
		if err != nil {
			return fmt.Errorf("query listings: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			listing, err := scanListing(rows)
			if err != nil {
				return fmt.Errorf("scan listing: %w", err)
			}
			listings = append(listings, listing)
		}
		return rows.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "failed to list listings", err).WithOp("repository.List")
	}

	if listings == nil {
		listings = []domain.Listing{}
	}
	return listings, total, nil
}

// GetByID fetches a listing with its author profile joined in.
func (r *PostgresListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	sql := fmt.Sprintf("SELECT %s FROM listings l %s WHERE l.id = $1", listingColumns, authorJoin)

	rows, err := r.pool.Query(ctx, sql, id)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to get listing", err).WithOp("repository.GetByID")
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to get listing", err).WithOp("repository.GetByID")
		}
		return nil, apperr.NotFound("listing not found")
	}
	listing, err := scanListing(rows)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to scan listing", err).WithOp("repository.GetByID")
	}
	return &listing, nil
}

// Insert persists a new listing. Uniqueness and foreign key violations
// surface as conflicts rather than internal failures.
func (r *PostgresListingRepository) Insert(ctx context.Context, p InsertParams) (uuid.UUID, error) {
	sql := `INSERT INTO listings (
		type, species, region, subregion, location_details, event_date,
		title, description, image_url, size, color, age_range,
		special_marks, is_aggressive, is_fearful, status, author_id
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	RETURNING id`

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, sql,
		p.Type, p.Species, p.Region, p.Subregion, p.LocationDetails, p.EventDate,
		p.Title, p.Description, p.ImageURL, p.Size, p.Color, p.AgeRange,
		p.SpecialMarks, p.IsAggressive, p.IsFearful, p.Status, p.AuthorID,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return uuid.Nil, apperr.Conflict("listing already exists")
			case "23503":
				return uuid.Nil, apperr.Conflict("author profile does not exist")
			}
		}
		return uuid.Nil, apperr.Wrap(apperr.KindInternal, "failed to create listing", err).WithOp("repository.Insert")
	}
	return id, nil
}

// Update applies the patch with ownership enforced in the WHERE clause, so a
// non-owner write cannot succeed regardless of interleaving.
func (r *PostgresListingRepository) Update(ctx context.Context, p UpdateParams) (bool, error) {
	sql, args := buildUpdate(p)

	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return false, apperr.Wrap(apperr.KindInternal, "failed to update listing", err).WithOp("repository.Update")
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes the listing with ownership enforced in the WHERE clause.
func (r *PostgresListingRepository) Delete(ctx context.Context, id, authorID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM listings WHERE id = $1 AND author_id = $2", id, authorID)
	if err != nil {
		return false, apperr.Wrap(apperr.KindInternal, "failed to delete listing", err).WithOp("repository.Delete")
	}
	return tag.RowsAffected() > 0, nil
}

// AuthorOf reads the owning author, used to tell "gone" apart from "not yours"
// after a scoped write matched no rows.
func (r *PostgresListingRepository) AuthorOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var authorID uuid.UUID
	err := r.pool.QueryRow(ctx, "SELECT author_id FROM listings WHERE id = $1", id).Scan(&authorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, apperr.NotFound("listing not found")
		}
		return uuid.Nil, apperr.Wrap(apperr.KindInternal, "failed to read listing author", err).WithOp("repository.AuthorOf")
	}
	return authorID, nil
}

// buildListFilters renders the WHERE clause for a validated query. Enum and
// ordering values come from closed domain types, so only user-entered text
// travels as bind parameters.
func buildListFilters(q query.Query) (string, []any) {
	clauses := []string{"l.status = $1"}
	args := []any{q.Status}

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if q.Type != nil {
		add("l.type = $%d", *q.Type)
	}
	if q.Species != nil {
		add("l.species = $%d", *q.Species)
	}
	if q.Region != nil {
		add("l.region = $%d", *q.Region)
	}
	if q.Subregion != nil {
		add("l.subregion = $%d", *q.Subregion)
	}
	if q.Size != nil {
		add("l.size = $%d", *q.Size)
	}
	if q.Color != nil {
		add("l.color ILIKE $%d", "%"+*q.Color+"%")
	}
	if q.AgeRange != nil {
		add("l.age_range = $%d", *q.AgeRange)
	}
	if q.EventDateFrom != nil {
		add("l.event_date >= $%d", *q.EventDateFrom)
	}
	if q.EventDateTo != nil {
		add("l.event_date <= $%d", *q.EventDateTo)
	}
	if q.AuthorID != nil {
		add("l.author_id = $%d", *q.AuthorID)
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

// buildUpdate renders the partial UPDATE statement. The WHERE clause always
// carries both the listing ID and the author ID.
func buildUpdate(p UpdateParams) (string, []any) {
	var (
		sets []string
		args []any
	)

	// A nil value binds as NULL and clears the column.
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if p.Title != nil {
		set("title", *p.Title)
	}
	if p.Type != nil {
		set("type", *p.Type)
	}
	if p.Species != nil {
		set("species", *p.Species)
	}
	if p.Region != nil {
		set("region", *p.Region)
	}
	if p.Subregion != nil {
		set("subregion", *p.Subregion)
	}
	if p.EventDate != nil {
		set("event_date", *p.EventDate)
	}
	if p.ImageURL != nil {
		set("image_url", *p.ImageURL)
	}
	if p.IsAggressive != nil {
		set("is_aggressive", *p.IsAggressive)
	}
	if p.IsFearful != nil {
		set("is_fearful", *p.IsFearful)
	}
	if p.Status != nil {
		set("status", *p.Status)
	}
	if p.Description.Set {
		set("description", p.Description.Value)
	}
	if p.LocationDetails.Set {
		set("location_details", p.LocationDetails.Value)
	}
	if p.Size.Set {
		set("size", p.Size.Value)
	}
	if p.Color.Set {
		set("color", p.Color.Value)
	}
	if p.AgeRange.Set {
		set("age_range", p.AgeRange.Value)
	}
	if p.SpecialMarks.Set {
		set("special_marks", p.SpecialMarks.Value)
	}

	set("updated_at", time.Now().UTC())

	args = append(args, p.ID, p.AuthorID)
	sql := fmt.Sprintf(
		"UPDATE listings SET %s WHERE id = $%d AND author_id = $%d",
		strings.Join(sets, ", "), len(args)-1, len(args),
	)
	return sql, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (domain.Listing, error) {
	var (
		l              domain.Listing
		authorID       *uuid.UUID
		authorUsername *string
		authorAvatar   *string
		authorJoined   *time.Time
	)

	err := row.Scan(
		&l.ID, &l.Type, &l.Species, &l.Region, &l.Subregion, &l.LocationDetails,
		&l.EventDate, &l.Title, &l.Description, &l.ImageURL, &l.Size, &l.Color,
		&l.AgeRange, &l.SpecialMarks, &l.IsAggressive, &l.IsFearful, &l.Status,
		&l.AuthorID, &l.CreatedAt, &l.UpdatedAt,
		&authorID, &authorUsername, &authorAvatar, &authorJoined,
	)
	if err != nil {
		return domain.Listing{}, err
	}

	if authorID != nil && authorUsername != nil && authorJoined != nil {
		l.Author = &domain.Author{
			ID:        *authorID,
			Username:  *authorUsername,
			AvatarURL: authorAvatar,
			JoinedAt:  *authorJoined,
		}
	}
	return l, nil
}
