package listing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
)

// Repository keeps the catalog in Postgres. Rows are returned in insertion
// order, which is the catalog's "popular" order.
type Repository interface {
	Source
	GetAll(ctx context.Context) ([]Listing, error)
	GetByName(ctx context.Context, name string) (*Listing, error)
	Insert(ctx context.Context, l Listing) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const selectListings = `
	SELECT name, category, price, publish_date, attributes, details
	FROM listings`

func (r *repository) Load(ctx context.Context) ([]Listing, error) {
	listings, err := r.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	return listings, nil
}

func (r *repository) GetAll(ctx context.Context) ([]Listing, error) {
	rows, err := r.db.QueryContext(ctx, selectListings+" ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *repository) GetByName(ctx context.Context, name string) (*Listing, error) {
	row := r.db.QueryRowContext(ctx, selectListings+" WHERE name = $1", name)
	l, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) Insert(ctx context.Context, l Listing) error {
	if l.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidListing)
	}
	if !l.Category.Valid() {
		return fmt.Errorf("%w: %q has unknown category %q", ErrInvalidListing, l.Name, l.Category)
	}

	attrs, err := json.Marshal(l.Attributes)
	if err != nil {
		return fmt.Errorf("marshal attributes of %q: %w", l.Name, err)
	}
	details, err := json.Marshal(l.Details)
	if err != nil {
		return fmt.Errorf("marshal details of %q: %w", l.Name, err)
	}

	var price sql.NullFloat64
	if l.PriceKnown() {
		price = sql.NullFloat64{Float64: l.Price, Valid: true}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO listings (name, category, price, publish_date, attributes, details)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		l.Name, string(l.Category), price, l.PublishDate, attrs, details,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (Listing, error) {
	var (
		l        Listing
		category string
		price    sql.NullFloat64
		attrs    []byte
		details  []byte
	)
	if err := row.Scan(&l.Name, &category, &price, &l.PublishDate, &attrs, &details); err != nil {
		return Listing{}, err
	}

	c, ok := ParseCategory(category)
	if !ok {
		return Listing{}, fmt.Errorf("%w: %q has unknown category %q", ErrInvalidListing, l.Name, category)
	}
	l.Category = c

	l.Price = math.NaN()
	if price.Valid {
		l.Price = price.Float64
	}

	l.Attributes = Attributes{}
	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &l.Attributes); err != nil {
			return Listing{}, fmt.Errorf("%w: attributes of %q: %v", ErrInvalidListing, l.Name, err)
		}
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &l.Details); err != nil {
			return Listing{}, fmt.Errorf("%w: details of %q: %v", ErrInvalidListing, l.Name, err)
		}
	}
	return l, nil
}
