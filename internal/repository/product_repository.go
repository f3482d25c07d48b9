package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"atelier-catalog/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductStore is the narrow row-collection capability the product
// pipeline persists through. The production implementation talks to
// Postgres; tests substitute an in-memory store.
type ProductStore interface {
	Insert(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindImageURL(ctx context.Context, id uuid.UUID) (string, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*domain.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a Postgres-backed ProductStore
func NewProductRepository(db *sql.DB) ProductStore {
	return &productRepository{db: db}
}

const productColumns = `id, slug, name, name_en, description, description_en,
	price, currency, image_url, image_alt, category, tags, featured, in_stock,
	created_at, updated_at`

// Insert adds a new product row using parameterized queries
func (r *productRepository) Insert(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Slug,
		product.Name,
		product.NameEN,
		product.Description,
		product.DescriptionEN,
		product.Price,
		product.Currency,
		product.ImageURL,
		product.ImageAlt,
		product.Category,
		joinTags(product.Tags),
		product.Featured,
		product.InStock,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	return nil
}

// Update rewrites the product row matching the id
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET slug = $2, name = $3, name_en = $4, description = $5,
		    description_en = $6, price = $7, currency = $8, image_url = $9,
		    image_alt = $10, category = $11, tags = $12, featured = $13,
		    in_stock = $14, updated_at = $15
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Slug,
		product.Name,
		product.NameEN,
		product.Description,
		product.DescriptionEN,
		product.Price,
		product.Currency,
		product.ImageURL,
		product.ImageAlt,
		product.Category,
		joinTags(product.Tags),
		product.Featured,
		product.InStock,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves the full product row matching the id
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// FindImageURL retrieves only the image_url column for the id, or the
// empty string when the product carries no image.
func (r *productRepository) FindImageURL(ctx context.Context, id uuid.UUID) (string, error) {
	query := `SELECT image_url FROM products WHERE id = $1`

	var imageURL sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(&imageURL)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrProductNotFound
		}
		return "", fmt.Errorf("failed to find product image URL: %w", err)
	}

	return imageURL.String, nil
}

// Delete removes the product row matching the id
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// List retrieves all products ordered by creation time, newest first
func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var (
		nameEN, description, descriptionEN sql.NullString
		imageURL, imageAlt, category       sql.NullString
		tags                               string
	)

	err := row.Scan(
		&product.ID,
		&product.Slug,
		&product.Name,
		&nameEN,
		&description,
		&descriptionEN,
		&product.Price,
		&product.Currency,
		&imageURL,
		&imageAlt,
		&category,
		&tags,
		&product.Featured,
		&product.InStock,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	product.NameEN = nullableString(nameEN)
	product.Description = nullableString(description)
	product.DescriptionEN = nullableString(descriptionEN)
	product.ImageURL = nullableString(imageURL)
	product.ImageAlt = nullableString(imageAlt)
	product.Category = nullableString(category)
	product.Tags = splitTags(tags)

	return product, nil
}

func nullableString(s sql.NullString) *string {
	if !s.Valid || s.String == "" {
		return nil
	}
	v := s.String
	return &v
}

// Tags are stored as a single comma-joined column. Individual tags
// never contain commas (the form parser splits on them), so the
// round trip is lossless.
func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func splitTags(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
