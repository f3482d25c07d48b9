package service

import (
	"context"
	"time"

	"atelier-catalog/internal/domain"
	"atelier-catalog/internal/repository"
	"atelier-catalog/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// User-facing messages. Raw collaborator errors are logged, never
// returned to the caller.
const (
	msgCreateFailed = "Could not save product. Please try again."
	msgUpdateFailed = "Could not update product. Please try again."
	msgLoadFailed   = "Could not load product."
	msgListFailed   = "Could not load products."
	msgDeleteFailed = "Could not delete product. Please try again."
)

// ProductService is the persistence gateway for product submissions.
// It is stateless: every call is an independent round trip to the
// storage collaborators.
type ProductService struct {
	store  repository.ProductStore
	blobs  storage.BlobStore
	logger *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(store repository.ProductStore, blobs storage.BlobStore, logger *zap.Logger) *ProductService {
	return &ProductService{
		store:  store,
		blobs:  blobs,
		logger: logger,
	}
}

// Create inserts a new product built from a validated submission
func (s *ProductService) Create(ctx context.Context, data domain.ProductData) Result[struct{}] {
	now := time.Now()
	product := productFromData(uuid.New(), data, now, now)

	if err := s.store.Insert(ctx, product); err != nil {
		s.logger.Error("Failed to create product",
			zap.String("slug", data.Slug),
			zap.Error(err),
		)
		return failure[struct{}](msgCreateFailed)
	}

	return success(struct{}{})
}

// Update rewrites the product matching id with a validated submission
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, data domain.ProductData) Result[struct{}] {
	now := time.Now()
	product := productFromData(id, data, now, now)

	if err := s.store.Update(ctx, product); err != nil {
		s.logger.Error("Failed to update product",
			zap.String("product_id", id.String()),
			zap.Error(err),
		)
		return failure[struct{}](msgUpdateFailed)
	}

	return success(struct{}{})
}

// Get loads the full product record matching id. A missing record and
// a collaborator error are both reported as the same failure.
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) Result[*domain.Product] {
	product, err := s.store.FindByID(ctx, id)
	if err != nil || product == nil {
		if err != nil {
			s.logger.Error("Failed to load product",
				zap.String("product_id", id.String()),
				zap.Error(err),
			)
		}
		return failure[*domain.Product](msgLoadFailed)
	}

	return success(product)
}

// List loads the whole catalog, newest first
func (s *ProductService) List(ctx context.Context) Result[[]*domain.Product] {
	products, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return failure[[]*domain.Product](msgListFailed)
	}

	return success(products)
}

// Delete removes the product row matching id, after a best-effort
// cleanup of its stored image. Image cleanup is strictly advisory:
// a failed lookup or blob removal is logged and swallowed, and only
// the row deletion determines the reported outcome.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) Result[struct{}] {
	s.removeProductImage(ctx, id)

	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete product",
			zap.String("product_id", id.String()),
			zap.Error(err),
		)
		return failure[struct{}](msgDeleteFailed)
	}

	return success(struct{}{})
}

func (s *ProductService) removeProductImage(ctx context.Context, id uuid.UUID) {
	if s.blobs == nil {
		return
	}

	imageURL, err := s.store.FindImageURL(ctx, id)
	if err != nil || imageURL == "" {
		return
	}

	path, ok := ResolveStoragePath(imageURL)
	if !ok {
		return
	}

	if err := s.blobs.Remove(ctx, []string{path}); err != nil {
		s.logger.Warn("Product image cleanup failed",
			zap.String("product_id", id.String()),
			zap.String("path", path),
			zap.Error(err),
		)
	}
}

func productFromData(id uuid.UUID, data domain.ProductData, createdAt, updatedAt time.Time) *domain.Product {
	return &domain.Product{
		ID:            id,
		Slug:          data.Slug,
		Name:          data.Name,
		NameEN:        data.NameEN,
		Description:   data.Description,
		DescriptionEN: data.DescriptionEN,
		Price:         data.Price,
		Currency:      data.Currency,
		ImageURL:      data.ImageURL,
		ImageAlt:      data.ImageAlt,
		Category:      data.Category,
		Tags:          data.Tags,
		Featured:      data.Featured,
		InStock:       data.InStock,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
}
