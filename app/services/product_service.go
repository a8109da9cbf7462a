package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/pentshop/pentshop/app/models"
	"github.com/pentshop/pentshop/pkg/cache"
	"github.com/pentshop/pentshop/pkg/collection"
	"github.com/pentshop/pentshop/pkg/logger"
	"github.com/pentshop/pentshop/pkg/storage"
	"github.com/pentshop/pentshop/pkg/workerpool"
)

const (
	productCacheKey = "products:all"
	productCacheTTL = 5 * time.Minute
)

// ProductStore is the slice of the product repository the service needs.
type ProductStore interface {
	Create(ctx context.Context, p *models.Product) error
	All(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	Update(ctx context.Context, id string, fields bson.M) error
	Delete(ctx context.Context, id string) error
}

// ProductService manages the catalogue: a Redis-cached listing, image
// uploads through the storage disk, and background cleanup of images
// when products go away.
type ProductService struct {
	products ProductStore
	pool     *workerpool.Pool
}

func NewProductService(products ProductStore, pool *workerpool.Pool) *ProductService {
	return &ProductService{products: products, pool: pool}
}

// List returns the catalogue through the read-through cache. When
// Redis is down the repository is queried directly.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := cache.Remember(productCacheKey, productCacheTTL, &products, func() (interface{}, error) {
		return s.products.All(ctx)
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Get returns one product by hex id.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.products.FindByID(ctx, id)
}

// Create validates and stores a product and busts the listing cache.
func (s *ProductService) Create(ctx context.Context, p *models.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}

	if err := s.products.Create(ctx, p); err != nil {
		return err
	}
	s.forgetListing()
	return nil
}

// Update applies a partial update and busts the listing cache.
func (s *ProductService) Update(ctx context.Context, id string, fields bson.M) (*models.Product, error) {
	if err := s.products.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	s.forgetListing()
	return s.products.FindByID(ctx, id)
}

// Delete removes a product, busts the cache and schedules its images
// for removal from the storage disk.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.forgetListing()

	paths := collection.Filter(
		collection.Map(p.Images, storagePath),
		func(path string) bool { return path != "" },
	)
	s.submit(func() {
		for _, path := range paths {
			if err := storage.Delete(path); err != nil {
				logger.Warn("products: image cleanup failed", "path", path, "error", err)
			}
		}
	})
	return nil
}

// UploadImage stores an image under products/ and returns its public
// URL. The stored name is timestamped to avoid collisions.
func (s *ProductService) UploadImage(filename string, content []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return "", fmt.Errorf("%w: unsupported image type %q", ErrValidation, ext)
	}

	path := fmt.Sprintf("products/%d%s", time.Now().UnixNano(), ext)
	if err := storage.Put(path, content); err != nil {
		return "", fmt.Errorf("products: store image: %w", err)
	}
	return storage.URL(path), nil
}

func (s *ProductService) forgetListing() {
	if err := cache.Forget(productCacheKey); err != nil {
		logger.Warn("products: cache bust failed", "error", err)
	}
}

func (s *ProductService) submit(task func()) {
	if s.pool == nil {
		task()
		return
	}
	if err := s.pool.Submit(task); err != nil {
		task()
	}
}

// storagePath maps a public image URL back to its disk path. Images
// served from elsewhere return empty and are left alone.
func storagePath(url string) string {
	idx := strings.Index(url, "/products/")
	if idx < 0 {
		return ""
	}
	return strings.TrimPrefix(url[idx:], "/")
}
