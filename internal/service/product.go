package service

import (
	"context"
	"log/slog"

	"shoppingCart/internal/apperr"
	"shoppingCart/internal/remote"
	"shoppingCart/models"
	"shoppingCart/repository"
)

type ProductService struct {
	products  repository.ProductRepositoryI
	bookmarks repository.BookmarkRepositoryI
	api       *remote.Client
	log       *slog.Logger
}

func NewProductService(products repository.ProductRepositoryI, bookmarks repository.BookmarkRepositoryI, api *remote.Client, log *slog.Logger) *ProductService {
	return &ProductService{products: products, bookmarks: bookmarks, api: api, log: orDefault(log)}
}

// List refreshes the catalog from the backend and caches it. When the backend is
// unreachable a non-empty local cache is served instead.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	dtos, err := s.api.Products(ctx)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNetwork {
			cached, cerr := s.products.List(ctx, 0, 0)
			if cerr == nil && len(cached) > 0 {
				s.log.Warn("backend unreachable, serving cached catalog", "products", len(cached), "error", err)
				return cached, nil
			}
		}
		return nil, fail(s.log, "product.list", err)
	}
	ps := remote.ProductsToDomain(dtos)
	if err := s.products.UpsertMany(ctx, ps); err != nil {
		return nil, fail(s.log, "product.list", err)
	}
	return ps, nil
}

// Get returns one product, preferring fresh backend data and falling back to the cache.
func (s *ProductService) Get(ctx context.Context, id int64) (*models.Product, error) {
	dto, err := s.api.Product(ctx, id)
	if err == nil {
		p, err := dto.ToDomain()
		if err != nil {
			return nil, fail(s.log, "product.get", err)
		}
		if err := s.products.Upsert(ctx, &p); err != nil {
			return nil, fail(s.log, "product.get", err)
		}
		return &p, nil
	}
	if apperr.KindOf(err) != apperr.KindNetwork {
		return nil, fail(s.log, "product.get", err)
	}
	p, cerr := s.products.GetByID(ctx, id)
	if cerr != nil {
		return nil, fail(s.log, "product.get", cerr)
	}
	if p == nil {
		return nil, fail(s.log, "product.get", err)
	}
	return p, nil
}

// ByBarcode looks a barcode up on the backend and caches the match.
func (s *ProductService) ByBarcode(ctx context.Context, code string) (*models.Product, error) {
	dto, err := s.api.ProductByBarcode(ctx, code)
	if err != nil {
		return nil, fail(s.log, "product.by_barcode", err)
	}
	p, err := dto.ToDomain()
	if err != nil {
		return nil, fail(s.log, "product.by_barcode", err)
	}
	if err := s.products.Upsert(ctx, &p); err != nil {
		return nil, fail(s.log, "product.by_barcode", err)
	}
	return &p, nil
}

// CachedByBarcode finds a product in the local catalog by its barcode.
func (s *ProductService) CachedByBarcode(ctx context.Context, code string) (*models.Product, error) {
	p, err := s.products.GetByBarcode(ctx, code)
	if err != nil {
		return nil, fail(s.log, "product.cached_by_barcode", err)
	}
	if p == nil {
		return nil, apperr.Empty("no cached product with barcode " + code)
	}
	return p, nil
}

// Cached lists the local catalog without touching the network.
func (s *ProductService) Cached(ctx context.Context, limit, offset int) ([]models.Product, error) {
	ps, err := s.products.List(ctx, limit, offset)
	if err != nil {
		return nil, fail(s.log, "product.cached", err)
	}
	return ps, nil
}

// ToggleBookmark flips the bookmark of a cached product and reports the new state.
func (s *ProductService) ToggleBookmark(ctx context.Context, productID int64) (bool, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return false, fail(s.log, "product.toggle_bookmark", err)
	}
	if p == nil {
		return false, apperr.Empty("product not found")
	}
	on, err := s.bookmarks.Toggle(ctx, productID)
	if err != nil {
		return false, fail(s.log, "product.toggle_bookmark", err)
	}
	return on, nil
}

func (s *ProductService) Bookmarks(ctx context.Context) ([]models.Product, error) {
	ps, err := s.bookmarks.Products(ctx)
	if err != nil {
		return nil, fail(s.log, "product.bookmarks", err)
	}
	return ps, nil
}

func (s *ProductService) IsBookmarked(ctx context.Context, productID int64) (bool, error) {
	ok, err := s.bookmarks.Exists(ctx, productID)
	if err != nil {
		return false, fail(s.log, "product.is_bookmarked", err)
	}
	return ok, nil
}
