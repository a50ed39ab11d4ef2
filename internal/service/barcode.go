package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"shoppingCart/internal/apperr"
	"shoppingCart/models"
	"shoppingCart/repository"
)

// BarcodeService resolves scans to products and keeps a scan history.
type BarcodeService struct {
	products *ProductService
	history  repository.BarcodeRepositoryI
	log      *slog.Logger

	mu       sync.Mutex
	last     string
	lastProd *models.Product
}

func NewBarcodeService(products *ProductService, history repository.BarcodeRepositoryI, log *slog.Logger) *BarcodeService {
	return &BarcodeService{products: products, history: history, log: orDefault(log)}
}

// Resolve looks code up with a single backend request. Any failure is reported as a
// network error. Scanning the same code again right after a successful lookup returns
// the same product without another request; a failed lookup is not remembered, so
// scanning again retries.
func (s *BarcodeService) Resolve(ctx context.Context, code string) (*models.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperr.Custom("barcode is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if code == s.last && s.lastProd != nil {
		s.log.Debug("repeated scan, skipping lookup", "barcode", code)
		p := *s.lastProd
		return &p, nil
	}

	p, err := s.products.ByBarcode(ctx, code)
	if err != nil {
		s.last, s.lastProd = "", nil
		return nil, &apperr.Error{Kind: apperr.KindNetwork, Message: "could not look up barcode " + code, Err: err}
	}
	kept := *p
	s.last, s.lastProd = code, &kept
	return p, nil
}

// Reset forgets the last scanned code so the next scan always hits the backend.
func (s *BarcodeService) Reset() {
	s.mu.Lock()
	s.last, s.lastProd = "", nil
	s.mu.Unlock()
}

// Save records a scan in the local history. A blank name is taken from the cached
// catalog when the code is known there.
func (s *BarcodeService) Save(ctx context.Context, code, name, note string) (*models.BarcodeItem, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperr.Custom("barcode is empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		if p, err := s.products.CachedByBarcode(ctx, code); err == nil {
			name = p.Name
		}
	}
	it, err := s.history.Create(ctx, &models.BarcodeItem{Barcode: code, Name: name, Note: note})
	if err != nil {
		return nil, fail(s.log, "barcode.save", err)
	}
	return it, nil
}

func (s *BarcodeService) History(ctx context.Context, limit int) ([]models.BarcodeItem, error) {
	items, err := s.history.List(ctx, limit)
	if err != nil {
		return nil, fail(s.log, "barcode.history", err)
	}
	return items, nil
}

// Find returns the latest saved scan of code.
func (s *BarcodeService) Find(ctx context.Context, code string) (*models.BarcodeItem, error) {
	it, err := s.history.LatestByBarcode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, fail(s.log, "barcode.find", err)
	}
	if it == nil {
		return nil, apperr.Empty("barcode was never scanned")
	}
	return it, nil
}

func (s *BarcodeService) Delete(ctx context.Context, id int64) error {
	if err := s.history.Delete(ctx, id); err != nil {
		return fail(s.log, "barcode.delete", err)
	}
	return nil
}
