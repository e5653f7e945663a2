package services

import (
	"context"
	"errors"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"customcars/internal/configurator"
)

var ErrFeatureNotFound = errors.New("feature not found")

const catalogKey = "catalog"

// CatalogLoader reads the full catalog from storage.
type CatalogLoader interface {
	Catalog(ctx context.Context) (*configurator.Catalog, error)
}

type CatalogService struct {
	Loader CatalogLoader
	cache  *cache.Cache
}

// NewCatalogService caches the loaded catalog for ttl. Only the immutable
// catalog is cached; availability is recomputed per call.
func NewCatalogService(loader CatalogLoader, ttl time.Duration) *CatalogService {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &CatalogService{Loader: loader, cache: cache.New(ttl, 10*time.Minute)}
}

func (s *CatalogService) Catalog(ctx context.Context) (*configurator.Catalog, error) {
	if v, ok := s.cache.Get(catalogKey); ok {
		return v.(*configurator.Catalog), nil
	}
	c, err := s.Loader.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(catalogKey, c)
	return c, nil
}

// Invalidate drops the cached catalog, e.g. after a reseed.
func (s *CatalogService) Invalidate() { s.cache.Delete(catalogKey) }

func (s *CatalogService) Features(ctx context.Context) ([]configurator.Feature, error) {
	c, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return c.Features(), nil
}

func (s *CatalogService) Feature(ctx context.Context, name string) (configurator.Feature, error) {
	c, err := s.Catalog(ctx)
	if err != nil {
		return configurator.Feature{}, err
	}
	f, ok := c.Feature(name)
	if !ok {
		return configurator.Feature{}, ErrFeatureNotFound
	}
	return f, nil
}

// Available lists the options of feature that fit the current selection.
func (s *CatalogService) Available(ctx context.Context, feature string, sel configurator.Selection) ([]configurator.Availability, error) {
	c, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return configurator.Available(c, feature, sel), nil
}

type Quote struct {
	Total     decimal.Decimal
	Formatted string
	configurator.Result
}

// Quote prices a possibly partial selection and reports its violations
// without persisting anything.
func (s *CatalogService) Quote(ctx context.Context, sel configurator.Selection) (Quote, error) {
	c, err := s.Catalog(ctx)
	if err != nil {
		return Quote{}, err
	}
	total := configurator.Total(c, sel)
	return Quote{
		Total:     total,
		Formatted: configurator.FormatPrice(total),
		Result:    configurator.Validate(c, sel),
	}, nil
}
