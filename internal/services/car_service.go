package services

import (
	"context"

	"customcars/internal/configurator"
	"customcars/internal/domain"
	"customcars/internal/repos"
	"customcars/internal/validate"
)

type CarService struct {
	Catalog *CatalogService
	Cars    *repos.CarRepo
}

func NewCarService(catalog *CatalogService, cars *repos.CarRepo) *CarService {
	return &CarService{Catalog: catalog, Cars: cars}
}

func (s *CarService) List(ctx context.Context) ([]domain.Car, error) {
	return s.Cars.List(ctx)
}

func (s *CarService) Get(ctx context.Context, id int64) (domain.Car, error) {
	return s.Cars.Get(ctx, id)
}

// check validates the name and the selection against the catalog. The returned
// name is trimmed.
func (s *CarService) check(ctx context.Context, name string, sel configurator.Selection) (string, error) {
	clean, violations := validate.CarName(name)
	c, err := s.Catalog.Catalog(ctx)
	if err != nil {
		return "", err
	}
	res := configurator.Validate(c, sel)
	violations = append(violations, res.Violations...)
	if len(violations) > 0 {
		return "", configurator.Violations(violations...)
	}
	return clean, nil
}

// Create validates, prices and stores a new car. The client never supplies the
// total; it is computed from the option rows read in the write transaction.
func (s *CarService) Create(ctx context.Context, name string, sel configurator.Selection) (domain.Car, error) {
	clean, err := s.check(ctx, name, sel)
	if err != nil {
		return domain.Car{}, err
	}
	id, err := s.Cars.Create(ctx, clean, sel)
	if err != nil {
		return domain.Car{}, err
	}
	return s.Cars.Get(ctx, id)
}

// Update replaces a car's name and full selection.
func (s *CarService) Update(ctx context.Context, id int64, name string, sel configurator.Selection) (domain.Car, error) {
	if _, err := s.Cars.Get(ctx, id); err != nil {
		return domain.Car{}, err
	}
	clean, err := s.check(ctx, name, sel)
	if err != nil {
		return domain.Car{}, err
	}
	if err := s.Cars.Update(ctx, id, clean, sel); err != nil {
		return domain.Car{}, err
	}
	return s.Cars.Get(ctx, id)
}

func (s *CarService) Delete(ctx context.Context, id int64) error {
	return s.Cars.Delete(ctx, id)
}
