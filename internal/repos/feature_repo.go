package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"customcars/internal/configurator"
	"customcars/internal/domain"
)

type FeatureRepo struct{ db *sqlx.DB }

func NewFeatureRepo(db *sqlx.DB) *FeatureRepo { return &FeatureRepo{db: db} }

func (r *FeatureRepo) List(ctx context.Context) ([]domain.FeatureRow, error) {
	var out []domain.FeatureRow
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, name, display_name
		FROM features
		ORDER BY id
	`)
	return out, err
}

// Options returns every option with its feature, cheapest first within a feature.
func (r *FeatureRepo) Options(ctx context.Context) ([]domain.OptionRow, error) {
	var out []domain.OptionRow
	err := r.db.SelectContext(ctx, &out, `
		SELECT fo.id, fo.feature_id, f.name AS feature_name, f.display_name AS feature_display_name,
		       fo.name, fo.display_name, fo.price, COALESCE(fo.image_url, '') AS image_url
		FROM feature_options fo
		JOIN features f ON f.id = fo.feature_id
		ORDER BY f.id, fo.price, fo.id
	`)
	return out, err
}

// Catalog loads features and options into an immutable catalog.
func (r *FeatureRepo) Catalog(ctx context.Context) (*configurator.Catalog, error) {
	feats, err := r.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load features: %w", err)
	}
	opts, err := r.Options(ctx)
	if err != nil {
		return nil, fmt.Errorf("load options: %w", err)
	}

	byFeature := make(map[int64][]configurator.Option, len(feats))
	for _, o := range opts {
		byFeature[o.FeatureID] = append(byFeature[o.FeatureID], o.Option())
	}
	out := make([]configurator.Feature, 0, len(feats))
	for _, f := range feats {
		out = append(out, configurator.Feature{
			ID:          f.ID,
			Name:        f.Name,
			DisplayName: f.DisplayName,
			Options:     byFeature[f.ID],
		})
	}
	return configurator.NewCatalog(out)
}
