package domain

import (
	"github.com/shopspring/decimal"

	"customcars/internal/configurator"
)

type FeatureRow struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	DisplayName string `db:"display_name"`
}

type OptionRow struct {
	ID                 int64           `db:"id"`
	FeatureID          int64           `db:"feature_id"`
	FeatureName        string          `db:"feature_name"`
	FeatureDisplayName string          `db:"feature_display_name"`
	Name               string          `db:"name"`
	DisplayName        string          `db:"display_name"`
	Price              decimal.Decimal `db:"price"`
	ImageURL           string          `db:"image_url"`
}

func (o OptionRow) Option() configurator.Option {
	return configurator.Option{
		ID:          o.ID,
		Name:        o.Name,
		DisplayName: o.DisplayName,
		Price:       o.Price,
		ImageURL:    o.ImageURL,
	}
}

// Car is a saved configuration. Features holds exactly one entry per required feature.
type Car struct {
	ID         int64           `db:"id"`
	Name       string          `db:"name"`
	TotalPrice decimal.Decimal `db:"total_price"`
	CreatedAt  string          `db:"created_at"`
	UpdatedAt  string          `db:"updated_at"`
	Features   []CarFeature    `db:"-"`
}

type CarFeature struct {
	CarID              int64           `db:"car_id"`
	FeatureID          int64           `db:"feature_id"`
	FeatureName        string          `db:"feature_name"`
	FeatureDisplayName string          `db:"feature_display_name"`
	OptionID           int64           `db:"option_id"`
	OptionName         string          `db:"option_name"`
	OptionDisplayName  string          `db:"option_display_name"`
	OptionPrice        decimal.Decimal `db:"option_price"`
	OptionImageURL     string          `db:"option_image_url"`
}

// Selection rebuilds the selection a car was saved with, used to prefill edits.
func (c Car) Selection() configurator.Selection {
	sel := configurator.Selection{}
	for _, f := range c.Features {
		sel[f.FeatureName] = configurator.Pick(f.OptionID)
	}
	return sel
}
