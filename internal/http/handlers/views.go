package handlers

import (
	"github.com/shopspring/decimal"

	"customcars/internal/configurator"
	"customcars/internal/domain"
)

// money renders a decimal amount for JSON clients.
func money(d decimal.Decimal) string { return d.StringFixed(2) }

type optionJSON struct {
	ID                 int64  `json:"id"`
	FeatureID          int64  `json:"feature_id,omitempty"`
	FeatureName        string `json:"feature_name,omitempty"`
	FeatureDisplayName string `json:"feature_display_name,omitempty"`
	Name               string `json:"name"`
	DisplayName        string `json:"display_name"`
	Price              string `json:"price"`
	ImageURL           string `json:"image_url,omitempty"`
	Recommended        *bool  `json:"recommended,omitempty"`
}

type featureJSON struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	DisplayName string       `json:"display_name"`
	Options     []optionJSON `json:"options"`
}

func toOptionJSON(o configurator.Option) optionJSON {
	return optionJSON{
		ID:          o.ID,
		Name:        o.Name,
		DisplayName: o.DisplayName,
		Price:       money(o.Price),
		ImageURL:    o.ImageURL,
	}
}

func toFeatureJSON(f configurator.Feature) featureJSON {
	out := featureJSON{ID: f.ID, Name: f.Name, DisplayName: f.DisplayName, Options: make([]optionJSON, 0, len(f.Options))}
	for _, o := range f.Options {
		out.Options = append(out.Options, toOptionJSON(o))
	}
	return out
}

// withFeature tags an option with its owning feature, for flat listings.
func withFeature(f configurator.Feature, o configurator.Option) optionJSON {
	j := toOptionJSON(o)
	j.FeatureID = f.ID
	j.FeatureName = f.Name
	j.FeatureDisplayName = f.DisplayName
	return j
}

func toAvailabilityJSON(avail []configurator.Availability) []optionJSON {
	out := make([]optionJSON, 0, len(avail))
	for _, a := range avail {
		j := toOptionJSON(a.Option)
		rec := a.Recommended
		j.Recommended = &rec
		out = append(out, j)
	}
	return out
}

type carFeatureJSON struct {
	FeatureID          int64  `json:"feature_id"`
	FeatureName        string `json:"feature_name"`
	FeatureDisplayName string `json:"feature_display_name"`
	OptionID           int64  `json:"option_id"`
	OptionName         string `json:"option_name"`
	OptionDisplayName  string `json:"option_display_name"`
	OptionPrice        string `json:"option_price"`
	OptionImageURL     string `json:"option_image_url"`
}

type carJSON struct {
	ID         int64            `json:"id"`
	Name       string           `json:"name"`
	TotalPrice string           `json:"total_price"`
	CreatedAt  string           `json:"created_at"`
	UpdatedAt  string           `json:"updated_at"`
	Features   []carFeatureJSON `json:"features"`
}

func toCarJSON(c domain.Car) carJSON {
	out := carJSON{
		ID:         c.ID,
		Name:       c.Name,
		TotalPrice: money(c.TotalPrice),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
		Features:   make([]carFeatureJSON, 0, len(c.Features)),
	}
	for _, f := range c.Features {
		out.Features = append(out.Features, carFeatureJSON{
			FeatureID:          f.FeatureID,
			FeatureName:        f.FeatureName,
			FeatureDisplayName: f.FeatureDisplayName,
			OptionID:           f.OptionID,
			OptionName:         f.OptionName,
			OptionDisplayName:  f.OptionDisplayName,
			OptionPrice:        money(f.OptionPrice),
			OptionImageURL:     f.OptionImageURL,
		})
	}
	return out
}

type quoteJSON struct {
	TotalPrice     string   `json:"total_price"`
	FormattedPrice string   `json:"formatted_price"`
	Valid          bool     `json:"valid"`
	Violations     []string `json:"violations"`
}

// carRequest is the body of create and update calls. A null or missing feature
// entry means nothing is chosen for it.
type carRequest struct {
	Name     string                 `json:"name"`
	Features configurator.Selection `json:"features"`
}
