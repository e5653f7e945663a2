package configurator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Option ids follow the seed insertion order.
const (
	extRed int64 = iota + 1
	extBlue
	extBlack
	extWhite
	extSilver
	whStandard
	whSport
	whLuxury
	whPerformance
	intBlack
	intBrown
	intWhite
	intRed
	engStandard
	engTurbo
	engElectric
	engHybrid
)

func opt(id int64, name string, price int64) Option {
	return Option{ID: id, Name: name, DisplayName: name, Price: decimal.NewFromInt(price)}
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog([]Feature{
		{ID: 1, Name: Exterior, DisplayName: "Exterior Color", Options: []Option{
			opt(extRed, "red", 0), opt(extBlue, "blue", 500), opt(extBlack, "black", 1000),
			opt(extWhite, "white", 800), opt(extSilver, "silver", 300),
		}},
		{ID: 2, Name: Wheels, DisplayName: "Wheel Style", Options: []Option{
			opt(whStandard, "standard", 0), opt(whSport, "sport", 1200),
			opt(whLuxury, "luxury", 2000), opt(whPerformance, "performance", 2500),
		}},
		{ID: 3, Name: Interior, DisplayName: "Interior Color", Options: []Option{
			opt(intBlack, "black", 0), opt(intBrown, "brown", 500),
			opt(intWhite, "white", 800), opt(intRed, "red", 1000),
		}},
		{ID: 4, Name: Engine, DisplayName: "Engine Type", Options: []Option{
			opt(engStandard, "standard", 0), opt(engTurbo, "turbo", 5000),
			opt(engElectric, "electric", 8000), opt(engHybrid, "hybrid", 3000),
		}},
	})
	require.NoError(t, err)
	return c
}

func names(av []Availability) []string {
	out := make([]string, len(av))
	for i, a := range av {
		out[i] = a.Name
	}
	return out
}

func TestNewCatalog(t *testing.T) {
	t.Run("orders options by price", func(t *testing.T) {
		c := testCatalog(t)
		f, ok := c.Feature(Exterior)
		require.True(t, ok)
		var got []string
		for _, o := range f.Options {
			got = append(got, o.Name)
		}
		assert.Equal(t, []string{"red", "silver", "blue", "white", "black"}, got)
	})

	t.Run("rejects feature without options", func(t *testing.T) {
		_, err := NewCatalog([]Feature{{ID: 1, Name: Engine}})
		assert.ErrorIs(t, err, ErrEmptyFeature)
	})

	t.Run("rejects duplicate feature", func(t *testing.T) {
		_, err := NewCatalog([]Feature{
			{Name: Engine, Options: []Option{opt(1, "standard", 0)}},
			{Name: Engine, Options: []Option{opt(2, "turbo", 5000)}},
		})
		assert.ErrorIs(t, err, ErrDuplicateFeature)
	})

	t.Run("callers cannot mutate the catalog", func(t *testing.T) {
		c := testCatalog(t)
		f, _ := c.Feature(Engine)
		f.Options[0].Price = decimal.NewFromInt(99999)
		o, ok := c.Option(Engine, engStandard)
		require.True(t, ok)
		assert.True(t, o.Price.IsZero())
	})
}

func TestTotal(t *testing.T) {
	c := testCatalog(t)

	testCases := []struct {
		name     string
		sel      Selection
		expected string
	}{
		{name: "empty selection", sel: Selection{}, expected: "0"},
		{name: "nil selection", sel: nil, expected: "0"},
		{
			name: "complete valid car",
			sel: Selection{
				Exterior: Pick(extBlue), Wheels: Pick(whLuxury),
				Interior: Pick(intBlack), Engine: Pick(engTurbo),
			},
			expected: "7500",
		},
		{name: "partial selection", sel: Selection{Engine: Pick(engElectric)}, expected: "8000"},
		{name: "null entries contribute nothing", sel: Selection{Engine: nil, Wheels: Pick(whSport)}, expected: "1200"},
		{name: "unknown option id is skipped", sel: Selection{Engine: Pick(999), Wheels: Pick(whSport)}, expected: "1200"},
		{name: "option from another feature is skipped", sel: Selection{Engine: Pick(whSport)}, expected: "0"},
		{name: "unknown feature is skipped", sel: Selection{"spoiler": Pick(extRed), Exterior: Pick(extBlack)}, expected: "1000"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Total(c, tc.sel).String())
		})
	}
}

func TestTotalIsOrderIndependent(t *testing.T) {
	c := testCatalog(t)
	entries := []struct {
		feature string
		id      int64
	}{
		{Exterior, extBlack}, {Wheels, whPerformance}, {Interior, intRed}, {Engine, engHybrid},
	}
	want := Total(c, Selection{
		Exterior: Pick(extBlack), Wheels: Pick(whPerformance),
		Interior: Pick(intRed), Engine: Pick(engHybrid),
	})

	// every rotation inserts the keys in a different order
	for shift := range entries {
		sel := Selection{}
		for i := range entries {
			e := entries[(i+shift)%len(entries)]
			sel[e.feature] = Pick(e.id)
		}
		assert.True(t, want.Equal(Total(c, sel)), "rotation %d", shift)
	}
	assert.Equal(t, "7000", want.String())
}

func TestTotalKeepsCents(t *testing.T) {
	c, err := NewCatalog([]Feature{
		{Name: Exterior, Options: []Option{{ID: 1, Name: "a", Price: decimal.RequireFromString("0.10")}}},
		{Name: Wheels, Options: []Option{{ID: 2, Name: "b", Price: decimal.RequireFromString("0.20")}}},
	})
	require.NoError(t, err)

	got := Total(c, Selection{Exterior: Pick(1), Wheels: Pick(2)})
	assert.True(t, decimal.RequireFromString("0.30").Equal(got), "got %s", got)
}

func TestOptionPrice(t *testing.T) {
	c := testCatalog(t)
	assert.Equal(t, "2500", OptionPrice(c, Wheels, Pick(whPerformance)).String())
	assert.True(t, OptionPrice(c, Wheels, nil).IsZero())
	assert.True(t, OptionPrice(c, "roof", Pick(1)).IsZero())
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$0", FormatPrice(decimal.Zero))
	assert.Equal(t, "$7,500", FormatPrice(decimal.NewFromInt(7500)))
	assert.Equal(t, "$12,001", FormatPrice(decimal.RequireFromString("12000.50")))
	assert.Equal(t, "$999", FormatPrice(decimal.RequireFromString("999.49")))
}

func TestAvailable(t *testing.T) {
	c := testCatalog(t)

	t.Run("interior without exterior keeps white", func(t *testing.T) {
		got := Available(c, Interior, Selection{})
		assert.Equal(t, []string{"black", "brown", "white", "red"}, names(got))
	})

	t.Run("red exterior removes white interior", func(t *testing.T) {
		got := Available(c, Interior, Selection{Exterior: Pick(extRed)})
		assert.Equal(t, []string{"black", "brown", "red"}, names(got))
	})

	t.Run("black exterior removes white interior", func(t *testing.T) {
		got := Available(c, Interior, Selection{Exterior: Pick(extBlack)})
		assert.NotContains(t, names(got), "white")
	})

	t.Run("blue exterior keeps white interior", func(t *testing.T) {
		got := Available(c, Interior, Selection{Exterior: Pick(extBlue)})
		assert.Contains(t, names(got), "white")
	})

	t.Run("unresolvable prerequisite applies nothing", func(t *testing.T) {
		got := Available(c, Interior, Selection{Exterior: Pick(999)})
		assert.Contains(t, names(got), "white")
	})

	t.Run("standard engine discourages performance wheels", func(t *testing.T) {
		got := Available(c, Wheels, Selection{Engine: Pick(engStandard)})
		require.Len(t, got, 4)
		for _, a := range got {
			assert.Equal(t, a.Name != "performance", a.Recommended, a.Name)
		}
	})

	t.Run("turbo engine recommends everything", func(t *testing.T) {
		got := Available(c, Wheels, Selection{Engine: Pick(engTurbo)})
		require.Len(t, got, 4)
		for _, a := range got {
			assert.True(t, a.Recommended, a.Name)
		}
	})

	t.Run("unknown feature yields empty list", func(t *testing.T) {
		got := Available(c, "spoiler", Selection{Exterior: Pick(extRed)})
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("rules targeting one feature compose", func(t *testing.T) {
		rules := Rules{
			{Feature: Interior, Option: "white", When: Exterior, Is: "red", Effect: Exclude},
			{Feature: Interior, Option: "brown", When: Engine, Is: "electric", Effect: Exclude},
			{Feature: Interior, Option: "red", When: Engine, Is: "electric", Effect: Discourage},
		}
		got := rules.Available(c, Interior, Selection{Exterior: Pick(extRed), Engine: Pick(engElectric)})
		assert.Equal(t, []string{"black", "red"}, names(got))
		assert.True(t, got[0].Recommended)
		assert.False(t, got[1].Recommended)
	})
}

func TestValidate(t *testing.T) {
	c := testCatalog(t)

	testCases := []struct {
		name       string
		sel        Selection
		valid      bool
		violations []string
	}{
		{
			name: "valid car",
			sel: Selection{
				Exterior: Pick(extBlue), Wheels: Pick(whLuxury),
				Interior: Pick(intBlack), Engine: Pick(engTurbo),
			},
			valid: true,
		},
		{
			name: "empty selection lists every feature in order",
			sel:  Selection{},
			violations: []string{
				"Please select a exterior option",
				"Please select a wheels option",
				"Please select a interior option",
				"Please select a engine option",
			},
		},
		{
			name:       "null value counts as missing",
			sel:        Selection{Exterior: Pick(extBlue), Wheels: Pick(whSport), Interior: nil, Engine: Pick(engTurbo)},
			violations: []string{"Please select a interior option"},
		},
		{
			name: "red exterior with white interior",
			sel: Selection{
				Exterior: Pick(extRed), Wheels: Pick(whSport),
				Interior: Pick(intWhite), Engine: Pick(engStandard),
			},
			violations: []string{DefaultRules[0].Message},
		},
		{
			name: "black exterior with white interior",
			sel: Selection{
				Exterior: Pick(extBlack), Wheels: Pick(whSport),
				Interior: Pick(intWhite), Engine: Pick(engTurbo),
			},
			violations: []string{DefaultRules[1].Message},
		},
		{
			name: "standard engine with performance wheels",
			sel: Selection{
				Exterior: Pick(extBlue), Wheels: Pick(whPerformance),
				Interior: Pick(intBlack), Engine: Pick(engStandard),
			},
			violations: []string{DefaultRules[2].Message},
		},
		{
			name: "completeness comes before pairwise and nothing short-circuits",
			sel: Selection{
				Exterior: Pick(extRed), Interior: Pick(intWhite),
				Wheels: Pick(whPerformance), Engine: nil,
			},
			violations: []string{"Please select a engine option", DefaultRules[0].Message},
		},
		{
			name: "all pairs at once",
			sel: Selection{
				Exterior: Pick(extRed), Wheels: Pick(whPerformance),
				Interior: Pick(intWhite), Engine: Pick(engStandard),
			},
			violations: []string{DefaultRules[0].Message, DefaultRules[2].Message},
		},
		{
			name: "unknown ids are complete but never match a pair",
			sel: Selection{
				Exterior: Pick(999), Wheels: Pick(whPerformance),
				Interior: Pick(intWhite), Engine: Pick(998),
			},
			valid: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := Validate(c, tc.sel)
			assert.Equal(t, tc.valid, res.Valid)
			assert.Equal(t, tc.violations, res.Violations)
			if tc.valid {
				assert.NoError(t, res.Err())
				assert.True(t, tc.sel.Complete())
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, res.Err(), &verr)
			assert.Equal(t, tc.violations[0], verr.First())
		})
	}
}

func TestValidateIsRepeatable(t *testing.T) {
	c := testCatalog(t)
	sel := Selection{Exterior: Pick(extRed), Interior: Pick(intWhite)}
	first := Validate(c, sel)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Validate(c, sel))
	}
}
