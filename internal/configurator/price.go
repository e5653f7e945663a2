package configurator

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Total sums the price of every chosen option that exists in the catalog.
// Unknown features or option ids contribute zero; the resolver reports them.
func Total(c *Catalog, s Selection) decimal.Decimal {
	total := decimal.Zero
	for feature := range s {
		total = total.Add(OptionPrice(c, feature, s[feature]))
	}
	return total
}

// OptionPrice returns the price of one option, or zero when id is nil or unknown.
func OptionPrice(c *Catalog, feature string, id *int64) decimal.Decimal {
	if id == nil {
		return decimal.Zero
	}
	o, ok := c.Option(feature, *id)
	if !ok {
		return decimal.Zero
	}
	return o.Price
}

// FormatPrice renders whole US dollars, e.g. "$7,500". Display only.
func FormatPrice(d decimal.Decimal) string {
	n := d.Round(0).IntPart()
	if n < 0 {
		return "-$" + humanize.Comma(-n)
	}
	return "$" + humanize.Comma(n)
}
