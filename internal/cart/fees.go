package cart

import (
	"strings"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

// DesignatedDistrict is the district billed at the lower delivery rate in the
// reference fee table.
const DesignatedDistrict = "Dhaka"

// FeeTable maps district names to a flat delivery fee. Lookups ignore case and
// surrounding whitespace; districts missing from Rates pay Default.
type FeeTable struct {
	rates   map[string]decimal.Decimal
	Default decimal.Decimal
}

// NewFeeTable builds a table from display-cased district names.
func NewFeeTable(rates map[string]decimal.Decimal, def decimal.Decimal) FeeTable {
	normalized := make(map[string]decimal.Decimal, len(rates))
	for district, fee := range rates {
		normalized[normalizeDistrict(district)] = fee
	}
	return FeeTable{rates: normalized, Default: def}
}

// DefaultFeeTable is the reference pricing: 100 inside Dhaka, 120 elsewhere.
func DefaultFeeTable() FeeTable {
	return NewFeeTable(map[string]decimal.Decimal{
		DesignatedDistrict: decimal.NewFromInt(100),
	}, decimal.NewFromInt(120))
}

// FeeTableFromConfig builds the table from whole-currency configuration values.
func FeeTableFromConfig(cfg config.CartConfig) FeeTable {
	rates := make(map[string]decimal.Decimal, len(cfg.DistrictRates))
	for district, fee := range cfg.DistrictRates {
		rates[district] = decimal.NewFromInt(fee)
	}
	return NewFeeTable(rates, decimal.NewFromInt(cfg.DefaultFee))
}

// FeeFor returns the delivery fee for a district.
func (t FeeTable) FeeFor(district string) decimal.Decimal {
	if fee, ok := t.rates[normalizeDistrict(district)]; ok {
		return fee
	}
	return t.Default
}

// FeeForOption prices the coarse "buy now" delivery option: dhaka uses the
// designated district rate, outside uses the default rate.
func (t FeeTable) FeeForOption(option enums.DeliveryOption) decimal.Decimal {
	if option == enums.DeliveryOptionDhaka {
		return t.FeeFor(DesignatedDistrict)
	}
	return t.Default
}

// Districts lists the explicitly priced districts, lower-cased.
func (t FeeTable) Districts() []string {
	out := make([]string, 0, len(t.rates))
	for district := range t.rates {
		out = append(out, district)
	}
	return out
}

func normalizeDistrict(district string) string {
	return strings.ToLower(strings.TrimSpace(district))
}
