// Package calc is the duty/VAT/fee computation engine. It is a pure,
// synchronous transformation over a declaration's line items: given price,
// customs value, HS code, origin, regime and exchange rate it fills in the
// rate/amount pairs and the declaration aggregates. It performs no I/O.
package calc

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/declarium/customs-declaration-service/internal/models"
	"github.com/declarium/customs-declaration-service/internal/normalize"
)

// transportUpliftFactor scales a derived customs value when the Incoterms
// group bundles carriage into the price. Fixed heuristic; whether it should
// vary per corridor is an open question of the rule set.
var transportUpliftFactor = decimal.NewFromFloat(1.05)

// Default engine bounds, overridable through CalcConfig.
const (
	defaultVATRate    = 12.0 // percent, import family
	defaultFeeRate    = 0.2  // percent of customs value
	defaultMinFeeUZS  = 375000
	defaultMaxFeeUZS  = 11250000
)

// Advisory flags an inconsistent but non-fatal state found during
// recomputation. Advisories never block computation or save.
type Advisory struct {
	ItemNumber int    `json:"itemNumber"`
	Field      string `json:"field"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// Engine computes duties, VAT and fees. Safe for reuse across
// declarations; it holds only configuration.
type Engine struct {
	vatRate decimal.Decimal
	feeRate decimal.Decimal
	minFee  decimal.Decimal
	maxFee  decimal.Decimal
}

// NewEngine builds an engine from configuration, falling back to the
// statutory defaults for unset bounds.
func NewEngine(cfg models.CalcConfig) *Engine {
	feeRate := cfg.FeeRatePercent
	if feeRate <= 0 {
		feeRate = defaultFeeRate
	}
	minFee := cfg.MinFee
	if minFee <= 0 {
		minFee = defaultMinFeeUZS
	}
	maxFee := cfg.MaxFee
	if maxFee <= 0 {
		maxFee = defaultMaxFeeUZS
	}
	return &Engine{
		vatRate: decimal.NewFromFloat(defaultVATRate),
		feeRate: decimal.NewFromFloat(feeRate),
		minFee:  decimal.NewFromFloat(minFee),
		maxFee:  decimal.NewFromFloat(maxFee),
	}
}

// Fingerprint folds the causal inputs of an item's money fields into a
// comparable string. Recomputation writes only derived fields, which are
// not part of the fingerprint, so writing results never re-triggers the
// engine.
func Fingerprint(d *models.Declaration, it *models.LineItem) string {
	return fmt.Sprintf("%s|%s|%d|%s|%s|%s|%s|%s",
		it.ItemPrice.String(),
		it.CustomsValue.String(),
		it.PackageCount,
		it.HSCode,
		it.OriginCountry,
		it.PreferenceCode,
		d.ExchangeRate.String(),
		d.Regime,
	)
}

// RecalculateItem recomputes one line item's money fields in place and
// returns any advisories. The declaration aggregates are not touched;
// callers normally go through RecalculateAll.
func (e *Engine) RecalculateItem(d *models.Declaration, it *models.LineItem) []Advisory {
	var advisories []Advisory

	if it.GrossWeight.IsPositive() && it.NetWeight.IsPositive() && it.GrossWeight.LessThan(it.NetWeight) {
		advisories = append(advisories, Advisory{
			ItemNumber: it.ItemNumber,
			Field:      "grossWeight",
			Code:       "gross_below_net",
			Message:    "gross weight is below net weight",
		})
	}

	// Customs value: keep an explicit one, otherwise derive from price at
	// the declaration exchange rate. A missing rate counts as 1.
	customsValue := it.CustomsValue
	if customsValue.IsZero() {
		if it.ItemPrice.IsZero() {
			advisories = append(advisories, Advisory{
				ItemNumber: it.ItemNumber,
				Field:      "itemPrice",
				Code:       "no_price",
				Message:    "no price: money fields remain zero",
			})
			it.DutyRate, it.VATRate, it.FeeRate = 0, 0, 0
			it.DutyAmount = decimal.Zero
			it.VATAmount = decimal.Zero
			it.FeeAmount = decimal.Zero
			it.TotalPayment = decimal.Zero
			return advisories
		}
		rate := d.ExchangeRate
		if rate.IsZero() {
			rate = decimal.NewFromInt(1)
		}
		customsValue = it.ItemPrice.Mul(rate)
		if IsTransportInclusive(normalize.Code(d.IncotermsCode, 3)) {
			customsValue = customsValue.Mul(transportUpliftFactor)
		}
		it.CustomsValue = customsValue.Round(2)
	}
	if it.StatisticalValue.IsZero() {
		it.StatisticalValue = it.CustomsValue
	}

	if it.PreferenceCode == "" {
		it.PreferenceCode = SuggestPreference(normalize.CountryCode(it.OriginCountry))
	}

	hundred := decimal.NewFromInt(100)

	switch d.Regime.Type() {
	case models.TypeImport:
		dutyRate, ok := dutyRateByHSGroup[hsGroup(it.HSCode)]
		if !ok {
			dutyRate = defaultDutyRate
		}
		switch it.PreferenceCode {
		case PreferenceHalfDuty:
			dutyRate = dutyRate / 2
		case PreferenceNoDuty:
			dutyRate = 0
		}
		it.DutyRate = dutyRate
		it.DutyAmount = customsValue.Mul(decimal.NewFromFloat(dutyRate)).Div(hundred).Round(2)

		if it.PreferenceCode == PreferenceNoVAT {
			it.VATRate = 0
			it.VATAmount = decimal.Zero
		} else {
			it.VATRate, _ = e.vatRate.Float64()
			it.VATAmount = customsValue.Add(it.DutyAmount).Mul(e.vatRate).Div(hundred).Round(2)
		}
	default:
		// Export family and transit: no export duty, VAT exempt.
		it.DutyRate = 0
		it.DutyAmount = decimal.Zero
		it.VATRate = 0
		it.VATAmount = decimal.Zero
	}

	// The processing fee is levied regardless of regime.
	it.FeeRate, _ = e.feeRate.Float64()
	fee := customsValue.Mul(e.feeRate).Div(hundred)
	if fee.LessThan(e.minFee) {
		fee = e.minFee
	}
	if fee.GreaterThan(e.maxFee) {
		fee = e.maxFee
	}
	it.FeeAmount = fee.Round(2)

	it.TotalPayment = it.DutyAmount.Add(it.VATAmount).Add(it.FeeAmount)
	return advisories
}

// RecalculateAll recomputes every line item and then the declaration
// aggregates. Aggregates are write-only from the engine's perspective:
// totals always equal the sum over items, an empty item list sums to zero.
func (e *Engine) RecalculateAll(d *models.Declaration) []Advisory {
	var advisories []Advisory

	invoiceTotal := decimal.Zero
	customsTotal := decimal.Zero
	dutyTotal := decimal.Zero
	vatTotal := decimal.Zero
	feeTotal := decimal.Zero
	packages := 0

	for i := range d.Items {
		it := &d.Items[i]
		advisories = append(advisories, e.RecalculateItem(d, it)...)

		invoiceTotal = invoiceTotal.Add(it.ItemPrice)
		customsTotal = customsTotal.Add(it.CustomsValue)
		dutyTotal = dutyTotal.Add(it.DutyAmount)
		vatTotal = vatTotal.Add(it.VATAmount)
		feeTotal = feeTotal.Add(it.FeeAmount)
		packages += it.PackageCount
	}

	d.TotalInvoiceAmount = invoiceTotal
	d.TotalCustomsValue = customsTotal
	d.TotalDuty = dutyTotal
	d.TotalVAT = vatTotal
	d.TotalFee = feeTotal
	d.TotalPackages = packages

	return advisories
}

// hsGroup returns the duty lookup key: the first two digits of an HS code.
func hsGroup(hs string) string {
	code := normalize.HSCode(hs)
	if code == "" {
		return ""
	}
	return code[:2]
}
