package calc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declarium/customs-declaration-service/internal/models"
)

func newTestEngine() *Engine {
	return NewEngine(models.CalcConfig{})
}

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCustomsValueDerivation(t *testing.T) {
	e := newTestEngine()
	d := &models.Declaration{
		Regime:        models.RegimeImport,
		ExchangeRate:  dec("12000"),
		IncotermsCode: "CIP",
		Items: []models.LineItem{{
			ItemNumber: 1,
			HSCode:     "8703231910",
			ItemPrice:  dec("1000"),
		}},
	}

	e.RecalculateAll(d)

	it := d.Items[0]
	// 1000 * 12000 * 1.05 with carriage-inclusive terms
	assert.True(t, it.CustomsValue.Equal(dec("12600000")), "got %s", it.CustomsValue)
	assert.True(t, it.StatisticalValue.Equal(it.CustomsValue))
}

func TestCustomsValueWithoutUplift(t *testing.T) {
	e := newTestEngine()
	d := &models.Declaration{
		Regime:        models.RegimeImport,
		ExchangeRate:  dec("12000"),
		IncotermsCode: "FCA",
		Items: []models.LineItem{{
			ItemNumber: 1,
			ItemPrice:  dec("1000"),
		}},
	}

	e.RecalculateAll(d)

	assert.True(t, d.Items[0].CustomsValue.Equal(dec("12000000")), "got %s", d.Items[0].CustomsValue)
}

func TestExplicitCustomsValueWins(t *testing.T) {
	e := newTestEngine()
	d := &models.Declaration{
		Regime:       models.RegimeImport,
		ExchangeRate: dec("12000"),
		Items: []models.LineItem{{
			ItemNumber:   1,
			ItemPrice:    dec("1000"),
			CustomsValue: dec("5000000"),
		}},
	}

	e.RecalculateAll(d)

	assert.True(t, d.Items[0].CustomsValue.Equal(dec("5000000")))
}

func TestMissingExchangeRateCountsAsOne(t *testing.T) {
	e := newTestEngine()
	d := &models.Declaration{
		Regime: models.RegimeImport,
		Items:  []models.LineItem{{ItemNumber: 1, ItemPrice: dec("1000")}},
	}

	e.RecalculateAll(d)

	assert.True(t, d.Items[0].CustomsValue.Equal(dec("1000")))
}

func TestImportDutyAndVAT(t *testing.T) {
	e := newTestEngine()
	d := &models.Declaration{
		Regime: models.RegimeImport,
		Items: []models.LineItem{{
			ItemNumber:     1,
			HSCode:         "8703231910", // vehicles, 30%
			CustomsValue:   dec("1000000"),
			PreferenceCode: PreferenceNone,
		}},
	}

	e.RecalculateAll(d)

	it := d.Items[0]
	assert.Equal(t, 30.0, it.DutyRate)
	assert.True(t, it.DutyAmount.Equal(dec("300000")), "got %s", it.DutyAmount)
	assert.Equal(t, 12.0, it.VATRate)
	// VAT base is customs value plus duty
	assert.True(t, it.VATAmount.Equal(dec("156000")), "got %s", it.VATAmount)
}

func TestUnknownHSGroupFallsBackToDefaultDuty(t *testing.T) {
	e := newTestEngine()
	d := &models.Declaration{
		Regime: models.RegimeImport,
		Items: []models.LineItem{{
			ItemNumber:     1,
			HSCode:         "9900000000",
			CustomsValue:   dec("1000000"),
			PreferenceCode: PreferenceNone,
		}},
	}

	e.RecalculateAll(d)

	assert.Equal(t, 10.0, d.Items[0].DutyRate)
}

func TestPreferenceCodes(t *testing.T) {
	tests := []struct {
		name     string
		pref     string
		wantDuty string
		wantVAT  string
	}{
		{"half duty", PreferenceHalfDuty, "150000", "138000"},
		{"no duty", PreferenceNoDuty, "0", "120000"},
		{"no vat", PreferenceNoVAT, "300000", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine()
			d := &models.Declaration{
				Regime: models.RegimeImport,
				Items: []models.LineItem{{
					ItemNumber:     1,
					HSCode:         "8703231910",
					CustomsValue:   dec("1000000"),
					PreferenceCode: tt.pref,
				}},
			}
			e.RecalculateAll(d)
			it := d.Items[0]
			assert.True(t, it.DutyAmount.Equal(dec(tt.wantDuty)), "duty %s", it.DutyAmount)
			assert.True(t, it.VATAmount.Equal(dec(tt.wantVAT)), "vat %s", it.VATAmount)
		})
	}
}

func TestPreferenceSuggestedFromOrigin(t *testing.T) {
	e := newTestEngine()
	d := &models.Declaration{
		Regime: models.RegimeImport,
		Items: []models.LineItem{
			{ItemNumber: 1, CustomsValue: dec("1000000"), OriginCountry: "RU"},
			{ItemNumber: 2, CustomsValue: dec("1000000"), OriginCountry: "CN"},
		},
	}

	e.RecalculateAll(d)

	assert.Equal(t, PreferenceHalfDuty, d.Items[0].PreferenceCode)
	assert.Equal(t, PreferenceNone, d.Items[1].PreferenceCode)
}

func TestExportFamilyCarriesNoDutiesButPaysFee(t *testing.T) {
	for _, r := range []models.Regime{models.RegimeExport, models.RegimeReexport, models.RegimeTempExport, models.RegimeTransit} {
		e := newTestEngine()
		d := &models.Declaration{
			Regime: r,
			Items: []models.LineItem{{
				ItemNumber:   1,
				HSCode:       "8703231910",
				CustomsValue: dec("500000000"),
			}},
		}

		e.RecalculateAll(d)

		it := d.Items[0]
		assert.True(t, it.DutyAmount.IsZero(), "regime %s", r)
		assert.True(t, it.VATAmount.IsZero(), "regime %s", r)
		assert.True(t, it.FeeAmount.Equal(dec("1000000")), "regime %s: fee %s", r, it.FeeAmount)
		assert.True(t, it.TotalPayment.Equal(it.FeeAmount), "regime %s", r)
	}
}

func TestFeeClamping(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"below floor", "1000000", "375000"},        // 0.2% = 2000, clamped up
		{"within band", "500000000", "1000000"},     // 0.2% = 1000000
		{"above ceiling", "10000000000", "11250000"}, // 0.2% = 20000000, clamped down
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &models.Declaration{
				Regime: models.RegimeImport,
				Items:  []models.LineItem{{ItemNumber: 1, CustomsValue: dec(tt.value), PreferenceCode: PreferenceNone}},
			}
			e.RecalculateAll(d)
			assert.True(t, d.Items[0].FeeAmount.Equal(dec(tt.want)), "got %s", d.Items[0].FeeAmount)
		})
	}
}

func TestNoPriceZeroesMoneyFields(t *testing.T) {
	e := newTestEngine()
	d := &models.Declaration{
		Regime: models.RegimeImport,
		Items: []models.LineItem{{
			ItemNumber: 1,
			HSCode:     "8703231910",
			DutyAmount: dec("12345"), // stale value from a previous run
		}},
	}

	advisories := e.RecalculateAll(d)

	it := d.Items[0]
	assert.True(t, it.DutyAmount.IsZero())
	assert.True(t, it.VATAmount.IsZero())
	assert.True(t, it.FeeAmount.IsZero())
	assert.True(t, it.TotalPayment.IsZero())
	require.Len(t, advisories, 1)
	assert.Equal(t, "no_price", advisories[0].Code)
}

func TestGrossBelowNetAdvisory(t *testing.T) {
	e := newTestEngine()
	d := &models.Declaration{
		Regime: models.RegimeImport,
		Items: []models.LineItem{{
			ItemNumber:   1,
			CustomsValue: dec("1000000"),
			GrossWeight:  dec("10"),
			NetWeight:    dec("20"),
		}},
	}

	advisories := e.RecalculateAll(d)

	require.NotEmpty(t, advisories)
	assert.Equal(t, "gross_below_net", advisories[0].Code)
	assert.False(t, d.Items[0].TotalPayment.IsZero(), "advisory must not block computation")
}

func TestAggregatesEqualItemSums(t *testing.T) {
	e := newTestEngine()
	d := &models.Declaration{
		Regime: models.RegimeImport,
		Items: []models.LineItem{
			{ItemNumber: 1, CustomsValue: dec("1000000"), ItemPrice: dec("100"), PackageCount: 3, PreferenceCode: PreferenceNone},
			{ItemNumber: 2, CustomsValue: dec("2000000"), ItemPrice: dec("200"), PackageCount: 2, PreferenceCode: PreferenceNone},
		},
	}

	e.RecalculateAll(d)

	duty := d.Items[0].DutyAmount.Add(d.Items[1].DutyAmount)
	vat := d.Items[0].VATAmount.Add(d.Items[1].VATAmount)
	fee := d.Items[0].FeeAmount.Add(d.Items[1].FeeAmount)
	assert.True(t, d.TotalDuty.Equal(duty))
	assert.True(t, d.TotalVAT.Equal(vat))
	assert.True(t, d.TotalFee.Equal(fee))
	assert.True(t, d.TotalInvoiceAmount.Equal(dec("300")))
	assert.True(t, d.TotalCustomsValue.Equal(dec("3000000")))
	assert.Equal(t, 5, d.TotalPackages)
}

func TestEmptyDeclarationZeroesAggregates(t *testing.T) {
	e := newTestEngine()
	d := &models.Declaration{
		Regime:    models.RegimeImport,
		TotalDuty: dec("99999"),
	}

	e.RecalculateAll(d)

	assert.True(t, d.TotalDuty.IsZero())
	assert.True(t, d.TotalCustomsValue.IsZero())
	assert.Equal(t, 0, d.TotalPackages)
}

func TestFingerprintStableAcrossRecomputation(t *testing.T) {
	e := newTestEngine()
	d := &models.Declaration{
		Regime:       models.RegimeImport,
		ExchangeRate: dec("12000"),
		Items: []models.LineItem{{
			ItemNumber:   1,
			HSCode:       "8703231910",
			CustomsValue: dec("1000000"),
		}},
	}

	e.RecalculateAll(d)
	before := Fingerprint(d, &d.Items[0])
	e.RecalculateAll(d)
	after := Fingerprint(d, &d.Items[0])

	assert.Equal(t, before, after, "writing derived fields must not change the fingerprint")
}

func TestFingerprintChangesWithCausalInputs(t *testing.T) {
	d := &models.Declaration{Regime: models.RegimeImport, ExchangeRate: dec("12000")}
	it := models.LineItem{ItemNumber: 1, ItemPrice: dec("100"), HSCode: "8703231910"}

	base := Fingerprint(d, &it)

	it.ItemPrice = dec("200")
	assert.NotEqual(t, base, Fingerprint(d, &it))

	it.ItemPrice = dec("100")
	d.Regime = models.RegimeExport
	assert.NotEqual(t, base, Fingerprint(d, &it))
}

func TestIsTransportInclusive(t *testing.T) {
	assert.True(t, IsTransportInclusive("CIP"))
	assert.True(t, IsTransportInclusive("DAP"))
	assert.False(t, IsTransportInclusive("FCA"))
	assert.False(t, IsTransportInclusive("EXW"))
	assert.False(t, IsTransportInclusive(""))
}
