package regime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/declarium/customs-declaration-service/internal/models"
)

func TestApplyReady(t *testing.T) {
	d := &models.Declaration{
		Items: []models.LineItem{{ItemNumber: 1}, {ItemNumber: 2}},
	}

	Apply(d, models.RegimeExport, StateReady)

	assert.Equal(t, models.RegimeExport, d.Regime)
	assert.Equal(t, models.TypeExport, d.Type)
	assert.Equal(t, "10", d.ProcedureCode)
	for _, it := range d.Items {
		assert.Equal(t, "10", it.ProcedureCode)
	}
	assert.Equal(t, "UZ", d.DepartureCountry)
}

func TestApplyLoadingSuppressesAutoFill(t *testing.T) {
	d := &models.Declaration{
		Items: []models.LineItem{{ItemNumber: 1}},
	}

	Apply(d, models.RegimeImport, StateLoading)

	assert.Equal(t, models.RegimeImport, d.Regime)
	assert.Equal(t, models.TypeImport, d.Type)
	assert.Empty(t, d.ProcedureCode, "procedure code must not be written while loading")
	assert.Empty(t, d.Items[0].ProcedureCode)
	assert.Empty(t, d.DestinationCountry, "auto-fill must not run while loading")
}

func TestApplyKeepsExistingValues(t *testing.T) {
	d := &models.Declaration{DepartureCountry: "KZ"}

	Apply(d, models.RegimeExport, StateReady)

	assert.Equal(t, "KZ", d.DepartureCountry, "user-entered value survives auto-fill")
}

func TestApplyUnknownRegime(t *testing.T) {
	d := &models.Declaration{}

	Apply(d, models.Regime("BONDED_ZONE"), StateReady)

	assert.Equal(t, models.Regime("BONDED_ZONE"), d.Regime)
	assert.Empty(t, d.ProcedureCode)
}

func TestDeriveCountries(t *testing.T) {
	d := &models.Declaration{
		ConsigneeCountry: "860",
		ExporterCountry:  "DE",
	}

	DeriveCountries(d, StateReady)

	assert.Equal(t, "UZ", d.DestinationCountry, "numeric source is normalized before derivation")
	assert.Equal(t, "DE", d.DepartureCountry)
}

func TestDeriveCountriesKeepsTarget(t *testing.T) {
	d := &models.Declaration{
		ConsigneeCountry:   "CN",
		DestinationCountry: "KZ",
	}

	DeriveCountries(d, StateReady)

	assert.Equal(t, "KZ", d.DestinationCountry)
}

func TestDeriveCountriesSuppressedWhileLoading(t *testing.T) {
	d := &models.Declaration{ConsigneeCountry: "CN"}

	DeriveCountries(d, StateLoading)

	assert.Empty(t, d.DestinationCountry)
}

func TestIsGraphDisabled(t *testing.T) {
	assert.True(t, IsGraphDisabled(models.RegimeTransit, GraphPayments))
	assert.False(t, IsGraphDisabled(models.RegimeImport, GraphPayments))
	assert.True(t, IsGraphDisabled(models.RegimeExport, GraphTransit))
	assert.False(t, IsGraphDisabled(models.Regime("UNKNOWN"), GraphPayments))
}

func TestHint(t *testing.T) {
	assert.NotEmpty(t, Hint(models.RegimeTransit, "borderTransport"))
	assert.Empty(t, Hint(models.RegimeTransit, "contractNumber"))
	assert.Empty(t, Hint(models.Regime("UNKNOWN"), "borderTransport"))
}

func TestCatalogProcedureCodes(t *testing.T) {
	want := map[models.Regime]string{
		models.RegimeExport:        "10",
		models.RegimeReexport:      "11",
		models.RegimeTempExport:    "12",
		models.RegimeImport:        "40",
		models.RegimeReimport:      "41",
		models.RegimeTempImport:    "42",
		models.RegimeProcessing:    "51",
		models.RegimeFreeWarehouse: "70",
		models.RegimeTransit:       "80",
	}
	for r, code := range want {
		cfg, ok := Lookup(r)
		assert.True(t, ok, "regime %s missing from catalog", r)
		assert.Equal(t, code, cfg.ProcedureCode, "regime %s", r)
	}
}
