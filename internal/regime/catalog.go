// Package regime holds the static customs-regime catalog and the resolver
// that applies a regime to a declaration: fixed procedure codes, contextual
// hints, field-group gating and empty-field auto-fill.
package regime

import "github.com/declarium/customs-declaration-service/internal/models"

// Field-group identifiers consumed by the rendering collaborator via
// IsGraphDisabled. The groups mirror the boxes of the ГТД form.
const (
	GraphDestination = "destination"
	GraphDeparture   = "departure"
	GraphPayments    = "payments"
	GraphTransit     = "transitGuarantee"
	GraphReturnDate  = "returnDate"
)

// Config is the immutable per-regime reference record: the fixed procedure
// code, values auto-filled into empty fields, contextual hints and the
// field groups the form hides or locks under this regime.
type Config struct {
	ProcedureCode  string
	AutoFill       map[string]string
	Hints          map[string]string
	DisabledGraphs []string
}

// Catalog keys every supported customs regime to its configuration.
// Changing customs law means updating this table, not the resolver.
var Catalog = map[models.Regime]Config{
	models.RegimeExport: {
		ProcedureCode: "10",
		AutoFill: map[string]string{
			"departureCountry": "UZ",
		},
		Hints: map[string]string{
			"destinationCountry": "Страна назначения по контракту",
		},
		DisabledGraphs: []string{GraphTransit, GraphReturnDate},
	},
	models.RegimeReexport: {
		ProcedureCode: "11",
		AutoFill: map[string]string{
			"departureCountry": "UZ",
		},
		Hints: map[string]string{
			"destinationCountry": "Страна возврата товара",
		},
		DisabledGraphs: []string{GraphTransit, GraphReturnDate},
	},
	models.RegimeTempExport: {
		ProcedureCode: "12",
		AutoFill: map[string]string{
			"departureCountry": "UZ",
		},
		Hints: map[string]string{
			"contractNumber": "Срок обратного ввоза указывается в гр. 44",
		},
		DisabledGraphs: []string{GraphTransit},
	},
	models.RegimeImport: {
		ProcedureCode: "40",
		AutoFill: map[string]string{
			"destinationCountry": "UZ",
		},
		Hints: map[string]string{
			"departureCountry": "Страна отправления по транспортным документам",
		},
		DisabledGraphs: []string{GraphTransit, GraphReturnDate},
	},
	models.RegimeReimport: {
		ProcedureCode: "41",
		AutoFill: map[string]string{
			"destinationCountry": "UZ",
		},
		DisabledGraphs: []string{GraphTransit, GraphReturnDate},
	},
	models.RegimeTempImport: {
		ProcedureCode: "42",
		AutoFill: map[string]string{
			"destinationCountry": "UZ",
		},
		Hints: map[string]string{
			"contractNumber": "Срок обратного вывоза указывается в гр. 44",
		},
		DisabledGraphs: []string{GraphTransit},
	},
	models.RegimeProcessing: {
		ProcedureCode: "51",
		AutoFill: map[string]string{
			"destinationCountry": "UZ",
		},
		Hints: map[string]string{
			"documentsNote": "Разрешение на переработку указывается в гр. 44",
		},
		DisabledGraphs: []string{GraphTransit},
	},
	models.RegimeFreeWarehouse: {
		ProcedureCode: "70",
		AutoFill: map[string]string{
			"destinationCountry": "UZ",
		},
		DisabledGraphs: []string{GraphTransit, GraphReturnDate},
	},
	models.RegimeTransit: {
		ProcedureCode: "80",
		AutoFill:      map[string]string{},
		Hints: map[string]string{
			"borderTransport": "Транспорт на границе обязателен для транзита",
		},
		// Transit carries no duties: the payments block is locked.
		DisabledGraphs: []string{GraphPayments, GraphReturnDate},
	},
}

// Lookup returns the catalog entry for a regime. Unknown regimes return a
// zero Config and ok=false; the resolver treats that as "leave everything
// as is".
func Lookup(r models.Regime) (Config, bool) {
	cfg, ok := Catalog[r]
	return cfg, ok
}

// IsGraphDisabled reports whether a field group is hidden/readonly under
// the given regime. The rendering collaborator asks; it never decides.
func IsGraphDisabled(r models.Regime, group string) bool {
	cfg, ok := Catalog[r]
	if !ok {
		return false
	}
	for _, g := range cfg.DisabledGraphs {
		if g == group {
			return true
		}
	}
	return false
}
