package regime

import (
	"github.com/declarium/customs-declaration-service/internal/models"
	"github.com/declarium/customs-declaration-service/internal/normalize"
)

// State tells the resolver whether the declaration is still being loaded
// from storage. While Loading, regime-driven auto-fill is suppressed
// entirely so that reloading persisted data never recomputes derived
// fields into something that diverges from what was saved. The caller
// passes the state explicitly; there is no timer window.
type State int

const (
	StateLoading State = iota
	StateReady
)

// Apply resolves a regime change against a declaration: it records the
// regime and its type, writes the regime's fixed procedure code, stamps
// every line item's procedure code to match, and applies the regime's
// auto-fill map to fields that are currently empty. A user-entered or
// previously persisted value is never overwritten.
func Apply(d *models.Declaration, r models.Regime, state State) {
	d.Regime = r

	cfg, ok := Lookup(r)
	if !ok {
		return
	}
	d.Type = normalize.DeclarationType(cfg.ProcedureCode)

	if state == StateLoading {
		return
	}

	d.ProcedureCode = cfg.ProcedureCode
	for i := range d.Items {
		d.Items[i].ProcedureCode = cfg.ProcedureCode
	}

	for field, value := range cfg.AutoFill {
		if d.Field(field) == "" {
			d.SetField(field, value)
		}
	}

	DeriveCountries(d, state)
}

// countryDerivations documents which country field feeds which: selecting
// a consignee country fills the destination country while that target is
// still empty, and the exporter country feeds the departure country the
// same way.
var countryDerivations = [][2]string{
	{"consigneeCountry", "destinationCountry"},
	{"exporterCountry", "departureCountry"},
}

// DeriveCountries propagates documented country derivations into empty
// target fields. Suppressed while loading persisted data.
func DeriveCountries(d *models.Declaration, state State) {
	if state == StateLoading {
		return
	}
	for _, pair := range countryDerivations {
		src, dst := pair[0], pair[1]
		if v := normalize.CountryCode(d.Field(src)); v != "" && d.Field(dst) == "" {
			d.SetField(dst, v)
		}
	}
}

// Hint returns the contextual hint text for a field under a regime, empty
// when there is none.
func Hint(r models.Regime, field string) string {
	cfg, ok := Catalog[r]
	if !ok {
		return ""
	}
	return cfg.Hints[field]
}
