package autofill

import (
	"github.com/declarium/customs-declaration-service/internal/models"
	"github.com/declarium/customs-declaration-service/internal/normalize"
)

// fieldMapping is one row of the typed mapping table: a canonical
// declaration field, its form label, the normalizer applied to extracted
// values and an optional applicability predicate over the declaration
// type. The table is processed uniformly; there is no per-field branching
// in the mapper.
type fieldMapping struct {
	Key       string
	Label     string
	Normalize func(string) string
	AppliesTo func(models.DeclarationType) bool
}

func identity(s string) string { return normalize.Truncate(s, 250) }

func country(s string) string { return normalize.CountryCode(s) }

func code3(s string) string { return normalize.Code(s, 3) }

func tin(s string) string { return normalize.TIN(s) }

func short(max int) func(string) string {
	return func(s string) string { return normalize.Truncate(s, max) }
}

func notTransit(t models.DeclarationType) bool { return t != models.TypeTransit }

// mappingTable drives proposal generation. Order is the order proposals
// appear in the preview list, grouped the way the form lays out its boxes.
var mappingTable = []fieldMapping{
	{Key: "exporterName", Label: "Экспортер", Normalize: identity},
	{Key: "exporterAddress", Label: "Адрес экспортера", Normalize: identity},
	{Key: "exporterCountry", Label: "Страна экспортера", Normalize: country},
	{Key: "exporterTin", Label: "ИНН экспортера", Normalize: tin},

	{Key: "consigneeName", Label: "Получатель", Normalize: identity},
	{Key: "consigneeAddress", Label: "Адрес получателя", Normalize: identity},
	{Key: "consigneeCountry", Label: "Страна получателя", Normalize: country},
	{Key: "consigneeTin", Label: "ИНН получателя", Normalize: tin},

	{Key: "finResponsibleName", Label: "Ответственный за фин. урегулирование", Normalize: identity, AppliesTo: notTransit},
	{Key: "finResponsibleAddress", Label: "Адрес отв. за фин. урегулирование", Normalize: identity, AppliesTo: notTransit},
	{Key: "finResponsibleTin", Label: "ИНН отв. за фин. урегулирование", Normalize: tin, AppliesTo: notTransit},

	{Key: "declarantName", Label: "Декларант", Normalize: identity},
	{Key: "declarantAddress", Label: "Адрес декларанта", Normalize: identity},
	{Key: "declarantTin", Label: "ИНН декларанта", Normalize: tin},

	{Key: "departureCountry", Label: "Страна отправления", Normalize: country},
	{Key: "destinationCountry", Label: "Страна назначения", Normalize: country},
	{Key: "tradingCountry", Label: "Торгующая страна", Normalize: country, AppliesTo: notTransit},

	{Key: "contractNumber", Label: "Номер контракта", Normalize: short(50), AppliesTo: notTransit},
	{Key: "contractDate", Label: "Дата контракта", Normalize: short(10), AppliesTo: notTransit},
	{Key: "currencyCode", Label: "Валюта", Normalize: code3},
	{Key: "incotermsCode", Label: "Условия поставки", Normalize: code3, AppliesTo: notTransit},

	{Key: "transportType", Label: "Вид транспорта", Normalize: short(30)},
	{Key: "transportNumber", Label: "Транспортное средство", Normalize: short(50)},
	{Key: "borderTransport", Label: "Транспорт на границе", Normalize: short(50)},
}

// NormalizeField runs the mapping-table normalizer for a canonical field
// over a manually entered value. Unknown fields pass through trimmed to
// the generic width guard.
func NormalizeField(key, value string) string {
	for _, m := range mappingTable {
		if m.Key == key {
			return m.Normalize(value)
		}
	}
	return identity(value)
}

// candidateValues flattens a payload into canonical-field candidates that
// the mapping table can be run over.
func candidateValues(p models.ExtractionPayload) map[string]string {
	c := map[string]string{
		"exporterName":          p.Exporter.Name,
		"exporterAddress":       p.Exporter.Address,
		"exporterCountry":       p.Exporter.Country,
		"exporterTin":           p.Exporter.TIN,
		"consigneeName":         p.Consignee.Name,
		"consigneeAddress":      p.Consignee.Address,
		"consigneeCountry":      p.Consignee.Country,
		"consigneeTin":          p.Consignee.TIN,
		"finResponsibleName":    p.FinResponsible.Name,
		"finResponsibleAddress": p.FinResponsible.Address,
		"finResponsibleTin":     p.FinResponsible.TIN,
		"declarantName":         p.Declarant.Name,
		"declarantAddress":      p.Declarant.Address,
		"declarantTin":          p.Declarant.TIN,
	}
	for key, value := range p.Fields {
		if c[key] == "" {
			c[key] = value
		}
	}
	return c
}
