// Package autofill turns raw AI-extraction payloads into a safe,
// non-destructive patch over a declaration: shape resolution, field
// mapping, multi-document merging, item deduplication and confidence
// gating.
package autofill

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/declarium/customs-declaration-service/internal/models"
)

// ErrMalformedPayload marks a payload that defeats shape-sniffing
// entirely. This is the only hard failure of the mapper and is
// distinguishable from "no data extracted".
var ErrMalformedPayload = errors.New("extraction payload matches no known shape")

// legacyKeys are flat-shape markers: separate name/address keys per party.
var legacyKeys = []string{
	"exporterName", "exporterAddress", "consigneeName", "consigneeAddress",
	"financialResponsibleName", "declarantName", "currency", "currencyCode",
	"contractNumber", "items",
}

// structuredParties maps the structured-shape party objects to canonical
// party slots.
var structuredParties = []string{"exporter", "consignee", "financialResponsible", "declarant"}

// ResolvePayload sniffs the shape of a raw extraction result once and
// converts it into the tagged ExtractionPayload form. Downstream code
// never looks at raw keys again.
func ResolvePayload(raw map[string]interface{}, source string) (models.ExtractionPayload, error) {
	if len(raw) == 0 {
		return models.ExtractionPayload{}, fmt.Errorf("%w: empty object", ErrMalformedPayload)
	}

	p := models.ExtractionPayload{
		Confidence: asFloat(raw["confidence"]),
		Source:     source,
		Fields:     map[string]string{},
	}

	if isStructured(raw) {
		p.Shape = models.ShapeStructured
		resolveStructured(raw, &p)
	} else if isLegacy(raw) {
		p.Shape = models.ShapeLegacy
		resolveLegacy(raw, &p)
	} else {
		return models.ExtractionPayload{}, fmt.Errorf("%w: no recognizable fields", ErrMalformedPayload)
	}

	p.Items = resolveItems(raw["items"])
	p.Documents = resolveDocuments(raw["documents"])
	return p, nil
}

// isStructured recognizes the newer shape: party objects carrying a
// combined "nameAndAddress" string, or country-code-keyed route fields.
func isStructured(raw map[string]interface{}) bool {
	for _, key := range structuredParties {
		if obj, ok := raw[key].(map[string]interface{}); ok {
			if _, has := obj["nameAndAddress"]; has {
				return true
			}
		}
	}
	_, dep := raw["departureCountryCode"]
	_, dst := raw["destinationCountryCode"]
	return dep || dst
}

func isLegacy(raw map[string]interface{}) bool {
	for _, key := range legacyKeys {
		if _, ok := raw[key]; ok {
			return true
		}
	}
	return false
}

func resolveStructured(raw map[string]interface{}, p *models.ExtractionPayload) {
	parties := map[string]*models.ExtractedParty{
		"exporter":             &p.Exporter,
		"consignee":            &p.Consignee,
		"financialResponsible": &p.FinResponsible,
		"declarant":            &p.Declarant,
	}
	for key, party := range parties {
		obj, ok := raw[key].(map[string]interface{})
		if !ok {
			continue
		}
		name, address := SplitNameAddress(asString(obj["nameAndAddress"]))
		party.Name = name
		party.Address = address
		party.Country = asString(obj["countryCode"])
		party.TIN = asString(obj["tin"])
	}

	copyField(raw, p.Fields, "departureCountryCode", "departureCountry")
	copyField(raw, p.Fields, "destinationCountryCode", "destinationCountry")
	copyField(raw, p.Fields, "tradingCountryCode", "tradingCountry")
	copyField(raw, p.Fields, "currencyCode", "currencyCode")
	copyField(raw, p.Fields, "incotermsCode", "incotermsCode")
	copyField(raw, p.Fields, "contractNumber", "contractNumber")
	copyField(raw, p.Fields, "contractDate", "contractDate")
	copyField(raw, p.Fields, "transportType", "transportType")
	copyField(raw, p.Fields, "transportNumber", "transportNumber")
	copyField(raw, p.Fields, "borderTransport", "borderTransport")
}

func resolveLegacy(raw map[string]interface{}, p *models.ExtractionPayload) {
	p.Exporter = legacyParty(raw, "exporter")
	p.Consignee = legacyParty(raw, "consignee")
	p.FinResponsible = legacyParty(raw, "financialResponsible")
	p.Declarant = legacyParty(raw, "declarant")

	copyField(raw, p.Fields, "departureCountry", "departureCountry")
	copyField(raw, p.Fields, "destinationCountry", "destinationCountry")
	copyField(raw, p.Fields, "tradingCountry", "tradingCountry")
	copyField(raw, p.Fields, "currency", "currencyCode")
	copyField(raw, p.Fields, "currencyCode", "currencyCode")
	copyField(raw, p.Fields, "deliveryTerms", "incotermsCode")
	copyField(raw, p.Fields, "incoterms", "incotermsCode")
	copyField(raw, p.Fields, "contractNumber", "contractNumber")
	copyField(raw, p.Fields, "contractDate", "contractDate")
	copyField(raw, p.Fields, "transportType", "transportType")
	copyField(raw, p.Fields, "transportNumber", "transportNumber")
	copyField(raw, p.Fields, "borderTransport", "borderTransport")
}

func legacyParty(raw map[string]interface{}, prefix string) models.ExtractedParty {
	return models.ExtractedParty{
		Name:    asString(raw[prefix+"Name"]),
		Address: asString(raw[prefix+"Address"]),
		Country: asString(raw[prefix+"Country"]),
		TIN:     asString(raw[prefix+"Tin"]),
	}
}

func resolveItems(v interface{}) []models.ExtractedItem {
	list, ok := v.([]interface{})
	if !ok {
		return nil
	}
	var items []models.ExtractedItem
	for _, el := range list {
		obj, ok := el.(map[string]interface{})
		if !ok {
			continue
		}
		item := models.ExtractedItem{
			Description:   asString(obj["description"]),
			HSCode:        asString(obj["hsCode"]),
			OriginCountry: asString(obj["originCountry"]),
			Quantity:      int(asFloat(obj["quantity"])),
			PackageCount:  int(asFloat(obj["packageCount"])),
			PackageType:   asString(obj["packageType"]),
			GrossWeight:   asDecimal(obj["grossWeight"]),
			NetWeight:     asDecimal(obj["netWeight"]),
			VIN:           firstNonEmpty(asString(obj["vin"]), asString(obj["serialNumber"])),
		}
		item.Price = asDecimal(firstNonNil(obj["price"], obj["unitPrice"], obj["amount"]))
		if item.Description == "" && item.Price.IsZero() && item.VIN == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

func resolveDocuments(v interface{}) []string {
	switch docs := v.(type) {
	case string:
		if strings.TrimSpace(docs) == "" {
			return nil
		}
		return []string{strings.TrimSpace(docs)}
	case []interface{}:
		var out []string
		for _, el := range docs {
			switch doc := el.(type) {
			case string:
				if s := strings.TrimSpace(doc); s != "" {
					out = append(out, s)
				}
			case map[string]interface{}:
				parts := []string{asString(doc["type"]), asString(doc["number"]), asString(doc["date"])}
				joined := strings.TrimSpace(strings.Join(parts, " "))
				if joined != "" {
					out = append(out, strings.Join(strings.Fields(joined), " "))
				}
			}
		}
		return out
	}
	return nil
}

func copyField(raw map[string]interface{}, fields map[string]string, rawKey, canonical string) {
	if v := strings.TrimSpace(asString(raw[rawKey])); v != "" {
		fields[canonical] = v
	}
}

// asString renders scalar JSON values as strings; objects and arrays read
// as empty.
func asString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}

// asFloat parses numeric JSON values leniently: numbers, or strings with
// comma decimals and currency noise.
func asFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(n), " ", "")
		s = strings.ReplaceAll(s, ",", ".")
		// Collapse thousand separators: keep the last dot only.
		if parts := strings.Split(s, "."); len(parts) > 2 {
			s = strings.Join(parts[:len(parts)-1], "") + "." + parts[len(parts)-1]
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

func asDecimal(v interface{}) decimal.Decimal {
	return decimal.NewFromFloat(asFloat(v))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonNil(values ...interface{}) interface{} {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
