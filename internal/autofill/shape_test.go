package autofill

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declarium/customs-declaration-service/internal/models"
)

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func TestResolvePayloadStructured(t *testing.T) {
	raw := map[string]interface{}{
		"confidence": 0.87,
		"exporter": map[string]interface{}{
			"nameAndAddress": "ACME TRADING LTD 45 Industrial Zone, Urumqi",
			"countryCode":    "CN",
			"tin":            "123456789",
		},
		"consignee": map[string]interface{}{
			"nameAndAddress": "БАРАКА САВДО МЧЖ Ташкент шахри",
			"countryCode":    "UZ",
		},
		"departureCountryCode":   "CN",
		"destinationCountryCode": "UZ",
		"currencyCode":           "USD",
		"incotermsCode":          "CIP",
		"items": []interface{}{
			map[string]interface{}{
				"description": "Tires 215/65R16",
				"hsCode":      "4011.10",
				"quantity":    100.0,
				"unitPrice":   45.5,
			},
		},
		"documents": []interface{}{
			"Invoice INV-2024-001",
			map[string]interface{}{"type": "CMR", "number": "774411", "date": "2024-03-01"},
		},
	}

	p, err := ResolvePayload(raw, "invoice.pdf")
	require.NoError(t, err)

	assert.Equal(t, models.ShapeStructured, p.Shape)
	assert.Equal(t, 0.87, p.Confidence)
	assert.Equal(t, "invoice.pdf", p.Source)
	assert.Equal(t, "ACME TRADING LTD", p.Exporter.Name)
	assert.Equal(t, "45 Industrial Zone, Urumqi", p.Exporter.Address)
	assert.Equal(t, "CN", p.Exporter.Country)
	assert.Equal(t, "123456789", p.Exporter.TIN)
	assert.Equal(t, "БАРАКА САВДО МЧЖ", p.Consignee.Name)
	assert.Equal(t, "CN", p.Fields["departureCountry"])
	assert.Equal(t, "UZ", p.Fields["destinationCountry"])
	assert.Equal(t, "USD", p.Fields["currencyCode"])
	assert.Equal(t, "CIP", p.Fields["incotermsCode"])

	require.Len(t, p.Items, 1)
	assert.Equal(t, "Tires 215/65R16", p.Items[0].Description)
	assert.Equal(t, 100, p.Items[0].Quantity)
	assert.True(t, p.Items[0].Price.Equal(dec("45.5")))

	require.Len(t, p.Documents, 2)
	assert.Equal(t, "CMR 774411 2024-03-01", p.Documents[1])
}

func TestResolvePayloadLegacy(t *testing.T) {
	raw := map[string]interface{}{
		"confidence":       0.7,
		"exporterName":     "ACME TRADING LTD",
		"exporterAddress":  "45 Industrial Zone",
		"exporterCountry":  "CN",
		"consigneeName":    "БАРАКА САВДО",
		"currency":         "USD",
		"deliveryTerms":    "FCA",
		"contractNumber":   "TR-2024/15",
		"items": []interface{}{
			map[string]interface{}{
				"description": "Fabric",
				"price":       "1 200,50",
			},
		},
	}

	p, err := ResolvePayload(raw, "contract.jpg")
	require.NoError(t, err)

	assert.Equal(t, models.ShapeLegacy, p.Shape)
	assert.Equal(t, "ACME TRADING LTD", p.Exporter.Name)
	assert.Equal(t, "45 Industrial Zone", p.Exporter.Address)
	assert.Equal(t, "USD", p.Fields["currencyCode"])
	assert.Equal(t, "FCA", p.Fields["incotermsCode"])
	assert.Equal(t, "TR-2024/15", p.Fields["contractNumber"])

	require.Len(t, p.Items, 1)
	assert.True(t, p.Items[0].Price.Equal(dec("1200.5")), "got %s", p.Items[0].Price)
}

func TestResolvePayloadMalformed(t *testing.T) {
	for name, raw := range map[string]map[string]interface{}{
		"empty":          {},
		"no known keys":  {"foo": "bar", "confidence": 0.9},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ResolvePayload(raw, "x")
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestResolvePayloadSkipsEmptyItems(t *testing.T) {
	raw := map[string]interface{}{
		"exporterName": "ACME",
		"items": []interface{}{
			map[string]interface{}{"description": "", "price": 0.0},
			map[string]interface{}{"description": "Real item", "price": 10.0},
			"not an object",
		},
	}

	p, err := ResolvePayload(raw, "x")
	require.NoError(t, err)
	require.Len(t, p.Items, 1)
	assert.Equal(t, "Real item", p.Items[0].Description)
}

func TestResolvePayloadDocumentsAsString(t *testing.T) {
	raw := map[string]interface{}{
		"exporterName": "ACME",
		"documents":    "Invoice INV-1",
	}

	p, err := ResolvePayload(raw, "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"Invoice INV-1"}, p.Documents)
}
