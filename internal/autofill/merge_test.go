package autofill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declarium/customs-declaration-service/internal/models"
)

func payloadFrom(source string, confidence float64, fields map[string]string) models.ExtractionPayload {
	if fields == nil {
		fields = map[string]string{}
	}
	return models.ExtractionPayload{
		Shape:      models.ShapeLegacy,
		Source:     source,
		Confidence: confidence,
		Fields:     fields,
	}
}

func TestMergeHighestConfidenceWins(t *testing.T) {
	low := payloadFrom("contract.pdf", 0.6, map[string]string{"currencyCode": "EUR"})
	low.Exporter = models.ExtractedParty{Name: "LOW CONF NAME", TIN: "111111111"}
	high := payloadFrom("invoice.pdf", 0.9, map[string]string{"currencyCode": "USD"})
	high.Exporter = models.ExtractedParty{Name: "ACME TRADING LTD"}

	m := Merge([]models.ExtractionPayload{low, high})

	// Base values come from the highest-confidence payload.
	assert.Equal(t, "ACME TRADING LTD", m.Payload.Exporter.Name)
	assert.Equal(t, "USD", m.Payload.Fields["currencyCode"])
	// Absent attributes are backfilled from lower-confidence sources.
	assert.Equal(t, "111111111", m.Payload.Exporter.TIN)

	assert.Equal(t, "invoice.pdf", m.Sources["exporterName"])
	assert.Equal(t, "contract.pdf", m.Sources["exporterTin"])
	assert.InDelta(t, 0.75, m.Payload.Confidence, 1e-9)
}

func TestMergeNeverOverwrites(t *testing.T) {
	a := payloadFrom("a", 0.9, map[string]string{"contractNumber": "A-1"})
	b := payloadFrom("b", 0.8, map[string]string{"contractNumber": "B-2", "contractDate": "2024-01-01"})

	m := Merge([]models.ExtractionPayload{a, b})

	assert.Equal(t, "A-1", m.Payload.Fields["contractNumber"], "conflicting scalar keeps the base value")
	assert.Equal(t, "2024-01-01", m.Payload.Fields["contractDate"])
}

func TestMergeIdempotent(t *testing.T) {
	a := payloadFrom("a", 0.9, map[string]string{"currencyCode": "USD"})
	a.Exporter.Name = "ACME"
	b := payloadFrom("b", 0.7, map[string]string{"incotermsCode": "CIP"})

	once := Merge([]models.ExtractionPayload{a, b})
	again := Merge([]models.ExtractionPayload{once.Payload})

	assert.Equal(t, once.Payload.Exporter, again.Payload.Exporter)
	assert.Equal(t, once.Payload.Fields, again.Payload.Fields)
	assert.Equal(t, once.Payload.Items, again.Payload.Items)
}

func TestMergeStableForEqualConfidence(t *testing.T) {
	a := payloadFrom("first", 0.8, map[string]string{"currencyCode": "USD"})
	b := payloadFrom("second", 0.8, map[string]string{"currencyCode": "EUR"})

	m := Merge([]models.ExtractionPayload{a, b})

	// Ties keep input order: the first payload is the base.
	assert.Equal(t, "USD", m.Payload.Fields["currencyCode"])
	assert.Equal(t, "first", m.Payload.Source)
}

func TestMergeEmpty(t *testing.T) {
	m := Merge(nil)
	assert.Empty(t, m.Payload.Fields)
	assert.Zero(t, m.Payload.Confidence)
}

func TestMergePoolsAndDedupsItems(t *testing.T) {
	a := payloadFrom("a", 0.9, nil)
	a.Items = []models.ExtractedItem{
		{Description: "Chevrolet Cobalt", VIN: "XWB4A51J0MA123456", Price: dec("9000")},
		{Description: "Tires", Price: dec("45")},
	}
	b := payloadFrom("b", 0.8, nil)
	b.Items = []models.ExtractedItem{
		// Same VIN, formatted differently: still a duplicate.
		{Description: "COBALT SEDAN", VIN: "xwb4a51j0ma123456", Price: dec("9100")},
		// Same description and price as a's tires: duplicate.
		{Description: "tires", Price: dec("45")},
		// Same description, different price: distinct line.
		{Description: "Tires", Price: dec("50")},
	}

	m := Merge([]models.ExtractionPayload{a, b})

	require.Len(t, m.Payload.Items, 3)
	assert.Equal(t, "Chevrolet Cobalt", m.Payload.Items[0].Description)
}

func TestDedupItemsKeepsFirstOccurrence(t *testing.T) {
	items := []models.ExtractedItem{
		{Description: "First", VIN: "VIN-0001"},
		{Description: "Second", VIN: "VIN0001"},
	}

	out := DedupItems(items)

	require.Len(t, out, 1)
	assert.Equal(t, "First", out[0].Description)
}

func TestMergeDedupsDocuments(t *testing.T) {
	a := payloadFrom("a", 0.9, nil)
	a.Documents = []string{"Invoice INV-1", "CMR 774411"}
	b := payloadFrom("b", 0.8, nil)
	b.Documents = []string{"CMR 774411", "Certificate CT-1"}

	m := Merge([]models.ExtractionPayload{a, b})

	assert.Equal(t, []string{"Invoice INV-1", "CMR 774411", "Certificate CT-1"}, m.Payload.Documents)
}
