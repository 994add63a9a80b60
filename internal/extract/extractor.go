package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Extractor runs a provider against one trade document and returns the raw
// extraction payload: a loosely-typed field bag plus the model's
// confidence. Shape resolution and normalization happen in the autofill
// mapper, not here.
type Extractor struct {
	provider Provider
}

// NewExtractor creates an extractor on top of an AI provider.
func NewExtractor(provider Provider) *Extractor {
	return &Extractor{provider: provider}
}

// Extract processes document text or an image scan. Returns the parsed raw
// payload and the provider call duration in seconds.
func (e *Extractor) Extract(ctx context.Context, docText string, image []byte) (map[string]interface{}, float64, error) {
	start := time.Now()

	prompt := buildPrompt(docText)
	response, err := e.provider.ExtractData(ctx, prompt, image)
	duration := time.Since(start).Seconds()
	if err != nil {
		return nil, duration, fmt.Errorf("AI extraction failed: %w", err)
	}

	raw, err := parseResponse(response)
	if err != nil {
		return nil, duration, fmt.Errorf("failed to parse AI response: %w", err)
	}
	return raw, duration, nil
}

// buildPrompt asks for the structured payload shape: combined name+address
// strings per party and country-code-keyed route fields.
func buildPrompt(docText string) string {
	prompt := `You are an expert in international trade documents: commercial invoices, CMR way-bills, sales contracts, certificates of origin. Extract the data needed for a customs declaration.

## PARTIES
- exporter = seller/consignor (invoice header, CMR box 1)
- consignee = buyer/receiver (CMR box 2, "Bill to", "Получатель")
- financialResponsible = party paying for the goods when different from the consignee
- declarant = customs broker when one is named
Keep company names with their legal suffix (LTD, LLC, GmbH, ООО, МЧЖ). Put the full name AND address into one string, name first.

## RULES
1. NEVER invent data - omit a field you cannot read
2. TINs: digits only, strip separators
3. Country fields: ISO-2 codes when you can determine them
4. hsCode: the tariff code as printed (any length, digits)
5. Amounts are plain numbers, not strings; prices in the document currency
6. vin: vehicle identification or serial number when the goods carry one
7. "confidence": your overall confidence in this extraction, 0 to 1

Return ONLY valid JSON (no markdown, no comments):
{
  "confidence": 0.0,
  "exporter": {"nameAndAddress": "...", "tin": "...", "countryCode": "XX"},
  "consignee": {"nameAndAddress": "...", "tin": "...", "countryCode": "XX"},
  "financialResponsible": {"nameAndAddress": "...", "tin": "..."},
  "declarant": {"nameAndAddress": "...", "tin": "..."},
  "departureCountryCode": "XX",
  "destinationCountryCode": "XX",
  "currencyCode": "USD",
  "incotermsCode": "CIP",
  "contractNumber": "...",
  "contractDate": "YYYY-MM-DD",
  "transportType": "...",
  "transportNumber": "...",
  "items": [{"description": "...", "hsCode": "...", "originCountry": "XX", "quantity": 1, "packageCount": 1, "packageType": "...", "grossWeight": 0, "netWeight": 0, "price": 0, "vin": "..."}],
  "documents": [{"type": "invoice", "number": "...", "date": "YYYY-MM-DD"}]
}`

	if strings.TrimSpace(docText) != "" {
		prompt += "\n\nDocument text:\n" + docText
	} else {
		prompt += "\n\nNow analyze the attached document image carefully."
	}
	return prompt
}

// parseResponse strips markdown fences the models like to add and decodes
// the JSON object.
func parseResponse(response string) (map[string]interface{}, error) {
	cleaned := strings.TrimSpace(response)
	fence := "```"
	cleaned = strings.ReplaceAll(cleaned, fence+"json", "")
	cleaned = strings.ReplaceAll(cleaned, fence, "")
	cleaned = strings.TrimSpace(cleaned)

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}
	return raw, nil
}

// WithTimeout wraps a context with the standard extraction deadline.
func WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 90*time.Second)
}
