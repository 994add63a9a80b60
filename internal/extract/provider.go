// Package extract drives AI-based data extraction from trade documents
// (invoices, CMR way-bills, contracts, certificates). It produces raw,
// weakly-typed extraction payloads with a confidence score; everything
// downstream goes through the autofill mapper.
package extract

import "context"

// Provider abstracts an AI backend able to answer an extraction prompt,
// optionally with document image data attached.
type Provider interface {
	ExtractData(ctx context.Context, prompt string, image []byte) (string, error)
}
