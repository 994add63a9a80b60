package autofill

import (
	"strings"

	"github.com/declarium/customs-declaration-service/internal/models"
	"github.com/declarium/customs-declaration-service/internal/normalize"
)

// SkipReasonLowConfidence marks a patch that was short-circuited because
// every payload fell below the caller's confidence threshold. A controlled
// empty result, not an error.
const SkipReasonLowConfidence = "confidence below threshold"

// reasonAlreadyFilled annotates proposals excluded by the conflict policy.
const reasonAlreadyFilled = "already filled"

// Options control one merge/preview operation.
type Options struct {
	// MinConfidence gates whole payloads: anything below is skipped.
	MinConfidence float64
	// OverwriteExisting lets proposals replace non-empty form fields.
	// Off by default: extraction never clobbers what a human typed.
	OverwriteExisting bool
}

// BuildPatch merges the given payloads and diffs the result against the
// current form state, producing the proposal list and the safe patch.
// Proposals for already-filled fields are still emitted for audit but are
// excluded from FormData unless OverwriteExisting is set.
func BuildPatch(current *models.Declaration, payloads []models.ExtractionPayload, opts Options) models.Patch {
	patch := models.Patch{
		FormData:     map[string]string{},
		UnmappedData: map[string]string{},
	}

	var admitted []models.ExtractionPayload
	for _, p := range payloads {
		if p.Confidence >= opts.MinConfidence {
			admitted = append(admitted, p)
		}
	}
	if len(admitted) == 0 {
		patch.Skipped = true
		patch.SkipReason = SkipReasonLowConfidence
		return patch
	}

	m := Merge(admitted)
	patch.Confidence = m.Payload.Confidence

	declType := current.Regime.Type()
	candidates := candidateValues(m.Payload)

	for _, mapping := range mappingTable {
		if mapping.AppliesTo != nil && !mapping.AppliesTo(declType) {
			continue
		}
		raw, ok := candidates[mapping.Key]
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		value := mapping.Normalize(strings.TrimSpace(raw))
		if value == "" {
			continue
		}

		source := m.Sources[mapping.Key]
		if source == "" {
			source = m.Payload.Source
		}
		proposal := models.Proposal{
			FieldName:  mapping.Key,
			Label:      mapping.Label,
			Value:      value,
			Confidence: m.Payload.Confidence,
			Source:     source,
		}

		if existing := current.Field(mapping.Key); existing != "" && !opts.OverwriteExisting {
			proposal.Applied = false
			proposal.Reason = reasonAlreadyFilled
		} else {
			proposal.Applied = true
			patch.FormData[mapping.Key] = value
		}
		patch.Fields = append(patch.Fields, proposal)
	}

	patch.ItemsData = normalizeItems(m.Payload.Items)

	if len(m.Payload.Documents) > 0 {
		patch.UnmappedData["documents"] = strings.Join(m.Payload.Documents, "; ")
	}

	return patch
}

// ApplyPatch writes a patch's form data into a declaration. Same
// non-destructive rule as at build time, re-checked here because the form
// may have changed between preview and apply.
func ApplyPatch(d *models.Declaration, patch models.Patch, overwrite bool) int {
	applied := 0
	for key, value := range patch.FormData {
		if d.Field(key) != "" && !overwrite {
			continue
		}
		d.SetField(key, value)
		applied++
	}
	return applied
}

// normalizeItems runs the item-level normalizers over pooled extraction
// lines before they are handed to the form.
func normalizeItems(items []models.ExtractedItem) []models.ExtractedItem {
	out := make([]models.ExtractedItem, 0, len(items))
	for _, it := range items {
		it.Description = normalize.Truncate(strings.TrimSpace(it.Description), 250)
		it.HSCode = normalize.HSCode(it.HSCode)
		it.OriginCountry = normalize.CountryCode(it.OriginCountry)
		it.VIN = normalize.Code(it.VIN, 20)
		out = append(out, it)
	}
	return out
}
