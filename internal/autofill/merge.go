package autofill

import (
	"sort"
	"strings"

	"github.com/declarium/customs-declaration-service/internal/models"
	"github.com/declarium/customs-declaration-service/internal/normalize"
)

// merged is a combined payload plus per-field provenance: which source
// document supplied each candidate value.
type merged struct {
	Payload models.ExtractionPayload
	Sources map[string]string
}

// Merge combines several extraction payloads into one. The payload with
// the highest confidence is the base; every other payload, in descending
// confidence order (stable for ties), backfills only fields absent from
// the accumulated result. Scalar conflicts are never averaged or replaced.
// The merged confidence is the arithmetic mean of all inputs. Merging is
// idempotent: merging a merged result with its inputs changes nothing.
func Merge(payloads []models.ExtractionPayload) merged {
	out := merged{Sources: map[string]string{}}
	if len(payloads) == 0 {
		return out
	}

	order := make([]int, len(payloads))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return payloads[order[a]].Confidence > payloads[order[b]].Confidence
	})

	base := payloads[order[0]]
	out.Payload = models.ExtractionPayload{
		Shape:      base.Shape,
		Source:     base.Source,
		Fields:     map[string]string{},
		Confidence: meanConfidence(payloads),
	}

	seenDocs := map[string]bool{}
	pool := []models.ExtractedItem{}

	for _, idx := range order {
		p := payloads[idx]

		backfillParty(&out.Payload.Exporter, p.Exporter, "exporter", p.Source, out.Sources)
		backfillParty(&out.Payload.Consignee, p.Consignee, "consignee", p.Source, out.Sources)
		backfillParty(&out.Payload.FinResponsible, p.FinResponsible, "finResponsible", p.Source, out.Sources)
		backfillParty(&out.Payload.Declarant, p.Declarant, "declarant", p.Source, out.Sources)

		for key, value := range p.Fields {
			if out.Payload.Fields[key] == "" && value != "" {
				out.Payload.Fields[key] = value
				out.Sources[key] = p.Source
			}
		}

		for _, doc := range p.Documents {
			if !seenDocs[doc] {
				seenDocs[doc] = true
				out.Payload.Documents = append(out.Payload.Documents, doc)
			}
		}

		pool = append(pool, p.Items...)
	}

	out.Payload.Items = DedupItems(pool)
	return out
}

// backfillParty fills the empty attributes of a party block and records
// provenance under "<slot>Name"-style keys matching the mapping table.
func backfillParty(dst *models.ExtractedParty, src models.ExtractedParty, slot, source string, sources map[string]string) {
	if dst.Name == "" && src.Name != "" {
		dst.Name = src.Name
		sources[slot+"Name"] = source
	}
	if dst.Address == "" && src.Address != "" {
		dst.Address = src.Address
		sources[slot+"Address"] = source
	}
	if dst.Country == "" && src.Country != "" {
		dst.Country = src.Country
		sources[slot+"Country"] = source
	}
	if dst.TIN == "" && src.TIN != "" {
		dst.TIN = src.TIN
		sources[slot+"Tin"] = source
	}
}

// DedupItems drops repeated goods lines pooled from multiple documents.
// Two items are duplicates when they share a non-empty VIN/serial, or,
// absent that, when description and price are both equal. Order of first
// occurrence is preserved.
func DedupItems(items []models.ExtractedItem) []models.ExtractedItem {
	seenVIN := map[string]bool{}
	seenDescPrice := map[string]bool{}
	var out []models.ExtractedItem

	for _, it := range items {
		vin := normalize.Code(it.VIN, 20)
		if vin != "" {
			if seenVIN[vin] {
				continue
			}
			seenVIN[vin] = true
			out = append(out, it)
			continue
		}
		key := strings.ToLower(strings.TrimSpace(it.Description)) + "|" + it.Price.String()
		if seenDescPrice[key] {
			continue
		}
		seenDescPrice[key] = true
		out = append(out, it)
	}
	return out
}

func meanConfidence(payloads []models.ExtractionPayload) float64 {
	if len(payloads) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range payloads {
		sum += p.Confidence
	}
	return sum / float64(len(payloads))
}
