package autofill

import "strings"

// addressMarkers start the address part of a combined "name and address"
// string when present.
var addressMarkers = []string{"No.", "Add:", "Address:", "Адрес:"}

// streetWords are street-suffix tokens: the address is assumed to start at
// the word preceding one of these.
var streetWords = []string{
	"street", "str.", "st.", "road", "rd.", "avenue", "ave.", "district",
	"building", "floor", "room", "кочаси", "ул.", "улица", "проспект",
	"туман", "дом",
}

// legalSuffixes end the legal name of an entity; everything after the
// suffix is treated as the address.
var legalSuffixes = []string{
	"LTD", "LTD.", "LLC", "CO., LTD", "CO.,LTD", "CO.,LTD.", "INC", "INC.",
	"GMBH", "S.A.", "ООО", "ОАО", "ЗАО", "АО", "МЧЖ", "ҚК", "ХК", "SRL", "FZE", "FZCO",
}

// SplitNameAddress locates the boundary between a company name and its
// address in a combined string: an explicit address marker wins, then a
// legal-entity suffix, then a street-suffix word. When no boundary is
// found the whole string is the name.
func SplitNameAddress(combined string) (name, address string) {
	s := strings.TrimSpace(combined)
	if s == "" {
		return "", ""
	}

	for _, marker := range addressMarkers {
		if idx := indexFold(s, marker); idx > 0 {
			return clean(s[:idx]), clean(s[idx:])
		}
	}

	upper := strings.ToUpper(s)
	best := -1
	for _, suffix := range legalSuffixes {
		idx := strings.Index(upper, suffix)
		if idx < 0 {
			continue
		}
		end := idx + len(suffix)
		// Suffix must end a word, not be a substring of one.
		if end < len(upper) && isWordByte(upper[end]) {
			continue
		}
		if end > best {
			best = end
		}
	}
	if best > 0 && best < len(s) {
		return clean(s[:best]), clean(s[best:])
	}

	words := strings.Fields(s)
	for i, w := range words {
		lw := strings.ToLower(strings.Trim(w, ",."))
		for _, sw := range streetWords {
			if lw == strings.Trim(sw, ".") || lw+"." == sw {
				// Address starts at the word before the street suffix.
				start := i
				if start > 0 {
					start--
				}
				if start == 0 {
					// Nothing left for the name: no usable boundary.
					return clean(s), ""
				}
				return clean(strings.Join(words[:start], " ")), clean(strings.Join(words[start:], " "))
			}
		}
	}

	return clean(s), ""
}

func clean(s string) string {
	return strings.Trim(strings.TrimSpace(s), ",;")
}

func indexFold(s, substr string) int {
	return strings.Index(strings.ToLower(s), strings.ToLower(substr))
}

func isWordByte(b byte) bool {
	return b >= 'A' && b <= 'Z' || b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}
