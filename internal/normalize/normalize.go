// Package normalize converts the free-form values found in trade documents
// and user input into the coded values the declaration form stores. Every
// function is pure, total and idempotent: unrecognized input degrades to an
// empty value or a documented default, never to an error.
package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/declarium/customs-declaration-service/internal/models"
)

const (
	tinDigits   = 9  // legal-entity taxpayer number
	pinflDigits = 14 // personal identification number
	hsDigits    = 10
)

var (
	digitsOnly  = regexp.MustCompile(`[^0-9]`)
	alnumOnly   = regexp.MustCompile(`[^0-9A-Za-z]`)
	asciiAlpha  = regexp.MustCompile(`[^A-Za-z]`)
	leadingNum  = regexp.MustCompile(`^[+-]?[0-9]+(?:\.[0-9]+)?`)
	allNumeric  = regexp.MustCompile(`^[0-9]{1,3}$`)
	twoLetters  = regexp.MustCompile(`^[A-Za-z]{2}$`)
)

// CountryCode normalizes a country token to ISO-2. Accepted inputs: an
// ISO-2 code, a 3-digit ISO numeric code, or a free-text country name
// (Russian or English). As a last resort non-letters are stripped and the
// first two letters are taken. Unknown 1-3 digit numeric codes return ""
// rather than guessing.
func CountryCode(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}

	if allNumeric.MatchString(s) {
		// Zero-pad short numerics: "31" and "031" are the same code.
		for len(s) < 3 {
			s = "0" + s
		}
		return numericToISO[s] // "" when unmapped
	}

	if twoLetters.MatchString(s) {
		return strings.ToUpper(s)
	}

	if iso, ok := countryNames[strings.ToLower(s)]; ok {
		return iso
	}

	letters := asciiAlpha.ReplaceAllString(s, "")
	if len(letters) < 2 {
		return ""
	}
	return strings.ToUpper(letters[:2])
}

// exportAliases and transitAliases are the Cyrillic regime abbreviations
// seen in box 1. Everything else falls into the import family.
var (
	exportAliases  = map[string]bool{"ЭК": true, "РЭ": true, "ВЭ": true, "ПЭ": true}
	transitAliases = map[string]bool{"ТР": true, "ТТ": true}
)

// DeclarationType maps a regime token to the top-level declaration type.
// Accepts Cyrillic abbreviations (ИМ, ЭК, ТР and sub-regimes), 2-digit
// customs procedure codes and the English enum values. Defaults to IMPORT
// when nothing matches; that default is documented behavior, not a guess
// the caller can rely on being "correct".
func DeclarationType(input string) models.DeclarationType {
	s := strings.ToUpper(strings.TrimSpace(input))

	switch models.DeclarationType(s) {
	case models.TypeImport, models.TypeExport, models.TypeTransit:
		return models.DeclarationType(s)
	}

	if exportAliases[s] {
		return models.TypeExport
	}
	if transitAliases[s] {
		return models.TypeTransit
	}

	if len(s) == 2 && s[0] >= '0' && s[0] <= '9' && s[1] >= '0' && s[1] <= '9' {
		switch s {
		case "10", "11", "12":
			return models.TypeExport
		case "80":
			return models.TypeTransit
		}
		// 40/41/42/51/70-76 and anything unrecognized: import family.
	}

	return models.TypeImport
}

// ParseRate parses a percentage or suffixed rate string: "12%", "0.5%",
// "4 БРВ", comma-decimal notation. Returns ok=false on empty or
// unparseable input.
func ParseRate(input string) (float64, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", ".")
	num := leadingNum.FindString(s)
	if num == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Truncate cuts a string to at most max runes. Guard against downstream
// storage-width constraints.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// Code keeps only alphanumerics, uppercases and cuts to max length.
func Code(s string, max int) string {
	c := strings.ToUpper(alnumOnly.ReplaceAllString(s, ""))
	return Truncate(c, max)
}

// TIN strips non-digits and caps at the 9-digit legal-entity length.
// Checksum is not validated here.
func TIN(s string) string {
	return Truncate(digitsOnly.ReplaceAllString(s, ""), tinDigits)
}

// PINFL strips non-digits and caps at the 14-digit personal-ID length.
func PINFL(s string) string {
	return Truncate(digitsOnly.ReplaceAllString(s, ""), pinflDigits)
}

// HSCode normalizes a tariff code to exactly 10 digits: non-digits are
// stripped, long codes are cut, short codes are right-padded with zeros.
// Empty input stays empty.
func HSCode(s string) string {
	d := digitsOnly.ReplaceAllString(s, "")
	if d == "" {
		return ""
	}
	if len(d) > hsDigits {
		return d[:hsDigits]
	}
	return d + strings.Repeat("0", hsDigits-len(d))
}
