package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/declarium/customs-declaration-service/internal/models"
)

func TestCountryCode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"numeric uzbekistan", "860", "UZ"},
		{"numeric zero padded", "31", "AZ"},
		{"unknown numeric", "123", ""},
		{"all zeros numeric", "000", ""},
		{"iso2 lowercase", "de", "DE"},
		{"iso2 uppercase", "CN", "CN"},
		{"russian name", "Китай", "CN"},
		{"english name", "Germany", "DE"},
		{"name with spaces", "  Узбекистан  ", "UZ"},
		{"free text fallback", "P.R. China ", "PR"},
		{"empty", "", ""},
		{"single letter", "X", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountryCode(tt.input))
		})
	}
}

func TestCountryCodeIdempotent(t *testing.T) {
	for _, input := range []string{"860", "Китай", "uz", "Germany"} {
		once := CountryCode(input)
		assert.Equal(t, once, CountryCode(once), "input %q", input)
	}
}

func TestDeclarationType(t *testing.T) {
	tests := []struct {
		input string
		want  models.DeclarationType
	}{
		{"ЭК", models.TypeExport},
		{"РЭ", models.TypeExport},
		{"ВЭ", models.TypeExport},
		{"ТР", models.TypeTransit},
		{"ТТ", models.TypeTransit},
		{"ИМ", models.TypeImport},
		{"10", models.TypeExport},
		{"12", models.TypeExport},
		{"80", models.TypeTransit},
		{"40", models.TypeImport},
		{"74", models.TypeImport},
		{"EXPORT", models.TypeExport},
		{"transit", models.TypeTransit},
		{"import", models.TypeImport},
		{"", models.TypeImport},
		{"garbage", models.TypeImport},
		{"99", models.TypeImport},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeclarationType(tt.input), "input %q", tt.input)
	}
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{"12%", 12, true},
		{"0.5%", 0.5, true},
		{"0,5%", 0.5, true},
		{"4 БРВ", 4, true},
		{"10", 10, true},
		{"-5", -5, true},
		{"", 0, false},
		{"БРВ", 0, false},
		{"n/a", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseRate(tt.input)
		assert.Equal(t, tt.wantOK, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestTIN(t *testing.T) {
	assert.Equal(t, "123456789", TIN("123-456-789"))
	assert.Equal(t, "123456789", TIN("1234567890123"))
	assert.Equal(t, "1234", TIN("12 34"))
	assert.Equal(t, "", TIN("abc"))
}

func TestPINFL(t *testing.T) {
	assert.Equal(t, "12345678901234", PINFL("1234567890123456"))
	assert.Equal(t, "12345678901234", PINFL("12345678901234"))
}

func TestHSCode(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"8703", "8703000000"},
		{"8703.23.19.10", "8703231910"},
		{"870323191099", "8703231910"},
		{"", ""},
		{"abc", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HSCode(tt.input), "input %q", tt.input)
	}
}

func TestCode(t *testing.T) {
	assert.Equal(t, "WDB123", Code("wdb-123", 20))
	assert.Equal(t, "ABC", Code("a b c!", 20))
	assert.Equal(t, "AB", Code("abcd", 2))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "аб", Truncate("абвг", 2))
	assert.Equal(t, "short", Truncate("short", 100))
}
