package autofill

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitNameAddress(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantName    string
		wantAddress string
	}{
		{
			"explicit marker",
			"SHANDONG HAOHUA TIRE CO., LTD No.1 Haohua Road, Dawang Town",
			"SHANDONG HAOHUA TIRE CO., LTD",
			"No.1 Haohua Road, Dawang Town",
		},
		{
			"address marker",
			"GLOBAL TRADE Address: 12 Main Street, Tashkent",
			"GLOBAL TRADE",
			"Address: 12 Main Street, Tashkent",
		},
		{
			"russian marker",
			"ООО РОГА Адрес: г. Ташкент, ул. Навои 5",
			"ООО РОГА",
			"Адрес: г. Ташкент, ул. Навои 5",
		},
		{
			"legal suffix",
			"ACME TRADING LTD 45 Industrial Zone, Urumqi",
			"ACME TRADING LTD",
			"45 Industrial Zone, Urumqi",
		},
		{
			"cyrillic suffix",
			"БАРАКА САВДО МЧЖ Ташкент шахри, Яшнобод тумани",
			"БАРАКА САВДО МЧЖ",
			"Ташкент шахри, Яшнобод тумани",
		},
		{
			"street word fallback",
			"ORIENT TEXTILE COMPANY Nukus street Tashkent",
			"ORIENT TEXTILE COMPANY",
			"Nukus street Tashkent",
		},
		{
			"no boundary",
			"JUST A COMPANY NAME",
			"JUST A COMPANY NAME",
			"",
		},
		{
			"suffix not a word boundary",
			"INCOGNITO TRADING GROUP",
			"INCOGNITO TRADING GROUP",
			"",
		},
		{"empty", "", "", ""},
		{"whitespace", "   ", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, address := SplitNameAddress(tt.input)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantAddress, address)
		})
	}
}

func TestSplitNameAddressNeverLosesText(t *testing.T) {
	inputs := []string{
		"SHANDONG HAOHUA TIRE CO., LTD No.1 Haohua Road",
		"ACME LTD somewhere",
		"plain text without any boundary",
	}
	for _, in := range inputs {
		name, address := SplitNameAddress(in)
		assert.NotEmpty(t, name+address, "input %q", in)
	}
}
