package normalize

// numericToISO maps ISO 3166-1 numeric codes (as used in box 34 of older
// declarations) to ISO-2. Unmapped numerics intentionally normalize to
// nothing rather than guessing.
var numericToISO = map[string]string{
	"031": "AZ", // Azerbaijan
	"051": "AM", // Armenia
	"112": "BY", // Belarus
	"156": "CN", // China
	"196": "CY", // Cyprus
	"233": "EE", // Estonia
	"268": "GE", // Georgia
	"276": "DE", // Germany
	"356": "IN", // India
	"364": "IR", // Iran
	"380": "IT", // Italy
	"392": "JP", // Japan
	"398": "KZ", // Kazakhstan
	"410": "KR", // South Korea
	"417": "KG", // Kyrgyzstan
	"422": "LB", // Lebanon
	"428": "LV", // Latvia
	"440": "LT", // Lithuania
	"458": "MY", // Malaysia
	"496": "MN", // Mongolia
	"498": "MD", // Moldova
	"528": "NL", // Netherlands
	"586": "PK", // Pakistan
	"616": "PL", // Poland
	"643": "RU", // Russia
	"682": "SA", // Saudi Arabia
	"702": "SG", // Singapore
	"724": "ES", // Spain
	"752": "SE", // Sweden
	"756": "CH", // Switzerland
	"762": "TJ", // Tajikistan
	"764": "TH", // Thailand
	"784": "AE", // United Arab Emirates
	"792": "TR", // Turkey
	"795": "TM", // Turkmenistan
	"804": "UA", // Ukraine
	"826": "GB", // United Kingdom
	"840": "US", // United States
	"860": "UZ", // Uzbekistan
	"704": "VN", // Vietnam
}

// countryNames maps lowercase free-text country names (Russian and English
// spellings seen in trade documents) to ISO-2.
var countryNames = map[string]string{
	"uzbekistan":   "UZ",
	"узбекистан":   "UZ",
	"russia":       "RU",
	"россия":       "RU",
	"российская федерация": "RU",
	"kazakhstan":   "KZ",
	"казахстан":    "KZ",
	"kyrgyzstan":   "KG",
	"кыргызстан":   "KG",
	"киргизия":     "KG",
	"tajikistan":   "TJ",
	"таджикистан":  "TJ",
	"turkmenistan": "TM",
	"туркменистан": "TM",
	"china":        "CN",
	"китай":        "CN",
	"кнр":          "CN",
	"japan":        "JP",
	"япония":       "JP",
	"south korea":  "KR",
	"korea":        "KR",
	"корея":        "KR",
	"республика корея": "KR",
	"turkey":       "TR",
	"türkiye":      "TR",
	"турция":       "TR",
	"germany":      "DE",
	"германия":     "DE",
	"italy":        "IT",
	"италия":       "IT",
	"india":        "IN",
	"индия":        "IN",
	"iran":         "IR",
	"иран":         "IR",
	"afghanistan":  "AF",
	"афганистан":   "AF",
	"ukraine":      "UA",
	"украина":      "UA",
	"belarus":      "BY",
	"беларусь":     "BY",
	"белоруссия":   "BY",
	"azerbaijan":   "AZ",
	"азербайджан":  "AZ",
	"armenia":      "AM",
	"армения":      "AM",
	"georgia":      "GE",
	"грузия":       "GE",
	"moldova":      "MD",
	"молдова":      "MD",
	"latvia":       "LV",
	"латвия":       "LV",
	"lithuania":    "LT",
	"литва":        "LT",
	"estonia":      "EE",
	"эстония":      "EE",
	"poland":       "PL",
	"польша":       "PL",
	"netherlands":  "NL",
	"нидерланды":   "NL",
	"spain":        "ES",
	"испания":      "ES",
	"france":       "FR",
	"франция":      "FR",
	"switzerland":  "CH",
	"швейцария":    "CH",
	"sweden":       "SE",
	"швеция":       "SE",
	"united kingdom": "GB",
	"великобритания": "GB",
	"united states":  "US",
	"usa":            "US",
	"сша":            "US",
	"united arab emirates": "AE",
	"uae":            "AE",
	"оаэ":            "AE",
	"saudi arabia":   "SA",
	"саудовская аравия": "SA",
	"singapore":      "SG",
	"сингапур":       "SG",
	"malaysia":       "MY",
	"малайзия":       "MY",
	"thailand":       "TH",
	"таиланд":        "TH",
	"vietnam":        "VN",
	"вьетнам":        "VN",
	"mongolia":       "MN",
	"монголия":       "MN",
	"pakistan":       "PK",
	"пакистан":       "PK",
}
