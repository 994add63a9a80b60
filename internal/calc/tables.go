package calc

// Reference tables versioned with the rule set. Changing customs law means
// updating these tables, not the engine.

// dutyRateByHSGroup maps the first two digits of an HS code to the import
// duty rate in percent. Groups not listed fall back to defaultDutyRate.
var dutyRateByHSGroup = map[string]float64{
	"01": 5,  // live animals
	"02": 20, // meat
	"04": 20, // dairy
	"07": 10, // vegetables
	"08": 10, // fruit
	"09": 5,  // coffee, tea
	"10": 5,  // cereals
	"15": 10, // fats and oils
	"17": 20, // sugar
	"22": 30, // beverages
	"24": 30, // tobacco
	"25": 5,  // mineral products
	"27": 0,  // fuels
	"28": 5,  // inorganic chemicals
	"30": 0,  // pharmaceuticals
	"39": 10, // plastics
	"40": 10, // rubber
	"44": 10, // wood
	"48": 15, // paper
	"52": 10, // cotton
	"61": 30, // apparel, knitted
	"62": 30, // apparel, woven
	"63": 30, // other textiles
	"64": 20, // footwear
	"69": 20, // ceramics
	"70": 15, // glass
	"72": 5,  // iron and steel
	"73": 15, // articles of iron/steel
	"84": 5,  // machinery
	"85": 10, // electrical equipment
	"87": 30, // vehicles
	"90": 5,  // instruments
	"94": 20, // furniture
}

const defaultDutyRate = 10

// Tariff preference codes (box 36).
const (
	PreferenceNone     = "000" // no preference
	PreferenceHalfDuty = "100" // duty reduced 50%
	PreferenceNoDuty   = "200" // duty zeroed
	PreferenceNoVAT    = "300" // VAT zeroed
)

// preferentialCountries suggests a preference code from the origin
// country. FTA partners get the 50% reduction code; least-developed
// partners the duty-free code.
var preferentialCountries = map[string]string{
	"RU": PreferenceHalfDuty,
	"KZ": PreferenceHalfDuty,
	"KG": PreferenceHalfDuty,
	"TJ": PreferenceHalfDuty,
	"TM": PreferenceHalfDuty,
	"BY": PreferenceHalfDuty,
	"UA": PreferenceHalfDuty,
	"MD": PreferenceHalfDuty,
	"AM": PreferenceHalfDuty,
	"AZ": PreferenceHalfDuty,
	"GE": PreferenceHalfDuty,
	"AF": PreferenceNoDuty,
}

// SuggestPreference returns the preference code for an origin country,
// PreferenceNone when the country carries no preference.
func SuggestPreference(originISO2 string) string {
	if code, ok := preferentialCountries[originISO2]; ok {
		return code
	}
	return PreferenceNone
}

// transportInclusiveGroups are the Incoterms letter prefixes whose terms
// bundle carriage into the seller's price (CFR/CIF/CIP/CPT and the
// D-terms). For those the derived customs value carries the transport
// uplift.
var transportInclusiveGroups = map[byte]bool{'C': true, 'D': true}

// IsTransportInclusive reports whether an Incoterms code belongs to a
// group where transport cost is folded into the customs value.
func IsTransportInclusive(incoterms string) bool {
	if incoterms == "" {
		return false
	}
	return transportInclusiveGroups[incoterms[0]]
}
