package models

import "github.com/shopspring/decimal"

// PayloadShape distinguishes the two extraction payload formats produced by
// the document-extraction providers. The shape is resolved once at
// ingestion; downstream code switches on the tag, never on raw keys.
type PayloadShape string

const (
	// ShapeLegacy is the flat format: separate name/address keys per party.
	ShapeLegacy PayloadShape = "legacy"
	// ShapeStructured is the newer format: combined "name and address"
	// strings per party plus country-code-keyed route fields.
	ShapeStructured PayloadShape = "structured"
)

// ExtractedParty is one participant block pulled from a trade document.
type ExtractedParty struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Country string `json:"country,omitempty"`
	TIN     string `json:"tin,omitempty"`
}

// ExtractedItem is one goods line pulled from a trade document. Prices are
// in the document currency.
type ExtractedItem struct {
	Description   string          `json:"description"`
	HSCode        string          `json:"hsCode,omitempty"`
	OriginCountry string          `json:"originCountry,omitempty"`
	Quantity      int             `json:"quantity,omitempty"`
	PackageCount  int             `json:"packageCount,omitempty"`
	PackageType   string          `json:"packageType,omitempty"`
	GrossWeight   decimal.Decimal `json:"grossWeight,omitempty"`
	NetWeight     decimal.Decimal `json:"netWeight,omitempty"`
	Price         decimal.Decimal `json:"price,omitempty"`
	VIN           string          `json:"vin,omitempty"`
}

// ExtractionPayload is the normalized form of one extraction result after
// shape resolution: the participant blocks, the scalar declaration fields
// that were recognized, the goods lines and the provider confidence.
type ExtractionPayload struct {
	Shape      PayloadShape `json:"shape"`
	Confidence float64      `json:"confidence"` // 0..1
	Source     string       `json:"source"`     // document name or provider tag

	Exporter       ExtractedParty `json:"exporter"`
	Consignee      ExtractedParty `json:"consignee"`
	FinResponsible ExtractedParty `json:"finResponsible"`
	Declarant      ExtractedParty `json:"declarant"`

	// Scalar declaration fields keyed by canonical field name
	// (currencyCode, incotermsCode, contractNumber, ...).
	Fields map[string]string `json:"fields"`

	Items []ExtractedItem `json:"items"`

	// Supporting document references found in the source (flattened into
	// the declaration's free-text documents block by the mapper).
	Documents []string `json:"documents,omitempty"`
}

// Proposal is one candidate field value derived from extraction data,
// annotated with confidence and provenance. It lives only for the duration
// of a merge/preview operation.
type Proposal struct {
	FieldName  string  `json:"fieldName"`
	Label      string  `json:"label"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
	Applied    bool    `json:"applied"`
	Reason     string  `json:"reason,omitempty"` // why a proposal was not applied
}

// Patch is the ready-to-apply output of the autofill mapper: the proposal
// list for audit, the safe form-data subset, the pooled goods lines and any
// non-field information the UI decides how to surface.
type Patch struct {
	Fields       []Proposal        `json:"fields"`
	FormData     map[string]string `json:"formData"`
	ItemsData    []ExtractedItem   `json:"itemsData"`
	UnmappedData map[string]string `json:"unmappedData"`
	Confidence   float64           `json:"confidence"`
	Skipped      bool              `json:"skipped"`
	SkipReason   string            `json:"skipReason,omitempty"`
}
