package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeclarationType is the top-level direction of a customs declaration.
type DeclarationType string

const (
	TypeImport  DeclarationType = "IMPORT"
	TypeExport  DeclarationType = "EXPORT"
	TypeTransit DeclarationType = "TRANSIT"
)

// Regime is the declared customs procedure. It drives which fields are
// required, which are derived and how duties are computed.
type Regime string

const (
	RegimeExport        Regime = "EXPORT"
	RegimeReexport      Regime = "REEXPORT"
	RegimeTempExport    Regime = "TEMP_EXPORT"
	RegimeImport        Regime = "IMPORT"
	RegimeReimport      Regime = "REIMPORT"
	RegimeTempImport    Regime = "TEMP_IMPORT"
	RegimeProcessing    Regime = "PROCESSING"
	RegimeFreeWarehouse Regime = "FREE_WAREHOUSE"
	RegimeTransit       Regime = "TRANSIT"
)

// Type returns the top-level direction of a regime: the export family
// (export, re-export, temporary export), transit, or the import family
// (everything else).
func (r Regime) Type() DeclarationType {
	switch r {
	case RegimeExport, RegimeReexport, RegimeTempExport:
		return TypeExport
	case RegimeTransit:
		return TypeTransit
	default:
		return TypeImport
	}
}

// Declaration is the aggregate root of the ГТД form: one customs regime,
// the participant blocks, route and financial fields and an ordered list
// of line items. Aggregate totals are owned by the calculation engine and
// are never hand-edited.
type Declaration struct {
	ID            uuid.UUID `json:"id"`
	Regime        Regime    `json:"regime"`
	Type          DeclarationType `json:"type"`
	ProcedureCode string    `json:"procedureCode"` // box 1/37, fixed per regime

	// Exporter (box 2)
	ExporterName    string `json:"exporterName"`
	ExporterAddress string `json:"exporterAddress"`
	ExporterCountry string `json:"exporterCountry"` // ISO-2
	ExporterTIN     string `json:"exporterTin"`

	// Consignee (box 8)
	ConsigneeName    string `json:"consigneeName"`
	ConsigneeAddress string `json:"consigneeAddress"`
	ConsigneeCountry string `json:"consigneeCountry"`
	ConsigneeTIN     string `json:"consigneeTin"`

	// Financially responsible party (box 9)
	FinResponsibleName    string `json:"finResponsibleName"`
	FinResponsibleAddress string `json:"finResponsibleAddress"`
	FinResponsibleTIN     string `json:"finResponsibleTin"`

	// Declarant (box 14)
	DeclarantName    string `json:"declarantName"`
	DeclarantAddress string `json:"declarantAddress"`
	DeclarantTIN     string `json:"declarantTin"`

	// Route
	DepartureCountry   string `json:"departureCountry"`   // box 15
	DestinationCountry string `json:"destinationCountry"` // box 17
	TradingCountry     string `json:"tradingCountry"`     // box 11

	// Financial
	ContractNumber     string          `json:"contractNumber"`
	ContractDate       string          `json:"contractDate"`
	CurrencyCode       string          `json:"currencyCode"` // box 22
	IncotermsCode      string          `json:"incotermsCode"` // box 20
	ExchangeRate       decimal.Decimal `json:"exchangeRate"`  // box 23
	TotalInvoiceAmount decimal.Decimal `json:"totalInvoiceAmount"` // derived, Σ item price
	TotalCustomsValue  decimal.Decimal `json:"totalCustomsValue"`  // derived, Σ item customs value

	// Transport
	TransportType   string `json:"transportType"`   // box 25
	TransportNumber string `json:"transportNumber"` // box 18
	BorderTransport string `json:"borderTransport"` // box 21

	// Aggregates owned by the calculation engine
	TotalPackages int             `json:"totalPackages"` // box 6
	TotalDuty     decimal.Decimal `json:"totalDuty"`
	TotalVAT      decimal.Decimal `json:"totalVat"`
	TotalFee      decimal.Decimal `json:"totalFee"`

	// Free-text documents block (box 44)
	DocumentsNote string `json:"documentsNote"`

	Items []LineItem `json:"items"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// LineItem is one goods position of a declaration, ordered by a 1-based
// item number. Rate/amount pairs and the total payment are written by the
// calculation engine.
type LineItem struct {
	ID            uuid.UUID `json:"id"`
	ItemNumber    int       `json:"itemNumber"` // 1-based, box 32
	Description   string    `json:"description"`
	HSCode        string    `json:"hsCode"` // 10 digits, box 33
	OriginCountry string    `json:"originCountry"` // ISO-2, box 34
	ProcedureCode string    `json:"procedureCode"` // stamped from the regime
	VIN           string    `json:"vin,omitempty"` // serial identifier when present

	PackageCount int    `json:"packageCount"` // box 31
	PackageType  string `json:"packageType"`

	GrossWeight decimal.Decimal `json:"grossWeight"` // box 35
	NetWeight   decimal.Decimal `json:"netWeight"`   // box 38

	ItemPrice        decimal.Decimal `json:"itemPrice"`        // box 42, declaration currency
	CustomsValue     decimal.Decimal `json:"customsValue"`     // box 45
	StatisticalValue decimal.Decimal `json:"statisticalValue"` // box 46

	PreferenceCode string `json:"preferenceCode"` // box 36, "000" = none

	DutyRate   float64         `json:"dutyRate"`
	DutyAmount decimal.Decimal `json:"dutyAmount"`
	VATRate    float64         `json:"vatRate"`
	VATAmount  decimal.Decimal `json:"vatAmount"`
	FeeRate    float64         `json:"feeRate"`
	FeeAmount  decimal.Decimal `json:"feeAmount"`

	TotalPayment decimal.Decimal `json:"totalPayment"` // duty + VAT + fee
}

// FieldAccessor exposes one string field of a Declaration by its canonical
// key so that regime auto-fill and extraction autofill can be processed as
// uniform tables instead of per-field branching.
type FieldAccessor struct {
	Get func(*Declaration) string
	Set func(*Declaration, string)
}

// Fields is the accessor table for every string field addressable by
// canonical key. Money and count fields are intentionally absent: those go
// through the calculation engine.
var Fields = map[string]FieldAccessor{
	"exporterName":       {func(d *Declaration) string { return d.ExporterName }, func(d *Declaration, v string) { d.ExporterName = v }},
	"exporterAddress":    {func(d *Declaration) string { return d.ExporterAddress }, func(d *Declaration, v string) { d.ExporterAddress = v }},
	"exporterCountry":    {func(d *Declaration) string { return d.ExporterCountry }, func(d *Declaration, v string) { d.ExporterCountry = v }},
	"exporterTin":        {func(d *Declaration) string { return d.ExporterTIN }, func(d *Declaration, v string) { d.ExporterTIN = v }},
	"consigneeName":      {func(d *Declaration) string { return d.ConsigneeName }, func(d *Declaration, v string) { d.ConsigneeName = v }},
	"consigneeAddress":   {func(d *Declaration) string { return d.ConsigneeAddress }, func(d *Declaration, v string) { d.ConsigneeAddress = v }},
	"consigneeCountry":   {func(d *Declaration) string { return d.ConsigneeCountry }, func(d *Declaration, v string) { d.ConsigneeCountry = v }},
	"consigneeTin":       {func(d *Declaration) string { return d.ConsigneeTIN }, func(d *Declaration, v string) { d.ConsigneeTIN = v }},
	"finResponsibleName": {func(d *Declaration) string { return d.FinResponsibleName }, func(d *Declaration, v string) { d.FinResponsibleName = v }},
	"finResponsibleAddress": {func(d *Declaration) string { return d.FinResponsibleAddress }, func(d *Declaration, v string) { d.FinResponsibleAddress = v }},
	"finResponsibleTin":  {func(d *Declaration) string { return d.FinResponsibleTIN }, func(d *Declaration, v string) { d.FinResponsibleTIN = v }},
	"declarantName":      {func(d *Declaration) string { return d.DeclarantName }, func(d *Declaration, v string) { d.DeclarantName = v }},
	"declarantAddress":   {func(d *Declaration) string { return d.DeclarantAddress }, func(d *Declaration, v string) { d.DeclarantAddress = v }},
	"declarantTin":       {func(d *Declaration) string { return d.DeclarantTIN }, func(d *Declaration, v string) { d.DeclarantTIN = v }},
	"departureCountry":   {func(d *Declaration) string { return d.DepartureCountry }, func(d *Declaration, v string) { d.DepartureCountry = v }},
	"destinationCountry": {func(d *Declaration) string { return d.DestinationCountry }, func(d *Declaration, v string) { d.DestinationCountry = v }},
	"tradingCountry":     {func(d *Declaration) string { return d.TradingCountry }, func(d *Declaration, v string) { d.TradingCountry = v }},
	"contractNumber":     {func(d *Declaration) string { return d.ContractNumber }, func(d *Declaration, v string) { d.ContractNumber = v }},
	"contractDate":       {func(d *Declaration) string { return d.ContractDate }, func(d *Declaration, v string) { d.ContractDate = v }},
	"currencyCode":       {func(d *Declaration) string { return d.CurrencyCode }, func(d *Declaration, v string) { d.CurrencyCode = v }},
	"incotermsCode":      {func(d *Declaration) string { return d.IncotermsCode }, func(d *Declaration, v string) { d.IncotermsCode = v }},
	"transportType":      {func(d *Declaration) string { return d.TransportType }, func(d *Declaration, v string) { d.TransportType = v }},
	"transportNumber":    {func(d *Declaration) string { return d.TransportNumber }, func(d *Declaration, v string) { d.TransportNumber = v }},
	"borderTransport":    {func(d *Declaration) string { return d.BorderTransport }, func(d *Declaration, v string) { d.BorderTransport = v }},
	"documentsNote":      {func(d *Declaration) string { return d.DocumentsNote }, func(d *Declaration, v string) { d.DocumentsNote = v }},
}

// Field returns the current value of a string field by canonical key.
// Unknown keys read as empty.
func (d *Declaration) Field(key string) string {
	acc, ok := Fields[key]
	if !ok {
		return ""
	}
	return acc.Get(d)
}

// SetField writes a string field by canonical key. Unknown keys are ignored.
func (d *Declaration) SetField(key, value string) {
	if acc, ok := Fields[key]; ok {
		acc.Set(d, value)
	}
}
