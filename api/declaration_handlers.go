package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/declarium/customs-declaration-service/internal/auth"
	"github.com/declarium/customs-declaration-service/internal/autofill"
	"github.com/declarium/customs-declaration-service/internal/calc"
	"github.com/declarium/customs-declaration-service/internal/db"
	"github.com/declarium/customs-declaration-service/internal/logger"
	"github.com/declarium/customs-declaration-service/internal/models"
	"github.com/declarium/customs-declaration-service/internal/normalize"
	"github.com/declarium/customs-declaration-service/internal/regime"
)

// fieldColumns maps canonical field keys to declaration table columns for
// whitelisted manual updates.
var fieldColumns = map[string]string{
	"exporterName":          "exporter_name",
	"exporterAddress":       "exporter_address",
	"exporterCountry":       "exporter_country",
	"exporterTin":           "exporter_tin",
	"consigneeName":         "consignee_name",
	"consigneeAddress":      "consignee_address",
	"consigneeCountry":      "consignee_country",
	"consigneeTin":          "consignee_tin",
	"finResponsibleName":    "fin_responsible_name",
	"finResponsibleAddress": "fin_responsible_address",
	"finResponsibleTin":     "fin_responsible_tin",
	"declarantName":         "declarant_name",
	"declarantAddress":      "declarant_address",
	"declarantTin":          "declarant_tin",
	"departureCountry":      "departure_country",
	"destinationCountry":    "destination_country",
	"tradingCountry":        "trading_country",
	"contractNumber":        "contract_number",
	"contractDate":          "contract_date",
	"currencyCode":          "currency_code",
	"incotermsCode":         "incoterms_code",
	"transportType":         "transport_type",
	"transportNumber":       "transport_number",
	"borderTransport":       "border_transport",
	"documentsNote":         "documents_note",
}

// CreateDeclaration starts a bare draft under the selected regime.
func (h *Handler) CreateDeclaration(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	var req struct {
		Regime string `json:"regime"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	newRegime := models.Regime(strings.ToUpper(strings.TrimSpace(req.Regime)))
	if _, ok := regime.Lookup(newRegime); !ok {
		h.sendError(w, http.StatusBadRequest, "unknown regime")
		return
	}

	decl := &models.Declaration{ID: uuid.New()}
	regime.Apply(decl, newRegime, regime.StateReady)

	if err := db.SaveDeclaration(ctx, claims.BrokerAlias, decl); err != nil {
		logger.Get().Errorw("failed to save declaration", "error", err)
		h.sendError(w, http.StatusInternalServerError, "failed to save declaration")
		return
	}

	h.sendJSON(w, map[string]interface{}{
		"success":     true,
		"declaration": decl,
	})
}

// GetDeclarations lists the brokerage's declarations, newest first.
func (h *Handler) GetDeclarations(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	decls, err := db.GetDeclarations(ctx, claims.BrokerAlias, 100)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to list declarations")
		return
	}

	h.sendJSON(w, map[string]interface{}{
		"success":      true,
		"declarations": decls,
		"count":        len(decls),
	})
}

// GetDeclaration returns one declaration with items.
func (h *Handler) GetDeclaration(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	decl, err := db.GetDeclarationByID(ctx, claims.BrokerAlias, mux.Vars(r)["id"])
	if err != nil {
		h.sendError(w, http.StatusNotFound, "declaration not found")
		return
	}

	h.sendJSON(w, map[string]interface{}{
		"success":     true,
		"declaration": decl,
	})
}

// UpdateDeclaration applies manual edits to whitelisted header fields,
// running each value through the field normalizer first.
func (h *Handler) UpdateDeclaration(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	var updates map[string]string
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	filtered := map[string]interface{}{}
	for key, value := range updates {
		if key == "exchangeRate" {
			if rate, ok := normalize.ParseRate(value); ok {
				filtered["exchange_rate"] = rate
			}
			continue
		}
		column, ok := fieldColumns[key]
		if !ok {
			continue
		}
		filtered[column] = autofill.NormalizeField(key, value)
	}
	if len(filtered) == 0 {
		h.sendError(w, http.StatusBadRequest, "no valid fields to update")
		return
	}

	if err := db.UpdateDeclaration(ctx, claims.BrokerAlias, mux.Vars(r)["id"], filtered); err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to update declaration")
		return
	}

	h.sendJSON(w, map[string]interface{}{
		"success": true,
		"message": "declaration updated",
	})
}

// DeleteDeclaration removes a declaration and its items.
func (h *Handler) DeleteDeclaration(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	if err := db.DeleteDeclaration(ctx, claims.BrokerAlias, mux.Vars(r)["id"]); err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to delete declaration")
		return
	}

	h.sendJSON(w, map[string]interface{}{
		"success": true,
		"message": "declaration deleted",
	})
}

// SetRegime switches the declaration's customs regime and reruns the
// resolver and the calculation engine.
func (h *Handler) SetRegime(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	var req struct {
		Regime string `json:"regime"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	newRegime := models.Regime(strings.ToUpper(strings.TrimSpace(req.Regime)))
	if _, ok := regime.Lookup(newRegime); !ok {
		h.sendError(w, http.StatusBadRequest, "unknown regime")
		return
	}

	decl, err := db.GetDeclarationByID(ctx, claims.BrokerAlias, mux.Vars(r)["id"])
	if err != nil {
		h.sendError(w, http.StatusNotFound, "declaration not found")
		return
	}

	regime.Apply(decl, newRegime, regime.StateReady)
	advisories := h.engine.RecalculateAll(decl)

	if err := h.persistRecalculation(r, claims.BrokerAlias, decl); err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to persist declaration")
		return
	}

	h.sendJSON(w, map[string]interface{}{
		"success":     true,
		"declaration": decl,
		"advisories":  advisories,
	})
}

// itemRequest is the payload for adding a goods line.
type itemRequest struct {
	Description   string  `json:"description"`
	HSCode        string  `json:"hsCode"`
	OriginCountry string  `json:"originCountry"`
	PackageCount  int     `json:"packageCount"`
	PackageType   string  `json:"packageType"`
	GrossWeight   float64 `json:"grossWeight"`
	NetWeight     float64 `json:"netWeight"`
	ItemPrice     float64 `json:"itemPrice"`
	CustomsValue  float64 `json:"customsValue"`
	VIN           string  `json:"vin"`
}

// AddItem appends a goods line and recomputes the declaration.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	decl, err := db.GetDeclarationByID(ctx, claims.BrokerAlias, mux.Vars(r)["id"])
	if err != nil {
		h.sendError(w, http.StatusNotFound, "declaration not found")
		return
	}

	decl.Items = append(decl.Items, models.LineItem{
		ID:            uuid.New(),
		ItemNumber:    len(decl.Items) + 1,
		Description:   normalize.Truncate(strings.TrimSpace(req.Description), 250),
		HSCode:        normalize.HSCode(req.HSCode),
		OriginCountry: normalize.CountryCode(req.OriginCountry),
		ProcedureCode: decl.ProcedureCode,
		PackageCount:  req.PackageCount,
		PackageType:   req.PackageType,
		GrossWeight:   decimal.NewFromFloat(req.GrossWeight),
		NetWeight:     decimal.NewFromFloat(req.NetWeight),
		ItemPrice:     decimal.NewFromFloat(req.ItemPrice),
		CustomsValue:  decimal.NewFromFloat(req.CustomsValue),
		VIN:           normalize.Code(req.VIN, 20),
	})

	advisories := h.engine.RecalculateAll(decl)

	if err := h.persistRecalculation(r, claims.BrokerAlias, decl); err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to persist declaration")
		return
	}

	h.sendJSON(w, map[string]interface{}{
		"success":     true,
		"declaration": decl,
		"advisories":  advisories,
	})
}

// Recalculate reruns the calculation engine. The caller may send the
// fingerprints from its previous run: when none of the causal inputs
// changed the engine is not rerun, so writing computed output fields never
// triggers another computation.
func (h *Handler) Recalculate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	var req struct {
		Fingerprints map[string]string `json:"fingerprints"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	decl, err := db.GetDeclarationByID(ctx, claims.BrokerAlias, mux.Vars(r)["id"])
	if err != nil {
		h.sendError(w, http.StatusNotFound, "declaration not found")
		return
	}

	fingerprints := itemFingerprints(decl)
	changed := len(req.Fingerprints) == 0 || len(req.Fingerprints) != len(fingerprints)
	for id, fp := range fingerprints {
		if req.Fingerprints[id] != fp {
			changed = true
		}
	}

	var advisories []calc.Advisory
	if changed {
		advisories = h.engine.RecalculateAll(decl)
		if err := h.persistRecalculation(r, claims.BrokerAlias, decl); err != nil {
			h.sendError(w, http.StatusInternalServerError, "failed to persist declaration")
			return
		}
		fingerprints = itemFingerprints(decl)
	}

	h.sendJSON(w, map[string]interface{}{
		"success":      true,
		"recalculated": changed,
		"declaration":  decl,
		"advisories":   advisories,
		"fingerprints": fingerprints,
	})
}

// GetRegimes exposes the regime catalog to the form renderer: procedure
// codes, hints and disabled field groups.
func (h *Handler) GetRegimes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	type regimeView struct {
		ProcedureCode  string            `json:"procedureCode"`
		Hints          map[string]string `json:"hints,omitempty"`
		DisabledGraphs []string          `json:"disabledGraphs,omitempty"`
	}
	view := map[string]regimeView{}
	for name, cfg := range regime.Catalog {
		view[string(name)] = regimeView{
			ProcedureCode:  cfg.ProcedureCode,
			Hints:          cfg.Hints,
			DisabledGraphs: cfg.DisabledGraphs,
		}
	}
	h.sendJSON(w, map[string]interface{}{
		"success": true,
		"regimes": view,
	})
}

// GetRate proxies the exchange-rate collaborator.
func (h *Handler) GetRate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	currency := mux.Vars(r)["currency"]
	rate, err := h.rates.GetRate(r.Context(), currency)
	if err != nil {
		h.sendError(w, http.StatusBadGateway, "failed to fetch exchange rate: "+err.Error())
		return
	}
	h.sendJSON(w, map[string]interface{}{
		"success":  true,
		"currency": strings.ToUpper(currency),
		"rate":     rate,
	})
}

// persistRecalculation writes engine output back: full item rows plus the
// engine-owned header fields.
func (h *Handler) persistRecalculation(r *http.Request, brokerAlias string, decl *models.Declaration) error {
	ctx := r.Context()
	if err := db.ReplaceItems(ctx, brokerAlias, decl); err != nil {
		logger.Get().Errorw("failed to persist items", "declaration", decl.ID, "error", err)
		return err
	}
	if err := db.UpdateEngineFields(ctx, brokerAlias, decl); err != nil {
		logger.Get().Errorw("failed to persist totals", "declaration", decl.ID, "error", err)
		return err
	}
	return nil
}

func itemFingerprints(decl *models.Declaration) map[string]string {
	out := make(map[string]string, len(decl.Items))
	for i := range decl.Items {
		it := &decl.Items[i]
		out[it.ID.String()] = calc.Fingerprint(decl, it)
	}
	return out
}
