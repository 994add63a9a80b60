package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/declarium/customs-declaration-service/internal/auth"
	"github.com/declarium/customs-declaration-service/internal/autofill"
	"github.com/declarium/customs-declaration-service/internal/db"
	"github.com/declarium/customs-declaration-service/internal/extract"
	"github.com/declarium/customs-declaration-service/internal/logger"
	"github.com/declarium/customs-declaration-service/internal/models"
	"github.com/declarium/customs-declaration-service/internal/storage"
)

// autofillRequest carries one or more raw extraction payloads plus the
// caller's merge options. Payloads arrive in whichever shape the provider
// produced; shape resolution happens here, once.
type autofillRequest struct {
	Payloads      []map[string]interface{} `json:"payloads"`
	Sources       []string                 `json:"sources,omitempty"`
	MinConfidence *float64                 `json:"minConfidence,omitempty"`
	Overwrite     bool                     `json:"overwrite"`
	Apply         bool                     `json:"apply"`
}

// Autofill merges extraction payloads against the current form state and
// returns the proposal patch. With apply=true the safe subset is written
// into the declaration, extracted goods lines are appended and the
// calculation engine is rerun.
func (h *Handler) Autofill(w http.ResponseWriter, r *http.Request) {
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

	var req autofillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Payloads) == 0 {
		h.sendError(w, http.StatusBadRequest, "no payloads provided")
		return
	}

	payloads := make([]models.ExtractionPayload, 0, len(req.Payloads))
	for i, raw := range req.Payloads {
		source := ""
		if i < len(req.Sources) {
			source = req.Sources[i]
		}
		payload, err := autofill.ResolvePayload(raw, source)
		if err != nil {
			if errors.Is(err, autofill.ErrMalformedPayload) {
				h.sendError(w, http.StatusBadRequest, "malformed extraction payload")
				return
			}
			h.sendError(w, http.StatusInternalServerError, "failed to resolve payload")
			return
		}
		payloads = append(payloads, payload)
	}

	decl, err := db.GetDeclarationByID(ctx, claims.BrokerAlias, mux.Vars(r)["id"])
	if err != nil {
		h.sendError(w, http.StatusNotFound, "declaration not found")
		return
	}

	minConfidence := h.config.AI.MinConfidence
	if req.MinConfidence != nil {
		minConfidence = *req.MinConfidence
	}

	patch := autofill.BuildPatch(decl, payloads, autofill.Options{
		MinConfidence:     minConfidence,
		OverwriteExisting: req.Overwrite,
	})

	applied := 0
	if req.Apply && !patch.Skipped {
		applied = autofill.ApplyPatch(decl, patch, req.Overwrite)

		existing := len(decl.Items)
		for i, it := range patch.ItemsData {
			decl.Items = append(decl.Items, models.LineItem{
				ID:            uuid.New(),
				ItemNumber:    existing + i + 1,
				Description:   it.Description,
				HSCode:        it.HSCode,
				OriginCountry: it.OriginCountry,
				ProcedureCode: decl.ProcedureCode,
				PackageCount:  it.PackageCount,
				PackageType:   it.PackageType,
				GrossWeight:   it.GrossWeight,
				NetWeight:     it.NetWeight,
				ItemPrice:     it.Price,
				VIN:           it.VIN,
			})
		}

		advisories := h.engine.RecalculateAll(decl)

		updates := map[string]interface{}{}
		for key, value := range patch.FormData {
			if column, ok := fieldColumns[key]; ok {
				updates[column] = value
			}
		}
		if note, ok := patch.UnmappedData["documents"]; ok && decl.DocumentsNote == "" {
			decl.DocumentsNote = note
			updates["documents_note"] = note
		}
		if len(updates) > 0 {
			if err := db.UpdateDeclaration(ctx, claims.BrokerAlias, decl.ID.String(), updates); err != nil {
				h.sendError(w, http.StatusInternalServerError, "failed to persist fields")
				return
			}
		}
		if err := h.persistRecalculation(r, claims.BrokerAlias, decl); err != nil {
			h.sendError(w, http.StatusInternalServerError, "failed to persist declaration")
			return
		}

		h.sendJSON(w, map[string]interface{}{
			"success":     true,
			"patch":       patch,
			"applied":     applied,
			"declaration": decl,
			"advisories":  advisories,
		})
		return
	}

	h.sendJSON(w, map[string]interface{}{
		"success": true,
		"patch":   patch,
	})
}

// ExtractDocument runs AI extraction over an uploaded trade document and
// returns the shape-resolved payload. The raw file is archived to object
// storage on a best-effort basis.
func (h *Handler) ExtractDocument(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims, err := auth.GetClaimsFromContext(r.Context())
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		h.sendError(w, http.StatusBadRequest, "failed to parse form: file too large or invalid")
		return
	}

	docText := r.FormValue("text")
	providerName := r.FormValue("provider")
	if providerName == "" {
		providerName = h.config.AI.DefaultProvider
	}
	modelName := r.FormValue("model")

	var image []byte
	var filename string
	file, header, err := r.FormFile("document")
	if err == nil {
		defer file.Close()
		image, err = io.ReadAll(io.LimitReader(file, MaxUploadSize))
		if err != nil {
			h.sendError(w, http.StatusInternalServerError, "failed to read file")
			return
		}
		filename = header.Filename

		if storage.Client != nil {
			contentType := header.Header.Get("Content-Type")
			if _, err := storage.UploadTradeDocument(r.Context(), claims.BrokerAlias, filename,
				bytes.NewReader(image), int64(len(image)), contentType); err != nil {
				logger.Get().Warnw("failed to archive document", "file", filename, "error", err)
			}
		}
	}
	if len(image) == 0 && strings.TrimSpace(docText) == "" {
		h.sendError(w, http.StatusBadRequest, "no document or text provided")
		return
	}

	provider, err := h.createProvider(providerName, modelName)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := extract.WithTimeout(r.Context())
	defer cancel()

	raw, duration, err := extract.NewExtractor(provider).Extract(ctx, docText, image)
	if err != nil {
		logger.Get().Errorw("extraction failed", "provider", providerName, "error", err)
		h.sendError(w, http.StatusBadGateway, "extraction failed: "+err.Error())
		return
	}

	source := filename
	if source == "" {
		source = providerName
	}
	payload, err := autofill.ResolvePayload(raw, source)
	if err != nil {
		h.sendError(w, http.StatusUnprocessableEntity, "extraction returned an unrecognized payload shape")
		return
	}

	h.sendJSON(w, map[string]interface{}{
		"success":         true,
		"payload":         payload,
		"provider":        providerName,
		"durationSeconds": duration,
	})
}
