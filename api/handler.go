package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gorilla/mux"

	"github.com/declarium/customs-declaration-service/internal/calc"
	"github.com/declarium/customs-declaration-service/internal/db"
	"github.com/declarium/customs-declaration-service/internal/extract"
	"github.com/declarium/customs-declaration-service/internal/models"
	"github.com/declarium/customs-declaration-service/internal/rates"
	"github.com/declarium/customs-declaration-service/internal/storage"
)

const (
	MaxUploadSize = 10 * 1024 * 1024 // 10MB
	Version       = "1.4.0"
)

// Handler handles HTTP requests for declaration processing
type Handler struct {
	config *models.Config
	engine *calc.Engine
	rates  *rates.Client
}

// NewHandler creates a new API handler
func NewHandler(config *models.Config) *Handler {
	return &Handler{
		config: config,
		engine: calc.NewEngine(config.Calc),
		rates:  rates.NewClient(config.Rates.BaseURL),
	}
}

// SetupRoutes configures the HTTP routes
func (h *Handler) SetupRoutes() *mux.Router {
	router := mux.NewRouter()

	// Declaration CRUD
	router.HandleFunc("/api/declarations", h.CreateDeclaration).Methods("POST")
	router.HandleFunc("/api/declarations", h.GetDeclarations).Methods("GET")
	router.HandleFunc("/api/declarations/{id}", h.GetDeclaration).Methods("GET")
	router.HandleFunc("/api/declarations/{id}", h.UpdateDeclaration).Methods("PUT")
	router.HandleFunc("/api/declarations/{id}", h.DeleteDeclaration).Methods("DELETE")

	// Rule engine operations
	router.HandleFunc("/api/declarations/{id}/regime", h.SetRegime).Methods("POST")
	router.HandleFunc("/api/declarations/{id}/items", h.AddItem).Methods("POST")
	router.HandleFunc("/api/declarations/{id}/recalculate", h.Recalculate).Methods("POST")
	router.HandleFunc("/api/declarations/{id}/autofill", h.Autofill).Methods("POST")

	// Document extraction
	router.HandleFunc("/api/extract", h.ExtractDocument).Methods("POST")

	// Reference data for the form renderer
	router.HandleFunc("/api/regimes", h.GetRegimes).Methods("GET")
	router.HandleFunc("/api/rates/{currency}", h.GetRate).Methods("GET")

	// Health check
	router.HandleFunc("/health", h.Health).Methods("GET")

	return router
}

// HealthResponse represents the health check response structure
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp string            `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Memory    MemoryStats       `json:"memory"`
	Database  ServiceStatus     `json:"database"`
	Storage   ServiceStatus     `json:"storage"`
	AI        map[string]string `json:"ai"`
}

// MemoryStats represents memory usage statistics
type MemoryStats struct {
	Allocated string `json:"allocated"`
	Total     string `json:"total"`
	System    string `json:"system"`
}

// ServiceStatus represents the status of a service dependency
type ServiceStatus struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
}

var startTime = time.Now()

// Health endpoint - enhanced for monitoring
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "healthy",
		Version:   Version,
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(startTime).String(),
		Memory: MemoryStats{
			Allocated: fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024),
			Total:     fmt.Sprintf("%.2f MB", float64(m.TotalAlloc)/1024/1024),
			System:    fmt.Sprintf("%.2f MB", float64(m.Sys)/1024/1024),
		},
		Database: h.checkDatabase(),
		Storage:  h.checkStorage(),
		AI: map[string]string{
			"defaultProvider": h.config.AI.DefaultProvider,
		},
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// checkDatabase verifies PostgreSQL connection
func (h *Handler) checkDatabase() ServiceStatus {
	if db.Pool == nil {
		return ServiceStatus{
			Available: false,
			Error:     "database pool not initialized",
		}
	}
	return ServiceStatus{
		Available: true,
		Version:   "PostgreSQL via PgBouncer",
	}
}

// checkStorage verifies MinIO connection
func (h *Handler) checkStorage() ServiceStatus {
	if storage.Client == nil {
		return ServiceStatus{
			Available: false,
			Error:     "storage client not initialized",
		}
	}
	return ServiceStatus{
		Available: true,
		Version:   "MinIO S3",
	}
}

// createProvider creates the appropriate AI provider
func (h *Handler) createProvider(providerName, modelName string) (extract.Provider, error) {
	switch providerName {
	case "openai":
		model := modelName
		if model == "" {
			model = h.config.AI.OpenAI.Model
		}
		return extract.NewOpenAIProvider(
			h.config.AI.OpenAI.APIKey,
			h.config.AI.OpenAI.BaseURL,
			model,
		), nil

	case "gemini":
		model := modelName
		if model == "" {
			model = h.config.AI.Gemini.Model
		}
		return extract.NewGeminiProvider(
			h.config.AI.Gemini.APIKey,
			model,
		), nil

	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", providerName)
	}
}

// sendError sends an error response
func (h *Handler) sendError(w http.ResponseWriter, statusCode int, message string) {
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// sendJSON writes a success payload
func (h *Handler) sendJSON(w http.ResponseWriter, data interface{}) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(data)
}
