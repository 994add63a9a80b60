package main

import (
	"fmt"
	"net/http"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/declarium/customs-declaration-service/api"
	"github.com/declarium/customs-declaration-service/internal/auth"
	"github.com/declarium/customs-declaration-service/internal/db"
	"github.com/declarium/customs-declaration-service/internal/logger"
	"github.com/declarium/customs-declaration-service/internal/models"
	"github.com/declarium/customs-declaration-service/internal/storage"
)

func main() {
	log := logger.Get()
	defer logger.Close()

	// Initialize JWT
	if err := auth.Init(); err != nil {
		log.Fatalf("Failed to initialize auth: %v", err)
	}
	log.Info("JWT authentication initialized")

	// Initialize database connection pool
	if err := db.Init(); err != nil {
		log.Warnf("Database not available: %v", err)
		log.Warn("Running without persistence: only extraction and reference endpoints will work")
	} else {
		defer db.Close()
		log.Info("Database connection pool initialized")
	}

	// Initialize MinIO storage
	if err := storage.Init(); err != nil {
		log.Warnf("MinIO storage not available: %v", err)
		log.Warn("Uploaded documents will not be archived")
	} else {
		log.Info("MinIO storage initialized")
	}

	// Load configuration
	config, err := loadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Create API handler
	handler := api.NewHandler(config)
	router := handler.SetupRoutes()

	// Add login endpoint
	router.HandleFunc("/api/login", auth.LoginHandler).Methods("POST")

	// Wrap router with JWT middleware (skips /health and /api/login)
	protectedRouter := auth.JWTMiddleware(router)

	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	log.Infof("Starting Customs Declaration Service v%s on %s", api.Version, addr)
	log.Infof("Default AI provider: %s", config.AI.DefaultProvider)
	log.Infof("Database: %v", db.Pool != nil)
	log.Infof("Storage: %v", storage.Client != nil)

	if err := http.ListenAndServe(addr, protectedRouter); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func loadConfig(path string) (*models.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config models.Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables if present
	if port := os.Getenv("PORT"); port != "" {
		fmt.Sscanf(port, "%d", &config.Port)
	}
	if host := os.Getenv("HOST"); host != "" {
		config.Host = host
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.AI.OpenAI.APIKey = apiKey
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.AI.Gemini.APIKey = apiKey
	}
	if provider := os.Getenv("AI_PROVIDER"); provider != "" {
		config.AI.DefaultProvider = provider
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.AI.OpenAI.BaseURL = baseURL
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		config.AI.OpenAI.Model = model
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		config.AI.Gemini.Model = model
	}
	if baseURL := os.Getenv("RATES_BASE_URL"); baseURL != "" {
		config.Rates.BaseURL = baseURL
	}

	return &config, nil
}
