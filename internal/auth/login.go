package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/declarium/customs-declaration-service/internal/db"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	BrokerAlias string `json:"broker_alias"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// LoginResponse represents the successful login response
type LoginResponse struct {
	Token       string `json:"token"`
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	BrokerAlias string `json:"broker_alias"`
	BrokerName  string `json:"broker_name"`
}

// LoginHandler handles user authentication
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	if req.BrokerAlias == "" || req.Email == "" || req.Password == "" {
		http.Error(w, `{"error":"broker_alias, email and password are required"}`, http.StatusBadRequest)
		return
	}

	if db.Pool == nil {
		http.Error(w, `{"error":"authentication service unavailable"}`, http.StatusServiceUnavailable)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	query := `SELECT id, email, name, role, password_hash, broker_name
	          FROM public.broker_users
	          WHERE broker_alias = $1 AND email = $2 AND active`

	var userID, email, name, role, passwordHash, brokerName string
	err := db.Pool.QueryRow(ctx, query, req.BrokerAlias, req.Email).Scan(
		&userID, &email, &name, &role, &passwordHash, &brokerName,
	)
	if err != nil {
		http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)) != nil {
		http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
		return
	}

	token, err := GenerateToken(userID, email, req.BrokerAlias, brokerName, role)
	if err != nil {
		http.Error(w, `{"error":"failed to generate token"}`, http.StatusInternalServerError)
		return
	}

	// Update last login in background
	go func() {
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_, _ = db.Pool.Exec(ctx2,
			"UPDATE public.broker_users SET last_login = now() WHERE id = $1::uuid", userID)
	}()

	json.NewEncoder(w).Encode(LoginResponse{
		Token:       token,
		UserID:      userID,
		Email:       email,
		Name:        name,
		Role:        role,
		BrokerAlias: req.BrokerAlias,
		BrokerName:  brokerName,
	})
}
