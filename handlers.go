package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Lucifer7355/approval-checks/internal/checks"
)

const maxBodyBytes = 1 << 20

type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	checks *checks.Handler
	keys   KeyStore
	health Pinger
	logger *zap.Logger
}

func WriteJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeEnvelope maps the check envelope onto the HTTP response.
func writeEnvelope(w http.ResponseWriter, resp checks.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	w.Write([]byte(resp.Body))
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid JSON")
		return false
	}
	return true
}

func (s *Server) CheckAddressHandler(w http.ResponseWriter, r *http.Request) {
	var req checks.AddressRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := s.checks.Address(r.Context(), req)
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "Could not evaluate address")
		return
	}
	writeEnvelope(w, resp)
}

func (s *Server) CheckIdentityHandler(w http.ResponseWriter, r *http.Request) {
	var req checks.IdentityRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := s.checks.Identity(r.Context(), req)
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "Could not evaluate identity")
		return
	}
	writeEnvelope(w, resp)
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.health.Ping(ctx); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) GenerateAPIKeyHandler(w http.ResponseWriter, r *http.Request) {
	key, err := GenerateAPIKey()
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "Could not generate API key")
		return
	}
	if err := s.keys.StoreAPIKey(r.Context(), key); err != nil {
		s.logger.Error("failed to store api key", zap.Error(err))
		WriteJSONError(w, http.StatusInternalServerError, "Failed to store API key")
		return
	}
	writeJSON(w, http.StatusCreated, APIKeyResponse{Key: key})
}

func GenerateAPIKey() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
