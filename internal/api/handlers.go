package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"cumplia.mx/compliance-gateway/internal/auth"
	"cumplia.mx/compliance-gateway/internal/gateway"
	"cumplia.mx/compliance-gateway/internal/store"
	"cumplia.mx/compliance-gateway/pkg/logger"
)

type contextKey string

const principalKey contextKey = "principal"

// tokenTTL is how long issued client tokens remain valid.
const tokenTTL = 24 * time.Hour

type APIHandler struct {
	orchestrator *gateway.Orchestrator
	dbStore      *store.SQLiteStore
	logger       *logger.Logger
	jwtSecret    string
	clientSecret string
}

func NewAPIHandler(orch *gateway.Orchestrator, db *store.SQLiteStore, log *logger.Logger, jwtSecret, clientSecret string) *APIHandler {
	return &APIHandler{
		orchestrator: orch,
		dbStore:      db,
		logger:       log,
		jwtSecret:    jwtSecret,
		clientSecret: clientSecret,
	}
}

// JWTAuthMiddleware validates the bearer token and places the principal in
// the request context. Absence of a principal is a hard failure.
func (h *APIHandler) JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, gateway.KindUnauthenticated, "Authorization header is required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		principalID, err := auth.ValidateToken(h.jwtSecret, tokenString)
		if err != nil {
			writeError(w, http.StatusUnauthorized, gateway.KindUnauthenticated, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, gateway.Principal{ID: principalID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) gateway.Principal {
	if p, ok := ctx.Value(principalKey).(gateway.Principal); ok {
		return p
	}
	return gateway.Principal{}
}

type TokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// TokenHandler issues a JWT for a known client. Identity management proper
// lives outside this service; this only covers service-to-service callers
// that present the shared client secret.
func (h *APIHandler) TokenHandler(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, gateway.KindInvalidArgument, "Invalid request body")
		return
	}
	if req.ClientID == "" || req.ClientSecret == "" {
		writeError(w, http.StatusBadRequest, gateway.KindInvalidArgument, "client_id and client_secret are required")
		return
	}
	if h.clientSecret == "" || req.ClientSecret != h.clientSecret {
		writeError(w, http.StatusUnauthorized, gateway.KindUnauthenticated, "Invalid client credentials")
		return
	}

	token, err := auth.GenerateToken(h.jwtSecret, req.ClientID, tokenTTL)
	if err != nil {
		h.logger.Error("failed to generate token", zap.String("client_id", req.ClientID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, gateway.KindInternal, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// ChatHandler is the callable boundary of the conversational gateway.
func (h *APIHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())

	var req gateway.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, gateway.KindInvalidArgument, "Invalid request body: message must be a string")
		return
	}

	resp, err := h.orchestrator.Handle(r.Context(), principal, req)
	if err != nil {
		writeGatewayError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// suggestedQuestions is the fixed list behind the read-only companion
// endpoint. No state, no validation beyond identity.
var suggestedQuestions = []string{
	"¿Cuál es el umbral de aviso para la compraventa de inmuebles?",
	"¿Qué operaciones con efectivo están restringidas por la LFPIORPI?",
	"¿Cuándo debo presentar avisos al SAT por actividades vulnerables?",
	"¿Qué obligaciones de identificación tengo con mis clientes?",
	"¿Los activos virtuales son una actividad vulnerable?",
	"¿Qué es una UMA y cómo se usa para calcular umbrales?",
}

func (h *APIHandler) SuggestedQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"questions": suggestedQuestions})
}

// UsageHandler reports the calling tenant's usage counter. A tenant with no
// recorded usage gets a zeroed counter rather than a 404.
func (h *APIHandler) UsageHandler(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())

	counter, err := h.dbStore.GetUsage(r.Context(), principal.ID)
	if err != nil {
		h.logger.Error("failed to read usage counter", zap.String("tenant_id", principal.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, gateway.KindInternal, "Failed to read usage")
		return
	}
	if counter == nil {
		counter = &store.UsageCounter{TenantID: principal.ID}
	}

	writeJSON(w, http.StatusOK, counter)
}

type errorResponse struct {
	Success bool         `json:"success"`
	Kind    gateway.Kind `json:"kind"`
	Error   string       `json:"error"`
}

func writeGatewayError(w http.ResponseWriter, err error) {
	kind := gateway.KindOf(err)
	writeError(w, statusForKind(kind), kind, err.Error())
}

func statusForKind(kind gateway.Kind) int {
	switch kind {
	case gateway.KindUnauthenticated:
		return http.StatusUnauthorized
	case gateway.KindInvalidArgument:
		return http.StatusBadRequest
	case gateway.KindContentRejected:
		return http.StatusUnprocessableEntity
	case gateway.KindResourceExhausted:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, kind gateway.Kind, message string) {
	writeJSON(w, status, errorResponse{Success: false, Kind: kind, Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
