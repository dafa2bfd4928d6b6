package http

import (
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/service/ratelimit"
	"github.com/claimdesk/claimdesk/internal/usecase"
	"github.com/claimdesk/claimdesk/pkg/apperror"
)

// AuthHandler handles authentication requests.
type AuthHandler struct {
	login       *usecase.LoginUseCase
	limiter     ratelimit.Service
	loginLimit  int
	loginWindow time.Duration
	log         *logrus.Logger
}

func NewAuthHandler(login *usecase.LoginUseCase, limiter ratelimit.Service, loginLimit int, loginWindow time.Duration, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		login:       login,
		limiter:     limiter,
		loginLimit:  loginLimit,
		loginWindow: loginWindow,
		log:         log,
	}
}

// RegisterRoutes registers authentication routes.
func (h *AuthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/auth/login", h.Login).Methods("POST")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates the user and returns an access token. Attempts are
// rate limited per client address to slow down credential guessing.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	allowed, err := h.limiter.Allow(r.Context(), "login:"+host, h.loginLimit, h.loginWindow)
	if err != nil {
		// A broken limiter must not lock everyone out.
		h.log.WithError(err).Warn("rate limit check failed, allowing request")
		allowed = true
	}
	if !allowed {
		writeError(w, &apperror.AppError{
			Code:    "RATE_LIMITED",
			Message: "too many login attempts, try again later",
			Status:  http.StatusTooManyRequests,
		})
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.NewValidation("body", "invalid request body"))
		return
	}

	resp, err := h.login.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
