package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/claimdesk/claimdesk/internal/usecase"
)

// DashboardHandler serves the landing-page statistics.
type DashboardHandler struct {
	dashboard *usecase.DashboardUseCase
}

func NewDashboardHandler(dashboard *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// RegisterRoutes registers dashboard routes on the authenticated subtree.
func (h *DashboardHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/dashboard", h.GetDashboard).Methods("GET")
}

// GetDashboard returns the caller's claim counts plus the admin section for
// users who can process claims.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	p, _ := GetPrincipal(r.Context())

	d, err := h.dashboard.Build(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
