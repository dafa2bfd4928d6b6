package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/claimdesk/claimdesk/internal/domain"
	"github.com/claimdesk/claimdesk/internal/usecase"
	"github.com/claimdesk/claimdesk/pkg/apperror"
)

// AdminHandler handles the administrator endpoints: the pending queue,
// claim processing, the audit log and employee management.
type AdminHandler struct {
	admin     *usecase.AdminUseCase
	employees *usecase.EmployeeUseCase
}

func NewAdminHandler(admin *usecase.AdminUseCase, employees *usecase.EmployeeUseCase) *AdminHandler {
	return &AdminHandler{admin: admin, employees: employees}
}

// RegisterRoutes registers admin routes on the CpdAdmin subtree.
func (h *AdminHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/claims", h.ListPending).Methods("GET")
	router.HandleFunc("/claims/{id:[0-9]+}", h.GetForProcess).Methods("GET")
	router.HandleFunc("/claims/{id:[0-9]+}/process", h.ProcessClaim).Methods("POST")
	router.HandleFunc("/audit", h.AuditLog).Methods("GET")
	router.HandleFunc("/employees", h.ListEmployees).Methods("GET")
	router.HandleFunc("/employees", h.CreateEmployee).Methods("POST")
	router.HandleFunc("/employees/{id}", h.GetEmployee).Methods("GET")
}

// ListPending returns the approval queue, oldest first.
func (h *AdminHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	p, _ := GetPrincipal(r.Context())

	claims, err := h.admin.ListPending(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, claims)
}

// GetForProcess returns a claim with its audit history for the review screen.
func (h *AdminHandler) GetForProcess(w http.ResponseWriter, r *http.Request) {
	p, _ := GetPrincipal(r.Context())
	id, err := claimID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	view, err := h.admin.GetForProcess(r.Context(), p, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type processRequest struct {
	Action         string `json:"action"`
	AmountApproved string `json:"amount_approved,omitempty"`
}

// ProcessClaim applies an approve or reject decision.
func (h *AdminHandler) ProcessClaim(w http.ResponseWriter, r *http.Request) {
	p, _ := GetPrincipal(r.Context())
	id, err := claimID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.NewValidation("body", "invalid request body"))
		return
	}

	var amountApproved *int64
	if req.AmountApproved != "" {
		cents, err := domain.ParseAmount(req.AmountApproved)
		if err != nil {
			writeError(w, apperror.NewValidation("amount_approved", "approved amount must be a decimal number"))
			return
		}
		amountApproved = &cents
	}

	claim, err := h.admin.Process(r.Context(), p, id, req.Action, amountApproved)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, claim)
}

// AuditLog returns the most recent audit entries, newest first.
func (h *AdminHandler) AuditLog(w http.ResponseWriter, r *http.Request) {
	p, _ := GetPrincipal(r.Context())

	entries, err := h.admin.AuditLog(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// ListEmployees returns the account directory.
func (h *AdminHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	users, err := h.employees.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// GetEmployee returns a single account.
func (h *AdminHandler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	user, err := h.employees.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// CreateEmployee provisions a new account with a temporary password.
func (h *AdminHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var in usecase.CreateEmployeeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, apperror.NewValidation("body", "invalid request body"))
		return
	}

	user, err := h.employees.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}
