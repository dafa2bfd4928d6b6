package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/claimdesk/claimdesk/internal/domain"
	"github.com/claimdesk/claimdesk/internal/upload"
	"github.com/claimdesk/claimdesk/internal/usecase"
	"github.com/claimdesk/claimdesk/pkg/apperror"
)

// multipartMemoryLimit bounds the in-memory portion of multipart parsing;
// larger parts spill to temporary files.
const multipartMemoryLimit = 1 << 20

// ClaimHandler handles the employee-facing claim endpoints.
type ClaimHandler struct {
	claims      *usecase.ClaimUseCase
	maxBodySize int64
}

func NewClaimHandler(claims *usecase.ClaimUseCase, maxBodySize int64) *ClaimHandler {
	return &ClaimHandler{claims: claims, maxBodySize: maxBodySize}
}

// RegisterRoutes registers claim routes on the authenticated subtree.
func (h *ClaimHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/claims", h.ListClaims).Methods("GET")
	router.HandleFunc("/claims", h.CreateClaim).Methods("POST")
	router.HandleFunc("/claims/{id:[0-9]+}", h.GetClaim).Methods("GET")
	router.HandleFunc("/claims/{id:[0-9]+}", h.EditClaim).Methods("PUT")
	router.HandleFunc("/claims/{id:[0-9]+}", h.DeleteClaim).Methods("DELETE")
	router.HandleFunc("/claims/{id:[0-9]+}/receipt", h.GetReceipt).Methods("GET")
}

// claimForm is the parsed multipart submission shared by create and edit.
type claimForm struct {
	Title       string
	Description string
	AmountCents int64
	Receipt     *upload.ValidatedFile
}

// parseClaimForm reads the multipart form: title, description, amount and an
// optional receipt part. The receipt passes intake validation here so the
// usecase only ever sees validated files.
func (h *ClaimHandler) parseClaimForm(r *http.Request) (*claimForm, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, h.maxBodySize)
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		return nil, apperror.NewValidation("body", "invalid multipart form")
	}

	form := &claimForm{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}

	amountCents, err := domain.ParseAmount(r.FormValue("amount"))
	if err != nil {
		return nil, err
	}
	form.AmountCents = amountCents

	file, header, err := r.FormFile("receipt")
	if err == http.ErrMissingFile {
		return form, nil
	}
	if err != nil {
		return nil, apperror.NewValidation("receipt", "could not read uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, upload.MaxReceiptBytes+1))
	if err != nil {
		return nil, apperror.NewValidation("receipt", "could not read uploaded file")
	}

	validated, err := upload.Validate(data, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	form.Receipt = validated
	return form, nil
}

// ListClaims returns the caller's own claims, newest first.
func (h *ClaimHandler) ListClaims(w http.ResponseWriter, r *http.Request) {
	p, _ := GetPrincipal(r.Context())

	claims, err := h.claims.ListMine(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, claims)
}

// CreateClaim handles new claim submission.
func (h *ClaimHandler) CreateClaim(w http.ResponseWriter, r *http.Request) {
	p, _ := GetPrincipal(r.Context())

	form, err := h.parseClaimForm(r)
	if err != nil {
		writeError(w, err)
		return
	}

	claim, err := h.claims.Create(r.Context(), p, usecase.CreateClaimInput{
		Title:       form.Title,
		Description: form.Description,
		AmountCents: form.AmountCents,
		Receipt:     form.Receipt,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, claim)
}

// GetClaim returns a single claim.
func (h *ClaimHandler) GetClaim(w http.ResponseWriter, r *http.Request) {
	p, _ := GetPrincipal(r.Context())
	id, err := claimID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	claim, err := h.claims.Get(r.Context(), p, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, claim)
}

// EditClaim replaces the mutable fields of a pending claim.
func (h *ClaimHandler) EditClaim(w http.ResponseWriter, r *http.Request) {
	p, _ := GetPrincipal(r.Context())
	id, err := claimID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	form, err := h.parseClaimForm(r)
	if err != nil {
		writeError(w, err)
		return
	}

	claim, err := h.claims.Edit(r.Context(), p, id, usecase.EditClaimInput{
		Title:       form.Title,
		Description: form.Description,
		AmountCents: form.AmountCents,
		NewReceipt:  form.Receipt,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, claim)
}

// DeleteClaim removes a claim.
func (h *ClaimHandler) DeleteClaim(w http.ResponseWriter, r *http.Request) {
	p, _ := GetPrincipal(r.Context())
	id, err := claimID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.claims.Delete(r.Context(), p, id); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "claim deleted")
}

// GetReceipt streams the stored receipt, inline by default or as an
// attachment with ?mode=download.
func (h *ClaimHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	p, _ := GetPrincipal(r.Context())
	id, err := claimID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	mode := usecase.ReceiptMode(r.URL.Query().Get("mode"))
	receipt, err := h.claims.OpenReceipt(r.Context(), p, id, mode)
	if err != nil {
		writeError(w, err)
		return
	}
	defer receipt.Content.Close()

	disposition := "inline"
	if receipt.Mode == usecase.ReceiptModeDownload {
		disposition = "attachment"
	}
	w.Header().Set("Content-Type", receipt.ContentType)
	w.Header().Set("Content-Disposition", disposition+`; filename="`+receipt.FileName+`"`)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if _, err := io.Copy(w, receipt.Content); err != nil {
		// Headers are already out; nothing useful left to send.
		return
	}
}

func claimID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NewValidation("id", "invalid claim id")
	}
	return id, nil
}
