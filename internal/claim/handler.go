package claim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/claim-management/internal/auth"
	"github.com/frahmantamala/claim-management/internal/transport"
	"github.com/frahmantamala/claim-management/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

// ServiceAPI is the claim service surface the handler depends on.
type ServiceAPI interface {
	SubmitClaim(ctx context.Context, actor Actor, dto CreateClaimDTO, doc io.Reader, docName string) (*Claim, error)
	GetClaim(ctx context.Context, actor Actor, claimID int64) (*Claim, error)
	ListMyClaims(ctx context.Context, actor Actor, limit, offset int) ([]*Claim, error)
	ListReviewQueue(ctx context.Context, actor Actor, limit, offset int) ([]*Claim, error)
	ListAllClaims(ctx context.Context, actor Actor, limit, offset int) ([]*ClaimWithLecturer, error)
	ApproveClaim(ctx context.Context, actor Actor, claimID int64) (*Claim, error)
	RejectClaim(ctx context.Context, actor Actor, claimID int64, dto RejectClaimDTO) (*Claim, error)
	DownloadDocument(ctx context.Context, actor Actor, claimID int64) (io.ReadCloser, string, error)
}

type Handler struct {
	*transport.BaseHandler
	Service        ServiceAPI
	maxUploadBytes int64
}

func NewHandler(svc ServiceAPI, maxUploadBytes int64) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &Handler{
		BaseHandler:    transport.NewBaseHandler(lg),
		Service:        svc,
		maxUploadBytes: maxUploadBytes,
	}
}

// handleServiceError maps domain errors onto HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	if h.WriteAppError(w, err) {
		return
	}

	switch {
	case errors.Is(err, ErrClaimNotFound):
		h.WriteError(w, http.StatusNotFound, "claim not found")
	case errors.Is(err, ErrDocumentNotFound):
		h.WriteError(w, http.StatusNotFound, "claim has no uploaded document")
	case errors.Is(err, ErrUnauthorizedAccess):
		h.WriteError(w, http.StatusForbidden, "you do not have access to this claim")
	case errors.Is(err, ErrAlreadyReviewed):
		h.WriteError(w, http.StatusBadRequest, "claim has already been reviewed")
	case errors.Is(err, ErrInvalidTransition):
		h.WriteError(w, http.StatusBadRequest, "invalid claim status transition")
	case errors.Is(err, ErrClaimConflict):
		h.WriteError(w, http.StatusConflict, "claim was modified by another user, please retry")
	default:
		h.Logger.Error("unhandled claim service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}

func actorFrom(r *http.Request) (Actor, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		return Actor{}, false
	}
	return Actor{ID: user.ID, Permissions: user.Permissions}, true
}

// CreateClaim accepts a multipart form with hours_worked, hourly_rate,
// optional notes and an optional supporting document under "document".
func (h *Handler) CreateClaim(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid multipart form or file too large")
		return
	}

	hours, err := decimal.NewFromString(r.FormValue("hours_worked"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "hours_worked must be a decimal number")
		return
	}
	rate, err := decimal.NewFromString(r.FormValue("hourly_rate"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "hourly_rate must be a decimal number")
		return
	}

	dto := CreateClaimDTO{
		HoursWorked: hours,
		HourlyRate:  rate,
		Notes:       r.FormValue("notes"),
	}

	var doc io.Reader
	var docName string
	file, header, err := r.FormFile("document")
	if err == nil {
		defer file.Close()
		doc = file
		docName = header.Filename
	} else if err != http.ErrMissingFile {
		h.WriteError(w, http.StatusBadRequest, "invalid document upload")
		return
	}

	c, err := h.Service.SubmitClaim(r.Context(), actor, dto, doc, docName)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, c)
}

// MyClaims lists the authenticated lecturer's own claims.
func (h *Handler) MyClaims(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	limit, offset := paginationParams(r)
	claims, err := h.Service.ListMyClaims(r.Context(), actor, limit, offset)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ClaimListResponse{Claims: claims, Limit: limit, Offset: offset})
}

// ReviewQueue lists pending and under-review claims oldest first.
func (h *Handler) ReviewQueue(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	limit, offset := paginationParams(r)
	claims, err := h.Service.ListReviewQueue(r.Context(), actor, limit, offset)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ClaimListResponse{Claims: claims, Limit: limit, Offset: offset})
}

// AllClaims lists every claim with lecturer details.
func (h *Handler) AllClaims(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	limit, offset := paginationParams(r)
	claims, err := h.Service.ListAllClaims(r.Context(), actor, limit, offset)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"claims": claims,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) GetClaim(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	claimID, err := claimIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	c, err := h.Service.GetClaim(r.Context(), actor, claimID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) ApproveClaim(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	claimID, err := claimIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	c, err := h.Service.ApproveClaim(r.Context(), actor, claimID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) RejectClaim(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	claimID, err := claimIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	var dto RejectClaimDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.RejectClaim(r.Context(), actor, claimID, dto)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

// DownloadDocument streams the claim's supporting document back to the
// caller as an attachment.
func (h *Handler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	claimID, err := claimIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	rc, fileName, err := h.Service.DownloadDocument(r.Context(), actor, claimID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	if _, err := io.Copy(w, rc); err != nil {
		h.Logger.Error("document stream failed", "claim_id", claimID, "error", err)
	}
}

func claimIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func paginationParams(r *http.Request) (int, int) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	return normalizePagination(limit, offset)
}
