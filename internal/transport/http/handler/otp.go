package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-api-otp/internal/application/otp"
	"github.com/go-api-otp/internal/domain"
	"github.com/go-api-otp/internal/pkg/validate"
)

// OtpHandler handles OTP issuance and verification endpoints.
type OtpHandler struct {
	svc otp.Service
}

func NewOtpHandler(svc otp.Service) *OtpHandler { return &OtpHandler{svc: svc} }

func (h *OtpHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var form domain.OtpForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := h.svc.Issue(r.Context(), form)
	if err != nil {
		httpError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "OTP generated and sent successfully", result)
}

type verifyRequest struct {
	OTP string `json:"otp" validate:"required"`
}

func (h *OtpHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "OTP is required")
		return
	}
	result, err := h.svc.Verify(r.Context(), req.OTP)
	if err != nil {
		httpError(w, err)
		return
	}
	if result.Verdict != domain.VerdictSuccess {
		writeError(w, http.StatusBadRequest, result.Verdict.Message())
		return
	}
	writeSuccess(w, http.StatusOK, result.Verdict.Message(), map[string]string{
		"email":           result.Email,
		"identifierType":  result.IdentifierType,
		"identifierValue": result.IdentifierValue,
	})
}
