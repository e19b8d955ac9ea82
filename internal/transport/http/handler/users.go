package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-api-otp/internal/application/user"
	"github.com/go-api-otp/internal/domain"
	"github.com/go-chi/chi/v5"
)

// UserHandler handles user CRUD endpoints.
type UserHandler struct {
	svc user.Service
}

func NewUserHandler(svc user.Service) *UserHandler { return &UserHandler{svc: svc} }

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var form domain.UserForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := h.svc.Create(r.Context(), form)
	if err != nil {
		httpError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "User created successfully", u)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	writeSuccess(w, http.StatusOK, "", users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", u)
}
