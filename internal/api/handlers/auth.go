package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/workhive/workhive/internal/api/dto"
	"github.com/workhive/workhive/internal/auth"
)

type AuthHandler struct {
	authService *auth.Service
}

func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Error("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ValidationError(errs))
		return
	}

	_, err := h.authService.Register(r.Context(), auth.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		switch err {
		case auth.ErrUserExists:
			writeJSON(w, http.StatusBadRequest, dto.Error("Email already registered"))
		default:
			writeJSON(w, http.StatusInternalServerError, dto.Error("Registration failed"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, dto.Success("Registered"))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Error("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ValidationError(errs))
		return
	}

	resp, err := h.authService.Login(r.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch err {
		case auth.ErrInvalidCredentials:
			writeJSON(w, http.StatusForbidden, dto.Error("Invalid credentials"))
		default:
			writeJSON(w, http.StatusInternalServerError, dto.Error("Login failed"))
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.AuthResponse{
		OK:    true,
		Token: resp.Token,
		User: dto.UserDTO{
			ID:           resp.User.ID.String(),
			FirstName:    resp.User.FirstName,
			LastName:     resp.User.LastName,
			Email:        resp.User.Email,
			PlatformMode: string(resp.User.PlatformMode),
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
