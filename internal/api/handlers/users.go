package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/workhive/workhive/internal/api/dto"
	"github.com/workhive/workhive/internal/database/models"
	"github.com/workhive/workhive/internal/users"
)

type UserHandler struct {
	userService *users.Service
}

func NewUserHandler(userService *users.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}

	user, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, dto.Error("User not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.Error("Lookup failed"))
		return
	}

	writeJSON(w, http.StatusOK, dto.Data(user))
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Error("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ValidationError(errs))
		return
	}

	patch := users.ProfilePatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if req.PlatformMode != nil {
		mode := models.PlatformMode(*req.PlatformMode)
		patch.PlatformMode = &mode
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, patch)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, dto.Error("User not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.Error("Update failed"))
		return
	}

	writeJSON(w, http.StatusOK, dto.Data(user))
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Error("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ValidationError(errs))
		return
	}

	err := h.userService.ChangePassword(r.Context(), userID, req.OriginalPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, dto.Error("User not found"))
		case errors.Is(err, users.ErrWrongPassword):
			writeJSON(w, http.StatusForbidden, dto.Error("Original password does not match"))
		default:
			writeJSON(w, http.StatusInternalServerError, dto.Error("Password change failed"))
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.Success("Password changed"))
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}

	err := h.userService.Delete(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, dto.Error("User not found"))
		case errors.Is(err, users.ErrSoleAdmin):
			writeJSON(w, http.StatusForbidden, dto.Error("Hand off workspace admin rights first"))
		default:
			writeJSON(w, http.StatusInternalServerError, dto.Error("Account deletion failed"))
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.Success("Account deleted"))
}

// pathUUID parses a UUID route parameter, writing a 400 envelope on
// failure.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Error("Invalid id"))
		return uuid.Nil, false
	}
	return id, true
}
