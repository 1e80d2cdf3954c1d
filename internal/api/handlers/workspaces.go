package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/workhive/workhive/internal/api/dto"
	"github.com/workhive/workhive/internal/api/middleware"
	"github.com/workhive/workhive/internal/workspaces"
)

type WorkspaceHandler struct {
	workspaceService *workspaces.Service
}

func NewWorkspaceHandler(workspaceService *workspaces.Service) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

// Create makes a workspace with the caller as sole admin.
func (h *WorkspaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateWorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Error("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ValidationError(errs))
		return
	}

	userID := middleware.GetUserID(r.Context())
	workspace, err := h.workspaceService.Create(r.Context(), userID, req.Title, req.Account)
	if err != nil {
		if errors.Is(err, workspaces.ErrAccountExists) {
			writeJSON(w, http.StatusBadRequest, dto.Error("Account already exists"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.Error("Workspace creation failed"))
		return
	}

	writeJSON(w, http.StatusCreated, dto.Data(workspace))
}

// List returns every workspace the caller belongs to, pending
// memberships included.
func (h *WorkspaceHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	list, err := h.workspaceService.ListByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.Error("Listing failed"))
		return
	}

	writeJSON(w, http.StatusOK, dto.Data(list))
}

func (h *WorkspaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")

	workspace, err := h.workspaceService.GetByAccount(r.Context(), account)
	if err != nil {
		if errors.Is(err, workspaces.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, dto.Error("Workspace not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.Error("Lookup failed"))
		return
	}

	writeJSON(w, http.StatusOK, dto.Data(workspace))
}

// RequestJoin creates a pending membership for the caller.
func (h *WorkspaceHandler) RequestJoin(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")
	userID := middleware.GetUserID(r.Context())

	workspace, err := h.workspaceService.RequestJoin(r.Context(), account, userID)
	if err != nil {
		switch {
		case errors.Is(err, workspaces.ErrNotFound):
			writeJSON(w, http.StatusNotFound, dto.Error("Workspace not found"))
		case errors.Is(err, workspaces.ErrAlreadyMember):
			writeJSON(w, http.StatusBadRequest, dto.Error("Already a member"))
		default:
			writeJSON(w, http.StatusInternalServerError, dto.Error("Join request failed"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, dto.Data(workspace))
}

// Update patches the workspace title and/or Slack webhook URL.
func (h *WorkspaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")

	var req dto.UpdateWorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Error("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ValidationError(errs))
		return
	}

	var (
		workspace interface{}
		err       error
	)
	if req.Title != nil {
		workspace, err = h.workspaceService.UpdateTitle(r.Context(), account, *req.Title)
	}
	if err == nil && req.SlackURL != nil {
		workspace, err = h.workspaceService.UpdateSlackURL(r.Context(), account, *req.SlackURL)
	}
	if err != nil {
		if errors.Is(err, workspaces.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, dto.Error("Workspace not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.Error("Update failed"))
		return
	}

	writeJSON(w, http.StatusOK, dto.Data(workspace))
}

// UpdateMember applies admin promotion/demotion and pending approval.
func (h *WorkspaceHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")
	memberID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}

	var req dto.UpdateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Error("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ValidationError(errs))
		return
	}

	workspace, err := h.workspaceService.UpdateMemberStatus(r.Context(), account, memberID, workspaces.MemberStatusPatch{
		IsAdmin:   req.IsAdmin,
		IsPending: req.IsPending,
	})
	if err != nil {
		switch {
		case errors.Is(err, workspaces.ErrNotFound):
			writeJSON(w, http.StatusNotFound, dto.Error("Workspace not found"))
		case errors.Is(err, workspaces.ErrMemberNotFound):
			writeJSON(w, http.StatusNotFound, dto.Error("Member not found"))
		default:
			writeJSON(w, http.StatusInternalServerError, dto.Error("Member update failed"))
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.Data(workspace))
}

// RemoveMember drops the member and their traces in the workspace.
func (h *WorkspaceHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")
	memberID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}

	workspace, err := h.workspaceService.RemoveMember(r.Context(), account, memberID)
	if err != nil {
		switch {
		case errors.Is(err, workspaces.ErrNotFound):
			writeJSON(w, http.StatusNotFound, dto.Error("Workspace not found"))
		case errors.Is(err, workspaces.ErrMemberNotFound):
			writeJSON(w, http.StatusNotFound, dto.Error("Member not found"))
		default:
			writeJSON(w, http.StatusInternalServerError, dto.Error("Member removal failed"))
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.Data(workspace))
}

// Delete cascades the whole workspace away.
func (h *WorkspaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")

	if err := h.workspaceService.Delete(r.Context(), account); err != nil {
		if errors.Is(err, workspaces.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, dto.Error("Workspace not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.Error("Workspace deletion failed"))
		return
	}

	writeJSON(w, http.StatusOK, dto.Success("Workspace deleted"))
}
