package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/workhive/workhive/internal/api/dto"
	"github.com/workhive/workhive/internal/todos"
	"github.com/workhive/workhive/internal/workspaces"
)

type FolderHandler struct {
	workspaceService *workspaces.Service
	todoService      *todos.Service
}

func NewFolderHandler(workspaceService *workspaces.Service, todoService *todos.Service) *FolderHandler {
	return &FolderHandler{
		workspaceService: workspaceService,
		todoService:      todoService,
	}
}

// List returns the workspace's folders in order, todos nested.
func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := resolveWorkspaceID(w, r, h.workspaceService)
	if !ok {
		return
	}

	folders, err := h.todoService.ListFolders(r.Context(), workspaceID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.Error("Listing failed"))
		return
	}

	writeJSON(w, http.StatusOK, dto.Data(folders))
}

func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := resolveWorkspaceID(w, r, h.workspaceService)
	if !ok {
		return
	}

	var req dto.CreateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Error("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ValidationError(errs))
		return
	}

	folder, err := h.todoService.CreateFolder(r.Context(), workspaceID, req.Title)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.Error("Folder creation failed"))
		return
	}

	writeJSON(w, http.StatusCreated, dto.Data(folder))
}

func (h *FolderHandler) Rename(w http.ResponseWriter, r *http.Request) {
	folderID, ok := pathUUID(w, r, "folderID")
	if !ok {
		return
	}

	var req dto.RenameFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Error("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ValidationError(errs))
		return
	}

	folder, err := h.todoService.RenameFolder(r.Context(), folderID, req.Title)
	if err != nil {
		if errors.Is(err, todos.ErrFolderNotFound) {
			writeJSON(w, http.StatusNotFound, dto.Error("Folder not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.Error("Rename failed"))
		return
	}

	writeJSON(w, http.StatusOK, dto.Data(folder))
}

// Delete removes the folder, its todos, and renumbers siblings.
func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	folderID, ok := pathUUID(w, r, "folderID")
	if !ok {
		return
	}

	if err := h.todoService.DeleteFolder(r.Context(), folderID); err != nil {
		if errors.Is(err, todos.ErrFolderNotFound) {
			writeJSON(w, http.StatusNotFound, dto.Error("Folder not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.Error("Folder deletion failed"))
		return
	}

	writeJSON(w, http.StatusOK, dto.Success("Folder deleted"))
}

// resolveWorkspaceID turns the {account} route parameter into a
// workspace id, writing the error envelope itself when that fails.
func resolveWorkspaceID(w http.ResponseWriter, r *http.Request, service *workspaces.Service) (uuid.UUID, bool) {
	account := chi.URLParam(r, "account")
	workspace, err := service.GetByAccount(r.Context(), account)
	if err != nil {
		if errors.Is(err, workspaces.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, dto.Error("Workspace not found"))
			return uuid.Nil, false
		}
		writeJSON(w, http.StatusInternalServerError, dto.Error("Lookup failed"))
		return uuid.Nil, false
	}
	return workspace.ID, true
}
