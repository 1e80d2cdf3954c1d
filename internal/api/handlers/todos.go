package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/workhive/workhive/internal/api/dto"
	"github.com/workhive/workhive/internal/database/models"
	"github.com/workhive/workhive/internal/todos"
	"github.com/workhive/workhive/internal/workspaces"
)

type TodoHandler struct {
	workspaceService *workspaces.Service
	todoService      *todos.Service
}

func NewTodoHandler(workspaceService *workspaces.Service, todoService *todos.Service) *TodoHandler {
	return &TodoHandler{
		workspaceService: workspaceService,
		todoService:      todoService,
	}
}

func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := resolveWorkspaceID(w, r, h.workspaceService)
	if !ok {
		return
	}

	var req dto.CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Error("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ValidationError(errs))
		return
	}

	folderID, err := uuid.Parse(req.WorkfolderID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Error("Invalid workfolder id"))
		return
	}

	assignments, ok := parseUUIDs(w, req.Assignments)
	if !ok {
		return
	}

	input := todos.CreateTodoInput{
		Title:        req.Title,
		WorkfolderID: folderID,
		Status:       models.TodoStatus(req.Status),
		Note:         req.Note,
		Deadline:     req.Deadline,
		Checklists:   toChecklistInputs(req.Checklists),
		Assignments:  assignments,
	}

	todo, err := h.todoService.CreateTodo(r.Context(), workspaceID, input)
	if err != nil {
		if errors.Is(err, todos.ErrFolderNotFound) {
			writeJSON(w, http.StatusNotFound, dto.Error("Folder not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.Error("Todo creation failed"))
		return
	}

	writeJSON(w, http.StatusCreated, dto.Data(todo))
}

func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	todoID, ok := pathUUID(w, r, "todoID")
	if !ok {
		return
	}

	todo, err := h.todoService.GetTodo(r.Context(), todoID)
	if err != nil {
		if errors.Is(err, todos.ErrTodoNotFound) {
			writeJSON(w, http.StatusNotFound, dto.Error("Todo not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.Error("Lookup failed"))
		return
	}

	writeJSON(w, http.StatusOK, dto.Data(todo))
}

func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	todoID, ok := pathUUID(w, r, "todoID")
	if !ok {
		return
	}

	var req dto.UpdateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Error("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ValidationError(errs))
		return
	}

	patch := todos.TodoPatch{
		Title:    req.Title,
		Note:     req.Note,
		Deadline: req.Deadline,
	}
	if req.Status != nil {
		status := models.TodoStatus(*req.Status)
		patch.Status = &status
	}
	if req.Checklists != nil {
		items := toChecklistInputs(*req.Checklists)
		patch.Checklists = &items
	}
	if req.Assignments != nil {
		ids, ok := parseUUIDs(w, *req.Assignments)
		if !ok {
			return
		}
		patch.Assignments = &ids
	}

	todo, err := h.todoService.UpdateTodo(r.Context(), todoID, patch)
	if err != nil {
		if errors.Is(err, todos.ErrTodoNotFound) {
			writeJSON(w, http.StatusNotFound, dto.Error("Todo not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.Error("Update failed"))
		return
	}

	writeJSON(w, http.StatusOK, dto.Data(todo))
}

func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	todoID, ok := pathUUID(w, r, "todoID")
	if !ok {
		return
	}

	if err := h.todoService.DeleteTodo(r.Context(), todoID); err != nil {
		if errors.Is(err, todos.ErrTodoNotFound) {
			writeJSON(w, http.StatusNotFound, dto.Error("Todo not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.Error("Todo deletion failed"))
		return
	}

	writeJSON(w, http.StatusOK, dto.Success("Todo deleted"))
}

// Move relocates the todo within its folder or into a sibling folder.
func (h *TodoHandler) Move(w http.ResponseWriter, r *http.Request) {
	todoID, ok := pathUUID(w, r, "todoID")
	if !ok {
		return
	}

	var req dto.MoveTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Error("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ValidationError(errs))
		return
	}

	folderID, err := uuid.Parse(req.WorkfolderID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Error("Invalid workfolder id"))
		return
	}

	todo, err := h.todoService.MoveTodo(r.Context(), todoID, folderID, req.Order)
	if err != nil {
		switch {
		case errors.Is(err, todos.ErrTodoNotFound):
			writeJSON(w, http.StatusNotFound, dto.Error("Todo not found"))
		case errors.Is(err, todos.ErrFolderNotFound):
			writeJSON(w, http.StatusNotFound, dto.Error("Folder not found"))
		default:
			writeJSON(w, http.StatusInternalServerError, dto.Error("Move failed"))
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.Data(todo))
}

func toChecklistInputs(items []dto.ChecklistItemDTO) []todos.ChecklistInput {
	out := make([]todos.ChecklistInput, len(items))
	for i, item := range items {
		out[i] = todos.ChecklistInput{Text: item.Text, IsChecked: item.IsChecked}
	}
	return out
}

func parseUUIDs(w http.ResponseWriter, raw []string) ([]uuid.UUID, bool) {
	ids := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, dto.Error("Invalid user id in assignments"))
			return nil, false
		}
		ids[i] = id
	}
	return ids, true
}
