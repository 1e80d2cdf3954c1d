package dto

import "time"

type CreateFolderRequest struct {
	Title string `json:"title"`
}

func (r CreateFolderRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Title == "" {
		errors["title"] = "Title is required"
	} else if len(r.Title) > 50 {
		errors["title"] = "Title must be at most 50 characters"
	}

	return errors
}

type RenameFolderRequest = CreateFolderRequest

type ChecklistItemDTO struct {
	Text      string `json:"text"`
	IsChecked bool   `json:"is_checked"`
}

type CreateTodoRequest struct {
	Title        string             `json:"title"`
	WorkfolderID string             `json:"workfolder_id"`
	Status       string             `json:"status"`
	Note         string             `json:"note"`
	Deadline     *time.Time         `json:"deadline"`
	Checklists   []ChecklistItemDTO `json:"checklists"`
	Assignments  []string           `json:"assignments"`
}

func (r CreateTodoRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Title == "" {
		errors["title"] = "Title is required"
	}
	if r.WorkfolderID == "" {
		errors["workfolder_id"] = "Workfolder is required"
	}
	if r.Status != "" && !validTodoStatus(r.Status) {
		errors["status"] = "Status must be pending, processing or completed"
	}

	return errors
}

type UpdateTodoRequest struct {
	Title       *string             `json:"title"`
	Status      *string             `json:"status"`
	Note        *string             `json:"note"`
	Deadline    *time.Time          `json:"deadline"`
	Checklists  *[]ChecklistItemDTO `json:"checklists"`
	Assignments *[]string           `json:"assignments"`
}

func (r UpdateTodoRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Title != nil && *r.Title == "" {
		errors["title"] = "Title cannot be empty"
	}
	if r.Status != nil && !validTodoStatus(*r.Status) {
		errors["status"] = "Status must be pending, processing or completed"
	}

	return errors
}

type MoveTodoRequest struct {
	WorkfolderID string `json:"workfolder_id"`
	Order        int    `json:"order"`
}

func (r MoveTodoRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.WorkfolderID == "" {
		errors["workfolder_id"] = "Workfolder is required"
	}
	if r.Order < 1 {
		errors["order"] = "Order must be at least 1"
	}

	return errors
}

func validTodoStatus(s string) bool {
	return s == "pending" || s == "processing" || s == "completed"
}
