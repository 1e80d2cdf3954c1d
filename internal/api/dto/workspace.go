package dto

type CreateWorkspaceRequest struct {
	Title   string `json:"title"`
	Account string `json:"account"`
}

func (r CreateWorkspaceRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Title == "" {
		errors["title"] = "Title is required"
	}
	if r.Account == "" {
		errors["account"] = "Account is required"
	}

	return errors
}

type UpdateWorkspaceRequest struct {
	Title    *string `json:"title"`
	SlackURL *string `json:"slack_url"`
}

func (r UpdateWorkspaceRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Title == nil && r.SlackURL == nil {
		errors["title"] = "Nothing to update"
	}
	if r.Title != nil && *r.Title == "" {
		errors["title"] = "Title cannot be empty"
	}

	return errors
}

type UpdateMemberRequest struct {
	IsAdmin   *bool `json:"is_admin"`
	IsPending *bool `json:"is_pending"`
}

func (r UpdateMemberRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.IsAdmin == nil && r.IsPending == nil {
		errors["is_admin"] = "Nothing to update"
	}

	return errors
}
