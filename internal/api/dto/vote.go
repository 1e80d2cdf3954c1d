package dto

import "time"

type CreateVoteRequest struct {
	Title   string     `json:"title"`
	Options []string   `json:"options"`
	DueDate *time.Time `json:"due_date"`
}

func (r CreateVoteRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Title == "" {
		errors["title"] = "Title is required"
	}
	if len(r.Options) < 2 {
		errors["options"] = "At least two options are required"
	}
	for _, opt := range r.Options {
		if opt == "" {
			errors["options"] = "Options cannot be empty"
			break
		}
	}

	return errors
}

type UpdateVoteRequest struct {
	Title   *string    `json:"title"`
	Options *[]string  `json:"options"`
	DueDate *time.Time `json:"due_date"`
}

func (r UpdateVoteRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Title != nil && *r.Title == "" {
		errors["title"] = "Title cannot be empty"
	}
	if r.Options != nil && len(*r.Options) < 2 {
		errors["options"] = "At least two options are required"
	}

	return errors
}

type SubmitResultRequest struct {
	VoteID string `json:"vote_id"`
	Option string `json:"option"`
}

func (r SubmitResultRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.VoteID == "" {
		errors["vote_id"] = "Vote is required"
	}
	if r.Option == "" {
		errors["option"] = "Option is required"
	}

	return errors
}

type UpdateResultRequest struct {
	ResultID string `json:"result_id"`
	Option   string `json:"option"`
}

func (r UpdateResultRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.ResultID == "" {
		errors["result_id"] = "Result is required"
	}
	if r.Option == "" {
		errors["option"] = "Option is required"
	}

	return errors
}
