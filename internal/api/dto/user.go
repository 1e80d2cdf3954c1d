package dto

type UpdateProfileRequest struct {
	FirstName    *string `json:"firstname"`
	LastName     *string `json:"lastname"`
	PlatformMode *string `json:"platform_mode"`
}

func (r UpdateProfileRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.FirstName != nil && *r.FirstName == "" {
		errors["firstname"] = "First name cannot be empty"
	}
	if r.LastName != nil && *r.LastName == "" {
		errors["lastname"] = "Last name cannot be empty"
	}
	if r.PlatformMode != nil && *r.PlatformMode != "light" && *r.PlatformMode != "dark" {
		errors["platform_mode"] = "Platform mode must be light or dark"
	}

	return errors
}

type ChangePasswordRequest struct {
	OriginalPassword string `json:"original_password"`
	NewPassword      string `json:"new_password"`
}

func (r ChangePasswordRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.OriginalPassword == "" {
		errors["original_password"] = "Original password is required"
	}
	if r.NewPassword == "" {
		errors["new_password"] = "New password is required"
	} else if len(r.NewPassword) < 8 {
		errors["new_password"] = "New password must be at least 8 characters"
	}

	return errors
}
