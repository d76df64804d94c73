package request

type UpdateProfileRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=72"`
}

// AccountRequest is used by admins to create any kind of account
type AccountRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"required,oneof=admin user"`
	IsActive *bool  `json:"is_active,omitempty"`
}

type AccountUpdateRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=150"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=admin user"`
	IsActive *bool   `json:"is_active,omitempty"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6,max=72"`
}
