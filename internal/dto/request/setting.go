package request

// UpdateSettingsRequest only changes the fields that are present
type UpdateSettingsRequest struct {
	SiteName              *string `json:"site_name,omitempty" validate:"omitempty,min=1,max=100"`
	EnableReviews         *bool   `json:"enable_reviews,omitempty"`
	RequireReviewApproval *bool   `json:"require_review_approval,omitempty"`
	MoviesPerPage         *int    `json:"movies_per_page,omitempty" validate:"omitempty,min=1,max=100"`
	MaintenanceMode       *bool   `json:"maintenance_mode,omitempty"`
}
