package entity

import "time"

type SiteSetting struct {
	SiteName              string    `db:"site_name" json:"site_name"`
	EnableReviews         bool      `db:"enable_reviews" json:"enable_reviews"`
	RequireReviewApproval bool      `db:"require_review_approval" json:"require_review_approval"`
	MoviesPerPage         int       `db:"movies_per_page" json:"movies_per_page"`
	MaintenanceMode       bool      `db:"maintenance_mode" json:"maintenance_mode"`
	UpdatedAt             time.Time `db:"updated_at" json:"updated_at"`
}

// DefaultSiteSetting is the row created on first read.
func DefaultSiteSetting() SiteSetting {
	return SiteSetting{
		SiteName:              "Movie Theater",
		EnableReviews:         true,
		RequireReviewApproval: false,
		MoviesPerPage:         12,
		MaintenanceMode:       false,
	}
}
