package response

import "movie-theater/internal/data/entity"

type SettingsOverviewResponse struct {
	Settings entity.SiteSetting `json:"settings"`
	Totals   TotalsResponse     `json:"totals"`
}

type TotalsResponse struct {
	Movies   int64 `json:"movies"`
	Users    int64 `json:"users"`
	Admins   int64 `json:"admins"`
	Genres   int64 `json:"genres"`
	Bookings int64 `json:"bookings"`
	Reviews  int64 `json:"reviews"`
}

func TotalsToResponse(t *entity.Totals) TotalsResponse {
	return TotalsResponse{
		Movies:   t.Movies,
		Users:    t.Users,
		Admins:   t.Admins,
		Genres:   t.Genres,
		Bookings: t.Bookings,
		Reviews:  t.Reviews,
	}
}
