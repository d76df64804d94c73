package entity

// Totals are the headline counters of the admin dashboard and settings page.
type Totals struct {
	Movies          int64 `db:"movies"`
	Users           int64 `db:"users"`
	Admins          int64 `db:"admins"`
	Genres          int64 `db:"genres"`
	Bookings        int64 `db:"bookings"`
	PendingBookings int64 `db:"pending_bookings"`
	Reviews         int64 `db:"reviews"`
}
