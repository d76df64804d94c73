package request

type CreateBookingRequest struct {
	ShowDate      string `json:"show_date" validate:"required,datetime=2006-01-02"`
	ShowTime      string `json:"show_time" validate:"required,datetime=15:04"`
	Seats         int    `json:"seats" validate:"required,min=1"`
	PaymentMethod string `json:"payment_method" validate:"required,max=50"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}
