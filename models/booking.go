package models

// Booking is one trainer session in the append-only bookings ledger.
type Booking struct {
	ID          string `json:"id"`
	TrainerID   int    `json:"trainerId"`
	TrainerName string `json:"trainerName"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Notes       string `json:"notes"`
}
