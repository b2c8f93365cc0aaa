package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusWaiting   ReservationStatus = "waiting"
	ReservationStatusReady     ReservationStatus = "ready"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusExpired   ReservationStatus = "expired"
)

type Reservation struct {
	ID     int64 `json:"id"`
	BookID int64 `json:"bookId"`
	UserID int64 `json:"userId"`
	// PickupDate is the last day a ready reservation can be collected.
	PickupDate string `json:"pickupDate"`
	// QueuePosition is assigned once when the reservation is created and never renumbered.
	QueuePosition int               `json:"queuePosition"`
	Status        ReservationStatus `json:"status"`
	CreatedOn     time.Time         `json:"createdOn"`
	UpdatedOn     time.Time         `json:"updatedOn"`
}

// IsActive reports whether the reservation still holds a place in the queue.
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationStatusWaiting || r.Status == ReservationStatusReady
}

// QueuedBefore orders reservations strictly FIFO: creation time, then id.
func (r *Reservation) QueuedBefore(other *Reservation) bool {
	if !r.CreatedOn.Equal(other.CreatedOn) {
		return r.CreatedOn.Before(other.CreatedOn)
	}
	return r.ID < other.ID
}
