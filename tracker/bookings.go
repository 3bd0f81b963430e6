package tracker

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/cppla/fitvault/models"
	"github.com/cppla/fitvault/state"
)

// Defaults for a booking made without a slot or notes.
const (
	DefaultBookingTime  = "10:00 AM"
	DefaultBookingNotes = "Initial consultation"
)

// AppendBooking adds b to the ledger. b.ID must be set and unused.
func AppendBooking(ledger []models.Booking, b models.Booking) ([]models.Booking, error) {
	if b.ID == "" {
		return ledger, fmt.Errorf("%w: empty id", ErrDuplicateBooking)
	}
	if slices.ContainsFunc(ledger, func(x models.Booking) bool { return x.ID == b.ID }) {
		return ledger, fmt.Errorf("%w: %s", ErrDuplicateBooking, b.ID)
	}
	next := make([]models.Booking, 0, len(ledger)+1)
	next = append(next, ledger...)
	return append(next, b), nil
}

// NewBookingID returns a time-ordered UUIDv7.
func NewBookingID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Bookings is the append-only trainer bookings ledger. It has no update or
// cancel.
type Bookings struct {
	ch    *state.Channel[[]models.Booking]
	newID func() (string, error)
	now   func() time.Time
}

// NewBookings uses time.Now when now is nil.
func NewBookings(hub *state.Hub, now func() time.Time) *Bookings {
	if now == nil {
		now = time.Now
	}
	return &Bookings{
		ch:    state.NewChannel(hub, models.KeyBookings, []models.Booking{}),
		newID: NewBookingID,
		now:   now,
	}
}

// Channel exposes the underlying channel for subscribers.
func (b *Bookings) Channel() *state.Channel[[]models.Booking] {
	return b.ch
}

// List returns the ledger in insertion order.
func (b *Bookings) List(ctx context.Context) []models.Booking {
	return b.ch.Read(ctx)
}

// Append stores booking, assigning an id when it has none.
func (b *Bookings) Append(ctx context.Context, booking models.Booking) (models.Booking, error) {
	if booking.ID == "" {
		id, err := b.newID()
		if err != nil {
			return booking, fmt.Errorf("generate booking id: %w", err)
		}
		booking.ID = id
	}
	_, err := b.ch.Mutate(ctx, func(ledger []models.Booking) ([]models.Booking, bool, error) {
		next, err := AppendBooking(ledger, booking)
		return next, err == nil, err
	})
	if err != nil {
		return models.Booking{}, err
	}
	return booking, nil
}

// Book records a session with a trainer, filling in the date, time slot and
// notes when they are empty.
func (b *Bookings) Book(ctx context.Context, trainerID int, trainerName, date, slot, notes string) (models.Booking, error) {
	if date == "" {
		date = b.now().UTC().Format(time.RFC3339)
	}
	if slot == "" {
		slot = DefaultBookingTime
	}
	if notes == "" {
		notes = DefaultBookingNotes
	}
	return b.Append(ctx, models.Booking{
		TrainerID:   trainerID,
		TrainerName: trainerName,
		Date:        date,
		Time:        slot,
		Notes:       notes,
	})
}
