package tracker

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/fitvault/models"
)

func TestBookDefaults(t *testing.T) {
	tr, _ := newTestTracker(t)

	b, err := tr.Bookings.Book(bg, 4, "Sam Rivera", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, 4, b.TrainerID)
	assert.Equal(t, DefaultBookingTime, b.Time)
	assert.Equal(t, DefaultBookingNotes, b.Notes)
	assert.Equal(t, "2024-01-10T15:04:05Z", b.Date)

	id, err := uuid.Parse(b.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())

	assert.Equal(t, []models.Booking{b}, tr.Bookings.List(bg))
}

func TestBookingIDsAreUniqueAndOrdered(t *testing.T) {
	tr, _ := newTestTracker(t)
	for i := 0; i < 20; i++ {
		_, err := tr.Bookings.Book(bg, i+1, "T", "2024-02-01", "9:00 AM", "n")
		require.NoError(t, err)
	}
	ledger := tr.Bookings.List(bg)
	require.Len(t, ledger, 20)
	seen := map[string]bool{}
	for i, b := range ledger {
		assert.False(t, seen[b.ID])
		seen[b.ID] = true
		assert.Equal(t, i+1, b.TrainerID, "insertion order is kept")
		if i > 0 {
			assert.LessOrEqual(t, ledger[i-1].ID, b.ID, "v7 ids sort by creation time")
		}
	}
}

func TestAppendBookingRejectsDuplicateID(t *testing.T) {
	tr, _ := newTestTracker(t)
	b := models.Booking{ID: "fixed", TrainerID: 1, TrainerName: "A"}
	_, err := tr.Bookings.Append(bg, b)
	require.NoError(t, err)
	_, err = tr.Bookings.Append(bg, b)
	assert.ErrorIs(t, err, ErrDuplicateBooking)
	assert.Len(t, tr.Bookings.List(bg), 1)
}
