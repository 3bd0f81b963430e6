package tracker

import "errors"

var (
	ErrInvalidDate      = errors.New("tracker: date must be YYYY-MM-DD")
	ErrUnknownField     = errors.New("tracker: unknown stats field")
	ErrNoMergeStrategy  = errors.New("tracker: no merge strategy for field")
	ErrChallengeStarted = errors.New("tracker: challenge already started")
	ErrUnknownChallenge = errors.New("tracker: unknown challenge")
	ErrMealPresent      = errors.New("tracker: meal already in plan")
	ErrDuplicateBooking = errors.New("tracker: booking id already in ledger")
	ErrInvalidAvatar    = errors.New("tracker: avatar must be an image data URL")
)
