package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cppla/fitvault/store"
	"github.com/cppla/fitvault/tracker"
	"github.com/cppla/fitvault/utils"
)

// respondWriteError maps a failed state write onto the envelope. code is
// the endpoint's 500-range fallback code.
func respondWriteError(ctx *gin.Context, err error, code int) {
	switch {
	case errors.Is(err, store.ErrCapacityExceeded):
		utils.Error(ctx, http.StatusInsufficientStorage, 50701, "storage capacity exceeded")
	case isValidation(err):
		utils.Error(ctx, http.StatusBadRequest, 40001, err.Error())
	default:
		utils.Sugar.Errorf("state write failed path=%s err=%v", ctx.FullPath(), err)
		utils.Error(ctx, http.StatusInternalServerError, code, "failed to save")
	}
}

func isValidation(err error) bool {
	for _, target := range []error{
		tracker.ErrInvalidDate,
		tracker.ErrUnknownField,
		tracker.ErrNoMergeStrategy,
		tracker.ErrChallengeStarted,
		tracker.ErrUnknownChallenge,
		tracker.ErrMealPresent,
		tracker.ErrDuplicateBooking,
		tracker.ErrInvalidAvatar,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// intParam parses a path parameter, answering 400 when it is not an integer.
func intParam(ctx *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid "+name)
		return 0, false
	}
	return v, true
}
