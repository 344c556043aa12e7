package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	bookingapp "luxeory/internal/app/booking"
	domainbookings "luxeory/internal/domain/bookings"
	"luxeory/internal/domain/consistency"
	domainreviews "luxeory/internal/domain/reviews"
	domainrooms "luxeory/internal/domain/rooms"
	"luxeory/internal/domain/shared/store"
)

// Error kinds carried on every error response body.
const (
	kindNotFound     = "NotFound"
	kindUnauthorized = "Unauthorized"
	kindValidation   = "ValidationError"
	kindConflict     = "Conflict"
	kindPartialWrite = "PartialWriteFailure"
	kindTimeout      = "Timeout"
	kindStoreDown    = "StoreUnavailable"
	kindInternal     = "Internal"
)

func respondError(c *gin.Context, logger *slog.Logger, err error) {
	var pw *consistency.PartialWriteError
	if errors.As(err, &pw) {
		// Partial writes get a dedicated shape so operators can reconcile:
		// which write committed, which failed, and the affected identifiers.
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     pw.Error(),
			"kind":      kindPartialWrite,
			"op":        pw.Op,
			"committed": pw.Committed,
			"failed":    pw.Failed,
			"roomId":    pw.RoomID,
			"recordId":  pw.RecordID,
		})
		return
	}

	var status int
	var kind string
	switch {
	case errors.Is(err, domainrooms.ErrNotFound),
		errors.Is(err, domainbookings.ErrNotFound):
		status, kind = http.StatusNotFound, kindNotFound
	case errors.Is(err, domainrooms.ErrInvalidID),
		errors.Is(err, domainbookings.ErrInvalidID),
		errors.Is(err, domainbookings.ErrInvalidDate),
		errors.Is(err, domainbookings.ErrEmailRequired),
		errors.Is(err, domainreviews.ErrInvalidRating),
		errors.Is(err, domainreviews.ErrEmailRequired):
		status, kind = http.StatusBadRequest, kindValidation
	case errors.Is(err, domainrooms.ErrRoomUnavailable):
		status, kind = http.StatusConflict, kindConflict
	case errors.Is(err, bookingapp.ErrNotOwner):
		status, kind = http.StatusUnauthorized, kindUnauthorized
	case errors.Is(err, store.ErrTimeout):
		status, kind = http.StatusGatewayTimeout, kindTimeout
	case errors.Is(err, store.ErrUnavailable):
		status, kind = http.StatusServiceUnavailable, kindStoreDown
	default:
		status, kind = http.StatusInternalServerError, kindInternal
	}
	if logger != nil && status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "kind", kind, "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
}
