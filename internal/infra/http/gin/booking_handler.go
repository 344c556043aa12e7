package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	bookingapp "luxeory/internal/app/booking"
)

type BookingHandler struct {
	Workflow *bookingapp.Workflow
	Logger   *slog.Logger
}

type createBookingRequest struct {
	RoomID      string `json:"roomId" binding:"required"`
	Email       string `json:"email" binding:"required"`
	BookingDate string `json:"bookingDate" binding:"required"`
}

func (h BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": kindValidation})
		return
	}
	if _, ok := requireCustomer(c, req.Email); !ok {
		return
	}
	booking, err := h.Workflow.Create(c.Request.Context(), req.RoomID, req.Email, req.BookingDate)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

func (h BookingHandler) ListByEmail(c *gin.Context) {
	email := c.Param("email")
	if _, ok := requireCustomer(c, email); !ok {
		return
	}
	bookings, err := h.Workflow.ListByCustomer(c.Request.Context(), email)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

type rescheduleBookingRequest struct {
	RoomID  string `json:"roomId" binding:"required"`
	NewDate string `json:"newDate" binding:"required"`
}

func (h BookingHandler) Reschedule(c *gin.Context) {
	p, ok := requireCustomer(c, "")
	if !ok {
		return
	}
	var req rescheduleBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": kindValidation})
		return
	}
	booking, err := h.Workflow.Reschedule(c.Request.Context(), c.Param("id"), req.RoomID, req.NewDate, p.Email)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (h BookingHandler) Cancel(c *gin.Context) {
	p, ok := requireCustomer(c, "")
	if !ok {
		return
	}
	roomID := c.Query("roomId")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roomId query parameter is required", "kind": kindValidation})
		return
	}
	if err := h.Workflow.Cancel(c.Request.Context(), c.Param("id"), roomID, p.Email); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

var _ BookingHTTP = BookingHandler{}
