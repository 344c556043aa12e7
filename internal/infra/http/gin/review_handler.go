package ginserver

import (
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	reviewsapp "luxeory/internal/app/reviews"
)

type ReviewHandler struct {
	Reviews *reviewsapp.Service
	Logger  *slog.Logger
}

type submitReviewRequest struct {
	RoomID    string    `json:"roomId" binding:"required"`
	Email     string    `json:"email" binding:"required"`
	Timestamp time.Time `json:"timestamp"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
}

func (h ReviewHandler) Submit(c *gin.Context) {
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": kindValidation})
		return
	}
	if _, ok := requireCustomer(c, req.Email); !ok {
		return
	}
	review, err := h.Reviews.Submit(c.Request.Context(), reviewsapp.SubmitInput{
		RoomID:    req.RoomID,
		Email:     req.Email,
		Timestamp: req.Timestamp,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h ReviewHandler) List(c *gin.Context) {
	reviews, err := h.Reviews.List(c.Request.Context(), c.Query("roomId"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

var _ ReviewHTTP = ReviewHandler{}
