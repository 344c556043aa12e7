package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	roomsapp "luxeory/internal/app/rooms"
)

type RoomHandler struct {
	Catalog *roomsapp.Catalog
	Logger  *slog.Logger
}

func (h RoomHandler) List(c *gin.Context) {
	rooms, err := h.Catalog.List(c.Request.Context(), c.Query("sortBy"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (h RoomHandler) Get(c *gin.Context) {
	room, err := h.Catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

var _ RoomHTTP = RoomHandler{}
