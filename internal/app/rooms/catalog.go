package rooms

import (
	"context"
	"log/slog"
	"time"

	"luxeory/internal/app/dto"
	domainrooms "luxeory/internal/domain/rooms"
)

const defaultSortField = "reviewCount"

var sortFields = map[string]struct{}{
	"reviewCount": {},
	"price":       {},
	"title":       {},
}

// SortField whitelists the client-supplied sort field, falling back to the
// review counter. The original interpolated the raw query value into the
// sort document; the whitelist closes that hole without changing defaults.
func SortField(raw string) string {
	if _, ok := sortFields[raw]; ok {
		return raw
	}
	return defaultSortField
}

// Catalog serves the read-only room listing. Room documents are created and
// mutated by catalog management; only availability and the review counter
// change through this system.
type Catalog struct {
	Rooms        domainrooms.Repository
	StoreTimeout time.Duration
	Logger       *slog.Logger
}

func (c *Catalog) List(ctx context.Context, sortBy string) ([]dto.Room, error) {
	callCtx, cancel := c.storeCtx(ctx)
	defer cancel()
	rooms, err := c.Rooms.List(callCtx, SortField(sortBy))
	if err != nil {
		return nil, err
	}
	return dto.MapRooms(rooms), nil
}

func (c *Catalog) Get(ctx context.Context, id string) (dto.Room, error) {
	callCtx, cancel := c.storeCtx(ctx)
	defer cancel()
	room, err := c.Rooms.ByID(callCtx, domainrooms.RoomID(id))
	if err != nil {
		return dto.Room{}, err
	}
	return dto.MapRoom(room), nil
}

func (c *Catalog) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.StoreTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.StoreTimeout)
}
