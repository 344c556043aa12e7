package rooms

import (
	"context"
	"errors"
	"testing"

	domainrooms "luxeory/internal/domain/rooms"
	"luxeory/internal/infra/storage/memory"
)

func TestSortFieldWhitelist(t *testing.T) {
	cases := map[string]string{
		"":             "reviewCount",
		"reviewCount":  "reviewCount",
		"price":        "price",
		"title":        "title",
		"$where":       "reviewCount",
		"secretField;": "reviewCount",
	}
	for raw, want := range cases {
		if got := SortField(raw); got != want {
			t.Errorf("SortField(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestListSortedByReviewCount(t *testing.T) {
	repo := memory.NewRoomRepository()
	repo.Seed(&domainrooms.Room{Title: "Quiet", ReviewCount: 2, Available: true})
	repo.Seed(&domainrooms.Room{Title: "Popular", ReviewCount: 40, Available: true})
	repo.Seed(&domainrooms.Room{Title: "New", ReviewCount: 0, Available: true})
	catalog := &Catalog{Rooms: repo}

	rooms, err := catalog.List(context.Background(), "unknown-field")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rooms) != 3 {
		t.Fatalf("List: got %d rooms", len(rooms))
	}
	for i := 1; i < len(rooms); i++ {
		if rooms[i].ReviewCount > rooms[i-1].ReviewCount {
			t.Fatalf("List not sorted descending by reviewCount: %v", rooms)
		}
	}
}

func TestGetMissingRoom(t *testing.T) {
	catalog := &Catalog{Rooms: memory.NewRoomRepository()}
	if _, err := catalog.Get(context.Background(), "ghost"); !errors.Is(err, domainrooms.ErrNotFound) {
		t.Fatalf("Get missing room: got %v", err)
	}
}
