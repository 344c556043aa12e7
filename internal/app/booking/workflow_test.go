package booking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"luxeory/internal/app/events"
	domainbookings "luxeory/internal/domain/bookings"
	"luxeory/internal/domain/consistency"
	domainrooms "luxeory/internal/domain/rooms"
	"luxeory/internal/domain/shared/store"
	"luxeory/internal/infra/storage/memory"
)

type captureProducer struct {
	mu     sync.Mutex
	topics []string
}

func (p *captureProducer) Publish(ctx context.Context, topic, key string, payload []byte, headers map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return nil
}

func (p *captureProducer) has(topic string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, t := range p.topics {
		if t == topic {
			return true
		}
	}
	return false
}

type failingBookings struct {
	domainbookings.Repository
	insertErr error
	updateErr error
	deleteErr error
}

func (f *failingBookings) Insert(ctx context.Context, b *domainbookings.Booking) (domainbookings.BookingID, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	return f.Repository.Insert(ctx, b)
}

func (f *failingBookings) UpdateDate(ctx context.Context, id domainbookings.BookingID, date time.Time) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	return f.Repository.UpdateDate(ctx, id, date)
}

func (f *failingBookings) Delete(ctx context.Context, id domainbookings.BookingID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.Repository.Delete(ctx, id)
}

// stalledRooms blocks availability writes until the per-call deadline fires,
// then fails the way the store layer classifies an expired call.
type stalledRooms struct {
	domainrooms.Repository
}

func (r stalledRooms) SetAvailability(ctx context.Context, id domainrooms.RoomID, available bool) error {
	<-ctx.Done()
	return fmt.Errorf("set availability: %w", store.ErrTimeout)
}

type unavailableRooms struct {
	domainrooms.Repository
}

func (r unavailableRooms) ByID(ctx context.Context, id domainrooms.RoomID) (*domainrooms.Room, error) {
	return nil, fmt.Errorf("room lookup: %w", store.ErrUnavailable)
}

type fixture struct {
	workflow *Workflow
	rooms    *memory.RoomRepository
	bookings *memory.BookingRepository
	failing  *failingBookings
	producer *captureProducer
}

func newFixture() *fixture {
	roomRepo := memory.NewRoomRepository()
	bookingRepo := memory.NewBookingRepository()
	failing := &failingBookings{Repository: bookingRepo}
	producer := &captureProducer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{
		workflow: &Workflow{
			Rooms:    roomRepo,
			Bookings: failing,
			Events:   &events.Publisher{Producer: producer, Logger: logger},
			Logger:   logger,
		},
		rooms:    roomRepo,
		bookings: bookingRepo,
		failing:  failing,
		producer: producer,
	}
}

func (f *fixture) seedRoom(available bool) domainrooms.RoomID {
	return f.rooms.Seed(&domainrooms.Room{
		Title:     "Deluxe Suite",
		Price:     220,
		Thumbnail: "https://img.example/deluxe.jpg",
		Available: available,
	})
}

func mustRoom(t *testing.T, repo *memory.RoomRepository, id domainrooms.RoomID) *domainrooms.Room {
	t.Helper()
	room, err := repo.ByID(context.Background(), id)
	if err != nil {
		t.Fatalf("room %s: %v", id, err)
	}
	return room
}

func TestCreateBooksAvailableRoom(t *testing.T) {
	f := newFixture()
	roomID := f.seedRoom(true)

	created, err := f.workflow.Create(context.Background(), string(roomID), "a@x.com", "2024-05-01")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Create: empty booking id")
	}
	if created.RoomID != string(roomID) || created.Email != "a@x.com" || created.BookingDate != "2024-05-01" {
		t.Fatalf("Create: unexpected view %+v", created)
	}
	if mustRoom(t, f.rooms, roomID).Available {
		t.Fatal("Create: room still available after booking")
	}
	stored, err := f.bookings.ByID(context.Background(), domainbookings.BookingID(created.ID))
	if err != nil {
		t.Fatalf("stored booking: %v", err)
	}
	if stored.RoomID != roomID || stored.Email != "a@x.com" {
		t.Fatalf("stored booking mismatch: %+v", stored)
	}
	if !f.producer.has("booking.events.v1") {
		t.Fatal("Create: booking.created event not published")
	}
}

func TestCreateRejectsUnavailableRoom(t *testing.T) {
	f := newFixture()
	roomID := f.seedRoom(false)

	_, err := f.workflow.Create(context.Background(), string(roomID), "b@x.com", "2024-05-02")
	if !errors.Is(err, domainrooms.ErrRoomUnavailable) {
		t.Fatalf("Create on unavailable room: got %v, want ErrRoomUnavailable", err)
	}
	got, err := f.bookings.ListByEmail(context.Background(), "b@x.com")
	if err != nil || len(got) != 0 {
		t.Fatalf("no booking must exist after rejection, got %d (%v)", len(got), err)
	}
}

func TestCreateMissingRoom(t *testing.T) {
	f := newFixture()
	if _, err := f.workflow.Create(context.Background(), "ghost", "a@x.com", "2024-05-01"); !errors.Is(err, domainrooms.ErrNotFound) {
		t.Fatalf("Create on missing room: got %v, want ErrNotFound", err)
	}
}

func TestCreateValidatesBeforeAnyWrite(t *testing.T) {
	f := newFixture()
	roomID := f.seedRoom(true)

	if _, err := f.workflow.Create(context.Background(), string(roomID), "a@x.com", "bad-date"); !errors.Is(err, domainbookings.ErrInvalidDate) {
		t.Fatalf("Create with bad date: got %v", err)
	}
	if _, err := f.workflow.Create(context.Background(), string(roomID), "", "2024-05-01"); !errors.Is(err, domainbookings.ErrEmailRequired) {
		t.Fatalf("Create without email: got %v", err)
	}
	if !mustRoom(t, f.rooms, roomID).Available {
		t.Fatal("validation failure must not touch the room document")
	}
}

func TestCreatePartialWriteSurfaced(t *testing.T) {
	f := newFixture()
	roomID := f.seedRoom(true)
	f.failing.insertErr = errors.New("insert refused")

	_, err := f.workflow.Create(context.Background(), string(roomID), "a@x.com", "2024-05-01")
	var pw *consistency.PartialWriteError
	if !errors.As(err, &pw) {
		t.Fatalf("Create with failing insert: got %v, want PartialWriteError", err)
	}
	if pw.Op != "booking.create" || pw.RoomID != string(roomID) {
		t.Fatalf("PartialWriteError detail mismatch: %+v", pw)
	}
	if pw.Committed == "" || pw.Failed == "" {
		t.Fatalf("PartialWriteError must name both writes: %+v", pw)
	}
	// The first write is not rolled back: the transient invariant violation
	// must stay observable for the reconciler.
	if mustRoom(t, f.rooms, roomID).Available {
		t.Fatal("room must remain unavailable after the partial write")
	}
	if !f.producer.has("consistency.events.v1") {
		t.Fatal("partial write must emit a consistency event")
	}
}

func TestCreateFirstWriteTimeoutLeavesNoPartialEffects(t *testing.T) {
	f := newFixture()
	roomID := f.seedRoom(true)
	f.workflow.Rooms = stalledRooms{Repository: f.rooms}
	f.workflow.StoreTimeout = 20 * time.Millisecond

	_, err := f.workflow.Create(context.Background(), string(roomID), "a@x.com", "2024-05-01")
	if !errors.Is(err, store.ErrTimeout) {
		t.Fatalf("Create with stalled availability write: got %v, want store.ErrTimeout", err)
	}
	var pw *consistency.PartialWriteError
	if errors.As(err, &pw) {
		t.Fatalf("first-write failure must not be a partial write: %v", err)
	}
	if !mustRoom(t, f.rooms, roomID).Available {
		t.Fatal("room must be untouched after a timed-out first write")
	}
	got, err := f.bookings.ListByEmail(context.Background(), "a@x.com")
	if err != nil || len(got) != 0 {
		t.Fatalf("no booking must exist after the timeout, got %d (%v)", len(got), err)
	}
}

func TestListByCustomerPropagatesStoreOutage(t *testing.T) {
	f := newFixture()
	roomID := f.seedRoom(true)
	if _, err := f.workflow.Create(context.Background(), string(roomID), "a@x.com", "2024-05-01"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	f.workflow.Rooms = unavailableRooms{Repository: f.rooms}

	_, err := f.workflow.ListByCustomer(context.Background(), "a@x.com")
	if !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("ListByCustomer during outage: got %v, want store.ErrUnavailable", err)
	}
}

func TestRescheduleChangesOnlyDate(t *testing.T) {
	f := newFixture()
	roomID := f.seedRoom(true)
	created, err := f.workflow.Create(context.Background(), string(roomID), "a@x.com", "2024-05-01")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := f.workflow.Reschedule(context.Background(), created.ID, string(roomID), "2024-06-15", "a@x.com")
	if err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	if updated.BookingDate != "2024-06-15" {
		t.Fatalf("Reschedule: date %q", updated.BookingDate)
	}
	stored, err := f.bookings.ByID(context.Background(), domainbookings.BookingID(created.ID))
	if err != nil {
		t.Fatalf("stored booking: %v", err)
	}
	if stored.Email != "a@x.com" || stored.RoomID != roomID {
		t.Fatalf("Reschedule must not change owner or room: %+v", stored)
	}
	if mustRoom(t, f.rooms, roomID).Available {
		t.Fatal("room must stay unavailable across a reschedule")
	}
}

func TestRescheduleReassertsDriftedFlag(t *testing.T) {
	f := newFixture()
	roomID := f.seedRoom(true)
	created, err := f.workflow.Create(context.Background(), string(roomID), "a@x.com", "2024-05-01")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Simulate drift: the flag flipped back while the booking still exists.
	if err := f.rooms.SetAvailability(context.Background(), roomID, true); err != nil {
		t.Fatalf("seed drift: %v", err)
	}

	if _, err := f.workflow.Reschedule(context.Background(), created.ID, string(roomID), "2024-06-01", "a@x.com"); err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	if mustRoom(t, f.rooms, roomID).Available {
		t.Fatal("reschedule must re-assert unavailable on a drifted room")
	}
}

func TestRescheduleOwnership(t *testing.T) {
	f := newFixture()
	roomID := f.seedRoom(true)
	created, err := f.workflow.Create(context.Background(), string(roomID), "a@x.com", "2024-05-01")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.workflow.Reschedule(context.Background(), created.ID, string(roomID), "2024-06-01", "other@x.com"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("Reschedule by non-owner: got %v, want ErrNotOwner", err)
	}
}

func TestCancelReleasesRoom(t *testing.T) {
	f := newFixture()
	roomID := f.seedRoom(true)
	created, err := f.workflow.Create(context.Background(), string(roomID), "a@x.com", "2024-05-01")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := f.workflow.Cancel(context.Background(), created.ID, string(roomID), "a@x.com"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if !mustRoom(t, f.rooms, roomID).Available {
		t.Fatal("Cancel must release the room")
	}
	if _, err := f.bookings.ByID(context.Background(), domainbookings.BookingID(created.ID)); !errors.Is(err, domainbookings.ErrNotFound) {
		t.Fatalf("booking must be gone after cancel, got %v", err)
	}
}

func TestCancelPartialWriteLeavesDetectableDrift(t *testing.T) {
	f := newFixture()
	roomID := f.seedRoom(true)
	created, err := f.workflow.Create(context.Background(), string(roomID), "a@x.com", "2024-05-01")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	f.failing.deleteErr = errors.New("delete refused")

	err = f.workflow.Cancel(context.Background(), created.ID, string(roomID), "a@x.com")
	var pw *consistency.PartialWriteError
	if !errors.As(err, &pw) {
		t.Fatalf("Cancel with failing delete: got %v, want PartialWriteError", err)
	}
	if pw.Op != "booking.cancel" || pw.RecordID != created.ID {
		t.Fatalf("PartialWriteError detail mismatch: %+v", pw)
	}
	// Falsely-available drift: room released while the booking survived.
	if !mustRoom(t, f.rooms, roomID).Available {
		t.Fatal("room must be available after the committed first write")
	}
	if _, err := f.bookings.ByID(context.Background(), domainbookings.BookingID(created.ID)); err != nil {
		t.Fatalf("booking must still exist after failed delete: %v", err)
	}
}

func TestListByCustomerEmpty(t *testing.T) {
	f := newFixture()
	items, err := f.workflow.ListByCustomer(context.Background(), "nobody@x.com")
	if err != nil {
		t.Fatalf("ListByCustomer: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("ListByCustomer for unknown email: got %v, want empty slice", items)
	}
}

func TestListByCustomerEnrichment(t *testing.T) {
	f := newFixture()
	roomID := f.seedRoom(true)
	created, err := f.workflow.Create(context.Background(), string(roomID), "a@x.com", "2024-05-01")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	// A booking whose room has vanished must still appear in the history.
	date, _ := domainbookings.ParseDate("2024-07-01")
	orphanID, err := f.bookings.Insert(context.Background(), &domainbookings.Booking{
		RoomID:      "ghost",
		Email:       "a@x.com",
		BookingDate: date,
	})
	if err != nil {
		t.Fatalf("insert orphan: %v", err)
	}

	items, err := f.workflow.ListByCustomer(context.Background(), "A@X.COM")
	if err != nil {
		t.Fatalf("ListByCustomer: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("ListByCustomer: got %d items, want 2", len(items))
	}
	for _, item := range items {
		switch item.ID {
		case created.ID:
			if item.Title != "Deluxe Suite" || item.Price == nil || *item.Price != 220 || item.Thumbnail == "" {
				t.Fatalf("enriched booking missing snapshot: %+v", item)
			}
		case string(orphanID):
			if item.Title != "" || item.Price != nil || item.Thumbnail != "" {
				t.Fatalf("orphan booking must carry no snapshot: %+v", item)
			}
		default:
			t.Fatalf("unexpected booking %q", item.ID)
		}
	}
}
