package ginserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	bookingapp "luxeory/internal/app/booking"
	roomsapp "luxeory/internal/app/rooms"
	"luxeory/internal/infra/config"
	"luxeory/internal/infra/obs"
	"luxeory/internal/infra/security"
	"luxeory/internal/infra/storage/memory"

	domainrooms "luxeory/internal/domain/rooms"
)

func newTestServer(t *testing.T) (http.Handler, *memory.RoomRepository, security.TokenIssuer) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := security.TokenIssuer{Secret: []byte("test-secret"), TTL: time.Hour}

	roomRepo := memory.NewRoomRepository()
	bookingRepo := memory.NewBookingRepository()

	workflow := &bookingapp.Workflow{Rooms: roomRepo, Bookings: bookingRepo, Logger: logger}
	catalog := &roomsapp.Catalog{Rooms: roomRepo, Logger: logger}

	cfg := config.Config{
		Env:         "test",
		HTTPAddr:    ":0",
		CORSOrigins: []string{"http://localhost:5173"},
	}
	srv := NewServer(cfg, obs.Middleware{}, obs.HealthHandlers{}, Handlers{
		Rooms:          RoomHandler{Catalog: catalog, Logger: logger},
		Bookings:       BookingHandler{Workflow: workflow, Logger: logger},
		Auth:           AuthHandler{Tokens: tokens, Logger: logger},
		AuthMiddleware: AuthMiddleware{Tokens: tokens, Logger: logger}.Handle,
	})
	return srv.Handler, roomRepo, tokens
}

func doRequest(handler http.Handler, method, target, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestRoomListingIsUngated(t *testing.T) {
	handler, roomRepo, _ := newTestServer(t)
	roomRepo.Seed(&domainrooms.Room{Title: "Sea View", Available: true})

	rec := doRequest(handler, http.MethodGet, "/rooms", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /rooms without token: got %d, want 200", rec.Code)
	}
	var rooms []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &rooms); err != nil || len(rooms) != 1 {
		t.Fatalf("GET /rooms body: %q (err %v)", rec.Body.String(), err)
	}
}

func TestBookingListRequiresToken(t *testing.T) {
	handler, _, _ := newTestServer(t)

	rec := doRequest(handler, http.MethodGet, "/bookings/a@x.com", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("GET /bookings/:email without token: got %d, want 401", rec.Code)
	}
	if body := decodeBody(t, rec); body["kind"] != kindUnauthorized {
		t.Fatalf("denial kind: got %v", body["kind"])
	}
}

func TestBookingListRejectsExpiredToken(t *testing.T) {
	handler, _, tokens := newTestServer(t)
	token, err := tokens.Issue("a@x.com", "", time.Now().UTC().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	rec := doRequest(handler, http.MethodGet, "/bookings/a@x.com", "", token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("GET /bookings/:email with expired token: got %d, want 401", rec.Code)
	}
}

func TestBookingListRejectsOtherCustomersToken(t *testing.T) {
	handler, _, tokens := newTestServer(t)
	token, err := tokens.Issue("b@x.com", "", time.Now().UTC())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	rec := doRequest(handler, http.MethodGet, "/bookings/a@x.com", "", token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("GET /bookings/:email with mismatched token: got %d, want 401", rec.Code)
	}
	if body := decodeBody(t, rec); body["kind"] != kindUnauthorized {
		t.Fatalf("denial kind: got %v", body["kind"])
	}
}

func TestBookingListWithMatchingToken(t *testing.T) {
	handler, _, tokens := newTestServer(t)
	token, err := tokens.Issue("A@X.com", "", time.Now().UTC())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	rec := doRequest(handler, http.MethodGet, "/bookings/a@x.com", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /bookings/:email with matching token: got %d body %q", rec.Code, rec.Body.String())
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Fatalf("empty list body: got %q", got)
	}
}

func TestCreateBookingFlow(t *testing.T) {
	handler, roomRepo, tokens := newTestServer(t)
	roomID := roomRepo.Seed(&domainrooms.Room{Title: "Sea View", Available: true})
	token, err := tokens.Issue("a@x.com", "", time.Now().UTC())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	body := `{"roomId":"` + string(roomID) + `","email":"a@x.com","bookingDate":"2024-05-01"}`
	rec := doRequest(handler, http.MethodPost, "/bookings", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /bookings: got %d body %q", rec.Code, rec.Body.String())
	}
	if created := decodeBody(t, rec); created["id"] == nil || created["roomId"] != string(roomID) {
		t.Fatalf("created booking body: %v", created)
	}

	room, err := roomRepo.ByID(context.Background(), roomID)
	if err != nil {
		t.Fatalf("room after booking: %v", err)
	}
	if room.Available {
		t.Fatal("room must be unavailable after booking")
	}

	rec = doRequest(handler, http.MethodPost, "/bookings", body, token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("double booking: got %d, want 409", rec.Code)
	}
	if body := decodeBody(t, rec); body["kind"] != kindConflict {
		t.Fatalf("double booking kind: got %v", body["kind"])
	}
}

func TestCreateBookingGatedOnBodyEmail(t *testing.T) {
	handler, roomRepo, tokens := newTestServer(t)
	roomID := roomRepo.Seed(&domainrooms.Room{Title: "Sea View", Available: true})
	token, err := tokens.Issue("b@x.com", "", time.Now().UTC())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	body := `{"roomId":"` + string(roomID) + `","email":"a@x.com","bookingDate":"2024-05-01"}`
	rec := doRequest(handler, http.MethodPost, "/bookings", body, token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("POST /bookings for another customer: got %d, want 401", rec.Code)
	}

	room, _ := roomRepo.ByID(context.Background(), roomID)
	if !room.Available {
		t.Fatal("denied request must not touch the room")
	}
}

func TestIssueTokenSetsCookie(t *testing.T) {
	handler, _, _ := newTestServer(t)

	rec := doRequest(handler, http.MethodPost, "/jwt", `{"email":"a@x.com","name":"Ada"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /jwt: got %d body %q", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	var found *http.Cookie
	for _, c := range cookies {
		if c.Name == "token" {
			found = c
		}
	}
	if found == nil || found.Value == "" {
		t.Fatalf("POST /jwt did not set token cookie: %v", cookies)
	}
	if !found.HttpOnly {
		t.Fatal("token cookie must be HttpOnly")
	}
	if found.Secure {
		t.Fatal("token cookie must not be Secure outside production")
	}
}
