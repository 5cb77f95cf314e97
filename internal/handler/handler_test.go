package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/trainbooking/internal/aggregator"
	"github.com/dharmasatrya/trainbooking/internal/backend"
	"github.com/dharmasatrya/trainbooking/internal/cache"
	"github.com/dharmasatrya/trainbooking/internal/handoff"
	"github.com/dharmasatrya/trainbooking/internal/models"
	"github.com/dharmasatrya/trainbooking/internal/session"
	"github.com/dharmasatrya/trainbooking/internal/timezone"
)

var testNow = time.Date(2025, 5, 10, 6, 0, 0, 0, timezone.EET)

// fakeAPI imitates the booking API. Authenticated endpoints need the "auth"
// cookie handed out by login.
type fakeAPI struct {
	mu           sync.Mutex
	purchases    []models.PurchaseRequest
	returned     []string
	scheduleHits int
	// revoked logins get 401 from purchase as if the API had ended them.
	revoked map[string]bool
	// rotate makes the ticket list hand out a fresh auth cookie.
	rotate bool
}

func (f *fakeAPI) authorized(r *http.Request) bool {
	c, err := r.Cookie("auth")
	return err == nil && c.Value != ""
}

func (f *fakeAPI) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/Schedule/GetSchedule", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.scheduleHits++
		f.mu.Unlock()
		if r.URL.Query().Get("cityTo") == "Нікуди" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_ = json.NewEncoder(w).Encode([]models.Schedule{
			trip(56, "05:00:00", "10:00:00"),
			trip(55, "08:00:00", "13:00:00"),
		})
	})
	mux.HandleFunc("/api/Schedule/GetScheduleTransit", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("isArrival") == "true" {
			_, _ = w.Write([]byte(`[{"trainNumber":"92","time":"05:30:00","stationName":"Київ"},{"trainNumber":"94","time":"09:15:00","stationName":"Київ"}]`))
			return
		}
		_, _ = w.Write([]byte(`[{"trainNumber":"91","time":"07:10:00","stationName":"Київ"}]`))
	})
	mux.HandleFunc("/api/Train/55/AvalibleSeats", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(layout())
	})
	mux.HandleFunc("/api/Train/56/AvalibleSeats", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/api/Route/743K/stations", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"stationOrder":1,"stationName":"Київ","departureTime":"08:00:00"},{"stationOrder":2,"stationName":"Житомир","arrivalTime":"09:40:00","departureTime":"09:52:00"}]`))
	})

	mux.HandleFunc("/api/User/login", func(w http.ResponseWriter, r *http.Request) {
		var creds models.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Невірний email або пароль"}`))
			return
		}
		role := "User"
		if strings.HasPrefix(creds.Email, "admin") {
			role = session.RoleAdmin
		}
		http.SetCookie(w, &http.Cookie{Name: "auth", Value: creds.Email, Path: "/"})
		_ = json.NewEncoder(w).Encode(models.UserInfo{FullName: "Ірина Коваль", Role: role})
	})
	mux.HandleFunc("/api/User/logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "auth", Value: "", Path: "/", MaxAge: -1})
	})

	mux.HandleFunc("/api/Ticket/purchase", func(w http.ResponseWriter, r *http.Request) {
		auth, _ := r.Cookie("auth")
		f.mu.Lock()
		revoked := auth != nil && f.revoked[auth.Value]
		f.mu.Unlock()
		if !f.authorized(r) || revoked {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var p models.PurchaseRequest
		_ = json.NewDecoder(r.Body).Decode(&p)
		f.mu.Lock()
		f.purchases = append(f.purchases, p)
		f.mu.Unlock()
	})
	mux.HandleFunc("/api/Ticket/user/tickets", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		f.mu.Lock()
		rotate := f.rotate
		f.mu.Unlock()
		if rotate {
			auth, _ := r.Cookie("auth")
			http.SetCookie(w, &http.Cookie{Name: "auth", Value: auth.Value + "-rotated", Path: "/"})
		}
		_ = json.NewEncoder(w).Encode([]models.TicketResult{
			{TicketID: 1, TrainNumber: "743K", DepartureTime: "2025-05-11T08:00:00", TicketPrice: 300},
			{TicketID: 2, TrainNumber: "743K", DepartureTime: "2025-05-01T08:00:00", TicketPrice: 300},
		})
	})
	mux.HandleFunc("/api/Ticket/tickets/1/return", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.returned = append(f.returned, r.Method)
		f.mu.Unlock()
	})
	mux.HandleFunc("/api/Ticket/user/ticket/1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="ticket_743K_1.pdf"`)
		_, _ = w.Write([]byte("%PDF-1.4"))
	})

	mux.HandleFunc("/api/SchedulePattern/train/000", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/api/SchedulePattern/schedule-patterns/all", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"trainId":1,"trainNumber":"743K","frequencyType":"Щоденно"},{"trainId":2,"trainNumber":"91","frequencyType":"Конкретні дні тижня","daysOfWeek":"1,3,5"}]`))
	})

	return mux
}

func trip(id int, departs, arrives string) models.Schedule {
	return models.Schedule{
		ScheduleID:                id,
		TrainID:                   9,
		TrainNumber:               "743K",
		FromStationName:           "Київ-Пасажирський",
		ToStationName:             "Львів",
		RealDepartureDateFromCity: "2025-05-10",
		ArrivalTimeFromCity:       departs,
		RealDepartureDateToCity:   "2025-05-10",
		ArrivalTimeToCity:         arrives,
	}
}

func layout() models.TrainStructure {
	seats := make([]models.Seat, 0, 6)
	for n := 1; n <= 6; n++ {
		seats = append(seats, models.Seat{SeatID: 100 + n, SeatNumber: n, SeatType: "нижнє"})
	}
	return models.TrainStructure{
		TrainNumber: "743K",
		Carriages:   []models.Carriage{{CarriageID: 11, CarriageType: "купе", Capacity: 8, Seats: seats}},
	}
}

type testEnv struct {
	t     *testing.T
	e     *echo.Echo
	api   *fakeAPI
	h     *Handler
	clock *sessionClock
}

// sessionClock drives session and cookie expiry; trip times use testNow.
type sessionClock struct{ t time.Time }

func (c *sessionClock) now() time.Time { return c.t }

func (c *sessionClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api.routes())
	t.Cleanup(srv.Close)

	factory, err := backend.NewFactory(backend.Config{BaseURL: srv.URL + "/api"})
	require.NoError(t, err)

	clock := &sessionClock{t: time.Now()}
	sessions := session.NewManager(session.NewMemoryStore(), session.DefaultTTL)
	sessions.UseClock(clock.now)
	cookies := session.NewCookieCodec("test-secret", session.DefaultTTL)
	cookies.UseClock(clock.now)

	h := New(Config{
		Backend:    factory,
		Sessions:   sessions,
		Cookies:    cookies,
		Handoffs:   handoff.NewMemoryStore(time.Minute),
		Cache:      cache.NewMemoryCache(time.Minute),
		Aggregator: aggregator.NewAggregator(aggregator.DefaultConfig(timezone.EET)),
		Location:   timezone.EET,
		Now:        func() time.Time { return testNow },
	})

	e := echo.New()
	h.Register(e.Group("/api/v1"))
	return &testEnv{t: t, e: e, api: api, h: h, clock: clock}
}

// browser keeps the session cookie between requests like a real one would.
type browser struct {
	env    *testEnv
	cookie *http.Cookie
}

func (env *testEnv) browser() *browser {
	return &browser{env: env}
}

func (b *browser) do(method, target string, body any) *httptest.ResponseRecorder {
	b.env.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(b.env.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}

	rec := httptest.NewRecorder()
	b.env.e.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			b.cookie = c
		}
	}
	return rec
}

func query(pairs ...string) string {
	v := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		v.Set(pairs[i], pairs[i+1])
	}
	return v.Encode()
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (b *browser) login(email string) {
	b.env.t.Helper()
	rec := b.do(http.MethodPost, "/api/v1/auth/login", models.LoginRequest{Email: email, Password: "secret1"})
	require.Equal(b.env.t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestSessionCookieIsIssuedOnce(t *testing.T) {
	b := newTestEnv(t).browser()

	rec := b.do(http.MethodGet, "/api/v1/auth/session", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, b.cookie)
	assert.True(t, b.cookie.HttpOnly)
	assert.False(t, decode[models.SessionResponse](t, rec).LoggedIn)

	rec = b.do(http.MethodGet, "/api/v1/auth/session", nil)
	assert.Empty(t, rec.Result().Cookies(), "known session keeps its cookie")
}

func TestSchedules(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser()

	rec := b.do(http.MethodGet, "/api/v1/schedules?"+query("from", "Київ", "to", "Львів", "date", "2025-05-10", "details", "true"), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[models.ScheduleResponse](t, rec)
	require.Len(t, resp.Schedules, 1, "the 05:00 train has already left")
	card := resp.Schedules[0]
	assert.Equal(t, 55, card.ScheduleID)
	assert.Equal(t, "5 год 0 хв", card.TravelTime)
	require.Len(t, card.Carriages, 1)
	assert.Equal(t, 300, *card.Carriages[0].Price)
	assert.Equal(t, 6, card.Carriages[0].FreeSeats)
	assert.Nil(t, resp.Notice)
	assert.False(t, resp.CacheHit)

	rec = b.do(http.MethodGet, "/api/v1/schedules?"+query("from", "Київ", "to", "Львів", "date", "2025-05-10"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[models.ScheduleResponse](t, rec).CacheHit)
	assert.Equal(t, 1, env.api.scheduleHits)
}

func TestSchedules_noneFound(t *testing.T) {
	b := newTestEnv(t).browser()

	rec := b.do(http.MethodGet, "/api/v1/schedules?"+query("from", "Київ", "to", "Нікуди", "date", "2025-05-10"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[models.ScheduleResponse](t, rec)
	assert.Empty(t, resp.Schedules)
	require.NotNil(t, resp.Notice)
	assert.Equal(t, models.NoticeNoScheduleFound, resp.Notice.Code)
}

func TestSchedules_validation(t *testing.T) {
	b := newTestEnv(t).browser()

	rec := b.do(http.MethodGet, "/api/v1/schedules?"+query("to", "Львів", "date", "2025-05-10"), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, codeValidation, decode[models.ErrorResponse](t, rec).Error)

	rec = b.do(http.MethodGet, "/api/v1/schedules?"+query("from", "Київ", "to", "Львів", "date", "10.05.2025"), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBoard(t *testing.T) {
	b := newTestEnv(t).browser()

	rec := b.do(http.MethodGet, "/api/v1/board?"+query("city", "Київ"), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[models.BoardResponse](t, rec)
	assert.Equal(t, "2025-05-10", resp.Date)
	require.Len(t, resp.Departures, 1)
	require.Len(t, resp.Arrivals, 1)
	assert.Equal(t, "94", resp.Arrivals[0].TrainNumber)
}

func TestRouteStations(t *testing.T) {
	b := newTestEnv(t).browser()

	rec := b.do(http.MethodGet, "/api/v1/routes/743K/stations", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	stops := decode[[]models.RouteStop](t, rec)
	require.Len(t, stops, 2)
	assert.Equal(t, 12, *stops[1].StopMinutes)
}

func TestSeatFlow_purchase(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser()

	rec := b.do(http.MethodPost, "/api/v1/seatmap", trip(55, "08:00:00", "13:00:00"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	opened := decode[SeatMapResponse](t, rec)
	assert.Empty(t, opened.Cart)
	require.Len(t, opened.SeatMap.Carriages, 1)
	assert.Len(t, opened.SeatMap.Carriages[0].Cells, 8)

	for _, id := range []string{"101", "102", "103", "104"} {
		rec = b.do(http.MethodPost, "/api/v1/cart/seats/"+id, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "added", decode[ToggleResponse](t, rec).Action)
	}

	rec = b.do(http.MethodPost, "/api/v1/cart/seats/105", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	limited := decode[ToggleResponse](t, rec)
	require.NotNil(t, limited.Notice)
	assert.Equal(t, models.NoticeSelectionLimit, limited.Notice.Code)
	assert.Len(t, limited.Cart, 4)
	assert.Equal(t, 1200, limited.Total)

	rec = b.do(http.MethodPost, "/api/v1/cart/seats/107", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "seat 7 is taken")

	rec = b.do(http.MethodPost, "/api/v1/cart/seats/104", nil)
	assert.Equal(t, "removed", decode[ToggleResponse](t, rec).Action)

	rec = b.do(http.MethodPost, "/api/v1/cart/checkout", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[CheckoutCreated](t, rec)
	assert.Equal(t, 900, created.Total)

	rec = b.do(http.MethodGet, "/api/v1/checkout/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[CheckoutView](t, rec)
	assert.Len(t, view.Seats, 3)
	assert.Equal(t, "2025-05-10T08:00:00", view.Trip.DepartureTime)

	rec = b.do(http.MethodPost, "/api/v1/checkout/"+created.ID+"/purchase", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, models.NoticeAuthRequired, decode[models.ErrorResponse](t, rec).Error)

	b.login("ira@example.com")

	rec = b.do(http.MethodGet, "/api/v1/seatmap", nil)
	assert.Len(t, decode[SeatMapResponse](t, rec).Cart, 3, "cart survives the login")

	rec = b.do(http.MethodPost, "/api/v1/checkout/"+created.ID+"/purchase", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	purchase := decode[PurchaseResponse](t, rec)
	assert.Equal(t, models.NoticePurchaseConfirmed, purchase.Notice.Code)
	assert.Equal(t, 3, purchase.Tickets)

	require.Len(t, env.api.purchases, 1)
	sent := env.api.purchases[0]
	assert.Equal(t, 55, sent.Trip.ScheduleID)
	assert.Equal(t, []models.Ticket{{SeatID: 101, Price: 300}, {SeatID: 102, Price: 300}, {SeatID: 103, Price: 300}}, sent.Tickets)

	rec = b.do(http.MethodGet, "/api/v1/seatmap", nil)
	assert.Empty(t, decode[SeatMapResponse](t, rec).Cart)

	rec = b.do(http.MethodGet, "/api/v1/checkout/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "a checkout is used once")
}

func TestStartCheckout_emptyCart(t *testing.T) {
	b := newTestEnv(t).browser()

	rec := b.do(http.MethodPost, "/api/v1/cart/checkout", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "no seat map opened yet")

	rec = b.do(http.MethodPost, "/api/v1/seatmap", trip(55, "08:00:00", "13:00:00"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = b.do(http.MethodPost, "/api/v1/cart/checkout", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), models.NoticeNoSeatsSelected)
}

func TestOpenSeatMap_layoutFailure(t *testing.T) {
	b := newTestEnv(t).browser()

	rec := b.do(http.MethodPost, "/api/v1/seatmap", trip(56, "08:00:00", "13:00:00"))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, codeLayoutUnavail, decode[models.ErrorResponse](t, rec).Error)
}

func TestCheckout_boundToSession(t *testing.T) {
	env := newTestEnv(t)
	alice, mallory := env.browser(), env.browser()

	alice.do(http.MethodPost, "/api/v1/seatmap", trip(55, "08:00:00", "13:00:00"))
	alice.do(http.MethodPost, "/api/v1/cart/seats/101", nil)
	rec := alice.do(http.MethodPost, "/api/v1/cart/checkout", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[CheckoutCreated](t, rec).ID

	rec = mallory.do(http.MethodGet, "/api/v1/checkout/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTickets(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser()

	rec := b.do(http.MethodGet, "/api/v1/tickets", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	b.login("ira@example.com")

	rec = b.do(http.MethodGet, "/api/v1/tickets", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	tickets := decode[models.TicketsResponse](t, rec)
	require.Len(t, tickets.Tickets, 2)
	assert.True(t, tickets.Tickets[0].Returnable)
	assert.False(t, tickets.Tickets[1].Returnable)

	rec = b.do(http.MethodPost, "/api/v1/tickets/1/return", models.ReturnRequest{})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, codeConfirmRequired, decode[models.ErrorResponse](t, rec).Error)

	rec = b.do(http.MethodPost, "/api/v1/tickets/2/return", models.ReturnRequest{Confirm: true})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, codeNotReturnable, decode[models.ErrorResponse](t, rec).Error)

	rec = b.do(http.MethodPost, "/api/v1/tickets/1/return", models.ReturnRequest{Confirm: true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{http.MethodPatch}, env.api.returned)

	rec = b.do(http.MethodGet, "/api/v1/tickets/1/document", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "ticket_743K_1.pdf")

	rec = b.do(http.MethodGet, "/api/v1/tickets/itinerary.pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestLoginFailureAndLogout(t *testing.T) {
	b := newTestEnv(t).browser()

	rec := b.do(http.MethodPost, "/api/v1/auth/login", models.LoginRequest{Email: "ira@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Невірний email або пароль", decode[models.ErrorResponse](t, rec).Message)

	rec = b.do(http.MethodPost, "/api/v1/auth/login", models.LoginRequest{Email: "", Password: "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	b.login("ira@example.com")
	before, err := b.env.h.cookies.Decode(b.cookie.Value)
	require.NoError(t, err)

	rec = b.do(http.MethodGet, "/api/v1/auth/session", nil)
	state := decode[models.SessionResponse](t, rec)
	assert.True(t, state.LoggedIn)
	assert.Equal(t, "Ірина Коваль", state.FullName)
	assert.False(t, state.IsAdmin)

	rec = b.do(http.MethodPost, "/api/v1/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[models.SessionResponse](t, rec).LoggedIn)
	after, err := b.env.h.cookies.Decode(b.cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, before, after, "the session id survives a logout")

	rec = b.do(http.MethodGet, "/api/v1/tickets", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignUp_validation(t *testing.T) {
	b := newTestEnv(t).browser()

	rec := b.do(http.MethodPost, "/api/v1/auth/register", models.RegisterRequest{
		FullName:        "Ірина Коваль",
		Email:           "ira@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret2",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, models.ErrPasswordMismatch.Error(), decode[models.ErrorResponse](t, rec).Message)
}

func TestAdmin(t *testing.T) {
	env := newTestEnv(t)

	user := env.browser()
	rec := user.do(http.MethodGet, "/api/v1/admin/patterns", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	user.login("ira@example.com")
	rec = user.do(http.MethodGet, "/api/v1/admin/patterns", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := env.browser()
	admin.login("admin@example.com")

	rec = admin.do(http.MethodGet, "/api/v1/admin/patterns?q=91", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	patterns := decode[[]PatternView](t, rec)
	require.Len(t, patterns, 1)
	assert.Equal(t, "Пн, Ср, Пт", patterns[0].DaysOfWeekLabel)

	rec = admin.do(http.MethodGet, "/api/v1/admin/patterns/000", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode[models.ErrorResponse](t, rec).Message, `"000"`)

	rec = admin.do(http.MethodPut, "/api/v1/admin/patterns/743K", models.SchedulePattern{FrequencyType: models.FrequencyEveryOtherDay})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = admin.do(http.MethodGet, "/api/v1/admin/reports/revenue?start=2025-02-01&end=2025-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = admin.do(http.MethodGet, "/api/v1/admin/reports/export?type=weekly&start=2025-01-01&end=2025-01-31", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func (b *browser) sessionID() string {
	b.env.t.Helper()
	require.NotNil(b.env.t, b.cookie)
	id, err := b.env.h.cookies.Decode(b.cookie.Value)
	require.NoError(b.env.t, err)
	return id
}

func TestLoginExtendsSessionCookie(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser()

	b.do(http.MethodGet, "/api/v1/auth/session", nil)
	id := b.sessionID()

	env.clock.advance(11 * time.Hour)
	b.login("ira@example.com")
	assert.Equal(t, id, b.sessionID(), "login keeps the session id")
	assert.Equal(t, int(session.DefaultTTL.Seconds()), b.cookie.MaxAge)

	env.clock.advance(90 * time.Minute)
	rec := b.do(http.MethodGet, "/api/v1/auth/session", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[models.SessionResponse](t, rec).LoggedIn, "12h are counted from the login")
	assert.Equal(t, id, b.sessionID())

	env.clock.advance(10 * time.Hour)
	rec = b.do(http.MethodPost, "/api/v1/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	env.clock.advance(11 * time.Hour)
	b.do(http.MethodGet, "/api/v1/auth/session", nil)
	assert.Equal(t, id, b.sessionID(), "logout re-issues the cookie too")
}

func TestExpiredSessionReleasesState(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser()

	rec := b.do(http.MethodPost, "/api/v1/seatmap", trip(55, "08:00:00", "13:00:00"))
	require.Equal(t, http.StatusOK, rec.Code)
	id := b.sessionID()

	_, ok := env.h.selection(id)
	require.True(t, ok)
	_, ok = env.h.backend.Lookup(id)
	require.True(t, ok)

	env.clock.advance(session.DefaultTTL + time.Minute)
	assert.Equal(t, 1, env.h.sessions.Sweep(context.Background()))

	_, ok = env.h.selection(id)
	assert.False(t, ok)
	_, ok = env.h.backend.Lookup(id)
	assert.False(t, ok)
}

func TestPurchase_rejectedByAPIKeepsCart(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser()
	b.login("ira@example.com")

	b.do(http.MethodPost, "/api/v1/seatmap", trip(55, "08:00:00", "13:00:00"))
	b.do(http.MethodPost, "/api/v1/cart/seats/101", nil)
	rec := b.do(http.MethodPost, "/api/v1/cart/checkout", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[CheckoutCreated](t, rec).ID

	env.api.mu.Lock()
	env.api.revoked = map[string]bool{"ira@example.com": true}
	env.api.mu.Unlock()

	rec = b.do(http.MethodPost, "/api/v1/checkout/"+id+"/purchase", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code, rec.Body.String())
	assert.Equal(t, models.NoticeAuthRequired, decode[models.ErrorResponse](t, rec).Error)
	assert.Empty(t, env.api.purchases)

	rec = b.do(http.MethodGet, "/api/v1/seatmap", nil)
	assert.Len(t, decode[SeatMapResponse](t, rec).Cart, 1)

	rec = b.do(http.MethodGet, "/api/v1/checkout/"+id, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRotatedAPICookiesArePersisted(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser()
	b.login("ira@example.com")

	env.api.mu.Lock()
	env.api.rotate = true
	env.api.mu.Unlock()

	rec := b.do(http.MethodGet, "/api/v1/tickets", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	s, err := env.h.sessions.Get(context.Background(), b.sessionID())
	require.NoError(t, err)
	assert.Equal(t, []session.Cookie{{Name: "auth", Value: "ira@example.com-rotated"}}, s.Cookies)
}
