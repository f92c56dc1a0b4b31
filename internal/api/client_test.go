package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/eathmover/internal/constants"
	"github.com/julianstephens/eathmover/internal/errors"
	"github.com/julianstephens/eathmover/internal/models"
)

type fakeBackend struct {
	router   *mux.Router
	server   *httptest.Server
	requests atomic.Int32
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{router: mux.NewRouter()}
	api := fb.router.PathPrefix("/Earth_mover/api").Subrouter()

	api.HandleFunc("/auth/user_login.php", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		switch {
		case req.Phone == "9000000000" && req.Password == "secret1":
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"message": "Login successful",
				"data":    map[string]any{"user_id": 42, "name": "Asha", "phone": req.Phone},
			})
		case req.Phone == "missing":
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false})
		default:
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "bad creds"})
		}
	}).Methods(http.MethodPost)

	api.HandleFunc("/user/get_machines.php", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": []map[string]any{
				{"machine_id": 1, "category_id": 1, "model_name": "JCB 3DX", "price_per_hour": 1200},
				{"machine_id": 2, "category_id": 2, "model_name": "CAT 320", "price_per_hour": 2500},
			},
		})
	}).Methods(http.MethodGet)

	api.HandleFunc("/operator/search_operators.php", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("location") == "nowhere" {
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data_list": []any{}})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data_list": []map[string]any{{
				"operator_id": "5", "name": "Ravi", "phone": "9111111111",
				"machine_type": q.Get("machine_type"), "date": q.Get("date"), "time": q.Get("time"),
			}},
		})
	}).Methods(http.MethodGet)

	api.HandleFunc("/user/get_user_bookings.php", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("user_id") == "8" {
			// fetch_assoc rows are echoed without casts, so numbers arrive quoted.
			w.Header().Set("Content-Type", "application/json; charset=UTF-8")
			_, _ = w.Write([]byte(`{"success":true,"data":[` +
				`{"booking_id":"12","user_id":"8","operator_id":"5","machine_id":"3","status":"COMPLETED","acceptance":null,` +
				`"booking_date":"2026-03-02 10:15:00","total_amount":"1500.00","total_hours":"3","location":"Site 4",` +
				`"user_name":"Asha","user_phone":"9000000000","operator_name":"Pending","operator_phone":null,` +
				`"machine_model":"JCB 3DX","machine_type":"JCB","machine_image":null},` +
				`{"booking_id":"15","user_id":"8","operator_id":null,"machine_id":"2","status":"PENDING","acceptance":null,` +
				`"booking_date":"2026-03-05 08:00:00","total_amount":null,"total_hours":"","location":"Site 9",` +
				`"user_name":"Asha","user_phone":"9000000000","operator_name":"Pending","operator_phone":null,` +
				`"machine_model":"CAT 320","machine_type":"Excavator","machine_image":null}]}`))
			return
		}
		if r.URL.Query().Get("user_id") != "42" {
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "No bookings found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    []map[string]any{{"booking_id": 7, "status": "COMPLETED"}},
		})
	}).Methods(http.MethodGet)

	api.HandleFunc("/machines/machine_details.php", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"machine_id": r.URL.Query().Get("machine_id"), "category_id": "2", "model_name": "CAT 320",
				"price_per_hour": "2500.50", "model_year": "2019", "operator_id": nil,
			},
		})
	}).Methods(http.MethodGet)

	api.HandleFunc("/operator/get_operator_profile.php", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"operator_id": r.URL.Query().Get("operator_id"), "name": "Ravi",
				"experience_years": "7", "total_bookings": "31", "rating": "4.5",
			},
		})
	}).Methods(http.MethodGet)

	api.HandleFunc("/operator/get_earnings.php", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("operator_id") != "5" {
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Operator ID is required"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Earnings data retrieved successfully",
			"data": []map[string]any{
				{"booking_id": 21, "status": "COMPLETED", "booking_date": "2026-03-02 10:15:00", "total_hours": 3, "total_amount": 1500.0},
				{"booking_id": 18, "status": "DECLINED", "booking_date": "2026-02-20 09:00:00", "total_hours": 0, "total_amount": 0.0},
			},
		})
	}).Methods(http.MethodGet)

	api.HandleFunc("/booking/create_booking.php", func(w http.ResponseWriter, r *http.Request) {
		var b models.Booking
		_ = json.NewDecoder(r.Body).Decode(&b)
		if b.Status != models.StatusPending {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "status must be PENDING"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"booking_id": 101}})
	}).Methods(http.MethodPost)

	api.HandleFunc("/admin/get_reports.php", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "data": map[string]any{"active_users": 12, "total_revenue": 45000.5}})
	}).Methods(http.MethodGet)

	api.HandleFunc("/admin/get_live_bookings.php", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>Fatal error</html>"))
	}).Methods(http.MethodGet)

	api.HandleFunc("/confirm_password_reset.php", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"message": "Password updated"})
	}).Methods(http.MethodPost)

	api.HandleFunc("/request_password_reset.php", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "message": "OTP sent"})
	}).Methods(http.MethodPost)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.requests.Add(1)
		if r.Header.Get(constants.RequestIDHeader) == "" {
			http.Error(w, "missing request id", http.StatusBadRequest)
			return
		}
		fb.router.ServeHTTP(w, r)
	})
	fb.server = httptest.NewServer(handler)
	t.Cleanup(fb.server.Close)
	return fb
}

func newTestClient(t *testing.T, fb *fakeBackend) *Client {
	t.Helper()
	c, err := NewClient(Options{
		BaseURL:       fb.server.URL + "/Earth_mover/api",
		Timeout:       2 * time.Second,
		RatePerSecond: 1000,
		Burst:         100,
	})
	require.NoError(t, err)
	return c
}

func TestLogin(t *testing.T) {
	fb := newFakeBackend(t)
	c := newTestClient(t, fb)
	ctx := context.Background()

	data, err := c.Login(ctx, models.LoginRequest{Phone: "9000000000", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "42", data.ID())
	assert.Equal(t, models.RoleUser, data.Role)
	assert.Equal(t, "Asha", data.Name)

	_, err = c.Login(ctx, models.LoginRequest{Phone: "9000000000", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, MsgInvalidCredentials, errors.UserMessage(err))
	assert.Equal(t, errors.KindAPI, errors.KindOf(err))

	_, err = c.Login(ctx, models.LoginRequest{Phone: "missing", Password: "x"})
	assert.Equal(t, MsgUserNotFound, errors.UserMessage(err))
}

func TestLoginValidatesBeforeCalling(t *testing.T) {
	fb := newFakeBackend(t)
	c := newTestClient(t, fb)

	_, err := c.Login(context.Background(), models.LoginRequest{Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
	assert.Equal(t, int32(0), fb.requests.Load())
}

func TestGetUserMachines(t *testing.T) {
	c := newTestClient(t, newFakeBackend(t))

	machines, err := c.GetUserMachines(context.Background())
	require.NoError(t, err)
	require.Len(t, machines, 2)
	assert.Equal(t, "CAT 320", machines[1].ModelName)
	assert.Len(t, models.MachinesByCategory(machines, models.CategoryExcavator), 1)
}

func TestSearchOperators(t *testing.T) {
	c := newTestClient(t, newFakeBackend(t))
	ctx := context.Background()

	ops, err := c.SearchOperators(ctx, models.OperatorQuery{Location: "X", MachineType: "Excavator", Date: "2026-02-01", Time: "09:00"})
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, "5", ops[0].OperatorID.String())
	assert.Equal(t, "Excavator", ops[0].MachineType)

	ops, err = c.SearchOperators(ctx, models.OperatorQuery{Location: "nowhere"})
	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestGetUserBookingsAPIFailure(t *testing.T) {
	c := newTestClient(t, newFakeBackend(t))

	bookings, err := c.GetUserBookings(context.Background(), "42")
	require.NoError(t, err)
	assert.Len(t, bookings, 1)

	_, err = c.GetUserBookings(context.Background(), "1")
	require.Error(t, err)
	assert.Equal(t, errors.KindAPI, errors.KindOf(err))
	assert.Equal(t, "No bookings found", errors.UserMessage(err))
}

func TestCreateBookingDefaultsToPending(t *testing.T) {
	c := newTestClient(t, newFakeBackend(t))

	id, err := c.CreateBooking(context.Background(), models.Booking{UserID: "42", MachineID: "2", OperatorID: "5"})
	require.NoError(t, err)
	assert.Equal(t, "101", id)

	_, err = c.CreateBooking(context.Background(), models.Booking{UserID: "42", MachineID: "0"})
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
}

func TestOkAliasCountsAsSuccess(t *testing.T) {
	c := newTestClient(t, newFakeBackend(t))

	reports, err := c.GetReports(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, reports.ActiveUsers)
	assert.InDelta(t, 45000.5, reports.TotalRevenue, 0.001)

	msg, err := c.RequestPasswordReset(context.Background(), models.PasswordResetRequest{Phone: "9000000000"})
	require.NoError(t, err)
	assert.Equal(t, "OTP sent", msg)
}

func TestMissingSuccessIsFailure(t *testing.T) {
	c := newTestClient(t, newFakeBackend(t))

	_, err := c.ConfirmPasswordReset(context.Background(), models.PasswordResetConfirm{
		Phone: "9000000000", OTP: "123456", NewPassword: "newpass",
	})
	require.Error(t, err)
	assert.Equal(t, errors.KindAPI, errors.KindOf(err))
	assert.Equal(t, "Password updated", errors.UserMessage(err))
}

func TestNonJSONBodyIsTransportFailure(t *testing.T) {
	c := newTestClient(t, newFakeBackend(t))

	_, err := c.GetLiveBookings(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.KindTransport, errors.KindOf(err))
	assert.Equal(t, errors.MsgInvalidResponse, errors.UserMessage(err))
}

func TestUnreachableServerIsTransportFailure(t *testing.T) {
	fb := newFakeBackend(t)
	c := newTestClient(t, fb)
	fb.server.Close()

	_, err := c.GetUserMachines(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.KindTransport, errors.KindOf(err))
	assert.Equal(t, errors.MsgCannotConnect, errors.UserMessage(err))
}

func TestGetBookingNotImplemented(t *testing.T) {
	c := newTestClient(t, newFakeBackend(t))
	_, err := c.GetBooking(context.Background(), "1")
	assert.ErrorIs(t, err, ErrNotImplemented)
}

func TestBearerTokenAttached(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": []any{}})
	}))
	defer srv.Close()

	c, err := NewClient(Options{BaseURL: srv.URL, Token: func() string { return "tok" }})
	require.NoError(t, err)

	_, err = c.GetUserMachines(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", got)
}

func TestNewClientRejectsBadBaseURL(t *testing.T) {
	_, err := NewClient(Options{BaseURL: "not a url"})
	assert.Error(t, err)
}

func TestGetUserBookingsAcceptsQuotedNumbers(t *testing.T) {
	c := newTestClient(t, newFakeBackend(t))

	bookings, err := c.GetUserBookings(context.Background(), "8")
	require.NoError(t, err)
	require.Len(t, bookings, 2)

	done := bookings[0]
	assert.Equal(t, "12", done.BookingID.String())
	assert.Equal(t, models.FlexInt(3), done.TotalHours)
	assert.InDelta(t, 1500.0, done.TotalAmount.Float64(), 0.001)
	assert.Equal(t, "3", done.MachineID.String())

	pending := bookings[1]
	assert.Zero(t, pending.TotalAmount)
	assert.Zero(t, pending.TotalHours)
	assert.Empty(t, pending.OperatorID)

	history := models.BookingHistory(bookings)
	require.Len(t, history, 1)
	assert.Equal(t, "12", history[0].BookingID.String())
}

func TestGetMachineDetailsAcceptsQuotedNumbers(t *testing.T) {
	c := newTestClient(t, newFakeBackend(t))

	m, err := c.GetMachineDetails(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, m.MachineID.Int())
	assert.InDelta(t, 2500.5, m.PricePerHour.Float64(), 0.001)
	require.NotNil(t, m.CategoryID)
	assert.Equal(t, models.CategoryExcavator, models.Category(*m.CategoryID))
	require.NotNil(t, m.ModelYear)
	assert.Equal(t, 2019, m.ModelYear.Int())
	assert.Nil(t, m.OperatorID)
}

func TestGetOperatorProfileAcceptsQuotedNumbers(t *testing.T) {
	c := newTestClient(t, newFakeBackend(t))

	p, err := c.GetOperatorProfile(context.Background(), "5")
	require.NoError(t, err)
	assert.Equal(t, 7, p.ExperienceYears.Int())
	assert.Equal(t, 31, p.TotalBookings.Int())
	assert.InDelta(t, 4.5, p.Rating.Float64(), 0.001)
}

func TestGetOperatorEarnings(t *testing.T) {
	c := newTestClient(t, newFakeBackend(t))
	ctx := context.Background()

	bookings, err := c.GetOperatorEarnings(ctx, "5")
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, "21", bookings[0].BookingID.String())
	assert.InDelta(t, 1500.0, bookings[0].TotalAmount.Float64(), 0.001)

	_, err = c.GetOperatorEarnings(ctx, "9")
	assert.Equal(t, errors.KindAPI, errors.KindOf(err))

	fb := newFakeBackend(t)
	_, err = newTestClient(t, fb).GetOperatorEarnings(ctx, " ")
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
	assert.Equal(t, int32(0), fb.requests.Load())
}
