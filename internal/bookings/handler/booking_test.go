package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"innkeeper/pkg/auth"
	apperrors "innkeeper/pkg/errors"
	"innkeeper/pkg/logger"
	"innkeeper/pkg/middleware"
	"innkeeper/pkg/model"
)

const testSecret = "test-secret"

// Mock service for testing
type mockBookingService struct {
	reserveFunc          func(ctx context.Context, requester auth.Principal, req *model.ReservationRequest) (*model.Booking, error)
	getAllFunc           func(ctx context.Context, limit int, offset int64) ([]*model.BookingView, int64, error)
	getByUserFunc        func(ctx context.Context, userID string, limit int, offset int64) ([]*model.BookingView, int64, error)
	cancelFunc           func(ctx context.Context, id string, requester auth.Principal) (*model.Booking, error)
	checkoutFunc         func(ctx context.Context, id string) (*model.Booking, error)
	setStatusFunc        func(ctx context.Context, id string, next model.BookingStatus) (*model.Booking, error)
	setPaymentStatusFunc func(ctx context.Context, id string, payment model.PaymentStatus) (*model.Booking, error)
}

func (m *mockBookingService) Reserve(ctx context.Context, requester auth.Principal, req *model.ReservationRequest) (*model.Booking, error) {
	if m.reserveFunc != nil {
		return m.reserveFunc(ctx, requester, req)
	}
	return &model.Booking{ID: "68b000000000000000000001"}, nil
}

func (m *mockBookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.BookingView, int64, error) {
	if m.getAllFunc != nil {
		return m.getAllFunc(ctx, limit, offset)
	}
	return []*model.BookingView{}, 0, nil
}

func (m *mockBookingService) GetByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.BookingView, int64, error) {
	if m.getByUserFunc != nil {
		return m.getByUserFunc(ctx, userID, limit, offset)
	}
	return []*model.BookingView{}, 0, nil
}

func (m *mockBookingService) Cancel(ctx context.Context, id string, requester auth.Principal) (*model.Booking, error) {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, id, requester)
	}
	return &model.Booking{ID: id, Status: model.StatusCancelled}, nil
}

func (m *mockBookingService) Checkout(ctx context.Context, id string) (*model.Booking, error) {
	if m.checkoutFunc != nil {
		return m.checkoutFunc(ctx, id)
	}
	return &model.Booking{ID: id, Status: model.StatusCompleted}, nil
}

func (m *mockBookingService) SetStatus(ctx context.Context, id string, next model.BookingStatus) (*model.Booking, error) {
	if m.setStatusFunc != nil {
		return m.setStatusFunc(ctx, id, next)
	}
	return &model.Booking{ID: id, Status: next}, nil
}

func (m *mockBookingService) SetPaymentStatus(ctx context.Context, id string, payment model.PaymentStatus) (*model.Booking, error) {
	if m.setPaymentStatusFunc != nil {
		return m.setPaymentStatusFunc(ctx, id, payment)
	}
	return &model.Booking{ID: id, PaymentStatus: payment}, nil
}

func newTestRouter(t *testing.T, svc *mockBookingService) *httprouter.Router {
	t.Helper()

	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.FormatJSON,
		Service: "test",
	})

	router := httprouter.New()
	NewBookingHandler(svc, middleware.NewAuthenticator(testSecret, log), log).RegisterRoutes(router)
	return router
}

func userToken(t *testing.T, userID string, admin bool) string {
	t.Helper()
	token, err := auth.IssueToken(testSecret, auth.Principal{UserID: userID, IsAdmin: admin}, time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

func doRequest(router *httprouter.Router, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreate_RequiresAuthentication(t *testing.T) {
	router := newTestRouter(t, &mockBookingService{})

	rec := doRequest(router, http.MethodPost, "/bookings", "", `{"roomId":"507f1f77bcf86cd799439011"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}
}

func TestCreate_UsesTokenPrincipal(t *testing.T) {
	var requester auth.Principal
	svc := &mockBookingService{
		reserveFunc: func(ctx context.Context, p auth.Principal, req *model.ReservationRequest) (*model.Booking, error) {
			requester = p
			return &model.Booking{ID: "68b000000000000000000001", UserID: p.UserID, RoomID: req.RoomID}, nil
		},
	}
	router := newTestRouter(t, svc)

	body := `{"roomId":"507f1f77bcf86cd799439011","checkIn":"2027-01-10T14:00:00Z","checkOut":"2027-01-12T11:00:00Z"}`
	rec := doRequest(router, http.MethodPost, "/bookings", userToken(t, "user-1", false), body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if requester.UserID != "user-1" {
		t.Errorf("expected principal user-1, got %q", requester.UserID)
	}

	var response struct {
		Data model.Booking `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Data.RoomID != "507f1f77bcf86cd799439011" {
		t.Errorf("unexpected room ID in response: %s", response.Data.RoomID)
	}
}

func TestCreate_ValidationFailureIsBadRequest(t *testing.T) {
	svc := &mockBookingService{
		reserveFunc: func(ctx context.Context, p auth.Principal, req *model.ReservationRequest) (*model.Booking, error) {
			return nil, apperrors.Validation("Reservation validation failed", map[string]any{"roomId": "roomId is required"})
		},
	}
	router := newTestRouter(t, svc)

	rec := doRequest(router, http.MethodPost, "/bookings", userToken(t, "user-1", false), `{"checkIn":"2027-01-10T14:00:00Z","checkOut":"2027-01-12T11:00:00Z"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing fields, got %d", rec.Code)
	}

	var response struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Code != "VALIDATION_ERROR" {
		t.Errorf("expected code VALIDATION_ERROR, got %q", response.Code)
	}
}

func TestCreate_InvalidBody(t *testing.T) {
	router := newTestRouter(t, &mockBookingService{})

	rec := doRequest(router, http.MethodPost, "/bookings", userToken(t, "user-1", false), `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid body, got %d", rec.Code)
	}
}

func TestList_AdminOnly(t *testing.T) {
	router := newTestRouter(t, &mockBookingService{})

	rec := doRequest(router, http.MethodGet, "/bookings", userToken(t, "user-1", false), "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin, got %d", rec.Code)
	}

	rec = doRequest(router, http.MethodGet, "/bookings", userToken(t, "admin-1", true), "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for admin, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(router, http.MethodGet, "/bookings", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}
}

func TestListMine_ScopedToCaller(t *testing.T) {
	var requestedUser string
	svc := &mockBookingService{
		getByUserFunc: func(ctx context.Context, userID string, limit int, offset int64) ([]*model.BookingView, int64, error) {
			requestedUser = userID
			return []*model.BookingView{}, 0, nil
		},
	}
	router := newTestRouter(t, svc)

	rec := doRequest(router, http.MethodGet, "/bookings/my-bookings", userToken(t, "user-7", false), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if requestedUser != "user-7" {
		t.Errorf("expected listing scoped to user-7, got %q", requestedUser)
	}
}

func TestCancel_PassesPrincipal(t *testing.T) {
	var gotID string
	var requester auth.Principal
	svc := &mockBookingService{
		cancelFunc: func(ctx context.Context, id string, p auth.Principal) (*model.Booking, error) {
			gotID = id
			requester = p
			return &model.Booking{ID: id, Status: model.StatusCancelled}, nil
		},
	}
	router := newTestRouter(t, svc)

	rec := doRequest(router, http.MethodDelete, "/bookings/68b000000000000000000001", userToken(t, "user-1", false), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotID != "68b000000000000000000001" {
		t.Errorf("unexpected booking id: %s", gotID)
	}
	if requester.UserID != "user-1" {
		t.Errorf("expected principal user-1, got %q", requester.UserID)
	}
}

func TestUpdateStatus_AdminOnly(t *testing.T) {
	var gotStatus model.BookingStatus
	svc := &mockBookingService{
		setStatusFunc: func(ctx context.Context, id string, next model.BookingStatus) (*model.Booking, error) {
			gotStatus = next
			return &model.Booking{ID: id, Status: next}, nil
		},
	}
	router := newTestRouter(t, svc)

	body := `{"status":"confirmed"}`
	rec := doRequest(router, http.MethodPatch, "/bookings/68b000000000000000000001/status", userToken(t, "user-1", false), body)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin, got %d", rec.Code)
	}

	rec = doRequest(router, http.MethodPatch, "/bookings/68b000000000000000000001/status", userToken(t, "admin-1", true), body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotStatus != model.StatusConfirmed {
		t.Errorf("expected status confirmed to reach the service, got %s", gotStatus)
	}
}

func TestCheckout_AdminOnly(t *testing.T) {
	router := newTestRouter(t, &mockBookingService{})

	rec := doRequest(router, http.MethodPatch, "/bookings/68b000000000000000000001/checkout", userToken(t, "user-1", false), "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin, got %d", rec.Code)
	}

	rec = doRequest(router, http.MethodPatch, "/bookings/68b000000000000000000001/checkout", userToken(t, "admin-1", true), "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for admin, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUpdatePayment_DecodesStatus(t *testing.T) {
	var gotPayment model.PaymentStatus
	svc := &mockBookingService{
		setPaymentStatusFunc: func(ctx context.Context, id string, payment model.PaymentStatus) (*model.Booking, error) {
			gotPayment = payment
			return &model.Booking{ID: id, PaymentStatus: payment}, nil
		},
	}
	router := newTestRouter(t, svc)

	rec := doRequest(router, http.MethodPatch, "/bookings/68b000000000000000000001/payment", userToken(t, "admin-1", true), `{"paymentStatus":"refunded"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotPayment != model.PaymentRefunded {
		t.Errorf("expected payment status refunded, got %s", gotPayment)
	}
}
