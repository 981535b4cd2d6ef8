package errors

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "room not found",
			},
			expected: "NOT_FOUND: room not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("connection reset"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: connection reset)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Wrap(originalErr, CodeInternal, "wrapped", http.StatusInternalServerError)

	if errors.Unwrap(appErr) != originalErr {
		t.Errorf("Unwrap() should return original error")
	}
}

func TestConstructorStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"not found", NotFound("Room"), CodeNotFound, http.StatusNotFound},
		{"forbidden", Forbidden("not your booking"), CodeForbidden, http.StatusForbidden},
		{"unauthorized", Unauthorized("missing token"), CodeUnauthorized, http.StatusUnauthorized},
		{"conflict", Conflict("room number already exists"), CodeConflict, http.StatusConflict},
		{"invalid input", InvalidInput("bad payload"), CodeInvalidInput, http.StatusBadRequest},
		{"validation", Validation("validation failed", nil), CodeValidation, http.StatusBadRequest},
		{"invalid transition", InvalidTransition("booking is already cancelled"), CodeInvalidTransition, http.StatusBadRequest},
		{"room unavailable", RoomUnavailable("65b0f1a2c3d4e5f6a7b8c9d0"), CodeRoomUnavailable, http.StatusBadRequest},
		{"invalid date range", InvalidDateRange("check-out must be after check-in"), CodeInvalidDateRange, http.StatusBadRequest},
		{"internal", Internal("boom", errors.New("x")), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.wantCode)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("status = %d, want %d", tt.err.StatusCode(), tt.wantStatus)
			}
		})
	}
}

func TestRoomUnavailable_Details(t *testing.T) {
	err := RoomUnavailable("65b0f1a2c3d4e5f6a7b8c9d0")
	if err.Details["room_id"] != "65b0f1a2c3d4e5f6a7b8c9d0" {
		t.Errorf("expected room_id detail, got %v", err.Details)
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Booking", "65b0f1a2c3d4e5f6a7b8c9d1")

	if err.Code != CodeNotFound {
		t.Errorf("expected code %s, got %s", CodeNotFound, err.Code)
	}
	if err.Details["id"] != "65b0f1a2c3d4e5f6a7b8c9d1" {
		t.Errorf("expected id detail, got %v", err.Details["id"])
	}
	if err.Details["resource"] != "Booking" {
		t.Errorf("expected resource 'Booking', got %v", err.Details["resource"])
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("Room")
	regularErr := errors.New("regular error")

	if AsAppError(appErr) != appErr {
		t.Errorf("AsAppError() should return the same AppError")
	}

	wrapped := AsAppError(regularErr)
	if wrapped.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap a plain error as internal, got %s", wrapped.Code)
	}
	if wrapped.Err != regularErr {
		t.Errorf("AsAppError() should keep the original error")
	}
}

func TestIsAppError(t *testing.T) {
	if !IsAppError(Conflict("dup")) {
		t.Errorf("IsAppError() should be true for AppError")
	}
	if IsAppError(errors.New("plain")) {
		t.Errorf("IsAppError() should be false for plain error")
	}
}

func TestAppError_ToJSON(t *testing.T) {
	err := InvalidTransition("cannot cancel a completed booking")
	payload := string(err.ToJSON())

	if !strings.Contains(payload, CodeInvalidTransition) {
		t.Errorf("ToJSON() should contain the error code, got %s", payload)
	}
	if !strings.Contains(payload, "completed booking") {
		t.Errorf("ToJSON() should contain the message, got %s", payload)
	}
}
