package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Stewz00/go-otp-service/internal/handler"
	"github.com/Stewz00/go-otp-service/internal/otp"
	"github.com/Stewz00/go-otp-service/internal/service"
	"github.com/Stewz00/go-otp-service/internal/test"
	"github.com/go-chi/chi/v5"
)

// setupTestRouter wires the full HTTP surface over in-memory collaborators,
// with the notifier standing in for the SMTP transport so tests can read the
// delivered code.
func setupTestRouter() (*chi.Mux, *test.MockNotifier) {
	notifier := test.NewMockNotifier()
	authService := service.NewAuthService(
		test.NewMockUserRepository(),
		test.NewMockOTPRepository(),
		notifier,
		otp.NewGenerator(),
	)
	authHandler := handler.NewAuthHandler(authService)

	r := chi.NewRouter()
	r.Post("/api/register", authHandler.Register)
	r.Post("/api/login", authHandler.Login)
	r.Post("/api/verify", authHandler.VerifyOTP)

	return r, notifier
}

func doPost(t *testing.T, router *chi.Mux, path string, body map[string]string) (int, handler.Response) {
	t.Helper()

	payload, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp handler.Response
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response from %s: %v", path, err)
	}
	return w.Code, resp
}

func TestRegisterLoginVerifyFlow(t *testing.T) {
	router, notifier := setupTestRouter()

	// Register
	code, resp := doPost(t, router, "/api/register", map[string]string{
		"name":     "Alice",
		"email":    "a@x.com",
		"password": "pw123",
	})
	if code != http.StatusCreated || !resp.Success {
		t.Fatalf("register: got status %d success=%v, want 201 success=true", code, resp.Success)
	}

	// Registering the same email again conflicts
	code, _ = doPost(t, router, "/api/register", map[string]string{
		"name":     "Alice",
		"email":    "a@x.com",
		"password": "pw123",
	})
	if code != http.StatusConflict {
		t.Fatalf("duplicate register: got status %d, want 409", code)
	}

	// Login issues an OTP over the notifier
	code, resp = doPost(t, router, "/api/login", map[string]string{"email": "a@x.com"})
	if code != http.StatusOK || !resp.Success {
		t.Fatalf("login: got status %d success=%v, want 200 success=true", code, resp.Success)
	}
	otpCode := notifier.LastCode()
	if len(otpCode) != otp.Length {
		t.Fatalf("delivered OTP %q is not %d digits", otpCode, otp.Length)
	}

	// A wrong guess is rejected without consuming the code
	wrong := "000000"
	if otpCode == wrong {
		wrong = "000001"
	}
	code, _ = doPost(t, router, "/api/verify", map[string]string{
		"email": "a@x.com",
		"otp":   wrong,
	})
	if code != http.StatusBadRequest {
		t.Fatalf("wrong code: got status %d, want 400", code)
	}

	// The delivered code verifies
	code, resp = doPost(t, router, "/api/verify", map[string]string{
		"email": "a@x.com",
		"otp":   otpCode,
	})
	if code != http.StatusOK || !resp.Success {
		t.Fatalf("verify: got status %d success=%v, want 200 success=true", code, resp.Success)
	}
	if resp.User == nil || resp.User.Email != "a@x.com" {
		t.Fatalf("verify: got user %+v, want email a@x.com", resp.User)
	}

	// Replaying the consumed code finds nothing
	code, _ = doPost(t, router, "/api/verify", map[string]string{
		"email": "a@x.com",
		"otp":   otpCode,
	})
	if code != http.StatusNotFound {
		t.Fatalf("replay: got status %d, want 404", code)
	}
}

func TestLoginTwiceOrphansFirstCode(t *testing.T) {
	router, notifier := setupTestRouter()

	if code, _ := doPost(t, router, "/api/register", map[string]string{
		"name": "Alice", "email": "a@x.com", "password": "pw123",
	}); code != http.StatusCreated {
		t.Fatalf("register: got status %d, want 201", code)
	}

	for i := 0; i < 2; i++ {
		if code, _ := doPost(t, router, "/api/login", map[string]string{"email": "a@x.com"}); code != http.StatusOK {
			t.Fatalf("login %d: got status %d, want 200", i+1, code)
		}
	}

	first := notifier.Deliveries[0].Code
	second := notifier.Deliveries[1].Code
	if first == second {
		t.Skip("generator produced identical codes; latest-wins is indistinguishable")
	}

	// Only the second-issued code is live
	if code, _ := doPost(t, router, "/api/verify", map[string]string{
		"email": "a@x.com", "otp": first,
	}); code != http.StatusBadRequest {
		t.Fatalf("first code: got status %d, want 400", code)
	}
	if code, _ := doPost(t, router, "/api/verify", map[string]string{
		"email": "a@x.com", "otp": second,
	}); code != http.StatusOK {
		t.Fatalf("second code: got status %d, want 200", code)
	}
}

func TestLoginForUnknownEmail(t *testing.T) {
	router, _ := setupTestRouter()

	code, resp := doPost(t, router, "/api/login", map[string]string{"email": "nobody@x.com"})
	if code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", code)
	}
	if resp.Success {
		t.Error("expected success=false")
	}
}
