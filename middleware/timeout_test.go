package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/gofiber/fiber/v2"
	"github.com/peerlaunch/launchpad_api/services/timeout"
	"github.com/peerlaunch/launchpad_api/shared"
)

func TestTransportTimeoutAnswers504(t *testing.T) {
	mock := clock.NewMock()
	var timedOut string
	m := NewTimeoutMiddleware(timeout.NewEnforcer(timeout.WithClock(mock)), func(route string) { timedOut = route })

	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	app := fiber.New()
	app.Get("/health", m.Transport(2*time.Minute, func(c *fiber.Ctx) (Operation, error) {
		return func(ctx context.Context) (*Reply, error) {
			close(started)
			<-release
			return &Reply{Status: http.StatusOK}, nil
		}, nil
	}))

	go func() {
		<-started
		mock.Add(2 * time.Minute)
	}()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), 2000)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want 504", resp.StatusCode)
	}
	want := `{"error":"TIMEOUT","message":"Request timeout: The operation took longer than 120 seconds to complete. Please try again or contact support if the problem persists."}`
	if string(body) != want {
		t.Errorf("body = %s\nwant %s", body, want)
	}
	if timedOut != "/health" {
		t.Errorf("onTimeout route = %q", timedOut)
	}
}

func TestTransportFastReply(t *testing.T) {
	m := NewTimeoutMiddleware(timeout.NewEnforcer(timeout.WithClock(clock.NewMock())), nil)

	app := fiber.New()
	app.Post("/api/auth/login", m.Transport(timeout.Light, func(c *fiber.Ctx) (Operation, error) {
		name := c.Query("name")
		return func(ctx context.Context) (*Reply, error) {
			return &Reply{Status: http.StatusCreated, Message: "Created", Data: name}, nil
		}, nil
	}))

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/auth/login?name=ada", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), `"data":"ada"`) {
		t.Errorf("body = %s", body)
	}
}

func TestTransportRendersOperationErrors(t *testing.T) {
	m := NewTimeoutMiddleware(timeout.NewEnforcer(timeout.WithClock(clock.NewMock())), nil)

	app := fiber.New()
	app.Post("/api/auth/login", m.Transport(timeout.Light, func(c *fiber.Ctx) (Operation, error) {
		return func(ctx context.Context) (*Reply, error) {
			return nil, shared.NewUnauthorizedError(errors.New("bad password"), "Invalid credentials")
		}, nil
	}))
	app.Post("/api/upload/image", m.Transport(timeout.ModerateHeavy, func(c *fiber.Ctx) (Operation, error) {
		return nil, shared.NewBadRequestError(nil, "No file uploaded")
	}))

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("login status = %d, want 401", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/api/upload/image", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("upload status = %d, want 400", resp.StatusCode)
	}
}
