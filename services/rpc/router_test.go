package rpc

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
	"github.com/peerlaunch/launchpad_api/dto"
	"github.com/peerlaunch/launchpad_api/services/timeout"
	"github.com/peerlaunch/launchpad_api/shared"
)

func TestRouteKey(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/products/list", "products.list"},
		{"products/list", "products.list"},
		{"//comments//toggleLike/", "comments.toggleLike"},
		{"/healthCheck", "healthCheck"},
		{"", ""},
		{"///", ""},
	}

	for _, tt := range tests {
		if got := RouteKey(tt.path); got != tt.want {
			t.Errorf("RouteKey(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestDispatchUnknownProcedure(t *testing.T) {
	r := NewRouter()

	_, err := r.Dispatch(context.Background(), &Call{Path: "/nope"})
	rpcErr := ToError(err)
	if rpcErr.Code != CodeNotFound || rpcErr.Status != http.StatusNotFound {
		t.Fatalf("got %+v, want NOT_FOUND/404", rpcErr)
	}
}

func TestInterceptorsRunOutermostFirst(t *testing.T) {
	var order []string
	record := func(name string) Interceptor {
		return func(ctx context.Context, call *Call, next Procedure) (interface{}, error) {
			order = append(order, name)
			return next(ctx, call)
		}
	}

	r := NewRouter(record("outer"), record("inner"))
	r.Register("healthCheck", func(ctx context.Context, call *Call) (interface{}, error) {
		order = append(order, "proc")
		return "OK", nil
	})

	if _, err := r.Dispatch(context.Background(), &Call{Path: "/healthCheck"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(order, ",") != "outer,inner,proc" {
		t.Errorf("order = %v", order)
	}
}

func TestTimeoutInterceptorMapsExpiry(t *testing.T) {
	mock := clock.NewMock()
	enforcer := timeout.NewEnforcer(timeout.WithClock(mock))

	var expired string
	r := NewRouter(TimeoutInterceptor(timeout.Default(), enforcer, func(key string) { expired = key }))

	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)
	r.Register("comments/list", func(ctx context.Context, call *Call) (interface{}, error) {
		close(started)
		<-release
		return nil, nil
	})

	errCh := make(chan error, 1)
	go func() {
		_, err := r.Dispatch(context.Background(), &Call{Path: "/comments/list"})
		errCh <- err
	}()

	<-started
	mock.Add(timeout.Heavy)

	select {
	case err := <-errCh:
		var rpcErr *Error
		if !errors.As(err, &rpcErr) {
			t.Fatalf("err = %T, want *rpc.Error", err)
		}
		if rpcErr.Code != CodeTimeout || rpcErr.Status != http.StatusRequestTimeout {
			t.Errorf("got %s/%d, want TIMEOUT/408", rpcErr.Code, rpcErr.Status)
		}
		if !strings.Contains(rpcErr.Message, "600 seconds") {
			t.Errorf("message = %q", rpcErr.Message)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch did not time out")
	}

	if expired != "comments.list" {
		t.Errorf("onTimeout key = %q, want comments.list", expired)
	}
}

func TestTimeoutInterceptorPassesErrorsThrough(t *testing.T) {
	enforcer := timeout.NewEnforcer(timeout.WithClock(clock.NewMock()))
	r := NewRouter(TimeoutInterceptor(timeout.Default(), enforcer, nil))

	conflict := shared.NewConflictError(nil, "already reviewed")
	r.Register("reviews/create", func(ctx context.Context, call *Call) (interface{}, error) {
		return nil, conflict
	})

	_, err := r.Dispatch(context.Background(), &Call{Path: "reviews/create"})
	if err != conflict {
		t.Fatalf("err = %v, want the original conflict error", err)
	}

	rpcErr := ToError(err)
	if rpcErr.Code != "CONFLICT" || rpcErr.Status != http.StatusConflict {
		t.Errorf("envelope = %+v", rpcErr)
	}
}

func TestToErrorHidesUnknownErrors(t *testing.T) {
	rpcErr := ToError(errors.New("pq: connection refused"))
	if rpcErr.Code != CodeInternal || rpcErr.Message != "Internal server error" {
		t.Errorf("envelope = %+v", rpcErr)
	}
}

type echoInput struct {
	Name string `json:"name" validate:"required"`
}

func (e echoInput) Validate() error {
	return dto.GetValidator().Struct(e)
}

func TestHandlerEndToEnd(t *testing.T) {
	r := NewRouter()
	r.Register("echo", func(ctx context.Context, call *Call) (interface{}, error) {
		var in echoInput
		if err := call.Bind(&in); err != nil {
			return nil, err
		}
		return map[string]string{"name": in.Name, "viewer": call.ViewerID}, nil
	})

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(shared.UserID, "user-1")
		return c.Next()
	})
	app.All("/rpc/*", r.Handler())

	req := httptest.NewRequest(http.MethodPost, "/rpc/echo", strings.NewReader(`{"name":"launch"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), `"name":"launch"`) || !strings.Contains(string(body), `"viewer":"user-1"`) {
		t.Errorf("body = %s", body)
	}

	req = httptest.NewRequest(http.MethodPost, "/rpc/echo", strings.NewReader(`{}`))
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), `"code":"BAD_REQUEST"`) {
		t.Errorf("body = %s", body)
	}
}

func TestMetricsInterceptorRecordsOutcome(t *testing.T) {
	type sample struct{ route, code string }
	var got []sample
	r := NewRouter(MetricsInterceptor(func(routeKey, code string, d time.Duration) {
		got = append(got, sample{routeKey, code})
	}))
	r.Register("reviews/create", func(ctx context.Context, call *Call) (interface{}, error) {
		if call.ViewerID == "" {
			return nil, shared.NewUnauthorizedError(nil, "Unauthorized")
		}
		return "ok", nil
	})

	r.Dispatch(context.Background(), &Call{Path: "/reviews/create", ViewerID: "user-1"})
	r.Dispatch(context.Background(), &Call{Path: "/reviews/create"})

	want := []sample{{"reviews.create", "OK"}, {"reviews.create", CodeUnauthorized}}
	if len(got) != len(want) {
		t.Fatalf("recorded %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}
