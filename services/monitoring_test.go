package services

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMonitoringMiddlewareLabelsByRoute(t *testing.T) {
	svc := &MonitoringService{}
	app := fiber.New()
	app.Use(MonitoringMiddleware(svc))
	app.Post("/rpc/*", func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fiber.NewError(http.StatusNotFound, "gone")
	})

	ok := httpRequestsTotal.WithLabelValues("/rpc/*", http.MethodPost, "200")
	before := testutil.ToFloat64(ok)
	for _, path := range []string{"/rpc/products/list", "/rpc/comments/list"} {
		if _, err := app.Test(httptest.NewRequest(http.MethodPost, path, nil)); err != nil {
			t.Fatalf("app.Test: %v", err)
		}
	}
	if got := testutil.ToFloat64(ok) - before; got != 2 {
		t.Errorf("/rpc/* requests recorded = %v, want 2", got)
	}

	notFound := httpRequestsTotal.WithLabelValues("/missing", http.MethodGet, "404")
	before = testutil.ToFloat64(notFound)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if got := testutil.ToFloat64(notFound) - before; got != 1 {
		t.Errorf("404 requests recorded = %v, want 1", got)
	}
}

func TestRecordTimeout(t *testing.T) {
	svc := &MonitoringService{}
	c := routeTimeoutsTotal.WithLabelValues("comments.list", LayerRPC)
	before := testutil.ToFloat64(c)

	svc.RecordTimeout("comments.list", LayerRPC)
	svc.RecordTimeout("comments.list", LayerRPC)

	if got := testutil.ToFloat64(c) - before; got != 2 {
		t.Errorf("timeouts = %v, want 2", got)
	}
}

func TestNewRegistryGathers(t *testing.T) {
	reg := newRegistry()
	commentTreeNodes.Observe(3)
	if _, err := reg.Gather(); err != nil {
		t.Fatalf("gather: %v", err)
	}
	if n := testutil.CollectAndCount(commentTreeNodes); n != 1 {
		t.Errorf("comment_tree_nodes series = %d, want 1", n)
	}
}
