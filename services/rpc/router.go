// Package rpc dispatches JSON procedure calls addressed by path, e.g.
// POST /rpc/products/list.
package rpc

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/peerlaunch/launchpad_api/dto"
	"github.com/peerlaunch/launchpad_api/middleware"
	"github.com/peerlaunch/launchpad_api/shared"
	"github.com/rs/zerolog/log"
)

// Call is everything a procedure may read about the request. It is detached
// from the fiber context so it stays valid after the handler returns.
type Call struct {
	Path     string
	Input    []byte
	ViewerID string
	ClientIP string
}

// Bind decodes the call input into dst and validates it when dst is a dto.Validator.
func (c *Call) Bind(dst interface{}) error {
	if len(c.Input) > 0 {
		if err := shared.JSON.Unmarshal(c.Input, dst); err != nil {
			return shared.NewBadRequestError(err, "Invalid input")
		}
	}

	if v, ok := dst.(dto.Validator); ok {
		if err := v.Validate(); err != nil {
			appErr := shared.NewBadRequestError(err, "Validation failed")
			appErr.Data = dto.FormatValidationErrors(err)
			return appErr
		}
	}

	return nil
}

// RequireViewer returns the authenticated user id or an UNAUTHORIZED error.
func (c *Call) RequireViewer() (string, error) {
	if c.ViewerID == "" {
		return "", shared.NewUnauthorizedError(nil, "Unauthorized")
	}
	return c.ViewerID, nil
}

type Procedure func(ctx context.Context, call *Call) (interface{}, error)

type Interceptor func(ctx context.Context, call *Call, next Procedure) (interface{}, error)

type Router struct {
	procedures   map[string]Procedure
	interceptors []Interceptor
}

// NewRouter builds a router. Interceptors run outermost first.
func NewRouter(interceptors ...Interceptor) *Router {
	return &Router{
		procedures:   make(map[string]Procedure),
		interceptors: interceptors,
	}
}

func (r *Router) Register(path string, proc Procedure) {
	r.procedures[normalize(path)] = proc
}

// Paths lists registered procedure paths.
func (r *Router) Paths() []string {
	paths := make([]string, 0, len(r.procedures))
	for p := range r.procedures {
		paths = append(paths, p)
	}
	return paths
}

func (r *Router) Dispatch(ctx context.Context, call *Call) (interface{}, error) {
	call.Path = normalize(call.Path)

	proc, ok := r.procedures[call.Path]
	if !ok {
		return nil, NewError(CodeNotFound, http.StatusNotFound, "Procedure not found: "+call.Path)
	}

	next := proc
	for i := len(r.interceptors) - 1; i >= 0; i-- {
		next = wrap(r.interceptors[i], next)
	}

	return next(ctx, call)
}

func wrap(ic Interceptor, next Procedure) Procedure {
	return func(ctx context.Context, call *Call) (interface{}, error) {
		return ic(ctx, call, next)
	}
}

// Handler serves the router under a wildcard route such as /rpc/*.
// Input comes from the JSON body, or from the "input" query parameter on GET.
func (r *Router) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		call := &Call{
			Path:     c.Params("*"),
			ClientIP: middleware.ClientIP(c),
		}

		if c.Method() == fiber.MethodGet {
			call.Input = []byte(c.Query("input"))
		} else {
			call.Input = append([]byte(nil), c.Body()...)
		}

		if userID, ok := c.Locals(shared.UserID).(string); ok {
			call.ViewerID = userID
		}

		result, err := r.Dispatch(c.UserContext(), call)
		if err != nil {
			rpcErr := ToError(err)
			return shared.WriteJSON(c, rpcErr.Status, rpcErr)
		}

		return shared.WriteJSON(c, fiber.StatusOK, result)
	}
}

// LoggingInterceptor logs every call with its route key and latency.
func LoggingInterceptor() Interceptor {
	return func(ctx context.Context, call *Call, next Procedure) (interface{}, error) {
		start := time.Now()
		result, err := next(ctx, call)

		event := log.Debug()
		if err != nil {
			rpcErr := ToError(err)
			if rpcErr.Status >= http.StatusInternalServerError || rpcErr.Code == CodeTimeout {
				event = log.Error().Err(err)
			} else {
				event = log.Info().Str("code", rpcErr.Code)
			}
		}
		event.Str("route", RouteKey(call.Path)).Dur("duration", time.Since(start)).Msg("rpc call")

		return result, err
	}
}

func normalize(path string) string {
	return strings.Trim(path, "/")
}
