package rpc

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/peerlaunch/launchpad_api/services/timeout"
)

// RouteKey turns a dispatch path into the dotted key used by the timeout
// table: "/products/list" -> "products.list".
func RouteKey(path string) string {
	segments := strings.Split(path, "/")
	kept := segments[:0]
	for _, s := range segments {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, ".")
}

// TimeoutInterceptor races every call against the bucket its route key maps
// to in policy. onTimeout, if set, is told which route expired.
func TimeoutInterceptor(policy *timeout.Policy, enforcer *timeout.Enforcer, onTimeout func(routeKey string)) Interceptor {
	return func(ctx context.Context, call *Call, next Procedure) (interface{}, error) {
		key := RouteKey(call.Path)

		result, err := timeout.Do(ctx, enforcer, policy.DurationFor(key), func(ctx context.Context) (interface{}, error) {
			return next(ctx, call)
		})
		if err != nil {
			var te *timeout.Error
			if errors.As(err, &te) {
				if onTimeout != nil {
					onTimeout(key)
				}
				return nil, NewError(CodeTimeout, http.StatusRequestTimeout, te.Error())
			}
			return nil, err
		}

		return result, nil
	}
}

// MetricsInterceptor reports each call's route key, outcome code and latency.
// Successful calls are reported with code "OK".
func MetricsInterceptor(record func(routeKey, code string, d time.Duration)) Interceptor {
	return func(ctx context.Context, call *Call, next Procedure) (interface{}, error) {
		start := time.Now()
		result, err := next(ctx, call)

		code := "OK"
		if err != nil {
			code = ToError(err).Code
		}
		record(RouteKey(call.Path), code, time.Since(start))

		return result, err
	}
}
