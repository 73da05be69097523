package services

import (
	"context"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/peerlaunch/launchpad_api/dto"
	"github.com/peerlaunch/launchpad_api/shared"
	"github.com/rs/zerolog/log"
)

const (
	LimitAPIGeneral = "api_general"
	LimitLogin      = "login"
	LimitRegister   = "register"
	LimitUpload     = "upload"
	LimitReport     = "report"
	LimitWaitlist   = "waitlist"
)

// RateCounter is the storage a fixed-window limiter needs. RedisService implements it.
type RateCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	Block(ctx context.Context, key string, d time.Duration) error
	BlockedFor(ctx context.Context, key string) (time.Duration, error)
}

// RateLimitConfig represents rate limiting configuration
type RateLimitConfig struct {
	EndpointType string
	MaxRequests  int
	WindowSize   time.Duration
	BlockTime    time.Duration
	Message      string
}

type RateLimitService struct {
	appContext.DefaultService

	configs map[string]*RateLimitConfig
	mutex   sync.RWMutex
	counter RateCounter
	now     func() time.Time
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func NewRateLimitService(counter RateCounter) *RateLimitService {
	svc := &RateLimitService{}
	svc.init(counter)
	return svc
}

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Start() error {
	svc.init(svc.Service(REDIS_SVC).(*RedisService))
	return nil
}

func (svc *RateLimitService) init(counter RateCounter) {
	svc.counter = counter
	svc.now = time.Now
	svc.configs = defaultRateLimitConfigs()
}

func defaultRateLimitConfigs() map[string]*RateLimitConfig {
	return map[string]*RateLimitConfig{
		LimitAPIGeneral: {
			EndpointType: LimitAPIGeneral,
			MaxRequests:  1000,
			WindowSize:   time.Hour,
			BlockTime:    time.Hour,
			Message:      "Too many requests from this IP address",
		},
		LimitLogin: {
			EndpointType: LimitLogin,
			MaxRequests:  10,
			WindowSize:   15 * time.Minute,
			BlockTime:    30 * time.Minute,
			Message:      "Too many login attempts. Please try again later.",
		},
		LimitRegister: {
			EndpointType: LimitRegister,
			MaxRequests:  5,
			WindowSize:   15 * time.Minute,
			BlockTime:    time.Hour,
			Message:      "Too many registration attempts. Please try again later.",
		},
		LimitUpload: {
			EndpointType: LimitUpload,
			MaxRequests:  30,
			WindowSize:   time.Hour,
			BlockTime:    30 * time.Minute,
			Message:      "Upload limit reached. Please wait before uploading more files.",
		},
		LimitReport: {
			EndpointType: LimitReport,
			MaxRequests:  10,
			WindowSize:   time.Hour,
			BlockTime:    time.Hour,
			Message:      "You have submitted too many reports. Please try again later.",
		},
		LimitWaitlist: {
			EndpointType: LimitWaitlist,
			MaxRequests:  5,
			WindowSize:   time.Hour,
			BlockTime:    time.Hour,
			Message:      "Too many waitlist requests. Please try again later.",
		},
	}
}

func (svc *RateLimitService) config(endpointType string) (*RateLimitConfig, bool) {
	svc.mutex.RLock()
	defer svc.mutex.RUnlock()
	cfg, ok := svc.configs[endpointType]
	return cfg, ok
}

// IsAllowed counts one request from identifier against endpointType. Exceeding
// the window's budget blocks the identifier for the configured BlockTime.
func (svc *RateLimitService) IsAllowed(ctx context.Context, identifier, endpointType string) (bool, *dto.RateLimitInfo, error) {
	cfg, ok := svc.config(endpointType)
	if !ok {
		return true, &dto.RateLimitInfo{Allowed: true, Remaining: -1}, nil
	}

	now := svc.now()
	countKey := "ratelimit:" + endpointType + ":" + identifier
	blockKey := "ratelimit:block:" + endpointType + ":" + identifier

	blocked, err := svc.counter.BlockedFor(ctx, blockKey)
	if err != nil {
		return false, nil, err
	}
	if blocked > 0 {
		until := now.Add(blocked)
		return false, &dto.RateLimitInfo{Allowed: false, Remaining: 0, ResetTime: &until, BlockedUntil: &until}, nil
	}

	count, ttl, err := svc.counter.Hit(ctx, countKey, cfg.WindowSize)
	if err != nil {
		return false, nil, err
	}

	if count > int64(cfg.MaxRequests) {
		if err := svc.counter.Block(ctx, blockKey, cfg.BlockTime); err != nil {
			return false, nil, err
		}
		until := now.Add(cfg.BlockTime)
		return false, &dto.RateLimitInfo{Allowed: false, Remaining: 0, ResetTime: &until, BlockedUntil: &until}, nil
	}

	reset := now.Add(ttl)
	return true, &dto.RateLimitInfo{
		Allowed:   true,
		Remaining: cfg.MaxRequests - int(count),
		ResetTime: &reset,
	}, nil
}

func (svc *RateLimitService) Message(endpointType string) string {
	if cfg, ok := svc.config(endpointType); ok && cfg.Message != "" {
		return cfg.Message
	}
	return "Rate limit exceeded. Please try again later."
}

// Check is IsAllowed for callers outside the HTTP middleware chain. Limiter
// failures are logged and let the call through.
func (svc *RateLimitService) Check(ctx context.Context, identifier, endpointType string) error {
	allowed, info, err := svc.IsAllowed(ctx, identifier, endpointType)
	if err != nil {
		log.Warn().Err(err).Str("endpoint", endpointType).Str("identifier", identifier).Msg("Rate limit check failed")
		return nil
	}
	if allowed {
		return nil
	}

	appErr := shared.NewTooManyRequestsError(nil, svc.Message(endpointType))
	appErr.Data = info
	return appErr
}
