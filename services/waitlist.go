package services

import (
	"context"
	"strings"

	appContext "github.com/alphabatem/common/context"
	"github.com/peerlaunch/launchpad_api/dto"
	"github.com/peerlaunch/launchpad_api/model"
	"github.com/peerlaunch/launchpad_api/services/repositories"
	"github.com/peerlaunch/launchpad_api/shared"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// WaitlistMailer sends the confirmation mail after a successful join. EmailService implements it.
type WaitlistMailer interface {
	SendWaitlistWelcome(email, name string, position int64) error
}

type WaitlistService struct {
	appContext.DefaultService

	entries *repositories.WaitlistRepository
	limiter RateChecker
	mailer  WaitlistMailer
}

const WAITLIST_SVC = "waitlist_svc"

func (svc WaitlistService) Id() string {
	return WAITLIST_SVC
}

func (svc *WaitlistService) Start() error {
	var limiter RateChecker
	if rl, ok := svc.Service(RATE_LIMIT_SVC).(*RateLimitService); ok {
		limiter = rl
	}
	var mailer WaitlistMailer
	if email, ok := svc.Service(EMAIL_SVC).(*EmailService); ok {
		mailer = email
	}
	svc.init(svc.Service(DATABASE_SVC).(*DatabaseService).Db(), limiter, mailer)
	return nil
}

func (svc *WaitlistService) init(db *gorm.DB, limiter RateChecker, mailer WaitlistMailer) {
	svc.entries = repositories.NewWaitlistRepository(db)
	svc.limiter = limiter
	svc.mailer = mailer
}

// Join adds email to the waitlist. clientIP keys the rate limit.
func (svc *WaitlistService) Join(ctx context.Context, clientIP string, req dto.JoinWaitlistRequest) (*dto.WaitlistResponse, error) {
	if svc.limiter != nil {
		if err := svc.limiter.Check(ctx, clientIP, LimitWaitlist); err != nil {
			return nil, err
		}
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := svc.entries.EmailExists(ctx, email)
	if err != nil {
		return nil, HandleError(err, "")
	}
	if exists {
		return nil, shared.NewConflictError(nil, "This email is already on the waitlist")
	}

	entry := &model.WaitlistEntry{
		Email:  email,
		Name:   strings.TrimSpace(req.Name),
		Source: req.Source,
	}
	if err := svc.entries.CreateEntry(ctx, entry); err != nil {
		return nil, HandleError(err, "")
	}

	position, err := svc.entries.Position(ctx, entry)
	if err != nil {
		return nil, HandleError(err, "")
	}

	if svc.mailer != nil {
		go func(email, name string, position int64) {
			if err := svc.mailer.SendWaitlistWelcome(email, name, position); err != nil {
				log.Warn().Err(err).Str("email", email).Msg("Failed to send waitlist welcome email")
			}
		}(entry.Email, entry.Name, position)
	}

	return &dto.WaitlistResponse{ID: entry.ID, Email: entry.Email, Position: position}, nil
}

func (svc *WaitlistService) Count(ctx context.Context) (*dto.WaitlistCountResponse, error) {
	count, err := svc.entries.Count(ctx)
	if err != nil {
		return nil, HandleError(err, "")
	}
	return &dto.WaitlistCountResponse{Count: count}, nil
}
