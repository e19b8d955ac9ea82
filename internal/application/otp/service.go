package otp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-api-otp/internal/domain"
	"github.com/go-api-otp/internal/infrastructure/smtp"
	"github.com/go-api-otp/internal/infrastructure/sns"
	"github.com/go-api-otp/internal/pkg/id"
)

// IssueResult is what the generation endpoint may reveal: the code itself is
// delivered out of band and never returned to the caller.
type IssueResult struct {
	Email     string `json:"email"`
	ExpiresIn string `json:"expiresIn"`
}

// VerifyResult carries the verdict plus, on success, the identity fields of
// the consumed record.
type VerifyResult struct {
	Verdict         domain.Verdict
	Email           string
	IdentifierType  string
	IdentifierValue string
}

type Service interface {
	Issue(ctx context.Context, form domain.OtpForm) (*IssueResult, error)
	Verify(ctx context.Context, code string) (*VerifyResult, error)
}

type otpStore interface {
	Insert(ctx context.Context, o *domain.Otp) error
	ActiveByCode(ctx context.Context, code string, now time.Time) (*domain.Otp, error)
	NewestByCode(ctx context.Context, code string) (*domain.Otp, error)
	Consume(ctx context.Context, id, code string, now time.Time) (bool, error)
}

type userStore interface {
	FindByIdentifier(ctx context.Context, identifierName, identifierValue, email string) (*domain.User, error)
}

type service struct {
	otpRepo   otpStore
	userRepo  userStore
	mailer    smtp.Mailer
	smsSender sns.SMSSender
}

type ServiceDeps struct {
	OtpRepo   otpStore
	UserRepo  userStore
	Mailer    smtp.Mailer
	SMSSender sns.SMSSender
}

func NewService(deps ServiceDeps) Service {
	return &service{
		otpRepo:   deps.OtpRepo,
		userRepo:  deps.UserRepo,
		mailer:    deps.Mailer,
		smsSender: deps.SMSSender,
	}
}

// Issue validates the request, confirms a registered user matches the
// identifier triple, then generates and persists a fresh code. The code is
// e-mailed, and sent by SMS when a sender is configured; SMS failures are
// logged, not surfaced — e-mail is the authoritative channel.
func (s *service) Issue(ctx context.Context, form domain.OtpForm) (*IssueResult, error) {
	o := domain.NewOtpFromForm(form)
	if res := o.Validate(); !res.IsValid() {
		return nil, &domain.ValidationError{Errors: res.Errors}
	}

	u, err := s.userRepo.FindByIdentifier(ctx, o.IdentifierType, o.IdentifierValue, o.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no user matches the provided email and identifier: %w", domain.ErrNotFound)
		}
		return nil, err
	}

	code, err := o.GenerateCode()
	if err != nil {
		return nil, err
	}
	o.ID = id.New()
	o.CreatedAt = time.Now().UTC()
	if err := s.otpRepo.Insert(ctx, o); err != nil {
		return nil, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendEmail(o.Email, "Your one-time password",
			fmt.Sprintf("Your OTP is %s. It expires in 5 minutes.", code)); err != nil {
			return nil, fmt.Errorf("send otp email: %w", err)
		}
	}
	if s.smsSender != nil && u.MobileNumber != "" {
		if err := s.smsSender.SendSMS(ctx, u.MobileNumber, "Your OTP: "+code); err != nil {
			slog.Warn("failed to send OTP SMS", "mobile", u.MobileNumber, "err", err)
		}
	}

	return &IssueResult{Email: o.Email, ExpiresIn: "5 minutes"}, nil
}

// Verify runs the verification state machine over the newest matching row.
// The malformed check settles without touching storage. Success consumes the
// row with a conditional delete, so a duplicate concurrent submission of the
// same code cannot succeed twice.
func (s *service) Verify(ctx context.Context, code string) (*VerifyResult, error) {
	if !domain.WellFormedCode(code) {
		return &VerifyResult{Verdict: domain.VerdictMalformed}, nil
	}

	now := time.Now().UTC()
	rec, err := s.otpRepo.ActiveByCode(ctx, code, now)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return s.inactiveVerdict(ctx, code)
		}
		return nil, err
	}

	verdict := rec.Verify(code, now)
	if verdict != domain.VerdictSuccess {
		return &VerifyResult{Verdict: verdict}, nil
	}

	consumed, err := s.otpRepo.Consume(ctx, rec.ID, code, now)
	if err != nil {
		return nil, err
	}
	if !consumed {
		// A concurrent submission won the conditional delete.
		return &VerifyResult{Verdict: domain.VerdictMismatch}, nil
	}
	return &VerifyResult{
		Verdict:         domain.VerdictSuccess,
		Email:           rec.Email,
		IdentifierType:  rec.IdentifierType,
		IdentifierValue: rec.IdentifierValue,
	}, nil
}

// inactiveVerdict distinguishes an expired code from an unknown one once the
// active lookup has missed.
func (s *service) inactiveVerdict(ctx context.Context, code string) (*VerifyResult, error) {
	rec, err := s.otpRepo.NewestByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &VerifyResult{Verdict: domain.VerdictMismatch}, nil
		}
		return nil, err
	}
	if rec.Expired(time.Now().UTC()) {
		return &VerifyResult{Verdict: domain.VerdictExpired}, nil
	}
	return &VerifyResult{Verdict: domain.VerdictMismatch}, nil
}
