// Package auth implements phone number login with one-time codes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/imaginarygifts/storefront-backend-go/metrics"
	"github.com/imaginarygifts/storefront-backend-go/models"
	"github.com/nanorand/nanorand"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	countryPrefix = "+91"
	codeDigits    = 6
)

var (
	ErrInvalidPhone    = errors.New("enter a valid mobile number")
	ErrMissingCode     = errors.New("enter otp")
	ErrResendTooSoon   = errors.New("please wait before requesting another code")
	ErrInvalidCode     = errors.New("invalid otp")
	ErrCodeExpired     = errors.New("otp expired or not requested")
	ErrTooManyAttempts = errors.New("too many attempts, request a new code")
)

// SMSSender delivers a code to a phone.
type SMSSender interface {
	SendOTP(ctx context.Context, phone, code string) error
}

type UserStore interface {
	UpsertByPhone(ctx context.Context, phone string, role models.Role, at time.Time) (*models.User, error)
}

type TokenIssuer interface {
	GenerateJWT(u *models.User) (string, error)
}

type Options struct {
	CodeTTL        time.Duration
	ResendCooldown time.Duration
	MaxAttempts    int
	AdminPhones    []string
}

func DefaultOptions() Options {
	return Options{
		CodeTTL:        5 * time.Minute,
		ResendCooldown: 30 * time.Second,
		MaxAttempts:    5,
	}
}

type OTPService struct {
	store    OTPStore
	sms      SMSSender
	users    UserStore
	tokens   TokenIssuer
	opts     Options
	admins   map[string]bool
	log      *zap.Logger
	now      func() time.Time
	generate func() (string, error)
}

func NewOTPService(store OTPStore, sms SMSSender, users UserStore, tokens TokenIssuer, opts Options, log *zap.Logger) *OTPService {
	admins := make(map[string]bool, len(opts.AdminPhones))
	for _, p := range opts.AdminPhones {
		if n, err := NormalizePhone(p); err == nil {
			admins[n] = true
		}
	}
	return &OTPService{
		store:    store,
		sms:      sms,
		users:    users,
		tokens:   tokens,
		opts:     opts,
		admins:   admins,
		log:      log,
		now:      time.Now,
		generate: generateCode,
	}
}

// NormalizePhone turns user input into E.164. Numbers without a country code
// are taken as Indian mobile numbers.
func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	plus := strings.HasPrefix(raw, "+")

	var digits strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == ' ' || r == '-' || r == '+' && digits.Len() == 0:
		default:
			return "", ErrInvalidPhone
		}
	}
	d := digits.String()
	if len(d) < 10 || len(d) > 15 {
		return "", ErrInvalidPhone
	}
	if plus {
		return "+" + d, nil
	}
	return countryPrefix + d, nil
}

// Send issues a fresh code for phone. Only a bcrypt hash of the code is kept.
func (s *OTPService) Send(ctx context.Context, rawPhone string) (string, error) {
	phone, err := NormalizePhone(rawPhone)
	if err != nil {
		metrics.OTPRequests.WithLabelValues("send", "invalid_phone").Inc()
		return "", err
	}

	ok, err := s.store.Reserve(ctx, phone, s.opts.ResendCooldown)
	if err != nil {
		return "", err
	}
	if !ok {
		metrics.OTPRequests.WithLabelValues("send", "rate_limited").Inc()
		return "", ErrResendTooSoon
	}

	code, err := s.generate()
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash otp: %w", err)
	}
	if err := s.store.Save(ctx, phone, string(hash), s.opts.CodeTTL); err != nil {
		return "", err
	}
	if err := s.sms.SendOTP(ctx, phone, code); err != nil {
		metrics.OTPRequests.WithLabelValues("send", "sms_failed").Inc()
		return "", fmt.Errorf("send otp: %w", err)
	}

	metrics.OTPRequests.WithLabelValues("send", "ok").Inc()
	return phone, nil
}

type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Verify checks code against the pending challenge. On success the challenge
// is consumed, the user is created or updated and a session token issued.
func (s *OTPService) Verify(ctx context.Context, rawPhone, code string) (Session, error) {
	phone, err := NormalizePhone(rawPhone)
	if err != nil {
		return Session{}, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return Session{}, ErrMissingCode
	}

	ch, err := s.store.Get(ctx, phone)
	if errors.Is(err, ErrNoChallenge) {
		metrics.OTPRequests.WithLabelValues("verify", "expired").Inc()
		return Session{}, ErrCodeExpired
	}
	if err != nil {
		return Session{}, err
	}
	if ch.Attempts >= s.opts.MaxAttempts {
		metrics.OTPRequests.WithLabelValues("verify", "locked").Inc()
		return Session{}, ErrTooManyAttempts
	}

	if bcrypt.CompareHashAndPassword([]byte(ch.Hash), []byte(code)) != nil {
		n, err := s.store.AddAttempt(ctx, phone)
		if err != nil {
			return Session{}, err
		}
		metrics.OTPRequests.WithLabelValues("verify", "invalid").Inc()
		if n >= s.opts.MaxAttempts {
			return Session{}, ErrTooManyAttempts
		}
		return Session{}, ErrInvalidCode
	}

	if err := s.store.Delete(ctx, phone); err != nil {
		s.log.Warn("failed to delete used otp", zap.String("phone", phone), zap.Error(err))
	}

	role := models.RoleCustomer
	if s.admins[phone] {
		role = models.RoleAdmin
	}
	user, err := s.users.UpsertByPhone(ctx, phone, role, s.now())
	if err != nil {
		return Session{}, err
	}
	token, err := s.tokens.GenerateJWT(user)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}

	metrics.OTPRequests.WithLabelValues("verify", "ok").Inc()
	s.log.Info("user logged in", zap.String("user_id", user.ID.Hex()), zap.String("role", string(role)))
	return Session{Token: token, User: user}, nil
}

func generateCode() (string, error) {
	code, err := nanorand.Gen(codeDigits)
	if err != nil {
		return "", err
	}
	if len(code) != codeDigits || strings.Trim(code, "0123456789") != "" {
		return "", fmt.Errorf("unexpected otp format %q", code)
	}
	return code, nil
}

// LogSender writes codes to the log. It is used until an SMS provider is configured.
type LogSender struct {
	Log *zap.Logger
}

func (l LogSender) SendOTP(_ context.Context, phone, code string) error {
	l.Log.Info("otp code", zap.String("phone", phone), zap.String("code", code))
	return nil
}
