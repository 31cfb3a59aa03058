// Package account implements the sign-in and security flows for the single
// member. Login only accepts the member's email. Until a password is set
// through Signup or ChangePassword any non-empty password succeeds; afterwards
// the bcrypt hash is checked and Signup is closed.
package account

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/Zeyad-Azima/GymFit/internal/auth"
	"github.com/Zeyad-Azima/GymFit/internal/domain"
	"github.com/Zeyad-Azima/GymFit/internal/mockdata"
	"github.com/Zeyad-Azima/GymFit/internal/observability"
	"github.com/Zeyad-Azima/GymFit/internal/state"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

var (
	// ErrInvalidCredentials is returned when a required field is missing or malformed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPasswordMismatch is returned when a confirmation does not match.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrWeakPassword is returned for passwords shorter than MinPasswordLength.
	ErrWeakPassword = errors.New("password too short")
	// ErrAlreadyRegistered is returned by Signup once a password is set.
	ErrAlreadyRegistered = errors.New("account already registered")
	// ErrUnknownExport is returned for an unsupported export kind.
	ErrUnknownExport = errors.New("unknown export")
)

// Profile is the subset of the store the account flows touch.
type Profile interface {
	User() domain.User
	UpdateProfile(ctx context.Context, name, email string) domain.User
	Snapshot() state.Snapshot
	Messages(trainerID int64) ([]domain.Message, error)
}

// Service runs the account flows.
type Service struct {
	store  Profile
	issuer *auth.Issuer
	logger *slog.Logger

	mu           sync.Mutex
	backupCodes  []string
	passwordHash []byte
}

// Option configures the Service.
type Option func(*Service)

// WithLogger overrides the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService constructs a Service.
func NewService(store Profile, issuer *auth.Issuer, opts ...Option) *Service {
	s := &Service{
		store:       store,
		issuer:      issuer,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		backupCodes: mockdata.BackupCodes(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session is returned on a successful login or signup.
type Session struct {
	User  domain.User `json:"user"`
	Token auth.Token  `json:"token"`
}

// Login checks the email against the member's and the password against the
// stored hash, or accepts any non-empty password while none is set.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return Session{}, err
	}
	user := s.store.User()
	if !strings.EqualFold(email, user.Email) {
		return Session{}, fmt.Errorf("%w: unknown account", ErrInvalidCredentials)
	}
	if err := s.verifyPassword(password); err != nil {
		return Session{}, err
	}
	observability.RecordAction("login")
	return s.session(ctx, user)
}

// Signup validates the form, updates the member profile and signs them in.
func (s *Service) Signup(ctx context.Context, name, email, password, confirm string) (Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Session{}, fmt.Errorf("%w: name is required", ErrInvalidCredentials)
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return Session{}, err
	}
	if err := checkNewPassword(password, confirm); err != nil {
		return Session{}, err
	}
	if s.hasPassword() {
		return Session{}, ErrAlreadyRegistered
	}
	hash, err := hashPassword(password)
	if err != nil {
		return Session{}, err
	}
	s.mu.Lock()
	if s.passwordHash != nil {
		s.mu.Unlock()
		return Session{}, ErrAlreadyRegistered
	}
	s.passwordHash = hash
	s.mu.Unlock()
	observability.RecordAction("signup")
	return s.session(ctx, s.store.UpdateProfile(ctx, name, email))
}

func (s *Service) session(ctx context.Context, user domain.User) (Session, error) {
	token, err := s.issuer.Issue(user.Email, auth.MemberScopes...)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	s.logger.InfoContext(ctx, "member signed in", slog.String("email", user.Email))
	return Session{User: user, Token: token}, nil
}

// RequestPasswordReset always reports success for a valid email.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	observability.RecordAction("password_reset")
	s.logger.InfoContext(ctx, "password reset requested", slog.String("email", email))
	return nil
}

// ChangePassword validates the new password pair.
func (s *Service) ChangePassword(ctx context.Context, current, next, confirm string) error {
	if err := s.verifyPassword(current); err != nil {
		return err
	}
	if err := checkNewPassword(next, confirm); err != nil {
		return err
	}
	if err := s.setPassword(next); err != nil {
		return err
	}
	observability.RecordAction("change_password")
	s.logger.InfoContext(ctx, "password changed")
	return nil
}

// ChangeEmail replaces the member email after a password check.
func (s *Service) ChangeEmail(ctx context.Context, newEmail, password string) (domain.User, error) {
	email, err := normalizeEmail(newEmail)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.verifyPassword(password); err != nil {
		return domain.User{}, err
	}
	observability.RecordAction("change_email")
	return s.store.UpdateProfile(ctx, "", email), nil
}

// BackupCodes returns the current recovery codes.
func (s *Service) BackupCodes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.backupCodes...)
}

// RegenerateBackupCodes replaces every recovery code.
func (s *Service) RegenerateBackupCodes(ctx context.Context) ([]string, error) {
	codes := make([]string, 0, len(mockdata.BackupCodes()))
	for range cap(codes) {
		code, err := newBackupCode()
		if err != nil {
			return nil, fmt.Errorf("generate backup code: %w", err)
		}
		codes = append(codes, code)
	}

	s.mu.Lock()
	s.backupCodes = codes
	s.mu.Unlock()

	observability.RecordAction("regenerate_backup_codes")
	return append([]string(nil), codes...), nil
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func newBackupCode() (string, error) {
	raw := make([]byte, 12)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	var b strings.Builder
	for i, v := range raw {
		if i > 0 && i%4 == 0 {
			b.WriteByte('-')
		}
		b.WriteByte(codeAlphabet[int(v)%len(codeAlphabet)])
	}
	return b.String(), nil
}

// Export kinds.
const (
	ExportProfile      = "profile"
	ExportWorkouts     = "workouts"
	ExportMessages     = "messages"
	ExportAchievements = "achievements"
)

// Export renders one slice of the member's data as JSON.
func (s *Service) Export(ctx context.Context, kind string) ([]byte, error) {
	snap := s.store.Snapshot()

	var doc interface{}
	switch kind {
	case ExportProfile:
		doc = map[string]interface{}{"user": snap.User, "is_dark_mode": snap.IsDarkMode}
	case ExportWorkouts:
		doc = map[string]interface{}{"stats": snap.User.Stats, "activities": snap.Activities}
	case ExportMessages:
		conversations := make(map[string][]domain.Message, len(snap.Trainers))
		for _, t := range snap.Trainers {
			msgs, err := s.store.Messages(t.ID)
			if err != nil {
				return nil, fmt.Errorf("export messages for trainer %d: %w", t.ID, err)
			}
			conversations[t.Name] = msgs
		}
		doc = map[string]interface{}{"conversations": conversations}
	case ExportAchievements:
		doc = map[string]interface{}{"achievements": snap.Achievements}
	default:
		return nil, ErrUnknownExport
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s export: %w", kind, err)
	}
	observability.RecordAction("export_" + kind)
	return body, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", fmt.Errorf("%w: email is required", ErrInvalidCredentials)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: malformed email", ErrInvalidCredentials)
	}
	return addr.Address, nil
}

func (s *Service) verifyPassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidCredentials)
	}
	s.mu.Lock()
	hash := s.passwordHash
	s.mu.Unlock()
	if hash == nil {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return fmt.Errorf("%w: password does not match", ErrInvalidCredentials)
	}
	return nil
}

func (s *Service) hasPassword() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.passwordHash != nil
}

func hashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

func (s *Service) setPassword(password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.passwordHash = hash
	s.mu.Unlock()
	return nil
}

func checkNewPassword(password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}
