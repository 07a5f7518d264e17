package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go-estoque-condo/internal/model"
	"go-estoque-condo/internal/store"
	"go-estoque-condo/pkg/jwt"
	"go-estoque-condo/pkg/password"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	minPasswordLength = 6
	maxPasswordBytes  = 72 // bcrypt rejects longer secrets
	migrationTimeout  = 10 * time.Second
)

type AuthService interface {
	Login(ctx context.Context, identifier, password string) (*Session, error)
	SignUp(ctx context.Context, req *SignUpRequest) (*Session, error)
	SignOut(ctx context.Context, userID uuid.UUID) error
	CurrentSession(ctx context.Context, token string) (*Session, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, newPassword string) error
	ResetPassword(ctx context.Context, identifier, oldPassword, newPassword string) error
	// Wait blocks until background password migrations have finished.
	Wait()
}

// Session is the authenticated state handed to a client after login. It
// replaces any notion of a process-wide "current user".
type Session struct {
	Token      string             `json:"token"`
	ExpiresAt  time.Time          `json:"expires_at"`
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

func (s *Session) UserID() uuid.UUID {
	return s.User.ID
}

func (s *Session) HasPrivilege(code string) bool {
	for _, p := range s.Privileges {
		if p == code {
			return true
		}
	}
	return false
}

type SignUpRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password string  `json:"password" validate:"required,min=6"`
	FullName string  `json:"full_name"`
}

// AuthOptions carries the sign-up policy and the development-only bootstrap
// login. The bootstrap pair only ever applies to an existing user that has
// no password stored, and only while BootstrapEnabled is set.
type AuthOptions struct {
	AllowSignup         bool
	SignupRole          string
	BootstrapEnabled    bool
	BootstrapIdentifier string
	BootstrapPassword   string
}

type authService struct {
	store  store.Provider
	hasher password.Hasher
	tokens *jwt.Manager
	opts   AuthOptions
	log    *zap.Logger

	migrations sync.WaitGroup
}

func NewAuthService(p store.Provider, hasher password.Hasher, tokens *jwt.Manager, opts AuthOptions, log *zap.Logger) AuthService {
	return &authService{
		store:  p,
		hasher: hasher,
		tokens: tokens,
		opts:   opts,
		log:    log,
	}
}

func (s *authService) Login(ctx context.Context, identifier, secret string) (*Session, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || secret == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.Users().FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	stored := user.Password
	switch {
	case stored == "":
		if !s.bootstrapMatches(identifier, secret) {
			return nil, ErrInvalidCredentials
		}
		s.log.Warn("bootstrap login used; set a password for this account",
			zap.String("user_id", user.ID.String()))

	case password.IsHashed(stored):
		if !s.hasher.Verify(stored, secret) {
			return nil, ErrInvalidCredentials
		}

	default:
		if subtle.ConstantTimeCompare([]byte(stored), []byte(secret)) != 1 {
			return nil, ErrInvalidCredentials
		}
		s.migrateLegacyPassword(user.ID, stored)
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return s.issueSession(ctx, user)
}

func (s *authService) bootstrapMatches(identifier, secret string) bool {
	if !s.opts.BootstrapEnabled || s.opts.BootstrapIdentifier == "" || s.opts.BootstrapPassword == "" {
		return false
	}
	idOK := subtle.ConstantTimeCompare([]byte(strings.ToLower(identifier)), []byte(strings.ToLower(s.opts.BootstrapIdentifier))) == 1
	pwOK := subtle.ConstantTimeCompare([]byte(secret), []byte(s.opts.BootstrapPassword)) == 1
	return idOK && pwOK
}

// migrateLegacyPassword replaces a plaintext secret with its hash in the
// background. The write only lands while the stored value is still the same
// plaintext, so repeated logins never hash a hash. Failures are logged and
// never reach the caller.
func (s *authService) migrateLegacyPassword(userID uuid.UUID, plain string) {
	s.migrations.Add(1)
	go func() {
		defer s.migrations.Done()

		ctx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
		defer cancel()

		hashed, err := s.hasher.Hash(plain)
		if err != nil {
			s.log.Warn("legacy password hash failed", zap.String("user_id", userID.String()), zap.Error(err))
			return
		}
		replaced, err := s.store.Users().ReplacePassword(ctx, userID, plain, hashed)
		if err != nil {
			s.log.Warn("legacy password migration failed", zap.String("user_id", userID.String()), zap.Error(err))
			return
		}
		if replaced {
			s.log.Info("legacy password migrated", zap.String("user_id", userID.String()))
		}
	}()
}

func (s *authService) Wait() {
	s.migrations.Wait()
}

// issueSession rotates the token version, which ends every other session
// of the user, and signs a token carrying the new version.
func (s *authService) issueSession(ctx context.Context, user *model.User) (*Session, error) {
	version := uuid.New().String()
	if err := s.store.Users().UpdateTokenVersion(ctx, user.ID, version); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	token, expiresAt, err := s.tokens.GenerateToken(jwt.Claims{
		UserID:       user.ID,
		Username:     user.Username,
		Name:         user.DisplayName(),
		RoleCode:     user.RoleCode(),
		Privileges:   user.GetPrivilegeCodes(),
		TokenVersion: version,
	})
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return newSession(token, expiresAt, user), nil
}

func newSession(token string, expiresAt time.Time, user *model.User) *Session {
	return &Session{
		Token:      token,
		ExpiresAt:  expiresAt,
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}
}

func (s *authService) SignUp(ctx context.Context, req *SignUpRequest) (*Session, error) {
	if !s.opts.AllowSignup {
		return nil, ErrSignupDisabled
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Email != nil {
		trimmed := strings.TrimSpace(*req.Email)
		req.Email = &trimmed
		if trimmed == "" {
			req.Email = nil
		}
	}
	if err := validationError(req); err != nil {
		return nil, err
	}
	if err := checkPassword(req.Password); err != nil {
		return nil, err
	}

	taken, err := s.store.Users().ExistsIdentifier(ctx, req.Username, req.Email, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: username or email", ErrDuplicateIdentifier)
	}

	role, err := s.store.Roles().FindByCode(ctx, s.opts.SignupRole)
	if err != nil {
		return nil, fmt.Errorf("sign up role %q: %w", s.opts.SignupRole, err)
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashed,
		FullName: req.FullName,
		RoleID:   &role.ID,
		IsActive: true,
	}
	user.CreatedBy = "signup"
	user.UpdatedBy = "signup"
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, storeError(err)
	}
	user.Role = role

	return s.issueSession(ctx, user)
}

func (s *authService) SignOut(ctx context.Context, userID uuid.UUID) error {
	return s.store.Users().UpdateTokenVersion(ctx, userID, uuid.New().String())
}

// CurrentSession checks a token against the stored user: the account must
// still exist, be active and carry the token's version.
func (s *authService) CurrentSession(ctx context.Context, token string) (*Session, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidSession
	}

	user, err := s.store.Users().FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if user.TokenVersion == "" || user.TokenVersion != claims.TokenVersion {
		return nil, ErrInvalidSession
	}

	return newSession(token, claims.ExpiresAt.Time, user), nil
}

// ChangePassword always stores a hash.
func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	if err := checkPassword(newPassword); err != nil {
		return err
	}
	if _, err := s.store.Users().FindByID(ctx, userID); err != nil {
		return notFound("user", err)
	}
	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.store.Users().UpdatePassword(ctx, userID, hashed)
}

// ResetPassword verifies the current secret (hashed or legacy) before
// storing the new one, then ends all sessions of the user.
func (s *authService) ResetPassword(ctx context.Context, identifier, oldPassword, newPassword string) error {
	identifier = strings.TrimSpace(identifier)
	if err := checkPassword(newPassword); err != nil {
		return err
	}

	user, err := s.store.Users().FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}

	stored := user.Password
	var ok bool
	switch {
	case stored == "":
		ok = s.bootstrapMatches(identifier, oldPassword)
	case password.IsHashed(stored):
		ok = s.hasher.Verify(stored, oldPassword)
	default:
		ok = subtle.ConstantTimeCompare([]byte(stored), []byte(oldPassword)) == 1
	}
	if !ok {
		return ErrInvalidCredentials
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	replaced, err := s.store.Users().ReplacePassword(ctx, user.ID, stored, hashed)
	if err != nil {
		return err
	}
	if !replaced {
		return ErrConcurrentUpdate
	}
	return s.SignOut(ctx, user.ID)
}

func checkPassword(p string) error {
	if len(p) < minPasswordLength {
		return invalid("password must be at least %d characters", minPasswordLength)
	}
	if len(p) > maxPasswordBytes {
		return invalid("password must be at most %d bytes", maxPasswordBytes)
	}
	return nil
}
