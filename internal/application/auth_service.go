package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eadebayo/delicioso/config"
	"github.com/eadebayo/delicioso/internal/domain/entity"
	"github.com/eadebayo/delicioso/internal/domain/repository"
	"github.com/eadebayo/delicioso/pkg/helpers"
	"github.com/eadebayo/delicioso/pkg/mailer"
)

// AuthService owns credential and session handling: registration, login,
// stateless token verification (including revocation by password change),
// and the password reset lifecycle. Outbound emails are published as jobs;
// the worker delivers them.
type AuthService struct {
	Users  repository.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
	Pub    *helpers.RabbitPublisher
	Cfg    *config.Config
}

func NewAuthService(users repository.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger, pub *helpers.RabbitPublisher, cfg *config.Config) *AuthService {
	return &AuthService{Users: users, JWT: jwt, Logger: logger, Pub: pub, Cfg: cfg}
}

// activeOnly is the read predicate for every auth path: soft-deleted
// accounts cannot log in, be authenticated, or reset their password.
var activeOnly = repository.UserFilter{ActiveOnly: true}

// Register creates an account and logs the user straight in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*entity.User, string, time.Time, error) {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	u := &entity.User{Name: name, Email: email, Role: entity.RoleUser, PasswordHash: hash, Active: true}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", time.Time{}, ErrEmailTaken
		}
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.JWT.Generate(u.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publishEmail(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateWelcome,
		Data:     map[string]any{"Name": u.Name},
	})
	return u, token, exp, nil
}

// Login validates email/password and issues a session token. Issuance is
// side-effect free; no session record exists anywhere.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, string, time.Time, error) {
	u, err := s.Users.GetByEmail(ctx, email, activeOnly)
	if err != nil || u == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	token, exp, err := s.JWT.Generate(u.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return u, token, exp, nil
}

// Authenticate resolves a session token to its principal. It rejects the
// token when the signature or expiry fails, when the subject no longer
// exists or is deactivated, or when the token was issued before the
// subject's last password change.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := s.JWT.Parse(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	u, err := s.Users.GetByID(ctx, claims.UserID, activeOnly)
	if err != nil || u == nil {
		return nil, ErrUnauthenticated
	}
	if claims.IssuedAt != nil && u.ChangedPasswordAfter(claims.IssuedAt.Time) {
		return nil, ErrUnauthenticated
	}
	return u, nil
}

// UpdatePassword changes the password of a logged-in user after verifying
// the current one, then issues a fresh token. password_changed_at is
// backdated by one second so the new token (same-second iat) stays valid
// while all earlier tokens are revoked.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, current, newPassword string) (string, time.Time, error) {
	u, err := s.Users.GetByID(ctx, userID, activeOnly)
	if err != nil || u == nil {
		return "", time.Time{}, ErrNotFound
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, current) {
		return "", time.Time{}, ErrInvalidCredentials
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return "", time.Time{}, err
	}
	if err := s.Users.UpdatePassword(ctx, u.ID, hash, time.Now().Add(-time.Second)); err != nil {
		return "", time.Time{}, err
	}
	return s.JWT.Generate(u.ID)
}

// ForgotPassword issues a reset token for the account registered under
// email. The raw token leaves the process only inside the email job; the
// stored side is its hash plus a 10 minute expiry. Unknown addresses are
// not reported to the caller.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email, activeOnly)
	if err != nil || u == nil {
		if s.Logger != nil {
			s.Logger.WithField("email", email).Info("password reset requested for unknown email")
		}
		return nil
	}
	raw, hash, expires, err := helpers.NewResetToken()
	if err != nil {
		return err
	}
	if err := s.Users.SetResetToken(ctx, u.ID, hash, expires); err != nil {
		return err
	}
	s.publishEmail(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplatePasswordReset,
		Data: map[string]any{
			"Name":     u.Name,
			"ResetURL": s.Cfg.ResetPasswordURL + "?token=" + raw,
		},
	})
	return nil
}

// ResetPassword consumes a raw reset token: the matching user gets the new
// password and both reset fields are cleared in the same update, making the
// token single-use. A fresh session token is returned so the user is logged
// in immediately.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, newPassword string) (*entity.User, string, time.Time, error) {
	u, err := s.Users.GetByResetTokenHash(ctx, helpers.HashResetToken(rawToken), activeOnly)
	if err != nil || u == nil {
		return nil, "", time.Time{}, ErrInvalidResetToken
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if err := s.Users.ResetPassword(ctx, u.ID, hash, time.Now().Add(-time.Second)); err != nil {
		return nil, "", time.Time{}, err
	}
	token, exp, err := s.JWT.Generate(u.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return u, token, exp, nil
}

func (s *AuthService) publishEmail(ctx context.Context, job mailer.EmailJob) {
	if s.Pub == nil || s.Cfg == nil || !s.Cfg.MailSendEnabled {
		return
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("template", job.Template).Warn("email job publish failed")
	}
}
