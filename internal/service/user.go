package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"shoppingCart/internal/apperr"
	"shoppingCart/internal/auth"
	"shoppingCart/internal/remote"
	"shoppingCart/internal/session"
	"shoppingCart/internal/validate"
	"shoppingCart/models"
	"shoppingCart/repository"
)

// ErrDuplicateEmail is the message shown when registering an address that is already taken.
const ErrDuplicateEmail = "User with this email already exists"

type UserService struct {
	users    repository.UserRepositoryI
	api      *remote.Client
	state    *session.State
	settings *session.Settings
	secret   string
	ttl      time.Duration
	log      *slog.Logger
}

func NewUserService(users repository.UserRepositoryI, api *remote.Client, state *session.State, settings *session.Settings, secret string, ttl time.Duration, log *slog.Logger) *UserService {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &UserService{users: users, api: api, state: state, settings: settings, secret: secret, ttl: ttl, log: orDefault(log)}
}

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Name     string `validate:"required,max=80"`
	Email    string `validate:"required,email"`
	Phone    string `validate:"omitempty,phone"`
	Password string `validate:"required,min=6,max=72"`
}

// Register creates a local account. It does not sign the user in.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validate.Struct(in); err != nil {
		return nil, apperr.Custom(err.Error())
	}

	exists, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fail(s.log, "user.register", err)
	}
	if exists {
		return nil, apperr.Custom(ErrDuplicateEmail)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fail(s.log, "user.register", err)
	}
	u, err := s.users.Create(ctx, &models.User{Name: in.Name, Email: in.Email, Phone: in.Phone, PasswordHash: hash})
	if isUniqueViolation(err) {
		// Lost a race with a concurrent registration of the same address.
		return nil, apperr.Custom(ErrDuplicateEmail)
	}
	if err != nil {
		return nil, fail(s.log, "user.register", err)
	}
	s.log.Info("user registered", "user_id", u.ID)
	return u, nil
}

// Login checks local credentials, issues a session token and remembers the session.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fail(s.log, "user.login", err)
	}
	if u == nil || auth.CheckPassword(u.PasswordHash, password) != nil {
		return nil, apperr.Unauthorized(auth.ErrBadCredentials.Error())
	}
	tok, err := auth.IssueToken(s.secret, u, s.ttl)
	if err != nil {
		return nil, fail(s.log, "user.login", err)
	}
	return s.startSession(ctx, u, tok)
}

// RemoteLogin signs in against the backend and caches the returned account locally.
func (s *UserService) RemoteLogin(ctx context.Context, email, password string) (*models.User, error) {
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, fail(s.log, "user.remote_login", err)
	}
	return s.remoteSession(ctx, "user.remote_login", resp)
}

// RemoteRegister creates the account on the backend and signs it in. The local
// cache holds no password for it, so later sign-ins go through RemoteLogin.
func (s *UserService) RemoteRegister(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validate.Struct(in); err != nil {
		return nil, apperr.Custom(err.Error())
	}
	resp, err := s.api.Register(ctx, remote.RegisterRequest{Name: in.Name, Email: in.Email, Phone: in.Phone, Password: in.Password})
	if err != nil {
		return nil, fail(s.log, "user.remote_register", err)
	}
	return s.remoteSession(ctx, "user.remote_register", resp)
}

func (s *UserService) remoteSession(ctx context.Context, op string, resp *remote.AuthResponse) (*models.User, error) {
	if resp.Token == "" {
		return nil, fail(s.log, op, apperr.Empty("auth response has no token"))
	}
	du, err := resp.User.ToDomain()
	if err != nil {
		return nil, fail(s.log, op, err)
	}
	du.Token = resp.Token
	u, err := s.users.UpsertRemote(ctx, du)
	if err != nil {
		return nil, fail(s.log, op, err)
	}
	return s.startSession(ctx, u, resp.Token)
}

func (s *UserService) startSession(ctx context.Context, u *models.User, tok string) (*models.User, error) {
	if err := s.users.UpdateToken(ctx, u.ID, tok); err != nil {
		return nil, fail(s.log, "user.session", err)
	}
	if err := s.settings.SaveLogin(ctx, u.ID, tok); err != nil {
		return nil, fail(s.log, "user.session", err)
	}
	u.Token = tok
	s.state.SetToken(tok)
	s.state.SetUser(u)
	s.log.Info("user signed in", "user_id", u.ID)
	return u, nil
}

// Restore reloads the remembered session into the state, if any.
// Locally issued tokens are verified; an expired one clears the session.
func (s *UserService) Restore(ctx context.Context) (*models.User, error) {
	id, tok, err := s.settings.Login(ctx)
	if err != nil {
		return nil, fail(s.log, "user.restore", err)
	}
	if id == 0 {
		return nil, apperr.Empty("no saved session")
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fail(s.log, "user.restore", err)
	}
	if u == nil {
		_ = s.settings.ClearLogin(ctx)
		return nil, apperr.Empty("saved user no longer exists")
	}
	if u.PasswordHash != "" {
		if _, err := auth.ParseToken(s.secret, tok); err != nil {
			_ = s.settings.ClearLogin(ctx)
			return nil, apperr.Unauthorized("session expired")
		}
	}
	u.Token = tok
	s.state.SetToken(tok)
	s.state.SetUser(u)
	return u, nil
}

func (s *UserService) Logout(ctx context.Context) error {
	if u := s.state.User(); u != nil {
		if err := s.users.UpdateToken(ctx, u.ID, ""); err != nil {
			return fail(s.log, "user.logout", err)
		}
	}
	if err := s.settings.ClearLogin(ctx); err != nil {
		return fail(s.log, "user.logout", err)
	}
	s.state.Clear()
	return nil
}

// ProfileInput holds the editable profile fields.
type ProfileInput struct {
	Name  string `validate:"required,max=80"`
	Phone string `validate:"omitempty,phone"`
}

func (s *UserService) UpdateProfile(ctx context.Context, in ProfileInput) (*models.User, error) {
	u, err := requireUser(s.state)
	if err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return nil, apperr.Custom(err.Error())
	}
	u.Name, u.Phone = in.Name, in.Phone
	if err := s.users.UpdateProfile(ctx, u); err != nil {
		return nil, fail(s.log, "user.update_profile", err)
	}
	s.state.SetUser(u)
	return u, nil
}

// ResetPassword replaces the password of a local account.
func (s *UserService) ResetPassword(ctx context.Context, email, newPassword string) error {
	if err := validate.Var(newPassword, "required,min=6,max=72"); err != nil {
		return apperr.Custom("password must be 6 to 72 characters")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fail(s.log, "user.reset_password", err)
	}
	if u == nil {
		return apperr.Empty("no account for this email")
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fail(s.log, "user.reset_password", err)
	}
	if err := s.users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return fail(s.log, "user.reset_password", err)
	}
	return nil
}

// Current returns the signed-in user.
func (s *UserService) Current() (*models.User, error) {
	return requireUser(s.state)
}

// SetRole changes the role of a local account. Only admins may do this.
func (s *UserService) SetRole(ctx context.Context, email string, role models.Role) error {
	u, err := requireUser(s.state)
	if err != nil {
		return err
	}
	if !u.IsAdmin() {
		return apperr.Forbidden("only admins can change roles")
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return apperr.Custom("unknown role " + string(role))
	}
	if err := s.users.UpdateRoleByEmail(ctx, email, role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.Empty("no account for " + strings.TrimSpace(email))
		}
		return fail(s.log, "user.set_role", err)
	}
	s.log.Info("role changed", "email", strings.TrimSpace(email), "role", string(role), "by", u.ID)
	return nil
}
