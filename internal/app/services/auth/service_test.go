package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	domainauth "innkeeper/internal/domain/auth"
	domainuser "innkeeper/internal/domain/user"
	"innkeeper/internal/infra/security"
	"innkeeper/internal/infra/storage/memory"
)

func newService(t *testing.T) (*Service, *memory.UserRepository, *memory.SessionStore) {
	t.Helper()
	users := memory.NewUserRepository()
	sessions := memory.NewSessionStore()
	svc := &Service{
		Users:     users,
		Sessions:  sessions,
		Passwords: security.BcryptHasher{},
		Tokens:    security.RandomTokenGenerator{},
	}
	return svc, users, sessions
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a guest account and issues a token", func(t *testing.T) {
		svc, _, _ := newService(t)
		result, err := svc.Register(ctx, RegisterParams{Email: "Guest@Example.com", Name: "Guest", Password: "correct horse"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Token == "" {
			t.Fatalf("expected session token")
		}
		if result.User.Email != "guest@example.com" {
			t.Fatalf("email not normalized: %s", result.User.Email)
		}
		if !result.User.HasRole(domainuser.RoleGuest) {
			t.Fatalf("expected guest role, got %v", result.User.Roles)
		}
		if result.User.HasRole(domainuser.RoleAdmin) {
			t.Fatalf("self-registration must never grant admin")
		}
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc, _, _ := newService(t)
		if _, err := svc.Register(ctx, RegisterParams{Email: "a@b.com", Name: "A", Password: "long enough"}); err != nil {
			t.Fatalf("first register: %v", err)
		}
		_, err := svc.Register(ctx, RegisterParams{Email: "A@B.com", Name: "B", Password: "long enough"})
		if !errors.Is(err, domainuser.ErrEmailAlreadyUsed) {
			t.Fatalf("expected ErrEmailAlreadyUsed, got %v", err)
		}
	})

	t.Run("rejects short password", func(t *testing.T) {
		svc, _, _ := newService(t)
		_, err := svc.Register(ctx, RegisterParams{Email: "a@b.com", Name: "A", Password: "short"})
		if !errors.Is(err, ErrPasswordTooShort) {
			t.Fatalf("expected ErrPasswordTooShort, got %v", err)
		}
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		svc, _, _ := newService(t)
		if _, err := svc.Register(ctx, RegisterParams{Email: "a@b.com", Name: "A", Password: "long enough"}); err != nil {
			t.Fatalf("register: %v", err)
		}
		result, err := svc.Login(ctx, LoginParams{Email: "a@b.com", Password: "long enough"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Token == "" {
			t.Fatalf("expected session token")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _, _ := newService(t)
		if _, err := svc.Register(ctx, RegisterParams{Email: "a@b.com", Name: "A", Password: "long enough"}); err != nil {
			t.Fatalf("register: %v", err)
		}
		_, err := svc.Login(ctx, LoginParams{Email: "a@b.com", Password: "wrong wrong"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, _, _ := newService(t)
		_, err := svc.Login(ctx, LoginParams{Email: "nobody@b.com", Password: "long enough"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestResolveToken(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		svc, _, _ := newService(t)
		reg, err := svc.Register(ctx, RegisterParams{Email: "a@b.com", Name: "A", Password: "long enough"})
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		resolved, err := svc.ResolveToken(ctx, reg.Token)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resolved.User.ID != reg.User.ID {
			t.Fatalf("resolved wrong user")
		}
	})

	t.Run("logout revokes the session", func(t *testing.T) {
		svc, _, _ := newService(t)
		reg, err := svc.Register(ctx, RegisterParams{Email: "a@b.com", Name: "A", Password: "long enough"})
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		if err := svc.Logout(ctx, reg.Token); err != nil {
			t.Fatalf("logout: %v", err)
		}
		if _, err := svc.ResolveToken(ctx, reg.Token); !errors.Is(err, domainauth.ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("expired session is rejected and removed", func(t *testing.T) {
		svc, _, sessions := newService(t)
		reg, err := svc.Register(ctx, RegisterParams{Email: "a@b.com", Name: "A", Password: "long enough"})
		if err != nil {
			t.Fatalf("register: %v", err)
		}

		expired, err := domainauth.NewSession(domainauth.CreateSessionParams{
			Token:  "expired-token",
			UserID: reg.User.ID,
			TTL:    time.Minute,
			Now:    time.Now().Add(-time.Hour),
		})
		if err != nil {
			t.Fatalf("building session: %v", err)
		}
		if err := sessions.Save(ctx, expired); err != nil {
			t.Fatalf("saving session: %v", err)
		}

		if _, err := svc.ResolveToken(ctx, "expired-token"); !errors.Is(err, domainauth.ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("blocked user loses all sessions", func(t *testing.T) {
		svc, users, _ := newService(t)
		reg, err := svc.Register(ctx, RegisterParams{Email: "a@b.com", Name: "A", Password: "long enough"})
		if err != nil {
			t.Fatalf("register: %v", err)
		}

		account, err := users.ByID(ctx, reg.User.ID)
		if err != nil {
			t.Fatalf("loading user: %v", err)
		}
		account.Blocked = true
		if err := users.Save(ctx, account); err != nil {
			t.Fatalf("saving user: %v", err)
		}

		if _, err := svc.ResolveToken(ctx, reg.Token); !errors.Is(err, ErrUserBlocked) {
			t.Fatalf("expected ErrUserBlocked, got %v", err)
		}
		if _, err := svc.ResolveToken(ctx, reg.Token); !errors.Is(err, domainauth.ErrSessionNotFound) {
			t.Fatalf("expected session deleted after block, got %v", err)
		}
	})
}
