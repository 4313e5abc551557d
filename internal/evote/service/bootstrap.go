package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/evote/internal/evote/domain"
	"github.com/aussiebroadwan/evote/internal/evote/store"
	"github.com/aussiebroadwan/evote/pkg/cryptox"
	"github.com/aussiebroadwan/evote/pkg/idx"
	"github.com/aussiebroadwan/evote/pkg/slogx"
)

var ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")

const minPasswordLength = 12

type BootstrapService struct {
	Store store.Store
	Token string // pre-configured bootstrap token; empty disables bootstrap
	Now   func() time.Time
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Admins().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// Bootstrap creates the first administrator.
func (s *BootstrapService) Bootstrap(ctx context.Context, token, username, password string) (domain.Admin, error) {
	l := slogx.FromContext(ctx)

	// 1. Validate provided token
	if s.Token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
		l.Warn("unauthorized bootstrap attempt")
		return domain.Admin{}, ErrBootstrapUnauthorized
	}

	// 2. Check if already bootstrapped
	bootstrapped, err := s.IsBootstrapped(ctx)
	if err != nil {
		return domain.Admin{}, fmt.Errorf("check bootstrap state: %w", err)
	}
	if bootstrapped {
		l.Warn("attempted bootstrap on already-bootstrapped system")
		return domain.Admin{}, ErrAlreadyBootstrapped
	}

	// 3. Validate credentials
	username = strings.TrimSpace(username)
	if username == "" || len(username) > maxNameLength {
		return domain.Admin{}, fmt.Errorf("%w: username is required", ErrInvalidRequest)
	}
	if len(password) < minPasswordLength {
		return domain.Admin{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidRequest, minPasswordLength)
	}

	// 4. Hash password
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		l.Error("failed to hash admin password", slog.Any("error", err))
		return domain.Admin{}, fmt.Errorf("hash password: %w", err)
	}

	// 5. Create the admin; the emptiness check is repeated inside the tx
	now := nowOr(s.Now)
	admin := domain.Admin{
		ID:           idx.NewAt(now).String(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
	}
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		empty, err := tx.Admins().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return ErrAlreadyBootstrapped
		}
		return tx.Admins().CreateAdmin(ctx, admin)
	})
	if errors.Is(err, ErrAlreadyBootstrapped) {
		return domain.Admin{}, err
	}
	if err != nil {
		return domain.Admin{}, fmt.Errorf("create admin: %w", err)
	}

	l.Info("successfully bootstrapped system", slog.String("admin_id", admin.ID))
	return admin, nil
}
