package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBootstrapAndLogin(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	svc := &BootstrapService{Store: f.store, Token: "s3cret-token", Now: f.clock.Now}

	_, err := svc.Bootstrap(ctx, "wrong", "root", "correct horse battery")
	require.ErrorIs(t, err, ErrBootstrapUnauthorized)

	_, err = svc.Bootstrap(ctx, "s3cret-token", "root", "short")
	require.ErrorIs(t, err, ErrInvalidRequest)

	admin, err := svc.Bootstrap(ctx, "s3cret-token", "root", "correct horse battery")
	require.NoError(t, err)
	require.Equal(t, "root", admin.Username)

	done, err := svc.IsBootstrapped(ctx)
	require.NoError(t, err)
	require.True(t, done)

	_, err = svc.Bootstrap(ctx, "s3cret-token", "again", "correct horse battery")
	require.ErrorIs(t, err, ErrAlreadyBootstrapped)

	got, err := f.admin.Login(ctx, "root", "correct horse battery")
	require.NoError(t, err)
	require.Equal(t, admin.ID, got.ID)

	_, err = f.admin.Login(ctx, "root", "wrong password!!")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.admin.Login(ctx, "nobody", "correct horse battery")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestBootstrapDisabledWithoutToken(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	svc := &BootstrapService{Store: f.store}

	_, err := svc.Bootstrap(context.Background(), "", "root", "correct horse battery")
	require.ErrorIs(t, err, ErrBootstrapUnauthorized)
}
