package service

import (
	"context"
	"testing"
	"time"

	"bitwise74/recipe-api/internal/model"
	"bitwise74/recipe-api/internal/testutil"
	"bitwise74/recipe-api/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotateRefreshToken(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.NewUser(t, db)
	issuer := security.NewTokenIssuer("test-secret", time.Minute, time.Hour)

	pair, err := IssueTokenPair(db, issuer, user.ID)
	require.NoError(t, err)

	claims, err := issuer.Parse(pair.Access, security.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	got, next, err := RotateRefreshToken(db, issuer, pair.Refresh)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEqual(t, pair.Refresh, next.Refresh)

	// A refresh token works once
	_, _, err = RotateRefreshToken(db, issuer, pair.Refresh)
	assert.ErrorIs(t, err, ErrInvalidRefresh)

	// Access tokens can't be used to refresh
	_, _, err = RotateRefreshToken(db, issuer, next.Access)
	assert.ErrorIs(t, err, ErrInvalidRefresh)

	require.NoError(t, db.Model(&model.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)
	_, _, err = RotateRefreshToken(db, issuer, next.Refresh)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestPurgeExpiredTokens(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.NewUser(t, db)
	now := time.Now()

	require.NoError(t, db.Create(&model.RefreshToken{UserID: user.ID, TokenID: "old", ExpiresAt: now.Add(-time.Hour)}).Error)
	require.NoError(t, db.Create(&model.RefreshToken{UserID: user.ID, TokenID: "new", ExpiresAt: now.Add(time.Hour)}).Error)

	n, err := PurgeExpiredTokens(db, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var left []string
	require.NoError(t, db.Model(&model.RefreshToken{}).Pluck("token_id", &left).Error)
	assert.Equal(t, []string{"new"}, left)
}

func TestTokenCleanupRunsUntilCancelled(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.NewUser(t, db)

	require.NoError(t, db.Create(&model.RefreshToken{UserID: user.ID, TokenID: "old", ExpiresAt: time.Now().Add(-time.Hour)}).Error)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	TokenCleanup(ctx, 10*time.Millisecond, db)

	assert.Eventually(t, func() bool {
		var n int64
		db.Model(&model.RefreshToken{}).Count(&n)
		return n == 0
	}, 2*time.Second, 20*time.Millisecond)
}
