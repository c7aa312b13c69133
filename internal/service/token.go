package service

import (
	"errors"
	"fmt"
	"time"

	"bitwise74/recipe-api/internal/model"
	"bitwise74/recipe-api/pkg/security"

	"gorm.io/gorm"
)

// ErrInvalidRefresh is returned for refresh tokens that are malformed,
// expired, already used or belong to an inactive user
var ErrInvalidRefresh = errors.New("token is invalid or expired")

// TokenPair is handed out on login and refresh
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// IssueTokenPair signs a new access/refresh pair for userID and records the
// refresh token so it can be rotated later
func IssueTokenPair(tx *gorm.DB, issuer *security.TokenIssuer, userID string) (*TokenPair, error) {
	access, _, err := issuer.Issue(userID, security.TokenTypeAccess)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token, %w", err)
	}

	refresh, claims, err := issuer.Issue(userID, security.TokenTypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token, %w", err)
	}

	err = tx.Create(&model.RefreshToken{
		UserID:    userID,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}).Error
	if err != nil {
		return nil, storageErr(err)
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// RotateRefreshToken exchanges a refresh token for a new pair and returns
// the user it belongs to. The old refresh token is revoked, so each one can
// be used only once.
func RotateRefreshToken(tx *gorm.DB, issuer *security.TokenIssuer, refresh string) (*model.User, *TokenPair, error) {
	claims, err := issuer.Parse(refresh, security.TokenTypeRefresh)
	if err != nil {
		return nil, nil, ErrInvalidRefresh
	}

	res := tx.
		Where("token_id = ? AND user_id = ? AND expires_at > ?", claims.ID, claims.UserID, time.Now()).
		Delete(&model.RefreshToken{})
	if res.Error != nil {
		return nil, nil, storageErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil, ErrInvalidRefresh
	}

	user, err := GetUser(tx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, ErrInvalidRefresh
		}
		return nil, nil, err
	}

	pair, err := IssueTokenPair(tx, issuer, user.ID)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// PurgeExpiredTokens deletes refresh tokens that can no longer be used
func PurgeExpiredTokens(db *gorm.DB, now time.Time) (int64, error) {
	res := db.Where("expires_at < ?", now).Delete(&model.RefreshToken{})
	if res.Error != nil {
		return 0, storageErr(res.Error)
	}

	return res.RowsAffected, nil
}
