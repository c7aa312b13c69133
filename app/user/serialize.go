// Package user contains the account and profile endpoints
package user

import (
	"bitwise74/recipe-api/internal/model"
	"bitwise74/recipe-api/internal/service"
	"bitwise74/recipe-api/internal/storage"
)

type userRecord struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// userWithToken is returned on login and refresh
type userWithToken struct {
	userRecord
	service.TokenPair
	IsAdmin bool `json:"is_admin"`
}

type profileRecord struct {
	User      string  `json:"user"`
	Picture   *string `json:"picture"`
	Bio       string  `json:"bio"`
	DOB       *string `json:"dob"`
	Pronouns  string  `json:"pronouns"`
	Gender    string  `json:"gender"`
	CreatedOn string  `json:"created_on"`
}

func toUser(u *model.User) userRecord {
	return userRecord{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
	}
}

func toUserWithToken(u *model.User, p *service.TokenPair) userWithToken {
	return userWithToken{
		userRecord: toUser(u),
		TokenPair:  *p,
		IsAdmin:    u.IsStaff,
	}
}

func toProfile(p *model.UserProfile, s storage.Store) profileRecord {
	out := profileRecord{
		User:      p.UserID,
		Bio:       p.Bio,
		Pronouns:  string(p.Pronouns),
		Gender:    string(p.Gender),
		CreatedOn: p.CreatedOn.UTC().Format("2006-01-02T15:04:05.000000Z"),
	}

	if p.Picture != "" {
		u := s.URL(p.Picture)
		out.Picture = &u
	}

	if p.DOB != nil {
		dob := p.DOB.Format("2006-01-02")
		out.DOB = &dob
	}

	return out
}
