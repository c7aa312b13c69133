package service

import (
	"errors"
	"time"

	"bitwise74/recipe-api/internal/model"
	"bitwise74/recipe-api/pkg/validators"

	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// ProfileFields holds the writable fields of a profile. A nil pointer means
// the field was not part of the request. An empty DOB clears it.
type ProfileFields struct {
	Bio      *string `json:"bio" validate:"omitempty,max=225"`
	DOB      *string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Pronouns *string `json:"pronouns" validate:"omitempty,oneof=SHE HE THEY CUSTOM NONE"`
	Gender   *string `json:"gender" validate:"omitempty,oneof=FEMALE MALE CUSTOM NONE"`
}

func (f *ProfileFields) updates() (map[string]any, error) {
	if fields := validators.Struct(f); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	updates := map[string]any{}

	if f.Bio != nil {
		updates["bio"] = *f.Bio
	}

	if f.DOB != nil {
		if *f.DOB == "" {
			updates["dob"] = nil
		} else {
			// Already checked by the datetime tag
			dob, _ := time.Parse(dateLayout, *f.DOB)
			updates["dob"] = dob
		}
	}

	if f.Pronouns != nil {
		updates["pronouns"] = model.Pronouns(*f.Pronouns)
	}

	if f.Gender != nil {
		updates["gender"] = model.Gender(*f.Gender)
	}

	return updates, nil
}

// GetProfile returns the profile of userID
func GetProfile(db *gorm.DB, userID string) (*model.UserProfile, error) {
	var profile model.UserProfile

	err := db.Where("user_id = ?", userID).Take(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageErr(err)
	}

	return &profile, nil
}

// CreateProfile creates the profile of userID. A user has at most one
// profile, a second attempt fails with ErrProfileExists.
func CreateProfile(tx *gorm.DB, userID string, f ProfileFields) (*model.UserProfile, error) {
	updates, err := f.updates()
	if err != nil {
		return nil, err
	}

	if _, err := GetProfile(tx, userID); err == nil {
		return nil, ErrProfileExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	profile := &model.UserProfile{
		UserID:   userID,
		Pronouns: model.PronounsNone,
		Gender:   model.GenderNone,
	}

	if err := tx.Create(profile).Error; err != nil {
		return nil, storageErr(err)
	}

	if len(updates) > 0 {
		if err := tx.Model(profile).Updates(updates).Error; err != nil {
			return nil, storageErr(err)
		}
	}

	return GetProfile(tx, userID)
}

// UpdateProfile applies the present fields to the profile of userID
func UpdateProfile(tx *gorm.DB, userID string, f ProfileFields) (*model.UserProfile, error) {
	updates, err := f.updates()
	if err != nil {
		return nil, err
	}

	profile, err := GetProfile(tx, userID)
	if err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		if err := tx.Model(profile).Updates(updates).Error; err != nil {
			return nil, storageErr(err)
		}
	}

	return GetProfile(tx, userID)
}

// SetProfilePicture stores a new picture key and returns the one it
// replaced, empty if there was none
func SetProfilePicture(tx *gorm.DB, userID, key string) (string, error) {
	profile, err := GetProfile(tx, userID)
	if err != nil {
		return "", err
	}

	old := profile.Picture

	if err := tx.Model(profile).Update("picture", key).Error; err != nil {
		return "", storageErr(err)
	}

	return old, nil
}
