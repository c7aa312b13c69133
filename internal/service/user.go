package service

import (
	"errors"
	"fmt"

	"bitwise74/recipe-api/internal/model"
	"bitwise74/recipe-api/pkg/validators"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	idLength  = 16
)

// PasswordHasher hashes and verifies user passwords
type PasswordHasher interface {
	GenerateFromPassword(p string) (string, error)
	VerifyPasswd(p, e string) (bool, error)
}

// UserFields holds the writable fields of a user. A nil pointer means the
// field was not part of the request.
type UserFields struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Name     *string `json:"name" validate:"omitempty,max=225"`
}

func (f *UserFields) validate(partial bool) map[string]string {
	fields := validators.Struct(f)
	if fields == nil {
		fields = map[string]string{}
	}

	if f.Email != nil {
		email := validators.NormalizeEmail(*f.Email)
		f.Email = &email

		switch err := validators.EmailValidator(*f.Email); {
		case errors.Is(err, validators.ErrEmailEmpty):
			fields["email"] = msgBlank
		case errors.Is(err, validators.ErrEmailTooLong):
			fields["email"] = "Ensure this field has no more than 225 characters."
		case err != nil:
			fields["email"] = "Enter a valid email address."
		}
	} else if !partial {
		fields["email"] = msgRequired
	}

	if f.Password != nil {
		switch err := validators.PasswordValidator(*f.Password); {
		case errors.Is(err, validators.ErrPasswordEmpty):
			fields["password"] = msgBlank
		case errors.Is(err, validators.ErrPasswordTooShort):
			fields["password"] = "Ensure this field has at least 5 characters."
		case err != nil:
			fields["password"] = "Ensure this field has no more than 255 characters."
		}
	} else if !partial {
		fields["password"] = msgRequired
	}

	return fields
}

func emailTaken(db *gorm.DB, email, exceptID string) (bool, error) {
	var n int64

	err := db.Model(&model.User{}).
		Where("email = ? AND id <> ?", email, exceptID).
		Count(&n).
		Error
	if err != nil {
		return false, storageErr(err)
	}

	return n > 0, nil
}

func newUser(tx *gorm.DB, h PasswordHasher, f UserFields, staff bool) (*model.User, error) {
	if fields := f.validate(false); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	taken, err := emailTaken(tx, *f.Email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, newValidationError("email", "user with this email already exists.")
	}

	hash, err := h.GenerateFromPassword(*f.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password, %w", err)
	}

	id, err := gonanoid.Generate(idCharset, idLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate user ID, %w", err)
	}

	user := &model.User{
		ID:           id,
		Email:        *f.Email,
		PasswordHash: hash,
		IsActive:     true,
		IsStaff:      staff,
	}
	if f.Name != nil {
		user.Name = *f.Name
	}

	if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
		return nil, storageErr(err)
	}

	return user, nil
}

// CreateUser registers a regular user. Emails are unique after normalization
func CreateUser(tx *gorm.DB, h PasswordHasher, f UserFields) (*model.User, error) {
	return newUser(tx, h, f, false)
}

// CreateSuperuser registers a staff user
func CreateSuperuser(tx *gorm.DB, h PasswordHasher, email, password string) (*model.User, error) {
	return newUser(tx, h, UserFields{Email: &email, Password: &password}, true)
}

// GetUser returns an active user by ID
func GetUser(db *gorm.DB, id string) (*model.User, error) {
	var user model.User

	err := db.Where("id = ? AND is_active = ?", id, true).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageErr(err)
	}

	return &user, nil
}

// Authenticate checks an email/password pair. Unknown emails, wrong
// passwords and inactive accounts all fail with ErrInvalidCredentials.
func Authenticate(db *gorm.DB, h PasswordHasher, email, password string) (*model.User, error) {
	var user model.User

	err := db.Where("email = ?", validators.NormalizeEmail(email)).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storageErr(err)
	}

	ok, err := h.VerifyPasswd(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password, %w", err)
	}

	if !ok || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// UpdateUser applies the present fields to the user. A new password is
// hashed before it's stored.
func UpdateUser(tx *gorm.DB, h PasswordHasher, user *model.User, f UserFields) (*model.User, error) {
	if fields := f.validate(true); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	updates := map[string]any{}

	if f.Email != nil && *f.Email != user.Email {
		taken, err := emailTaken(tx, *f.Email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, newValidationError("email", "user with this email already exists.")
		}

		updates["email"] = *f.Email
	}

	if f.Name != nil {
		updates["name"] = *f.Name
	}

	if f.Password != nil {
		hash, err := h.GenerateFromPassword(*f.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password, %w", err)
		}

		updates["password_hash"] = hash
	}

	if len(updates) > 0 {
		if err := tx.Model(user).Updates(updates).Error; err != nil {
			return nil, storageErr(err)
		}
	}

	return GetUser(tx, user.ID)
}

// DeleteUser removes a user together with everything they own. The image
// keys of deleted recipes and the profile picture are returned so the caller
// can remove the files once the transaction commits.
func DeleteUser(tx *gorm.DB, id string) ([]string, error) {
	var keys []string

	err := tx.Model(&model.Recipe{}).
		Where("user_id = ? AND image <> ''", id).
		Pluck("image", &keys).
		Error
	if err != nil {
		return nil, storageErr(err)
	}

	var picture []string
	err = tx.Model(&model.UserProfile{}).
		Where("user_id = ? AND picture <> ''", id).
		Pluck("picture", &picture).
		Error
	if err != nil {
		return nil, storageErr(err)
	}
	keys = append(keys, picture...)

	owned := tx.Model(&model.Recipe{}).Select("id").Where("user_id = ?", id)

	steps := []func() error{
		func() error { return tx.Exec("DELETE FROM recipe_tags WHERE recipe_id IN (?)", owned).Error },
		func() error { return tx.Exec("DELETE FROM recipe_ingredients WHERE recipe_id IN (?)", owned).Error },
		func() error { return tx.Where("user_id = ?", id).Delete(&model.Recipe{}).Error },
		func() error { return tx.Where("user_id = ?", id).Delete(&model.Tag{}).Error },
		func() error { return tx.Where("user_id = ?", id).Delete(&model.Ingredient{}).Error },
		func() error { return tx.Where("user_id = ?", id).Delete(&model.UserProfile{}).Error },
		func() error { return tx.Where("user_id = ?", id).Delete(&model.RefreshToken{}).Error },
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return nil, storageErr(err)
		}
	}

	res := tx.Delete(&model.User{}, "id = ?", id)
	if res.Error != nil {
		return nil, storageErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return keys, nil
}
