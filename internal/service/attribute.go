package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

func (k Kind) joinTable() string {
	if k == KindIngredient {
		return "recipe_ingredients"
	}
	return "recipe_tags"
}

func (k Kind) joinColumn() string {
	return k.String() + "_id"
}

// ListAttributes returns the owner's tags or ingredients ordered by name,
// descending. With assignedOnly set only rows used by at least one recipe
// are returned.
func ListAttributes[T Attribute](db *gorm.DB, ownerID string, assignedOnly bool) ([]T, error) {
	kind := kindOf[T]()

	q := db.Where("user_id = ?", ownerID)
	if assignedOnly {
		q = q.Where("id IN (?)", db.Table(kind.joinTable()).Select(kind.joinColumn()))
	}

	rows := []T{}
	if err := q.Order("name desc").Find(&rows).Error; err != nil {
		return nil, storageErr(err)
	}

	return rows, nil
}

// GetAttribute returns an owned tag or ingredient by ID
func GetAttribute[T Attribute](db *gorm.DB, ownerID string, id uint) (*T, error) {
	var row T

	err := db.Where("id = ? AND user_id = ?", id, ownerID).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageErr(err)
	}

	return &row, nil
}

// RenameAttribute changes the name of an owned tag or ingredient. Names stay
// unique per owner.
func RenameAttribute[T Attribute](tx *gorm.DB, ownerID string, id uint, name string) (*T, error) {
	row, err := GetAttribute[T](tx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if fields := validateNames("name", []string{name}); len(fields) > 0 {
		return nil, newValidationError("name", fields["name.0.name"])
	}

	var taken int64
	err = tx.Model(new(T)).
		Where("user_id = ? AND name = ? AND id <> ?", ownerID, name, id).
		Count(&taken).
		Error
	if err != nil {
		return nil, storageErr(err)
	}

	if taken > 0 {
		return nil, newValidationError("name", fmt.Sprintf("%s with this name already exists.", kindOf[T]()))
	}

	if err := tx.Model(row).Update("name", name).Error; err != nil {
		return nil, storageErr(err)
	}

	return GetAttribute[T](tx, ownerID, id)
}

// DeleteAttribute removes an owned tag or ingredient and unlinks it from
// every recipe
func DeleteAttribute[T Attribute](tx *gorm.DB, ownerID string, id uint) error {
	kind := kindOf[T]()

	row, err := GetAttribute[T](tx, ownerID, id)
	if err != nil {
		return err
	}

	err = tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE %s = ?", kind.joinTable(), kind.joinColumn()), id).Error
	if err != nil {
		return storageErr(err)
	}

	if err := tx.Delete(row).Error; err != nil {
		return storageErr(err)
	}

	return nil
}
