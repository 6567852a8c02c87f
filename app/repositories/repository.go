package repositories

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateSku     = errors.New("duplicate sku")
	ErrDuplicateDefault = errors.New("product already has a default variation")
)

// conn returns tx when a transaction is in progress, db otherwise.
func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}
