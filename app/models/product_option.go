package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductOption is a selectable value for one option type, such as "Size: M".
type ProductOption struct {
	ID   string `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Type string `gorm:"size:50;not null;uniqueIndex:idx_option_type_name" json:"type"`
	Name string `gorm:"size:100;not null;uniqueIndex:idx_option_type_name" json:"name"`
}

func (po *ProductOption) BeforeCreate(tx *gorm.DB) (err error) {
	if po.ID == "" {
		po.ID = uuid.New().String()
	}
	return
}

func (po *ProductOption) String() string {
	return po.Type + ": " + po.Name
}
