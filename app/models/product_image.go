package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductImage struct {
	ID          string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	ProductID   string    `gorm:"size:36;index;not null" json:"product_id"`
	File        string    `gorm:"size:255;not null" json:"file"`
	Description string    `gorm:"size:100" json:"description"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
}

func (pi *ProductImage) BeforeCreate(tx *gorm.DB) (err error) {
	if pi.ID == "" {
		pi.ID = uuid.New().String()
	}
	return
}

func (pi *ProductImage) String() string {
	if pi.Description != "" {
		return pi.Description
	}
	return pi.File
}
