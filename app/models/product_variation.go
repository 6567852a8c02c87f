package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProductVariation is one purchasable combination of options for a product.
// NumInStock nil means stock is not tracked.
type ProductVariation struct {
	ID         string                               `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	ProductID  string                               `gorm:"size:36;index;not null" json:"product_id"`
	Product    *Product                             `gorm:"foreignKey:ProductID" json:"-"`
	Sku        string                               `gorm:"size:100;not null;uniqueIndex" json:"sku"`
	Options    datatypes.JSONSlice[OptionSelection] `json:"options"`
	NumInStock *int                                 `json:"num_in_stock"`
	Default    bool                                 `json:"default"`
	ImageID    *string                              `gorm:"size:36" json:"image_id,omitempty"`
	Image      *ProductImage                        `gorm:"foreignKey:ImageID" json:"image,omitempty"`
	Priced
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns the id and, when none was supplied, uses it as the SKU.
func (pv *ProductVariation) BeforeCreate(tx *gorm.DB) (err error) {
	if pv.ID == "" {
		pv.ID = uuid.New().String()
	}
	if pv.Sku == "" {
		pv.Sku = pv.ID
	}
	return
}

func (pv *ProductVariation) OptionsLabel() string {
	var parts []string
	for _, o := range pv.Options {
		if o.Value != "" {
			parts = append(parts, o.Name+": "+o.Value)
		}
	}
	return strings.Join(parts, ", ")
}

// String is the product title followed by the selected options. Product must be loaded.
func (pv *ProductVariation) String() string {
	title := ""
	if pv.Product != nil {
		title = pv.Product.Title
	}
	return strings.TrimSpace(title + " " + pv.OptionsLabel())
}

func (pv *ProductVariation) IsStockTracked() bool {
	return pv.NumInStock != nil
}
