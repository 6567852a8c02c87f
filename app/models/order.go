package models

import (
	"time"

	"github.com/Rakhulsr/go-cartridge/app/utils/calc"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderStatusUnprocessed = 1
	OrderStatusProcessed   = 2
	OrderStatusShipped     = 3
	OrderStatusCompleted   = 4
	OrderStatusCancelled   = 5
)

var OrderStatusNames = map[int]string{
	OrderStatusUnprocessed: "Unprocessed",
	OrderStatusProcessed:   "Processed",
	OrderStatusShipped:     "Shipped",
	OrderStatusCompleted:   "Completed",
	OrderStatusCancelled:   "Cancelled",
}

var orderStatusTransitions = map[int][]int{
	OrderStatusUnprocessed: {OrderStatusProcessed, OrderStatusCancelled},
	OrderStatusProcessed:   {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:     {OrderStatusCompleted},
}

func CanTransitionOrderStatus(from, to int) bool {
	for _, next := range orderStatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID string `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`

	BillingDetailFirstName string `gorm:"size:100;not null" json:"billing_detail_first_name"`
	BillingDetailLastName  string `gorm:"size:100;not null" json:"billing_detail_last_name"`
	BillingDetailStreet    string `gorm:"size:100;not null" json:"billing_detail_street"`
	BillingDetailCity      string `gorm:"size:100;not null" json:"billing_detail_city"`
	BillingDetailState     string `gorm:"size:100;not null" json:"billing_detail_state"`
	BillingDetailPostcode  string `gorm:"size:10;not null" json:"billing_detail_postcode"`
	BillingDetailCountry   string `gorm:"size:100;not null" json:"billing_detail_country"`
	BillingDetailPhone     string `gorm:"size:20;not null" json:"billing_detail_phone"`
	BillingDetailEmail     string `gorm:"size:100;not null" json:"billing_detail_email"`

	ShippingDetailFirstName string `gorm:"size:100;not null" json:"shipping_detail_first_name"`
	ShippingDetailLastName  string `gorm:"size:100;not null" json:"shipping_detail_last_name"`
	ShippingDetailStreet    string `gorm:"size:100;not null" json:"shipping_detail_street"`
	ShippingDetailCity      string `gorm:"size:100;not null" json:"shipping_detail_city"`
	ShippingDetailState     string `gorm:"size:100;not null" json:"shipping_detail_state"`
	ShippingDetailPostcode  string `gorm:"size:10;not null" json:"shipping_detail_postcode"`
	ShippingDetailCountry   string `gorm:"size:100;not null" json:"shipping_detail_country"`
	ShippingDetailPhone     string `gorm:"size:20;not null" json:"shipping_detail_phone"`

	AdditionalInstructions string `gorm:"type:text" json:"additional_instructions"`

	Time   time.Time `gorm:"autoCreateTime" json:"time"`
	Key    string    `gorm:"size:40;index" json:"-"`
	UserID *string   `gorm:"size:36;index" json:"user_id,omitempty"`

	ShippingType  string              `gorm:"size:50" json:"shipping_type"`
	ShippingTotal decimal.NullDecimal `gorm:"type:decimal(16,2)" json:"shipping_total"`
	ItemTotal     decimal.Decimal     `gorm:"type:decimal(16,2);not null" json:"item_total"`
	DiscountCode  string              `gorm:"size:20" json:"discount_code"`
	DiscountTotal decimal.NullDecimal `gorm:"type:decimal(16,2)" json:"discount_total"`
	Total         decimal.Decimal     `gorm:"type:decimal(16,2);not null" json:"total"`
	Status        int                 `gorm:"not null;default:1" json:"status"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.Status == 0 {
		o.Status = OrderStatusUnprocessed
	}
	return
}

// BeforeSave recomputes Total from the item, shipping and discount totals.
func (o *Order) BeforeSave(tx *gorm.DB) (err error) {
	o.RecalculateTotal()
	return
}

func (o *Order) RecalculateTotal() {
	o.Total = calc.CalculateGrandTotal(o.ItemTotal, o.ShippingTotal, o.DiscountTotal)
}

func (o *Order) BillingName() string {
	return o.BillingDetailFirstName + " " + o.BillingDetailLastName
}

func (o *Order) StatusName() string {
	return OrderStatusNames[o.Status]
}
