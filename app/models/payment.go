package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

type Payment struct {
	ID          string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	OrderID     string          `gorm:"size:36;not null;index" json:"order_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"amount"`
	Method      string          `gorm:"size:100" json:"method"`
	Token       string          `gorm:"size:255" json:"-"`
	RedirectURL string          `gorm:"type:text" json:"redirect_url"`
	Status      string          `gorm:"size:50;not null" json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}
