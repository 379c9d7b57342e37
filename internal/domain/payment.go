package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is an immutable record of money applied against an IOU. Rows are
// append-only: the store layer exposes no update or delete for them.
type Payment struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	IOUID       uuid.UUID       `gorm:"type:uuid;index;not null;column:iou_id" json:"iou_id"`
	IOU         *IOU            `gorm:"constraint:OnDelete:CASCADE;foreignKey:IOUID;references:ID" json:"-"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null;column:payment_amount" json:"payment_amount"`
	PaymentDate time.Time       `gorm:"not null;column:payment_date" json:"payment_date"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Payment) TableName() string { return "payment" }
