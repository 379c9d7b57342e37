package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	IOUStatusUnpaid = "Unpaid"
	IOUStatusPaid   = "Paid"
)

// ParseIOUStatus normalizes a client-supplied status value. The empty
// string return means the value is not a known status.
func ParseIOUStatus(raw string) string {
	switch strings.TrimSpace(raw) {
	case IOUStatusUnpaid:
		return IOUStatusUnpaid
	case IOUStatusPaid:
		return IOUStatusPaid
	}
	return ""
}

// IOU is a single-direction obligation of the borrower to the lender for a
// fixed amount. lender_id != borrower_id always.
type IOU struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	LenderID   uuid.UUID       `gorm:"type:uuid;index;not null;column:lender_id" json:"lender_id"`
	Lender     *User           `gorm:"foreignKey:LenderID;references:ID" json:"-"`
	BorrowerID uuid.UUID       `gorm:"type:uuid;index;not null;column:borrower_id" json:"borrower_id"`
	Borrower   *User           `gorm:"foreignKey:BorrowerID;references:ID" json:"-"`
	Amount     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Reason     string          `gorm:"not null" json:"reason"`
	Status     string          `gorm:"not null;default:'Unpaid'" json:"status"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (IOU) TableName() string { return "iou" }
