package db

import (
	"gorm.io/gorm"

	"github.com/yungbote/payback-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Identity + auth
		&domain.User{},
		&domain.UserToken{},

		// Ledger
		&domain.IOU{},
		&domain.Payment{},
	)
}
