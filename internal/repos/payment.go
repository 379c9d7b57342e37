package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/payback-backend/internal/domain"
	"github.com/yungbote/payback-backend/internal/pkg/dbctx"
	"github.com/yungbote/payback-backend/internal/pkg/logger"
)

// PaymentRepo is append-only: payments are never updated or deleted once
// created, so no such methods exist here.
type PaymentRepo interface {
	Create(dbc dbctx.Context, payments []*domain.Payment) ([]*domain.Payment, error)
	ListByIOUID(dbc dbctx.Context, iouID uuid.UUID) ([]*domain.Payment, error)
	ListByIOUIDs(dbc dbctx.Context, iouIDs []uuid.UUID) ([]*domain.Payment, error)
	CountByIOUID(dbc dbctx.Context, iouID uuid.UUID) (int64, error)
}

type paymentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPaymentRepo(db *gorm.DB, baseLog *logger.Logger) PaymentRepo {
	repoLog := baseLog.With("repo", "PaymentRepo")
	return &paymentRepo{db: db, log: repoLog}
}

func (pr *paymentRepo) conn(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return pr.db.WithContext(dbc.Ctx)
}

func (pr *paymentRepo) Create(dbc dbctx.Context, payments []*domain.Payment) ([]*domain.Payment, error) {
	if len(payments) == 0 {
		return []*domain.Payment{}, nil
	}
	if err := pr.conn(dbc).Create(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (pr *paymentRepo) ListByIOUID(dbc dbctx.Context, iouID uuid.UUID) ([]*domain.Payment, error) {
	var results []*domain.Payment
	if err := pr.conn(dbc).
		Where("iou_id = ?", iouID).
		Order("payment_date DESC").
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *paymentRepo) ListByIOUIDs(dbc dbctx.Context, iouIDs []uuid.UUID) ([]*domain.Payment, error) {
	var results []*domain.Payment
	if len(iouIDs) == 0 {
		return results, nil
	}
	if err := pr.conn(dbc).
		Where("iou_id IN ?", iouIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *paymentRepo) CountByIOUID(dbc dbctx.Context, iouID uuid.UUID) (int64, error) {
	var count int64
	if err := pr.conn(dbc).
		Model(&domain.Payment{}).
		Where("iou_id = ?", iouID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
