package repos

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/payback-backend/internal/domain"
	"github.com/yungbote/payback-backend/internal/pkg/dbctx"
	"github.com/yungbote/payback-backend/internal/pkg/logger"
)

type IOURepo interface {
	Create(dbc dbctx.Context, ious []*domain.IOU) ([]*domain.IOU, error)
	GetByID(dbc dbctx.Context, iouID uuid.UUID) (*domain.IOU, error)
	// GetByIDForUpdate locks the row (SELECT ... FOR UPDATE) so a
	// check-then-write sequence on one IOU serializes against concurrent
	// mutations of the same IOU. Callers must hold a transaction.
	GetByIDForUpdate(dbc dbctx.Context, iouID uuid.UUID) (*domain.IOU, error)
	ListByLenderID(dbc dbctx.Context, lenderID uuid.UUID) ([]*domain.IOU, error)
	ListByBorrowerID(dbc dbctx.Context, borrowerID uuid.UUID) ([]*domain.IOU, error)
	UpdateStatus(dbc dbctx.Context, iouID uuid.UUID, status string) error
	Delete(dbc dbctx.Context, iouID uuid.UUID) error
}

type iouRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIOURepo(db *gorm.DB, baseLog *logger.Logger) IOURepo {
	repoLog := baseLog.With("repo", "IOURepo")
	return &iouRepo{db: db, log: repoLog}
}

func (ir *iouRepo) conn(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return ir.db.WithContext(dbc.Ctx)
}

func (ir *iouRepo) Create(dbc dbctx.Context, ious []*domain.IOU) ([]*domain.IOU, error) {
	if len(ious) == 0 {
		return []*domain.IOU{}, nil
	}
	if err := ir.conn(dbc).Create(&ious).Error; err != nil {
		return nil, err
	}
	return ious, nil
}

func (ir *iouRepo) GetByID(dbc dbctx.Context, iouID uuid.UUID) (*domain.IOU, error) {
	var result domain.IOU
	err := ir.conn(dbc).
		Where("id = ?", iouID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (ir *iouRepo) GetByIDForUpdate(dbc dbctx.Context, iouID uuid.UUID) (*domain.IOU, error) {
	q := ir.conn(dbc)
	// SQLite has no FOR UPDATE; its single-writer lock serializes instead.
	if q.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var result domain.IOU
	err := q.
		Where("id = ?", iouID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (ir *iouRepo) ListByLenderID(dbc dbctx.Context, lenderID uuid.UUID) ([]*domain.IOU, error) {
	var results []*domain.IOU
	if err := ir.conn(dbc).
		Where("lender_id = ?", lenderID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *iouRepo) ListByBorrowerID(dbc dbctx.Context, borrowerID uuid.UUID) ([]*domain.IOU, error) {
	var results []*domain.IOU
	if err := ir.conn(dbc).
		Where("borrower_id = ?", borrowerID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *iouRepo) UpdateStatus(dbc dbctx.Context, iouID uuid.UUID, status string) error {
	return ir.conn(dbc).
		Model(&domain.IOU{}).
		Where("id = ?", iouID).
		Update("status", status).Error
}

func (ir *iouRepo) Delete(dbc dbctx.Context, iouID uuid.UUID) error {
	return ir.conn(dbc).
		Where("id = ?", iouID).
		Delete(&domain.IOU{}).Error
}
