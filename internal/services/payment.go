package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yungbote/payback-backend/internal/domain"
	"github.com/yungbote/payback-backend/internal/pkg/apierr"
	"github.com/yungbote/payback-backend/internal/pkg/dbctx"
	"github.com/yungbote/payback-backend/internal/pkg/logger"
	"github.com/yungbote/payback-backend/internal/repos"
)

type RecordPaymentResult struct {
	Payment             *domain.Payment `json:"payment"`
	NewRemainingBalance string          `json:"newRemainingBalance"`
	IOUFullyPaid        bool            `json:"iouFullyPaid"`
}

type PaymentListSummary struct {
	IOUAmount        string `json:"iouAmount"`
	TotalPaid        string `json:"totalPaid"`
	RemainingBalance string `json:"remainingBalance"`
	PaymentsCount    int    `json:"paymentsCount"`
}

type PaymentListResult struct {
	Payments []*domain.Payment  `json:"payments"`
	Summary  PaymentListSummary `json:"summary"`
}

type PaymentService interface {
	RecordPayment(ctx context.Context, iouID uuid.UUID, amount decimal.Decimal) (*RecordPaymentResult, error)
	ListPayments(ctx context.Context, iouID uuid.UUID) (*PaymentListResult, error)
}

type paymentService struct {
	db          *gorm.DB
	log         *logger.Logger
	iouRepo     repos.IOURepo
	paymentRepo repos.PaymentRepo
}

func NewPaymentService(db *gorm.DB, log *logger.Logger, iouRepo repos.IOURepo, paymentRepo repos.PaymentRepo) PaymentService {
	serviceLog := log.With("service", "PaymentService")
	return &paymentService{
		db:          db,
		log:         serviceLog,
		iouRepo:     iouRepo,
		paymentRepo: paymentRepo,
	}
}

// RecordPayment runs its whole check-then-append sequence in one
// transaction with the IOU row locked, so two concurrent payments on the
// same IOU serialize and can never jointly exceed the IOU amount.
func (ps *paymentService) RecordPayment(ctx context.Context, iouID uuid.UUID, amount decimal.Decimal) (*RecordPaymentResult, error) {
	userID, authErr := callerID(ctx)
	if authErr != nil {
		return nil, authErr
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apierr.Validation("Payment amount must be greater than 0")
	}

	var result *RecordPaymentResult
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		iou, err := ps.iouRepo.GetByIDForUpdate(dbc, iouID)
		if err != nil {
			return err
		}
		if iou == nil {
			return apierr.NotFound("IOU not found")
		}
		if authErr := RequireParticipant(userID, iou, "You are not authorized to add payments to this IOU"); authErr != nil {
			return authErr
		}

		existing, err := ps.paymentRepo.ListByIOUID(dbc, iouID)
		if err != nil {
			return err
		}
		remaining := domain.RemainingBalance(iou.Amount, existing)
		if amount.GreaterThan(remaining) {
			return apierr.Conflict(
				"Payment amount ($%s) exceeds remaining balance ($%s)",
				amount.StringFixed(2), remaining.StringFixed(2),
			)
		}

		payment := &domain.Payment{
			ID:          uuid.New(),
			IOUID:       iouID,
			Amount:      amount,
			PaymentDate: time.Now().UTC(),
		}
		if _, err := ps.paymentRepo.Create(dbc, []*domain.Payment{payment}); err != nil {
			return err
		}

		newRemaining := remaining.Sub(amount)
		fullyPaid := newRemaining.LessThanOrEqual(decimal.Zero)
		if fullyPaid {
			if err := ps.iouRepo.UpdateStatus(dbc, iouID, domain.IOUStatusPaid); err != nil {
				return err
			}
		}

		display := newRemaining
		if display.IsNegative() {
			display = decimal.Zero
		}
		result = &RecordPaymentResult{
			Payment:             payment,
			NewRemainingBalance: display.StringFixed(2),
			IOUFullyPaid:        fullyPaid,
		}
		return nil
	})
	if err != nil {
		return nil, storeFailure(ps.log, "payment.record", err)
	}
	return result, nil
}

func (ps *paymentService) ListPayments(ctx context.Context, iouID uuid.UUID) (*PaymentListResult, error) {
	userID, authErr := callerID(ctx)
	if authErr != nil {
		return nil, authErr
	}
	dbc := dbctx.Context{Ctx: ctx}

	iou, err := ps.iouRepo.GetByID(dbc, iouID)
	if err != nil {
		return nil, storeFailure(ps.log, "payment.list", err)
	}
	if iou == nil {
		return nil, apierr.NotFound("IOU not found")
	}
	if authErr := RequireParticipant(userID, iou, "You are not authorized to view payments for this IOU"); authErr != nil {
		return nil, authErr
	}

	payments, err := ps.paymentRepo.ListByIOUID(dbc, iouID)
	if err != nil {
		return nil, storeFailure(ps.log, "payment.list", err)
	}
	totalPaid := domain.TotalPaid(payments)
	return &PaymentListResult{
		Payments: payments,
		Summary: PaymentListSummary{
			IOUAmount:        iou.Amount.StringFixed(2),
			TotalPaid:        totalPaid.StringFixed(2),
			RemainingBalance: iou.Amount.Sub(totalPaid).StringFixed(2),
			PaymentsCount:    len(payments),
		},
	}, nil
}
