package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yungbote/payback-backend/internal/domain"
	"github.com/yungbote/payback-backend/internal/pkg/apierr"
	"github.com/yungbote/payback-backend/internal/pkg/dbctx"
	"github.com/yungbote/payback-backend/internal/pkg/logger"
	"github.com/yungbote/payback-backend/internal/repos"
)

// IOUListRow is one IOU annotated with the counterpart's display name and
// the balance derived from its payment history.
type IOUListRow struct {
	*domain.IOU
	CounterpartyName string `json:"counterparty_name"`
	TotalPaid        string `json:"total_paid"`
	RemainingBalance string `json:"remaining_balance"`
}

type IOUListSummary struct {
	TotalOwedToMe   string `json:"totalOwedToMe"`
	TotalIOwe       string `json:"totalIOwe"`
	UnpaidIOUsCount int    `json:"unpaidIOUsCount"`
}

type IOUListResult struct {
	OwedToMe []*IOUListRow  `json:"owedToMe"`
	IOwe     []*IOUListRow  `json:"iOwe"`
	Summary  IOUListSummary `json:"summary"`
}

type IOUDetailSummary struct {
	TotalPaid        string `json:"totalPaid"`
	RemainingBalance string `json:"remainingBalance"`
}

type IOUDetailResult struct {
	IOU           *domain.IOU       `json:"iou"`
	LenderName    string            `json:"lender_name"`
	LenderEmail   string            `json:"lender_email"`
	BorrowerName  string            `json:"borrower_name"`
	BorrowerEmail string            `json:"borrower_email"`
	Payments      []*domain.Payment `json:"payments"`
	Summary       IOUDetailSummary  `json:"summary"`
}

type IOUService interface {
	Create(ctx context.Context, borrowerID uuid.UUID, amount decimal.Decimal, reason string) (*domain.IOU, error)
	List(ctx context.Context) (*IOUListResult, error)
	GetDetail(ctx context.Context, iouID uuid.UUID) (*IOUDetailResult, error)
	SetStatus(ctx context.Context, iouID uuid.UUID, status string) (*domain.IOU, error)
	Delete(ctx context.Context, iouID uuid.UUID) error
}

type iouService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	iouRepo     repos.IOURepo
	paymentRepo repos.PaymentRepo
}

func NewIOUService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, iouRepo repos.IOURepo, paymentRepo repos.PaymentRepo) IOUService {
	serviceLog := log.With("service", "IOUService")
	return &iouService{
		db:          db,
		log:         serviceLog,
		userRepo:    userRepo,
		iouRepo:     iouRepo,
		paymentRepo: paymentRepo,
	}
}

func (is *iouService) Create(ctx context.Context, borrowerID uuid.UUID, amount decimal.Decimal, reason string) (*domain.IOU, error) {
	lenderID, authErr := callerID(ctx)
	if authErr != nil {
		return nil, authErr
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apierr.Validation("Amount must be greater than 0")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apierr.Validation("Reason is required")
	}
	if borrowerID == lenderID {
		return nil, apierr.Conflict("You cannot create an IOU with yourself")
	}

	var created *domain.IOU
	err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		borrowers, err := is.userRepo.GetByIDs(dbc, []uuid.UUID{borrowerID})
		if err != nil {
			return err
		}
		if len(borrowers) == 0 {
			return apierr.NotFound("Borrower not found")
		}

		iou := &domain.IOU{
			ID:         uuid.New(),
			LenderID:   lenderID,
			BorrowerID: borrowerID,
			Amount:     amount,
			Reason:     reason,
			Status:     domain.IOUStatusUnpaid,
		}
		if _, err := is.iouRepo.Create(dbc, []*domain.IOU{iou}); err != nil {
			return err
		}
		created = iou
		return nil
	})
	if err != nil {
		return nil, storeFailure(is.log, "iou.create", err)
	}
	return created, nil
}

func (is *iouService) List(ctx context.Context) (*IOUListResult, error) {
	userID, authErr := callerID(ctx)
	if authErr != nil {
		return nil, authErr
	}
	dbc := dbctx.Context{Ctx: ctx}

	asLender, err := is.iouRepo.ListByLenderID(dbc, userID)
	if err != nil {
		return nil, storeFailure(is.log, "iou.list", err)
	}
	asBorrower, err := is.iouRepo.ListByBorrowerID(dbc, userID)
	if err != nil {
		return nil, storeFailure(is.log, "iou.list", err)
	}

	iouIDs := make([]uuid.UUID, 0, len(asLender)+len(asBorrower))
	counterpartIDs := make([]uuid.UUID, 0, len(asLender)+len(asBorrower))
	for _, iou := range asLender {
		iouIDs = append(iouIDs, iou.ID)
		counterpartIDs = append(counterpartIDs, iou.BorrowerID)
	}
	for _, iou := range asBorrower {
		iouIDs = append(iouIDs, iou.ID)
		counterpartIDs = append(counterpartIDs, iou.LenderID)
	}

	payments, err := is.paymentRepo.ListByIOUIDs(dbc, iouIDs)
	if err != nil {
		return nil, storeFailure(is.log, "iou.list", err)
	}
	paymentsByIOU := make(map[uuid.UUID][]*domain.Payment, len(iouIDs))
	for _, p := range payments {
		paymentsByIOU[p.IOUID] = append(paymentsByIOU[p.IOUID], p)
	}

	counterparts, err := is.userRepo.GetByIDs(dbc, counterpartIDs)
	if err != nil {
		return nil, storeFailure(is.log, "iou.list", err)
	}
	nameByID := make(map[uuid.UUID]string, len(counterparts))
	for _, u := range counterparts {
		nameByID[u.ID] = u.Name
	}

	buildRow := func(iou *domain.IOU, counterpartID uuid.UUID) *IOUListRow {
		remaining := domain.RemainingBalance(iou.Amount, paymentsByIOU[iou.ID])
		return &IOUListRow{
			IOU:              iou,
			CounterpartyName: nameByID[counterpartID],
			TotalPaid:        domain.TotalPaid(paymentsByIOU[iou.ID]).StringFixed(2),
			RemainingBalance: remaining.StringFixed(2),
		}
	}

	result := &IOUListResult{
		OwedToMe: make([]*IOUListRow, 0, len(asLender)),
		IOwe:     make([]*IOUListRow, 0, len(asBorrower)),
	}
	owedToMe := decimal.Zero
	iOwe := decimal.Zero
	unpaidCount := 0
	for _, iou := range asLender {
		result.OwedToMe = append(result.OwedToMe, buildRow(iou, iou.BorrowerID))
		if iou.Status == domain.IOUStatusUnpaid {
			owedToMe = owedToMe.Add(domain.RemainingBalance(iou.Amount, paymentsByIOU[iou.ID]))
			unpaidCount++
		}
	}
	for _, iou := range asBorrower {
		result.IOwe = append(result.IOwe, buildRow(iou, iou.LenderID))
		if iou.Status == domain.IOUStatusUnpaid {
			iOwe = iOwe.Add(domain.RemainingBalance(iou.Amount, paymentsByIOU[iou.ID]))
			unpaidCount++
		}
	}
	result.Summary = IOUListSummary{
		TotalOwedToMe:   owedToMe.StringFixed(2),
		TotalIOwe:       iOwe.StringFixed(2),
		UnpaidIOUsCount: unpaidCount,
	}
	return result, nil
}

func (is *iouService) GetDetail(ctx context.Context, iouID uuid.UUID) (*IOUDetailResult, error) {
	userID, authErr := callerID(ctx)
	if authErr != nil {
		return nil, authErr
	}
	dbc := dbctx.Context{Ctx: ctx}

	iou, err := is.iouRepo.GetByID(dbc, iouID)
	if err != nil {
		return nil, storeFailure(is.log, "iou.detail", err)
	}
	if iou == nil {
		return nil, apierr.NotFound("IOU not found")
	}
	if authErr := RequireParticipant(userID, iou, "You are not authorized to view this IOU"); authErr != nil {
		return nil, authErr
	}

	parties, err := is.userRepo.GetByIDs(dbc, []uuid.UUID{iou.LenderID, iou.BorrowerID})
	if err != nil {
		return nil, storeFailure(is.log, "iou.detail", err)
	}
	result := &IOUDetailResult{IOU: iou}
	for _, u := range parties {
		if u.ID == iou.LenderID {
			result.LenderName = u.Name
			result.LenderEmail = u.Email
		}
		if u.ID == iou.BorrowerID {
			result.BorrowerName = u.Name
			result.BorrowerEmail = u.Email
		}
	}

	payments, err := is.paymentRepo.ListByIOUID(dbc, iouID)
	if err != nil {
		return nil, storeFailure(is.log, "iou.detail", err)
	}
	result.Payments = payments
	totalPaid := domain.TotalPaid(payments)
	result.Summary = IOUDetailSummary{
		TotalPaid:        totalPaid.StringFixed(2),
		RemainingBalance: iou.Amount.Sub(totalPaid).StringFixed(2),
	}
	return result, nil
}

// SetStatus overwrites the status unconditionally without re-deriving it
// from the balance. Marking a partially paid IOU as Paid forgives the rest;
// an automatically settled IOU can be reopened the same way. This is the
// one path allowed to diverge from the computed balance.
func (is *iouService) SetStatus(ctx context.Context, iouID uuid.UUID, status string) (*domain.IOU, error) {
	userID, authErr := callerID(ctx)
	if authErr != nil {
		return nil, authErr
	}
	parsed := domain.ParseIOUStatus(status)
	if parsed == "" {
		return nil, apierr.Validation(`Invalid status. Must be "Unpaid" or "Paid"`)
	}

	var updated *domain.IOU
	err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		iou, err := is.iouRepo.GetByIDForUpdate(dbc, iouID)
		if err != nil {
			return err
		}
		if iou == nil {
			return apierr.NotFound("IOU not found")
		}
		if authErr := RequireParticipant(userID, iou, "You are not authorized to update this IOU"); authErr != nil {
			return authErr
		}
		if err := is.iouRepo.UpdateStatus(dbc, iouID, parsed); err != nil {
			return err
		}
		iou.Status = parsed
		updated = iou
		return nil
	})
	if err != nil {
		return nil, storeFailure(is.log, "iou.setstatus", err)
	}
	return updated, nil
}

func (is *iouService) Delete(ctx context.Context, iouID uuid.UUID) error {
	userID, authErr := callerID(ctx)
	if authErr != nil {
		return authErr
	}

	err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		iou, err := is.iouRepo.GetByIDForUpdate(dbc, iouID)
		if err != nil {
			return err
		}
		if iou == nil {
			return apierr.NotFound("IOU not found")
		}
		if authErr := RequireLender(userID, iou, "Only the lender can delete this IOU"); authErr != nil {
			return authErr
		}
		count, err := is.paymentRepo.CountByIOUID(dbc, iouID)
		if err != nil {
			return err
		}
		if count > 0 {
			return apierr.Conflict("Cannot delete IOU with existing payments")
		}
		return is.iouRepo.Delete(dbc, iouID)
	})
	if err != nil {
		return storeFailure(is.log, "iou.delete", err)
	}
	return nil
}
