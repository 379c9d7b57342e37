package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yungbote/payback-backend/internal/domain"
	"github.com/yungbote/payback-backend/internal/pkg/apierr"
	"github.com/yungbote/payback-backend/internal/pkg/dbctx"
	"github.com/yungbote/payback-backend/internal/repos"
	"github.com/yungbote/payback-backend/internal/repos/testutil"
)

func newIOUService(t *testing.T) (IOUService, *gorm.DB) {
	t.Helper()
	gdb := testutil.OpenDB(t)
	log := testutil.Logger(t)
	userRepo := repos.NewUserRepo(gdb, log)
	iouRepo := repos.NewIOURepo(gdb, log)
	paymentRepo := repos.NewPaymentRepo(gdb, log)
	return NewIOUService(gdb, log, userRepo, iouRepo, paymentRepo), gdb
}

func TestCreateIOU(t *testing.T) {
	svc, gdb := newIOUService(t)
	lender := testutil.SeedUser(t, gdb, "Alice", "alice@example.com")
	borrower := testutil.SeedUser(t, gdb, "Bob", "bob@example.com")
	ctx := testutil.AuthedContext(lender.ID)

	iou, err := svc.Create(ctx, borrower.ID, decimal.RequireFromString("100.00"), "lunch money")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if iou.Status != domain.IOUStatusUnpaid {
		t.Fatalf("status = %q, want %q", iou.Status, domain.IOUStatusUnpaid)
	}
	if iou.LenderID != lender.ID || iou.BorrowerID != borrower.ID {
		t.Fatalf("parties wrong: lender=%s borrower=%s", iou.LenderID, iou.BorrowerID)
	}

	var count int64
	if err := gdb.Model(&domain.IOU{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("iou rows = %d, want 1", count)
	}
}

func TestCreateIOUValidation(t *testing.T) {
	svc, gdb := newIOUService(t)
	lender := testutil.SeedUser(t, gdb, "Alice", "alice@example.com")
	borrower := testutil.SeedUser(t, gdb, "Bob", "bob@example.com")
	ctx := testutil.AuthedContext(lender.ID)

	_, err := svc.Create(ctx, borrower.ID, decimal.Zero, "lunch")
	if !apierr.IsCode(err, apierr.CodeValidation) {
		t.Fatalf("zero amount: got %v, want validation error", err)
	}
	if err.Error() != "Amount must be greater than 0" {
		t.Fatalf("message = %q", err.Error())
	}

	_, err = svc.Create(ctx, borrower.ID, decimal.RequireFromString("-5"), "lunch")
	if !apierr.IsCode(err, apierr.CodeValidation) {
		t.Fatalf("negative amount: got %v, want validation error", err)
	}

	_, err = svc.Create(ctx, borrower.ID, decimal.RequireFromString("10"), "   ")
	if !apierr.IsCode(err, apierr.CodeValidation) {
		t.Fatalf("blank reason: got %v, want validation error", err)
	}
	if err.Error() != "Reason is required" {
		t.Fatalf("message = %q", err.Error())
	}

	_, err = svc.Create(ctx, lender.ID, decimal.RequireFromString("10"), "self loan")
	if !apierr.IsCode(err, apierr.CodeConflict) {
		t.Fatalf("self IOU: got %v, want conflict", err)
	}
	if err.Error() != "You cannot create an IOU with yourself" {
		t.Fatalf("message = %q", err.Error())
	}

	_, err = svc.Create(ctx, uuid.New(), decimal.RequireFromString("10"), "ghost")
	if !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Fatalf("unknown borrower: got %v, want not found", err)
	}
	if err.Error() != "Borrower not found" {
		t.Fatalf("message = %q", err.Error())
	}

	var count int64
	if err := gdb.Model(&domain.IOU{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("iou rows = %d after rejected creates, want 0", count)
	}
}

func TestListIOUs(t *testing.T) {
	svc, gdb := newIOUService(t)
	me := testutil.SeedUser(t, gdb, "Alice", "alice@example.com")
	bob := testutil.SeedUser(t, gdb, "Bob", "bob@example.com")
	carol := testutil.SeedUser(t, gdb, "Carol", "carol@example.com")

	lent := testutil.SeedIOU(t, gdb, me, bob, "100.00", "rent share")
	testutil.SeedPayment(t, gdb, lent.ID, "30.00")
	borrowed := testutil.SeedIOU(t, gdb, carol, me, "40.00", "concert ticket")
	// Unrelated IOU between the other two must not appear at all.
	testutil.SeedIOU(t, gdb, bob, carol, "999.00", "noise")

	result, err := svc.List(testutil.AuthedContext(me.ID))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.OwedToMe) != 1 || len(result.IOwe) != 1 {
		t.Fatalf("partitions = %d/%d, want 1/1", len(result.OwedToMe), len(result.IOwe))
	}

	row := result.OwedToMe[0]
	if row.ID != lent.ID {
		t.Fatalf("owedToMe row = %s, want %s", row.ID, lent.ID)
	}
	if row.CounterpartyName != "Bob" {
		t.Fatalf("counterparty = %q, want Bob", row.CounterpartyName)
	}
	if row.TotalPaid != "30.00" || row.RemainingBalance != "70.00" {
		t.Fatalf("balances = %s/%s, want 30.00/70.00", row.TotalPaid, row.RemainingBalance)
	}

	owe := result.IOwe[0]
	if owe.ID != borrowed.ID || owe.CounterpartyName != "Carol" {
		t.Fatalf("iOwe row = %s (%s)", owe.ID, owe.CounterpartyName)
	}

	if result.Summary.TotalOwedToMe != "70.00" {
		t.Fatalf("totalOwedToMe = %s, want 70.00", result.Summary.TotalOwedToMe)
	}
	if result.Summary.TotalIOwe != "40.00" {
		t.Fatalf("totalIOwe = %s, want 40.00", result.Summary.TotalIOwe)
	}
	if result.Summary.UnpaidIOUsCount != 2 {
		t.Fatalf("unpaidIOUsCount = %d, want 2", result.Summary.UnpaidIOUsCount)
	}
}

func TestListExcludesPaidFromSummary(t *testing.T) {
	svc, gdb := newIOUService(t)
	me := testutil.SeedUser(t, gdb, "Alice", "alice@example.com")
	bob := testutil.SeedUser(t, gdb, "Bob", "bob@example.com")

	paid := testutil.SeedIOU(t, gdb, me, bob, "50.00", "settled already")
	if err := gdb.Model(&domain.IOU{}).Where("id = ?", paid.ID).
		Update("status", domain.IOUStatusPaid).Error; err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	testutil.SeedIOU(t, gdb, me, bob, "20.00", "open")

	result, err := svc.List(testutil.AuthedContext(me.ID))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.OwedToMe) != 2 {
		t.Fatalf("paid IOUs must still be listed, got %d rows", len(result.OwedToMe))
	}
	if result.Summary.TotalOwedToMe != "20.00" {
		t.Fatalf("totalOwedToMe = %s, want 20.00", result.Summary.TotalOwedToMe)
	}
	if result.Summary.UnpaidIOUsCount != 1 {
		t.Fatalf("unpaidIOUsCount = %d, want 1", result.Summary.UnpaidIOUsCount)
	}
}

func TestGetDetail(t *testing.T) {
	svc, gdb := newIOUService(t)
	lender := testutil.SeedUser(t, gdb, "Alice", "alice@example.com")
	borrower := testutil.SeedUser(t, gdb, "Bob", "bob@example.com")
	stranger := testutil.SeedUser(t, gdb, "Mallory", "mallory@example.com")
	iou := testutil.SeedIOU(t, gdb, lender, borrower, "80.00", "road trip gas")
	testutil.SeedPayment(t, gdb, iou.ID, "15.00")
	testutil.SeedPayment(t, gdb, iou.ID, "5.00")

	detail, err := svc.GetDetail(testutil.AuthedContext(borrower.ID), iou.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.LenderName != "Alice" || detail.BorrowerName != "Bob" {
		t.Fatalf("names = %q/%q", detail.LenderName, detail.BorrowerName)
	}
	if detail.LenderEmail != "alice@example.com" {
		t.Fatalf("lender email = %q", detail.LenderEmail)
	}
	if len(detail.Payments) != 2 {
		t.Fatalf("payments = %d, want 2", len(detail.Payments))
	}
	if detail.Summary.TotalPaid != "20.00" || detail.Summary.RemainingBalance != "60.00" {
		t.Fatalf("summary = %s/%s, want 20.00/60.00", detail.Summary.TotalPaid, detail.Summary.RemainingBalance)
	}

	_, err = svc.GetDetail(testutil.AuthedContext(stranger.ID), iou.ID)
	if !apierr.IsCode(err, apierr.CodeForbidden) {
		t.Fatalf("stranger: got %v, want forbidden", err)
	}
	if err.Error() != "You are not authorized to view this IOU" {
		t.Fatalf("message = %q", err.Error())
	}

	_, err = svc.GetDetail(testutil.AuthedContext(lender.ID), uuid.New())
	if !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Fatalf("unknown id: got %v, want not found", err)
	}
}

func TestSetStatusManualOverride(t *testing.T) {
	svc, gdb := newIOUService(t)
	lender := testutil.SeedUser(t, gdb, "Alice", "alice@example.com")
	borrower := testutil.SeedUser(t, gdb, "Bob", "bob@example.com")
	iou := testutil.SeedIOU(t, gdb, lender, borrower, "100.00", "deposit")
	testutil.SeedPayment(t, gdb, iou.ID, "10.00")

	// Forgiving the rest: Paid sticks even though 90.00 is outstanding.
	updated, err := svc.SetStatus(testutil.AuthedContext(lender.ID), iou.ID, domain.IOUStatusPaid)
	if err != nil {
		t.Fatalf("set paid: %v", err)
	}
	if updated.Status != domain.IOUStatusPaid {
		t.Fatalf("status = %q, want Paid", updated.Status)
	}
	var stored domain.IOU
	if err := gdb.First(&stored, "id = ?", iou.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Status != domain.IOUStatusPaid {
		t.Fatalf("stored status = %q, want Paid", stored.Status)
	}

	// Reopening works the same way, from either party.
	if _, err := svc.SetStatus(testutil.AuthedContext(borrower.ID), iou.ID, domain.IOUStatusUnpaid); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if err := gdb.First(&stored, "id = ?", iou.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Status != domain.IOUStatusUnpaid {
		t.Fatalf("stored status = %q, want Unpaid", stored.Status)
	}
}

func TestSetStatusRejections(t *testing.T) {
	svc, gdb := newIOUService(t)
	lender := testutil.SeedUser(t, gdb, "Alice", "alice@example.com")
	borrower := testutil.SeedUser(t, gdb, "Bob", "bob@example.com")
	stranger := testutil.SeedUser(t, gdb, "Mallory", "mallory@example.com")
	iou := testutil.SeedIOU(t, gdb, lender, borrower, "100.00", "deposit")

	_, err := svc.SetStatus(testutil.AuthedContext(lender.ID), iou.ID, "Settled")
	if !apierr.IsCode(err, apierr.CodeValidation) {
		t.Fatalf("bad status: got %v, want validation", err)
	}
	if err.Error() != `Invalid status. Must be "Unpaid" or "Paid"` {
		t.Fatalf("message = %q", err.Error())
	}

	_, err = svc.SetStatus(testutil.AuthedContext(stranger.ID), iou.ID, domain.IOUStatusPaid)
	if !apierr.IsCode(err, apierr.CodeForbidden) {
		t.Fatalf("stranger: got %v, want forbidden", err)
	}

	_, err = svc.SetStatus(testutil.AuthedContext(lender.ID), uuid.New(), domain.IOUStatusPaid)
	if !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Fatalf("unknown id: got %v, want not found", err)
	}
}

func TestDeleteIOU(t *testing.T) {
	svc, gdb := newIOUService(t)
	lender := testutil.SeedUser(t, gdb, "Alice", "alice@example.com")
	borrower := testutil.SeedUser(t, gdb, "Bob", "bob@example.com")
	iouRepo := repos.NewIOURepo(gdb, testutil.Logger(t))

	clean := testutil.SeedIOU(t, gdb, lender, borrower, "10.00", "coffee")
	withPayments := testutil.SeedIOU(t, gdb, lender, borrower, "50.00", "dinner")
	testutil.SeedPayment(t, gdb, withPayments.ID, "20.00")

	// Borrower may not delete, even a clean IOU.
	err := svc.Delete(testutil.AuthedContext(borrower.ID), clean.ID)
	if !apierr.IsCode(err, apierr.CodeForbidden) {
		t.Fatalf("borrower delete: got %v, want forbidden", err)
	}
	if err.Error() != "Only the lender can delete this IOU" {
		t.Fatalf("message = %q", err.Error())
	}

	// Payment history blocks deletion entirely.
	err = svc.Delete(testutil.AuthedContext(lender.ID), withPayments.ID)
	if !apierr.IsCode(err, apierr.CodeConflict) {
		t.Fatalf("delete with payments: got %v, want conflict", err)
	}
	if err.Error() != "Cannot delete IOU with existing payments" {
		t.Fatalf("message = %q", err.Error())
	}
	if iou, _ := iouRepo.GetByID(dbctx.Context{Ctx: testutil.AuthedContext(lender.ID)}, withPayments.ID); iou == nil {
		t.Fatalf("IOU with payments must survive the rejected delete")
	}

	if err := svc.Delete(testutil.AuthedContext(lender.ID), clean.ID); err != nil {
		t.Fatalf("lender delete: %v", err)
	}
	if iou, _ := iouRepo.GetByID(dbctx.Context{Ctx: testutil.AuthedContext(lender.ID)}, clean.ID); iou != nil {
		t.Fatalf("clean IOU must be gone after delete")
	}

	err = svc.Delete(testutil.AuthedContext(lender.ID), uuid.New())
	if !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Fatalf("unknown id: got %v, want not found", err)
	}
}
