package services

import (
	"github.com/google/uuid"

	"github.com/yungbote/payback-backend/internal/domain"
	"github.com/yungbote/payback-backend/internal/pkg/apierr"
)

// CanView reports whether userID is a party (lender or borrower) of the IOU.
func CanView(userID uuid.UUID, iou *domain.IOU) bool {
	if iou == nil {
		return false
	}
	return userID == iou.LenderID || userID == iou.BorrowerID
}

// CanMutate uses the same relation as CanView: either party may record
// payments or change status.
func CanMutate(userID uuid.UUID, iou *domain.IOU) bool {
	return CanView(userID, iou)
}

// CanDelete is lender-only.
func CanDelete(userID uuid.UUID, iou *domain.IOU) bool {
	if iou == nil {
		return false
	}
	return userID == iou.LenderID
}

// RequireParticipant returns a forbidden error with the given message when
// userID is neither party of the IOU. Authorization failures are always
// explicit errors, never silent filtering.
func RequireParticipant(userID uuid.UUID, iou *domain.IOU, message string) *apierr.Error {
	if !CanView(userID, iou) {
		return apierr.Forbidden("%s", message)
	}
	return nil
}

// RequireLender returns a forbidden error unless userID is the lender.
func RequireLender(userID uuid.UUID, iou *domain.IOU, message string) *apierr.Error {
	if !CanDelete(userID, iou) {
		return apierr.Forbidden("%s", message)
	}
	return nil
}
