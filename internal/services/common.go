package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/yungbote/payback-backend/internal/pkg/apierr"
	"github.com/yungbote/payback-backend/internal/pkg/ctxutil"
	"github.com/yungbote/payback-backend/internal/pkg/logger"
)

// callerID extracts the authenticated identity set by the auth middleware.
func callerID(ctx context.Context) (uuid.UUID, *apierr.Error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, apierr.Forbidden("no authenticated identity in request context")
	}
	return rd.UserID, nil
}

// storeFailure passes business errors through untouched and converts
// anything else (store/transaction failures) into a logged, generic
// internal error so no backend detail reaches the client.
func storeFailure(log *logger.Logger, op string, err error) error {
	if err == nil {
		return nil
	}
	if apiErr, ok := apierr.As(err); ok {
		return apiErr
	}
	log.Error("store operation failed", "op", op, "error", err)
	return apierr.Internal(errors.New("internal server error"))
}
