package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/payback-backend/internal/http/response"
	"github.com/yungbote/payback-backend/internal/services"
)

var errMissingIOUID = errors.New("iou_id query parameter is required")

type PaymentHandler struct {
	paymentService services.PaymentService
}

func NewPaymentHandler(paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (ph *PaymentHandler) Create(c *gin.Context) {
	var req struct {
		IOUID  uuid.UUID       `json:"iou_id"`
		Amount decimal.Decimal `json:"payment_amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := ph.paymentService.RecordPayment(c.Request.Context(), req.IOUID, req.Amount)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, result)
}

func (ph *PaymentHandler) List(c *gin.Context) {
	rawID := c.Query("iou_id")
	if rawID == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errMissingIOUID)
		return
	}
	iouID, err := uuid.Parse(rawID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := ph.paymentService.ListPayments(c.Request.Context(), iouID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, result)
}
