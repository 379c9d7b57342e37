package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/payback-backend/internal/http/response"
	"github.com/yungbote/payback-backend/internal/services"
)

type IOUHandler struct {
	iouService services.IOUService
}

func NewIOUHandler(iouService services.IOUService) *IOUHandler {
	return &IOUHandler{iouService: iouService}
}

func (ih *IOUHandler) List(c *gin.Context) {
	result, err := ih.iouService.List(c.Request.Context())
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, result)
}

func (ih *IOUHandler) GetDetail(c *gin.Context) {
	iouID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := ih.iouService.GetDetail(c.Request.Context(), iouID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, result)
}

func (ih *IOUHandler) Create(c *gin.Context) {
	var req struct {
		BorrowerID uuid.UUID       `json:"borrower_id"`
		Amount     decimal.Decimal `json:"amount"`
		Reason     string          `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	iou, err := ih.iouService.Create(c.Request.Context(), req.BorrowerID, req.Amount, req.Reason)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"iou": iou})
}

func (ih *IOUHandler) UpdateStatus(c *gin.Context) {
	iouID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	iou, err := ih.iouService.SetStatus(c.Request.Context(), iouID, req.Status)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"iou": iou})
}

func (ih *IOUHandler) Delete(c *gin.Context) {
	iouID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := ih.iouService.Delete(c.Request.Context(), iouID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
