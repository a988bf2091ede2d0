package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rohitjain-pio/hrms-leave-api/internal/middleware"
	"github.com/rohitjain-pio/hrms-leave-api/internal/services"
	"github.com/shopspring/decimal"
)

type AdminHandler struct {
	adjustmentService *services.AdjustmentService
	accrualService    *services.AccrualService
}

func NewAdminHandler(adjustmentService *services.AdjustmentService, accrualService *services.AccrualService) *AdminHandler {
	return &AdminHandler{adjustmentService: adjustmentService, accrualService: accrualService}
}

type AdjustBalanceRequest struct {
	OpeningBalance string `json:"opening_balance" binding:"required"`
	IsActive       *bool  `json:"is_active" binding:"required"`
	Note           string `json:"note"`
}

// @Summary Adjust Balance
// @Description Set the opening balance and availability of a leave type balance
// @Tags Admin
// @Accept json
// @Produce json
// @Param employee_id path int true "Employee ID"
// @Param leave_type_id path int true "Leave Type ID"
// @Param request body AdjustBalanceRequest true "Adjustment"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /employees/{employee_id}/balances/{leave_type_id}/adjust [post]
func (h *AdminHandler) AdjustBalance(c *gin.Context) {
	employeeID, _ := strconv.ParseUint(c.Param("employee_id"), 10, 32)
	leaveTypeID, _ := strconv.ParseUint(c.Param("leave_type_id"), 10, 32)

	var req AdjustBalanceRequest
	if err := BindNestedOrFlat(c, "balance", &req); err != nil || req.IsActive == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "opening_balance and is_active are required"})
		return
	}

	newOpening, err := decimal.NewFromString(req.OpeningBalance)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "opening_balance must be a decimal"})
		return
	}

	balance, err := h.adjustmentService.AdjustOpeningBalance(c.Request.Context(), services.AdjustmentInput{
		EmployeeID:  uint(employeeID),
		LeaveTypeID: uint(leaveTypeID),
		NewOpening:  newOpening,
		IsActive:    *req.IsActive,
		Actor:       middleware.GetEmployeeID(c),
		Note:        req.Note,
		IP:          c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
	})
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Balance not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

type RunAccrualRequest struct {
	LeaveTypeID  uint   `json:"leave_type_id" binding:"required"`
	CreditAmount string `json:"credit_amount" binding:"required"`
	CarryOverCap string `json:"carry_over_cap"`
	CarryMonth   int    `json:"carry_over_month"`
	AsOfDate     string `json:"as_of_date"`
}

// @Summary Run Accrual
// @Description Manually run a monthly accrual batch for one leave type
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body RunAccrualRequest true "Accrual Parameters"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /accruals/run [post]
func (h *AdminHandler) RunAccrual(c *gin.Context) {
	var req RunAccrualRequest
	if err := BindNestedOrFlat(c, "accrual", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	creditAmount, err := decimal.NewFromString(req.CreditAmount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "credit_amount must be a decimal"})
		return
	}

	carryOverCap := decimal.Zero
	if req.CarryOverCap != "" {
		carryOverCap, err = decimal.NewFromString(req.CarryOverCap)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "carry_over_cap must be a decimal"})
			return
		}
	}

	asOf := time.Now()
	if req.AsOfDate != "" {
		asOf, err = time.Parse("2006-01-02", req.AsOfDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "as_of_date must be YYYY-MM-DD"})
			return
		}
	}

	credited, err := h.accrualService.CreditMonthly(c.Request.Context(), services.AccrualParams{
		LeaveTypeID:    req.LeaveTypeID,
		CreditAmount:   creditAmount,
		CarryOverLimit: carryOverCap,
		CarryOverMonth: req.CarryMonth,
		AsOfDate:       asOf,
		Actor:          middleware.GetEmployeeID(c),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Leave type not found"})
		case errors.Is(err, services.ErrInvalidRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": "credit_amount must be positive"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"credited": credited})
}

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// @Summary List Audit Logs
// @Description Get a paginated list of system audit logs
// @Tags Audit
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(50)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /audits [get]
func (h *AuditHandler) Index(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "50"))
	offset := (page - 1) * perPage

	logs, total, err := h.auditService.List(c.Request.Context(), perPage, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"audits": logs, "pagination": gin.H{"total": total, "page": page, "per_page": perPage}})
}
