package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rohitjain-pio/hrms-leave-api/internal/repository"
	"github.com/rohitjain-pio/hrms-leave-api/internal/services"
)

type BalanceHandler struct {
	balanceService *services.BalanceService
}

func NewBalanceHandler(balanceService *services.BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceService: balanceService}
}

// @Summary List Employee Balances
// @Description Get all leave type balance rows for an employee
// @Tags Balances
// @Accept json
// @Produce json
// @Param employee_id path int true "Employee ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /employees/{employee_id}/balances [get]
func (h *BalanceHandler) Index(c *gin.Context) {
	employeeID, _ := strconv.ParseUint(c.Param("employee_id"), 10, 32)

	balances, err := h.balanceService.GetEmployeeBalances(c.Request.Context(), uint(employeeID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"balances": balances})
}

// @Summary Get Balance Summary
// @Description Get opening, closing and year-to-date figures for one leave type
// @Tags Balances
// @Accept json
// @Produce json
// @Param employee_id path int true "Employee ID"
// @Param leave_type_id path int true "Leave Type ID"
// @Success 200 {object} models.BalanceSummary
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /employees/{employee_id}/balances/{leave_type_id} [get]
func (h *BalanceHandler) Show(c *gin.Context) {
	employeeID, _ := strconv.ParseUint(c.Param("employee_id"), 10, 32)
	leaveTypeID, _ := strconv.ParseUint(c.Param("leave_type_id"), 10, 32)

	summary, err := h.balanceService.GetBalance(c.Request.Context(), uint(employeeID), uint(leaveTypeID))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Employee or leave type not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": summary})
}

// @Summary Ledger History
// @Description Get the paginated ledger entries for an employee
// @Tags Balances
// @Accept json
// @Produce json
// @Param employee_id path int true "Employee ID"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param leave_type_id query int false "Filter by leave type"
// @Param start_date query string false "Filter from effective date"
// @Param end_date query string false "Filter to effective date"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /employees/{employee_id}/ledger [get]
func (h *BalanceHandler) Ledger(c *gin.Context) {
	employeeID, _ := strconv.ParseUint(c.Param("employee_id"), 10, 32)

	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Filters["leave_type_id"] = c.Query("leave_type_id")
	query.Filters["start_date"] = c.Query("start_date")
	query.Filters["end_date"] = c.Query("end_date")

	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, "-")
		query.SortBy = parts[0]
		if len(parts) > 1 {
			query.SortDir = parts[1]
		}
	}

	entries, total, err := h.balanceService.GetLedgerHistory(c.Request.Context(), uint(employeeID), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, e := range entries {
		responses = append(responses, e.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}
