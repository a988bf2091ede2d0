package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rohitjain-pio/hrms-leave-api/internal/middleware"
	"github.com/rohitjain-pio/hrms-leave-api/internal/models"
	"github.com/rohitjain-pio/hrms-leave-api/internal/repository"
	"github.com/rohitjain-pio/hrms-leave-api/internal/services"
	"github.com/shopspring/decimal"
)

type CompOffHandler struct {
	compOffService *services.CompOffService
}

func NewCompOffHandler(compOffService *services.CompOffService) *CompOffHandler {
	return &CompOffHandler{compOffService: compOffService}
}

type ApplyCompOffRequest struct {
	RequestType  string `json:"request_type" binding:"required"`
	WorkingDate  string `json:"working_date" binding:"required"`
	LeaveDate    string `json:"leave_date"`
	NumberOfDays string `json:"number_of_days"`
	Reason       string `json:"reason" binding:"required"`
}

// @Summary Apply Comp-Off or Swap
// @Description Submit a compensatory-off or swap request for a worked holiday
// @Tags CompOff
// @Accept json
// @Produce json
// @Param request body ApplyCompOffRequest true "Comp-Off Application"
// @Success 201 {object} models.CompOffSwapResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /comp_off_requests [post]
func (h *CompOffHandler) Create(c *gin.Context) {
	var req ApplyCompOffRequest
	if err := BindNestedOrFlat(c, "comp_off_request", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	workingDate, err := time.Parse("2006-01-02", req.WorkingDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "working_date must be YYYY-MM-DD"})
		return
	}

	employeeID := middleware.GetEmployeeID(c)

	var request *models.CompOffSwapRequest
	switch req.RequestType {
	case models.RequestTypeCompOff:
		days := decimal.NewFromInt(1)
		if req.NumberOfDays != "" {
			days, err = decimal.NewFromString(req.NumberOfDays)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "number_of_days must be a decimal"})
				return
			}
		}
		request, err = h.compOffService.ApplyCompOff(c.Request.Context(), services.ApplyCompOffInput{
			EmployeeID:   employeeID,
			WorkingDate:  workingDate,
			NumberOfDays: days,
			Reason:       req.Reason,
		})
	case models.RequestTypeSwap:
		if req.LeaveDate == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "leave_date is required for swap requests"})
			return
		}
		var leaveDate time.Time
		leaveDate, err = time.Parse("2006-01-02", req.LeaveDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "leave_date must be YYYY-MM-DD"})
			return
		}
		request, err = h.compOffService.ApplySwap(c.Request.Context(), services.ApplySwapInput{
			EmployeeID:  employeeID,
			WorkingDate: workingDate,
			LeaveDate:   leaveDate,
			Reason:      req.Reason,
		})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "request_type must be comp_off or swap"})
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found or inactive"})
		case errors.Is(err, services.ErrInvalidRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": "number_of_days must be positive"})
		case errors.Is(err, services.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": "A request for this date already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comp_off_request": request.ToResponse()})
}

// @Summary List Comp-Off Requests
// @Description Get a paginated list of comp-off and swap requests
// @Tags CompOff
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param request_type query string false "Filter by request type"
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /comp_off_requests [get]
func (h *CompOffHandler) Index(c *gin.Context) {
	query := &repository.CompOffSwapQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.RequestType = c.Query("request_type")
	query.Status = c.Query("status")

	if middleware.IsAdmin(c) || middleware.IsManager(c) {
		if id, err := strconv.ParseUint(c.Query("employee_id"), 10, 32); err == nil {
			query.EmployeeID = uint(id)
		}
	} else {
		query.EmployeeID = middleware.GetEmployeeID(c)
	}

	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, "-")
		query.SortBy = parts[0]
		if len(parts) > 1 {
			query.SortDir = parts[1]
		}
	}

	requests, total, err := h.compOffService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, r := range requests {
		responses = append(responses, r.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"comp_off_requests": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Accept Comp-Off Request
// @Description Accept a pending comp-off or swap request
// @Tags CompOff
// @Accept json
// @Produce json
// @Param comp_off_request_id path int true "Request ID"
// @Success 200 {object} models.CompOffSwapResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /comp_off_requests/{comp_off_request_id}/accept [post]
func (h *CompOffHandler) Accept(c *gin.Context) {
	h.decide(c, true)
}

type RejectCompOffRequest struct {
	Reason string `json:"reason"`
}

// @Summary Reject Comp-Off Request
// @Description Reject a pending comp-off or swap request
// @Tags CompOff
// @Accept json
// @Produce json
// @Param comp_off_request_id path int true "Request ID"
// @Param request body RejectCompOffRequest false "Rejection Reason"
// @Success 200 {object} models.CompOffSwapResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /comp_off_requests/{comp_off_request_id}/reject [post]
func (h *CompOffHandler) Reject(c *gin.Context) {
	h.decide(c, false)
}

func (h *CompOffHandler) decide(c *gin.Context, accept bool) {
	id, _ := strconv.ParseUint(c.Param("comp_off_request_id"), 10, 32)

	var req RejectCompOffRequest
	if !accept {
		BindNestedOrFlat(c, "comp_off_request", &req)
	}

	request, err := h.compOffService.Decide(c.Request.Context(), uint(id), accept, req.Reason,
		middleware.GetEmployeeID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		case errors.Is(err, services.ErrInvalidState):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Request is not pending"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"comp_off_request": request.ToResponse()})
}

// @Summary Delete Comp-Off Request
// @Description Soft-delete a comp-off or swap request
// @Tags CompOff
// @Accept json
// @Produce json
// @Param comp_off_request_id path int true "Request ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /comp_off_requests/{comp_off_request_id} [delete]
func (h *CompOffHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("comp_off_request_id"), 10, 32)
	if err := h.compOffService.Delete(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request deleted"})
}
