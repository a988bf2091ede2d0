package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rohitjain-pio/hrms-leave-api/internal/middleware"
	"github.com/rohitjain-pio/hrms-leave-api/internal/repository"
	"github.com/rohitjain-pio/hrms-leave-api/internal/services"
)

type LeaveHandler struct {
	leaveService *services.LeaveService
}

func NewLeaveHandler(leaveService *services.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveService: leaveService}
}

type SubmitLeaveRequest struct {
	LeaveTypeID uint   `json:"leave_type_id" binding:"required"`
	StartDate   string `json:"start_date" binding:"required"`
	StartSlot   string `json:"start_slot"`
	EndDate     string `json:"end_date" binding:"required"`
	EndSlot     string `json:"end_slot"`
	Reason      string `json:"reason" binding:"required"`
	Attachment  string `json:"attachment"`
}

// @Summary Submit Leave Request
// @Description Apply for leave; the requested days are debited immediately
// @Tags Leaves
// @Accept json
// @Produce json
// @Param request body SubmitLeaveRequest true "Leave Application"
// @Success 201 {object} models.LeaveRequestResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /leave_requests [post]
func (h *LeaveHandler) Create(c *gin.Context) {
	var req SubmitLeaveRequest
	if err := BindNestedOrFlat(c, "leave_request", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
		return
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
		return
	}

	input := services.SubmitLeaveInput{
		EmployeeID:  middleware.GetEmployeeID(c),
		LeaveTypeID: req.LeaveTypeID,
		StartDate:   startDate,
		StartSlot:   req.StartSlot,
		EndDate:     endDate,
		EndSlot:     req.EndSlot,
		Reason:      req.Reason,
	}
	if req.Attachment != "" {
		input.AttachmentPath = &req.Attachment
	}

	request, err := h.leaveService.Submit(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid leave date range"})
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Employee or leave type not found"})
		case errors.Is(err, services.ErrNoManager):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No reporting manager assigned"})
		case errors.Is(err, services.ErrIneligible):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Leave type is not available for this employee"})
		case errors.Is(err, services.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": "An overlapping leave request already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"leave_request": request.ToResponse()})
}

// @Summary List Leave Requests
// @Description Get a paginated list of leave requests
// @Tags Leaves
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /leave_requests [get]
func (h *LeaveHandler) Index(c *gin.Context) {
	query := &repository.LeaveRequestQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Status = c.Query("status")

	if id, err := strconv.ParseUint(c.Query("leave_type_id"), 10, 32); err == nil {
		query.LeaveTypeID = uint(id)
	}

	// Employees see their own requests; managers see their reports' requests;
	// admins see everything unless they filter explicitly.
	switch middleware.GetEmployeeRole(c) {
	case "admin":
		if id, err := strconv.ParseUint(c.Query("employee_id"), 10, 32); err == nil {
			query.EmployeeID = uint(id)
		}
	case "manager":
		query.ManagerID = middleware.GetEmployeeID(c)
	default:
		query.EmployeeID = middleware.GetEmployeeID(c)
	}

	// Parse sort parameter (format: field-direction)
	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, "-")
		query.SortBy = parts[0]
		if len(parts) > 1 {
			query.SortDir = parts[1]
		}
	}

	requests, total, err := h.leaveService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, r := range requests {
		responses = append(responses, r.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"leave_requests": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Leave Request
// @Description Get a leave request by ID
// @Tags Leaves
// @Accept json
// @Produce json
// @Param leave_request_id path int true "Leave Request ID"
// @Success 200 {object} models.LeaveRequestResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /leave_requests/{leave_request_id} [get]
func (h *LeaveHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("leave_request_id"), 10, 32)
	request, err := h.leaveService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Leave request not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"leave_request": request.ToResponse()})
}

// @Summary Approve Leave Request
// @Description Approve a pending leave request
// @Tags Leaves
// @Accept json
// @Produce json
// @Param leave_request_id path int true "Leave Request ID"
// @Success 200 {object} models.LeaveRequestResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /leave_requests/{leave_request_id}/approve [post]
func (h *LeaveHandler) Approve(c *gin.Context) {
	h.decide(c, true)
}

type RejectLeaveRequest struct {
	Reason string `json:"reason"`
}

// @Summary Reject Leave Request
// @Description Reject a pending leave request; debited days are credited back
// @Tags Leaves
// @Accept json
// @Produce json
// @Param leave_request_id path int true "Leave Request ID"
// @Param request body RejectLeaveRequest false "Rejection Reason"
// @Success 200 {object} models.LeaveRequestResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /leave_requests/{leave_request_id}/reject [post]
func (h *LeaveHandler) Reject(c *gin.Context) {
	h.decide(c, false)
}

func (h *LeaveHandler) decide(c *gin.Context, approve bool) {
	id, _ := strconv.ParseUint(c.Param("leave_request_id"), 10, 32)

	var req RejectLeaveRequest
	if !approve {
		BindNestedOrFlat(c, "leave_request", &req)
	}

	request, err := h.leaveService.Decide(c.Request.Context(), uint(id), approve, req.Reason,
		middleware.GetEmployeeID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Leave request not found"})
		case errors.Is(err, services.ErrInvalidState):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Leave request is not pending"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"leave_request": request.ToResponse()})
}
