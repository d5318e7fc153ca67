package attendance

import (
	"net/http"
	"strconv"
	"time"

	attendanceerrors "github.com/Toretto00/salary-calculator/internal/attendance/errors"
	"github.com/Toretto00/salary-calculator/internal/shared/apperror"
	"github.com/Toretto00/salary-calculator/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// callerEmployeeID resolves whose attendance is addressed: admins may pass
// ?employee_id=, everyone else acts on their own record from the token.
func callerEmployeeID(c *gin.Context) (string, bool) {
	if role, _ := c.Get("role"); role == "admin" {
		if id := c.Query("employee_id"); id != "" {
			return id, true
		}
	}
	id, ok := c.Get("employee_id")
	if !ok {
		return "", false
	}
	empID, ok := id.(string)
	return empID, ok && empID != ""
}

func (h *Handler) CheckIn(c *gin.Context) {
	empID, ok := callerEmployeeID(c)
	if !ok {
		writeServiceError(c, attendanceerrors.ErrInvalidEmployeeID)
		return
	}

	var req CheckInRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
			return
		}
	}

	resp, err := h.service.CheckIn(c.Request.Context(), empID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) CheckOut(c *gin.Context) {
	empID, ok := callerEmployeeID(c)
	if !ok {
		writeServiceError(c, attendanceerrors.ErrInvalidEmployeeID)
		return
	}

	var req CheckOutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
			return
		}
	}

	resp, err := h.service.CheckOut(c.Request.Context(), empID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) TodayStatus(c *gin.Context) {
	empID, ok := callerEmployeeID(c)
	if !ok {
		writeServiceError(c, attendanceerrors.ErrInvalidEmployeeID)
		return
	}

	resp, err := h.service.TodayStatus(c.Request.Context(), empID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) History(c *gin.Context) {
	empID, ok := callerEmployeeID(c)
	if !ok {
		writeServiceError(c, attendanceerrors.ErrInvalidEmployeeID)
		return
	}

	resp, err := h.service.History(c.Request.Context(), empID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) RangeSummary(c *gin.Context) {
	empID := c.Param("employeeId")
	if empID == "" {
		writeServiceError(c, attendanceerrors.ErrInvalidEmployeeID)
		return
	}

	start, err := parseDateQuery(c.Query("start"))
	if err != nil {
		writeServiceError(c, attendanceerrors.ErrInvalidDateRange)
		return
	}
	end, err := parseDateQuery(c.Query("end"))
	if err != nil {
		writeServiceError(c, attendanceerrors.ErrInvalidDateRange)
		return
	}

	resp, err := h.service.RangeSummary(c.Request.Context(), empID, start, end)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) MonthlyStats(c *gin.Context) {
	empID, ok := callerEmployeeID(c)
	if !ok {
		writeServiceError(c, attendanceerrors.ErrInvalidEmployeeID)
		return
	}

	now := time.Now()
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		writeServiceError(c, apperror.InvalidField("month"))
		return
	}
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil || year < 2000 {
		writeServiceError(c, apperror.InvalidField("year"))
		return
	}

	resp, err := h.service.MonthlyStats(c.Request.Context(), empID, month, year)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func parseDateQuery(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
