package payroll

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	payrollerrors "github.com/Toretto00/salary-calculator/internal/payroll/errors"
	"github.com/Toretto00/salary-calculator/internal/shared/apperror"
	"github.com/Toretto00/salary-calculator/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	service Service
	rdb     *redis.Client
}

func NewHandler(service Service, rdb *redis.Client) *Handler {
	return &Handler{service: service, rdb: rdb}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func writeBindingError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Calculate(c *gin.Context) {
	var req BatchCalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	resp, err := h.service.Calculate(c.Request.Context(), req)
	if err != nil {
		h.releaseIdempotencyLock(c)
		writeServiceError(c, err)
		return
	}

	h.fillIdempotencyCache(c, resp)

	status := http.StatusOK
	if resp.Success {
		status = http.StatusCreated
	}
	response.Success(c, status, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	var (
		resp []SalaryRecordResponse
		err  error
	)
	if empID := c.Query("employee_id"); empID != "" {
		resp, err = h.service.GetByEmployee(c.Request.Context(), empID)
	} else {
		resp, err = h.service.GetAll(c.Request.Context())
	}
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

func (h *Handler) GetByPeriod(c *gin.Context) {
	month, year, ok := periodQuery(c)
	if !ok {
		return
	}

	resp, err := h.service.GetByPeriod(c.Request.Context(), month, year)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) ExportExcel(c *gin.Context) {
	month, year, ok := periodQuery(c)
	if !ok {
		return
	}

	data, err := h.service.ExportExcel(c.Request.Context(), month, year)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("salaries-%02d-%d.xlsx", month, year)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *Handler) Payslip(c *gin.Context) {
	data, err := h.service.Payslip(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "payslip-"+c.Param("id")+".pdf"))
	c.Data(http.StatusOK, "application/pdf", data)
}

func periodQuery(c *gin.Context) (month, year int, ok bool) {
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		writeServiceError(c, payrollerrors.ErrInvalidPeriod)
		return 0, 0, false
	}
	year, err = strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 {
		writeServiceError(c, payrollerrors.ErrInvalidPeriod)
		return 0, 0, false
	}
	return month, year, true
}

// fillIdempotencyCache stores the finished batch result under the key the
// idempotency middleware set, then releases the lock. A replayed request
// with the same Idempotency-Key gets this payload back instead of a rerun.
func (h *Handler) fillIdempotencyCache(c *gin.Context, resp BatchCalculateResponse) {
	cacheKey := c.GetString("idempotency_cache_key")
	if cacheKey == "" || h.rdb == nil {
		return
	}

	if payload, err := json.Marshal(resp); err == nil {
		h.rdb.Set(c.Request.Context(), cacheKey, payload, 24*time.Hour)
	}
	h.releaseIdempotencyLock(c)
}

func (h *Handler) releaseIdempotencyLock(c *gin.Context) {
	lockKey := c.GetString("idempotency_lock_key")
	if lockKey == "" || h.rdb == nil {
		return
	}
	h.rdb.Del(c.Request.Context(), lockKey)
}
