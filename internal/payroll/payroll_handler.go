package payroll

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"buildhr/internal/shared/apperror"
	"buildhr/internal/shared/contextutil"
	"buildhr/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	service Service
	rdb     *redis.Client
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client) *Handler {
	return &Handler{service: service, rdb: rdb}
}

// releaseIdempotencyLock drops the in-flight lock the idempotency middleware
// took, whether the request succeeded or not. Without it a retry within the
// lock window gets 409 even after the first attempt finished.
func (h *Handler) releaseIdempotencyLock(c *gin.Context) {
	if h.rdb == nil {
		return
	}
	if lockKey := c.GetString("idempotency_lock_key"); lockKey != "" {
		h.rdb.Del(c.Request.Context(), lockKey)
	}
}

// cacheIdempotentResponse stores the success payload so a replay of the same
// Idempotency-Key gets the same answer without re-running the operation.
func (h *Handler) cacheIdempotentResponse(c *gin.Context, resp any) {
	if h.rdb == nil {
		return
	}
	cacheKey := c.GetString("idempotency_cache_key")
	if cacheKey == "" {
		return
	}
	if payload, err := json.Marshal(resp); err == nil {
		_ = h.rdb.Set(c.Request.Context(), cacheKey, payload, 24*time.Hour).Err()
	}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	defer h.releaseIdempotencyLock(c)

	var req CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	actorID := contextutil.GetActorID(c.Request.Context())
	resp, err := h.service.CreatePeriod(c.Request.Context(), actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.cacheIdempotentResponse(c, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	filter := ListFilter{Status: c.Query("status")}
	if y := c.Query("year"); y != "" {
		filter.Year, _ = strconv.Atoi(y)
	}
	if m := c.Query("month"); m != "" {
		filter.Month, _ = strconv.Atoi(m)
	}

	resp, err := h.service.GetAll(c.Request.Context(), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Process(c *gin.Context) {
	defer h.releaseIdempotencyLock(c)

	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	actorID := contextutil.GetActorID(c.Request.Context())
	resp, err := h.service.Process(c.Request.Context(), actorID, c.Param("id"), req.Version, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.cacheIdempotentResponse(c, resp)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Check(c *gin.Context) {
	h.runTransition(c, h.service.Check)
}

func (h *Handler) Recommend(c *gin.Context) {
	h.runTransition(c, h.service.Recommend)
}

func (h *Handler) Approve(c *gin.Context) {
	h.runTransition(c, h.service.Approve)
}

func (h *Handler) MarkPaid(c *gin.Context) {
	h.runTransition(c, h.service.MarkPaid)
}

func (h *Handler) Cancel(c *gin.Context) {
	h.runTransition(c, h.service.Cancel)
}

func (h *Handler) runTransition(
	c *gin.Context,
	fn func(ctx context.Context, actorID, id string, version int64) (PeriodResponse, error),
) {
	defer h.releaseIdempotencyLock(c)

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	actorID := contextutil.GetActorID(c.Request.Context())
	resp, err := fn(c.Request.Context(), actorID, c.Param("id"), req.Version)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.cacheIdempotentResponse(c, resp)
	response.Success(c, http.StatusOK, resp, nil)
}
