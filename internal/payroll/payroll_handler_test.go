package payroll_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"buildhr/internal/payroll"
	payrollerrors "buildhr/internal/payroll/errors"
	"buildhr/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func mustDecodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakePayrollService struct {
	createPeriodFn func(ctx context.Context, actorID string, req payroll.CreatePeriodRequest) (payroll.PeriodResponse, error)
	processFn      func(ctx context.Context, actorID, id string, version int64, req payroll.ProcessRequest) (payroll.PeriodResponse, error)
	checkFn        func(ctx context.Context, actorID, id string, version int64) (payroll.PeriodResponse, error)
	recommendFn    func(ctx context.Context, actorID, id string, version int64) (payroll.PeriodResponse, error)
	approveFn      func(ctx context.Context, actorID, id string, version int64) (payroll.PeriodResponse, error)
	markPaidFn     func(ctx context.Context, actorID, id string, version int64) (payroll.PeriodResponse, error)
	cancelFn       func(ctx context.Context, actorID, id string, version int64) (payroll.PeriodResponse, error)
	getAllFn       func(ctx context.Context, filter payroll.ListFilter) ([]payroll.PeriodResponse, error)
	getByIDFn      func(ctx context.Context, id string) (payroll.PeriodResponse, error)
}

func (f *fakePayrollService) CreatePeriod(ctx context.Context, actorID string, req payroll.CreatePeriodRequest) (payroll.PeriodResponse, error) {
	return f.createPeriodFn(ctx, actorID, req)
}

func (f *fakePayrollService) Process(ctx context.Context, actorID, id string, version int64, req payroll.ProcessRequest) (payroll.PeriodResponse, error) {
	return f.processFn(ctx, actorID, id, version, req)
}

func (f *fakePayrollService) Check(ctx context.Context, actorID, id string, version int64) (payroll.PeriodResponse, error) {
	return f.checkFn(ctx, actorID, id, version)
}

func (f *fakePayrollService) Recommend(ctx context.Context, actorID, id string, version int64) (payroll.PeriodResponse, error) {
	return f.recommendFn(ctx, actorID, id, version)
}

func (f *fakePayrollService) Approve(ctx context.Context, actorID, id string, version int64) (payroll.PeriodResponse, error) {
	return f.approveFn(ctx, actorID, id, version)
}

func (f *fakePayrollService) MarkPaid(ctx context.Context, actorID, id string, version int64) (payroll.PeriodResponse, error) {
	return f.markPaidFn(ctx, actorID, id, version)
}

func (f *fakePayrollService) Cancel(ctx context.Context, actorID, id string, version int64) (payroll.PeriodResponse, error) {
	return f.cancelFn(ctx, actorID, id, version)
}

func (f *fakePayrollService) GetAll(ctx context.Context, filter payroll.ListFilter) ([]payroll.PeriodResponse, error) {
	return f.getAllFn(ctx, filter)
}

func (f *fakePayrollService) GetByID(ctx context.Context, id string) (payroll.PeriodResponse, error) {
	return f.getByIDFn(ctx, id)
}

func newHandlerContext(t *testing.T, actorID string, req *http.Request) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req.WithContext(contextutil.WithActorID(req.Context(), actorID))
	return c, w
}

func TestPayrollHandler_Create(t *testing.T) {
	actorID := uuid.New().String()

	svc := &fakePayrollService{
		createPeriodFn: func(_ context.Context, aid string, req payroll.CreatePeriodRequest) (payroll.PeriodResponse, error) {
			assert.Equal(t, actorID, aid)
			assert.Equal(t, "2026-02-01", req.PeriodStart)
			assert.Equal(t, 1, req.PayPeriodNumber)
			return payroll.PeriodResponse{ID: uuid.New().String(), Status: payroll.StatusDraft, Version: 1}, nil
		},
	}

	h := payroll.NewHandler(svc)
	body := `{"period_start":"2026-02-01","period_end":"2026-02-15","payment_date":"2026-02-20","pay_period_number":1}`
	req := httptest.NewRequest(http.MethodPost, "/payroll-periods", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c, w := newHandlerContext(t, actorID, req)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)
}

func TestPayrollHandler_CreateMissingFields(t *testing.T) {
	h := payroll.NewHandler(&fakePayrollService{})
	req := httptest.NewRequest(http.MethodPost, "/payroll-periods", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	c, w := newHandlerContext(t, uuid.New().String(), req)

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.NotNil(t, env.Error)
}

func TestPayrollHandler_Process(t *testing.T) {
	id := uuid.New().String()

	svc := &fakePayrollService{
		processFn: func(_ context.Context, _, gotID string, version int64, req payroll.ProcessRequest) (payroll.PeriodResponse, error) {
			assert.Equal(t, id, gotID)
			assert.Equal(t, int64(3), version)
			assert.Equal(t, "regular", req.ContractType)
			return payroll.PeriodResponse{ID: gotID, Status: payroll.StatusProcessing, Version: 4}, nil
		},
	}

	h := payroll.NewHandler(svc)
	body := `{"version":3,"contract_type":"regular"}`
	req := httptest.NewRequest(http.MethodPost, "/payroll-periods/"+id+"/process", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c, w := newHandlerContext(t, uuid.New().String(), req)
	c.Params = []gin.Param{{Key: "id", Value: id}}

	h.Process(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPayrollHandler_ProcessRequiresVersion(t *testing.T) {
	h := payroll.NewHandler(&fakePayrollService{})
	req := httptest.NewRequest(http.MethodPost, "/payroll-periods/123/process", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	c, w := newHandlerContext(t, uuid.New().String(), req)
	c.Params = []gin.Param{{Key: "id", Value: "123"}}

	h.Process(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPayrollHandler_ApproveVersionConflict(t *testing.T) {
	svc := &fakePayrollService{
		approveFn: func(context.Context, string, string, int64) (payroll.PeriodResponse, error) {
			return payroll.PeriodResponse{}, payrollerrors.ErrVersionConflict
		},
	}

	h := payroll.NewHandler(svc)
	req := httptest.NewRequest(http.MethodPost, "/payroll-periods/123/approve", strings.NewReader(`{"version":2}`))
	req.Header.Set("Content-Type", "application/json")
	c, w := newHandlerContext(t, uuid.New().String(), req)
	c.Params = []gin.Param{{Key: "id", Value: "123"}}

	h.Approve(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.Equal(t, "CONFLICT", env.Error.Code)
}

func TestPayrollHandler_ApproveCachesResponseAndReleasesLock(t *testing.T) {
	resp := payroll.PeriodResponse{ID: uuid.New().String(), Status: payroll.StatusApproved, Version: 3}
	svc := &fakePayrollService{
		approveFn: func(context.Context, string, string, int64) (payroll.PeriodResponse, error) {
			return resp, nil
		},
	}

	rdb, mock := redismock.NewClientMock()
	h := payroll.NewHandlerWithRedis(svc, rdb)

	cacheKey := "idemp:/payroll-periods/:id/approve::retry-1"
	payload, err := json.Marshal(resp)
	assert.NoError(t, err)
	// The cache write lands first; the deferred lock release runs last, so a
	// retry after this point replays instead of re-running the transition.
	mock.ExpectSet(cacheKey, payload, 24*time.Hour).SetVal("OK")
	mock.ExpectDel(cacheKey + ":lock").SetVal(1)

	req := httptest.NewRequest(http.MethodPost, "/payroll-periods/123/approve", strings.NewReader(`{"version":2}`))
	req.Header.Set("Content-Type", "application/json")
	c, w := newHandlerContext(t, uuid.New().String(), req)
	c.Params = []gin.Param{{Key: "id", Value: "123"}}
	c.Set("idempotency_cache_key", cacheKey)
	c.Set("idempotency_lock_key", cacheKey+":lock")

	h.Approve(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayrollHandler_ApproveFailureReleasesLockWithoutCaching(t *testing.T) {
	svc := &fakePayrollService{
		approveFn: func(context.Context, string, string, int64) (payroll.PeriodResponse, error) {
			return payroll.PeriodResponse{}, payrollerrors.ErrVersionConflict
		},
	}

	rdb, mock := redismock.NewClientMock()
	h := payroll.NewHandlerWithRedis(svc, rdb)

	lockKey := "idemp:/payroll-periods/:id/approve::retry-1:lock"
	mock.ExpectDel(lockKey).SetVal(1)

	req := httptest.NewRequest(http.MethodPost, "/payroll-periods/123/approve", strings.NewReader(`{"version":2}`))
	req.Header.Set("Content-Type", "application/json")
	c, w := newHandlerContext(t, uuid.New().String(), req)
	c.Params = []gin.Param{{Key: "id", Value: "123"}}
	c.Set("idempotency_cache_key", "idemp:/payroll-periods/:id/approve::retry-1")
	c.Set("idempotency_lock_key", lockKey)

	h.Approve(c)

	// The conflict still frees the lock so the client can retry, but nothing
	// is cached: only a success may replay.
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayrollHandler_GetAllParsesFilter(t *testing.T) {
	var got payroll.ListFilter
	svc := &fakePayrollService{
		getAllFn: func(_ context.Context, filter payroll.ListFilter) ([]payroll.PeriodResponse, error) {
			got = filter
			return []payroll.PeriodResponse{}, nil
		},
	}

	h := payroll.NewHandler(svc)
	req := httptest.NewRequest(http.MethodGet, "/payroll-periods?status=DRAFT&year=2026&month=2", nil)
	c, w := newHandlerContext(t, uuid.New().String(), req)

	h.GetAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, payroll.StatusDraft, got.Status)
	assert.Equal(t, 2026, got.Year)
	assert.Equal(t, 2, got.Month)
}

func TestPayrollHandler_GetByIDNotFound(t *testing.T) {
	svc := &fakePayrollService{
		getByIDFn: func(context.Context, string) (payroll.PeriodResponse, error) {
			return payroll.PeriodResponse{}, payrollerrors.ErrPeriodNotFound
		},
	}

	h := payroll.NewHandler(svc)
	req := httptest.NewRequest(http.MethodGet, "/payroll-periods/"+uuid.New().String(), nil)
	c, w := newHandlerContext(t, uuid.New().String(), req)
	c.Params = []gin.Param{{Key: "id", Value: uuid.New().String()}}

	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
