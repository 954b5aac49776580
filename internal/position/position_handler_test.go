package position_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"buildhr/internal/position"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakePositionRepository struct {
	findByIDFn func(ctx context.Context, id string) (*position.Position, error)
	findAllFn  func(ctx context.Context) ([]position.Position, error)
}

func (f *fakePositionRepository) FindByID(ctx context.Context, id string) (*position.Position, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePositionRepository) FindAll(ctx context.Context) ([]position.Position, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func newPositionContext(t *testing.T, req *http.Request) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

func TestPositionHandler_GetAll(t *testing.T) {
	rate := decimal.NewFromInt(650)
	repo := &fakePositionRepository{
		findAllFn: func(context.Context) ([]position.Position, error) {
			return []position.Position{
				{ID: uuid.New(), Name: "carpenter", DailyRate: &rate},
				{ID: uuid.New(), Name: "foreman"},
			}, nil
		},
	}

	h := position.NewHandler(repo)
	req := httptest.NewRequest(http.MethodGet, "/positions", nil)
	c, w := newPositionContext(t, req)

	h.GetAll(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var env struct {
		Ok   bool                        `json:"ok"`
		Data []position.PositionResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Ok)
	assert.Len(t, env.Data, 2)
	assert.Equal(t, "carpenter", env.Data[0].Name)
	if assert.NotNil(t, env.Data[0].DailyRate) {
		assert.True(t, env.Data[0].DailyRate.Equal(rate))
	}
	assert.Nil(t, env.Data[1].DailyRate)
}

func TestPositionHandler_GetByIDNotFound(t *testing.T) {
	h := position.NewHandler(&fakePositionRepository{})
	req := httptest.NewRequest(http.MethodGet, "/positions/"+uuid.New().String(), nil)
	c, w := newPositionContext(t, req)
	c.Params = []gin.Param{{Key: "id", Value: uuid.New().String()}}

	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
