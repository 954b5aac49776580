package employee

import (
	"errors"
	"net/http"

	"buildhr/internal/shared/apperror"
	"buildhr/internal/shared/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = apperror.ErrNotFound
	}
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetAll(c *gin.Context) {
	roster, err := h.repo.FindActive(c.Request.Context(), RosterFilter{
		ProjectID:    c.Query("project_id"),
		ContractType: c.Query("contract_type"),
		PositionID:   c.Query("position_id"),
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, mapToListResponse(roster), nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	emp, err := h.repo.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, mapToResponse(*emp), nil)
}
