package attendance

import (
	"net/http"
	"time"

	"buildhr/internal/shared/apperror"
	"buildhr/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetByEmployee(c *gin.Context) {
	employeeID := c.Param("employeeId")

	start, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "from must be YYYY-MM-DD", nil)
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "to must be YYYY-MM-DD", nil)
		return
	}

	resp, err := h.service.GetByEmployee(c.Request.Context(), employeeID, start, end)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
