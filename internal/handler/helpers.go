package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rebanho/rebanho-backend/internal/common"
	"github.com/rebanho/rebanho-backend/pkg/ginutil"
)

var requestValidator = validator.New()

// bindJSON decodes and validates the request body, writing a 400 on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Corpo da requisição inválido", err)
		return false
	}
	if err := requestValidator.Struct(req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Falha de validação", err)
		return false
	}
	return true
}

// pathID parses a positive id path parameter, writing a 400 on failure
func pathID(c *gin.Context, key string) (uint64, bool) {
	id, err := ginutil.ParamUint64(c, key)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, key+" inválido", err)
		return 0, false
	}
	return id, true
}

// seasonQuery parses the optional ?seasonId= filter, writing a 400 on failure
func seasonQuery(c *gin.Context) (*uint64, bool) {
	seasonID, err := ginutil.QueryUint64Ptr(c, "seasonId")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "seasonId inválido", err)
		return nil, false
	}
	return seasonID, true
}

func parsePagination(c *gin.Context) (int, int) {
	page := 1
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	limit := 20
	if l, err := strconv.Atoi(c.Query("per_page")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	return page, limit
}
