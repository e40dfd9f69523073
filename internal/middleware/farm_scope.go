package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rebanho/rebanho-backend/internal/common"
	"github.com/rebanho/rebanho-backend/internal/repository"
	"github.com/rebanho/rebanho-backend/pkg/ginutil"
	"gorm.io/gorm"
)

const farmIDKey = "farm_id"

// FarmScope resolves the :farmId path parameter, checks the farm exists
// and stores its id in the gin context for downstream handlers.
func FarmScope(farmRepo repository.FarmRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		farmID, err := ginutil.ParamUint64(c, "farmId")
		if err != nil {
			common.ErrorResponse(c, http.StatusBadRequest, "farmId inválido", err)
			c.Abort()
			return
		}

		if _, err := farmRepo.FindByID(c.Request.Context(), farmID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				common.ErrorResponse(c, http.StatusNotFound, "Fazenda não encontrada", common.ErrFarmNotFound)
			} else {
				common.ErrorResponse(c, http.StatusInternalServerError, "Falha ao carregar fazenda", err)
			}
			c.Abort()
			return
		}

		c.Set(farmIDKey, farmID)
		c.Next()
	}
}

// GetFarmID returns the farm id set by FarmScope, or 0 outside a farm route
func GetFarmID(c *gin.Context) uint64 {
	if v, ok := c.Get(farmIDKey); ok {
		if id, ok := v.(uint64); ok {
			return id
		}
	}
	return 0
}
