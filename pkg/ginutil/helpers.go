package ginutil

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// QueryInt extracts an integer from query parameters with default value
func QueryInt(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// QueryBool accepts true, 1, yes or sim (case-insensitive); anything else is false
func QueryBool(c *gin.Context, key string) bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(key))) {
	case "true", "1", "yes", "sim":
		return true
	}
	return false
}

// QueryUint64Ptr returns nil when the parameter is absent.
// A present but malformed or zero value is an error.
func QueryUint64Ptr(c *gin.Context, key string) (*uint64, error) {
	valueStr := strings.TrimSpace(c.Query(key))
	if valueStr == "" {
		return nil, nil
	}
	value, err := parsePositive(valueStr)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// ParamUint64 extracts a positive id from path parameters
func ParamUint64(c *gin.Context, key string) (uint64, error) {
	return parsePositive(c.Param(key))
}

func parsePositive(s string) (uint64, error) {
	value, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if value == 0 {
		return 0, strconv.ErrRange
	}
	return value, nil
}
