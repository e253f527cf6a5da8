package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/internal/apperr"
)

// GetIDParam parses the named path parameter as a positive ID.
func GetIDParam(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	if raw == "" {
		return 0, apperr.Invalid(name + " is required")
	}

	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil || id == 0 {
		return 0, apperr.Invalid("Invalid " + name)
	}

	return uint(id), nil
}

// GetIDQuery parses an optional query parameter as an ID; ok is false when
// the parameter is absent.
func GetIDQuery(ctx *gin.Context, name string) (id uint, ok bool, err error) {
	raw := ctx.Query(name)

	if raw == "" {
		return 0, false, nil
	}

	parsed, err := strconv.ParseUint(raw, 10, 32)

	if err != nil || parsed == 0 {
		return 0, false, apperr.Invalid("Invalid " + name)
	}

	return uint(parsed), true, nil
}
