package helpers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusrecords/internal/pkg/apperrors"
)

// ParseIDParam reads a positive integer path parameter. label names the
// parameter in the error message.
func ParseIDParam(c *gin.Context, name, label string) (int64, error) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError(fmt.Sprintf("Invalid %s, it must be a numeric value.", label)).
			WithDetails(map[string]interface{}{"field": name})
	}
	return id, nil
}

// SplitList splits a comma separated query value, dropping blanks
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
