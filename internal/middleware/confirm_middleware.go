package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusrecords/internal/pkg/apperrors"
)

var errConfirmationRequired = apperrors.NewCustomError(apperrors.ErrConfirmationRequired,
	"This action cannot be undone. Repeat the request with confirm=true.")

// RequireConfirmation guards destructive routes: the request must carry
// confirm=true in its query string.
func RequireConfirmation() gin.HandlerFunc {
	return func(c *gin.Context) {
		confirmed, err := strconv.ParseBool(c.Query("confirm"))
		if err != nil || !confirmed {
			HandleAPIError(c, errConfirmationRequired)
			return
		}
		c.Next()
	}
}
