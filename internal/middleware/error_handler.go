package middleware

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"

	"freelance_chat/pkg/errors"
)

// ErrorHandler переводит ошибки, накопленные обработчиками, в структурные
// ответы. Нарушения политики несут машиночитаемую причину: клиент должен
// отличать "нужно выбрать собеседника" от "отказано".
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		statusCode := errors.HTTPStatusFromError(err)

		var policyErr *errors.PolicyError
		if stderrors.As(err, &policyErr) {
			c.JSON(statusCode, gin.H{
				"error":  policyErr.Message,
				"reason": policyErr.Reason,
			})
			return
		}

		c.JSON(statusCode, gin.H{"error": err.Error()})
	}
}
