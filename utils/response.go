package utils

import (
	"github.com/gin-gonic/gin"
)

// JSONResponse sends a structured JSON response
func JSONResponse(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

// JSONError sends a structured error response
func JSONError(c *gin.Context, status int, err error, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"error":   err.Error(),
	})
}

// JSONReason sends a structured error response with a machine-readable
// reason code, used by the auth middleware so clients can distinguish an
// expired session from a bad token without parsing the message text
func JSONReason(c *gin.Context, status int, reason, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"reason":  reason,
	})
}
