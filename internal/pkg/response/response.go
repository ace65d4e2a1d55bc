package response

import (
	"github.com/gin-gonic/gin"
)

// The web front end expects exactly {"answer": ...} on success and
// {"error": ...} on failure, nothing wrapped.

func Answer(c *gin.Context, answer string) {
	c.JSON(200, gin.H{"answer": answer})
}

func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
