package handler

import (
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Ask *AskHandler
}

// RegisterRoutes wires the API surface. OPTIONS never reaches a route; the
// CORS middleware answers preflight before routing.
func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/ask", deps.Ask.Ask)
}
