package i

import "github.com/gin-gonic/gin"

// Controller registers its routes on the versioned API group.
type Controller interface {
	Register(*gin.RouterGroup)
}
