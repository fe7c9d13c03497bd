package http_swagger

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const docPath = "/swagger/doc.json"

// Controller serves the swagger UI of the bridge API.
type Controller struct {
	prefix string
}

// New takes the prefix the pool mounts controllers under, so the UI can find
// its document.
func New(prefix string) *Controller {
	return &Controller{prefix: prefix}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL(c.prefix+docPath),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}
