package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-portal/internal/middleware"
	"github.com/noah-isme/campus-portal/internal/models"
	"github.com/noah-isme/campus-portal/internal/service"
	"github.com/noah-isme/campus-portal/pkg/response"
)

func sessionFromContext(c *gin.Context) *models.Session {
	if session := middleware.CurrentSession(c); session != nil {
		return session
	}
	if c.Request == nil {
		return nil
	}
	return service.SessionFromContext(c.Request.Context())
}

func clientMeta(c *gin.Context) service.ClientMeta {
	return service.ClientMeta{IPAddress: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
}

// respond writes data plus any metadata middleware collected for the request.
func respond(c *gin.Context, status int, data interface{}) {
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		response.JSON(c, status, data, nil)
		return
	}
	response.JSON(c, status, data, nil, meta)
}
