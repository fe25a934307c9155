package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"ads_platform_backend/apperrors"
	"ads_platform_backend/middleware"
	"ads_platform_backend/models"
)

// respondError writes err as {"error": message}. Internal causes are logged
// and never sent to the client.
func respondError(c *gin.Context, log logrus.FieldLogger, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.WithError(err).WithFields(logrus.Fields{
			"path":       c.Request.URL.Path,
			"request_id": middleware.GetRequestID(c),
		}).Error("request failed")
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": apperrors.PublicMessage(err)})
}

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

func currentCaller(c *gin.Context) (models.Caller, bool) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return models.Caller{}, false
	}
	return caller, true
}
