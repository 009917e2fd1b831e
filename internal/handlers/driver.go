package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/policydesk/policydesk-backend/internal/platform/logger"
	"github.com/policydesk/policydesk-backend/internal/requestdata"
	"github.com/policydesk/policydesk-backend/internal/services"
)

type DriverHandler struct {
	driverService services.DriverService
	log           *logger.Logger
}

func NewDriverHandler(driverService services.DriverService, baseLog *logger.Logger) *DriverHandler {
	handlerLog := baseLog.With("handler", "DriverHandler")
	return &DriverHandler{driverService: driverService, log: handlerLog}
}

func (h *DriverHandler) ListDrivers(c *gin.Context) {
	rd, ok := requestdata.GetRequestData(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
		return
	}
	rows, err := h.driverService.ListDrivers(c.Request.Context(), rd.UserID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
