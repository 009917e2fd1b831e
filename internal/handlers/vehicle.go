package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/policydesk/policydesk-backend/internal/platform/logger"
	"github.com/policydesk/policydesk-backend/internal/requestdata"
	"github.com/policydesk/policydesk-backend/internal/services"
)

type VehicleHandler struct {
	vehicleService services.VehicleService
	log            *logger.Logger
}

func NewVehicleHandler(vehicleService services.VehicleService, baseLog *logger.Logger) *VehicleHandler {
	handlerLog := baseLog.With("handler", "VehicleHandler")
	return &VehicleHandler{vehicleService: vehicleService, log: handlerLog}
}

func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	rd, ok := requestdata.GetRequestData(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
		return
	}
	rows, err := h.vehicleService.ListVehicles(c.Request.Context(), rd.UserID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
