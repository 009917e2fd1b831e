package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/policydesk/policydesk-backend/internal/platform/logger"
	"github.com/policydesk/policydesk-backend/internal/requestdata"
	"github.com/policydesk/policydesk-backend/internal/services"
)

type AddressHandler struct {
	addressService services.AddressService
	log            *logger.Logger
}

func NewAddressHandler(addressService services.AddressService, baseLog *logger.Logger) *AddressHandler {
	handlerLog := baseLog.With("handler", "AddressHandler")
	return &AddressHandler{addressService: addressService, log: handlerLog}
}

func (h *AddressHandler) ListAddresses(c *gin.Context) {
	rd, ok := requestdata.GetRequestData(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
		return
	}
	rows, err := h.addressService.ListAddresses(c.Request.Context(), rd.UserID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
