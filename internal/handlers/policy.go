package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/policydesk/policydesk-backend/internal/platform/logger"
	"github.com/policydesk/policydesk-backend/internal/requestdata"
	"github.com/policydesk/policydesk-backend/internal/services"
	"github.com/policydesk/policydesk-backend/internal/types"
)

type PolicyHandler struct {
	policyService services.PolicyService
	log           *logger.Logger
}

func NewPolicyHandler(policyService services.PolicyService, baseLog *logger.Logger) *PolicyHandler {
	handlerLog := baseLog.With("handler", "PolicyHandler")
	return &PolicyHandler{policyService: policyService, log: handlerLog}
}

func (h *PolicyHandler) CreatePolicy(c *gin.Context) {
	rd, ok := requestdata.GetRequestData(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
		return
	}
	var payload types.PolicyPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Malformed request body."})
		return
	}
	aggregate, err := h.policyService.CreatePolicy(c.Request.Context(), rd.UserID, &payload)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Policy created successfully",
		"policy":  aggregate,
	})
}

func (h *PolicyHandler) GetPolicy(c *gin.Context) {
	rd, ok := requestdata.GetRequestData(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
		return
	}
	policyID, err := parseIDParam(c, "id")
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	aggregate, err := h.policyService.GetPolicy(c.Request.Context(), rd.UserID, policyID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, aggregate)
}

// UpdatePolicyByID handles PUT /policies/:id. The path id wins over any id in
// the body.
func (h *PolicyHandler) UpdatePolicyByID(c *gin.Context) {
	rd, ok := requestdata.GetRequestData(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
		return
	}
	policyID, err := parseIDParam(c, "id")
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	var payload types.PolicyPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Malformed request body."})
		return
	}
	payload.PolicyID = policyID
	if err := h.policyService.UpdatePolicy(c.Request.Context(), rd.UserID, &payload); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Policy updated successfully"})
}

// UpdatePolicy handles the legacy POST /updatepolicy route where the target
// id rides in the body as policyId.
func (h *PolicyHandler) UpdatePolicy(c *gin.Context) {
	rd, ok := requestdata.GetRequestData(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
		return
	}
	var payload types.PolicyPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Malformed request body."})
		return
	}
	if err := h.policyService.UpdatePolicy(c.Request.Context(), rd.UserID, &payload); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Policy updated successfully"})
}

func (h *PolicyHandler) DeletePolicy(c *gin.Context) {
	rd, ok := requestdata.GetRequestData(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
		return
	}
	policyID, err := parseIDParam(c, "id")
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if err := h.policyService.DeletePolicy(c.Request.Context(), rd.UserID, policyID); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Policy deleted successfully"})
}

// ListPolicies handles GET /policies with query-string parameters.
func (h *PolicyHandler) ListPolicies(c *gin.Context) {
	rd, ok := requestdata.GetRequestData(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
		return
	}
	q := services.ListPoliciesQuery{
		Search:  c.Query("search"),
		Sort:    c.Query("sort"),
		SortDir: c.Query("sortDirection"),
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.PerPage, _ = strconv.Atoi(c.DefaultQuery("perPage", "10"))

	page, err := h.policyService.ListPolicies(c.Request.Context(), rd.UserID, q)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// SearchPolicies handles the legacy POST /getallpolicies route where the
// listing parameters arrive as a JSON body.
func (h *PolicyHandler) SearchPolicies(c *gin.Context) {
	rd, ok := requestdata.GetRequestData(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
		return
	}
	var body struct {
		Search        string `json:"search"`
		Sort          string `json:"sort"`
		SortDirection string `json:"sortDirection"`
		Page          int    `json:"page"`
		PerPage       int    `json:"perPage"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Malformed request body."})
		return
	}
	page, err := h.policyService.ListPolicies(c.Request.Context(), rd.UserID, services.ListPoliciesQuery{
		Search:  body.Search,
		Sort:    body.Sort,
		SortDir: body.SortDirection,
		Page:    body.Page,
		PerPage: body.PerPage,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *PolicyHandler) Dashboard(c *gin.Context) {
	rd, ok := requestdata.GetRequestData(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
		return
	}
	summary, err := h.policyService.Dashboard(c.Request.Context(), rd.UserID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// parseIDParam rejects non-numeric and non-positive path ids with a
// bad-request error writeError turns into a 400.
func parseIDParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid policy id %q: %w", raw, services.ErrBadRequest)
	}
	return uint(id), nil
}
