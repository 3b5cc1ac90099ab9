package api

import (
	"errors"
	"net/http"

	reqdto "leadgate/internal/handler/dto/request"
	resdto "leadgate/internal/handler/dto/response"
	"leadgate/internal/handler/httperr"
	"leadgate/internal/handler/middleware"
	"leadgate/internal/pkg/errs"
	"leadgate/internal/usecase/commands"
	"leadgate/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Auth middleware guarantees the identity; its absence here is a wiring bug.
var errMissingIdentity = errors.New("authenticated user id missing from context")

type LeadHandler struct {
	leadCommands     commands.LeadCommands
	purchaseCommands commands.PurchaseCommands
	leadQueries      queries.LeadQueries
}

func NewLeadHandler(
	leadCommands commands.LeadCommands,
	purchaseCommands commands.PurchaseCommands,
	leadQueries queries.LeadQueries,
) *LeadHandler {
	return &LeadHandler{
		leadCommands:     leadCommands,
		purchaseCommands: purchaseCommands,
		leadQueries:      leadQueries,
	}
}

// @Summary Submit lead
// @Description Create a new rental request lead
// @Tags leads
// @Accept json
// @Produce json
// @Param request body reqdto.CreateLeadRequest true "Lead intake request"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /leads [post]
func (h *LeadHandler) Create(c *gin.Context) {
	var req reqdto.CreateLeadRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	contact, details := req.ToDomain()
	id, err := h.leadCommands.Create(c.Request.Context(), commands.CreateLeadParams{
		Contact: contact,
		Details: details,
	})
	if err != nil {
		if errs.Is(err, commands.ErrLeadValidation) {
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Lead validation failed", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.Header("Location", "/api/leads/"+id.String())
	c.JSON(http.StatusCreated, gin.H{"id": id.String()})
}

// @Summary List leads
// @Description List open leads plus leads the caller has purchased
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.LeadResponse
// @Failure 401 {object} map[string]string
// @Router /leads [get]
func (h *LeadHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingIdentity, "Internal server error", nil)
		return
	}

	views, err := h.leadQueries.ListVisibleTo(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	response := make([]*resdto.LeadResponse, len(views))
	for i, v := range views {
		response[i] = resdto.FromLeadView(v, userID)
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Get lead
// @Description Get a single lead; contact details unlock for purchasers
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Success 200 {object} resdto.LeadResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /leads/{id} [get]
func (h *LeadHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingIdentity, "Internal server error", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid lead ID format", nil)
		return
	}

	view, err := h.leadQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		if errs.Is(err, queries.ErrLeadNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Lead not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromLeadView(view, userID))
}

// @Summary Purchase lead
// @Description Claim one of the lead's purchase slots for the caller
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Success 200 {object} resdto.PurchaseResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} resdto.PurchaseResponse
// @Router /leads/{id}/purchase [post]
func (h *LeadHandler) Purchase(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingIdentity, "Internal server error", nil)
		return
	}

	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid lead ID format", nil)
		return
	}

	result, err := h.purchaseCommands.Purchase(c.Request.Context(), leadID, userID)
	if err != nil {
		switch {
		case errs.Is(err, commands.ErrLeadNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Lead not found", nil)
		case errs.Is(err, commands.ErrLeadFull):
			c.JSON(http.StatusConflict, resdto.PurchaseResponse{
				Granted: false,
				Reason:  "capacity_exceeded",
			})
		case errs.Is(err, commands.ErrPurchaseConflict):
			c.Header("Retry-After", "1")
			c.JSON(http.StatusConflict, resdto.PurchaseResponse{
				Granted: false,
				Reason:  "conflict_retry",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	resp := resdto.PurchaseResponse{
		Granted: result.Granted,
		Status:  result.Status.String(),
	}
	if result.AlreadyOwned {
		// Benign repeat attempt: success with a reason, not an error.
		resp.Reason = "already_purchased"
	}

	c.JSON(http.StatusOK, resp)
}
