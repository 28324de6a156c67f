package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"solarhub/internal/service"
)

// EstimateHandler exposes the stateless savings and offer calculators.
type EstimateHandler struct {
	estimates service.EstimateService
}

// NewEstimateHandler creates a new EstimateHandler.
func NewEstimateHandler(estimates service.EstimateService) *EstimateHandler {
	return &EstimateHandler{estimates: estimates}
}

// Savings handles POST /api/v1/estimates/savings
// @Summary Project savings for a facility
// @Description A load profile without a number yields available=false.
// @Tags estimates
// @Accept json
// @Produce json
// @Param body body EstimateRequest true "Facility"
// @Success 200 {object} Response{data=savings.Projection} "Projection"
// @Security BearerAuth
// @Router /estimates/savings [post]
func (h *EstimateHandler) Savings(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	RespondOK(c, h.estimates.EstimateSavings(toEstimateInput(req)))
}

// Offers handles POST /api/v1/estimates/offers
// @Summary Generate installer offers for a facility
// @Tags estimates
// @Accept json
// @Produce json
// @Param body body EstimateRequest true "Facility"
// @Success 200 {object} Response{data=offer.Quote} "Offers"
// @Failure 400 {object} ErrorResponseBody "Unknown system type"
// @Security BearerAuth
// @Router /estimates/offers [post]
func (h *EstimateHandler) Offers(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	quote, err := h.estimates.EstimateOffers(toEstimateInput(req))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, quote)
}

func toEstimateInput(req EstimateRequest) service.EstimateInput {
	return service.EstimateInput{
		LoadProfile:  req.LoadProfile,
		FacilityType: req.FacilityType,
		SystemType:   req.SystemType,
		Years:        req.Years,
	}
}
