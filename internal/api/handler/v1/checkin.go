package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Toms422/trial-master-pro/internal/api/handler/v1/request"
	"github.com/Toms422/trial-master-pro/internal/api/handler/v1/response"
	"github.com/Toms422/trial-master-pro/internal/api/middleware"
	"github.com/Toms422/trial-master-pro/internal/domain"
	"github.com/Toms422/trial-master-pro/internal/service"
)

type CheckInService interface {
	ResolveQRCode(ctx context.Context, qrCode string) (domain.Participant, error)
	CompleteForm(ctx context.Context, qrCode string, form domain.CheckInForm, actorID uint) (domain.Participant, service.CheckInStatus, error)
}

// CheckInHandler serves the public check-in form. The QR token in the URL is
// the only credential; there is no session and no JWT on these routes.
type CheckInHandler struct {
	svc CheckInService
}

func NewCheckInHandler(svc CheckInService) *CheckInHandler {
	return &CheckInHandler{svc: svc}
}

// HandleGetCheckIn godoc
// @Summary      Resolve a check-in token to its participant
// @Description  Returns the participant snapshot for form prefill, or status already_submitted without the snapshot when the form is done.
// @Tags         check-in
// @Produce      json
// @Param        qrCode path       string true "check-in token"
// @Success      200   {object}    response.CheckInResponse
// @Failure      404   {object}    response.Err
// @Failure      500   {object}    response.Err
// @Router       /check-in/{qrCode} [get]
func (h *CheckInHandler) HandleGetCheckIn(ctx *gin.Context) {
	qrCode := ctx.Param("qrCode")

	participant, err := h.svc.ResolveQRCode(ctx.Request.Context(), qrCode)
	if err != nil {
		if errors.Is(err, service.ErrQRCodeNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("check-in link", "token", qrCode))
			return
		}

		err = fmt.Errorf("v1.HandleGetCheckIn -> h.svc.ResolveQRCode -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if participant.FormCompleted {
		ctx.JSON(http.StatusOK, response.CheckInResponse{Status: response.CheckInStatusAlreadySubmitted})
		return
	}

	ctx.JSON(http.StatusOK, response.CheckInResponse{
		Status:      response.CheckInStatusPending,
		Participant: &participant,
	})
}

// HandleSubmitCheckIn godoc
// @Summary      Submit the check-in form for a token
// @Description  Idempotent: a token whose form was already submitted answers already_submitted without changing anything.
// @Tags         check-in
// @Accept       json
// @Produce      json
// @Param        qrCode   path     string true "check-in token"
// @Param        request  body     request.CheckInRequest true "request body"
// @Success      200     {object}  response.CheckInResponse
// @Failure      400     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /check-in/{qrCode} [post]
func (h *CheckInHandler) HandleSubmitCheckIn(ctx *gin.Context) {
	qrCode := ctx.Param("qrCode")

	var req request.CheckInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	participant, status, err := h.svc.CompleteForm(ctx.Request.Context(), qrCode, req.ToForm(), middleware.CallerID(ctx))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQRCodeNotFound):
			response.RenderErr(ctx, response.ErrNotFound("check-in link", "token", qrCode))
		case isValidationErr(err):
			response.RenderErr(ctx, response.ErrValidation(err))
		default:
			err = fmt.Errorf("v1.HandleSubmitCheckIn -> h.svc.CompleteForm -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	if status == service.CheckInAlreadySubmitted {
		ctx.JSON(http.StatusOK, response.CheckInResponse{Status: response.CheckInStatusAlreadySubmitted})
		return
	}

	ctx.JSON(http.StatusOK, response.CheckInResponse{
		Status:      response.CheckInStatusCompleted,
		Participant: &participant,
	})
}
