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

type TrialDayService interface {
	CreateTrialDay(ctx context.Context, day domain.TrialDay, stationIDs []uint, actorID uint) (domain.TrialDay, error)
	GetTrialDay(ctx context.Context, id uint) (domain.TrialDay, error)
	ListTrialDays(ctx context.Context) ([]domain.TrialDay, error)
	UpdateTrialDay(ctx context.Context, day domain.TrialDay, stationIDs []uint, actorID uint) (domain.TrialDay, error)
	DeleteTrialDay(ctx context.Context, id uint, actorID uint) error
}

type TrialDayHandler struct {
	svc TrialDayService
}

func NewTrialDayHandler(svc TrialDayService) *TrialDayHandler {
	return &TrialDayHandler{
		svc: svc,
	}
}

// HandleListTrialDays godoc
// @Summary      List trial days, newest first
// @Tags         trial-days
// @Produce      json
// @Success      200  {array}   domain.TrialDay
// @Failure      500  {object}  response.Err
// @Router       /trial-days [get]
// @Security BearerAuth
func (h *TrialDayHandler) HandleListTrialDays(ctx *gin.Context) {
	days, err := h.svc.ListTrialDays(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListTrialDays -> h.svc.ListTrialDays -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, days)
}

// HandleGetTrialDay godoc
// @Summary      Get one trial day with its stations
// @Tags         trial-days
// @Produce      json
// @Param        trialDayID path      int true "trial day ID"
// @Success      200  {object}  domain.TrialDay
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /trial-days/{trialDayID} [get]
// @Security BearerAuth
func (h *TrialDayHandler) HandleGetTrialDay(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "trialDayID")
	if !ok {
		return
	}

	day, err := h.svc.GetTrialDay(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTrialDayNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("trial day", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleGetTrialDay -> h.svc.GetTrialDay -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, day)
}

// HandleCreateTrialDay godoc
// @Summary      Create a trial day
// @Tags         trial-days
// @Accept       json
// @Produce      json
// @Param        request   body      request.TrialDayRequest true "request body"
// @Success      201      {object}   domain.TrialDay
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /trial-days [post]
// @Security BearerAuth
func (h *TrialDayHandler) HandleCreateTrialDay(ctx *gin.Context) {
	day, stationIDs, ok := bindTrialDay(ctx)
	if !ok {
		return
	}

	created, err := h.svc.CreateTrialDay(ctx.Request.Context(), day, stationIDs, middleware.CallerID(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateTrialDay -> h.svc.CreateTrialDay -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleUpdateTrialDay godoc
// @Summary      Update a trial day and its station associations
// @Tags         trial-days
// @Accept       json
// @Produce      json
// @Param        trialDayID path      int true "trial day ID"
// @Param        request   body      request.TrialDayRequest true "request body"
// @Success      200      {object}   domain.TrialDay
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /trial-days/{trialDayID} [put]
// @Security BearerAuth
func (h *TrialDayHandler) HandleUpdateTrialDay(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "trialDayID")
	if !ok {
		return
	}

	day, stationIDs, ok := bindTrialDay(ctx)
	if !ok {
		return
	}
	day.ID = id

	updated, err := h.svc.UpdateTrialDay(ctx.Request.Context(), day, stationIDs, middleware.CallerID(ctx))
	if err != nil {
		if errors.Is(err, service.ErrTrialDayNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("trial day", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateTrialDay -> h.svc.UpdateTrialDay -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteTrialDay godoc
// @Summary      Delete a trial day and its participants
// @Tags         trial-days
// @Produce      json
// @Param        trialDayID path      int true "trial day ID"
// @Success      204
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /trial-days/{trialDayID} [delete]
// @Security BearerAuth
func (h *TrialDayHandler) HandleDeleteTrialDay(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "trialDayID")
	if !ok {
		return
	}

	if err := h.svc.DeleteTrialDay(ctx.Request.Context(), id, middleware.CallerID(ctx)); err != nil {
		if errors.Is(err, service.ErrTrialDayNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("trial day", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteTrialDay -> h.svc.DeleteTrialDay -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

func bindTrialDay(ctx *gin.Context) (domain.TrialDay, []uint, bool) {
	var req request.TrialDayRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return domain.TrialDay{}, nil, false
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return domain.TrialDay{}, nil, false
	}

	date, err := req.ParsedDate()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return domain.TrialDay{}, nil, false
	}

	return domain.TrialDay{
		Date:           date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		AvailableSlots: req.AvailableSlots,
		Notes:          req.Notes,
	}, req.StationIDs, true
}
