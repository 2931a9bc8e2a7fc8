package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Toms422/trial-master-pro/internal/api/handler/v1/request"
	"github.com/Toms422/trial-master-pro/internal/api/handler/v1/response"
	"github.com/Toms422/trial-master-pro/internal/api/middleware"
	"github.com/Toms422/trial-master-pro/internal/domain"
	"github.com/Toms422/trial-master-pro/internal/service"
)

type StationService interface {
	CreateStation(ctx context.Context, station domain.Station, actorID uint) (domain.Station, error)
	GetStation(ctx context.Context, id uint) (domain.Station, error)
	ListStations(ctx context.Context) ([]domain.Station, error)
	UpdateStation(ctx context.Context, station domain.Station, actorID uint) (domain.Station, error)
	DeleteStation(ctx context.Context, id uint, actorID uint) error
}

type StationHandler struct {
	svc StationService
}

func NewStationHandler(svc StationService) *StationHandler {
	return &StationHandler{
		svc: svc,
	}
}

// HandleListStations godoc
// @Summary      List all test stations
// @Tags         stations
// @Produce      json
// @Success      200  {array}   domain.Station
// @Failure      500  {object}  response.Err
// @Router       /stations [get]
// @Security BearerAuth
func (h *StationHandler) HandleListStations(ctx *gin.Context) {
	stations, err := h.svc.ListStations(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListStations -> h.svc.ListStations -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, stations)
}

// HandleCreateStation godoc
// @Summary      Create a test station
// @Tags         stations
// @Accept       json
// @Produce      json
// @Param        request   body      request.StationRequest true "request body"
// @Success      201      {object}   domain.Station
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /stations [post]
// @Security BearerAuth
func (h *StationHandler) HandleCreateStation(ctx *gin.Context) {
	var req request.StationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	station, err := h.svc.CreateStation(ctx.Request.Context(), domain.Station{
		Name:        req.Name,
		Capacity:    req.Capacity,
		Description: req.Description,
	}, middleware.CallerID(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateStation -> h.svc.CreateStation -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, station)
}

// HandleUpdateStation godoc
// @Summary      Update a test station
// @Tags         stations
// @Accept       json
// @Produce      json
// @Param        stationID path       int true "station ID"
// @Param        request   body       request.StationRequest true "request body"
// @Success      200      {object}   domain.Station
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /stations/{stationID} [put]
// @Security BearerAuth
func (h *StationHandler) HandleUpdateStation(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "stationID")
	if !ok {
		return
	}

	var req request.StationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	station, err := h.svc.UpdateStation(ctx.Request.Context(), domain.Station{
		ID:          id,
		Name:        req.Name,
		Capacity:    req.Capacity,
		Description: req.Description,
	}, middleware.CallerID(ctx))
	if err != nil {
		if errors.Is(err, service.ErrStationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("station", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateStation -> h.svc.UpdateStation -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, station)
}

// HandleDeleteStation godoc
// @Summary      Delete a test station
// @Tags         stations
// @Produce      json
// @Param        stationID path       int true "station ID"
// @Success      204
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /stations/{stationID} [delete]
// @Security BearerAuth
func (h *StationHandler) HandleDeleteStation(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "stationID")
	if !ok {
		return
	}

	if err := h.svc.DeleteStation(ctx.Request.Context(), id, middleware.CallerID(ctx)); err != nil {
		if errors.Is(err, service.ErrStationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("station", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteStation -> h.svc.DeleteStation -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid %v (%v)", name, raw)))
		return 0, false
	}

	return uint(id), true
}
