package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/Toms422/trial-master-pro/internal/api/handler/v1/request"
	"github.com/Toms422/trial-master-pro/internal/api/handler/v1/response"
	"github.com/Toms422/trial-master-pro/internal/api/middleware"
	"github.com/Toms422/trial-master-pro/internal/config"
	"github.com/Toms422/trial-master-pro/internal/domain"
	"github.com/Toms422/trial-master-pro/internal/pkg/iniexport"
	"github.com/Toms422/trial-master-pro/internal/pkg/whatsapp"
	"github.com/Toms422/trial-master-pro/internal/service"
)

type ParticipantService interface {
	Register(ctx context.Context, participant domain.Participant, actorID uint) (domain.Participant, error)
	GetParticipant(ctx context.Context, id uint) (domain.Participant, error)
	ListByTrialDay(ctx context.Context, trialDayID uint) ([]domain.Participant, error)
	UpdateDetails(ctx context.Context, participant domain.Participant, actorID uint) (domain.Participant, error)
	Delete(ctx context.Context, id uint, actorID uint) error
	BulkDelete(ctx context.Context, ids []uint, actorID uint) (int64, error)
	MarkArrived(ctx context.Context, id uint, actorID uint) (domain.Participant, error)
	MarkTrialCompleted(ctx context.Context, id uint, actorID uint) (domain.Participant, error)
	ShareCheckInLink(ctx context.Context, id uint, actorID uint) (domain.Participant, error)
	StatsByTrialDay(ctx context.Context, trialDayID uint) (domain.TrialDayStats, error)
}

type ParticipantTrialDayService interface {
	GetTrialDay(ctx context.Context, id uint) (domain.TrialDay, error)
}

type ParticipantHandler struct {
	conf        *config.APIConfig
	svc         ParticipantService
	trialDaySvc ParticipantTrialDayService
}

func NewParticipantHandler(conf *config.APIConfig, svc ParticipantService, trialDaySvc ParticipantTrialDayService) *ParticipantHandler {
	return &ParticipantHandler{
		conf:        conf,
		svc:         svc,
		trialDaySvc: trialDaySvc,
	}
}

// HandleListParticipants godoc
// @Summary      List participants for a trial day
// @Tags         participants
// @Produce      json
// @Param        trialDayID query     int true "trial day ID"
// @Success      200  {array}   domain.Participant
// @Failure      400  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /participants [get]
// @Security BearerAuth
func (h *ParticipantHandler) HandleListParticipants(ctx *gin.Context) {
	trialDayID, ok := parseIDQuery(ctx, "trialDayID")
	if !ok {
		return
	}

	participants, err := h.svc.ListByTrialDay(ctx.Request.Context(), trialDayID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListParticipants -> h.svc.ListByTrialDay -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, participants)
}

// HandleRegisterParticipant godoc
// @Summary      Register a participant on a trial day
// @Description  Fails with 409 when the trial day's available slots are already taken.
// @Tags         participants
// @Accept       json
// @Produce      json
// @Param        request   body      request.ParticipantRequest true "request body"
// @Success      201      {object}   domain.Participant
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /participants [post]
// @Security BearerAuth
func (h *ParticipantHandler) HandleRegisterParticipant(ctx *gin.Context) {
	var req request.ParticipantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	participant, err := h.svc.Register(ctx.Request.Context(), participantFromRequest(req), middleware.CallerID(ctx))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCapacityExceeded):
			response.RenderErr(ctx, response.ErrConflict(service.ErrCapacityExceeded))
		case errors.Is(err, service.ErrTrialDayNotFound):
			response.RenderErr(ctx, response.ErrNotFound("trial day", "ID", req.TrialDayID))
		case isValidationErr(err):
			response.RenderErr(ctx, response.ErrValidation(err))
		default:
			err = fmt.Errorf("v1.HandleRegisterParticipant -> h.svc.Register -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, participant)
}

// HandleGetParticipant godoc
// @Summary      Get one participant
// @Tags         participants
// @Produce      json
// @Param        participantID path  int true "participant ID"
// @Success      200      {object}   domain.Participant
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /participants/{participantID} [get]
// @Security BearerAuth
func (h *ParticipantHandler) HandleGetParticipant(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "participantID")
	if !ok {
		return
	}

	participant, err := h.svc.GetParticipant(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("participant", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleGetParticipant -> h.svc.GetParticipant -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, participant)
}

// HandleUpdateParticipant godoc
// @Summary      Update a participant's registration details
// @Tags         participants
// @Accept       json
// @Produce      json
// @Param        participantID path  int true "participant ID"
// @Param        request   body      request.ParticipantRequest true "request body"
// @Success      200      {object}   domain.Participant
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /participants/{participantID} [put]
// @Security BearerAuth
func (h *ParticipantHandler) HandleUpdateParticipant(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "participantID")
	if !ok {
		return
	}

	var req request.ParticipantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	participant := participantFromRequest(req)
	participant.ID = id

	updated, err := h.svc.UpdateDetails(ctx.Request.Context(), participant, middleware.CallerID(ctx))
	if err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("participant", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateParticipant -> h.svc.UpdateDetails -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleMarkArrived godoc
// @Summary      Mark a participant as arrived and mint their check-in QR token
// @Description  Idempotent: repeating the call returns the stored record without re-minting the token.
// @Tags         participants
// @Produce      json
// @Param        participantID path  int true "participant ID"
// @Success      200      {object}   domain.Participant
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /participants/{participantID}/arrive [post]
// @Security BearerAuth
func (h *ParticipantHandler) HandleMarkArrived(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "participantID")
	if !ok {
		return
	}

	participant, err := h.svc.MarkArrived(ctx.Request.Context(), id, middleware.CallerID(ctx))
	if err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("participant", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleMarkArrived -> h.svc.MarkArrived -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, participant)
}

// HandleMarkTrialCompleted godoc
// @Summary      Mark a participant's trial as completed
// @Tags         participants
// @Produce      json
// @Param        participantID path  int true "participant ID"
// @Success      200      {object}   domain.Participant
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /participants/{participantID}/complete-trial [post]
// @Security BearerAuth
func (h *ParticipantHandler) HandleMarkTrialCompleted(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "participantID")
	if !ok {
		return
	}

	participant, err := h.svc.MarkTrialCompleted(ctx.Request.Context(), id, middleware.CallerID(ctx))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrParticipantNotFound):
			response.RenderErr(ctx, response.ErrNotFound("participant", "ID", id))
		case errors.Is(err, service.ErrFormNotCompleted), errors.Is(err, service.ErrTrialAlreadyCompleted):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleMarkTrialCompleted -> h.svc.MarkTrialCompleted -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, participant)
}

// HandleDeleteParticipant godoc
// @Summary      Delete a participant
// @Tags         participants
// @Produce      json
// @Param        participantID path  int true "participant ID"
// @Success      204
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /participants/{participantID} [delete]
// @Security BearerAuth
func (h *ParticipantHandler) HandleDeleteParticipant(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "participantID")
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), id, middleware.CallerID(ctx)); err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("participant", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteParticipant -> h.svc.Delete -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleBulkDeleteParticipants godoc
// @Summary      Delete several participants at once
// @Tags         participants
// @Accept       json
// @Produce      json
// @Param        request   body      request.BulkDeleteRequest true "request body"
// @Success      200      {object}   response.BulkDeleteResponse
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /participants/bulk-delete [post]
// @Security BearerAuth
func (h *ParticipantHandler) HandleBulkDeleteParticipants(ctx *gin.Context) {
	var req request.BulkDeleteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	deleted, err := h.svc.BulkDelete(ctx.Request.Context(), req.IDs, middleware.CallerID(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleBulkDeleteParticipants -> h.svc.BulkDelete -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.BulkDeleteResponse{Deleted: deleted})
}

// HandleWhatsAppLink godoc
// @Summary      Build the WhatsApp click-to-chat link for a participant
// @Description  The link pre-fills the Hebrew message and, when the participant has arrived, embeds their check-in form URL.
// @Tags         participants
// @Produce      json
// @Param        participantID path    int    true  "participant ID"
// @Param        message_type  query   string false "check_in_confirmation, trial_reminder or custom"
// @Param        custom_message query  string false "message body when message_type=custom"
// @Success      200      {object}   response.WhatsAppLinkResponse
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /participants/{participantID}/whatsapp-link [get]
// @Security BearerAuth
func (h *ParticipantHandler) HandleWhatsAppLink(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "participantID")
	if !ok {
		return
	}

	var req request.WhatsAppLinkRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	participant, err := h.svc.ShareCheckInLink(ctx.Request.Context(), id, middleware.CallerID(ctx))
	if err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("participant", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleWhatsAppLink -> h.svc.ShareCheckInLink -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	messageType := whatsapp.MessageType(req.MessageType)
	if req.MessageType == "" {
		messageType = whatsapp.CheckInConfirmation
	}

	checkInURL := ""
	if participant.QRCode != nil {
		checkInURL = service.CheckInURL(h.conf.PublicBaseURL, *participant.QRCode)
	}

	link := whatsapp.Link(whatsapp.Message{
		PhoneNumber:     participant.Phone,
		ParticipantName: participant.FullName,
		Type:            messageType,
		CustomMessage:   req.CustomMessage,
		CheckInURL:      checkInURL,
	})

	ctx.JSON(http.StatusOK, response.WhatsAppLinkResponse{Link: link})
}

// HandleExportParticipantINI godoc
// @Summary      Export one participant as an INI file
// @Tags         participants
// @Produce      plain
// @Param        participantID path  int true "participant ID"
// @Success      200      {string}   string
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /participants/{participantID}/export [get]
// @Security BearerAuth
func (h *ParticipantHandler) HandleExportParticipantINI(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "participantID")
	if !ok {
		return
	}

	participant, err := h.svc.GetParticipant(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("participant", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleExportParticipantINI -> h.svc.GetParticipant -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	var day *domain.TrialDay
	if found, err := h.trialDaySvc.GetTrialDay(ctx.Request.Context(), participant.TrialDayID); err == nil {
		day = &found
	}

	content, err := iniexport.Participant(participant, day)
	if err != nil {
		err = fmt.Errorf("v1.HandleExportParticipantINI -> iniexport.Participant -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=participant_%d.ini", id))
	ctx.Data(http.StatusOK, "text/plain; charset=utf-8", content)
}

// HandleExportTrialDayINI godoc
// @Summary      Export a trial day's participants as one INI file
// @Tags         participants
// @Produce      plain
// @Param        trialDayID query     int true "trial day ID"
// @Success      200      {string}   string
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /participants/export/ini [get]
// @Security BearerAuth
func (h *ParticipantHandler) HandleExportTrialDayINI(ctx *gin.Context) {
	trialDayID, ok := parseIDQuery(ctx, "trialDayID")
	if !ok {
		return
	}

	day, err := h.trialDaySvc.GetTrialDay(ctx.Request.Context(), trialDayID)
	if err != nil {
		if errors.Is(err, service.ErrTrialDayNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("trial day", "ID", trialDayID))
			return
		}

		err = fmt.Errorf("v1.HandleExportTrialDayINI -> h.trialDaySvc.GetTrialDay -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	participants, err := h.svc.ListByTrialDay(ctx.Request.Context(), trialDayID)
	if err != nil {
		err = fmt.Errorf("v1.HandleExportTrialDayINI -> h.svc.ListByTrialDay -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	content, err := iniexport.Participants(participants, &day)
	if err != nil {
		err = fmt.Errorf("v1.HandleExportTrialDayINI -> iniexport.Participants -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=participants_%s.ini", day.Date.Format("2006-01-02")))
	ctx.Data(http.StatusOK, "text/plain; charset=utf-8", content)
}

// HandleTrialDayStats godoc
// @Summary      Lifecycle counters for a trial day
// @Tags         dashboard
// @Produce      json
// @Param        trialDayID query     int true "trial day ID"
// @Success      200      {object}   domain.TrialDayStats
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /dashboard/stats [get]
// @Security BearerAuth
func (h *ParticipantHandler) HandleTrialDayStats(ctx *gin.Context) {
	trialDayID, ok := parseIDQuery(ctx, "trialDayID")
	if !ok {
		return
	}

	stats, err := h.svc.StatsByTrialDay(ctx.Request.Context(), trialDayID)
	if err != nil {
		if errors.Is(err, service.ErrTrialDayNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("trial day", "ID", trialDayID))
			return
		}

		err = fmt.Errorf("v1.HandleTrialDayStats -> h.svc.StatsByTrialDay -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

func participantFromRequest(req request.ParticipantRequest) domain.Participant {
	return domain.Participant{
		TrialDayID:         req.TrialDayID,
		FullName:           req.FullName,
		Phone:              req.Phone,
		Age:                req.Age,
		BirthDate:          req.BirthDate,
		WeightKg:           req.WeightKg,
		HeightCm:           req.HeightCm,
		Gender:             req.Gender,
		SkinColor:          req.SkinColor,
		Allergies:          req.Allergies,
		Notes:              req.Notes,
		StationID:          req.StationID,
		DesiredArrivalTime: req.DesiredArrivalTime,
	}
}

func isValidationErr(err error) bool {
	var fieldErrs validation.Errors
	return response.AsValidationErrors(err, &fieldErrs)
}

func parseIDQuery(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Query(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid %v (%v)", name, raw)))
		return 0, false
	}

	return uint(id), true
}
