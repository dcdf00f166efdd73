package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/chat-room/internal/api/handler/v1/request"
	"github.com/yizeng/gab/gin/gorm/chat-room/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/chat-room/internal/domain"
	"github.com/yizeng/gab/gin/gorm/chat-room/internal/service"
)

type ParticipantService interface {
	Register(ctx context.Context, name string) (domain.Participant, error)
	ListParticipants(ctx context.Context) ([]domain.Participant, error)
	Heartbeat(ctx context.Context, name string) error
}

type ParticipantHandler struct {
	svc ParticipantService
}

func NewParticipantHandler(svc ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{
		svc: svc,
	}
}

// HandleRegisterParticipant godoc
// @Summary      Register a participant
// @Description  Registers a display name and announces the join to the room
// @Tags         participants
// @Accept       json
// @Produce      json
// @Param        request  body  request.RegisterParticipantRequest  true  "request body"
// @Success      201
// @Failure      409  {object}  response.Err
// @Failure      422  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /participants [post]
func (h *ParticipantHandler) HandleRegisterParticipant(ctx *gin.Context) {
	var req request.RegisterParticipantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrUnprocessableEntity(err))
		return
	}

	req.Sanitize()
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrUnprocessableEntity(err))
		return
	}

	if _, err := h.svc.Register(ctx.Request.Context(), req.Name); err != nil {
		if errors.Is(err, service.ErrParticipantNameTaken) {
			response.RenderErr(ctx, response.ErrConflict("participant", "name", req.Name))
			return
		}

		err = fmt.Errorf("v1.HandleRegisterParticipant -> h.svc.Register -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusCreated)
}

// HandleGetParticipants godoc
// @Summary      List participants
// @Tags         participants
// @Produce      json
// @Success      200  {array}   domain.Participant
// @Failure      500  {object}  response.Err
// @Router       /participants [get]
func (h *ParticipantHandler) HandleGetParticipants(ctx *gin.Context) {
	participants, err := h.svc.ListParticipants(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetParticipants -> h.svc.ListParticipants -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, participants)
}
