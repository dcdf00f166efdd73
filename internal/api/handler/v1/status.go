package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/chat-room/internal/api/handler/v1/request"
	"github.com/yizeng/gab/gin/gorm/chat-room/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/chat-room/internal/pkg/sanitize"
	"github.com/yizeng/gab/gin/gorm/chat-room/internal/service"
)

// HandleHeartbeat godoc
// @Summary      Refresh participant presence
// @Description  Marks the participant named by the "user" header as still present
// @Tags         status
// @Param        user  header  string  true  "participant name"
// @Success      200
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /status [post]
//
// Unlike the message routes, a malformed name here maps to 404 rather than
// 422: an invalid name can never belong to a registered participant, and
// the heartbeat contract only distinguishes found from not found.
func (h *ParticipantHandler) HandleHeartbeat(ctx *gin.Context) {
	name := sanitize.Clean(ctx.GetHeader("user"))
	if err := request.ValidateName(name); err != nil {
		response.RenderErr(ctx, response.ErrNotFound("participant", "name", name))
		return
	}

	if err := h.svc.Heartbeat(ctx.Request.Context(), name); err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("participant", "name", name))
			return
		}

		err = fmt.Errorf("v1.HandleHeartbeat -> h.svc.Heartbeat -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusOK)
}
