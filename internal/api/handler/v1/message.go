package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yizeng/gab/gin/gorm/chat-room/internal/api/handler/v1/request"
	"github.com/yizeng/gab/gin/gorm/chat-room/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/chat-room/internal/api/middleware"
	"github.com/yizeng/gab/gin/gorm/chat-room/internal/domain"
	"github.com/yizeng/gab/gin/gorm/chat-room/internal/service"
)

type MessageService interface {
	Send(ctx context.Context, message domain.Message) (domain.Message, error)
	ListMessages(ctx context.Context, requester string, limit int) ([]domain.Message, error)
	UpdateMessage(ctx context.Context, id, from string, message domain.Message) (domain.Message, error)
	DeleteMessage(ctx context.Context, id, from string) error
}

type MessageHandler struct {
	svc MessageService
}

func NewMessageHandler(svc MessageService) *MessageHandler {
	return &MessageHandler{
		svc: svc,
	}
}

// identityFromContext returns the participant name resolved by the
// identity guard. The guard always runs before these handlers.
func identityFromContext(ctx *gin.Context) string {
	return ctx.GetString(middleware.IdentityKey)
}

// HandleSendMessage godoc
// @Summary      Send a message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        user     header  string                      true  "participant name"
// @Param        request  body    request.SendMessageRequest  true  "request body"
// @Success      201
// @Failure      404  {object}  response.Err
// @Failure      422  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /messages [post]
func (h *MessageHandler) HandleSendMessage(ctx *gin.Context) {
	req, ok := bindMessageBody(ctx)
	if !ok {
		return
	}

	from := identityFromContext(ctx)
	_, err := h.svc.Send(ctx.Request.Context(), domain.Message{
		From: from,
		To:   req.To,
		Text: req.Text,
		Type: domain.MessageType(req.Type),
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleSendMessage -> h.svc.Send -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusCreated)
}

// HandleGetMessages godoc
// @Summary      List visible messages
// @Description  Returns broadcasts plus messages sent by or addressed to the caller, newest first
// @Tags         messages
// @Produce      json
// @Param        user   header  string  true   "participant name"
// @Param        limit  query   int     false  "maximum number of messages"
// @Success      200  {array}   domain.Message
// @Failure      404  {object}  response.Err
// @Failure      422  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /messages [get]
func (h *MessageHandler) HandleGetMessages(ctx *gin.Context) {
	limit := 0
	if raw, given := ctx.GetQuery("limit"); given {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.RenderErr(ctx, response.ErrUnprocessableEntity(fmt.Errorf("limit must be a positive integer, got %q", raw)))
			return
		}
		limit = parsed
	}

	requester := identityFromContext(ctx)
	messages, err := h.svc.ListMessages(ctx.Request.Context(), requester, limit)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetMessages -> h.svc.ListMessages -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, messages)
}

// HandleUpdateMessage godoc
// @Summary      Update a message
// @Description  Replaces recipient, text and type of a message owned by the caller
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        user       header  string                      true  "participant name"
// @Param        messageID  path    string                      true  "message ID"
// @Param        request    body    request.SendMessageRequest  true  "request body"
// @Success      200
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      422  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /messages/{messageID} [put]
func (h *MessageHandler) HandleUpdateMessage(ctx *gin.Context) {
	id, ok := messageIDFromPath(ctx)
	if !ok {
		return
	}

	req, ok := bindMessageBody(ctx)
	if !ok {
		return
	}

	from := identityFromContext(ctx)
	_, err := h.svc.UpdateMessage(ctx.Request.Context(), id, from, domain.Message{
		To:   req.To,
		Text: req.Text,
		Type: domain.MessageType(req.Type),
	})
	if err != nil {
		renderMessageMutationErr(ctx, "v1.HandleUpdateMessage", id, err)
		return
	}

	ctx.Status(http.StatusOK)
}

// HandleDeleteMessage godoc
// @Summary      Delete a message
// @Tags         messages
// @Produce      json
// @Param        user       header  string  true  "participant name"
// @Param        messageID  path    string  true  "message ID"
// @Success      200
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /messages/{messageID} [delete]
func (h *MessageHandler) HandleDeleteMessage(ctx *gin.Context) {
	id, ok := messageIDFromPath(ctx)
	if !ok {
		return
	}

	from := identityFromContext(ctx)
	if err := h.svc.DeleteMessage(ctx.Request.Context(), id, from); err != nil {
		renderMessageMutationErr(ctx, "v1.HandleDeleteMessage", id, err)
		return
	}

	ctx.Status(http.StatusOK)
}

func bindMessageBody(ctx *gin.Context) (request.SendMessageRequest, bool) {
	var req request.SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrUnprocessableEntity(err))
		return request.SendMessageRequest{}, false
	}

	req.Sanitize()
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrUnprocessableEntity(err))
		return request.SendMessageRequest{}, false
	}

	return req, true
}

// messageIDFromPath validates the opaque store identifier. A malformed id
// can never name an existing message, so it renders 404 directly.
func messageIDFromPath(ctx *gin.Context) (string, bool) {
	id := ctx.Param("messageID")
	if _, err := uuid.Parse(id); err != nil {
		response.RenderErr(ctx, response.ErrNotFound("message", "id", id))
		return "", false
	}

	return id, true
}

func renderMessageMutationErr(ctx *gin.Context, caller, id string, err error) {
	switch {
	case errors.Is(err, service.ErrMessageNotFound):
		response.RenderErr(ctx, response.ErrNotFound("message", "id", id))
	case errors.Is(err, service.ErrMessageNotOwned):
		response.RenderErr(ctx, response.ErrUnauthorized("only the original sender may modify this message"))
	default:
		err = fmt.Errorf("%v -> %w", caller, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
