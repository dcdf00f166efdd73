package middleware

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/chat-room/internal/api/handler/v1/request"
	"github.com/yizeng/gab/gin/gorm/chat-room/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/chat-room/internal/pkg/sanitize"
)

// IdentityKey is where the guard stores the resolved participant name in
// the gin context.
const IdentityKey = "identity"

// ParticipantResolver reports whether a name is currently registered.
type ParticipantResolver interface {
	Exists(ctx context.Context, name string) (bool, error)
}

type IdentityGuard struct {
	resolver ParticipantResolver
}

func NewIdentityGuard(resolver ParticipantResolver) *IdentityGuard {
	return &IdentityGuard{
		resolver: resolver,
	}
}

// RequireParticipant resolves the "user" header to a registered
// participant: malformed names abort with 422, unregistered ones with 404.
func (g *IdentityGuard) RequireParticipant() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		name := sanitize.Clean(ctx.GetHeader("user"))
		if err := request.ValidateName(name); err != nil {
			response.RenderErr(ctx, response.ErrUnprocessableEntity(fmt.Errorf("invalid user header -> %w", err)))
			return
		}

		exists, err := g.resolver.Exists(ctx.Request.Context(), name)
		if err != nil {
			err = fmt.Errorf("RequireParticipant -> g.resolver.Exists -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
			return
		}
		if !exists {
			response.RenderErr(ctx, response.ErrNotFound("participant", "name", name))
			return
		}

		ctx.Set(IdentityKey, name)
		ctx.Next()
	}
}
