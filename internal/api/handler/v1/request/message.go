package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/yizeng/gab/gin/gorm/chat-room/internal/domain"
	"github.com/yizeng/gab/gin/gorm/chat-room/internal/pkg/sanitize"
)

// SendMessageRequest is shared by POST and PUT /messages since both carry
// the same body.
type SendMessageRequest struct {
	To   string `json:"to"`
	Text string `json:"text"`
	Type string `json:"type"`
}

func (req *SendMessageRequest) Sanitize() {
	req.To = sanitize.Clean(req.To)
	req.Text = sanitize.Clean(req.Text)
	req.Type = sanitize.Clean(req.Type)
}

func (req *SendMessageRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.To, validation.Required, validation.RuneLength(3, 30)),
		validation.Field(&req.Text, validation.Required),
		validation.Field(&req.Type, validation.Required, validation.In(
			string(domain.MessageTypePrivate),
			string(domain.MessageTypePrivateMessage),
		)),
	)
}
