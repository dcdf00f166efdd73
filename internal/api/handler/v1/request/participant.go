package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/yizeng/gab/gin/gorm/chat-room/internal/pkg/sanitize"
)

type RegisterParticipantRequest struct {
	Name string `json:"name"`
}

// Sanitize strips markup and whitespace from the submitted name.
// Validation applies to the sanitized value.
func (req *RegisterParticipantRequest) Sanitize() {
	req.Name = sanitize.Clean(req.Name)
}

func (req *RegisterParticipantRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.RuneLength(3, 30)),
	)
}

// ValidateName applies the participant name rules to a bare string, used
// for the identity claimed via the "user" header.
func ValidateName(name string) error {
	return validation.Validate(name, validation.Required, validation.RuneLength(3, 30))
}
