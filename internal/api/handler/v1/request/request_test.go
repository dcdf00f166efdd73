package request

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterParticipantRequest(t *testing.T) {
	req := RegisterParticipantRequest{Name: " <b>Maria</b> "}
	req.Sanitize()
	require.Equal(t, "Maria", req.Name)
	require.NoError(t, req.Validate())

	// The length rule applies to the sanitized value, so a name padded to
	// legal length with markup still fails.
	short := RegisterParticipantRequest{Name: "<i></i>ab"}
	short.Sanitize()
	require.Error(t, short.Validate())

	long := RegisterParticipantRequest{Name: strings.Repeat("a", 31)}
	long.Sanitize()
	require.Error(t, long.Validate())
}

func TestValidateName(t *testing.T) {
	require.NoError(t, ValidateName("Maria"))
	require.NoError(t, ValidateName("abc"))
	require.NoError(t, ValidateName(strings.Repeat("a", 30)))
	require.Error(t, ValidateName(""))
	require.Error(t, ValidateName("ab"))
	require.Error(t, ValidateName(strings.Repeat("a", 31)))
}

func TestSendMessageRequest_Validate(t *testing.T) {
	valid := SendMessageRequest{To: "Joao", Text: "hello", Type: "private"}
	require.NoError(t, valid.Validate())

	valid.Type = "private_message"
	require.NoError(t, valid.Validate())

	statusType := SendMessageRequest{To: "Todos", Text: "hi", Type: "status"}
	require.Error(t, statusType.Validate())

	noText := SendMessageRequest{To: "Joao", Text: "", Type: "private"}
	require.Error(t, noText.Validate())

	shortRecipient := SendMessageRequest{To: "ab", Text: "hi", Type: "private"}
	require.Error(t, shortRecipient.Validate())
}
