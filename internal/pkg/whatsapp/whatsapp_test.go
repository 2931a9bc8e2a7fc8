package whatsapp

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{"local israeli number", "0521234567", "972521234567"},
		{"already international", "972521234567", "972521234567"},
		{"dashes and spaces stripped", "052-123 4567", "972521234567"},
		{"plus prefix stripped", "+972-52-1234567", "972521234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPhone(tt.phone))
		})
	}
}

func TestLink(t *testing.T) {
	link := Link(Message{
		PhoneNumber:     "0521234567",
		ParticipantName: "דנה",
		Type:            CheckInConfirmation,
		CheckInURL:      "http://localhost:5173/check-in/abc",
	})

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "web.whatsapp.com", parsed.Host)

	query := parsed.Query()
	assert.Equal(t, "972521234567", query.Get("phone"))
	assert.Contains(t, query.Get("text"), "דנה")
	assert.Contains(t, query.Get("text"), "http://localhost:5173/check-in/abc")
}

func TestMessageText(t *testing.T) {
	t.Run("custom message wins", func(t *testing.T) {
		text := messageText(Message{
			ParticipantName: "Dana",
			Type:            Custom,
			CustomMessage:   "hello there",
		})
		assert.Equal(t, "hello there", text)
	})

	t.Run("reminder omits the link when absent", func(t *testing.T) {
		text := messageText(Message{
			ParticipantName: "Dana",
			Type:            TrialReminder,
		})
		assert.False(t, strings.Contains(text, "http"))
	})
}
