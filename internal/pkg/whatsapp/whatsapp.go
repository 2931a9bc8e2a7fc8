// Package whatsapp builds WhatsApp Web click-to-chat links with pre-filled
// Hebrew message templates. Automatic sending is not supported by WhatsApp;
// the operator clicks Send in the opened chat.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"
)

type MessageType string

const (
	CheckInConfirmation MessageType = "check_in_confirmation"
	TrialReminder       MessageType = "trial_reminder"
	Custom              MessageType = "custom"
)

type Message struct {
	PhoneNumber     string
	ParticipantName string
	Type            MessageType
	CustomMessage   string
	// CheckInURL is the public form link embedding the participant's QR
	// token; appended to the message when set.
	CheckInURL string
}

// FormatPhone strips non-digits and converts the local Israeli 0-prefix to
// the international 972 form expected by wa.me links.
func FormatPhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if strings.HasPrefix(cleaned, "0") {
		return "972" + cleaned[1:]
	}

	return cleaned
}

// Link returns the web.whatsapp.com send URL for the message.
func Link(msg Message) string {
	phone := FormatPhone(msg.PhoneNumber)
	text := url.QueryEscape(messageText(msg))

	return fmt.Sprintf("https://web.whatsapp.com/send/?phone=%s&text=%s&type=phone_number&app_absent=0", phone, text)
}

func messageText(msg Message) string {
	link := ""
	if msg.CheckInURL != "" {
		link = "\n\n" + msg.CheckInURL
	}

	switch msg.Type {
	case CheckInConfirmation:
		return "שלום " + msg.ParticipantName + "! ✅\n\n" +
			"תודה שמילאת את טופס ההרשמה לניסוי.\n" +
			"פרטיך נקלטו בהצלחה במערכת." + link + "\n\n" +
			"נתראה בקרוב!\n" +
			"צוות Trial Master Pro 🔬"

	case TrialReminder:
		return "שלום " + msg.ParticipantName + ",\n\n" +
			"זוהי תזכורת לניסוי שלך מחר.\n" +
			"נא להגיע בזמן." + link + "\n\n" +
			"צוות Trial Master Pro 📅"

	case Custom:
		if msg.CustomMessage != "" {
			return msg.CustomMessage + link
		}
		return "שלום " + msg.ParticipantName + link

	default:
		return "שלום " + msg.ParticipantName + link
	}
}
