package service

import (
	"go.uber.org/zap"

	"github.com/Toms422/trial-master-pro/internal/domain"
	"github.com/Toms422/trial-master-pro/internal/pkg/whatsapp"
)

// WhatsAppNotifier builds the participant's check-in deep link after
// arrival. Messages go out click-to-chat, so the backend only prepares and
// logs the link; a failure here never touches the arrival transition.
type WhatsAppNotifier struct {
	publicBaseURL string
}

func NewWhatsAppNotifier(publicBaseURL string) *WhatsAppNotifier {
	return &WhatsAppNotifier{
		publicBaseURL: publicBaseURL,
	}
}

func (n *WhatsAppNotifier) NotifyArrival(participant domain.Participant) {
	if participant.QRCode == nil {
		return
	}

	link := whatsapp.Link(whatsapp.Message{
		PhoneNumber:     participant.Phone,
		ParticipantName: participant.FullName,
		Type:            whatsapp.CheckInConfirmation,
		CheckInURL:      CheckInURL(n.publicBaseURL, *participant.QRCode),
	})

	zap.L().Info("check-in notification prepared",
		zap.Uint("participant_id", participant.ID),
		zap.String("whatsapp_link", link))
}

// CheckInURL is the public form location for a QR token.
func CheckInURL(publicBaseURL, qrCode string) string {
	return publicBaseURL + "/check-in/" + qrCode
}
