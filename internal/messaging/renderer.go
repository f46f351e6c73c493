package messaging

import (
	"fmt"

	"github.com/streamops/streammanager/internal/domain"
)

// Renderer produces the user-facing message texts. The texts are in
// Spanish, matching the audience of the original dashboard.
type Renderer struct{}

// NewRenderer creates a new renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render returns the subject and body for a message to the subscriber.
// For MessageTypePersonalizado the custom text is used as body when present.
func (r *Renderer) Render(sub *domain.Subscriber, msgType domain.MessageType, custom string) (subject, body string, err error) {
	switch msgType {
	case domain.MessageTypeRecordatorio:
		subject = fmt.Sprintf("Recordatorio de renovación - %s", sub.Service)
		body = fmt.Sprintf(
			"Hola %s, te recordamos que tu suscripción a %s vence el %s. ¡Renuévala para seguir disfrutando!",
			sub.Name, sub.Service, sub.ExpirationDate,
		)
	case domain.MessageTypeVencimiento:
		subject = fmt.Sprintf("Tu suscripción a %s está por vencer", sub.Service)
		body = fmt.Sprintf(
			"¡Atención %s! Tu suscripción a %s vence en %d días (%s). Renueva ahora para no perder acceso.",
			sub.Name, sub.Service, sub.DaysRemaining, sub.ExpirationDate,
		)
	case domain.MessageTypePersonalizado:
		subject = fmt.Sprintf("Mensaje sobre tu suscripción a %s", sub.Service)
		body = custom
		if body == "" {
			body = "Mensaje personalizado enviado."
		}
	default:
		return "", "", fmt.Errorf("%w: %s", ErrUnknownMessageType, msgType)
	}

	return subject, body, nil
}
