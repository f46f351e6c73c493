package messaging

import (
	"testing"
	"time"

	"github.com/streamops/streammanager/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSubscriber() *domain.Subscriber {
	return &domain.Subscriber{
		ID:             "sub-1",
		Service:        domain.ServiceNetflix,
		Name:           "MARIA GARCIA",
		Phone:          "593991234567",
		Email:          "maria@example.com",
		ExpirationDate: domain.NewDate(2026, time.September, 5),
		DaysRemaining:  7,
		Status:         domain.SubscriberStatusExpiring,
	}
}

func TestRenderer_Recordatorio(t *testing.T) {
	r := NewRenderer()
	sub := testSubscriber()

	subject, body, err := r.Render(sub, domain.MessageTypeRecordatorio, "")
	require.NoError(t, err)

	assert.Equal(t, "Recordatorio de renovación - NETFLIX", subject)
	assert.Equal(t,
		"Hola MARIA GARCIA, te recordamos que tu suscripción a NETFLIX vence el 2026-09-05. ¡Renuévala para seguir disfrutando!",
		body,
	)
}

func TestRenderer_Vencimiento(t *testing.T) {
	r := NewRenderer()
	sub := testSubscriber()
	sub.DaysRemaining = 3

	subject, body, err := r.Render(sub, domain.MessageTypeVencimiento, "")
	require.NoError(t, err)

	assert.Equal(t, "Tu suscripción a NETFLIX está por vencer", subject)
	assert.Equal(t,
		"¡Atención MARIA GARCIA! Tu suscripción a NETFLIX vence en 3 días (2026-09-05). Renueva ahora para no perder acceso.",
		body,
	)
}

func TestRenderer_Personalizado(t *testing.T) {
	r := NewRenderer()
	sub := testSubscriber()

	t.Run("with custom text", func(t *testing.T) {
		subject, body, err := r.Render(sub, domain.MessageTypePersonalizado, "Promoción especial este mes")
		require.NoError(t, err)

		assert.Equal(t, "Mensaje sobre tu suscripción a NETFLIX", subject)
		assert.Equal(t, "Promoción especial este mes", body)
	})

	t.Run("without custom text falls back to default", func(t *testing.T) {
		_, body, err := r.Render(sub, domain.MessageTypePersonalizado, "")
		require.NoError(t, err)

		assert.Equal(t, "Mensaje personalizado enviado.", body)
	})
}

func TestRenderer_UnknownType(t *testing.T) {
	r := NewRenderer()

	_, _, err := r.Render(testSubscriber(), domain.MessageType("spam"), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownMessageType)
}
