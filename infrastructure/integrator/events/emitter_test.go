package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
)

type recordingEmitter struct {
	events []Event
}

func (r *recordingEmitter) Emit(event Event) {
	r.events = append(r.events, event)
}

func TestSanitizeRedigeChavesSensiveis(t *testing.T) {
	payload := map[string]interface{}{
		"endpoint":      "/campaigns",
		"access_token":  "token-abc",
		"app_secret":    "s3cr3t",
		"Authorization": "Bearer xyz",
		"user_password": "123",
		"retry_count":   2,
	}

	clean := Sanitize(payload)

	assert.Equal(t, "/campaigns", clean["endpoint"])
	assert.Equal(t, 2, clean["retry_count"])
	assert.Equal(t, "[REDACTED]", clean["access_token"])
	assert.Equal(t, "[REDACTED]", clean["app_secret"])
	assert.Equal(t, "[REDACTED]", clean["Authorization"])
	assert.Equal(t, "[REDACTED]", clean["user_password"])

	// O payload original não é mutado
	assert.Equal(t, "token-abc", payload["access_token"])

	assert.Nil(t, Sanitize(nil))
}

func TestMultiEmitterDistribuiParaTodos(t *testing.T) {
	first := &recordingEmitter{}
	second := &recordingEmitter{}

	emitter := NewMultiEmitter(first, second)
	emitter.Emit(Event{Type: EventAdCreated, Platform: domain.PlatformMeta})

	assert.Len(t, first.events, 1)
	assert.Len(t, second.events, 1)
	assert.Equal(t, EventAdCreated, first.events[0].Type)
}
