package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fluxo-ai/internal/models"
)

func TestIntentGroupOrder(t *testing.T) {
	expected := []models.Intent{
		models.IntentCreateWorkflow,
		models.IntentModifyWorkflow,
		models.IntentAskQuestion,
		models.IntentGetHelp,
	}

	assert.Len(t, IntentGroups, len(expected))
	for i, group := range IntentGroups {
		assert.Equal(t, expected[i], group.Intent)
		assert.NotEmpty(t, group.Keywords)
	}
}

func TestNormalizeIntegration(t *testing.T) {
	tests := []struct {
		in  string
		out string
	}{
		{"zap", "whatsapp"},
		{"whatsapp", "whatsapp"},
		{"e-mail", "email"},
		{"gmail", "email"},
		{"planilhas", "spreadsheet"},
		{"mercado pago", "mercadopago"},
		{"mercado  pago", "mercadopago"},
		{"pix", "pix"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.out, NormalizeIntegration(tt.in), "input %q", tt.in)
	}
}

func TestTriggerRuleConfidences(t *testing.T) {
	byType := map[models.TriggerType]float64{}
	for _, r := range TriggerRules {
		byType[r.Type] = r.Confidence
	}

	assert.InDelta(t, 0.85, byType[models.TriggerSchedule], 0.001)
	assert.InDelta(t, 0.9, byType[models.TriggerWhatsAppReceived], 0.001)
	assert.InDelta(t, 0.9, byType[models.TriggerEmailReceived], 0.001)
	assert.InDelta(t, 0.85, byType[models.TriggerFormSubmitted], 0.001)
	assert.InDelta(t, 0.6, ManualTriggerConfidence, 0.001)
}

func TestActionRuleConfidences(t *testing.T) {
	byType := map[models.ActionType]float64{}
	for _, r := range ActionRules {
		byType[r.Type] = r.Confidence
	}

	assert.InDelta(t, 0.9, byType[models.ActionSendWhatsApp], 0.001)
	assert.InDelta(t, 0.9, byType[models.ActionSendEmail], 0.001)
	assert.InDelta(t, 0.9, byType[models.ActionGeneratePix], 0.001)
	assert.InDelta(t, 0.85, byType[models.ActionSaveData], 0.001)
	assert.InDelta(t, 0.85, byType[models.ActionSendNotification], 0.001)
}
