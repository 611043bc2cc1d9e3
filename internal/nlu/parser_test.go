package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fluxo-ai/internal/common/logger"
	"fluxo-ai/internal/models"
)

func newTestParser(t *testing.T) *Parser {
	return NewParser(logger.NewTestLogger(t))
}

func TestParser_IntentClassification(t *testing.T) {
	parser := newTestParser(t)

	tests := []struct {
		name     string
		text     string
		expected models.Intent
	}{
		{
			name:     "explicit create verb",
			text:     "Quero criar uma automação para meu negócio",
			expected: models.IntentCreateWorkflow,
		},
		{
			name:     "create phrase wins over question word",
			text:     "Como criar uma automação de cobrança?",
			expected: models.IntentCreateWorkflow,
		},
		{
			name:     "create wins over modify keyword",
			text:     "Quero melhorar meu atendimento criando uma automação",
			expected: models.IntentCreateWorkflow,
		},
		{
			name:     "modify verb",
			text:     "Preciso alterar o horário do envio",
			expected: models.IntentModifyWorkflow,
		},
		{
			name:     "interrogative question",
			text:     "Como funciona o PIX?",
			expected: models.IntentAskQuestion,
		},
		{
			name:     "help request",
			text:     "Minha automação não funciona, me ajude",
			expected: models.IntentGetHelp,
		},
		{
			name:     "structural fallback on action phrase",
			text:     "Envie uma mensagem de WhatsApp para os clientes",
			expected: models.IntentCreateWorkflow,
		},
		{
			name:     "no signal at all",
			text:     "bom dia pessoal",
			expected: models.IntentAskQuestion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parser.Parse(tt.text, models.RequestContext{})
			assert.Equal(t, tt.expected, result.Intent)
		})
	}
}

func TestParser_CanonicalCreateUtterance(t *testing.T) {
	parser := newTestParser(t)

	result := parser.Parse(
		"Quero criar uma automação que envie uma mensagem de WhatsApp todo dia às 9h",
		models.RequestContext{},
	)

	assert.Equal(t, models.IntentCreateWorkflow, result.Intent)
	require.NotNil(t, result.Workflow)
	assert.Equal(t, "Automação de WhatsApp", result.Workflow.Name)

	require.Len(t, result.Workflow.Triggers, 1)
	trigger := result.Workflow.Triggers[0]
	assert.Equal(t, models.TriggerSchedule, trigger.Type)
	assert.InDelta(t, 0.85, trigger.Confidence, 0.001)
	require.NotNil(t, trigger.Schedule)
	assert.True(t, trigger.Schedule.Time.IsResolved())

	require.Len(t, result.Workflow.Actions, 1)
	action := result.Workflow.Actions[0]
	assert.Equal(t, models.ActionSendWhatsApp, action.Type)
	assert.InDelta(t, 0.9, action.Confidence, 0.001)
	require.NotNil(t, action.Message)
	assert.False(t, action.Message.Recipient.IsResolved())

	assert.Empty(t, result.Workflow.Conditions)
	assert.InDelta(t, 0.85, result.Confidence, 0.001)

	var types []models.EntityType
	for _, e := range result.Entities {
		types = append(types, e.Type)
	}
	assert.Contains(t, types, models.EntityTime)
	assert.Contains(t, types, models.EntityIntegration)
}

func TestParser_NonCreateSkipsWorkflow(t *testing.T) {
	parser := newTestParser(t)

	tests := []struct {
		name string
		text string
	}{
		{name: "question", text: "O que é uma automação?"},
		{name: "help", text: "Preciso de ajuda com o sistema"},
		{name: "modify", text: "Quero mudar a mensagem de boas-vindas"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parser.Parse(tt.text, models.RequestContext{})
			assert.Nil(t, result.Workflow)
			assert.InDelta(t, 0.9, result.Confidence, 0.001)
			assert.NotEmpty(t, result.Suggestions)
		})
	}
}

func TestParser_EmptyUtteranceClassifiesAsQuestion(t *testing.T) {
	parser := newTestParser(t)

	// Empty input matches no keyword and no structural phrase, so it takes
	// the same ask_question path as any other unmatched utterance.
	for _, text := range []string{"", "   ", "\n\t"} {
		result := parser.Parse(text, models.RequestContext{})
		assert.False(t, result.Degraded)
		assert.Equal(t, models.IntentAskQuestion, result.Intent)
		assert.InDelta(t, 0.9, result.Confidence, 0.001)
		assert.Nil(t, result.Workflow)
		assert.Empty(t, result.Entities)
		assert.NotEmpty(t, result.Suggestions)
	}
}

func TestParser_EntityExtraction(t *testing.T) {
	parser := newTestParser(t)

	tests := []struct {
		name       string
		text       string
		entityType models.EntityType
		value      string
		confidence float64
	}{
		{
			name:       "clock time",
			text:       "criar aviso às 14:30 para a equipe",
			entityType: models.EntityTime,
			value:      "14:30",
			confidence: 0.9,
		},
		{
			name:       "integration alias zap",
			text:       "criar resposta automática no zap",
			entityType: models.EntityIntegration,
			value:      "whatsapp",
			confidence: 0.95,
		},
		{
			name:       "integration alias planilha",
			text:       "criar registro dos pedidos na planilha",
			entityType: models.EntityIntegration,
			value:      "spreadsheet",
			confidence: 0.95,
		},
		{
			name:       "monetary amount",
			text:       "criar cobrança de R$ 150,00 via PIX",
			entityType: models.EntityAmount,
			value:      "r$ 150,00",
			confidence: 0.9,
		},
		{
			name:       "contact email",
			text:       "criar envio de relatório para dono@minhaloja.com.br",
			entityType: models.EntityContact,
			value:      "dono@minhaloja.com.br",
			confidence: 0.95,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parser.Parse(tt.text, models.RequestContext{})

			found := false
			for _, e := range result.Entities {
				if e.Type == tt.entityType && e.Value == tt.value {
					found = true
					assert.InDelta(t, tt.confidence, e.Confidence, 0.001)
				}
			}
			assert.True(t, found, "expected %s entity %q in %v", tt.entityType, tt.value, result.Entities)
		})
	}
}

func TestParser_DuplicateMentionsKept(t *testing.T) {
	parser := newTestParser(t)

	result := parser.Parse("criar aviso no whatsapp e responder no whatsapp", models.RequestContext{})

	count := 0
	for _, e := range result.Entities {
		if e.Type == models.EntityIntegration && e.Value == "whatsapp" {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestParser_ManualTriggerFallback(t *testing.T) {
	parser := newTestParser(t)

	result := parser.Parse("criar uma automação que envie um e-mail de boas-vindas", models.RequestContext{})

	require.NotNil(t, result.Workflow)
	require.Len(t, result.Workflow.Triggers, 1)
	assert.Equal(t, models.TriggerManual, result.Workflow.Triggers[0].Type)
	assert.InDelta(t, 0.6, result.Workflow.Triggers[0].Confidence, 0.001)
}

func TestParser_PixActionCarriesAmount(t *testing.T) {
	parser := newTestParser(t)

	result := parser.Parse("criar cobrança PIX de R$ 99,90 para os inadimplentes", models.RequestContext{})

	require.NotNil(t, result.Workflow)

	var pix *models.ActionCandidate
	for i := range result.Workflow.Actions {
		if result.Workflow.Actions[i].Type == models.ActionGeneratePix {
			pix = &result.Workflow.Actions[i]
		}
	}
	require.NotNil(t, pix)
	require.NotNil(t, pix.Pix)
	assert.True(t, pix.Pix.Amount.IsResolved())
	assert.Equal(t, "r$ 99,90", pix.Pix.Amount.Value)
	assert.False(t, pix.Pix.Description.IsResolved())
}

func TestParser_ConfidenceAggregation(t *testing.T) {
	tests := []struct {
		name       string
		triggers   []models.TriggerCandidate
		actions    []models.ActionCandidate
		conditions []models.ConditionCandidate
		expected   float64
	}{
		{
			name:     "both empty",
			expected: 0.2,
		},
		{
			name:     "only trigger",
			triggers: []models.TriggerCandidate{{Confidence: 0.85}},
			expected: 0.5,
		},
		{
			name:     "only action",
			actions:  []models.ActionCandidate{{Confidence: 0.9}},
			expected: 0.5,
		},
		{
			name:     "no conditions uses default",
			triggers: []models.TriggerCandidate{{Confidence: 0.85}},
			actions:  []models.ActionCandidate{{Confidence: 0.9}},
			expected: (0.85 + 0.9 + 0.8) / 3,
		},
		{
			name:       "condition average participates",
			triggers:   []models.TriggerCandidate{{Confidence: 0.9}},
			actions:    []models.ActionCandidate{{Confidence: 0.9}},
			conditions: []models.ConditionCandidate{{Confidence: 0.75}, {Confidence: 0.7}},
			expected:   (0.9 + 0.9 + 0.725) / 3,
		},
		{
			name:       "capped at ceiling",
			triggers:   []models.TriggerCandidate{{Confidence: 1.0}},
			actions:    []models.ActionCandidate{{Confidence: 1.0}},
			conditions: []models.ConditionCandidate{{Confidence: 1.0}},
			expected:   0.95,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := aggregateConfidence(tt.triggers, tt.actions, tt.conditions)
			assert.InDelta(t, tt.expected, result, 0.0001)
		})
	}
}

func TestParser_ConfidenceBounds(t *testing.T) {
	parser := newTestParser(t)

	texts := []string{
		"",
		"Quero criar uma automação que envie uma mensagem de WhatsApp todo dia às 9h",
		"Como funciona o PIX?",
		"criar",
		"Se o cliente não pagar, espere 2 dias e envie a cobrança PIX no whatsapp, para cada pedido",
	}

	for _, text := range texts {
		result := parser.Parse(text, models.RequestContext{})
		assert.GreaterOrEqual(t, result.Confidence, 0.0, "text: %q", text)
		assert.LessOrEqual(t, result.Confidence, 1.0, "text: %q", text)
	}
}

func TestParser_SuggestionsForMissingCategories(t *testing.T) {
	parser := newTestParser(t)

	t.Run("bare create verb asks for everything", func(t *testing.T) {
		result := parser.Parse("quero criar algo", models.RequestContext{})
		assert.Len(t, result.Suggestions, 3)
	})

	t.Run("complete utterance needs nothing", func(t *testing.T) {
		result := parser.Parse(
			"Quero criar uma automação que envie uma mensagem de WhatsApp todo dia às 9h",
			models.RequestContext{},
		)
		assert.Empty(t, result.Suggestions)
	})
}

func TestParser_WorkflowNamePriority(t *testing.T) {
	parser := newTestParser(t)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"whatsapp wins over billing", "criar cobrança PIX pelo whatsapp", "Automação de WhatsApp"},
		{"email", "criar envio de e-mail semanal", "Automação de E-mail"},
		{"billing", "criar cobrança dos boletos atrasados", "Automação de Cobrança"},
		{"customer service", "criar resposta rápida para clientes", "Automação de Atendimento"},
		{"generic", "criar rotina para organizar tarefas", "Automação Personalizada"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parser.Parse(tt.text, models.RequestContext{})
			require.NotNil(t, result.Workflow)
			assert.Equal(t, tt.want, result.Workflow.Name)
		})
	}
}

func TestParser_ConditionExtraction(t *testing.T) {
	parser := newTestParser(t)

	result := parser.Parse(
		"Quero criar: se o cliente não responder, espere 2 dias e envie a cobrança PIX, para cada pedido em aberto",
		models.RequestContext{},
	)

	require.NotNil(t, result.Workflow)
	var types []models.ConditionType
	for _, c := range result.Workflow.Conditions {
		types = append(types, c.Type)
	}
	assert.Contains(t, types, models.ConditionIfThen)
	assert.Contains(t, types, models.ConditionDelay)
	assert.Contains(t, types, models.ConditionLoop)
}
