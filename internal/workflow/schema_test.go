package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validWorkflowJSON = `{
  "id": "wf-1",
  "name": "Automação de WhatsApp",
  "description": "Envia mensagem todo dia às 9h",
  "nodes": [
    {
      "id": "n1",
      "type": "trigger",
      "name": "Agendamento diário",
      "config": {"time": "09:00"},
      "position": {"x": 0, "y": 0}
    },
    {
      "id": "n2",
      "type": "action",
      "name": "Enviar WhatsApp",
      "config": {},
      "position": {"x": 200, "y": 0}
    }
  ],
  "edges": [
    {"id": "e1", "source": "n1", "target": "n2", "type": "default"}
  ],
  "estimatedROI": {"timeSaved": "2h/semana", "costSaved": "R$ 200/mês", "complexity": "simple"},
  "suggestedIntegrations": ["whatsapp"],
  "tags": ["mensagens"]
}`

func TestValidate_AcceptsContractJSON(t *testing.T) {
	wf, err := Validate([]byte(validWorkflowJSON))
	require.NoError(t, err)
	assert.Equal(t, "wf-1", wf.ID)
	assert.Equal(t, "Automação de WhatsApp", wf.Name)
	require.Len(t, wf.Nodes, 2)
	assert.Equal(t, "trigger", string(wf.Nodes[0].Type))
	require.Len(t, wf.Edges, 1)
	assert.Equal(t, "whatsapp", wf.SuggestedIntegrations[0])
}

func TestValidate_RejectsBadJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "missing required fields", raw: `{"id": "wf-1"}`},
		{name: "empty nodes", raw: `{"id":"wf-1","name":"x","description":"","nodes":[],"edges":[]}`},
		{
			name: "invalid node type",
			raw:  `{"id":"wf-1","name":"x","description":"","nodes":[{"id":"n1","type":"webhook","name":"n"}],"edges":[]}`,
		},
		{
			name: "edge without target",
			raw:  `{"id":"wf-1","name":"x","description":"","nodes":[{"id":"n1","type":"trigger","name":"n"}],"edges":[{"id":"e1","source":"n1"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate([]byte(tt.raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidWorkflow)
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
		wantErr  bool
	}{
		{
			name:     "bare object",
			text:     `{"a": 1}`,
			expected: `{"a": 1}`,
		},
		{
			name:     "object wrapped in prose",
			text:     "Aqui está a automação:\n{\"a\": 1}\nEspero que ajude!",
			expected: `{"a": 1}`,
		},
		{
			name:     "code fence",
			text:     "```json\n{\"a\": {\"b\": 2}}\n```",
			expected: `{"a": {"b": 2}}`,
		},
		{
			name:     "braces inside strings ignored",
			text:     `{"text": "chaves } dentro { da string"}`,
			expected: `{"text": "chaves } dentro { da string"}`,
		},
		{
			name:     "escaped quotes inside strings",
			text:     `{"text": "aspas \" e } juntas"}`,
			expected: `{"text": "aspas \" e } juntas"}`,
		},
		{
			name:    "no object at all",
			text:    "desculpe, não consegui gerar",
			wantErr: true,
		},
		{
			name:    "unbalanced object",
			text:    `{"a": {"b": 1}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := ExtractJSON(tt.text)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrNoJSONFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(raw))
		})
	}
}

func TestFromLLMText(t *testing.T) {
	t.Run("valid workflow in prose", func(t *testing.T) {
		wf, err := FromLLMText("Claro! Segue a automação:\n" + validWorkflowJSON)
		require.NoError(t, err)
		assert.Equal(t, "wf-1", wf.ID)
	})

	t.Run("json present but invalid contract", func(t *testing.T) {
		_, err := FromLLMText(`{"id": "wf-1"}`)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidWorkflow)
	})

	t.Run("no json", func(t *testing.T) {
		_, err := FromLLMText("não consegui")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoJSONFound)
	})
}
