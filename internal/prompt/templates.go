package prompt

import (
	"errors"
	"fmt"
)

// ErrTemplateNotFound marks a fatal configuration error: a builder referenced
// a template missing from the registry. It is not a per-request condition.
var ErrTemplateNotFound = errors.New("TEMPLATE_NOT_FOUND")

// Category names one prompt use case.
type Category string

const (
	CategoryWorkflowGeneration    Category = "workflow_generation"
	CategoryWorkflowOptimization  Category = "workflow_optimization"
	CategoryTroubleshooting       Category = "troubleshooting"
	CategoryIntegrationSuggestion Category = "integration_suggestion"
	CategoryQuestionAnswering     Category = "question_answering"
	CategoryGeneralConversation   Category = "general_conversation"
)

// Template is a static prompt skeleton. Read-only after startup.
type Template struct {
	ID        string
	Category  Category
	Body      string
	Variables []string
	Examples  []string
}

// Registry holds the named templates, populated once at startup.
type Registry struct {
	templates map[Category]Template
}

// NewRegistry builds the default registry with every built-in template.
func NewRegistry() *Registry {
	r := &Registry{templates: make(map[Category]Template)}
	for _, t := range builtinTemplates {
		r.templates[t.Category] = t
	}
	return r
}

// Register adds or replaces a template. Intended for startup configuration
// and tests only.
func (r *Registry) Register(t Template) {
	r.templates[t.Category] = t
}

// Get returns the template for a category or ErrTemplateNotFound.
func (r *Registry) Get(category Category) (Template, error) {
	t, ok := r.templates[category]
	if !ok {
		return Template{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, category)
	}
	return t, nil
}

var builtinTemplates = []Template{
	{
		ID:       "workflow-generation-v1",
		Category: CategoryWorkflowGeneration,
		Body: `Você é um especialista em automação de processos para pequenas e médias empresas brasileiras.
Sua tarefa é transformar o pedido do usuário em uma automação completa, pronta para o editor visual.

Pedido do usuário:
"{{userText}}"`,
		Variables: []string{"userText", "industry", "complexity", "integrations"},
		Examples: []string{
			"Quero criar uma automação que envie uma mensagem de WhatsApp todo dia às 9h",
			"Quando um cliente preencher o formulário, salvar os dados na planilha",
		},
	},
	{
		ID:       "workflow-optimization-v1",
		Category: CategoryWorkflowOptimization,
		Body: `Você é um especialista em otimização de automações para pequenas e médias empresas brasileiras.
Analise a automação abaixo e proponha melhorias concretas, explicando o impacto de cada uma.

Automação atual:
{{workflowData}}`,
		Variables: []string{"workflowData", "goals"},
	},
	{
		ID:       "troubleshooting-v1",
		Category: CategoryTroubleshooting,
		Body: `Você é o suporte técnico de uma plataforma de automação para pequenas e médias empresas brasileiras.
Ajude o usuário a resolver o problema descrito abaixo com passos práticos e linguagem simples.

Problema relatado:
"{{errorText}}"`,
		Variables: []string{"errorText"},
	},
	{
		ID:       "integration-suggestion-v1",
		Category: CategoryIntegrationSuggestion,
		Body: `Você é um consultor de automação para pequenas e médias empresas brasileiras.
Sugira as integrações mais úteis para o tipo de negócio abaixo, priorizando ganhos rápidos.

Tipo de negócio: {{businessType}}`,
		Variables: []string{"businessType", "currentIntegrations"},
	},
	{
		ID:       "question-answering-v1",
		Category: CategoryQuestionAnswering,
		Body: `Você é o assistente de uma plataforma de automação para pequenas e médias empresas brasileiras.
Responda a pergunta do usuário de forma clara, curta e prática, em português.

Pergunta:
"{{question}}"`,
		Variables: []string{"question"},
	},
	{
		ID:       "general-conversation-v1",
		Category: CategoryGeneralConversation,
		Body: `Você é o assistente de uma plataforma de automação para pequenas e médias empresas brasileiras.
Continue a conversa de forma útil e objetiva, em português, guiando o usuário para criar ou melhorar automações.

Mensagem do usuário:
"{{userText}}"`,
		Variables: []string{"userText"},
	},
}
