// Package prompt assembles complete LLM prompts from static templates,
// per-industry knowledge profiles and category-specific guidance. All
// builders are deterministic: missing inputs degrade to documented defaults,
// sections are never omitted.
package prompt

import (
	"fmt"
	"strings"
)

// Section headers. Fixed literals; consumers and tests rely on them.
const (
	HeaderBusinessContext = "## Contexto do Negócio"
	HeaderIntegrations    = "## Integrações"
	HeaderComplexity      = "## Complexidade"
	HeaderOutputFormat    = "## Formato de Saída"

	// JSONOnlyInstruction is the strict output contract for workflow
	// generation: no prose outside the JSON object.
	JSONOnlyInstruction = "Responda APENAS com um objeto JSON válido, sem nenhum texto fora do objeto."
)

// Complexity tiers for workflow generation.
const (
	ComplexitySimple       = "simple"
	ComplexityIntermediate = "intermediate"
	ComplexityAdvanced     = "advanced"
)

// WorkflowPromptConfig is the structured input for workflow generation.
type WorkflowPromptConfig struct {
	UserText          string
	Industry          string
	Complexity        string // simple | intermediate | advanced
	KnownIntegrations []string
}

// Composer assembles prompts from its registries. Stateless given them.
type Composer struct {
	registry *Registry
}

func NewComposer() *Composer {
	return &Composer{registry: NewRegistry()}
}

// NewComposerWithRegistry allows injecting a custom registry.
func NewComposerWithRegistry(r *Registry) *Composer {
	return &Composer{registry: r}
}

// BuildWorkflowPrompt assembles the full workflow-generation prompt:
// template body, business context, integration guidance, complexity rubric
// and the fixed JSON output contract, in that order.
func (c *Composer) BuildWorkflowPrompt(cfg WorkflowPromptConfig) (string, error) {
	tmpl, err := c.registry.Get(CategoryWorkflowGeneration)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(strings.ReplaceAll(tmpl.Body, "{{userText}}", cfg.UserText))
	b.WriteString("\n\n")
	writeBusinessContext(&b, cfg.Industry)
	b.WriteString("\n")
	writeIntegrationGuidance(&b, cfg.Industry, cfg.KnownIntegrations)
	b.WriteString("\n")
	writeComplexityRubric(&b, cfg.Complexity)
	b.WriteString("\n")
	writeOutputFormat(&b)
	return b.String(), nil
}

// BuildOptimizationPrompt assembles the workflow-improvement prompt for an
// existing workflow against a list of goals.
func (c *Composer) BuildOptimizationPrompt(workflowData string, goals []string) (string, error) {
	tmpl, err := c.registry.Get(CategoryWorkflowOptimization)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(workflowData) == "" {
		workflowData = "(nenhuma automação selecionada; peça ao usuário para descrever a automação atual)"
	}
	if len(goals) == 0 {
		goals = DefaultOptimizationGoals
	}

	var b strings.Builder
	b.WriteString(strings.ReplaceAll(tmpl.Body, "{{workflowData}}", workflowData))
	b.WriteString("\n\n## Objetivos de Melhoria\n")
	for _, g := range goals {
		fmt.Fprintf(&b, "- %s\n", g)
	}
	return b.String(), nil
}

// DefaultOptimizationGoals is the fixed improvement-goal list used when the
// caller supplies none.
var DefaultOptimizationGoals = []string{
	"Reduzir etapas manuais",
	"Diminuir o tempo de resposta ao cliente",
	"Evitar falhas silenciosas com tratamento de erros",
	"Aproveitar melhor as integrações já configuradas",
}

// BuildTroubleshootingPrompt assembles the support prompt for an error
// report, with the business context appended.
func (c *Composer) BuildTroubleshootingPrompt(errorText string, industry string) (string, error) {
	tmpl, err := c.registry.Get(CategoryTroubleshooting)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(errorText) == "" {
		errorText = "(o usuário pediu ajuda sem descrever o problema)"
	}

	var b strings.Builder
	b.WriteString(strings.ReplaceAll(tmpl.Body, "{{errorText}}", errorText))
	b.WriteString("\n\n")
	writeBusinessContext(&b, industry)
	return b.String(), nil
}

// BuildIntegrationSuggestionPrompt assembles the consultant prompt ranking
// new integrations for a business type.
func (c *Composer) BuildIntegrationSuggestionPrompt(businessType string, currentIntegrations []string) (string, error) {
	tmpl, err := c.registry.Get(CategoryIntegrationSuggestion)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(businessType) == "" {
		businessType = "negócio em geral"
	}

	var b strings.Builder
	b.WriteString(strings.ReplaceAll(tmpl.Body, "{{businessType}}", businessType))
	b.WriteString("\n\n")
	writeIntegrationGuidance(&b, businessType, currentIntegrations)
	return b.String(), nil
}

// BuildQuestionPrompt assembles the question-answering prompt with the
// session's business context embedded.
func (c *Composer) BuildQuestionPrompt(question, industry, organizationSize string, integrations []string) (string, error) {
	tmpl, err := c.registry.Get(CategoryQuestionAnswering)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(strings.ReplaceAll(tmpl.Body, "{{question}}", question))
	b.WriteString("\n\n")
	writeBusinessContext(&b, industry)
	if organizationSize != "" {
		fmt.Fprintf(&b, "Porte da empresa: %s\n", organizationSize)
	}
	if len(integrations) > 0 {
		fmt.Fprintf(&b, "Integrações já configuradas: %s\n", strings.Join(integrations, ", "))
	}
	return b.String(), nil
}

// BuildConversationPrompt assembles the generic conversation prompt for
// turns whose intent matched no dedicated handler.
func (c *Composer) BuildConversationPrompt(userText string) (string, error) {
	tmpl, err := c.registry.Get(CategoryGeneralConversation)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(tmpl.Body, "{{userText}}", userText), nil
}

func writeBusinessContext(b *strings.Builder, industry string) {
	profile := ProfileFor(industry)

	b.WriteString(HeaderBusinessContext)
	b.WriteString("\n")
	fmt.Fprintf(b, "Segmento: %s\n", profile.Label)
	b.WriteString("Processos comuns do segmento:\n")
	for _, p := range profile.CommonProcesses {
		fmt.Fprintf(b, "- %s\n", p)
	}
	b.WriteString("Principais dores:\n")
	for _, p := range profile.PainPoints {
		fmt.Fprintf(b, "- %s\n", p)
	}
	if len(profile.Vocabulary) > 0 {
		b.WriteString("Vocabulário do segmento:\n")
		for term, meaning := range profile.Vocabulary {
			fmt.Fprintf(b, "- %s: %s\n", term, meaning)
		}
	}
}

func writeIntegrationGuidance(b *strings.Builder, industry string, known []string) {
	profile := ProfileFor(industry)

	b.WriteString(HeaderIntegrations)
	b.WriteString("\n")
	if len(known) > 0 {
		fmt.Fprintf(b, "Já configuradas (preferir): %s\n", strings.Join(known, ", "))
	} else {
		b.WriteString("Já configuradas (preferir): nenhuma\n")
	}

	knownSet := make(map[string]bool, len(known))
	for _, k := range known {
		knownSet[strings.ToLower(k)] = true
	}
	unconfigured := []string{}
	for _, pref := range profile.PreferredIntegrations {
		if !knownSet[pref] {
			unconfigured = append(unconfigured, pref)
		}
	}
	if len(unconfigured) > 0 {
		fmt.Fprintf(b, "Recomendadas para o segmento (exigem configuração): %s\n", strings.Join(unconfigured, ", "))
	}
	b.WriteString("Use integrações já configuradas sempre que possível; marque as demais como sugestão.\n")
}

func writeComplexityRubric(b *strings.Builder, complexity string) {
	b.WriteString(HeaderComplexity)
	b.WriteString("\n")
	switch complexity {
	case ComplexitySimple:
		b.WriteString("Nível: simples. No máximo 5 etapas, apenas integrações básicas, sem condicionais.\n")
	case ComplexityAdvanced:
		b.WriteString("Nível: avançado. 15 ou mais etapas, múltiplas integrações, caminhos paralelos e tratamento robusto de erros.\n")
	default:
		b.WriteString("Nível: intermediário. Entre 5 e 15 etapas, até 3 integrações, condicionais simples.\n")
	}
}

func writeOutputFormat(b *strings.Builder) {
	b.WriteString(HeaderOutputFormat)
	b.WriteString("\n")
	b.WriteString(JSONOnlyInstruction)
	b.WriteString("\nO objeto deve seguir exatamente esta estrutura:\n")
	b.WriteString(workflowJSONShape)
	b.WriteString("\n")
}

// workflowJSONShape documents the generated-workflow contract inside the
// prompt. It mirrors the schema enforced by internal/workflow.
const workflowJSONShape = `{
  "id": "string",
  "name": "string",
  "description": "string",
  "nodes": [
    {
      "id": "string",
      "type": "trigger | action | condition | delay",
      "name": "string",
      "description": "string",
      "config": {},
      "position": {"x": 0, "y": 0}
    }
  ],
  "edges": [
    {
      "id": "string",
      "source": "node-id",
      "target": "node-id",
      "type": "default | conditional",
      "condition": "string (opcional)"
    }
  ],
  "estimatedROI": {"timeSaved": "string", "costSaved": "string", "complexity": "string"},
  "suggestedIntegrations": ["string"],
  "tags": ["string"]
}`
