// Package nlu turns one free-form utterance (pt-BR, SME automation domain)
// into a structured, confidence-scored instruction.
package nlu

import (
	"fmt"
	"strings"

	"fluxo-ai/internal/common/logger"
	"fluxo-ai/internal/models"
	"fluxo-ai/internal/nlu/patterns"
)

const (
	// nonCreateConfidence is returned for modify/question/help intents,
	// which skip workflow extraction entirely.
	nonCreateConfidence = 0.9

	// degradedConfidence marks the could-not-understand branch.
	degradedConfidence = 0.1

	// Aggregation thresholds. Absence of triggers or actions is penalized
	// harder than a low-but-present confidence value; downstream UI
	// branches depend on this exact scale.
	confidenceBothEmpty = 0.2
	confidenceOneEmpty  = 0.5
	confidenceCeiling   = 0.95

	// defaultConditionConfidence stands in for the condition average when
	// no conditions were found.
	defaultConditionConfidence = 0.8
)

// Parser is the pattern-based instruction parser. Stateless; safe for
// concurrent use.
type Parser struct {
	logger logger.Logger
}

func NewParser(log logger.Logger) *Parser {
	return &Parser{
		logger: log.WithFields(map[string]interface{}{"component": "nlu"}),
	}
}

// Parse converts an utterance into a ParsedInstruction. It never fails: a
// panic inside the rule engine yields a degraded ask_question result, which
// is a normal branch of the return value. Empty input carries no keywords
// and no structure, so it classifies as ask_question like any other
// unmatched utterance.
func (p *Parser) Parse(text string, rc models.RequestContext) (out models.ParsedInstruction) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("rule engine panicked", map[string]interface{}{
				"panic": fmt.Sprint(r),
			})
			out = degradedInstruction(fmt.Sprintf("rule engine failure: %v", r))
		}
	}()

	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)
	intent := p.classifyIntent(lower, trimmed)
	entities := p.extractEntities(trimmed)

	if intent != models.IntentCreateWorkflow {
		p.logger.Debug("parsed non-create utterance", map[string]interface{}{
			"intent":      intent,
			"entityCount": len(entities),
		})
		return models.ParsedInstruction{
			Intent:      intent,
			Entities:    entities,
			Confidence:  nonCreateConfidence,
			Suggestions: intentSuggestions(intent),
		}
	}

	triggers := p.identifyTriggers(trimmed, entities)
	actions := p.identifyActions(trimmed, entities)
	conditions := p.identifyConditions(trimmed, entities)

	workflow := &models.WorkflowDraft{
		Name:        deriveName(trimmed),
		Description: firstSentence(trimmed),
		Triggers:    triggers,
		Actions:     actions,
		Conditions:  conditions,
	}

	confidence := aggregateConfidence(triggers, actions, conditions)
	suggestions := p.buildSuggestions(trimmed)

	p.logger.Debug("parsed create utterance", map[string]interface{}{
		"triggerCount":   len(triggers),
		"actionCount":    len(actions),
		"conditionCount": len(conditions),
		"confidence":     confidence,
	})

	return models.ParsedInstruction{
		Intent:      models.IntentCreateWorkflow,
		Workflow:    workflow,
		Entities:    entities,
		Confidence:  confidence,
		Suggestions: suggestions,
	}
}

func degradedInstruction(reason string) models.ParsedInstruction {
	return models.ParsedInstruction{
		Intent:         models.IntentAskQuestion,
		Entities:       []models.Entity{},
		Confidence:     degradedConfidence,
		Suggestions:    []string{"Não consegui entender sua mensagem. Pode reformular?"},
		Degraded:       true,
		DegradedReason: reason,
	}
}

// classifyIntent tests the ordered keyword groups and, when none matches,
// falls back to structural detection: any trigger or action phrase in the
// raw text implies create_workflow.
func (p *Parser) classifyIntent(lower, raw string) models.Intent {
	for _, group := range patterns.IntentGroups {
		for _, kw := range group.Keywords {
			if strings.Contains(lower, kw) {
				return group.Intent
			}
		}
	}

	if matchesAnyTrigger(raw) || matchesAnyAction(raw) {
		return models.IntentCreateWorkflow
	}
	return models.IntentAskQuestion
}

// extractEntities runs the four independent regex families over the full
// text. Matches are never deduplicated.
func (p *Parser) extractEntities(text string) []models.Entity {
	entities := []models.Entity{}
	for _, rule := range patterns.EntityRules {
		for _, match := range rule.Pattern.FindAllString(text, -1) {
			value := strings.ToLower(strings.TrimSpace(match))
			if rule.Normalize != nil {
				value = rule.Normalize(value)
			}
			entities = append(entities, models.Entity{
				Type:         rule.Type,
				Value:        value,
				OriginalText: match,
				Confidence:   rule.Confidence,
			})
		}
	}
	return entities
}

func firstEntityValue(entities []models.Entity, t models.EntityType) (string, bool) {
	for _, e := range entities {
		if e.Type == t {
			return e.Value, true
		}
	}
	return "", false
}

// identifyTriggers tests every trigger rule independently; a text can yield
// several candidates. When none matched and the text carries a generic
// create/do/execute verb, a single manual trigger is emitted as fallback.
func (p *Parser) identifyTriggers(text string, entities []models.Entity) []models.TriggerCandidate {
	triggers := []models.TriggerCandidate{}

	for _, rule := range patterns.TriggerRules {
		if !rule.Pattern.MatchString(text) {
			continue
		}
		candidate := models.TriggerCandidate{Type: rule.Type, Confidence: rule.Confidence}
		switch rule.Type {
		case models.TriggerSchedule:
			timeValue := models.Resolved(patterns.DefaultScheduleTime)
			if v, ok := firstEntityValue(entities, models.EntityTime); ok {
				timeValue = models.Resolved(v)
			}
			candidate.Schedule = &models.ScheduleTrigger{
				Frequency: models.Resolved("daily"),
				Time:      timeValue,
			}
		case models.TriggerWhatsAppReceived:
			candidate.Inbound = &models.InboundTrigger{Channel: "whatsapp", Filter: models.Unresolved()}
		case models.TriggerEmailReceived:
			candidate.Inbound = &models.InboundTrigger{Channel: "email", Filter: models.Unresolved()}
		case models.TriggerFormSubmitted:
			candidate.Form = &models.FormTrigger{FormID: models.Unresolved()}
		}
		triggers = append(triggers, candidate)
	}

	if len(triggers) == 0 && patterns.ManualTriggerVerbs.MatchString(text) {
		triggers = append(triggers, models.TriggerCandidate{
			Type:       models.TriggerManual,
			Confidence: patterns.ManualTriggerConfidence,
		})
	}

	return triggers
}

// identifyActions is symmetric to identifyTriggers. Config fields that the
// utterance does not pin down are marked unresolved, deferring resolution to
// the LLM or the user.
func (p *Parser) identifyActions(text string, entities []models.Entity) []models.ActionCandidate {
	actions := []models.ActionCandidate{}

	for _, rule := range patterns.ActionRules {
		if !rule.Pattern.MatchString(text) {
			continue
		}
		candidate := models.ActionCandidate{Type: rule.Type, Confidence: rule.Confidence}
		switch rule.Type {
		case models.ActionSendWhatsApp, models.ActionSendNotification:
			candidate.Message = &models.MessageAction{
				Recipient: contactOrUnresolved(entities),
				Content:   models.Unresolved(),
			}
		case models.ActionSendEmail:
			candidate.Message = &models.MessageAction{
				Recipient: contactOrUnresolved(entities),
				Content:   models.Unresolved(),
				Subject:   models.Unresolved(),
			}
		case models.ActionGeneratePix:
			amount := models.Unresolved()
			if v, ok := firstEntityValue(entities, models.EntityAmount); ok {
				amount = models.Resolved(v)
			}
			candidate.Pix = &models.PixAction{
				Amount:      amount,
				Description: models.Unresolved(),
			}
		case models.ActionSaveData:
			destination := models.Unresolved()
			if v, ok := firstEntityValue(entities, models.EntityIntegration); ok && (v == "spreadsheet" || v == "crm") {
				destination = models.Resolved(v)
			}
			candidate.Storage = &models.StorageAction{
				Destination: destination,
				Fields:      models.Unresolved(),
			}
		}
		actions = append(actions, candidate)
	}

	return actions
}

func contactOrUnresolved(entities []models.Entity) models.ConfigValue {
	if v, ok := firstEntityValue(entities, models.EntityContact); ok {
		return models.Resolved(v)
	}
	return models.Unresolved()
}

func (p *Parser) identifyConditions(text string, entities []models.Entity) []models.ConditionCandidate {
	conditions := []models.ConditionCandidate{}

	for _, rule := range patterns.ConditionRules {
		if !rule.Pattern.MatchString(text) {
			continue
		}
		candidate := models.ConditionCandidate{Type: rule.Type, Confidence: rule.Confidence}
		switch rule.Type {
		case models.ConditionIfThen:
			candidate.IfThen = &models.IfThenCondition{Expression: models.Unresolved()}
		case models.ConditionDelay:
			duration := models.Unresolved()
			if v, ok := firstEntityValue(entities, models.EntityTime); ok {
				duration = models.Resolved(v)
			}
			candidate.Delay = &models.DelayCondition{Duration: duration}
		case models.ConditionLoop:
			candidate.Loop = &models.LoopCondition{Over: models.Unresolved()}
		}
		conditions = append(conditions, candidate)
	}

	return conditions
}

// aggregateConfidence applies the fixed scoring policy: 0.2 when both the
// trigger and action lists are empty, 0.5 when exactly one is, otherwise the
// mean of the three per-kind averages capped at 0.95.
func aggregateConfidence(triggers []models.TriggerCandidate, actions []models.ActionCandidate, conditions []models.ConditionCandidate) float64 {
	if len(triggers) == 0 && len(actions) == 0 {
		return confidenceBothEmpty
	}
	if len(triggers) == 0 || len(actions) == 0 {
		return confidenceOneEmpty
	}

	var triggerSum float64
	for _, t := range triggers {
		triggerSum += t.Confidence
	}
	var actionSum float64
	for _, a := range actions {
		actionSum += a.Confidence
	}

	conditionAvg := defaultConditionConfidence
	if len(conditions) > 0 {
		var conditionSum float64
		for _, c := range conditions {
			conditionSum += c.Confidence
		}
		conditionAvg = conditionSum / float64(len(conditions))
	}

	mean := (triggerSum/float64(len(triggers)) + actionSum/float64(len(actions)) + conditionAvg) / 3
	if mean > confidenceCeiling {
		return confidenceCeiling
	}
	return mean
}

func matchesAnyTrigger(text string) bool {
	for _, rule := range patterns.TriggerRules {
		if rule.Pattern.MatchString(text) {
			return true
		}
	}
	return false
}

func matchesAnyAction(text string) bool {
	for _, rule := range patterns.ActionRules {
		if rule.Pattern.MatchString(text) {
			return true
		}
	}
	return false
}

func mentionsIntegration(text string) bool {
	for _, rule := range patterns.EntityRules {
		if rule.Type == models.EntityIntegration {
			return rule.Pattern.MatchString(text)
		}
	}
	return false
}

// buildSuggestions checks, independently of extraction, whether each of the
// three phrase categories appeared at all, and prompts for the missing ones.
func (p *Parser) buildSuggestions(text string) []string {
	suggestions := []string{}
	if !matchesAnyTrigger(text) {
		suggestions = append(suggestions, "Quando essa automação deve ser executada? (ex: todo dia às 9h, ao receber uma mensagem)")
	}
	if !matchesAnyAction(text) {
		suggestions = append(suggestions, "O que a automação deve fazer? (ex: enviar mensagem, gerar cobrança PIX)")
	}
	if !mentionsIntegration(text) {
		suggestions = append(suggestions, "Quais ferramentas você quer usar? (ex: WhatsApp, E-mail, PIX, Planilhas)")
	}
	return suggestions
}

func intentSuggestions(intent models.Intent) []string {
	switch intent {
	case models.IntentModifyWorkflow:
		return []string{
			"Descreva qual automação você quer alterar",
			"Diga o que deve mudar no fluxo atual",
		}
	case models.IntentGetHelp:
		return []string{
			"Descreva o problema que você está enfrentando",
			"Diga em qual etapa a automação parou de funcionar",
		}
	default:
		return []string{
			"Posso explicar como criar automações para o seu negócio",
			"Pergunte sobre integrações como WhatsApp, PIX e Planilhas",
		}
	}
}

// deriveName picks a workflow name by fixed keyword priority.
func deriveName(text string) string {
	for _, rule := range patterns.NameRules {
		if rule.Pattern.MatchString(text) {
			return rule.Name
		}
	}
	return patterns.DefaultWorkflowName
}

// firstSentence returns the description: everything up to the first sentence
// terminator.
func firstSentence(text string) string {
	if idx := strings.IndexAny(text, ".!?\n"); idx > 0 {
		return strings.TrimSpace(text[:idx])
	}
	return strings.TrimSpace(text)
}
