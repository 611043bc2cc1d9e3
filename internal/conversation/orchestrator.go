// Package conversation runs multi-turn dialogues: it owns session state,
// routes parsed intents to handler strategies and guards every LLM call so
// a turn always yields a usable response.
package conversation

import (
	"context"
	"errors"
	"sync"
	"time"

	"fluxo-ai/internal/common/config"
	cerrors "fluxo-ai/internal/common/errors"
	"fluxo-ai/internal/common/logger"
	"fluxo-ai/internal/common/metrics"
	"fluxo-ai/internal/common/observability"
	"fluxo-ai/internal/llm"
	"fluxo-ai/internal/models"
	"fluxo-ai/internal/prompt"
	"fluxo-ai/internal/workflow"
)

// Canned responses for degraded paths. Always Brazilian Portuguese.
const (
	apologyMessage = "Desculpe, algo deu errado ao processar sua mensagem. Pode tentar novamente?"

	fallbackUnavailable = "Desculpe, estou com dificuldade para gerar uma resposta completa agora. Podemos tentar de novo em alguns instantes?"

	fallbackNoCompletion = "Desculpe, não consegui elaborar uma resposta dessa vez. Pode reformular sua mensagem?"

	clarificationPrompt = "Me conte um pouco mais: o que deve disparar a automação e o que ela deve fazer?"
)

// Confidence levels of the degraded paths and the clarification gate.
const (
	apologyConfidence       = 0.1
	clarificationConfidence = 0.3
	clarificationThreshold  = 0.7
)

// Config tunes one orchestrator instance.
type Config struct {
	LLMTimeout    time.Duration
	HistoryWindow int
	Params        llm.Params
}

// ConfigFrom derives the orchestrator tuning from the application config.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		LLMTimeout:    cfg.LLM.TimeoutDuration(),
		HistoryWindow: cfg.Session.HistoryWindow,
		Params: llm.Params{
			Model:            cfg.LLM.Model,
			MaxTokens:        cfg.LLM.MaxTokens,
			Temperature:      cfg.LLM.Temperature,
			PresencePenalty:  cfg.LLM.PresencePenalty,
			FrequencyPenalty: cfg.LLM.FrequencyPenalty,
		},
	}
}

type handlerFunc func(ctx context.Context, sess *models.Session, text string, parsed models.ParsedInstruction) (*models.AIResponse, error)

// InstructionParser is the slice of the NLU layer the orchestrator consumes.
// *nlu.Parser satisfies it.
type InstructionParser interface {
	Parse(text string, rc models.RequestContext) models.ParsedInstruction
}

// Orchestrator processes conversation turns. Turns for the same user are
// serialized by a keyed lock; different users proceed in parallel.
type Orchestrator struct {
	parser   InstructionParser
	composer *prompt.Composer
	client   llm.Client
	store    SessionStore
	cfg      Config
	logger   logger.Logger
	obs      *observability.Observability

	handlers map[models.Intent]handlerFunc

	locksMu sync.Mutex
	locks   map[string]*userLock
}

func NewOrchestrator(parser InstructionParser, composer *prompt.Composer, client llm.Client, store SessionStore, cfg Config, log logger.Logger) *Orchestrator {
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = 5
	}
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = 30 * time.Second
	}

	o := &Orchestrator{
		parser:   parser,
		composer: composer,
		client:   client,
		store:    store,
		cfg:      cfg,
		logger:   log,
		locks:    make(map[string]*userLock),
	}
	o.handlers = map[models.Intent]handlerFunc{
		models.IntentCreateWorkflow: o.handleCreateWorkflow,
		models.IntentModifyWorkflow: o.handleModifyWorkflow,
		models.IntentAskQuestion:    o.handleQuestion,
		models.IntentGetHelp:        o.handleHelp,
	}
	return o
}

// SetObservability attaches the otel meter instruments. Optional; nil keeps
// only the Prometheus collectors.
func (o *Orchestrator) SetObservability(obs *observability.Observability) {
	o.obs = obs
}

// ProcessMessage runs one conversation turn. It never returns an error to
// the caller: any failure collapses into the apology response so the
// conversation surface stays alive.
func (o *Orchestrator) ProcessMessage(ctx context.Context, userID, text string, partial *models.SessionContext) *models.AIResponse {
	start := time.Now()

	lock := o.acquireLock(userID)
	defer o.releaseLock(userID, lock)

	resp, intent, err := o.processTurn(ctx, userID, text, partial)
	if err != nil {
		stdErr := classifyTurnError(err)
		fields := map[string]interface{}{
			"user_id":    userID,
			"intent":     string(intent),
			"error_code": string(stdErr.Code),
			"category":   cerrors.GetErrorCategory(stdErr.Code),
			"retryable":  stdErr.Retryable,
		}
		if cerrors.IsConfigurationError(stdErr.Code) {
			o.logger.WithError(err).Error("turn failed on a configuration error", fields)
		} else {
			o.logger.WithError(err).Error("turn processing failed", fields)
		}
		metrics.TurnFailures.WithLabelValues(string(stdErr.Code)).Inc()
		resp = apologyResponse()
	}

	if intent == "" {
		intent = models.IntentAskQuestion
	}
	metrics.ConversationTurns.WithLabelValues(string(intent)).Inc()
	metrics.TurnDuration.WithLabelValues(string(intent)).Observe(time.Since(start).Seconds())
	if o.obs != nil {
		o.obs.RecordTurn(ctx, string(intent))
		o.obs.RecordTurnDuration(ctx, time.Since(start), string(intent))
	}
	return resp
}

func (o *Orchestrator) processTurn(ctx context.Context, userID, text string, partial *models.SessionContext) (*models.AIResponse, models.Intent, error) {
	sess, created, err := o.fetchOrCreate(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	sess.Merge(partial)

	parsed := o.parser.Parse(text, sess.RequestContext())
	o.logger.Debug("utterance parsed", map[string]interface{}{
		"user_id":    userID,
		"intent":     string(parsed.Intent),
		"confidence": parsed.Confidence,
		"degraded":   parsed.Degraded,
	})

	sess.History = append(sess.History, models.NewMessage(models.RoleUser, text, &models.MessageMetadata{
		Intent:     parsed.Intent,
		Entities:   parsed.Entities,
		Confidence: parsed.Confidence,
	}))

	var resp *models.AIResponse
	if parsed.Degraded {
		resp = degradedResponse(parsed)
	} else {
		handler, ok := o.handlers[parsed.Intent]
		if !ok {
			handler = o.handleDefault
		}
		resp, err = handler(ctx, sess, text, parsed)
	}
	if err != nil {
		sess.LastActivity = time.Now().UTC()
		o.persist(ctx, sess, created)
		return nil, parsed.Intent, err
	}

	sess.History = append(sess.History, models.NewMessage(models.RoleAssistant, resp.Message, &models.MessageMetadata{
		Intent:            parsed.Intent,
		Confidence:        resp.Confidence,
		WorkflowGenerated: resp.WorkflowGenerated != nil,
	}))
	sess.LastActivity = time.Now().UTC()

	if err := o.persist(ctx, sess, created); err != nil {
		return nil, parsed.Intent, err
	}
	return resp, parsed.Intent, nil
}

func (o *Orchestrator) fetchOrCreate(ctx context.Context, userID string) (*models.Session, bool, error) {
	sess, err := o.store.Get(ctx, userID)
	if errors.Is(err, ErrSessionNotFound) {
		return models.NewSession(userID), true, nil
	}
	if err != nil {
		return nil, false, cerrors.NewSessionStoreFailedError(err)
	}
	return sess, false, nil
}

func (o *Orchestrator) persist(ctx context.Context, sess *models.Session, created bool) error {
	var err error
	if created {
		err = o.store.Create(ctx, sess)
	} else {
		err = o.store.Update(ctx, sess)
	}
	if err != nil {
		return cerrors.NewSessionStoreFailedError(err)
	}
	return nil
}

// classifyTurnError maps a turn failure onto the error taxonomy. Errors that
// already carry a StandardError keep their code; template lookups become
// configuration errors; everything else is an orchestration failure.
func classifyTurnError(err error) *cerrors.StandardError {
	var stdErr *cerrors.StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	if errors.Is(err, prompt.ErrTemplateNotFound) {
		return cerrors.NewTemplateNotFoundError(err.Error())
	}
	return cerrors.NewTurnProcessingError(err)
}

// --- Handler strategies ---

func (o *Orchestrator) handleCreateWorkflow(ctx context.Context, sess *models.Session, text string, parsed models.ParsedInstruction) (*models.AIResponse, error) {
	// Without a single trigger or action there is no skeleton worth sending
	// to the LLM; ask for detail instead.
	if parsed.Workflow == nil || (len(parsed.Workflow.Triggers) == 0 && len(parsed.Workflow.Actions) == 0) {
		return &models.AIResponse{
			Message:     "Entendi que você quer criar uma automação, mas preciso de mais detalhes para montar o fluxo.",
			Suggestions: parsed.Suggestions,
			NextSteps:   []string{},
			Confidence:  clarificationConfidence,
			RequiresUserInput: &models.RequiredInput{
				Type:    models.InputAdditionalInfo,
				Prompt:  clarificationPrompt,
				Options: parsed.Suggestions,
			},
		}, nil
	}

	promptText, err := o.composer.BuildWorkflowPrompt(prompt.WorkflowPromptConfig{
		UserText:          text,
		Industry:          sess.Industry,
		Complexity:        complexityFor(sess.Preferences.Complexity),
		KnownIntegrations: sess.AvailableIntegrations,
	})
	if err != nil {
		return nil, err
	}

	completion, ok := o.complete(ctx, promptText, sess)
	resp := &models.AIResponse{
		Message:     completion,
		Suggestions: parsed.Suggestions,
		NextSteps:   []string{},
		Confidence:  parsed.Confidence,
	}
	if ok {
		if wf, wfErr := workflow.FromLLMText(completion); wfErr == nil {
			resp.WorkflowGenerated = wf
		} else {
			fields := map[string]interface{}{
				"user_id": sess.UserID,
				"reason":  wfErr.Error(),
			}
			var stdErr *cerrors.StandardError
			if errors.As(wfErr, &stdErr) {
				fields["error_code"] = string(stdErr.Code)
				fields["category"] = cerrors.GetErrorCategory(stdErr.Code)
			}
			o.logger.Debug("completion carried no valid workflow object", fields)
		}
	} else {
		resp.Confidence = apologyConfidence
	}

	if parsed.Confidence < clarificationThreshold {
		resp.RequiresUserInput = &models.RequiredInput{
			Type:    models.InputClarification,
			Prompt:  "Confirma se entendi direito? Ajuste o que estiver diferente do que você precisa.",
			Options: parsed.Suggestions,
		}
	} else {
		resp.NextSteps = []string{
			"Testar a automação com um caso real",
			"Ajustar mensagens e horários",
			"Adicionar mais ações ao fluxo",
		}
	}
	return resp, nil
}

func (o *Orchestrator) handleModifyWorkflow(ctx context.Context, sess *models.Session, _ string, parsed models.ParsedInstruction) (*models.AIResponse, error) {
	promptText, err := o.composer.BuildOptimizationPrompt(sess.CurrentWorkflow, nil)
	if err != nil {
		return nil, err
	}

	completion, ok := o.complete(ctx, promptText, sess)
	confidence := 0.8
	if !ok {
		confidence = apologyConfidence
	}
	return &models.AIResponse{
		Message:     completion,
		Suggestions: parsed.Suggestions,
		NextSteps:   []string{"Revisar as melhorias sugeridas", "Aplicar as mudanças na automação"},
		Confidence:  confidence,
	}, nil
}

func (o *Orchestrator) handleQuestion(ctx context.Context, sess *models.Session, text string, parsed models.ParsedInstruction) (*models.AIResponse, error) {
	promptText, err := o.composer.BuildQuestionPrompt(text, sess.Industry, sess.OrganizationSize, sess.AvailableIntegrations)
	if err != nil {
		return nil, err
	}

	completion, ok := o.complete(ctx, promptText, sess)
	confidence := 0.8
	if !ok {
		confidence = apologyConfidence
	}
	return &models.AIResponse{
		Message:     completion,
		Suggestions: parsed.Suggestions,
		NextSteps:   []string{},
		Confidence:  confidence,
	}, nil
}

func (o *Orchestrator) handleHelp(ctx context.Context, sess *models.Session, text string, parsed models.ParsedInstruction) (*models.AIResponse, error) {
	promptText, err := o.composer.BuildTroubleshootingPrompt(text, sess.Industry)
	if err != nil {
		return nil, err
	}

	completion, ok := o.complete(ctx, promptText, sess)
	confidence := 0.9
	if !ok {
		confidence = apologyConfidence
	}
	return &models.AIResponse{
		Message:     completion,
		Suggestions: parsed.Suggestions,
		NextSteps:   []string{},
		Confidence:  confidence,
	}, nil
}

// handleDefault covers intents without a dedicated strategy. Unreachable
// with the current intent set, kept so a new intent cannot crash a turn.
func (o *Orchestrator) handleDefault(ctx context.Context, sess *models.Session, text string, parsed models.ParsedInstruction) (*models.AIResponse, error) {
	promptText, err := o.composer.BuildConversationPrompt(text)
	if err != nil {
		return nil, err
	}

	completion, ok := o.complete(ctx, promptText, sess)
	confidence := 0.6
	if !ok {
		confidence = apologyConfidence
	}
	return &models.AIResponse{
		Message:     completion,
		Suggestions: parsed.Suggestions,
		NextSteps:   []string{},
		Confidence:  confidence,
	}, nil
}

// complete performs one guarded LLM call: system prompt plus the most recent
// history window, bounded timeout, canned Portuguese fallback on failure.
// The bool reports whether the text came from the provider.
func (o *Orchestrator) complete(ctx context.Context, systemPrompt string, sess *models.Session) (string, bool) {
	cctx, cancel := context.WithTimeout(ctx, o.cfg.LLMTimeout)
	defer cancel()

	start := time.Now()
	completion, err := o.client.Complete(cctx, o.buildMessages(systemPrompt, sess), o.cfg.Params)
	elapsed := time.Since(start)

	if err != nil {
		stdErr := classifyLLMError(err)
		metrics.LLMRequests.WithLabelValues("error").Inc()
		if o.obs != nil {
			o.obs.RecordLLMDuration(ctx, elapsed, "error")
		}
		o.logger.WithError(err).Warn("llm completion failed", map[string]interface{}{
			"user_id":     sess.UserID,
			"error_code":  string(stdErr.Code),
			"retryable":   stdErr.Retryable,
			"duration_ms": elapsed.Milliseconds(),
		})
		if errors.Is(err, llm.ErrEmptyCompletion) {
			return fallbackNoCompletion, false
		}
		return fallbackUnavailable, false
	}

	metrics.LLMRequests.WithLabelValues("success").Inc()
	if o.obs != nil {
		o.obs.RecordLLMDuration(ctx, elapsed, "success")
	}
	return completion, true
}

func (o *Orchestrator) buildMessages(systemPrompt string, sess *models.Session) []llm.ChatMessage {
	history := sess.History
	if len(history) > o.cfg.HistoryWindow {
		history = history[len(history)-o.cfg.HistoryWindow:]
	}

	messages := make([]llm.ChatMessage, 0, len(history)+1)
	messages = append(messages, llm.ChatMessage{Role: llm.RoleSystem, Content: systemPrompt})
	for _, m := range history {
		role := llm.RoleUser
		if m.Role == models.RoleAssistant {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.ChatMessage{Role: role, Content: m.Content})
	}
	return messages
}

func complexityFor(preference string) string {
	switch preference {
	case "beginner":
		return prompt.ComplexitySimple
	case "advanced":
		return prompt.ComplexityAdvanced
	default:
		return prompt.ComplexityIntermediate
	}
}

// degradedResponse answers an uninterpretable utterance without spending an
// LLM call.
func degradedResponse(parsed models.ParsedInstruction) *models.AIResponse {
	return &models.AIResponse{
		Message:     "Não consegui entender sua mensagem. Pode explicar de outra forma o que você precisa?",
		Suggestions: parsed.Suggestions,
		NextSteps:   []string{},
		Confidence:  parsed.Confidence,
		RequiresUserInput: &models.RequiredInput{
			Type:   models.InputClarification,
			Prompt: "Descreva o que você quer automatizar ou pergunte sobre a plataforma.",
		},
	}
}

func apologyResponse() *models.AIResponse {
	return &models.AIResponse{
		Message: apologyMessage,
		Suggestions: []string{
			"Tente descrever a automação de outra forma",
			"Diga \"ajuda\" para ver o que eu consigo fazer",
		},
		NextSteps:  []string{},
		Confidence: apologyConfidence,
	}
}

// classifyLLMError maps a provider failure onto the error taxonomy for
// logging. Failures injected by test doubles may carry a bare sentinel, so
// the sentinel checks run even when no StandardError is attached.
func classifyLLMError(err error) *cerrors.StandardError {
	var stdErr *cerrors.StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	switch {
	case errors.Is(err, llm.ErrLLMTimeout):
		return cerrors.NewLLMTimeoutError()
	case errors.Is(err, llm.ErrEmptyCompletion):
		return cerrors.NewEmptyCompletionError()
	default:
		return cerrors.NewLLMUnavailableError(err)
	}
}

// userLock serializes the turns of one user. The reference count tracks
// holders and waiters so the entry can be removed once nobody needs it;
// without it the lock map would grow by one entry per user ever seen.
type userLock struct {
	mu   sync.Mutex
	refs int
}

func (o *Orchestrator) acquireLock(userID string) *userLock {
	o.locksMu.Lock()
	lock, ok := o.locks[userID]
	if !ok {
		lock = &userLock{}
		o.locks[userID] = lock
	}
	lock.refs++
	o.locksMu.Unlock()

	lock.mu.Lock()
	return lock
}

func (o *Orchestrator) releaseLock(userID string, lock *userLock) {
	lock.mu.Unlock()

	o.locksMu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(o.locks, userID)
	}
	o.locksMu.Unlock()
}

func (o *Orchestrator) lockCount() int {
	o.locksMu.Lock()
	defer o.locksMu.Unlock()
	return len(o.locks)
}
