package models

// Intent is the coarse category of what a user turn is asking for.
type Intent string

const (
	IntentCreateWorkflow Intent = "create_workflow"
	IntentModifyWorkflow Intent = "modify_workflow"
	IntentAskQuestion    Intent = "ask_question"
	IntentGetHelp        Intent = "get_help"
)

// EntityType classifies a recognized fragment of the utterance.
type EntityType string

const (
	EntityIntegration EntityType = "integration"
	EntityTime        EntityType = "time"
	EntityDataField   EntityType = "data_field"
	EntityContact     EntityType = "contact"
	EntityAmount      EntityType = "amount"
	EntityCondition   EntityType = "condition"
)

// Entity is a typed, confidence-scored fragment of text recognized as a
// domain value. Immutable once created.
type Entity struct {
	Type         EntityType `json:"type"`
	Value        string     `json:"value"`
	OriginalText string     `json:"originalText"`
	Confidence   float64    `json:"confidence"`
}

// ConfigValue is a candidate config field whose value may not be resolvable
// from the utterance alone. Unresolved values are filled in later by the LLM
// or by the user.
type ConfigValue struct {
	Value      string `json:"value,omitempty"`
	Unresolved bool   `json:"unresolved,omitempty"`
}

func Resolved(v string) ConfigValue { return ConfigValue{Value: v} }

func Unresolved() ConfigValue { return ConfigValue{Unresolved: true} }

func (c ConfigValue) IsResolved() bool { return !c.Unresolved }

// --- Trigger candidates ---

type TriggerType string

const (
	TriggerSchedule         TriggerType = "schedule"
	TriggerWhatsAppReceived TriggerType = "whatsapp_received"
	TriggerEmailReceived    TriggerType = "email_received"
	TriggerFormSubmitted    TriggerType = "form_submitted"
	TriggerManual           TriggerType = "manual"
)

// ScheduleTrigger fires on a recurring time expression.
type ScheduleTrigger struct {
	Frequency ConfigValue `json:"frequency"`
	Time      ConfigValue `json:"time"`
}

// InboundTrigger fires when a message arrives on a channel.
type InboundTrigger struct {
	Channel string      `json:"channel"`
	Filter  ConfigValue `json:"filter"`
}

// FormTrigger fires when a form is submitted.
type FormTrigger struct {
	FormID ConfigValue `json:"formId"`
}

// TriggerCandidate is a partially-specified trigger inferred from text.
// Exactly the variant matching Type is non-nil; manual triggers carry none.
type TriggerCandidate struct {
	Type       TriggerType      `json:"type"`
	Schedule   *ScheduleTrigger `json:"schedule,omitempty"`
	Inbound    *InboundTrigger  `json:"inbound,omitempty"`
	Form       *FormTrigger     `json:"form,omitempty"`
	Confidence float64          `json:"confidence"`
}

// --- Action candidates ---

type ActionType string

const (
	ActionSendWhatsApp     ActionType = "send_whatsapp"
	ActionSendEmail        ActionType = "send_email"
	ActionGeneratePix      ActionType = "generate_pix"
	ActionSaveData         ActionType = "save_data"
	ActionSendNotification ActionType = "send_notification"
)

// MessageAction sends a message over a channel.
type MessageAction struct {
	Recipient ConfigValue `json:"recipient"`
	Content   ConfigValue `json:"content"`
	Subject   ConfigValue `json:"subject,omitempty"`
}

// PixAction generates a PIX charge.
type PixAction struct {
	Amount      ConfigValue `json:"amount"`
	Description ConfigValue `json:"description"`
}

// StorageAction persists extracted data somewhere.
type StorageAction struct {
	Destination ConfigValue `json:"destination"`
	Fields      ConfigValue `json:"fields"`
}

// ActionCandidate is a partially-specified action inferred from text.
type ActionCandidate struct {
	Type       ActionType     `json:"type"`
	Message    *MessageAction `json:"message,omitempty"`
	Pix        *PixAction     `json:"pix,omitempty"`
	Storage    *StorageAction `json:"storage,omitempty"`
	Confidence float64        `json:"confidence"`
}

// --- Condition candidates ---

type ConditionType string

const (
	ConditionIfThen ConditionType = "if_then"
	ConditionDelay  ConditionType = "delay"
	ConditionLoop   ConditionType = "loop"
)

type IfThenCondition struct {
	Expression ConfigValue `json:"expression"`
}

type DelayCondition struct {
	Duration ConfigValue `json:"duration"`
}

type LoopCondition struct {
	Over ConfigValue `json:"over"`
}

// ConditionCandidate is a partially-specified flow-control block.
type ConditionCandidate struct {
	Type       ConditionType    `json:"type"`
	IfThen     *IfThenCondition `json:"ifThen,omitempty"`
	Delay      *DelayCondition  `json:"delay,omitempty"`
	Loop       *LoopCondition   `json:"loop,omitempty"`
	Confidence float64          `json:"confidence"`
}

// WorkflowDraft is the skeleton extracted from a create-workflow utterance.
type WorkflowDraft struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Triggers    []TriggerCandidate   `json:"triggers"`
	Actions     []ActionCandidate    `json:"actions"`
	Conditions  []ConditionCandidate `json:"conditions"`
}

// ParsedInstruction is the parser output for one utterance.
// Workflow is present only when Intent is create_workflow and extraction
// succeeded. Degraded marks the could-not-understand branch; it is a normal
// result, not an error.
type ParsedInstruction struct {
	Intent         Intent         `json:"intent"`
	Workflow       *WorkflowDraft `json:"workflow,omitempty"`
	Entities       []Entity       `json:"entities"`
	Confidence     float64        `json:"confidence"`
	Suggestions    []string       `json:"suggestions"`
	Degraded       bool           `json:"degraded,omitempty"`
	DegradedReason string         `json:"degradedReason,omitempty"`
}

// RequestContext is the lightweight per-request context handed to the parser.
type RequestContext struct {
	Industry              string
	PriorUtterances       []string
	AvailableIntegrations []string
	OrganizationSize      string
}
