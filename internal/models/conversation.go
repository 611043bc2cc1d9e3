package models

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// MessageMetadata carries parser/handler results alongside a message.
type MessageMetadata struct {
	Intent            Intent   `json:"intent,omitempty"`
	Entities          []Entity `json:"entities,omitempty"`
	Confidence        float64  `json:"confidence,omitempty"`
	WorkflowGenerated bool     `json:"workflowGenerated,omitempty"`
}

// Message is one turn in a conversation. Append-only, never edited.
type Message struct {
	ID        string           `json:"id"`
	Role      Role             `json:"role"`
	Content   string           `json:"content"`
	Timestamp time.Time        `json:"timestamp"`
	Metadata  *MessageMetadata `json:"metadata,omitempty"`
}

// NewMessage creates a message with a fresh id and timestamp.
func NewMessage(role Role, content string, meta *MessageMetadata) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
		Metadata:  meta,
	}
}

// Preferences holds per-user interaction preferences.
type Preferences struct {
	Language           string `json:"language"`
	Complexity         string `json:"complexity"` // beginner | intermediate | advanced
	CommunicationStyle string `json:"communicationStyle"`
}

// Session is the per-user accumulated conversation context and history.
// History strictly alternates user/assistant turns; system turns are never
// stored, only used as LLM input.
type Session struct {
	UserID                string      `json:"userId"`
	OrganizationID        string      `json:"organizationId"`
	Industry              string      `json:"industry"`
	OrganizationSize      string      `json:"organizationSize"`
	Preferences           Preferences `json:"preferences"`
	History               []Message   `json:"history"`
	AvailableIntegrations []string    `json:"availableIntegrations"`
	CurrentWorkflow       string      `json:"currentWorkflow,omitempty"`
	CreatedAt             time.Time   `json:"createdAt"`
	LastActivity          time.Time   `json:"lastActivity"`
}

// NewSession creates an empty session for a user.
func NewSession(userID string) *Session {
	now := time.Now().UTC()
	return &Session{
		UserID: userID,
		Preferences: Preferences{
			Language:   "pt-BR",
			Complexity: "intermediate",
		},
		History:      []Message{},
		CreatedAt:    now,
		LastActivity: now,
	}
}

// SessionContext is a partial view of a session supplied by the caller.
// Non-zero fields overwrite the session; absent fields are preserved.
type SessionContext struct {
	OrganizationID        string       `json:"organizationId,omitempty"`
	Industry              string       `json:"industry,omitempty"`
	OrganizationSize      string       `json:"organizationSize,omitempty"`
	Preferences           *Preferences `json:"preferences,omitempty"`
	AvailableIntegrations []string     `json:"availableIntegrations,omitempty"`
	CurrentWorkflow       string       `json:"currentWorkflow,omitempty"`
}

// Merge applies the partial context onto the session.
func (s *Session) Merge(partial *SessionContext) {
	if partial == nil {
		return
	}
	if partial.OrganizationID != "" {
		s.OrganizationID = partial.OrganizationID
	}
	if partial.Industry != "" {
		s.Industry = partial.Industry
	}
	if partial.OrganizationSize != "" {
		s.OrganizationSize = partial.OrganizationSize
	}
	if partial.Preferences != nil {
		if partial.Preferences.Language != "" {
			s.Preferences.Language = partial.Preferences.Language
		}
		if partial.Preferences.Complexity != "" {
			s.Preferences.Complexity = partial.Preferences.Complexity
		}
		if partial.Preferences.CommunicationStyle != "" {
			s.Preferences.CommunicationStyle = partial.Preferences.CommunicationStyle
		}
	}
	if len(partial.AvailableIntegrations) > 0 {
		s.AvailableIntegrations = partial.AvailableIntegrations
	}
	if partial.CurrentWorkflow != "" {
		s.CurrentWorkflow = partial.CurrentWorkflow
	}
}

// RequestContext derives the parser context from the session state.
func (s *Session) RequestContext() RequestContext {
	prior := make([]string, 0, len(s.History))
	for _, m := range s.History {
		if m.Role == RoleUser {
			prior = append(prior, m.Content)
		}
	}
	return RequestContext{
		Industry:              s.Industry,
		PriorUtterances:       prior,
		AvailableIntegrations: s.AvailableIntegrations,
		OrganizationSize:      s.OrganizationSize,
	}
}

// RequiredInputType marks what kind of follow-up the assistant needs.
type RequiredInputType string

const (
	InputConfirmation   RequiredInputType = "confirmation"
	InputAdditionalInfo RequiredInputType = "additional_info"
	InputClarification  RequiredInputType = "clarification"
)

// RequiredInput asks the user for a specific follow-up.
type RequiredInput struct {
	Type    RequiredInputType `json:"type"`
	Prompt  string            `json:"prompt"`
	Options []string          `json:"options,omitempty"`
}

// AIResponse is the structured result of one conversation turn.
type AIResponse struct {
	Message           string             `json:"message"`
	Suggestions       []string           `json:"suggestions"`
	WorkflowGenerated *GeneratedWorkflow `json:"workflowGenerated,omitempty"`
	NextSteps         []string           `json:"nextSteps"`
	Confidence        float64            `json:"confidence"`
	RequiresUserInput *RequiredInput     `json:"requiresUserInput,omitempty"`
}
