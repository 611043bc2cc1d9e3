package models

// NodeType classifies a node in a generated workflow.
type NodeType string

const (
	NodeTrigger   NodeType = "trigger"
	NodeAction    NodeType = "action"
	NodeCondition NodeType = "condition"
	NodeDelay     NodeType = "delay"
)

// EdgeType classifies a connection between workflow nodes.
type EdgeType string

const (
	EdgeDefault     EdgeType = "default"
	EdgeConditional EdgeType = "conditional"
)

// Position is the canvas placement of a node in the visual builder.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// WorkflowNode is one block of a generated workflow.
type WorkflowNode struct {
	ID          string                 `json:"id"`
	Type        NodeType               `json:"type"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Config      map[string]interface{} `json:"config"`
	Position    Position               `json:"position"`
}

// WorkflowEdge connects two nodes.
type WorkflowEdge struct {
	ID        string   `json:"id"`
	Source    string   `json:"source"`
	Target    string   `json:"target"`
	Type      EdgeType `json:"type"`
	Condition string   `json:"condition,omitempty"`
}

// EstimatedROI is the LLM's rough payoff estimate for a workflow.
type EstimatedROI struct {
	TimeSaved  string `json:"timeSaved"`
	CostSaved  string `json:"costSaved"`
	Complexity string `json:"complexity"`
}

// GeneratedWorkflow is the JSON contract the LLM is instructed to emit and
// the downstream execution engine consumes.
type GeneratedWorkflow struct {
	ID                    string         `json:"id"`
	Name                  string         `json:"name"`
	Description           string         `json:"description"`
	Nodes                 []WorkflowNode `json:"nodes"`
	Edges                 []WorkflowEdge `json:"edges"`
	EstimatedROI          EstimatedROI   `json:"estimatedROI"`
	SuggestedIntegrations []string       `json:"suggestedIntegrations"`
	Tags                  []string       `json:"tags"`
}
