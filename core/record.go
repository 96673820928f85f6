package core

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the origin of an exchange record.
type Role string

const (
	// RoleUser marks input supplied by the end user.
	RoleUser Role = "user"
	// RoleAssistant marks text produced by the completion service.
	RoleAssistant Role = "assistant"
	// RoleTool marks the result of a tool invocation executed by the
	// completion service on the model's behalf.
	RoleTool Role = "tool"
)

// Record is one message unit of a session's conversation history. A record
// is immutable once appended; the orchestration loop and the completion
// service only ever create new records, never rewrite existing ones.
type Record struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	ToolName  string    `json:"tool_name,omitempty"` // set for RoleTool records
	Timestamp time.Time `json:"timestamp"`
}

// NewID returns a fresh unique identifier.
func NewID() string { return uuid.NewString() }

// NewRecord creates a record with a generated ID and UTC timestamp.
func NewRecord(role Role, text string) Record {
	return Record{
		ID:        NewID(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
}

// NewUserRecord creates a user-authored record.
func NewUserRecord(text string) Record { return NewRecord(RoleUser, text) }

// NewAssistantRecord creates a model-output record.
func NewAssistantRecord(text string) Record { return NewRecord(RoleAssistant, text) }

// NewToolRecord creates a tool-result record tagged with the tool's name.
func NewToolRecord(toolName, text string) Record {
	r := NewRecord(RoleTool, text)
	r.ToolName = toolName
	return r
}
