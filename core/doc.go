// Package core defines the shared vocabulary of the assistant: exchange
// records and the conversation history they form, the agent Handle
// capability, and the read-only agent Registry assembled at startup.
// Higher-level packages (orchestrate, completion, planner, browser) depend
// only on these types, never on each other's internals.
package core
