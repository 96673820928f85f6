// Package session houses concrete implementations of core.HistoryStore.
// The interface itself (and the History type) live in the core package to
// centralize domain contracts; keeping only implementations here prevents
// higher level packages from depending on concrete storage.
package session
