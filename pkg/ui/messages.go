package ui

import (
	"github.com/fd1az/bestprice/business/quote/domain"
)

// Message types for TUI updates

// RunMsg is sent when an aggregation run finishes.
type RunMsg struct {
	Run *domain.Run
}

// RunStartedMsg is sent when a round starts fetching.
type RunStartedMsg struct {
	Query string
}

// ErrorMsg is sent when a query could not run.
type ErrorMsg struct {
	Error error
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

// StartModulesMsg signals that the watch loop should start.
type StartModulesMsg struct{}
