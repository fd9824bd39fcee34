// Package models defines data structures and domain types.
package models

import "time"

// UsageEvent is a single recorded model invocation.
type UsageEvent struct {
	ID           int64     `json:"id,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	Email        string    `json:"email"`
	Model        string    `json:"model"`
	InputTokens  int64     `json:"input_tokens"`
	OutputTokens int64     `json:"output_tokens"`
}

// PeriodUsage is a pre-aggregated time bucket of token usage.
// TotalTokens is always the sum of input and output tokens.
type PeriodUsage struct {
	Period            string `json:"period"`
	TotalInputTokens  int64  `json:"total_input_tokens"`
	TotalOutputTokens int64  `json:"total_output_tokens"`
	TotalTokens       int64  `json:"total_tokens"`
	RequestCount      int64  `json:"request_count"`
}

// AccountUsage holds aggregated token usage for one account.
type AccountUsage struct {
	Email             string `json:"email"`
	TotalInputTokens  int64  `json:"total_input_tokens"`
	TotalOutputTokens int64  `json:"total_output_tokens"`
	TotalTokens       int64  `json:"total_tokens"`
	RequestCount      int64  `json:"request_count"`
}

// UsageSummary holds global totals for a queried window.
type UsageSummary struct {
	TotalInputTokens  int64 `json:"total_input_tokens"`
	TotalOutputTokens int64 `json:"total_output_tokens"`
	TotalTokens       int64 `json:"total_tokens"`
	RequestCount      int64 `json:"request_count"`
	ActiveAccounts    int   `json:"active_accounts"`
}
