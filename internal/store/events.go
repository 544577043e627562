package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Timestamp    time.Time
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// EventRepo provides append access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}

// EventRepo returns the store's event log.
func (s *Store) EventRepo() EventRepo {
	return s
}

// AppendLLMRequest implements EventRepo.
func (s *Store) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	if data.Timestamp.IsZero() {
		data.Timestamp = time.Now()
	}
	ins := sqlite().Insert(LlmEventsTable.Name).
		Columns("timestamp", "provider", "model", "purpose", "input_tokens",
			"output_tokens", "latency_ms", "success", "error_message").
		Values(data.Timestamp.UTC(), data.Provider, data.Model, data.Purpose, data.InputTokens,
			data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage)
	if err := run(ctx, s.drv, ins); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

// RecentLLMRequests returns up to limit events, newest first.
func (s *Store) RecentLLMRequests(ctx context.Context, limit int) ([]LLMRequestEventData, error) {
	sel := sqlite().Select("timestamp", "provider", "model", "purpose", "input_tokens",
		"output_tokens", "latency_ms", "success", "error_message").
		From(entsql.Table(LlmEventsTable.Name)).
		OrderBy(entsql.Desc("id"))
	if limit > 0 {
		sel.Limit(limit)
	}
	var out []LLMRequestEventData
	err := query(ctx, s.drv, sel, func(rows *entsql.Rows) error {
		var e LLMRequestEventData
		if err := rows.Scan(&e.Timestamp, &e.Provider, &e.Model, &e.Purpose, &e.InputTokens,
			&e.OutputTokens, &e.LatencyMs, &e.Success, &e.ErrorMessage); err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load LLM request events: %w", err)
	}
	return out, nil
}
