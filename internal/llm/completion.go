package llm

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"
)

// completion is the part of an SDK reply the adapters care about.
type completion struct {
	text      string
	model     string
	truncated bool

	input, output int
	// total is taken from the provider when it reports one.
	total int
}

// response turns c into a Response for req. Structured requests must come
// back complete and schema-valid; free-form text is passed through even
// when cut short.
func (c completion) response(req Request) (*Response, error) {
	resp := &Response{
		Content:    json.RawMessage(c.text),
		Model:      c.model,
		StopReason: "end",
		Usage: Usage{
			InputTokens:  c.input,
			OutputTokens: c.output,
			TotalTokens:  c.total,
		},
	}
	if resp.Usage.TotalTokens == 0 {
		resp.Usage.TotalTokens = c.input + c.output
	}
	if c.truncated {
		resp.StopReason = "max_tokens"
	}
	if req.Schema == nil {
		return resp, nil
	}
	if c.truncated {
		return nil, &TruncatedError{Content: resp.Content}
	}
	if err := validateResponse(req.Schema, resp.Content); err != nil {
		return nil, err
	}
	return resp, nil
}

// statusError maps a failed call onto the package's error types. Status 0
// means no HTTP answer was received.
func statusError(status int, header http.Header, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &RateLimitError{RetryAfter: retryAfter(header), Err: err}
	case status >= 400 && status < 500 && status != http.StatusRequestTimeout:
		return &RejectedError{Status: status, Err: err}
	default:
		return &UnavailableError{Err: err}
	}
}

// retryAfter reads a Retry-After header given in seconds or as an HTTP
// date. Anything unreadable is zero.
func retryAfter(header http.Header) time.Duration {
	v := header.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		return max(time.Until(at), 0)
	}
	return 0
}

var errNoContent = errors.New("no text content in response")
