package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletion_Response(t *testing.T) {
	tests := []struct {
		name     string
		c        completion
		schema   bool
		wantStop string
		wantErr  error
	}{
		{"structured", completion{text: shortTextQuestion, input: 3, output: 4}, true, "end", nil},
		{"structured but cut off", completion{text: `{"kind":"short_text","prompt":`, truncated: true}, true, "", &TruncatedError{}},
		{"off schema", completion{text: `{"prompt":"no kind"}`}, true, "", &InvalidResponseError{}},
		{"free text cut off", completion{text: "plain", truncated: true}, false, "max_tokens", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := Request{}
			if tt.schema {
				req.Schema = questionSchema()
			}
			resp, err := tt.c.response(req)
			switch want := tt.wantErr.(type) {
			case nil:
				require.NoError(t, err)
				assert.Equal(t, tt.wantStop, resp.StopReason)
				assert.Equal(t, tt.c.text, string(resp.Content))
				assert.Equal(t, tt.c.input+tt.c.output, resp.Usage.TotalTokens)
			case *TruncatedError:
				assert.ErrorAs(t, err, &want)
			case *InvalidResponseError:
				assert.ErrorAs(t, err, &want)
			}
		})
	}
}

func TestCompletion_ProviderTotalWins(t *testing.T) {
	resp, err := completion{text: "x", input: 1, output: 2, total: 10}.response(Request{})
	require.NoError(t, err)
	assert.Equal(t, 10, resp.Usage.TotalTokens)
}

func TestStatusError(t *testing.T) {
	cause := errors.New("boom")
	header := http.Header{"Retry-After": []string{"7"}}

	var rl *RateLimitError
	require.ErrorAs(t, statusError(http.StatusTooManyRequests, header, cause), &rl)
	assert.Equal(t, 7*time.Second, rl.RetryAfter)

	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound} {
		var rejected *RejectedError
		require.ErrorAs(t, statusError(status, nil, cause), &rejected, "status %d", status)
		assert.Equal(t, status, rejected.Status)
		assert.ErrorIs(t, rejected, cause)
	}
	for _, status := range []int{0, http.StatusRequestTimeout, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		var unavailable *UnavailableError
		assert.ErrorAs(t, statusError(status, nil, cause), &unavailable, "status %d", status)
	}
}

func TestRetryAfter(t *testing.T) {
	tests := []struct {
		value string
		min   time.Duration
		max   time.Duration
	}{
		{"", 0, 0},
		{"3", 3 * time.Second, 3 * time.Second},
		{"soon", 0, 0},
		{"-4", 0, 0},
		{time.Now().Add(time.Hour).UTC().Format(http.TimeFormat), 58 * time.Minute, time.Hour},
		{time.Now().Add(-time.Hour).UTC().Format(http.TimeFormat), 0, 0},
	}
	for _, tt := range tests {
		got := retryAfter(http.Header{"Retry-After": []string{tt.value}})
		assert.GreaterOrEqual(t, got, tt.min, tt.value)
		assert.LessOrEqual(t, got, tt.max, tt.value)
	}
}

func TestMockProvider_Truncated(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"kind":`), Truncated: true})
	_, err := mock.Generate(context.Background(), questionRequest(questionSchema()))
	var truncated *TruncatedError
	assert.ErrorAs(t, err, &truncated)
	assert.Zero(t, mock.Pending())
}
