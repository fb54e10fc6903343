package evaluator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/energypilot/energypilot/pkg/log"
	"github.com/energypilot/energypilot/pkg/types"
	"github.com/shopspring/decimal"
)

// Remote posts the strategy to an external scoring service.
type Remote struct {
	url    string
	client *http.Client
}

// NewRemote returns a Remote evaluator posting to url with client.
func NewRemote(url string, client *http.Client) *Remote {
	return &Remote{
		url:    url,
		client: client,
	}
}

func (r *Remote) Mode() Mode {
	return ModeRemote
}

type scorerResponse struct {
	// a JSON number or a quoted number
	EstimatedSavings decimal.NullDecimal `json:"estimatedSavings"`
}

// Evaluate sends {intervals, devices} to the scorer. Any failure to reach it, a
// non-2xx status, or an unreadable body is reported as
// types.ErrServiceUnavailable. A response without estimatedSavings counts as
// zero savings.
func (r *Remote) Evaluate(ctx context.Context, req types.EvaluationRequest) (types.Evaluation, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return types.Evaluation{}, fmt.Errorf("failed to encode evaluation request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return types.Evaluation{}, fmt.Errorf("failed to create scorer request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	log.Ctx(ctx).DebugContext(
		ctx,
		"sending strategy to scorer",
		slog.Int("intervals", len(req.Intervals)),
		slog.Int("devices", len(req.Devices)),
	)

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return types.Evaluation{}, fmt.Errorf("%w: scorer request failed: %w", types.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return types.Evaluation{}, fmt.Errorf("%w: scorer returned status %d: %s", types.ErrServiceUnavailable, resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var sr scorerResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return types.Evaluation{}, fmt.Errorf("%w: failed to decode scorer response: %w", types.ErrServiceUnavailable, err)
	}

	savings := decimal.Zero
	if sr.EstimatedSavings.Valid {
		savings = sr.EstimatedSavings.Decimal
	}
	return types.Evaluation{
		EstimatedSavings: savings.Round(2).InexactFloat64(),
		Mode:             string(ModeRemote),
	}, nil
}
