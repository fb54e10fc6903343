package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/energypilot/energypilot/pkg/common"
	"github.com/energypilot/energypilot/pkg/types"
	"github.com/levenlabs/go-lflag"
)

// Aggregator produces the dashboard's daily summary.
type Aggregator interface {
	Summary(ctx context.Context) (types.DailySummary, error)
}

// Configured sets up the Aggregator based on flags. Without a summary-url the
// static summary is served.
func Configured() Aggregator {
	summaryURL := lflag.String("summary-url", "", "URL of the upstream daily summary endpoint (static summary if empty)")
	timeout := lflag.Duration("summary-timeout", 10*time.Second, "Timeout for requests to the summary endpoint")

	var p struct{ Aggregator }

	lflag.Do(func() {
		if *summaryURL == "" {
			p.Aggregator = Static{}
			return
		}
		p.Aggregator = NewRemote(*summaryURL, common.HTTPClient(*timeout))
	})

	return &p
}

// Static always returns the same summary.
type Static struct{}

func (Static) Summary(ctx context.Context) (types.DailySummary, error) {
	return types.DailySummary{
		EstimatedCost:    12.45,
		GridExportIncome: 3.2,
		CO2Avoided:       8.5,
		BatterySOC:       45,
		EVSOC:            65,
		UserPercentile:   85,
	}, nil
}

// Remote fetches the summary from an upstream endpoint on every call.
type Remote struct {
	url    string
	client *http.Client
}

// NewRemote returns a Remote aggregator fetching url with client.
func NewRemote(url string, client *http.Client) *Remote {
	return &Remote{
		url:    url,
		client: client,
	}
}

// Summary fetches the latest summary, bypassing any caches. Failures are
// reported as types.ErrServiceUnavailable.
func (r *Remote) Summary(ctx context.Context) (types.DailySummary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return types.DailySummary{}, fmt.Errorf("failed to create summary request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := r.client.Do(req)
	if err != nil {
		return types.DailySummary{}, fmt.Errorf("%w: summary request failed: %w", types.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return types.DailySummary{}, fmt.Errorf("%w: summary endpoint returned status %d: %s", types.ErrServiceUnavailable, resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var s types.DailySummary
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return types.DailySummary{}, fmt.Errorf("%w: failed to decode summary: %w", types.ErrServiceUnavailable, err)
	}
	return s, nil
}
