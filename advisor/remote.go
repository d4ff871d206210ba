package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/RyanBlaney/sonido-aid/logging"
	"github.com/RyanBlaney/sonido-aid/strategy"
)

// defaultRemoteTimeout bounds the advisor call so a slow service can
// never stall the audio loop past one decision cycle
const defaultRemoteTimeout = 2 * time.Second

// remoteRequest is the JSON body sent to the advisor service
type remoteRequest struct {
	Observation Observation          `json:"observation"`
	Profile     strategy.UserProfile `json:"profile"`
}

// RemoteAdvisor calls an external reasoning service (rule engine or
// LLM-backed) over HTTP. Every transport, status, or decode problem is
// returned as an error; the decision engine absorbs those by falling
// back, so this advisor never retries.
type RemoteAdvisor struct {
	endpoint string
	client   *http.Client
	logger   logging.Logger
}

// NewRemoteAdvisor creates an advisor that POSTs observations to the
// given endpoint. A non-positive timeout uses the default.
func NewRemoteAdvisor(endpoint string, timeout time.Duration) *RemoteAdvisor {
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	return &RemoteAdvisor{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger: logging.WithFields(logging.Fields{
			"component": "remote_advisor",
			"endpoint":  endpoint,
		}),
	}
}

func (r *RemoteAdvisor) Name() string {
	return "remote"
}

// Propose sends the observation to the remote service and decodes the
// returned candidate strategy. The caller's context bounds the call in
// addition to the client timeout.
func (r *RemoteAdvisor) Propose(ctx context.Context, obs Observation, profile strategy.UserProfile) (strategy.Strategy, error) {
	body, err := json.Marshal(remoteRequest{Observation: obs, Profile: profile})
	if err != nil {
		return strategy.Strategy{}, fmt.Errorf("encode advisor request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return strategy.Strategy{}, fmt.Errorf("build advisor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("advisor call failed", logging.Fields{"error": err.Error()})
		return strategy.Strategy{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return strategy.Strategy{}, fmt.Errorf("%w: advisor returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var st strategy.Strategy
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return strategy.Strategy{}, fmt.Errorf("decode advisor response: %w", err)
	}

	return st, nil
}
