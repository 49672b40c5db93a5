package replication

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// HTTPReplicator sends replicate requests to follower nodes over HTTP.
// The zero timeout on the shared client is deliberate: each call is bounded
// by the context the coordinator passes in.
type HTTPReplicator struct {
	client *http.Client
}

// NewHTTPReplicator creates a replicator with a shared HTTP client, so
// connections to followers are pooled across writes.
func NewHTTPReplicator() *HTTPReplicator {
	return &HTTPReplicator{client: &http.Client{}}
}

type replicatePayload struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	Version uint64 `json:"version"`
}

// Replicate POSTs one update to baseURL/replicate. It reports true only for
// a 200 response; errors and every other status count as a missed ack.
func (r *HTTPReplicator) Replicate(ctx context.Context, baseURL, key, value string, version uint64) bool {
	body, err := json.Marshal(replicatePayload{Key: key, Value: value, Version: version})
	if err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/replicate", bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}
