package it

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/janeta1/PR-labs/internal/config"
	"github.com/janeta1/PR-labs/internal/node"
	"github.com/janeta1/PR-labs/internal/storage"
)

// Cluster is an in-process leader/follower cluster for integration tests.
// Every node serves its real HTTP handler on an httptest listener, so the
// replication path exercises the same wire format as production.
type Cluster struct {
	Leader    *httptest.Server
	Followers []*httptest.Server

	client *http.Client
}

// WriteResponse mirrors the leader's /write response body.
type WriteResponse struct {
	Status         string `json:"status"`
	Acks           int    `json:"acks"`
	Version        uint64 `json:"version"`
	RequiredQuorum int    `json:"required_quorum"`
}

// StartCluster brings up the given number of followers plus a leader
// pointing at them. Jitter is kept small so tests settle quickly. Servers
// are torn down via t.Cleanup.
func StartCluster(t *testing.T, followers, quorum int) *Cluster {
	t.Helper()

	c := &Cluster{client: &http.Client{Timeout: 10 * time.Second}}

	urls := make([]string, 0, followers)
	for i := 0; i < followers; i++ {
		f := node.New(&config.Config{Role: config.RoleFollower})
		srv := httptest.NewServer(f.Handler())
		t.Cleanup(srv.Close)
		c.Followers = append(c.Followers, srv)
		urls = append(urls, srv.URL)
	}

	leader := node.New(&config.Config{
		Role:        config.RoleLeader,
		Followers:   urls,
		WriteQuorum: quorum,
		MinDelay:    0,
		MaxDelay:    10 * time.Millisecond,
	})
	c.Leader = httptest.NewServer(leader.Handler())
	t.Cleanup(c.Leader.Close)

	return c
}

// Write posts a write to the leader and returns the HTTP status and decoded
// body.
func (c *Cluster) Write(t *testing.T, key, value string) (int, WriteResponse) {
	t.Helper()

	body, err := json.Marshal(map[string]string{"key": key, "value": value})
	if err != nil {
		t.Fatalf("marshal write body: %v", err)
	}

	resp, err := c.client.Post(c.Leader.URL+"/write", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("write request: %v", err)
	}
	defer resp.Body.Close()

	var wr WriteResponse
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		t.Fatalf("decode write response: %v", err)
	}
	return resp.StatusCode, wr
}

// Read fetches a key from the given server and returns the HTTP status and,
// on 200, the entry.
func (c *Cluster) Read(t *testing.T, srv *httptest.Server, key string) (int, storage.Entry) {
	t.Helper()

	resp, err := c.client.Get(fmt.Sprintf("%s/read?key=%s", srv.URL, key))
	if err != nil {
		t.Fatalf("read request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, storage.Entry{}
	}

	var body struct {
		Value storage.Entry `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode read response: %v", err)
	}
	return resp.StatusCode, body.Value
}

// Dump fetches the full mapping from the given server.
func (c *Cluster) Dump(t *testing.T, srv *httptest.Server) map[string]storage.Entry {
	t.Helper()

	resp, err := c.client.Get(srv.URL + "/dump")
	if err != nil {
		t.Fatalf("dump request: %v", err)
	}
	defer resp.Body.Close()

	var dump map[string]storage.Entry
	if err := json.NewDecoder(resp.Body).Decode(&dump); err != nil {
		t.Fatalf("decode dump: %v", err)
	}
	return dump
}

// jsonDecode decodes a response body and closes it.
func jsonDecode(resp *http.Response, dst any) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(dst)
}

// Converged reports whether every follower's dump matches the leader's.
func (c *Cluster) Converged(t *testing.T) bool {
	t.Helper()

	want := c.Dump(t, c.Leader)
	for _, f := range c.Followers {
		got := c.Dump(t, f)
		if len(got) != len(want) {
			return false
		}
		for k, entry := range want {
			if got[k] != entry {
				return false
			}
		}
	}
	return true
}
