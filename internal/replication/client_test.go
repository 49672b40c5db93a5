package replication

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestReplicate_Success(t *testing.T) {
	var got replicatePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/replicate" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := NewHTTPReplicator()
	if !r.Replicate(context.Background(), srv.URL, "k", "v", 7) {
		t.Error("expected ack from 200 response")
	}
	if got.Key != "k" || got.Value != "v" || got.Version != 7 {
		t.Errorf("payload = %+v, want {k v 7}", got)
	}
}

func TestReplicate_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	r := NewHTTPReplicator()
	if r.Replicate(context.Background(), srv.URL, "k", "v", 1) {
		t.Error("400 response must not count as an ack")
	}
}

func TestReplicate_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	r := NewHTTPReplicator()
	if r.Replicate(context.Background(), srv.URL, "k", "v", 1) {
		t.Error("unreachable follower must not count as an ack")
	}
}

func TestReplicate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	r := NewHTTPReplicator()
	if r.Replicate(ctx, srv.URL, "k", "v", 1) {
		t.Error("timed-out call must not count as an ack")
	}
}
