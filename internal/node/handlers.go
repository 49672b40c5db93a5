package node

import (
	"encoding/json"
	"net/http"

	"github.com/janeta1/PR-labs/internal/storage"
)

// handleWrite accepts a client write on the leader. The body must carry both
// key and value; the version is stamped by the coordinator, never by the
// client.
func (n *Node) handleWrite(w http.ResponseWriter, r *http.Request) {
	type writeRequest struct {
		Key   *string `json:"key"`
		Value *string `json:"value"`
	}
	type writeResponse struct {
		Status         string `json:"status"`
		Acks           int    `json:"acks"`
		Version        uint64 `json:"version"`
		RequiredQuorum int    `json:"required_quorum"`
	}

	var req writeRequest
	if err := decodeJSON(r, &req); err != nil || req.Key == nil || req.Value == nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	res := n.coord.Write(r.Context(), *req.Key, *req.Value)

	resp := writeResponse{
		Status:         "write committed",
		Acks:           res.Acks,
		Version:        res.Version,
		RequiredQuorum: res.Required,
	}
	if res.Committed {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	resp.Status = "write failed"
	writeJSON(w, http.StatusServiceUnavailable, resp)
}

// handleReplicate is the follower intake for leader-originated updates. It
// validates presence of key and value, then applies unconditionally: the
// store's own version gate decides whether anything changes, and success is
// returned either way. A stale update therefore still acknowledges.
func (n *Node) handleReplicate(w http.ResponseWriter, r *http.Request) {
	type replicateRequest struct {
		Key     *string `json:"key"`
		Value   *string `json:"value"`
		Version uint64  `json:"version"`
	}

	var req replicateRequest
	if err := decodeJSON(r, &req); err != nil || req.Key == nil || req.Value == nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	n.store.Apply(*req.Key, *req.Value, req.Version)

	writeJSON(w, http.StatusOK, map[string]string{"status": "replicated"})
}

// handleRead consults only the local store; it never contacts peers. On a
// follower the result may trail the leader until replication drains.
func (n *Node) handleRead(w http.ResponseWriter, r *http.Request) {
	type readResponse struct {
		Value storage.Entry `json:"value"`
	}

	key := r.URL.Query().Get("key")

	entry, ok := n.store.Get(key)
	if !ok {
		writeError(w, http.StatusNotFound, "Key not found")
		return
	}

	writeJSON(w, http.StatusOK, readResponse{Value: entry})
}

// handleDump returns a point-in-time snapshot of the full mapping.
func (n *Node) handleDump(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, n.store.Dump())
}

func (n *Node) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"role":   string(n.cfg.Role),
		"status": "ok",
	})
}

// --- JSON helpers ---

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
