package node

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/janeta1/PR-labs/internal/config"
	"github.com/janeta1/PR-labs/internal/replication"
	"github.com/janeta1/PR-labs/internal/storage"
)

// Node represents a single process in the cluster: a fixed role, a local
// store, and, on the leader, the replication coordinator. The role never
// changes after construction.
type Node struct {
	cfg   *config.Config
	store storage.Store
	coord *replication.Coordinator
	srv   *http.Server
}

// New creates a node for the given configuration. A leader gets a
// coordinator wired to the configured followers; a follower only gets the
// store and the replicate intake.
func New(cfg *config.Config) *Node {
	store := storage.NewInMemoryStore()

	n := &Node{
		cfg:   cfg,
		store: store,
	}

	if cfg.Role == config.RoleLeader {
		replicator := replication.NewHTTPReplicator()
		n.coord = replication.NewCoordinator(
			store,
			cfg.Followers,
			cfg.WriteQuorum,
			cfg.MinDelay,
			cfg.MaxDelay,
			replicator.Replicate,
		)
	}

	return n
}

// Handler builds the HTTP handler for the node's role. Route availability
// is decided here, once, at startup: only a leader registers /write, only a
// follower registers /replicate. Everything else is common to both roles.
func (n *Node) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/ping", n.handlePing)
	r.Get("/read", n.handleRead)
	r.Get("/dump", n.handleDump)

	switch n.cfg.Role {
	case config.RoleLeader:
		r.Post("/write", n.handleWrite)
	case config.RoleFollower:
		r.Post("/replicate", n.handleReplicate)
	}

	return r
}

// Start begins serving on the configured port and blocks until the server
// stops or fails.
func (n *Node) Start() error {
	addr := fmt.Sprintf(":%d", n.cfg.Port)
	n.srv = &http.Server{
		Addr:    addr,
		Handler: n.Handler(),
	}

	if n.cfg.Role == config.RoleLeader {
		log.Printf("[leader] starting on %s: quorum=%d followers=%d delay=[%s, %s]",
			addr, n.cfg.WriteQuorum, len(n.cfg.Followers), n.cfg.MinDelay, n.cfg.MaxDelay)
	} else {
		log.Printf("[follower] starting on %s", addr)
	}

	if err := n.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serve on %s: %w", addr, err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (n *Node) Stop(ctx context.Context) error {
	if n.srv == nil {
		return nil
	}
	log.Printf("[%s] stopping node", n.cfg.Role)
	return n.srv.Shutdown(ctx)
}
