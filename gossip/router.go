// Package gossip disseminates Belief updates between peers over WAMP RPC
// calls: every peer registers a push procedure named after its own
// AccountKey and, on each heartbeat tick, calls a fanout-selected subset
// of other peers' procedures with its current Belief. This is the same
// gammazero/nexus/v3 client/router wiring the teacher's net/signal/wamp
// package uses for babble's WebRTC offer/answer signaling, adapted from a
// one-shot RPC exchange to a periodic push — belief-merge has no notion of
// a call-and-wait-for-answer round trip, only "here is my latest belief".
package gossip

import (
	"context"
	"net/http"

	"github.com/gammazero/nexus/v3/router"
	"github.com/gammazero/nexus/v3/wamp"
	"github.com/sirupsen/logrus"
)

// Realm is the single WAMP realm every peer in a cascade network connects
// to; belief-merge has no notion of multiple independent realms.
const Realm = "cascade"

// Router is the WAMP router every peer's Hub dials into: the rendezvous
// point push calls are relayed through. One Router serves an entire
// gossip network; it carries no belief-merge state of its own.
type Router struct {
	addr       string
	nxr        router.Router
	httpServer *http.Server
	logger     *logrus.Entry
}

// NewRouter builds a Router that will listen on addr once Run is called.
// TLS termination, like the teacher's, is left to the caller (or a reverse
// proxy) rather than baked into belief-merge's transport.
func NewRouter(addr string, logger *logrus.Entry) (*Router, error) {
	cfg := &router.Config{
		RealmConfigs: []*router.RealmConfig{
			{URI: wamp.URI(Realm), AnonymousAuth: true},
		},
	}
	nxr, err := router.NewRouter(cfg, logger)
	if err != nil {
		return nil, err
	}
	wss := router.NewWebsocketServer(nxr)
	return &Router{
		addr:       addr,
		nxr:        nxr,
		httpServer: &http.Server{Addr: addr, Handler: wss},
		logger:     logger,
	}, nil
}

// Run starts the WebSocket server; it blocks until Shutdown is called.
func (r *Router) Run() error {
	err := r.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		r.logger.WithError(err).Error("gossip router stopped")
	}
	return err
}

// Shutdown stops the HTTP server and closes the WAMP router.
func (r *Router) Shutdown() {
	defer r.nxr.Close()
	if err := r.httpServer.Shutdown(context.Background()); err != nil {
		r.logger.WithError(err).Error("shutting down gossip router")
	}
}

// Addr returns the address the router listens on.
func (r *Router) Addr() string { return r.addr }
