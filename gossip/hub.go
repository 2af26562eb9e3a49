package gossip

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/gammazero/nexus/v3/client"
	"github.com/gammazero/nexus/v3/wamp"
	"github.com/sirupsen/logrus"

	"github.com/mosaicnetworks/cascade/consensus"
	"github.com/mosaicnetworks/cascade/data"
	"github.com/mosaicnetworks/cascade/hash"
	"github.com/mosaicnetworks/cascade/internal/errs"
	"github.com/mosaicnetworks/cascade/wireframe"
)

// pushProc is the WAMP procedure URI a peer registers to receive Belief
// pushes, namespaced by its AccountKey so distinct peers never collide.
func pushProc(key data.AccountKey) string {
	return fmt.Sprintf("cascade.gossip.push.%s", key.ToHexString(32))
}

// pullProc is the WAMP procedure URI a peer registers to answer MissingData
// requests: a hash in, that cell's canonical encoding (or a not-found
// error) out.
func pullProc(key data.AccountKey) string {
	return fmt.Sprintf("cascade.gossip.pull.%s", key.ToHexString(32))
}

// callTimeout bounds a single push RPC; a peer that doesn't answer within
// it is treated as backpressure ("would block" per spec §6) rather than a
// hard failure — the caller just tries again next heartbeat.
const callTimeout = 5 * time.Second

// Hub is one peer's gossip transport: a WAMP client connected to the
// network's Router, registered to receive Belief pushes addressed to this
// peer's AccountKey, and driving a Heartbeat that pushes this peer's
// current Belief out to a fanout-selected subset of known peers.
type Hub struct {
	peer      *consensus.Peer
	client    *client.Client
	selector  *Selector
	fanout    int
	heartbeat *Heartbeat
	fetches   *pendingFetches
	logger    *logrus.Entry
	done      chan struct{}
}

// Dial connects to the Router at addr and registers this peer's push and
// pull procedures. selector supplies the set of known peers to gossip to; it is
// owned by the caller and typically outlives any one Hub.
func Dial(ctx context.Context, addr string, peer *consensus.Peer, selector *Selector, fanout int, period time.Duration, logger *logrus.Entry) (*Hub, error) {
	cli, err := client.ConnectNet(ctx, "ws://"+addr, client.Config{Realm: Realm})
	if err != nil {
		return nil, err
	}

	h := &Hub{
		peer:      peer,
		client:    cli,
		selector:  selector,
		fanout:    fanout,
		heartbeat: NewHeartbeat(period),
		fetches:   newPendingFetches(),
		logger:    logger.WithField("peer", peer.AccountKey().ToHexString(6)),
		done:      make(chan struct{}),
	}

	if err := cli.Register(pushProc(peer.AccountKey()), h.handlePush, nil); err != nil {
		_ = cli.Close()
		return nil, err
	}
	if err := cli.Register(pullProc(peer.AccountKey()), h.handlePull, nil); err != nil {
		_ = cli.Close()
		return nil, err
	}
	return h, nil
}

// handlePush is the remote-call target of every other peer's push: it
// decodes the incoming Belief frame and merges it into this peer's belief.
func (h *Hub) handlePush(ctx context.Context, inv *wamp.Invocation) client.InvokeResult {
	if len(inv.Arguments) != 1 {
		return client.InvokeResult{Err: "gossip: push expects 1 argument"}
	}
	encoded, ok := wamp.AsString(inv.Arguments[0])
	if !ok {
		return client.InvokeResult{Err: "gossip: push argument is not a string"}
	}
	frameBytes, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return client.InvokeResult{Err: wamp.URI("gossip: bad base64: " + err.Error())}
	}
	belief, err := decodeBeliefFrame(frameBytes)
	if err != nil {
		h.logger.WithError(err).Warn("rejected malformed belief push, closing would happen at the transport layer")
		return client.InvokeResult{Err: wamp.URI(err.Error())}
	}
	if err := h.peer.MergeBeliefs([]*data.Belief{belief}, time.Now().UnixMilli()); err != nil {
		h.logger.WithError(err).Warn("merge failed for pushed belief")
		return client.InvokeResult{Err: wamp.URI(err.Error())}
	}
	return client.InvokeResult{}
}

// handlePull answers a MissingData request with the requested cell's
// canonical encoding, read straight from the peer's own store; spec §7
// treats an unknown hash here as ordinary MissingData, not a protocol
// error, so the caller is free to try another peer.
func (h *Hub) handlePull(ctx context.Context, inv *wamp.Invocation) client.InvokeResult {
	if len(inv.Arguments) != 1 {
		return client.InvokeResult{Err: "gossip: pull expects 1 argument"}
	}
	hexHash, ok := wamp.AsString(inv.Arguments[0])
	if !ok {
		return client.InvokeResult{Err: "gossip: pull argument is not a string"}
	}
	wanted, err := hash.FromHex(hexHash)
	if err != nil {
		return client.InvokeResult{Err: wamp.URI("gossip: bad hash: " + err.Error())}
	}
	encoded, found, err := h.peer.Store().Get(wanted)
	if err != nil {
		return client.InvokeResult{Err: wamp.URI(err.Error())}
	}
	if !found {
		return client.InvokeResult{Err: wamp.URI(errs.MissingData.String())}
	}
	return client.InvokeResult{Args: wamp.List{base64.StdEncoding.EncodeToString(encoded)}}
}

// FetchMissing asks from's pull procedure for wanted, stores the result in
// this peer's own store, and returns the decoded cell. Concurrent requests
// for the same hash are coalesced through fetches.
func (h *Hub) FetchMissing(ctx context.Context, from data.AccountKey, wanted hash.Hash) (data.Cell, error) {
	if h.fetches.Pending(wanted) {
		res := <-h.fetches.Await(wanted)
		if res.err != nil {
			return nil, res.err
		}
		return data.Decode(res.encoded)
	}
	waiter := h.fetches.Await(wanted)

	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	result, err := h.client.Call(callCtx, pullProc(from), nil, wamp.List{wanted.String()}, nil, nil)
	cancel()
	if err != nil {
		h.fetches.Resolve(wanted, nil, err)
		return nil, err
	}
	encodedStr, ok := wamp.AsString(result.Arguments[0])
	if !ok {
		err := errs.New(errs.BadFormat, "gossip: pull reply argument is not a string")
		h.fetches.Resolve(wanted, nil, err)
		return nil, err
	}
	encoded, err := base64.StdEncoding.DecodeString(encodedStr)
	if err != nil {
		h.fetches.Resolve(wanted, nil, err)
		return nil, err
	}
	if err := h.peer.Store().Put(wanted, encoded); err != nil {
		h.fetches.Resolve(wanted, nil, err)
		return nil, err
	}
	h.fetches.Resolve(wanted, encoded, nil)
	res := <-waiter
	if res.err != nil {
		return nil, res.err
	}
	return data.Decode(res.encoded)
}

func decodeBeliefFrame(raw []byte) (*data.Belief, error) {
	f, err := wireframe.Decode(bufio.NewReader(bytes.NewReader(raw)))
	if err != nil {
		return nil, err
	}
	if f.Tag != wireframe.TagBelief {
		return nil, errs.Newf(errs.BadFormat, "gossip: expected Belief frame, got %s", f.Tag)
	}
	cell, err := wireframe.DecodeCell(f)
	if err != nil {
		return nil, err
	}
	belief, ok := cell.(*data.Belief)
	if !ok {
		return nil, errs.New(errs.BadFormat, "gossip: frame body is not a Belief")
	}
	return belief, nil
}

// Run drives the heartbeat loop until ctx is cancelled or Close is called:
// on every tick it pushes the peer's current Belief to a fanout-selected
// subset of known peers.
func (h *Hub) Run(ctx context.Context) {
	go h.heartbeat.Run()
	for {
		select {
		case <-ctx.Done():
			h.heartbeat.Shutdown()
			return
		case <-h.done:
			h.heartbeat.Shutdown()
			return
		case <-h.heartbeat.Tick():
			h.pushRound(ctx)
		}
	}
}

func (h *Hub) pushRound(ctx context.Context) {
	belief := h.peer.Belief()
	frame := wireframe.EncodeCell(wireframe.TagBelief, belief)
	encoded := base64.StdEncoding.EncodeToString(frame)

	for _, target := range h.selector.Select(h.fanout) {
		callCtx, cancel := context.WithTimeout(ctx, callTimeout)
		_, err := h.client.Call(callCtx, pushProc(target), nil, wamp.List{encoded}, nil, nil)
		cancel()
		if err != nil {
			h.logger.WithError(err).WithField("target", target.ToHexString(6)).
				Debug("push would block or failed, retrying next round")
			continue
		}
		h.selector.UpdateLast(target)
	}
}

// PushNow runs one push round immediately, outside the heartbeat cadence —
// used right after ProposeBlock so a new block doesn't wait a full period
// before its first gossip hop.
func (h *Hub) PushNow(ctx context.Context) {
	h.pushRound(ctx)
}

// Close unregisters this peer's push and pull procedures and closes the
// WAMP connection.
func (h *Hub) Close() error {
	close(h.done)
	_ = h.client.Unregister(pushProc(h.peer.AccountKey()))
	_ = h.client.Unregister(pullProc(h.peer.AccountKey()))
	return h.client.Close()
}
