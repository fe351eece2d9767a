// Package peer implements a network participant: it owns a block-tree
// engine, maintains a neighbour table over directional links, generates
// transactions, and floods messages with per-message dedup so that each
// peer relays any given message exactly once. The neighbour-set shape
// follows connmanager's connection_set.go.
package peer

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/daglabs/powsim/internal/blocktree"
	"github.com/daglabs/powsim/internal/chain"
	"github.com/daglabs/powsim/internal/link"
	"github.com/daglabs/powsim/internal/logger"
	"github.com/daglabs/powsim/internal/scheduler"
	"github.com/daglabs/powsim/internal/simrand"
)

var log = logger.Get(logger.SubsystemPeer)

// forwardedCacheSize bounds the per-peer dedup cache. It is sized well past
// any single run's message volume; golang-lru's eviction only matters for
// very long-running simulations, where the oldest IDs are the ones least
// likely to be re-delivered by a loop-free flood anyway.
const forwardedCacheSize = 1 << 20

// Peer is one overlay participant.
type Peer struct {
	ID       chain.PeerID
	SlowNet  bool
	SlowCPU  bool
	Coins    float64
	Engine   *blocktree.Engine

	neighbours map[chain.PeerID]*link.DirectionalLink
	forwarded  *lru.Cache

	sched *scheduler.Scheduler
	rng   *simrand.Source
}

// New constructs a Peer. Its neighbour table is populated afterward, by the
// network builder, via AddNeighbour (link construction needs both peers to
// already exist).
func New(id chain.PeerID, slowNet, slowCPU bool, initialCoins float64, engine *blocktree.Engine, sched *scheduler.Scheduler, rng *simrand.Source) *Peer {
	cache, err := lru.New(forwardedCacheSize)
	if err != nil {
		// lru.New only fails for a non-positive size, which is a
		// programmer error, not a runtime condition.
		panic(errors.Wrap(err, "failed to allocate dedup cache"))
	}
	return &Peer{
		ID:         id,
		SlowNet:    slowNet,
		SlowCPU:    slowCPU,
		Coins:      initialCoins,
		Engine:     engine,
		neighbours: make(map[chain.PeerID]*link.DirectionalLink),
		forwarded:  cache,
		sched:      sched,
		rng:        rng,
	}
}

// AddNeighbour wires a directional link for forwarding traffic to neighbour.
func (p *Peer) AddNeighbour(neighbour chain.PeerID, dl *link.DirectionalLink) {
	p.neighbours[neighbour] = dl
}

// Neighbours returns the IDs of this peer's directly connected neighbours.
func (p *Peer) Neighbours() []chain.PeerID {
	ids := make([]chain.PeerID, 0, len(p.neighbours))
	for id := range p.neighbours {
		ids = append(ids, id)
	}
	return ids
}

// Degree returns the number of direct neighbours.
func (p *Peer) Degree() int {
	return len(p.neighbours)
}

func (p *Peer) markForwarded(id chain.MessageID) {
	p.forwarded.Add(id, struct{}{})
}

func (p *Peer) alreadyForwarded(id chain.MessageID) bool {
	return p.forwarded.Contains(id)
}

// forwardAll relays msg to every neighbour, marking it forwarded so this
// peer never relays the same message ID twice.
func (p *Peer) forwardAll(msg chain.Message) {
	p.markForwarded(msg.ID())
	for _, dl := range p.neighbours {
		dl.Transmit(msg)
	}
}

// forwardExcept relays msg to every neighbour other than exclude, marking it
// forwarded.
func (p *Peer) forwardExcept(msg chain.Message, exclude chain.PeerID) {
	p.markForwarded(msg.ID())
	for id, dl := range p.neighbours {
		if id == exclude {
			continue
		}
		dl.Transmit(msg)
	}
}

// BroadcastMsg forwards msg to every neighbour.
func (p *Peer) BroadcastMsg(msg chain.Message) {
	p.forwardAll(msg)
}

// ReceiveMsg implements the flood-with-dedup relay: a message this peer has
// already forwarded is dropped outright; otherwise it is handed to the
// engine and then relayed to every neighbour but the one it arrived from.
func (p *Peer) ReceiveMsg(msg chain.Message, source chain.PeerID) {
	if p.alreadyForwarded(msg.ID()) {
		return
	}

	switch msg.Kind {
	case chain.MessageKindTransaction:
		p.Engine.AddTransaction(msg.Txn)
	case chain.MessageKindBlock:
		if err := p.Engine.AddBlock(msg.Blk); err != nil {
			log.Debugf("peer %d rejected block %s from %d: %v", p.ID, msg.Blk.ID, source, err)
		}
	}

	p.forwardExcept(msg, source)
}

// CreateTransaction picks a uniformly random neighbour as recipient (the
// observed behaviour restricts recipients to direct neighbours, not the
// full peer set) and an amount uniform over [0, p.Coins], deducts it from
// the peer's private coin knob, inserts the transaction into the local
// engine, and schedules its broadcast. A peer with no neighbours (the
// degenerate single-peer network case) pays itself: the transaction still
// needs to exist for pending_txns and the TXN_BROADCAST event still needs to
// fire so the driver's block-create trigger can bootstrap mining.
func (p *Peer) CreateTransaction(now float64) {
	recipient := p.ID
	if neighbourIDs := p.Neighbours(); len(neighbourIDs) > 0 {
		recipient = neighbourIDs[p.rng.UniformInt(0, len(neighbourIDs)-1)]
	}

	amount := p.rng.UniformFloat(0, p.Coins)
	p.Coins -= amount

	t := chain.NewTransaction(p.ID, recipient, amount, now)
	p.Engine.AddTransaction(t)

	p.sched.Enqueue(scheduler.NewEvent(scheduler.KindTxnBroadcast, now, 0, func() {
		p.BroadcastMsg(chain.NewTxnMessage(t))
	}))
}
