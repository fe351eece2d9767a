// Package link implements the bidirectional gossip channel between two
// peers (component F): a shared one-way propagation delay and bandwidth,
// wrapping two DirectionalLinks that each compute per-message latency and
// schedule the corresponding receive event.
package link

import (
	"github.com/daglabs/powsim/internal/chain"
	"github.com/daglabs/powsim/internal/logger"
	"github.com/daglabs/powsim/internal/scheduler"
	"github.com/daglabs/powsim/internal/simrand"
)

var log = logger.Get(logger.SubsystemLink)

// Bandwidth constants in Mbps; mbpsToKBPerMs converts them to kB/ms.
const (
	slowNetMbps = 5
	fastNetMbps = 100
)

func mbpsToKBPerMs(mbps float64) float64 {
	// 1 Mbps = 1_000_000 bits/sec = 125 kB/sec = 0.125 kB/ms.
	return mbps * 0.125
}

// Link is the undirected channel between two peers. Its two constructor
// parameters (rho, bandwidth) are drawn once and shared by both directions.
type Link struct {
	PeerA, PeerB chain.PeerID
	Rho          float64 // one-way propagation delay, ms
	Bandwidth    float64 // kB/ms

	AtoB *DirectionalLink
	BtoA *DirectionalLink
}

// New constructs the link between a and b. rho is drawn uniformly from
// [10, 501) ms; bandwidth is the slow-net rate if either endpoint is
// slow-net, else the fast-net rate.
func New(a, b chain.PeerID, aSlowNet, bSlowNet bool, sched *scheduler.Scheduler, rng *simrand.Source, deliverA, deliverB func(chain.Message)) *Link {
	rho := rng.UniformFloat(10, 501)
	bandwidth := mbpsToKBPerMs(fastNetMbps)
	if aSlowNet || bSlowNet {
		bandwidth = mbpsToKBPerMs(slowNetMbps)
	}

	l := &Link{PeerA: a, PeerB: b, Rho: rho, Bandwidth: bandwidth}
	l.AtoB = newDirectionalLink(a, b, rho, bandwidth, sched, rng, deliverB)
	l.BtoA = newDirectionalLink(b, a, rho, bandwidth, sched, rng, deliverA)
	return l
}

// Other returns the peer on the opposite end of the link from p.
func (l *Link) Other(p chain.PeerID) chain.PeerID {
	if p == l.PeerA {
		return l.PeerB
	}
	return l.PeerA
}

// DirectionTo returns the directional link that carries traffic from the
// peer from to its neighbour on this link.
func (l *Link) DirectionTo(from chain.PeerID) *DirectionalLink {
	if from == l.PeerA {
		return l.AtoB
	}
	return l.BtoA
}
