// Package simulation is the driver: it wires the network builder, peers,
// and links together, seeds the initial events, registers the scheduler
// hooks that drive transaction supply and the stop condition, and runs the
// scheduler to completion.
package simulation

import (
	"github.com/pkg/errors"

	"github.com/daglabs/powsim/internal/blocktree"
	"github.com/daglabs/powsim/internal/chain"
	"github.com/daglabs/powsim/internal/config"
	"github.com/daglabs/powsim/internal/link"
	"github.com/daglabs/powsim/internal/logger"
	"github.com/daglabs/powsim/internal/peer"
	"github.com/daglabs/powsim/internal/scheduler"
	"github.com/daglabs/powsim/internal/simrand"
	"github.com/daglabs/powsim/internal/topology"
)

var log = logger.Get(logger.SubsystemDriver)

// Simulation owns every collaborator for a single run: the scheduler, the
// RNG, the shared genesis block, and the peers and links the network
// builder produced.
type Simulation struct {
	Config  *config.Config
	Sched   *scheduler.Scheduler
	Rng     *simrand.Source
	Genesis *chain.Block
	Peers   []*peer.Peer
	Links   []*link.Link

	blocksBroadcast    int
	txnsSinceLastMine  int
}

// New builds a Simulation from cfg: a random connected overlay with role
// assignment, one block-tree engine per peer, and the bidirectional links
// the overlay's edges imply.
func New(cfg *config.Config) (*Simulation, error) {
	rng := simrand.New(cfg.Seed)
	sched := scheduler.New()
	genesis := chain.NewGenesisBlock()

	edges, err := topology.BuildGraph(cfg.NumberOfPeers, rng)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build network topology")
	}
	slowNet, slowCPU := topology.AssignRoles(cfg.NumberOfPeers, cfg.Z0, cfg.Z1, rng)

	sim := &Simulation{
		Config:  cfg,
		Sched:   sched,
		Rng:     rng,
		Genesis: genesis,
		Peers:   make([]*peer.Peer, cfg.NumberOfPeers),
	}

	engineCfg := blocktree.Config{
		MinThreshold:     cfg.BlockTxnsMinThreshold(),
		TriggerThreshold: cfg.BlockTxnsTriggerThreshold(),
		AvgMiningTime:    cfg.AvgBlockMiningTime,
	}

	for i := 0; i < cfg.NumberOfPeers; i++ {
		id := chain.PeerID(i)
		hashShare := topology.HashShare(slowCPU[i], cfg.Z1, cfg.NumberOfPeers)

		var p *peer.Peer
		engine := blocktree.New(id, genesis, cfg.NumberOfPeers, cfg.InitialCoins, hashShare, sched, rng, engineCfg,
			func(msg chain.Message) { p.BroadcastMsg(msg) })
		p = peer.New(id, slowNet[i], slowCPU[i], cfg.InitialCoins, engine, sched, rng)
		sim.Peers[i] = p
	}

	for _, e := range edges {
		a, b := sim.Peers[e.A], sim.Peers[e.B]
		l := link.New(e.A, e.B, a.SlowNet, b.SlowNet, sched, rng,
			func(msg chain.Message) { a.ReceiveMsg(msg, e.B) },
			func(msg chain.Message) { b.ReceiveMsg(msg, e.A) })
		a.AddNeighbour(e.B, l.AtoB)
		b.AddNeighbour(e.A, l.BtoA)
		sim.Links = append(sim.Links, l)
	}

	sim.registerHooks()
	log.Infof("built simulation: %d peers, %d links", cfg.NumberOfPeers, len(sim.Links))
	return sim, nil
}

// Run seeds the transaction-creation events and runs the scheduler to
// completion (or until the stop condition fires).
func (s *Simulation) Run() {
	s.seedTransactionEvents()
	log.Infof("starting simulation run")
	s.Sched.Run()
	log.Infof("simulation finished: clock=%.2f blocksBroadcast=%d", s.Sched.Now(), s.blocksBroadcast)
}
