package simulation

import (
	"github.com/daglabs/powsim/internal/chain"
	"github.com/daglabs/powsim/internal/scheduler"
)

// blockCreateDelay is the fixed offset the block-create trigger schedules
// its event at. A tie-sensitive decision must be made at a strictly later
// time rather than at the current clock, which is exactly what this offset
// is for.
const blockCreateDelay = 10 // ms

// registerHooks installs the driver's two POST_RUN hooks: (a)/(b) track
// transactions broadcast since the last mining event and, once that count
// exceeds 5×BLOCK_TXNS_TRIGGER_THRESHOLD, nudge a random peer to attempt a
// block; (c) stop once more than TARGET_NUM_BLOCKS+5 blocks have been
// broadcast cumulatively across all peers.
func (s *Simulation) registerHooks() {
	s.Sched.RegisterHook(scheduler.PhasePostRun, s.txnSupplyHook)
	s.Sched.RegisterHook(scheduler.PhasePostRun, s.stopConditionHook)
}

func (s *Simulation) txnSupplyHook(ev *scheduler.Event) {
	switch ev.Kind {
	case scheduler.KindTxnBroadcast:
		s.txnsSinceLastMine++
	case scheduler.KindBlockMineStart:
		s.txnsSinceLastMine = 0
	}

	threshold := 5 * s.Config.BlockTxnsTriggerThreshold()
	if s.txnsSinceLastMine <= threshold {
		return
	}
	s.txnsSinceLastMine = 0

	peerID := chain.PeerID(s.Rng.UniformInt(0, s.Config.NumberOfPeers-1))
	p := s.Peers[peerID]
	s.Sched.Enqueue(scheduler.NewEvent(scheduler.KindBlockCreate, s.Sched.Now(), blockCreateDelay, func() {
		p.Engine.TriggerGenerate()
	}))
}

func (s *Simulation) stopConditionHook(ev *scheduler.Event) {
	if ev.Kind != scheduler.KindBlockBroadcast {
		return
	}
	s.blocksBroadcast++
	if s.blocksBroadcast > s.Config.TargetNumBlocks+5 {
		s.Sched.Stop()
	}
}
