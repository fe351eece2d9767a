package simulation

import (
	"github.com/daglabs/powsim/internal/chain"
	"github.com/daglabs/powsim/internal/scheduler"
)

// seedTransactionEvents queues TOTAL_NUM_TRANSACTIONS TXN_CREATE events with
// exponential inter-arrival times (mean AVG_TXN_INTERVAL_TIME), each
// assigned to a uniformly random peer.
//
// TOTAL_NUM_TRANSACTIONS is carried as an additional config.Config field
// (config.TotalNumTransactions) so a caller can still tune it. See
// DESIGN.md.
func (s *Simulation) seedTransactionEvents() {
	now := 0.0
	for i := 0; i < s.Config.TotalNumTransactions; i++ {
		now += s.Rng.Exponential(s.Config.AvgTxnIntervalTime)
		peerID := chain.PeerID(s.Rng.UniformInt(0, s.Config.NumberOfPeers-1))
		p := s.Peers[peerID]
		s.Sched.Enqueue(scheduler.NewEvent(scheduler.KindTxnCreate, 0, now, func() {
			p.CreateTransaction(s.Sched.Now())
		}))
	}
}
