package blocktree

import (
	"github.com/daglabs/powsim/internal/chain"
	"github.com/daglabs/powsim/internal/scheduler"
)

// TriggerGenerate invokes a mining attempt directly, bypassing the normal
// pending-transaction trigger. It backs the driver's BLOCK_CREATE event,
// which nudges a peer to try mining once transaction supply has built up
// without a block landing.
func (e *Engine) TriggerGenerate() {
	e.generateBlock()
}

// AddTransaction appends t to pendingTxns. If t was authored by this engine's
// own peer, it is already reflected in that peer's local bookkeeping and no
// mining attempt is triggered. Otherwise, if a prior mining attempt was
// deferred for lack of transactions and the pending pool has since crossed
// the trigger threshold, a fresh attempt is made.
func (e *Engine) AddTransaction(t *chain.Transaction) {
	e.pendingTxns = append(e.pendingTxns, t)

	if t.Sender != nil && *t.Sender == e.Owner {
		return
	}

	if e.pendingGenerate && len(e.pendingTxns) >= e.cfg.TriggerThreshold {
		e.pendingGenerate = false
		e.generateBlock()
	}
}

// generateBlock builds a mining candidate atop longestLeaf from as many
// pendingTxns as don't underflow their sender's branch balance, in
// pending-pool insertion order. If fewer than MinThreshold transactions
// survive, the attempt is deferred via pendingGenerate rather than
// abandoned.
func (e *Engine) generateBlock() {
	scratch := cloneBalance(e.branchBalance[e.longestLeaf])

	included := make([]*chain.Transaction, 0, len(e.pendingTxns))
	for _, t := range e.pendingTxns {
		if scratch[*t.Sender] < t.Amount {
			continue
		}
		scratch[*t.Sender] -= t.Amount
		scratch[t.Recipient] += t.Amount
		included = append(included, t)
	}

	if len(included) < e.cfg.MinThreshold {
		e.pendingGenerate = true
		return
	}

	b := chain.NewBlock(e.longestLeaf, e.Owner, included, e.sched.Now())
	e.mining[b.ID] = b

	e.sched.Enqueue(scheduler.NewEvent(scheduler.KindBlockMineStart, e.sched.Now(), 0, func() {
		e.mineStart(b)
	}))
}

// mineStart samples the mining delay (exponential with mean
// AvgMiningTime/HashShare) and schedules the finish event.
func (e *Engine) mineStart(b *chain.Block) {
	mean := e.cfg.AvgMiningTime / e.HashShare
	delay := e.rng.Exponential(mean)
	log.Debugf("peer %d start mining %s, solve time %.2f", e.Owner, b.ID, delay)
	e.sched.Enqueue(scheduler.NewEvent(scheduler.KindBlockMineFinish, e.sched.Now(), delay, func() {
		e.mineFinish(b)
	}))
}

// mineFinish resolves a mining attempt. It always counts toward
// numGeneratedBlocks, win or lose. A win appends the coinbase, accepts the
// block locally, and schedules its broadcast; a loss (the longest chain
// moved on while mining) discards the candidate silently.
func (e *Engine) mineFinish(b *chain.Block) {
	delete(e.mining, b.ID)
	e.numGeneratedBlocks++

	if *b.Parent != e.longestLeaf {
		log.Debugf("peer %d %s for %s: longest leaf moved during mining", e.Owner, scheduler.KindBlockMineFail, b.ID)
		return
	}

	b.AppendCoinbase(e.Owner, e.sched.Now())
	if err := e.tryAdd(b); err != nil {
		log.Debugf("peer %d %s for %s: %v", e.Owner, scheduler.KindBlockMineFail, b.ID, err)
		return
	}
	log.Debugf("peer %d %s: %s, %s", e.Owner, scheduler.KindBlockMineSuccess, b.ID, scheduler.KindBlockAccepted)
	e.rescanOrphans()

	e.sched.Enqueue(scheduler.NewEvent(scheduler.KindBlockBroadcast, e.sched.Now(), 0, func() {
		e.broadcast(chain.NewBlockMessage(b))
	}))
}
