package blocktree

import "github.com/daglabs/powsim/internal/chain"

// validate checks b against the block acceptance rules. A missing parent is
// reported as ErrMissingParent so the caller knows to buffer b rather than
// drop it.
func (e *Engine) validate(b *chain.Block) error {
	if _, ok := e.blocks[b.ID]; ok {
		return ruleError(ErrDuplicateBlock, "block already accepted")
	}
	if b.IsGenesis() {
		// The genesis block is seeded directly by New and never revalidated.
		return ruleError(ErrDuplicateBlock, "genesis is pre-accepted")
	}

	parentID := *b.Parent
	if _, ok := e.blocks[parentID]; !ok {
		return ruleError(ErrMissingParent, "parent not yet accepted")
	}

	parentBalance := e.branchBalance[parentID]
	parentTxns := e.branchTxns[parentID]

	for _, t := range b.Transactions {
		if t.IsCoinbase() {
			continue
		}
		if parentBalance[*t.Sender] < t.Amount {
			return ruleError(ErrInsufficientBalance, "sender balance cannot cover amount")
		}
		if _, dup := parentTxns[t.ID]; dup {
			return ruleError(ErrDuplicateTransaction, "transaction already spent on this branch")
		}
	}
	return nil
}

// accept admits an already-validated block into the tree: it removes the
// block's non-coinbase transactions from pendingTxns, computes the new
// branch's balance and transaction set from its parent's, and records
// arrival time and branch length.
func (e *Engine) accept(b *chain.Block) {
	for _, t := range b.Transactions {
		if !t.IsCoinbase() {
			e.removePending(t.ID)
		}
	}

	parentID := *b.Parent
	e.blocks[b.ID] = b
	e.arrivalTime[b.ID] = e.sched.Now()
	e.branchLength[b.ID] = e.branchLength[parentID] + 1

	balance := cloneBalance(e.branchBalance[parentID])
	for _, t := range b.Transactions {
		if !t.IsCoinbase() {
			balance[*t.Sender] -= t.Amount
		}
		balance[t.Recipient] += t.Amount
	}
	e.branchBalance[b.ID] = balance

	txns := cloneTxnSet(e.branchTxns[parentID])
	for _, t := range b.Transactions {
		txns[t.ID] = struct{}{}
	}
	e.branchTxns[b.ID] = txns

	e.children[parentID] = append(e.children[parentID], b.ID)

	log.Debugf("peer %d accepted block %s at height %d", e.Owner, b.ID, e.branchLength[b.ID])
}

func (e *Engine) removePending(id chain.TxID) {
	for i, t := range e.pendingTxns {
		if t.ID == id {
			e.pendingTxns = append(e.pendingTxns[:i], e.pendingTxns[i+1:]...)
			return
		}
	}
}

// tryAdd validates and, on success, accepts b and checks whether it extends
// the longest chain, in which case a new mining attempt is triggered. On a
// missing parent, b is buffered in the orphan buffer.
func (e *Engine) tryAdd(b *chain.Block) error {
	if err := e.validate(b); err != nil {
		if IsErrorCode(err, ErrMissingParent) {
			e.orphanBuffer = append(e.orphanBuffer, b)
		}
		return err
	}
	e.accept(b)
	e.maybeExtendLongest(b.ID)
	return nil
}

func (e *Engine) maybeExtendLongest(id chain.BlockID) {
	if e.branchLength[id] > e.longestLength {
		e.longestLeaf = id
		e.longestLength = e.branchLength[id]
		e.generateBlock()
	}
}

// AddBlock validates b. On success it accepts b and performs a single rescan
// of the orphan buffer; on failure it buffers b (missing parent) or drops it,
// and does not rescan the orphan buffer.
func (e *Engine) AddBlock(b *chain.Block) error {
	if err := e.tryAdd(b); err != nil {
		return err
	}
	e.rescanOrphans()
	return nil
}

// rescanOrphans re-validates every block currently in the orphan buffer,
// exactly once per call. Blocks that now validate are accepted (and may in
// turn extend the longest chain); blocks still missing their parent remain
// buffered; any other validation failure drops the block for good.
func (e *Engine) rescanOrphans() {
	pending := e.orphanBuffer
	e.orphanBuffer = nil
	for _, ob := range pending {
		err := e.validate(ob)
		switch {
		case err == nil:
			e.accept(ob)
			e.maybeExtendLongest(ob.ID)
		case IsErrorCode(err, ErrMissingParent):
			e.orphanBuffer = append(e.orphanBuffer, ob)
		default:
			log.Debugf("peer %d dropped orphan %s: %v", e.Owner, ob.ID, err)
		}
	}
}
