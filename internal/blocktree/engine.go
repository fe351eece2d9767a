// Package blocktree implements the per-peer block-tree engine: validation,
// branch-indexed balances and transaction sets, longest-chain tracking, the
// orphan buffer, and the mining trigger. The validate/accept/rescan-orphans
// flow follows the same shape as blockdag's dag.go; candidate-block
// construction from the pending-transaction pool follows mining/mining.go.
package blocktree

import (
	"github.com/daglabs/powsim/internal/chain"
	"github.com/daglabs/powsim/internal/logger"
	"github.com/daglabs/powsim/internal/scheduler"
	"github.com/daglabs/powsim/internal/simrand"
)

var log = logger.Get(logger.SubsystemBlockTree)

// Config holds the engine's mining-trigger tunables, a subset of the
// simulator-wide configuration relevant to block-tree behaviour.
type Config struct {
	MinThreshold     int     // BLOCK_TXNS_MIN_THRESHOLD
	TriggerThreshold int     // BLOCK_TXNS_TRIGGER_THRESHOLD
	AvgMiningTime    float64 // AVG_BLOCK_MINING_TIME, ms
}

// Engine is one peer's private view of the block tree. It is the sole
// writer of its own maps. Blocks themselves are shared by pointer across
// every peer's Engine (the genesis block, and every block delivered by
// gossip); all per-peer tree data lives in the Engine's own maps.
type Engine struct {
	Owner     chain.PeerID
	HashShare float64

	sched     *scheduler.Scheduler
	rng       *simrand.Source
	cfg       Config
	broadcast func(chain.Message)

	blocks        map[chain.BlockID]*chain.Block
	arrivalTime   map[chain.BlockID]float64
	branchLength  map[chain.BlockID]int
	branchBalance map[chain.BlockID]map[chain.PeerID]float64
	branchTxns    map[chain.BlockID]map[chain.TxID]struct{}
	children      map[chain.BlockID][]chain.BlockID

	pendingTxns     []*chain.Transaction
	orphanBuffer    []*chain.Block
	mining          map[chain.BlockID]*chain.Block
	longestLeaf     chain.BlockID
	longestLength   int
	pendingGenerate bool

	numGeneratedBlocks int
}

// New builds an Engine rooted at the shared genesis block. initialCoins is
// assigned to every one of the numPeers peers in genesis's balance map, so
// the genesis block's balance map assigns every peer INITIAL_COINS.
func New(
	owner chain.PeerID,
	genesis *chain.Block,
	numPeers int,
	initialCoins float64,
	hashShare float64,
	sched *scheduler.Scheduler,
	rng *simrand.Source,
	cfg Config,
	broadcast func(chain.Message),
) *Engine {
	e := &Engine{
		Owner:         owner,
		HashShare:     hashShare,
		sched:         sched,
		rng:           rng,
		cfg:           cfg,
		broadcast:     broadcast,
		blocks:        make(map[chain.BlockID]*chain.Block),
		arrivalTime:   make(map[chain.BlockID]float64),
		branchLength:  make(map[chain.BlockID]int),
		branchBalance: make(map[chain.BlockID]map[chain.PeerID]float64),
		branchTxns:    make(map[chain.BlockID]map[chain.TxID]struct{}),
		children:      make(map[chain.BlockID][]chain.BlockID),
		mining:        make(map[chain.BlockID]*chain.Block),
	}

	balance := make(map[chain.PeerID]float64, numPeers)
	for i := 0; i < numPeers; i++ {
		balance[chain.PeerID(i)] = initialCoins
	}

	e.blocks[genesis.ID] = genesis
	e.arrivalTime[genesis.ID] = 0
	e.branchLength[genesis.ID] = 1
	e.branchBalance[genesis.ID] = balance
	e.branchTxns[genesis.ID] = make(map[chain.TxID]struct{})
	e.longestLeaf = genesis.ID
	e.longestLength = 1

	return e
}

// LongestLeaf returns the current incumbent longest-chain tip.
func (e *Engine) LongestLeaf() chain.BlockID { return e.longestLeaf }

// LongestLength returns branch_length[LongestLeaf()].
func (e *Engine) LongestLength() int { return e.longestLength }

// NumGeneratedBlocks returns the count of mine-finish events this engine has
// processed, win or lose.
func (e *Engine) NumGeneratedBlocks() int { return e.numGeneratedBlocks }

// HasBlock reports whether b is accepted locally.
func (e *Engine) HasBlock(id chain.BlockID) bool {
	_, ok := e.blocks[id]
	return ok
}

// Block returns the accepted block with the given ID, if any.
func (e *Engine) Block(id chain.BlockID) (*chain.Block, bool) {
	b, ok := e.blocks[id]
	return b, ok
}

// BranchLength returns branch_length[id].
func (e *Engine) BranchLength(id chain.BlockID) int { return e.branchLength[id] }

// ArrivalTime returns the simulator clock at which id was accepted.
func (e *Engine) ArrivalTime(id chain.BlockID) float64 { return e.arrivalTime[id] }

// BranchBalance returns a read-only view of branch_balance[id].
func (e *Engine) BranchBalance(id chain.BlockID) map[chain.PeerID]float64 {
	return e.branchBalance[id]
}

// OrphanCount returns the number of blocks currently buffered awaiting their
// parent.
func (e *Engine) OrphanCount() int { return len(e.orphanBuffer) }

// PendingCount returns the number of transactions awaiting inclusion in a
// mined block.
func (e *Engine) PendingCount() int { return len(e.pendingTxns) }

// Blocks returns every accepted block ID, for reporting.
func (e *Engine) Blocks() []chain.BlockID {
	ids := make([]chain.BlockID, 0, len(e.blocks))
	for id := range e.blocks {
		ids = append(ids, id)
	}
	return ids
}

// Forks returns every block with more than one child in this engine's tree.
func (e *Engine) Forks() []chain.BlockID {
	var forks []chain.BlockID
	for id, kids := range e.children {
		if len(kids) > 1 {
			forks = append(forks, id)
		}
	}
	return forks
}

// LongestChain walks parent links from LongestLeaf() back to genesis,
// returning the block IDs in root-to-leaf order.
func (e *Engine) LongestChain() []chain.BlockID {
	var chainIDs []chain.BlockID
	cur := e.longestLeaf
	for {
		chainIDs = append([]chain.BlockID{cur}, chainIDs...)
		b := e.blocks[cur]
		if b.Parent == nil {
			break
		}
		cur = *b.Parent
	}
	return chainIDs
}

func cloneBalance(src map[chain.PeerID]float64) map[chain.PeerID]float64 {
	dst := make(map[chain.PeerID]float64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func cloneTxnSet(src map[chain.TxID]struct{}) map[chain.TxID]struct{} {
	dst := make(map[chain.TxID]struct{}, len(src))
	for k := range src {
		dst[k] = struct{}{}
	}
	return dst
}
