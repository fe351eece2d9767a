package blocktree

import (
	"testing"

	"github.com/daglabs/powsim/internal/chain"
	"github.com/daglabs/powsim/internal/scheduler"
	"github.com/daglabs/powsim/internal/simrand"
)

func newTestEngine(t *testing.T, numPeers int) (*Engine, *chain.Block, *scheduler.Scheduler) {
	t.Helper()
	genesis := chain.NewGenesisBlock()
	sched := scheduler.New()
	rng := simrand.New(1)
	cfg := Config{MinThreshold: 1, TriggerThreshold: 5, AvgMiningTime: 1000}
	e := New(chain.PeerID(0), genesis, numPeers, 1000, 1.0, sched, rng, cfg, func(chain.Message) {})
	return e, genesis, sched
}

func TestNewEngineSeedsGenesis(t *testing.T) {
	e, genesis, _ := newTestEngine(t, 3)
	if e.LongestLeaf() != genesis.ID {
		t.Errorf("LongestLeaf() = %s, want %s", e.LongestLeaf(), genesis.ID)
	}
	if e.LongestLength() != 1 {
		t.Errorf("LongestLength() = %d, want 1", e.LongestLength())
	}
	for i := 0; i < 3; i++ {
		if got := e.BranchBalance(genesis.ID)[chain.PeerID(i)]; got != 1000 {
			t.Errorf("genesis balance[%d] = %v, want 1000", i, got)
		}
	}
}

func TestErrorCodeStringer(t *testing.T) {
	tests := []struct {
		in   ErrorCode
		want string
	}{
		{ErrMissingParent, "ErrMissingParent"},
		{ErrDuplicateBlock, "ErrDuplicateBlock"},
		{ErrInsufficientBalance, "ErrInsufficientBalance"},
		{ErrDuplicateTransaction, "ErrDuplicateTransaction"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("ErrorCode(%d).String() = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestAddBlockExtendsLongestChain(t *testing.T) {
	e, genesis, sched := newTestEngine(t, 3)
	b1 := chain.NewBlock(genesis.ID, chain.PeerID(1), nil, sched.Now())
	b1.AppendCoinbase(chain.PeerID(1), sched.Now())

	if err := e.AddBlock(b1); err != nil {
		t.Fatalf("AddBlock(b1) error: %v", err)
	}
	if e.LongestLeaf() != b1.ID {
		t.Errorf("LongestLeaf() = %s, want %s", e.LongestLeaf(), b1.ID)
	}
	if e.LongestLength() != 2 {
		t.Errorf("LongestLength() = %d, want 2", e.LongestLength())
	}
	if got := e.BranchBalance(b1.ID)[chain.PeerID(1)]; got != 1000+chain.CoinbaseAmount {
		t.Errorf("branch balance after coinbase = %v, want %v", got, 1000+chain.CoinbaseAmount)
	}
}

func TestAddBlockRejectsDuplicate(t *testing.T) {
	e, genesis, sched := newTestEngine(t, 3)
	b1 := chain.NewBlock(genesis.ID, chain.PeerID(1), nil, sched.Now())
	b1.AppendCoinbase(chain.PeerID(1), sched.Now())

	if err := e.AddBlock(b1); err != nil {
		t.Fatalf("first AddBlock(b1) error: %v", err)
	}
	err := e.AddBlock(b1)
	if !IsErrorCode(err, ErrDuplicateBlock) {
		t.Fatalf("second AddBlock(b1) error = %v, want ErrDuplicateBlock", err)
	}
}

func TestAddBlockBuffersOrphan(t *testing.T) {
	e, genesis, sched := newTestEngine(t, 3)
	b1 := chain.NewBlock(genesis.ID, chain.PeerID(1), nil, sched.Now())
	b1.AppendCoinbase(chain.PeerID(1), sched.Now())
	b2 := chain.NewBlock(b1.ID, chain.PeerID(2), nil, sched.Now())
	b2.AppendCoinbase(chain.PeerID(2), sched.Now())

	err := e.AddBlock(b2)
	if !IsErrorCode(err, ErrMissingParent) {
		t.Fatalf("AddBlock(b2) before parent error = %v, want ErrMissingParent", err)
	}
	if e.OrphanCount() != 1 {
		t.Fatalf("OrphanCount() = %d, want 1", e.OrphanCount())
	}

	if err := e.AddBlock(b1); err != nil {
		t.Fatalf("AddBlock(b1) error: %v", err)
	}
	if e.OrphanCount() != 0 {
		t.Errorf("OrphanCount() after rescan = %d, want 0", e.OrphanCount())
	}
	if !e.HasBlock(b2.ID) {
		t.Error("b2 should have been admitted by the orphan rescan")
	}
	if e.LongestLeaf() != b2.ID {
		t.Errorf("LongestLeaf() = %s, want %s (b2 should extend the chain)", e.LongestLeaf(), b2.ID)
	}
}

func TestAddBlockRejectsInsufficientBalance(t *testing.T) {
	e, genesis, sched := newTestEngine(t, 3)
	sender := chain.PeerID(1)
	tx := chain.NewTransaction(sender, chain.PeerID(2), 5000, sched.Now())
	b1 := chain.NewBlock(genesis.ID, chain.PeerID(0), []*chain.Transaction{tx}, sched.Now())
	b1.AppendCoinbase(chain.PeerID(0), sched.Now())

	err := e.AddBlock(b1)
	if !IsErrorCode(err, ErrInsufficientBalance) {
		t.Fatalf("AddBlock with overspend error = %v, want ErrInsufficientBalance", err)
	}
}

func TestAddBlockRejectsDuplicateTransaction(t *testing.T) {
	e, genesis, sched := newTestEngine(t, 3)
	tx := chain.NewTransaction(chain.PeerID(1), chain.PeerID(2), 10, sched.Now())

	b1 := chain.NewBlock(genesis.ID, chain.PeerID(0), []*chain.Transaction{tx}, sched.Now())
	b1.AppendCoinbase(chain.PeerID(0), sched.Now())
	if err := e.AddBlock(b1); err != nil {
		t.Fatalf("AddBlock(b1) error: %v", err)
	}

	b2 := chain.NewBlock(b1.ID, chain.PeerID(0), []*chain.Transaction{tx}, sched.Now())
	b2.AppendCoinbase(chain.PeerID(0), sched.Now())
	err := e.AddBlock(b2)
	if !IsErrorCode(err, ErrDuplicateTransaction) {
		t.Fatalf("AddBlock(b2) with repeated tx error = %v, want ErrDuplicateTransaction", err)
	}
}

func TestAddTransactionGeneratesBlockAtThreshold(t *testing.T) {
	e, _, sched := newTestEngine(t, 5)
	e.cfg.MinThreshold = 2
	e.cfg.TriggerThreshold = 2
	e.pendingGenerate = true

	e.AddTransaction(chain.NewTransaction(chain.PeerID(1), chain.PeerID(2), 10, sched.Now()))
	if len(e.mining) != 0 {
		t.Fatalf("mining started before trigger threshold reached")
	}
	e.AddTransaction(chain.NewTransaction(chain.PeerID(2), chain.PeerID(3), 10, sched.Now()))
	if len(e.mining) != 1 {
		t.Fatalf("mining attempts = %d, want 1 after crossing trigger threshold", len(e.mining))
	}
}

func TestAddTransactionFromOwnerDoesNotTriggerGenerate(t *testing.T) {
	e, _, sched := newTestEngine(t, 5)
	e.cfg.MinThreshold = 1
	e.cfg.TriggerThreshold = 1
	e.pendingGenerate = true

	e.AddTransaction(chain.NewTransaction(chain.PeerID(0), chain.PeerID(1), 10, sched.Now()))
	if len(e.mining) != 0 {
		t.Fatalf("mining started for the owner's own transaction, want no trigger")
	}
}

func TestMineFinishLosesRaceWhenLongestLeafMoved(t *testing.T) {
	e, genesis, sched := newTestEngine(t, 3)
	candidate := chain.NewBlock(genesis.ID, chain.PeerID(0), nil, sched.Now())

	// A competing block extends the chain first.
	other := chain.NewBlock(genesis.ID, chain.PeerID(1), nil, sched.Now())
	other.AppendCoinbase(chain.PeerID(1), sched.Now())
	if err := e.AddBlock(other); err != nil {
		t.Fatalf("AddBlock(other) error: %v", err)
	}

	before := e.NumGeneratedBlocks()
	e.mineFinish(candidate)
	if e.NumGeneratedBlocks() != before+1 {
		t.Errorf("NumGeneratedBlocks() = %d, want %d (a loss still counts)", e.NumGeneratedBlocks(), before+1)
	}
	if e.HasBlock(candidate.ID) {
		t.Error("a losing mining candidate must not be accepted")
	}
}

func TestMineFinishWinsWhenStillLongestLeaf(t *testing.T) {
	e, genesis, sched := newTestEngine(t, 3)
	candidate := chain.NewBlock(genesis.ID, chain.PeerID(0), nil, sched.Now())

	e.mineFinish(candidate)
	if !e.HasBlock(candidate.ID) {
		t.Fatal("a winning mining candidate must be accepted")
	}
	if e.LongestLeaf() != candidate.ID {
		t.Errorf("LongestLeaf() = %s, want %s", e.LongestLeaf(), candidate.ID)
	}
	b, _ := e.Block(candidate.ID)
	if len(b.Transactions) != 1 || !b.Transactions[0].IsCoinbase() {
		t.Error("a winning candidate must have exactly one coinbase transaction appended")
	}
}

func TestForksReportsMultiChildBlocks(t *testing.T) {
	e, genesis, sched := newTestEngine(t, 3)
	b1 := chain.NewBlock(genesis.ID, chain.PeerID(1), nil, sched.Now())
	b1.AppendCoinbase(chain.PeerID(1), sched.Now())
	b2 := chain.NewBlock(genesis.ID, chain.PeerID(2), nil, sched.Now())
	b2.AppendCoinbase(chain.PeerID(2), sched.Now())

	if err := e.AddBlock(b1); err != nil {
		t.Fatalf("AddBlock(b1) error: %v", err)
	}
	if err := e.AddBlock(b2); err != nil {
		t.Fatalf("AddBlock(b2) error: %v", err)
	}

	forks := e.Forks()
	if len(forks) != 1 || forks[0] != genesis.ID {
		t.Errorf("Forks() = %v, want [%s]", forks, genesis.ID)
	}
}

func TestLongestChainWalksToGenesis(t *testing.T) {
	e, genesis, sched := newTestEngine(t, 3)
	b1 := chain.NewBlock(genesis.ID, chain.PeerID(1), nil, sched.Now())
	b1.AppendCoinbase(chain.PeerID(1), sched.Now())
	if err := e.AddBlock(b1); err != nil {
		t.Fatalf("AddBlock(b1) error: %v", err)
	}

	lc := e.LongestChain()
	want := []chain.BlockID{genesis.ID, b1.ID}
	if len(lc) != len(want) {
		t.Fatalf("LongestChain() = %v, want %v", lc, want)
	}
	for i := range want {
		if lc[i] != want[i] {
			t.Fatalf("LongestChain() = %v, want %v", lc, want)
		}
	}
}
