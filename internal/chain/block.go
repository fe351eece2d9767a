package chain

import "github.com/daglabs/powsim/internal/simrand"

// BlockID opaquely identifies a Block.
type BlockID string

// blockHeaderSize is the fixed per-block overhead (in kB) added on top of
// one kB per transaction.
const blockHeaderSize = 1

// GenesisID is the fixed identifier of the process-wide genesis block, shared
// read-only by every peer's tree.
const GenesisID BlockID = "genesis"

// Block is a payload record that is immutable after construction except for
// the coinbase that AppendCoinbase adds to Transactions. Parent is nil only
// for the genesis block; Miner is nil only for the genesis block.
type Block struct {
	ID           BlockID
	Parent       *BlockID
	Transactions []*Transaction
	Miner        *PeerID
	CreatedAt    float64
}

// NewBlock constructs a mining candidate atop parent. The coinbase is
// appended later, by the engine, once mining actually succeeds.
func NewBlock(parent BlockID, miner PeerID, txns []*Transaction, createdAt float64) *Block {
	p := parent
	m := miner
	return &Block{
		ID:           BlockID(simrand.MustNewID()),
		Parent:       &p,
		Transactions: txns,
		Miner:        &m,
		CreatedAt:    createdAt,
	}
}

// NewGenesisBlock constructs the single genesis block shared by every peer's
// block-tree engine.
func NewGenesisBlock() *Block {
	return &Block{
		ID:           GenesisID,
		Parent:       nil,
		Transactions: nil,
		Miner:        nil,
		CreatedAt:    0,
	}
}

// IsGenesis reports whether b is the root of the block tree.
func (b *Block) IsGenesis() bool {
	return b.Parent == nil
}

// Size is the block's wire size in kB: one per transaction plus the header.
func (b *Block) Size() int {
	return len(b.Transactions) + blockHeaderSize
}

// AppendCoinbase appends a freshly minted coinbase transaction to b. Callers
// must only invoke this once, from the engine's mine-finish handler.
func (b *Block) AppendCoinbase(miner PeerID, createdAt float64) {
	b.Transactions = append(b.Transactions, NewCoinbaseTransaction(miner, createdAt))
}
