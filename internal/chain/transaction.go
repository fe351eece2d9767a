package chain

import "github.com/daglabs/powsim/internal/simrand"

// TxID opaquely identifies a Transaction. Equality, not content, is all that
// matters to the rest of the system.
type TxID string

// txSize is the constant wire size of every transaction, coinbase or not.
const txSize = 1 // kB

// CoinbaseAmount is the subsidy a successful miner mints for itself.
const CoinbaseAmount = 50

// Transaction is an immutable payload record. A nil Sender marks a coinbase
// transaction. Sender and Recipient may be the same peer: a peer with no
// neighbours pays itself.
type Transaction struct {
	ID        TxID
	Sender    *PeerID
	Recipient PeerID
	Amount    float64
	CreatedAt float64 // simulator clock at creation, ms
}

// NewTransaction builds a regular (non-coinbase) transaction from sender to
// recipient. The caller supplies the simulator clock as createdAt so the
// transaction carries the time it was authored, not constructed.
func NewTransaction(sender, recipient PeerID, amount, createdAt float64) *Transaction {
	s := sender
	return &Transaction{
		ID:        TxID(simrand.MustNewID()),
		Sender:    &s,
		Recipient: recipient,
		Amount:    amount,
		CreatedAt: createdAt,
	}
}

// NewCoinbaseTransaction mints the block subsidy for miner. This must only
// be called by the engine once mining succeeds, never by the candidate-block
// constructor.
func NewCoinbaseTransaction(miner PeerID, createdAt float64) *Transaction {
	return &Transaction{
		ID:        TxID(simrand.MustNewID()),
		Sender:    nil,
		Recipient: miner,
		Amount:    CoinbaseAmount,
		CreatedAt: createdAt,
	}
}

// IsCoinbase reports whether t mints new coins rather than transferring them.
func (t *Transaction) IsCoinbase() bool {
	return t.Sender == nil
}

// Size is the transaction's constant wire size in kB.
func (t *Transaction) Size() int {
	return txSize
}
