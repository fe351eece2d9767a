package chain

// PeerID identifies a peer. Peers are numbered sequentially by the network
// builder; the value carries no further meaning.
type PeerID int

// NoPeer is a sentinel value for an absent peer reference. The coinbase
// sender and the genesis miner do not use it: they are nil pointers
// (Transaction.Sender, Block.Miner).
const NoPeer PeerID = -1
