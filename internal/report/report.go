// Package report builds the data-only structures an out-of-scope reporter
// consumes: per-peer block lists and chain summaries, and aggregated
// longest-chain-contribution ratios bucketed by (slow-cpu, slow-net).
// Nothing here renders JSON, draws a graph, or prints a progress bar; that
// is explicitly someone else's job.
package report

import (
	"math"

	"github.com/daglabs/powsim/internal/chain"
	"github.com/daglabs/powsim/internal/peer"
)

// BlockSummary describes one block as seen by one peer's engine.
type BlockSummary struct {
	ID           chain.BlockID
	ParentID     *chain.BlockID
	MinerID      *chain.PeerID
	CreatedAt    float64
	ArrivalTime  float64
	NumTxns      int
}

// PeerSummary describes everything the reporting interface needs about a
// single peer.
type PeerSummary struct {
	ID                     chain.PeerID
	HashShare              float64
	SlowNet                bool
	SlowCPU                bool
	Neighbours             []chain.PeerID
	Blocks                 []BlockSummary
	LongestChain           []chain.BlockID
	Forks                  []chain.BlockID
	NumGeneratedBlocks     int
	BlocksInLongestChain   int
	LongestChainContribution float64
}

// Bucket identifies one (slow-cpu × slow-net) combination for aggregation.
type Bucket struct {
	SlowCPU bool
	SlowNet bool
}

// Report is the full reporting payload for one simulation run.
type Report struct {
	Peers      []PeerSummary
	Aggregates map[Bucket]float64 // mean LongestChainContribution per bucket
}

// Build walks every peer's engine and assembles the reporting payload.
func Build(peers []*peer.Peer) *Report {
	r := &Report{Aggregates: make(map[Bucket]float64)}
	sums := make(map[Bucket]float64)
	counts := make(map[Bucket]int)

	for _, p := range peers {
		s := summarizePeer(p)
		r.Peers = append(r.Peers, s)

		b := Bucket{SlowCPU: p.SlowCPU, SlowNet: p.SlowNet}
		sums[b] += s.LongestChainContribution
		counts[b]++
	}

	for b, sum := range sums {
		r.Aggregates[b] = sum / float64(counts[b])
	}
	return r
}

func summarizePeer(p *peer.Peer) PeerSummary {
	e := p.Engine
	longestChain := e.LongestChain()
	inChainSet := make(map[chain.BlockID]struct{}, len(longestChain))
	for _, id := range longestChain {
		inChainSet[id] = struct{}{}
	}

	blocksBySelfInLongestChain := 0
	for _, id := range longestChain {
		b, ok := e.Block(id)
		if !ok || b.Miner == nil {
			continue
		}
		if *b.Miner == p.ID {
			blocksBySelfInLongestChain++
		}
	}

	contribution := 0.0
	if e.NumGeneratedBlocks() > 0 {
		ratio := float64(blocksBySelfInLongestChain) / float64(e.NumGeneratedBlocks())
		contribution = math.Round(ratio*100*100) / 100
	}

	var blocks []BlockSummary
	for _, id := range e.Blocks() {
		b, _ := e.Block(id)
		blocks = append(blocks, BlockSummary{
			ID:          b.ID,
			ParentID:    b.Parent,
			MinerID:     b.Miner,
			CreatedAt:   b.CreatedAt,
			ArrivalTime: e.ArrivalTime(id),
			NumTxns:     len(b.Transactions),
		})
	}

	return PeerSummary{
		ID:                       p.ID,
		HashShare:                e.HashShare,
		SlowNet:                  p.SlowNet,
		SlowCPU:                  p.SlowCPU,
		Neighbours:               p.Neighbours(),
		Blocks:                   blocks,
		LongestChain:             longestChain,
		Forks:                    e.Forks(),
		NumGeneratedBlocks:       e.NumGeneratedBlocks(),
		BlocksInLongestChain:     blocksBySelfInLongestChain,
		LongestChainContribution: contribution,
	}
}
