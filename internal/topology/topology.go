// Package topology builds the random connected overlay and assigns peer
// roles, following addrmgr's random-selection idioms and, structurally,
// the "rebuild on failure" pattern used throughout blockdag for invalid
// input.
package topology

import (
	"github.com/pkg/errors"

	"github.com/daglabs/powsim/internal/chain"
	"github.com/daglabs/powsim/internal/logger"
	"github.com/daglabs/powsim/internal/simrand"
)

var log = logger.Get(logger.SubsystemTopology)

// minDegree and maxDegree bound the per-peer random degree k ∈ {4, 5, 6}.
const (
	minDegree = 4
	maxDegree = 6
)

// Edge is an undirected connection between two peers, with peer IDs ordered
// so each unordered pair appears once.
type Edge struct {
	A, B chain.PeerID
}

// maxGraphAttempts bounds the rebuild loop so a pathological RNG seed can't
// spin forever: rebuilding until connected otherwise has no natural limit,
// but an unconditional loop can't be a real Go function.
const maxGraphAttempts = 10000

// BuildGraph builds a random connected undirected graph over numPeers
// peers: each peer picks k ∈ {4, 5, 6} random other peers and a bidirectional
// link is created for each pick. The whole construction is retried from
// scratch if the result isn't connected.
func BuildGraph(numPeers int, rng *simrand.Source) ([]Edge, error) {
	if numPeers <= 1 {
		return nil, nil
	}
	for attempt := 0; attempt < maxGraphAttempts; attempt++ {
		edges := buildOnce(numPeers, rng)
		if isConnected(numPeers, edges) {
			return edges, nil
		}
		log.Debugf("graph attempt %d produced a disconnected overlay, rebuilding", attempt)
	}
	return nil, errors.Errorf("failed to build a connected overlay over %d peers in %d attempts", numPeers, maxGraphAttempts)
}

func buildOnce(numPeers int, rng *simrand.Source) []Edge {
	seen := make(map[Edge]struct{})
	var edges []Edge
	addEdge := func(a, b chain.PeerID) {
		if a == b {
			return
		}
		if a > b {
			a, b = b, a
		}
		e := Edge{A: a, B: b}
		if _, ok := seen[e]; ok {
			return
		}
		seen[e] = struct{}{}
		edges = append(edges, e)
	}

	for i := 0; i < numPeers; i++ {
		k := rng.UniformInt(minDegree, maxDegree)
		if k > numPeers-1 {
			k = numPeers - 1
		}
		picked := make(map[int]struct{}, k)
		for len(picked) < k {
			j := rng.UniformInt(0, numPeers-1)
			if j == i {
				continue
			}
			picked[j] = struct{}{}
		}
		for j := range picked {
			addEdge(chain.PeerID(i), chain.PeerID(j))
		}
	}
	return edges
}

func isConnected(numPeers int, edges []Edge) bool {
	adj := make(map[chain.PeerID][]chain.PeerID, numPeers)
	for _, e := range edges {
		adj[e.A] = append(adj[e.A], e.B)
		adj[e.B] = append(adj[e.B], e.A)
	}

	visited := make(map[chain.PeerID]bool, numPeers)
	stack := []chain.PeerID{0}
	visited[0] = true
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, n := range adj[cur] {
			if !visited[n] {
				visited[n] = true
				stack = append(stack, n)
			}
		}
	}
	return len(visited) == numPeers
}

// AssignRoles draws an independent ⌈z0·n⌉-sized subset of peers as slow-net,
// and an independent ⌈z1·n⌉-sized subset as slow-cpu.
func AssignRoles(numPeers int, z0, z1 float64, rng *simrand.Source) (slowNet, slowCPU []bool) {
	slowNet = pickFraction(numPeers, z0, rng)
	slowCPU = pickFraction(numPeers, z1, rng)
	return slowNet, slowCPU
}

func pickFraction(numPeers int, z float64, rng *simrand.Source) []bool {
	count := int(ceil(z * float64(numPeers)))
	flags := make([]bool, numPeers)
	if count <= 0 {
		return flags
	}
	if count > numPeers {
		count = numPeers
	}
	perm := rng.Perm(numPeers)
	for _, idx := range perm[:count] {
		flags[idx] = true
	}
	return flags
}

func ceil(x float64) float64 {
	i := float64(int64(x))
	if x > i {
		return i + 1
	}
	return i
}

// HashShare computes a peer's fraction of total mining power:
// 1/((10-9·z1)·n) if slow-cpu, else 10x that value. z1 is the configured
// slow-cpu fraction (not the realized count), matching the expectation
// normalization used to derive the 10x split.
func HashShare(slowCPU bool, z1 float64, numPeers int) float64 {
	base := 1.0 / ((10 - 9*z1) * float64(numPeers))
	if slowCPU {
		return base
	}
	return 10 * base
}
