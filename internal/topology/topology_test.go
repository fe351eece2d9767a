package topology

import (
	"testing"

	"github.com/daglabs/powsim/internal/chain"
	"github.com/daglabs/powsim/internal/simrand"
)

func TestBuildGraphSinglePeer(t *testing.T) {
	rng := simrand.New(1)
	edges, err := BuildGraph(1, rng)
	if err != nil {
		t.Fatalf("BuildGraph(1, ...) error: %v", err)
	}
	if len(edges) != 0 {
		t.Errorf("BuildGraph(1, ...) = %v, want no edges", edges)
	}
}

func TestBuildGraphIsConnected(t *testing.T) {
	rng := simrand.New(7)
	const n = 20
	edges, err := BuildGraph(n, rng)
	if err != nil {
		t.Fatalf("BuildGraph(%d, ...) error: %v", n, err)
	}
	if !isConnected(n, edges) {
		t.Errorf("BuildGraph(%d, ...) produced a disconnected graph: %v", n, edges)
	}
}

func TestBuildGraphNoSelfLoopsOrDuplicates(t *testing.T) {
	rng := simrand.New(11)
	const n = 15
	edges, err := BuildGraph(n, rng)
	if err != nil {
		t.Fatalf("BuildGraph(%d, ...) error: %v", n, err)
	}
	seen := make(map[Edge]bool)
	for _, e := range edges {
		if e.A == e.B {
			t.Errorf("self-loop edge %v", e)
		}
		if seen[e] {
			t.Errorf("duplicate edge %v", e)
		}
		seen[e] = true
	}
}

func TestAssignRolesFractionSizes(t *testing.T) {
	rng := simrand.New(3)
	const n = 100
	slowNet, slowCPU := AssignRoles(n, 0.7, 0.8, rng)

	countTrue := func(flags []bool) int {
		c := 0
		for _, f := range flags {
			if f {
				c++
			}
		}
		return c
	}

	if got, want := countTrue(slowNet), 70; got != want {
		t.Errorf("slowNet count = %d, want %d", got, want)
	}
	if got, want := countTrue(slowCPU), 80; got != want {
		t.Errorf("slowCPU count = %d, want %d", got, want)
	}
}

func TestAssignRolesZeroFraction(t *testing.T) {
	rng := simrand.New(3)
	slowNet, _ := AssignRoles(10, 0, 0, rng)
	for i, f := range slowNet {
		if f {
			t.Errorf("slowNet[%d] = true, want false when z0=0", i)
		}
	}
}

func TestHashShareSlowVsFast(t *testing.T) {
	const n = 20
	const z1 = 0.8
	slow := HashShare(true, z1, n)
	fast := HashShare(false, z1, n)
	if fast != 10*slow {
		t.Errorf("HashShare(fast) = %v, want 10x HashShare(slow) = %v", fast, 10*slow)
	}
}

func TestIsConnectedDetectsDisconnection(t *testing.T) {
	edges := []Edge{{A: 0, B: 1}}
	if isConnected(3, edges) {
		t.Error("isConnected reported a connected graph that isn't")
	}
}

func TestBuildGraphDegreeBounds(t *testing.T) {
	rng := simrand.New(9)
	const n = 10
	edges, err := BuildGraph(n, rng)
	if err != nil {
		t.Fatalf("BuildGraph(%d, ...) error: %v", n, err)
	}
	degree := make(map[chain.PeerID]int)
	for _, e := range edges {
		degree[e.A]++
		degree[e.B]++
	}
	for p, d := range degree {
		if d < 1 || d > n-1 {
			t.Errorf("peer %d has degree %d, out of plausible range", p, d)
		}
	}
}
