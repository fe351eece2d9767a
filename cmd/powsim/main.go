// Command powsim runs a single simulated proof-of-work peer-to-peer network
// and prints the mean longest-chain contribution for each (slow-cpu,
// slow-net) bucket; per-peer figures are logged at debug level only. It
// requires no flags: every tunable in internal/config has a documented
// default.
package main

import (
	"fmt"
	"os"

	"github.com/daglabs/powsim/internal/config"
	"github.com/daglabs/powsim/internal/logger"
	"github.com/daglabs/powsim/internal/report"
	"github.com/daglabs/powsim/internal/simulation"
)

var log = logger.Get(logger.SubsystemDriver)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "powsim:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		return err
	}

	const maxLogFileBytes = 10 * 1024 * 1024
	const maxLogRolls = 3
	if err := logger.InitLogRotator(cfg.LogFile, maxLogFileBytes, maxLogRolls); err != nil {
		return err
	}

	sim, err := simulation.New(cfg)
	if err != nil {
		return err
	}
	sim.Run()

	r := report.Build(sim.Peers)
	printSummary(r)
	return nil
}

func printSummary(r *report.Report) {
	fmt.Println("bucket (slowCPU, slowNet) -> mean longest-chain contribution %")
	for b, mean := range r.Aggregates {
		fmt.Printf("  slowCPU=%-5v slowNet=%-5v: %.2f%%\n", b.SlowCPU, b.SlowNet, mean)
	}
	for _, p := range r.Peers {
		log.Debugf("peer %d generated=%d inLongestChain=%d contribution=%.2f%%",
			p.ID, p.NumGeneratedBlocks, p.BlocksInLongestChain, p.LongestChainContribution)
	}
}
