// Package config parses the simulator's tunables using
// github.com/jessevdk/go-flags, the same pattern mining/simulator/config.go
// uses. Every option is optional with a sensible default.
package config

import (
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

// Config holds every simulator tunable. None are `required`: the
// simulator's CLI surface runs with defaults and no flags.
type Config struct {
	NumberOfPeers      int     `long:"peers" description:"number of peers in the overlay" default:"20"`
	Z0                 float64 `long:"z0" description:"fraction of peers that are slow-net" default:"0.7"`
	Z1                 float64 `long:"z1" description:"fraction of peers that are slow-cpu" default:"0.8"`
	AvgTxnIntervalTime float64 `long:"avg-txn-interval" description:"average ms between transaction creations" default:"10000"`
	AvgBlockMiningTime float64 `long:"avg-block-mining-time" description:"average ms to mine a block at hash share 1.0" default:"1000000"`
	TargetNumBlocks    int     `long:"target-blocks" description:"number of broadcast blocks after which the simulation stops" default:"300"`
	TxnPerBlock        int     `long:"txn-per-block" description:"nominal number of transactions per block" default:"100"`
	TotalNumTransactions int   `long:"total-txns" description:"number of TXN_CREATE events seeded at start-up" default:"60000"`
	InitialCoins       float64 `long:"initial-coins" description:"coins every peer starts with" default:"1000"`
	SaveResults        bool    `long:"save-results" description:"persist the reporting output (handled by an out-of-scope reporter)"`
	Seed               int64   `long:"seed" description:"RNG seed; 0 selects a fixed default sequence" default:"1"`
	LogFile            string  `long:"log-file" description:"path to the rotating log file" default:"powsim.log"`
}

// BlockTxnsMinThreshold is min(50, TxnPerBlock).
func (c *Config) BlockTxnsMinThreshold() int {
	if c.TxnPerBlock < 50 {
		return c.TxnPerBlock
	}
	return 50
}

// BlockTxnsTriggerThreshold equals TxnPerBlock.
func (c *Config) BlockTxnsTriggerThreshold() int {
	return c.TxnPerBlock
}

// Parse parses args (typically os.Args[1:]) into a Config seeded with
// defaults, validating the same kind of cross-field constraints config.go
// checks for its own options.
func Parse(args []string) (*Config, error) {
	cfg := &Config{}
	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the Config obtained from parsing no arguments: every field
// at its default value.
func Default() *Config {
	cfg, err := Parse(nil)
	if err != nil {
		panic(errors.Wrap(err, "default configuration failed to parse"))
	}
	return cfg
}

func (c *Config) validate() error {
	if c.NumberOfPeers <= 0 {
		return errors.New("peers must be positive")
	}
	if c.Z0 < 0 || c.Z0 > 1 || c.Z1 < 0 || c.Z1 > 1 {
		return errors.New("z0 and z1 must be in [0, 1]")
	}
	if c.TxnPerBlock <= 0 {
		return errors.New("txn-per-block must be positive")
	}
	return nil
}
