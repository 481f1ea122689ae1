package config

import (
	"flag"
	"os"
	"time"

	"github.com/R3yz0n/beyond-pad/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-k string   keystore path
//	-r string   registry contract address
//	-n string   node RPC endpoint
//	-i int      chain id
//	-l string   relay endpoint
//	-s string   storage backend (http|s3)
//	-t int      storage fetch timeout, seconds
//
// The function filters os.Args to only the flags it knows about, using
// flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-k", "-r", "-n", "-i", "-l", "-s", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.KeystorePath, "k", cfg.KeystorePath, "keystore path")
	fs.StringVar(&cfg.RegistryAddress, "r", cfg.RegistryAddress, "registry contract address")
	fs.StringVar(&cfg.RPCEndpoint, "n", cfg.RPCEndpoint, "node RPC endpoint")
	chainID := fs.Int64("i", cfg.ChainID, "chain id")
	fs.StringVar(&cfg.RelayEndpoint, "l", cfg.RelayEndpoint, "relay endpoint")
	fs.StringVar(&cfg.StorageBackend, "s", cfg.StorageBackend, "storage backend (http|s3)")
	fetchTimeout := fs.Int("t", int(cfg.FetchTimeout.Seconds()), "storage fetch timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.ChainID = *chainID
	cfg.FetchTimeout = time.Duration(*fetchTimeout) * time.Second
}
