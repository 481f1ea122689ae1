// Package config loads runtime configuration for the BeyondPad CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables (see parseEnv) for credential material.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-k string   keystore path
//	-r string   registry contract address
//	-n string   node RPC endpoint
//	-i int      chain id
//	-l string   relay endpoint
//	-s string   storage backend (http|s3)
//	-t int      storage fetch timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for timeouts, so values can be either
// strings like "10s" or integer nanoseconds:
//
//	{
//	  "keystore_path": "wallet.json",
//	  "registry_address": "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
//	  "rpc_endpoint": "http://127.0.0.1:8545",
//	  "chain_id": 11155111,
//	  "relay_endpoint": "https://relay.beyondpad.io",
//	  "storage_backend": "http",
//	  "fetch_timeout": "10s"
//	}
//
// Primary API
//
//   - type Config                     — all runtime settings for the client
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, env, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Secrets (relay API key, storage token, S3 credentials) are normally
// supplied through BEYONDPAD_* environment variables so they stay out of
// config files; see parseEnv for the full list.
package config
