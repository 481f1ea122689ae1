package config

import "time"

// Backend selects the storage implementation.
const (
	BackendHTTP = "http"
	BackendS3   = "s3"
)

// Config holds runtime settings for the BeyondPad CLI.
//
// Registry, relay and storage credentials are external collaborators:
// they are loaded once at process start and immutable afterwards.
type Config struct {
	// KeystorePath locates the encrypted wallet keyfile.
	KeystorePath string

	// RegistryAddress is the note registry contract (hex address).
	RegistryAddress string
	// RPCEndpoint is the node used for registry view calls.
	RPCEndpoint string
	// ChainID selects the network the relay submits to.
	ChainID int64

	// RelayEndpoint and RelayAPIKey configure the sponsored relay.
	RelayEndpoint string
	RelayAPIKey   string

	// StorageBackend is BackendHTTP or BackendS3.
	StorageBackend string
	// HTTP backend settings.
	StorageAPIURL     string
	StorageGatewayURL string
	StorageToken      string
	// S3 backend settings.
	S3Bucket    string
	S3Region    string
	S3AccessKey string
	S3SecretKey string

	// FetchTimeout bounds a single storage read.
	FetchTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.KeystorePath = "wallet.json"
	c.RPCEndpoint = "http://127.0.0.1:8545"
	c.ChainID = 11155111
	c.RelayEndpoint = "https://relay.beyondpad.io"
	c.StorageBackend = BackendHTTP
	c.StorageAPIURL = "http://127.0.0.1:5001"
	c.StorageGatewayURL = "http://127.0.0.1:8080"
	c.S3Region = "us-east-1"
	c.FetchTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays
// values from JSON (if present), the environment, and command-line
// flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
