package config

import (
	"encoding/json"
	"os"

	"github.com/R3yz0n/beyond-pad/internal/flagx"
	"github.com/R3yz0n/beyond-pad/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// may be given either as strings like "10s" or integer nanoseconds.
// Empty fields leave the current value untouched.
type JsonConfig struct {
	KeystorePath      string         `json:"keystore_path"`
	RegistryAddress   string         `json:"registry_address"`
	RPCEndpoint       string         `json:"rpc_endpoint"`
	ChainID           int64          `json:"chain_id"`
	RelayEndpoint     string         `json:"relay_endpoint"`
	RelayAPIKey       string         `json:"relay_api_key"`
	StorageBackend    string         `json:"storage_backend"`
	StorageAPIURL     string         `json:"storage_api_url"`
	StorageGatewayURL string         `json:"storage_gateway_url"`
	StorageToken      string         `json:"storage_token"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3AccessKey       string         `json:"s3_access_key"`
	S3SecretKey       string         `json:"s3_secret_key"`
	FetchTimeout      timex.Duration `json:"fetch_timeout"`
}

// parseJson overlays cfg with values loaded from the JSON file named by
// the -c/-config flags. With no such flag the function is a no-op; read
// or parse failures panic, as a broken explicit config should not be
// silently ignored.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlayString(&cfg.KeystorePath, jc.KeystorePath)
	overlayString(&cfg.RegistryAddress, jc.RegistryAddress)
	overlayString(&cfg.RPCEndpoint, jc.RPCEndpoint)
	if jc.ChainID != 0 {
		cfg.ChainID = jc.ChainID
	}
	overlayString(&cfg.RelayEndpoint, jc.RelayEndpoint)
	overlayString(&cfg.RelayAPIKey, jc.RelayAPIKey)
	overlayString(&cfg.StorageBackend, jc.StorageBackend)
	overlayString(&cfg.StorageAPIURL, jc.StorageAPIURL)
	overlayString(&cfg.StorageGatewayURL, jc.StorageGatewayURL)
	overlayString(&cfg.StorageToken, jc.StorageToken)
	overlayString(&cfg.S3Bucket, jc.S3Bucket)
	overlayString(&cfg.S3Region, jc.S3Region)
	overlayString(&cfg.S3AccessKey, jc.S3AccessKey)
	overlayString(&cfg.S3SecretKey, jc.S3SecretKey)
	if jc.FetchTimeout.Duration != 0 {
		cfg.FetchTimeout = jc.FetchTimeout.Duration
	}
}

func overlayString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
