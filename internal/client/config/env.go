package config

import "os"

// parseEnv overlays credential-bearing settings from the environment,
// so secrets can stay out of config files and shell history.
//
// Recognized variables:
//
//	BEYONDPAD_RELAY_API_KEY
//	BEYONDPAD_STORAGE_TOKEN
//	BEYONDPAD_S3_ACCESS_KEY
//	BEYONDPAD_S3_SECRET_KEY
//	BEYONDPAD_REGISTRY_ADDRESS
func parseEnv(cfg *Config) {
	overlayString(&cfg.RelayAPIKey, os.Getenv("BEYONDPAD_RELAY_API_KEY"))
	overlayString(&cfg.StorageToken, os.Getenv("BEYONDPAD_STORAGE_TOKEN"))
	overlayString(&cfg.S3AccessKey, os.Getenv("BEYONDPAD_S3_ACCESS_KEY"))
	overlayString(&cfg.S3SecretKey, os.Getenv("BEYONDPAD_S3_SECRET_KEY"))
	overlayString(&cfg.RegistryAddress, os.Getenv("BEYONDPAD_REGISTRY_ADDRESS"))
}
