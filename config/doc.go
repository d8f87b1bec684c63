// Package config loads streamtap settings from defaults, files and the
// environment.
//
//	cfg, err := config.Load("streamtap.yaml")  // .yaml, .yml, .toml or .json
//	cfg.LoadFromEnv()                          // STREAMTAP_* overrides
//
// Schema returns a JSON schema for config files, and Watch reloads a file
// whenever it changes.
package config
