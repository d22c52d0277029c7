// Package config loads pulsar's TOML configuration.
//
// # Overview
//
// The config tells pulsar where the WhatPulse client API listens and how the
// monitor polls and logs. Every field is optional; pulsar runs against a
// default WhatPulse install without any file present.
//
// # Configuration Discovery
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/pulsar/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing, empty or zero, use defaults
//
// # TOML Format
//
//	host = "localhost"
//	port = 3490
//	scheme = "http"
//	poll_interval = 2     # seconds
//	request_timeout = 5   # seconds
//	log_file = "~/.local/state/pulsar/pulsar.log"
//	log_level = "info"
//
// String values are trimmed and log_file is tilde-expanded. A port outside
// 0..65535 is a parse error; host and scheme are validated later by
// whatpulse.NewClient.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, TOML syntax errors and out-of-range ports. A missing file
// is not an error.
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//		return fmt.Errorf("load config: %w", err)
//	}
//	client, err := whatpulse.NewClient(cfg.ClientOptions()...)
package config
