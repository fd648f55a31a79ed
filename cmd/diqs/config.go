package main

import "fmt"

// ServerConfig bundles the serve subcommand's knobs, following the same
// NewXxxParameters-with-defaults-plus-Validate shape as
// jpeg2000/lossy.JPEG2000LossyParameters.
type ServerConfig struct {
	Host   string
	Port   int
	DbPath string
}

// NewServerConfig returns a ServerConfig with spec.md's defaults:
// 127.0.0.1:9548.
func NewServerConfig(dbPath string) ServerConfig {
	return ServerConfig{
		Host:   "127.0.0.1",
		Port:   9548,
		DbPath: dbPath,
	}
}

// Validate reports whether cfg is usable.
func (cfg ServerConfig) Validate() error {
	if cfg.Host == "" {
		return fmt.Errorf("diqs: host must not be empty")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("diqs: port %d out of range", cfg.Port)
	}
	if cfg.DbPath == "" {
		return fmt.Errorf("diqs: db path must not be empty")
	}
	return nil
}

// Addr returns the host:port string net.Listen expects.
func (cfg ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}
