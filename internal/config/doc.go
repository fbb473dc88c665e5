// Package config loads and validates configuration for the FlashForge
// server and studio from defaults, an optional YAML file and environment
// variables prefixed with FLASHFORGE_.
package config
