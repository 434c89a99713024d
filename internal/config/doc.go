// Package config provides configuration loading and validation for the Tingwu
// transcription CLI. It handles YAML-based configuration with struct
// validation; credentials are deliberately excluded from the file and read
// from the environment instead.
package config
