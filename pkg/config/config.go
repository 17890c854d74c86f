// Package config holds the engine's fixed capacities and flash geometry.
// Everything is decided at construction: the store never grows, and the
// flash region never moves.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrInvalidConfig is returned when a configuration fails validation
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config describes a store instance and the flash region backing it.
type Config struct {
	// IndexCapacity is the maximum number of distinct keys (N)
	IndexCapacity int `json:"index_capacity"`
	// MaxKeySize is the largest encoded key in bytes
	MaxKeySize int `json:"max_key_size"`
	// MaxValueSize is the largest encoded value blob in bytes (B)
	MaxValueSize int `json:"max_value_size"`
	// CacheCapacity is the hot-cache entry count (CACH), at most IndexCapacity
	CacheCapacity int `json:"cache_capacity"`
	// MaxImageSize bounds the staged flash image in bytes
	MaxImageSize int `json:"max_image_size"`

	// Flash geometry
	FlashPageSize   int    `json:"flash_page_size"`
	FlashWordSize   int    `json:"flash_word_size"`
	FlashRegionSize int    `json:"flash_region_size"`
	FlashBaseOffset uint32 `json:"flash_base_offset"`
}

// NewDefaultConfig creates a Config with recommended default values:
// a 128-entry store cached 8 hot entries deep, persisted to a 64KB region
// of 4KB pages.
func NewDefaultConfig() *Config {
	return &Config{
		IndexCapacity: 128,
		MaxKeySize:    64,
		MaxValueSize:  256,
		CacheCapacity: 8,
		MaxImageSize:  8192,

		FlashPageSize:   4096,
		FlashWordSize:   4,
		FlashRegionSize: 64 * 1024,
		FlashBaseOffset: 0,
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.IndexCapacity <= 0 {
		return fmt.Errorf("%w: index capacity must be positive", ErrInvalidConfig)
	}
	if c.MaxKeySize <= 0 {
		return fmt.Errorf("%w: max key size must be positive", ErrInvalidConfig)
	}
	if c.MaxValueSize <= 0 {
		return fmt.Errorf("%w: max value size must be positive", ErrInvalidConfig)
	}
	if c.CacheCapacity <= 0 {
		return fmt.Errorf("%w: cache capacity must be positive", ErrInvalidConfig)
	}
	if c.CacheCapacity > c.IndexCapacity {
		return fmt.Errorf("%w: cache capacity %d exceeds index capacity %d",
			ErrInvalidConfig, c.CacheCapacity, c.IndexCapacity)
	}
	if c.MaxImageSize <= 0 {
		return fmt.Errorf("%w: max image size must be positive", ErrInvalidConfig)
	}
	if c.FlashWordSize <= 0 {
		return fmt.Errorf("%w: flash word size must be positive", ErrInvalidConfig)
	}
	if c.FlashPageSize <= 0 || c.FlashPageSize%c.FlashWordSize != 0 {
		return fmt.Errorf("%w: flash page size must be a positive word multiple", ErrInvalidConfig)
	}
	if c.FlashRegionSize <= 0 || c.FlashRegionSize%c.FlashPageSize != 0 {
		return fmt.Errorf("%w: flash region size must be a positive page multiple", ErrInvalidConfig)
	}
	if c.FlashBaseOffset%uint32(c.FlashPageSize) != 0 {
		return fmt.Errorf("%w: flash base offset must be page aligned", ErrInvalidConfig)
	}
	if int(c.FlashBaseOffset) >= c.FlashRegionSize {
		return fmt.Errorf("%w: flash base offset %d outside region of %d bytes",
			ErrInvalidConfig, c.FlashBaseOffset, c.FlashRegionSize)
	}
	return nil
}

// LoadConfigFromFile reads a JSON configuration file.
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := NewDefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfigToFile writes the configuration as JSON.
func (c *Config) SaveConfigToFile(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
