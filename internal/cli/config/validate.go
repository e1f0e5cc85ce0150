package config

import "fmt"

// Validate checks the loaded configuration for consistency.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	return nil
}
