package wizard

import "time"

// Config represents the configuration for the registration sync client
type Config struct {
	// BaseURL is the onboarding API base URL, e.g. https://api.rapex.ph/api/v1
	BaseURL string

	// Timeout bounds each HTTP round-trip. Zero means the default.
	Timeout time.Duration
}

const defaultTimeout = 30 * time.Second

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrInvalidConfig
	}
	return nil
}
