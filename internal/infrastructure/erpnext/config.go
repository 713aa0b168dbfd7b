package erpnext

import (
	"errors"
	"fmt"
	"net/url"
)

// Config holds the connection settings for an ERPNext site
type Config struct {
	// BaseURL is the site root, e.g. "https://erp.example.com"
	BaseURL string
	// APIKey and APISecret form the token pair of an API-enabled user
	APIKey    string
	APISecret string
	// TimeoutSeconds bounds every request to the ERP
	TimeoutSeconds int
}

// Validate checks that the configuration is complete
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("erpnext: base URL is required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("erpnext: invalid base URL: %w", err)
	}
	if c.APIKey == "" || c.APISecret == "" {
		return errors.New("erpnext: API key and secret are required")
	}
	if c.TimeoutSeconds <= 0 {
		return errors.New("erpnext: timeout must be positive")
	}
	return nil
}
