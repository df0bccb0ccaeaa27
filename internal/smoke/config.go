// Package smoke drives a running contacts service through its whole API
// with generated data and checks every answer.
package smoke

import "time"

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Contacts   int           // Number of contacts to create
	Workers    int           // Number of concurrent workers
	Sample     int           // Contacts re-read, updated and removed after creation
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Optional JSON file receiving the created contacts
	Verbose    bool          // Log every request outcome
}

// Stats holds run statistics.
type Stats struct {
	Generated    int
	Created      int
	CreateFailed int
	Listed       int
	Verified     int
	Updated      int
	Removed      int
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
}

// withDefaults fills zero values so a partially built Config is usable.
func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Sample < 0 {
		c.Sample = 0
	}
	if c.Sample > c.Contacts {
		c.Sample = c.Contacts
	}
	return c
}
