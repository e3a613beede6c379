// Package config defines configuration structures for the airgap CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (AIRGAP_ prefix, resolved by the flag layer)
//   - YAML configuration file
//
// # Structure
//
//	type Config struct {
//	    Catalog     string
//	    Out         string
//	    SchemasDir  string
//	    Source      string
//	    Concurrency int
//	    Progress    bool
//	    Retry       RetryConfig
//	}
//
//	type RetryConfig struct {
//	    Attempts   int
//	    Backoff    time.Duration
//	    MaxBackoff time.Duration
//	}
package config
