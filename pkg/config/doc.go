// Package config provides configuration management for the API server.
//
// Configuration is loaded from defaults, then an optional YAML file, then
// environment variables. Each attribute remembers which source set it so
// `cpmctl configuration show` can explain the effective value.
//
// # Key Configuration Options
//
//   - CPM_CONFIG_PATH: Directory holding cpm.yml (default /etc/cpm)
//   - CPM_TOKEN_TTL: Bearer token lifetime in seconds
//   - CPM_TOKEN_ISSUER: Bearer token issuer
//   - CPM_API_LIST_LIMIT_MAX: Largest page returned by list endpoints
//   - CPM_LOGIN_RATE_LIMIT: Login attempts per minute per client IP
//   - CPM_TRUSTED_PROXIES: Comma-separated CIDRs allowed to set X-Forwarded-For
//   - CPM_AUDIT_ENABLED: Emit audit events
package config
