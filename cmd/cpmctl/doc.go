// Command cpmctl runs the client project manager, a small REST API for
// recording clients and the projects carried out for them.
//
// # Quick Start
//
//	# Generate a token signing key
//	export CPM_SIGNING_KEY=$(head -c 32 /dev/urandom | base64)
//	export DATABASE_URL=postgres://postgres@localhost/cpm?sslmode=disable
//
//	# Run database migrations
//	cpmctl db migrate
//
//	# Create a user who can log in
//	cpmctl user create alice
//
//	# Start the server
//	cpmctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - CPM_SIGNING_KEY: Base64-encoded HMAC key of at least 32 bytes
//   - CPM_CONFIG_PATH: directory holding cpm.yml (default /etc/cpm)
//   - CPM_LOG_LEVEL: Log level (debug, info, warn, error)
//   - AUDIT_DATABASE_URL: optional database for persisted audit events
//   - PORT: Server port (default: 8000)
//   - BIND_ADDRESS: Server bind address (default: 0.0.0.0)
package main
