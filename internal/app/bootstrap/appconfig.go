// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS, log
// level, CORS). AppConfig is everything specific to FieldHub: the Mongo
// connection, the session cookie the identity provider writes, invitation
// issuance, and operation timeouts.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session cookie written by the external identity provider. FieldHub
	// only reads it; see internal/app/system/auth.
	SessionKey    string
	SessionName   string
	SessionDomain string

	// Invitation issuance
	InvitationTTL time.Duration

	// SuperAdmin bootstrap: promotes or creates this account on startup.
	SuperAdminEmail string

	// Operation timeout overrides (zero keeps the defaults).
	TimeoutShort time.Duration
	TimeoutLong  time.Duration
	TimeoutBatch time.Duration
}
