package constants

// Application Information
const (
	AppName    = "Postline API"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Default Application Settings
const (
	DefaultPort        = "8080"
	DefaultEnvironment = EnvDevelopment
)

// Cache Key Prefixes
const (
	CacheKeyPrefix = "postline:"
	CacheKeyFeed   = CacheKeyPrefix + "feed:"
)

// Bearer authorization scheme expected by the auth gate.
const BearerScheme = "Bearer"
