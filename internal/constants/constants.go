package constants

const (
	// ContextKeyIdentity is the gin context key the auth middleware stores
	// the authenticated identity under.
	ContextKeyIdentity = "identity"

	// MinPasswordLength is the minimum accepted password length at signup.
	MinPasswordLength = 6

	// BearerScheme is the expected Authorization header scheme.
	BearerScheme = "Bearer"
)
