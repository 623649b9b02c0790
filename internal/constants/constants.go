package constants

const (
	// AuthTokenCookieName is the cookie carrying the JWT for browser clients.
	AuthTokenCookieName = "auth_token"
)
