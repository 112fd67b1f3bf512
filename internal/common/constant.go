package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the only accepted authorization scheme.
const BearerScheme = "Bearer"

// TokenType is reported to clients alongside the issued access token.
const TokenType = "bearer"

// RequestIDHeaderName echoes the per-request id assigned by the access log.
const RequestIDHeaderName = "X-Request-ID"
