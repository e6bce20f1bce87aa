package common

// AuthorizationHeaderName carries the bearer access token on requests to
// protected endpoints.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token in the Authorization header value.
const BearerPrefix = "Bearer "
