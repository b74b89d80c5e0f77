package auth

import "github.com/golang-jwt/jwt/v5"

// Authenticator validates tokens minted by the external identity
// provider. Sessions and user records live with that provider; this
// service only needs the authenticated user id.
type Authenticator interface {
	ValidateToken(token string) (*jwt.Token, error)
}
