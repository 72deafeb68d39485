package auth

import "folio/internal/domain/models"

// JWTVerifier validates admin JWT tokens and extracts their claims.
type JWTVerifier interface {
	VerifyToken(tokenString string) (*models.SupabaseClaims, error)
	Close() error
}
