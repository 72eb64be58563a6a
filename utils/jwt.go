package utils

import (
	"log"
	"os"
)

var JWTSecretKey string

// InitJWT loads the shared HMAC secret used to verify bearer tokens.
// Tokens are issued by the identity service, not here.
func InitJWT() {
	if os.Getenv("GO_ENV") == "test" && os.Getenv("JWT_SECRET_KEY") == "" {
		os.Setenv("JWT_SECRET_KEY", "test_secret_key")
	}

	JWTSecretKey = os.Getenv("JWT_SECRET_KEY")
	if JWTSecretKey == "" {
		log.Fatal("JWT Secret Key not set")
	}
}
