package globals

import (
	"context"
	"os"
)

var (
	// tokenSigningAlgo = jwt.SigningMethodHS256
	JwtSecret = []byte(secretFromEnv())
)

func secretFromEnv() string {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return s
	}
	return "your_secret_key" // Replace with a secure secret key
}

// Context keys
type ContextKey string

const RoleKey ContextKey = "role"
const UserIDKey ContextKey = "userId"

var Ctx = context.Background()
