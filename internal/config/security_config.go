package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
)

// EndpointSecurityConfig maps "METHOD /route/template" to its required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	"GET /health": SecurityPublic,

	"POST /api/v1/books/{bookId}/borrow":   SecurityAccess,
	"POST /api/v1/books/{bookId}/return":   SecurityAccess,
	"POST /api/v1/books/{bookId}/renew":    SecurityAccess,
	"POST /api/v1/books/{bookId}/reserve":  SecurityAccess,
	"GET /api/v1/books/{bookId}/borrowers": SecurityAccess,

	"DELETE /api/v1/reservations/{reservationId}":     SecurityAccess,
	"POST /api/v1/reservations/{reservationId}/pickup": SecurityAccess,

	"GET /api/v1/me/loans":        SecurityAccess,
	"GET /api/v1/me/reservations": SecurityAccess,
	"GET /api/v1/me/history":      SecurityAccess,
}

// GetSecurityLevel returns the security level for a given route
func GetSecurityLevel(method, pathTemplate string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[method+" "+pathTemplate]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAccess
}
