package config

type SecurityLevel int

const (
	SecurityPublic  SecurityLevel = iota // No authentication
	SecuritySession                      // Valid session token and a known profile
)

// RouteSecurityConfig maps route names to their required security level
var RouteSecurityConfig = map[string]SecurityLevel{
	"health": SecurityPublic,

	"approve-request": SecuritySession,
	"reject-request":  SecuritySession,
	"list-requests":   SecuritySession,
	"get-outcome":     SecuritySession,
}

// GetSecurityLevel returns the security level for a named route
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := RouteSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown routes
	return SecuritySession
}
