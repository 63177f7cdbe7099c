package ratelimit

import (
	"fmt"
	"strings"
)

// KeyForLogin builds the limiter key for login attempts from one client address.
func KeyForLogin(clientIP string) string {
	clientIP = strings.TrimSpace(clientIP)
	if clientIP == "" {
		return ""
	}
	return "login:" + clientIP
}

// KeyForUser builds the limiter key for an authenticated user's requests.
func KeyForUser(userID uint64) string {
	if userID == 0 {
		return ""
	}
	return fmt.Sprintf("u:%d", userID)
}

// KeyFor builds a key for scope from the identifying value.
func KeyFor(scope Scope, clientIP string, userID uint64) string {
	switch scope {
	case ScopeLogin:
		return KeyForLogin(clientIP)
	case ScopeUser:
		return KeyForUser(userID)
	default:
		return ""
	}
}
