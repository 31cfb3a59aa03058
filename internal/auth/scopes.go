package auth

// Scopes granted to member tokens.
const (
	ScopeAppRead  = "app:read"
	ScopeAppWrite = "app:write"
)

// MemberScopes is the scope set issued on login and signup.
var MemberScopes = []string{ScopeAppRead, ScopeAppWrite}
