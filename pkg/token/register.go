package token

import "sync"

// registerMu guards the dynamic token tables. Registration typically
// happens at init() time, but dialects may also be built lazily from
// multiple goroutines, and String() reads the table on every dynamic
// token, so all access goes through the lock.
var registerMu sync.RWMutex

// nextTokenID tracks the next available dynamic token ID.
// Dynamic tokens start after maxBuiltin (999).
var nextTokenID = maxBuiltin

// dynamicTokens maps registered dynamic tokens to their names.
var dynamicTokens = make(map[TokenType]string)

// dynamicKeywords maps registered dynamic keyword names to their token types.
var dynamicKeywords = make(map[string]TokenType)

// Register registers a new dynamic token with the given name and returns
// its type. This is used by dialects to register dialect-specific keywords
// like QUALIFY, ILIKE, etc.
//
// Registering a name that already exists returns the existing token type,
// so two dialects claiming the same keyword share one ID. Safe for
// concurrent use.
func Register(name string) TokenType {
	registerMu.Lock()
	defer registerMu.Unlock()

	if t, ok := dynamicKeywords[name]; ok {
		return t
	}

	nextTokenID++
	t := nextTokenID
	dynamicTokens[t] = name
	dynamicKeywords[name] = t
	return t
}

// getDynamicName returns the name of a dynamic token.
func getDynamicName(t TokenType) (string, bool) {
	registerMu.RLock()
	defer registerMu.RUnlock()
	name, ok := dynamicTokens[t]
	return name, ok
}

// LookupDynamicKeyword returns the token type for a dynamic keyword.
// Returns IDENT and false if the keyword is not registered.
func LookupDynamicKeyword(name string) (TokenType, bool) {
	registerMu.RLock()
	defer registerMu.RUnlock()
	if tok, ok := dynamicKeywords[name]; ok {
		return tok, true
	}
	return IDENT, false
}

// IsDynamic returns true if the token type is a dynamically registered token.
func IsDynamic(t TokenType) bool {
	return t > maxBuiltin
}

// RegisteredTokens returns a copy of all registered dynamic tokens.
func RegisteredTokens() map[TokenType]string {
	registerMu.RLock()
	defer registerMu.RUnlock()
	result := make(map[TokenType]string, len(dynamicTokens))
	for k, v := range dynamicTokens {
		result[k] = v
	}
	return result
}
