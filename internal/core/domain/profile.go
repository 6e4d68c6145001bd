package domain

// TokenCacheBackend selects where tokens are persisted between runs.
type TokenCacheBackend string

// Supported token cache backends.
const (
	TokenCacheNone   TokenCacheBackend = "none"
	TokenCacheSQLite TokenCacheBackend = "sqlite"
	TokenCacheRedis  TokenCacheBackend = "redis"
)

// IsValid returns true if the backend is recognised.
func (b TokenCacheBackend) IsValid() bool {
	switch b {
	case TokenCacheNone, TokenCacheSQLite, TokenCacheRedis, "":
		return true
	default:
		return false
	}
}

// Profile is the persisted client configuration.
// Secrets are never stored in a profile.
type Profile struct {
	BaseURL     string
	SSLVerify   bool
	Proxy       Proxy
	Timeout     Timeout
	UserAgent   string
	RenewWindow int
	ClientID    string
	MemberCID   string
	TokenCache  TokenCacheBackend
	RedisURL    string
	Debug       bool
}

// DefaultProfile returns the profile used when nothing is configured.
func DefaultProfile() Profile {
	return Profile{
		BaseURL:     DefaultBaseURL,
		SSLVerify:   true,
		RenewWindow: int(DefaultRenewWindow.Seconds()),
		TokenCache:  TokenCacheSQLite,
	}
}
