package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeout_IsZero(t *testing.T) {
	assert.True(t, Timeout{}.IsZero())
	assert.False(t, Timeout{Total: time.Second}.IsZero())
	assert.False(t, Timeout{Read: time.Second}.IsZero())
}

func TestTimeout_String(t *testing.T) {
	assert.Equal(t, "30s/0s/0s", Timeout{Total: 30 * time.Second}.String())
	assert.Equal(t, "0s/5s/1m30s", Timeout{Connect: 5 * time.Second, Read: 90 * time.Second}.String())
}

func TestSettings_Connection(t *testing.T) {
	s := Settings{
		BaseURL:     "https://api.eu-1.crowdstrike.com",
		SSLVerify:   true,
		Proxy:       Proxy{"https": "http://proxy:3128"},
		Timeout:     Timeout{Total: time.Minute},
		UserAgent:   "soar/1.0",
		RenewWindow: MaxRenewWindow,
	}

	assert.Equal(t, Connection{
		SSLVerify: true,
		Proxy:     Proxy{"https": "http://proxy:3128"},
		Timeout:   Timeout{Total: time.Minute},
		UserAgent: "soar/1.0",
	}, s.Connection())
}

func TestConnection_EffectiveUserAgent(t *testing.T) {
	assert.Equal(t, DefaultUserAgent, Connection{}.EffectiveUserAgent())
	assert.Equal(t, "soar/1.0", Connection{UserAgent: "soar/1.0"}.EffectiveUserAgent())
}

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()
	assert.Equal(t, DefaultBaseURL, p.BaseURL)
	assert.True(t, p.SSLVerify)
	assert.Equal(t, 120, p.RenewWindow)
	assert.Equal(t, TokenCacheSQLite, p.TokenCache)
}

func TestTokenCacheBackend_IsValid(t *testing.T) {
	tests := []struct {
		backend TokenCacheBackend
		want    bool
	}{
		{TokenCacheNone, true},
		{TokenCacheSQLite, true},
		{TokenCacheRedis, true},
		{"", true},
		{"memcached", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.backend.IsValid())
		})
	}
}
