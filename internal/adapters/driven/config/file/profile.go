package file

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
	"github.com/custodia-labs/falcon-go/internal/core/ports/driven"
)

// Profile keys.
const (
	KeyBaseURL        = "falcon.base_url"
	KeyClientID       = "falcon.client_id"
	KeyMemberCID      = "falcon.member_cid"
	KeySSLVerify      = "falcon.ssl_verify"
	KeyUserAgent      = "falcon.user_agent"
	KeyRenewWindow    = "falcon.renew_window"
	KeyProxy          = "falcon.proxy"
	KeyTimeoutTotal   = "falcon.timeout.total"
	KeyTimeoutConnect = "falcon.timeout.connect"
	KeyTimeoutRead    = "falcon.timeout.read"
	KeyDebug          = "falcon.debug"
	KeyCacheBackend   = "cache.backend"
	KeyCacheRedisURL  = "cache.redis_url"
)

// profileRules mirrors domain.Profile with validation tags.
type profileRules struct {
	BaseURL        string            `validate:"omitempty,baseurl"`
	ClientID       string            `validate:"omitempty,alphanum,max=64"`
	MemberCID      string            `validate:"omitempty,max=64"`
	RenewWindow    int               `validate:"gte=0"`
	Proxy          map[string]string `validate:"omitempty,dive,keys,oneof=http https,endkeys,url"`
	TimeoutTotal   float64           `validate:"gte=0"`
	TimeoutConnect float64           `validate:"gte=0"`
	TimeoutRead    float64           `validate:"gte=0"`
	TokenCache     string            `validate:"omitempty,oneof=none sqlite redis"`
	RedisURL       string            `validate:"required_if=TokenCache redis,omitempty,url"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// baseurl accepts a region short name or an absolute URL.
	_ = v.RegisterValidation("baseurl", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "auto" {
			return true
		}
		if _, ok := domain.ParseRegion(s); ok {
			return true
		}
		return !strings.ContainsAny(s, " \t\n")
	})
	return v
}

// ValidateProfile checks a profile before it is saved or used.
func ValidateProfile(p domain.Profile) error {
	rules := profileRules{
		BaseURL:        p.BaseURL,
		ClientID:       p.ClientID,
		MemberCID:      p.MemberCID,
		RenewWindow:    p.RenewWindow,
		Proxy:          p.Proxy,
		TimeoutTotal:   p.Timeout.Total.Seconds(),
		TimeoutConnect: p.Timeout.Connect.Seconds(),
		TimeoutRead:    p.Timeout.Read.Seconds(),
		TokenCache:     string(p.TokenCache),
		RedisURL:       p.RedisURL,
	}
	if err := validate.Struct(rules); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, ", "))
		}
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// LoadProfile reads the profile from store, filling defaults for missing
// keys, and validates it.
func LoadProfile(store driven.ConfigStore) (domain.Profile, error) {
	p := domain.DefaultProfile()

	if v := store.GetString(KeyBaseURL); v != "" {
		p.BaseURL = v
	}
	p.ClientID = store.GetString(KeyClientID)
	p.MemberCID = store.GetString(KeyMemberCID)
	if _, ok := store.Get(KeySSLVerify); ok {
		p.SSLVerify = store.GetBool(KeySSLVerify)
	}
	p.UserAgent = store.GetString(KeyUserAgent)
	if _, ok := store.Get(KeyRenewWindow); ok {
		p.RenewWindow = store.GetInt(KeyRenewWindow)
	}
	p.Proxy = store.GetStringMap(KeyProxy)
	p.Timeout = domain.Timeout{
		Total:   seconds(store, KeyTimeoutTotal),
		Connect: seconds(store, KeyTimeoutConnect),
		Read:    seconds(store, KeyTimeoutRead),
	}
	p.Debug = store.GetBool(KeyDebug)
	if v := store.GetString(KeyCacheBackend); v != "" {
		p.TokenCache = domain.TokenCacheBackend(v)
	}
	p.RedisURL = store.GetString(KeyCacheRedisURL)

	if err := ValidateProfile(p); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

// SaveProfile validates p and writes it to store.
func SaveProfile(store driven.ConfigStore, p domain.Profile) error {
	if err := ValidateProfile(p); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{KeyBaseURL, p.BaseURL},
		{KeyClientID, optional(p.ClientID)},
		{KeyMemberCID, optional(p.MemberCID)},
		{KeySSLVerify, p.SSLVerify},
		{KeyUserAgent, optional(p.UserAgent)},
		{KeyRenewWindow, int64(p.RenewWindow)},
		{KeyTimeoutTotal, optionalSeconds(p.Timeout.Total)},
		{KeyTimeoutConnect, optionalSeconds(p.Timeout.Connect)},
		{KeyTimeoutRead, optionalSeconds(p.Timeout.Read)},
		{KeyDebug, p.Debug},
		{KeyCacheBackend, optional(string(p.TokenCache))},
		{KeyCacheRedisURL, optional(p.RedisURL)},
	}
	for _, kv := range values {
		if err := store.Set(kv.key, kv.value); err != nil {
			return fmt.Errorf("setting %s: %w", kv.key, err)
		}
	}

	var proxy any
	if len(p.Proxy) > 0 {
		table := make(map[string]any, len(p.Proxy))
		for k, v := range p.Proxy {
			table[k] = v
		}
		proxy = table
	}
	if err := store.Set(KeyProxy, proxy); err != nil {
		return fmt.Errorf("setting %s: %w", KeyProxy, err)
	}

	return store.Save()
}

// optional maps "" to nil so the key is removed rather than written empty.
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func optionalSeconds(d time.Duration) any {
	if d == 0 {
		return nil
	}
	return d.Seconds()
}

func seconds(store driven.ConfigStore, key string) time.Duration {
	val, ok := store.Get(key)
	if !ok {
		return 0
	}
	switch v := val.(type) {
	case float64:
		return time.Duration(v * float64(time.Second))
	case int64:
		return time.Duration(v) * time.Second
	case int:
		return time.Duration(v) * time.Second
	default:
		return 0
	}
}
