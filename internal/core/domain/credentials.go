package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// AuthStyle records how an interface obtained its authentication material.
type AuthStyle string

const (
	// AuthStyleCredentials means a client id and secret were supplied directly.
	AuthStyleCredentials AuthStyle = "CREDENTIALS"
	// AuthStyleToken means only a raw bearer token was supplied.
	AuthStyleToken AuthStyle = "TOKEN"
	// AuthStyleEnvironment means credentials were resolved from environment variables.
	AuthStyleEnvironment AuthStyle = "ENVIRONMENT"
	// AuthStyleObject means a service class shares another interface's auth state.
	AuthStyleObject AuthStyle = "OBJECT"
)

// Credentials identify an API client. Values are never mutated in place;
// derive a new value with WithMemberCID instead.
type Credentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	// MemberCID targets a child tenant in a Flight Control (MSSP) hierarchy.
	MemberCID string `json:"member_cid,omitempty"`
}

// Valid reports whether both the client id and secret are present.
func (c Credentials) Valid() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// WithMemberCID returns a copy of the credentials targeting memberCID.
func (c Credentials) WithMemberCID(memberCID string) Credentials {
	c.MemberCID = memberCID
	return c
}

// CacheKey identifies the token minted for these credentials. The key is
// a digest of the id and secret, so a rotated secret never matches a
// token cached under the old one.
func (c Credentials) CacheKey() string {
	sum := sha256.Sum256([]byte(c.ClientID + ":" + c.ClientSecret))
	key := hex.EncodeToString(sum[:])
	if c.MemberCID == "" {
		return key
	}
	return key + ":" + c.MemberCID
}

// FormValues returns the token request form fields.
func (c Credentials) FormValues() map[string]string {
	form := map[string]string{
		"client_id":     c.ClientID,
		"client_secret": c.ClientSecret,
	}
	if c.MemberCID != "" {
		form["member_cid"] = c.MemberCID
	}
	return form
}
