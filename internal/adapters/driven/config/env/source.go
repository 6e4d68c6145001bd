// Package env resolves API credentials and profile overrides from the
// process environment and optional dotenv files.
package env

import (
	"context"
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
	"github.com/custodia-labs/falcon-go/internal/core/ports/driven"
	"github.com/custodia-labs/falcon-go/internal/logger"
)

// Ensure Source implements the CredentialSource interface.
var _ driven.CredentialSource = (*Source)(nil)

// Default variable naming: FALCON_CLIENT_ID and FALCON_CLIENT_SECRET.
const (
	DefaultPrefix     = "FALCON_"
	DefaultIDName     = "CLIENT_ID"
	DefaultSecretName = "CLIENT_SECRET"
)

// Options customise which variables are read.
type Options struct {
	Prefix     string
	IDName     string
	SecretName string
	// DotEnvFiles are loaded before reading. Existing variables win and
	// missing files are skipped.
	DotEnvFiles []string
	// MemberCID is attached to the resolved credentials.
	MemberCID string
}

// Source reads credentials from environment variables.
type Source struct {
	v         *viper.Viper
	memberCID string
}

// New creates a source. Dotenv files are loaded immediately.
func New(opts Options) (*Source, error) {
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	if opts.IDName == "" {
		opts.IDName = DefaultIDName
	}
	if opts.SecretName == "" {
		opts.SecretName = DefaultSecretName
	}

	for _, file := range opts.DotEnvFiles {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Debug("dotenv file %s not found, skipping", file)
				continue
			}
			return nil, err
		}
		logger.Debug("loaded dotenv file %s", file)
	}

	v := viper.New()
	v.SetEnvPrefix(strings.TrimSuffix(opts.Prefix, "_"))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// The id and secret names are configurable and bound explicitly.
	_ = v.BindEnv("client_id", opts.Prefix+opts.IDName)
	_ = v.BindEnv("client_secret", opts.Prefix+opts.SecretName)

	return &Source{v: v, memberCID: opts.MemberCID}, nil
}

// Credentials returns the credentials when both variables are set.
func (s *Source) Credentials(_ context.Context) (domain.Credentials, error) {
	id := s.v.GetString("client_id")
	secret := s.v.GetString("client_secret")
	if id == "" || secret == "" {
		return domain.Credentials{}, domain.ErrNoCredentials
	}
	memberCID := s.memberCID
	if memberCID == "" {
		memberCID = s.v.GetString("member_cid")
	}
	return domain.Credentials{ClientID: id, ClientSecret: secret, MemberCID: memberCID}, nil
}

// Available reports whether both credential variables are set.
func (s *Source) Available() bool {
	_, err := s.Credentials(context.Background())
	return err == nil
}

// ApplyOverrides copies settings present in the environment onto p:
// BASE_URL, MEMBER_CID, SSL_VERIFY, USER_AGENT, RENEW_WINDOW and DEBUG,
// each under the configured prefix.
func (s *Source) ApplyOverrides(p *domain.Profile) {
	if v := s.v.GetString("base_url"); v != "" {
		p.BaseURL = v
	}
	if v := s.v.GetString("member_cid"); v != "" {
		p.MemberCID = v
	}
	if s.v.IsSet("ssl_verify") {
		p.SSLVerify = s.v.GetBool("ssl_verify")
	}
	if v := s.v.GetString("user_agent"); v != "" {
		p.UserAgent = v
	}
	if s.v.IsSet("renew_window") {
		p.RenewWindow = s.v.GetInt("renew_window")
	}
	if s.v.IsSet("debug") {
		p.Debug = s.v.GetBool("debug")
	}
}
