// Package cli implements the falcon command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/falcon-go/internal/adapters/driven/catalog"
	"github.com/custodia-labs/falcon-go/internal/adapters/driven/config/env"
	"github.com/custodia-labs/falcon-go/internal/adapters/driven/config/file"
	"github.com/custodia-labs/falcon-go/internal/adapters/driven/dispatch"
	"github.com/custodia-labs/falcon-go/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/falcon-go/internal/adapters/driven/storage/redis"
	"github.com/custodia-labs/falcon-go/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/falcon-go/internal/core/domain"
	"github.com/custodia-labs/falcon-go/internal/core/ports/driven"
	"github.com/custodia-labs/falcon-go/internal/core/ports/driving"
	"github.com/custodia-labs/falcon-go/internal/core/services"
	"github.com/custodia-labs/falcon-go/internal/logger"
)

// version is set at build time.
var version = "dev"

// Global flags.
var (
	verbose          bool
	flagConfigDir    string
	flagBaseURL      string
	flagClientID     string
	flagClientSecret string
	flagMemberCID    string
	flagNoSSLVerify  bool
	flagTokenCache   string
	flagEnvFile      string
	flagNoProfile    bool
)

// Ports used by the commands. Tests replace them with mocks; otherwise
// they are built from flags, environment and profile on first use.
var (
	commander        driving.Commander
	operationFinder  driving.OperationFinder
	operationCatalog driven.OperationCatalog
	serviceFactory   func(collection string) (driving.ServiceRequester, error)
	cleanup          func()
)

var rootCmd = &cobra.Command{
	Use:   "falcon",
	Short: "Command line client for the CrowdStrike Falcon API",
	Long: `falcon authenticates against the CrowdStrike Falcon OAuth2 API and
dispatches any catalogued operation.

Credentials are resolved in this order: command line flags, environment
variables (FALCON_CLIENT_ID, FALCON_CLIENT_SECRET, optionally read from a
.env file), then the profile in ~/.falcon/config.toml.

Examples:
  falcon configure --client-id abc --base-url us-2
  falcon login
  falcon command QueryDevicesByFilter -k filter="platform_name:'Linux'" -k limit=10
  falcon service hosts perform_action -k action_name=contain --body '{"ids":["aid"]}'
  falcon operations --by collection hosts`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Log requests and responses (credentials are redacted)")
	pf.StringVar(&flagConfigDir, "config-dir", "", "Profile directory (default ~/.falcon)")
	pf.StringVar(&flagBaseURL, "base-url", "", "API base URL or region (us-1, us-2, eu-1, usgov1, usgov2, auto)")
	pf.StringVar(&flagClientID, "client-id", "", "API client id")
	pf.StringVar(&flagClientSecret, "client-secret", "", "API client secret")
	pf.StringVar(&flagMemberCID, "member-cid", "", "Child CID for MSSP access")
	pf.BoolVar(&flagNoSSLVerify, "no-ssl-verify", false, "Disable TLS certificate verification")
	pf.StringVar(&flagTokenCache, "token-cache", "", "Token cache backend (none, sqlite, redis)")
	pf.StringVar(&flagEnvFile, "env-file", ".env", "Dotenv file with FALCON_* variables")
	pf.BoolVar(&flagNoProfile, "no-profile", false, "Ignore the profile on disk")
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	defer func() {
		if cleanup != nil {
			cleanup()
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// session holds everything built from the resolved configuration.
type session struct {
	profile domain.Profile
	config  services.InterfaceConfig
	catalog *catalog.Catalog
	cache   driven.TokenCache
}

func configDir() (string, error) {
	if flagConfigDir != "" {
		return flagConfigDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".falcon"), nil
}

// openConfigStore opens the TOML profile store, or an empty in-memory
// store with --no-profile.
func openConfigStore() (driven.ConfigStore, error) {
	if flagNoProfile {
		return memory.NewConfigStore(), nil
	}
	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	return file.NewConfigStore(dir)
}

// newSession resolves flags > environment > profile > defaults.
func newSession(ctx context.Context) (*session, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	store, err := openConfigStore()
	if err != nil {
		return nil, fmt.Errorf("opening profile: %w", err)
	}
	profile, err := file.LoadProfile(store)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	dotenv := []string{filepath.Join(dir, SecretsFile)}
	if flagEnvFile != "" {
		dotenv = append([]string{flagEnvFile}, dotenv...)
	}
	envSource, err := env.New(env.Options{DotEnvFiles: dotenv, MemberCID: flagMemberCID})
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}
	envSource.ApplyOverrides(&profile)
	applyFlagOverrides(&profile)
	if profile.Debug {
		logger.SetVerbose(true)
	}

	cat, err := catalog.Default()
	if err != nil {
		return nil, err
	}
	cache, err := openTokenCache(ctx, profile, dir)
	if err != nil {
		return nil, err
	}

	cfg := services.InterfaceConfig{
		BaseURL:          profile.BaseURL,
		DisableSSLVerify: !profile.SSLVerify,
		Proxy:            profile.Proxy,
		Timeout:          profile.Timeout,
		UserAgent:        profile.UserAgent,
		RenewWindow:      secondsDuration(profile.RenewWindow),
		Dispatcher:       dispatch.NewClient(dispatch.Config{}),
		TokenCache:       cache,
		Environment:      envSource,
	}
	switch {
	case flagClientID != "" && flagClientSecret != "":
		cfg.Credentials = domain.Credentials{ClientID: flagClientID, ClientSecret: flagClientSecret}
	case envSource.Available():
		// Resolved by the interface on first login.
	case profile.ClientID != "" && flagClientSecret != "":
		cfg.Credentials = domain.Credentials{ClientID: profile.ClientID, ClientSecret: flagClientSecret}
	}
	if cfg.Credentials.Valid() {
		cfg.Credentials = cfg.Credentials.WithMemberCID(profile.MemberCID)
	}

	return &session{profile: profile, config: cfg, catalog: cat, cache: cache}, nil
}

func applyFlagOverrides(p *domain.Profile) {
	if flagBaseURL != "" {
		p.BaseURL = flagBaseURL
	}
	if flagMemberCID != "" {
		p.MemberCID = flagMemberCID
	}
	if flagNoSSLVerify {
		p.SSLVerify = false
	}
	if flagTokenCache != "" {
		p.TokenCache = domain.TokenCacheBackend(flagTokenCache)
	}
}

func openTokenCache(ctx context.Context, p domain.Profile, dir string) (driven.TokenCache, error) {
	switch p.TokenCache {
	case domain.TokenCacheNone, "":
		return memory.NewTokenCache(), nil
	case domain.TokenCacheSQLite:
		store, err := sqlite.NewStore(filepath.Join(dir, "data"))
		if err != nil {
			return nil, fmt.Errorf("opening token cache: %w", err)
		}
		return store, nil
	case domain.TokenCacheRedis:
		cache, err := redis.New(ctx, redis.Config{URL: p.RedisURL})
		if err != nil {
			return nil, fmt.Errorf("connecting to redis token cache: %w", err)
		}
		return cache, nil
	default:
		return nil, fmt.Errorf("%w: token cache %q", domain.ErrInvalidInput, p.TokenCache)
	}
}

// ensurePorts builds the command ports unless they were injected.
func ensurePorts(ctx context.Context) error {
	if commander != nil && operationFinder != nil && operationCatalog != nil && serviceFactory != nil {
		return nil
	}
	s, err := newSession(ctx)
	if err != nil {
		return err
	}

	uber := services.NewUberInterface(s.config, s.catalog)
	if commander == nil {
		commander = uber
	}
	if operationFinder == nil {
		operationFinder = services.NewOperationSearch(s.catalog)
	}
	if operationCatalog == nil {
		operationCatalog = s.catalog
	}
	if serviceFactory == nil {
		serviceFactory = newServiceFactory(uber.FalconInterface, s.catalog)
	}
	cleanup = func() {
		if err := s.cache.Close(); err != nil {
			logger.Warn("closing token cache: %v", err)
		}
	}
	return nil
}

func secondsDuration(n int) time.Duration {
	return time.Duration(n) * time.Second
}
