package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/custodia-labs/falcon-go/internal/adapters/driven/config/env"
	"github.com/custodia-labs/falcon-go/internal/adapters/driven/config/file"
	"github.com/custodia-labs/falcon-go/internal/core/domain"
)

// SecretsFile holds the client credentials written by configure. It is
// loaded as a dotenv file after any .env in the working directory.
const SecretsFile = "credentials.env"

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Write the profile in ~/.falcon/config.toml",
	Long: `Write connection settings to the profile.

Without flags an interactive wizard asks for each value. The client secret
is never written to config.toml: when given it is stored in
~/.falcon/credentials.env with owner-only permissions.

Examples:
  falcon configure
  falcon configure --client-id abc --base-url eu-1 --timeout 30
  falcon configure --proxy https=http://proxy:3128 --token-cache redis --redis-url redis://localhost:6379/0`,
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

var configureShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current profile",
	Args:  cobra.NoArgs,
	RunE:  runConfigureShow,
}

// Flags for configure.
var (
	cfgUserAgent      string
	cfgRenewWindow    int
	cfgTimeout        float64
	cfgConnectTimeout float64
	cfgReadTimeout    float64
	cfgProxy          []string
	cfgRedisURL       string
	cfgSSLVerify      bool
	cfgDebug          bool
	cfgPromptSecret   bool
)

func init() {
	f := configureCmd.Flags()
	f.StringVar(&cfgUserAgent, "user-agent", "", "User agent sent with every request")
	f.IntVar(&cfgRenewWindow, "renew-window", 0, "Seconds before expiry a token is renewed (120-1200)")
	f.Float64Var(&cfgTimeout, "timeout", 0, "Total request timeout in seconds")
	f.Float64Var(&cfgConnectTimeout, "connect-timeout", 0, "Connect timeout in seconds")
	f.Float64Var(&cfgReadTimeout, "read-timeout", 0, "Read timeout in seconds")
	f.StringArrayVar(&cfgProxy, "proxy", nil, "Proxy scheme=url (repeatable)")
	f.StringVar(&cfgRedisURL, "redis-url", "", "Redis URL for the redis token cache")
	f.BoolVar(&cfgSSLVerify, "ssl-verify", true, "Verify TLS certificates")
	f.BoolVar(&cfgDebug, "debug", false, "Enable debug logging by default")
	f.BoolVar(&cfgPromptSecret, "prompt-secret", false, "Prompt for the client secret and store it")

	configureCmd.AddCommand(configureShowCmd)
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, _ []string) error {
	if flagNoProfile {
		return fmt.Errorf("%w: --no-profile cannot be used with configure", domain.ErrInvalidInput)
	}
	store, err := openConfigStore()
	if err != nil {
		return err
	}
	profile, err := file.LoadProfile(store)
	if err != nil {
		return err
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	secret := flagClientSecret
	if interactive(cmd) {
		secret = configureWizard(cmd, reader, &profile)
	} else if err := applyConfigureFlags(cmd, &profile); err != nil {
		return err
	}

	if err := file.SaveProfile(store, profile); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	cmd.Printf("Profile written to %s\n", store.Path())

	if secret == "" && cfgPromptSecret {
		cmd.Print("Client secret: ")
		secret = readSecret(cmd.InOrStdin(), reader)
		cmd.Println()
	}
	if secret != "" {
		path, err := writeSecrets(filepath.Dir(store.Path()), profile.ClientID, secret)
		if err != nil {
			return err
		}
		cmd.Printf("Credentials written to %s\n", path)
	}
	return nil
}

// interactive reports whether only location flags were given, in which
// case configure runs the wizard.
func interactive(cmd *cobra.Command) bool {
	only := true
	cmd.Flags().Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "config-dir", "env-file", "verbose", "no-profile":
		default:
			only = false
		}
	})
	return only
}

func applyConfigureFlags(cmd *cobra.Command, p *domain.Profile) error {
	changed := cmd.Flags().Changed
	if flagBaseURL != "" {
		p.BaseURL = flagBaseURL
	}
	if flagClientID != "" {
		p.ClientID = flagClientID
	}
	if changed("member-cid") {
		p.MemberCID = flagMemberCID
	}
	if changed("ssl-verify") {
		p.SSLVerify = cfgSSLVerify
	}
	if flagNoSSLVerify {
		p.SSLVerify = false
	}
	if changed("user-agent") {
		p.UserAgent = cfgUserAgent
	}
	if changed("renew-window") {
		p.RenewWindow = cfgRenewWindow
	}
	if changed("timeout") {
		p.Timeout.Total = floatSeconds(cfgTimeout)
	}
	if changed("connect-timeout") {
		p.Timeout.Connect = floatSeconds(cfgConnectTimeout)
	}
	if changed("read-timeout") {
		p.Timeout.Read = floatSeconds(cfgReadTimeout)
	}
	if changed("proxy") {
		proxy, err := parsePairs(cfgProxy, func(s string) any { return s })
		if err != nil {
			return err
		}
		p.Proxy = stringMap(proxy)
	}
	if flagTokenCache != "" {
		p.TokenCache = domain.TokenCacheBackend(flagTokenCache)
	}
	if changed("redis-url") {
		p.RedisURL = cfgRedisURL
	}
	if changed("debug") {
		p.Debug = cfgDebug
	}
	return nil
}

// configureWizard prompts for the common profile settings and returns
// the client secret, which may be empty.
func configureWizard(cmd *cobra.Command, reader *bufio.Reader, p *domain.Profile) string {
	cmd.Println("Falcon API profile")
	cmd.Println("------------------")
	cmd.Println("Press enter to keep the value in brackets.")
	cmd.Println()

	p.ClientID = prompt(cmd, reader, "Client ID", p.ClientID)
	p.BaseURL = prompt(cmd, reader, "Base URL or region", p.BaseURL)
	p.MemberCID = prompt(cmd, reader, "Member CID", p.MemberCID)

	window := prompt(cmd, reader, "Renew window (seconds)", strconv.Itoa(p.RenewWindow))
	if n, err := strconv.Atoi(window); err == nil {
		p.RenewWindow = n
	}
	backend := prompt(cmd, reader, "Token cache (none, sqlite, redis)", string(p.TokenCache))
	p.TokenCache = domain.TokenCacheBackend(backend)
	if p.TokenCache == domain.TokenCacheRedis {
		p.RedisURL = prompt(cmd, reader, "Redis URL", p.RedisURL)
	}

	cmd.Print("Client secret (leave empty to skip): ")
	secret := readSecret(cmd.InOrStdin(), reader)
	cmd.Println()
	return secret
}

func prompt(cmd *cobra.Command, reader *bufio.Reader, label, current string) string {
	cmd.Printf("%s [%s]: ", label, current)
	if input := readLine(reader); input != "" {
		return input
	}
	return current
}

func runConfigureShow(cmd *cobra.Command, _ []string) error {
	store, err := openConfigStore()
	if err != nil {
		return err
	}
	p, err := file.LoadProfile(store)
	if err != nil {
		return err
	}

	cmd.Printf("Profile: %s\n\n", store.Path())
	cmd.Printf("  Base URL:      %s\n", p.BaseURL)
	cmd.Printf("  Client ID:     %s\n", maskSecret(p.ClientID))
	cmd.Printf("  Member CID:    %s\n", orNone(p.MemberCID))
	cmd.Printf("  SSL verify:    %t\n", p.SSLVerify)
	cmd.Printf("  User agent:    %s\n", orNone(p.UserAgent))
	cmd.Printf("  Renew window:  %ds\n", p.RenewWindow)
	cmd.Printf("  Timeout:       total=%s connect=%s read=%s\n", p.Timeout.Total, p.Timeout.Connect, p.Timeout.Read)
	for scheme, url := range p.Proxy {
		cmd.Printf("  Proxy:         %s=%s\n", scheme, url)
	}
	cmd.Printf("  Token cache:   %s\n", p.TokenCache)
	if p.TokenCache == domain.TokenCacheRedis {
		cmd.Printf("  Redis URL:     %s\n", p.RedisURL)
	}
	return nil
}

// writeSecrets stores the client credentials as a dotenv file readable
// only by the owner.
func writeSecrets(dir, clientID, secret string) (string, error) {
	path := filepath.Join(dir, SecretsFile)
	values := map[string]string{env.DefaultPrefix + env.DefaultSecretName: secret}
	if clientID != "" {
		values[env.DefaultPrefix+env.DefaultIDName] = clientID
	}
	if err := godotenv.Write(values, path); err != nil {
		return "", fmt.Errorf("writing credentials: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return "", fmt.Errorf("restricting credentials file: %w", err)
	}
	return path, nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// readSecret reads without echo when in is a terminal, otherwise it
// reads a line from reader.
func readSecret(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return string(password)
		}
	}
	return readLine(reader)
}

func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

func orNone(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func floatSeconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}
