package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Request a bearer token",
	Long: `Request a new bearer token and report the region it was issued for.

With a token cache configured the token is stored so later invocations
reuse it until it enters the renewal window.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the current bearer token",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a valid bearer token",
	Long: `Print a bearer token, logging in first when the cached token is
missing or about to expire. Use --header to print the full Authorization
header, or --json for the token state.`,
	Args: cobra.NoArgs,
	RunE: runToken,
}

var (
	tokenHeader bool
	tokenJSON   bool
)

func init() {
	tokenCmd.Flags().BoolVar(&tokenHeader, "header", false, "Print the Authorization header")
	tokenCmd.Flags().BoolVar(&tokenJSON, "json", false, "Print token state as JSON")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(tokenCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	if err := ensurePorts(cmd.Context()); err != nil {
		return err
	}
	result := commander.Login(cmd.Context())
	if !result.OK() {
		return fmt.Errorf("login failed (%d): %s", result.StatusCode, result.FirstError())
	}
	token := commander.Token()
	cmd.Printf("Authenticated against %s\n", commander.BaseURL())
	cmd.Printf("Token expires at %s\n", token.IssuedAt.Add(token.TTL).Format(time.RFC3339))
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	if err := ensurePorts(cmd.Context()); err != nil {
		return err
	}
	if commander.TokenExpired() {
		cmd.Println("No active token")
		return nil
	}
	result := commander.Logout(cmd.Context(), "")
	if !result.OK() {
		return fmt.Errorf("logout failed (%d): %s", result.StatusCode, result.FirstError())
	}
	cmd.Println("Token revoked")
	return nil
}

// tokenState is the --json view of the token.
type tokenState struct {
	BaseURL       string    `json:"base_url"`
	Authenticated bool      `json:"authenticated"`
	Refreshable   bool      `json:"refreshable"`
	IssuedAt      time.Time `json:"issued_at"`
	ExpiresAt     time.Time `json:"expires_at"`
	Status        int       `json:"status,omitempty"`
}

func runToken(cmd *cobra.Command, _ []string) error {
	if err := ensurePorts(cmd.Context()); err != nil {
		return err
	}
	header := commander.AuthHeaders(cmd.Context())["Authorization"]
	token := commander.Token()
	if token.Value == "" {
		return fmt.Errorf("no token issued (status %d)", token.Status)
	}

	switch {
	case tokenJSON:
		data, err := json.MarshalIndent(stateOf(token), "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
	case tokenHeader:
		cmd.Printf("Authorization: %s\n", header)
	default:
		cmd.Println(token.Value)
	}
	return nil
}

func stateOf(token domain.Token) tokenState {
	return tokenState{
		BaseURL:       commander.BaseURL(),
		Authenticated: commander.Authenticated(),
		Refreshable:   commander.Refreshable(),
		IssuedAt:      token.IssuedAt,
		ExpiresAt:     token.IssuedAt.Add(token.TTL),
		Status:        token.Status,
	}
}
