package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dlaporte/trailcache/internal/adapters/driven/config/file"
	"github.com/dlaporte/trailcache/internal/core/domain"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store Scouting.org credentials",
	Long: `Prompts for a my.scouting.org username and password and stores them in
the local vault. Credentials are only read again when a refresh needs to
authenticate.`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored credentials",
	RunE:  runLogout,
}

var (
	loginUsername string
	loginPassword string
)

func init() {
	loginCmd.Flags().StringVar(&loginUsername, "username", "", "my.scouting.org username")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "password (omit to be prompted)")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	if vault == nil {
		return errors.New("credential vault not configured")
	}

	username := strings.TrimSpace(loginUsername)
	if username == "" {
		cmd.Print("Username: ")
		reader := bufio.NewReader(cmd.InOrStdin())
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading username: %w", err)
		}
		username = strings.TrimSpace(line)
	}
	if username == "" {
		return errors.New("username must not be empty")
	}

	password := loginPassword
	if password == "" {
		cmd.Print("Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		cmd.Println()
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		password = string(raw)
	}
	if password == "" {
		return errors.New("password must not be empty")
	}

	creds := domain.Credentials{
		Username:  username,
		Password:  password,
		UpdatedAt: time.Now().UTC(),
	}
	if err := vault.Save(cmd.Context(), creds); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	if configStore != nil {
		if err := configStore.Set(file.KeyUsername, username); err != nil {
			return fmt.Errorf("saving username to config: %w", err)
		}
	}

	cmd.Printf("Credentials stored for %s.\n", username)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	if vault == nil {
		return errors.New("credential vault not configured")
	}
	if err := vault.Delete(cmd.Context()); err != nil {
		if errors.Is(err, domain.ErrCredentialsNotFound) {
			cmd.Println("No credentials stored.")
			return nil
		}
		return fmt.Errorf("deleting credentials: %w", err)
	}
	cmd.Println("Credentials removed.")
	return nil
}
