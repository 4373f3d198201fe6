package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jamcha/go-admin-client/token"
	"github.com/jamcha/go-admin-client/users"
)

func newRootCmd(a *app) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "jamchactl",
		Short:         "Session tooling for the jamcha admin backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				a.log = a.log.Level(zerolog.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newStatusCmd(a),
		newHealthCmd(a),
		newGetCmd(a),
	)
	return root
}

func newLoginCmd(a *app) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the backend and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			displayAppName(a.cfg.GetAppName())
			if a.guard.RedirectIfAuthenticated() {
				return nil
			}

			if username == "" {
				username = prompt("Username or email: ")
			}
			if password == "" {
				password = prompt("Password: ")
			}

			profile, err := a.svc.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			fmt.Printf("Signed in as %s (%s)\n", color.GreenString(profile.DisplayName()), profile.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username or email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Invalidate the backend session and clear local state",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.svc.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Signed out.")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored user profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.guard.RequireAuth(); err != nil {
				return err
			}
			u, ok := a.svc.CurrentUser()
			if !ok {
				return fmt.Errorf("no stored profile")
			}
			fmt.Printf("%s <%s>\n", u.DisplayName(), u.Email)
			fmt.Printf("  username: %s\n", u.Username)
			fmt.Printf("  role:     %s\n", u.Role)
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session validity, token expiry, and backend reachability",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.svc.IsAuthenticated() {
				fmt.Println("session:", color.GreenString("authenticated"))
			} else {
				fmt.Println("session:", color.YellowString("not authenticated"))
			}

			if tok, ok := a.svc.Token(); ok {
				if exp := token.Decode(tok).ExpiresAt; exp != 0 {
					fmt.Println("token expires:", time.Unix(exp, 0).Format(time.RFC1123))
				} else {
					fmt.Println("token expires: unknown")
				}
			}
			if role, ok := a.svc.Role(); ok {
				fmt.Println("role:", role)
				if role == users.RoleAdmin {
					fmt.Println("access: user management and settings views permitted")
				}
			}

			if a.svc.HealthCheck(cmd.Context()) {
				fmt.Println("backend:", color.GreenString("reachable"))
			} else {
				fmt.Println("backend:", color.RedString("unreachable"))
			}
			return nil
		},
	}
}

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check backend connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.svc.HealthCheck(cmd.Context()) {
				return fmt.Errorf("backend unreachable")
			}
			fmt.Println(color.GreenString("backend reachable"))
			return nil
		},
	}
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <path>",
		Short: "Issue an authenticated GET and print the JSON response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out json.RawMessage
			if err := a.api.Get(cmd.Context(), args[0], &out); err != nil {
				return err
			}
			var pretty map[string]interface{}
			if err := json.Unmarshal(out, &pretty); err != nil {
				// not a JSON object; print raw
				fmt.Println(string(out))
				return nil
			}
			formatted, err := json.MarshalIndent(pretty, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(formatted))
			return nil
		},
	}
}

func prompt(label string) string {
	fmt.Print(label)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line)
}
