package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/staffdesk/internal/observability"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and save the token",
	Long: "Exchange employee credentials for a token and store it in the console config file. " +
		"The password is read from --password, STAFFDESK_PASSWORD, or the first line of stdin.",
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved token",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in employee",
	RunE:  runWhoami,
}

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change the signed-in employee's password",
	RunE:  runPassword,
}

var (
	loginEmail      string
	loginPassword   string
	passwordCurrent string
	passwordNew     string
)

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Employee email (defaults to the last login)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password")

	passwordCmd.Flags().StringVar(&passwordCurrent, "current", "", "Current password (required)")
	passwordCmd.Flags().StringVar(&passwordNew, "new", "", "New password, 8 to 72 characters (required)")
	for _, name := range []string{"current", "new"} {
		if err := passwordCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, passwordCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	con, err := loadConsole()
	if err != nil {
		return err
	}

	email := loginEmail
	if email == "" {
		email = con.cfg.Email
	}
	if email == "" {
		return fmt.Errorf("--email is required")
	}
	password, err := readPassword(cmd.InOrStdin())
	if err != nil {
		return err
	}

	resp, err := con.client.Login(cmd.Context(), email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	con.file.Token = resp.Token
	con.file.Email = email
	if apiURLFlag != "" {
		con.file.APIURL = apiURLFlag
	}
	if err := con.save(); err != nil {
		return err
	}

	name := email
	var roles []string
	if resp.Employee != nil {
		name = resp.Employee.Name
		roles = resp.Employee.Roles
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", name, strings.Join(roles, ", "))
	return nil
}

// readPassword takes the flag, then STAFFDESK_PASSWORD, then one line of in.
func readPassword(in io.Reader) (string, error) {
	if loginPassword != "" {
		return loginPassword, nil
	}
	if p := os.Getenv("STAFFDESK_PASSWORD"); p != "" {
		return p, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", fmt.Errorf("password is required")
	}
	return line, nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	con, err := loadConsole()
	if err != nil {
		return err
	}
	con.file.Token = ""
	if err := con.save(); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	con, err := loadConsole()
	if err != nil {
		return err
	}
	me, err := con.client.Me(cmd.Context())
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintEmployee(me)
	return nil
}

func runPassword(cmd *cobra.Command, _ []string) error {
	con, err := loadConsole()
	if err != nil {
		return err
	}
	if err := con.client.ChangePassword(cmd.Context(), passwordCurrent, passwordNew); err != nil {
		printFieldErrors(cmd.ErrOrStderr(), err)
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Password changed")
	return nil
}
