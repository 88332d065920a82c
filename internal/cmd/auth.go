package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gadgetloop/storefront/internal/render"
	"github.com/gadgetloop/storefront/internal/session"
	"github.com/gadgetloop/storefront/internal/tui"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage your GadgetLoop account session",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to GadgetLoop",
	Long: `Sign in with your GadgetLoop email and password. The bearer token the
store issues is saved locally so later commands run authenticated.

Flags left empty are prompted for interactively.`,
	RunE: runAuthLogin,
}

var authSignupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a GadgetLoop account",
	RunE:  runAuthSignup,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and discard the stored credential",
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who is currently signed in",
	RunE:  runAuthStatus,
}

var (
	authEmail     string
	authPassword  string
	authFirstName string
	authLastName  string
	authRole      string
)

func init() {
	authLoginCmd.Flags().StringVar(&authEmail, "email", "", "account email")
	authLoginCmd.Flags().StringVar(&authPassword, "password", "", "account password")

	authSignupCmd.Flags().StringVar(&authEmail, "email", "", "account email")
	authSignupCmd.Flags().StringVar(&authPassword, "password", "", "account password")
	authSignupCmd.Flags().StringVar(&authFirstName, "first-name", "", "first name")
	authSignupCmd.Flags().StringVar(&authLastName, "last-name", "", "last name")
	authSignupCmd.Flags().StringVar(&authRole, "role", session.RoleBuyer, "account role (buyer or seller)")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authSignupCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	email, password, err := collectLoginInput()
	if err != nil {
		return err
	}

	user, err := a.session.Authenticate(cmd.Context(), email, password)
	if err != nil {
		return err
	}

	fmt.Println(render.Success(fmt.Sprintf("Signed in as %s %s <%s>", user.FirstName, user.LastName, user.Email)))
	return nil
}

func runAuthSignup(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	req, err := collectSignupInput()
	if err != nil {
		return err
	}

	if err := a.session.Signup(cmd.Context(), req); err != nil {
		return err
	}

	fmt.Println(render.Success("Account created. Run 'gadgetloop auth login' to sign in."))
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	if err := a.session.Logout(); err != nil {
		return err
	}

	fmt.Println(render.Success("Signed out"))
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	a.session.Bootstrap(cmd.Context())
	fmt.Println(render.SessionStatus(a.session.Snapshot()))
	return nil
}

func collectLoginInput() (email, password string, err error) {
	if (authEmail == "" || authPassword == "") && !tui.ShouldPrompt() {
		return "", "", fmt.Errorf("--email and --password are required when not running interactively")
	}

	email = authEmail
	if email == "" {
		email, err = tui.PromptForString(tui.Prompt{
			Message:     "Email",
			Placeholder: "you@example.com",
			Required:    true,
		})
		if err != nil {
			return "", "", err
		}
	}

	password = authPassword
	if password == "" {
		password, err = tui.PromptForString(tui.Prompt{
			Message:  "Password",
			Required: true,
			Password: true,
		})
		if err != nil {
			return "", "", err
		}
	}

	return email, password, nil
}

func collectSignupInput() (session.SignupRequest, error) {
	req := session.SignupRequest{
		FirstName: authFirstName,
		LastName:  authLastName,
		Email:     authEmail,
		Password:  authPassword,
		Role:      authRole,
	}

	missing := req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == ""
	if missing && !tui.ShouldPrompt() {
		return session.SignupRequest{}, fmt.Errorf("--first-name, --last-name, --email, and --password are required when not running interactively")
	}

	var err error
	if req.FirstName == "" {
		if req.FirstName, err = tui.PromptForString(tui.Prompt{Message: "First name", Required: true}); err != nil {
			return session.SignupRequest{}, err
		}
	}
	if req.LastName == "" {
		if req.LastName, err = tui.PromptForString(tui.Prompt{Message: "Last name", Required: true}); err != nil {
			return session.SignupRequest{}, err
		}
	}
	if req.Email == "" {
		if req.Email, err = tui.PromptForString(tui.Prompt{Message: "Email", Placeholder: "you@example.com", Required: true}); err != nil {
			return session.SignupRequest{}, err
		}
	}
	if req.Password == "" {
		if req.Password, err = tui.PromptForString(tui.Prompt{Message: "Password", Required: true, Password: true}); err != nil {
			return session.SignupRequest{}, err
		}
	}
	if req.Role == "" {
		if req.Role, err = tui.PromptForSelect("Account role", []string{session.RoleBuyer, session.RoleSeller}); err != nil {
			return session.SignupRequest{}, err
		}
	}

	return req, nil
}
