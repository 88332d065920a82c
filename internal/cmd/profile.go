package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gadgetloop/storefront/internal/guard"
	"github.com/gadgetloop/storefront/internal/render"
	"github.com/gadgetloop/storefront/internal/tui"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View and update your account profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the signed-in account's profile",
	RunE:  runProfileShow,
}

var profileSetNameCmd = &cobra.Command{
	Use:   "set-name <first> <last>",
	Short: "Change the account's name",
	Args:  cobra.ExactArgs(2),
	RunE:  runProfileSetName,
}

var profileSetEmailCmd = &cobra.Command{
	Use:   "set-email <email>",
	Short: "Change the account's email",
	Long:  `Change the account's email. The store requires the current password to confirm the change.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileSetEmail,
}

var profileSetPasswordCmd = &cobra.Command{
	Use:   "set-password",
	Short: "Change the account's password",
	RunE:  runProfileSetPassword,
}

func init() {
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetNameCmd)
	profileCmd.AddCommand(profileSetEmailCmd)
	profileCmd.AddCommand(profileSetPasswordCmd)
	rootCmd.AddCommand(profileCmd)
}

func profileSession(cmd *cobra.Command) (*app, error) {
	a, err := getApp()
	if err != nil {
		return nil, err
	}
	if err := requireSession(cmd.Context(), a, guard.Route{Path: "/profile"}); err != nil {
		return nil, err
	}
	return a, nil
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	a, err := profileSession(cmd)
	if err != nil {
		return err
	}

	p, err := a.profile.Get(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println(render.Profile(p))
	return nil
}

func runProfileSetName(cmd *cobra.Command, args []string) error {
	a, err := profileSession(cmd)
	if err != nil {
		return err
	}

	if err := a.profile.UpdateName(cmd.Context(), args[0], args[1]); err != nil {
		return err
	}

	fmt.Println(render.Success("Name updated"))
	return nil
}

func runProfileSetEmail(cmd *cobra.Command, args []string) error {
	a, err := profileSession(cmd)
	if err != nil {
		return err
	}

	if !tui.ShouldPrompt() {
		return fmt.Errorf("changing the email needs the current password, which is prompted for interactively")
	}

	password, err := tui.PromptForString(tui.Prompt{
		Message:  "Current password",
		Required: true,
		Password: true,
	})
	if err != nil {
		return err
	}

	if err := a.profile.UpdateEmail(cmd.Context(), args[0], password); err != nil {
		return err
	}

	fmt.Println(render.Success("Email updated. Sign in again with the new address."))
	return nil
}

func runProfileSetPassword(cmd *cobra.Command, args []string) error {
	a, err := profileSession(cmd)
	if err != nil {
		return err
	}

	if !tui.ShouldPrompt() {
		return fmt.Errorf("changing the password is interactive only")
	}

	oldPassword, err := tui.PromptForString(tui.Prompt{
		Message:  "Current password",
		Required: true,
		Password: true,
	})
	if err != nil {
		return err
	}

	newPassword, err := tui.PromptForString(tui.Prompt{
		Message:  "New password",
		Required: true,
		Password: true,
	})
	if err != nil {
		return err
	}

	if err := a.profile.UpdatePassword(cmd.Context(), oldPassword, newPassword); err != nil {
		return err
	}

	fmt.Println(render.Success("Password updated"))
	return nil
}
