package admincli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/auditoria/internal/common"
	"github.com/spf13/cobra"
)

func newUserCommand(ctx *commandContext) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage login credentials",
	}

	var addPassword string
	addCmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := passwordOrPrompt(addPassword, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			app, _, err := ctx.openApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if _, err := app.Users().Create(cmd.Context(), args[0], password); err != nil {
				if errors.Is(err, common.ErrorAlreadyExists) {
					return fmt.Errorf("user %q already exists", args[0])
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %s created\n", args[0])
			return nil
		},
	}
	addCmd.Flags().StringVarP(&addPassword, "password", "p", "", "Password (prompted when omitted)")

	var verifyPassword string
	verifyCmd := &cobra.Command{
		Use:   "verify <username>",
		Short: "Check a username/password pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := passwordOrPrompt(verifyPassword, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			app, _, err := ctx.openApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			ok, err := app.Users().Verify(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Credentials do not match")
				return errors.New("verification failed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Credentials match")
			return nil
		},
	}
	verifyCmd.Flags().StringVarP(&verifyPassword, "password", "p", "", "Password (prompted when omitted)")

	userCmd.AddCommand(addCmd, verifyCmd)
	return userCmd
}
