package cli

import (
	"fmt"

	"github.com/dmitrijs2005/sealbox/internal/cryptox"
	"github.com/dmitrijs2005/sealbox/internal/filex"
	"github.com/spf13/cobra"
)

func newKeygenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Create the local key pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			identity, err := cryptox.GenerateIdentity()
			if err != nil {
				return err
			}

			passphrase, err := GetNewPassword(app.out, "New identity passphrase: ")
			if err != nil {
				return err
			}

			sealed, err := cryptox.SealIdentity(identity, passphrase)
			if err != nil {
				return err
			}
			if err := filex.WriteNew(app.cfg.IdentityPath, sealed, 0o600); err != nil {
				return err
			}

			publicKey := identity.Recipient().String()
			if err := filex.WriteNew(app.publicKeyPath(), []byte(publicKey+"\n"), 0o644); err != nil {
				return err
			}

			fmt.Fprintf(app.out, "Identity written to %s\n", app.cfg.IdentityPath)
			fmt.Fprintf(app.out, "Public key: %s\n", publicKey)
			return nil
		},
	}
}

func newRegisterCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "register <email>",
		Short: "Create an account for the local public key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			publicKey, err := app.publicKey()
			if err != nil {
				return err
			}

			password, err := GetNewPassword(app.out, "Account password: ")
			if err != nil {
				return err
			}

			auth, err := app.auth()
			if err != nil {
				return err
			}

			ctx, cancel := app.withTimeout(cmd.Context())
			defer cancel()

			userID, err := auth.Register(ctx, args[0], password, publicKey)
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}

			fmt.Fprintf(app.out, "Registered %s (user id %s)\n", args[0], userID)
			return nil
		},
	}
}

func newLoginCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Log in and store the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := GetPassword(app.out, "Account password: ")
			if err != nil {
				return err
			}

			auth, err := app.auth()
			if err != nil {
				return err
			}

			ctx, cancel := app.withTimeout(cmd.Context())
			defer cancel()

			if err := auth.Login(ctx, args[0], password); err != nil {
				return fmt.Errorf("login: %w", err)
			}

			fmt.Fprintf(app.out, "Logged in as %s\n", args[0])
			return nil
		},
	}
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := app.auth()
			if err != nil {
				return err
			}
			if err := auth.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(app.out, "Logged out")
			return nil
		},
	}
}

func newWhoAmICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.session()
			if err != nil {
				return err
			}

			ctx, cancel := app.withTimeout(cmd.Context())
			defer cancel()

			me, err := c.WhoAmI(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(app.out, "User ID:    %s\n", me.UserID)
			fmt.Fprintf(app.out, "Email:      %s\n", me.Email)
			fmt.Fprintf(app.out, "Public key: %s\n", me.PublicKey)
			return nil
		},
	}
}
