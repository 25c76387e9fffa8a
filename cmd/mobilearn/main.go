// Command mobilearn is a terminal front end for the client core. It wires
// the same stores the mobile screens use, which makes it a convenient way
// to exercise the session, favorites, flags and payment flows against a
// real backend or cmd/mockbackend.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mobilearn/appcore/internal/app"
	"github.com/mobilearn/appcore/internal/config"
	"github.com/mobilearn/appcore/internal/model"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// printNavigator stands in for the mobile navigation layer.
type printNavigator struct{}

func (printNavigator) ShowResetPassword(token string) {
	fmt.Printf("-> reset-password screen (token %s)\n", token)
}

func newRootCmd() *cobra.Command {
	var (
		a       *app.App
		roleStr string
	)

	root := &cobra.Command{
		Use:           "mobilearn",
		Short:         "mobilearn client core CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Logging.Level == "debug" {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			a, err = app.New(cmd.Context(), cfg, logger, printNavigator{})
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a == nil {
				return nil
			}
			return a.Close()
		},
	}
	root.PersistentFlags().StringVar(&roleStr, "role", "member", "acting role (member|instructor|admin)")

	role := func() (model.Role, error) { return model.ParseRole(roleStr) }

	root.AddCommand(
		&cobra.Command{
			Use:   "signup <username> <email> <password>",
			Short: "Create an account",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				r, err := role()
				if err != nil {
					return err
				}
				if err := a.Session.Signup(cmd.Context(), args[0], args[1], args[2], r); err != nil {
					return err
				}
				fmt.Println("account created, you can log in now")
				return nil
			},
		},
		&cobra.Command{
			Use:   "login <email> <password>",
			Short: "Log in and persist the session",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				r, err := role()
				if err != nil {
					return err
				}
				resolved, err := a.Session.Login(cmd.Context(), args[0], args[1], r)
				if err != nil {
					return err
				}
				fmt.Printf("logged in as %s (%s)\n", a.Session.Current().Username, resolved)
				return nil
			},
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Reset the session to unauthenticated",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.Session.Logout(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "whoami",
			Short: "Show the current session",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				s := a.Session.Current()
				if !s.Authenticated() {
					fmt.Println("not logged in")
					return nil
				}
				fmt.Printf("%s <%s> role=%s\n", s.Username, s.Email, s.Role)
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset-password <token> <new-password>",
			Short: "Redeem a password-reset token",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				msg, err := a.Session.ResetPassword(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Println(msg)
				return nil
			},
		},
		&cobra.Command{
			Use:   "handle-link <url>",
			Short: "Feed a deep link through the URL handler",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.DeepLink.Handle(args[0])
			},
		},
		newFavouritesCmd(&a),
		newFlagsCmd(&a),
		newPaymentCmd(&a, role),
	)
	return root
}

func newFavouritesCmd(a **app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favourites",
		Short: "Favorite-course operations",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list <channel-id>",
			Short: "Fetch the favorite set for a channel",
			Args:  cobra.ExactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				ids, err := (*a).Courses.FavouriteCourses(c.Context(), args[0])
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Println(id)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <course-id>",
			Short: "Mark a course as favorite",
			Args:  cobra.ExactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				return (*a).Courses.AddFavouriteCourse(c.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "remove <course-id>",
			Short: "Unmark a favorite course",
			Args:  cobra.ExactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				return (*a).Courses.RemoveFavouriteCourse(c.Context(), args[0])
			},
		},
	)
	return cmd
}

func newFlagsCmd(a **app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flags",
		Short: "Feature flag operations",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <name>",
			Short: "Read a feature flag",
			Args:  cobra.ExactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				fmt.Println((*a).Features.Flag(args[0]))
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <name> <true|false>",
			Short: "Set a feature flag",
			Args:  cobra.ExactArgs(2),
			RunE: func(c *cobra.Command, args []string) error {
				value := args[1] == "true"
				if !value && args[1] != "false" {
					return fmt.Errorf("value must be true or false, got %q", args[1])
				}
				return (*a).Features.SetFlag(c.Context(), args[0], value)
			},
		},
	)
	return cmd
}

func newPaymentCmd(a **app.App, role func() (model.Role, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Payment configuration operations",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the payment configuration",
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, args []string) error {
				cfg := (*a).Payment.Config()
				fmt.Printf("holder:  %s\naccount: %s\nrouting: %s\n",
					cfg.AccountHolderName, cfg.BankAccountNumber, cfg.RoutingNumber)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <holder> <account> <routing>",
			Short: "Update the payment configuration (admin/instructor only)",
			Args:  cobra.ExactArgs(3),
			RunE: func(c *cobra.Command, args []string) error {
				r, err := role()
				if err != nil {
					return err
				}
				ctx := c.Context()
				if err := (*a).Payment.SetAccountHolderName(ctx, r, args[0]); err != nil {
					return err
				}
				if err := (*a).Payment.SetBankAccountNumber(ctx, r, args[1]); err != nil {
					return err
				}
				return (*a).Payment.SetRoutingNumber(ctx, r, args[2])
			},
		},
	)
	return cmd
}
