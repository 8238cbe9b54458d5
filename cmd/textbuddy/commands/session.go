package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"textbuddy/internal/app"
	"textbuddy/internal/domain"
	"textbuddy/internal/store"
)

func connectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect",
		Short: "Run the backend handshake and print the session state",
		RunE: online(func(cmd *cobra.Command, a *app.App, args []string) error {
			if err := a.Start(cmd.Context()); err != nil {
				return err
			}
			printState(cmd, a.Service.Snapshot())
			return nil
		}),
	}
}

func subscribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe",
		Short: "Start an SMS opt-in",
		RunE: online(func(cmd *cobra.Command, a *app.App, args []string) error {
			if err := a.Start(cmd.Context()); err != nil {
				return err
			}
			if a.Service.IsSubscribed() {
				fmt.Fprintln(cmd.OutOrStdout(), "already subscribed")
				return nil
			}
			a.Service.Subscribe(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Send the message, then run: textbuddy confirm <link>")
			return nil
		}),
	}
}

// confirm <url>: replay the opt-in and hand the link to the SDK, as the OS
// would when the user taps it.
func confirmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <url>",
		Short: "Deliver a confirmation deep link",
		Args:  cobra.ExactArgs(1),
		RunE: online(func(cmd *cobra.Command, a *app.App, args []string) error {
			if err := a.Start(cmd.Context()); err != nil {
				return err
			}
			if a.Service.IsSubscribed() {
				fmt.Fprintln(cmd.OutOrStdout(), "already subscribed")
				return nil
			}
			a.Service.Subscribe(cmd.Context())
			a.Links.Deliver(args[0])

			if ev, ok := a.Last(domain.EventSubscribeFailed); ok {
				return fmt.Errorf("confirmation rejected: %s", ev.(domain.SubscribeFailed).Message())
			}
			if ev, ok := a.Last(domain.EventSubscribed); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Subscribed.\nUser ID: %s\n", ev.(domain.Subscribed).UserID)
				return nil
			}
			return fmt.Errorf("link ignored: not addressed to textbuddy")
		}),
	}
}

func unsubscribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unsubscribe",
		Short: "Opt out and forget the cached user ID",
		RunE: online(func(cmd *cobra.Command, a *app.App, args []string) error {
			if err := a.Start(cmd.Context()); err != nil {
				return err
			}
			if !a.Service.IsSubscribed() {
				fmt.Fprintln(cmd.OutOrStdout(), "not subscribed")
				return nil
			}
			a.Service.Unsubscribe(cmd.Context())
			if ev, ok := a.Last(domain.EventUnsubscribed); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Unsubscribed %s\n", ev.(domain.Unsubscribed).UserID)
			}
			return nil
		}),
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the cached user ID",
		RunE: online(func(cmd *cobra.Command, a *app.App, args []string) error {
			id, err := a.Store.GetString(store.UserIDKey, "")
			if err != nil {
				return err
			}
			if id == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "no cached user")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User ID: %s\n", id)
			return nil
		}),
	}
}

func printState(cmd *cobra.Command, s domain.Snapshot) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Init: %s\n", s.Init)
	fmt.Fprintf(out, "Subscription: %s\n", s.Sub)
	fmt.Fprintf(out, "Phone: %s\n", s.PhoneNumber)
	if s.UserID != "" {
		fmt.Fprintf(out, "User ID: %s\n", s.UserID)
	}
}
