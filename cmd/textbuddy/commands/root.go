package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"textbuddy/internal/app"
	xlog "textbuddy/internal/log"
	"textbuddy/internal/store"
)

// offline marks commands that run without configuration or network.
const offline = "offline"

var (
	configPath string
	home       string
	baseURL    string
	storeKind  string
	passphrase string
	apiKey     string

	appCtx *app.App
)

// Execute runs the CLI with os.Args.
func Execute() error {
	return NewRoot().Execute()
}

// NewRoot builds the command tree.
func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "textbuddy",
		Short:        "TextBuddy SMS subscription SDK harness",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[offline] == "true" {
				return nil
			}
			cfg, err := app.LoadConfig(configPath, func(c *app.Config) {
				if home != "" {
					c.Home = home
				}
				if baseURL != "" {
					c.BaseURL = baseURL
				}
				if storeKind != "" {
					c.Store = store.Kind(storeKind)
				}
				if passphrase != "" {
					c.Passphrase = passphrase
				}
			})
			if err != nil {
				return err
			}
			xlog.Configure(xlog.Config{Level: cfg.LogLevel, Output: cmd.ErrOrStderr(), Console: true})

			w, err := app.NewWire(cfg, printOpener(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			appCtx = app.New(w)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML config file")
	pf.StringVar(&home, "home", "", "state dir (default ~/.textbuddy)")
	pf.StringVar(&baseURL, "base-url", "", "backend base URL (e.g. http://127.0.0.1:8080)")
	pf.StringVar(&storeKind, "store", "", "user ID store: memory, file, sealed or sqlite")
	pf.StringVarP(&passphrase, "passphrase", "p", "", "passphrase for the sealed store")

	root.AddCommand(
		connectCmd(), subscribeCmd(), confirmCmd(), unsubscribeCmd(), statusCmd(),
		signCmd(), verifyCmd(), parseCmd(),
	)
	return root
}

// online wraps a command that needs the app and closes it afterwards.
func online(run func(cmd *cobra.Command, a *app.App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a := appCtx
		defer func() {
			appCtx = nil
			_ = a.Close()
		}()
		return run(cmd, a, args)
	}
}

// printOpener stands in for the OS: it prints the composer URL.
func printOpener(w io.Writer) func(context.Context, string) error {
	return func(_ context.Context, url string) error {
		_, err := fmt.Fprintf(w, "Open: %s\n", url)
		return err
	}
}

// keyFor returns --key, falling back to TEXTBUDDY_API_KEY.
func keyFor() (string, error) {
	if apiKey != "" {
		return apiKey, nil
	}
	if k := os.Getenv("TEXTBUDDY_API_KEY"); k != "" {
		return k, nil
	}
	return "", fmt.Errorf("api key required (--key or TEXTBUDDY_API_KEY)")
}
