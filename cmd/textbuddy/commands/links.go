package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"textbuddy/internal/crypto"
	"textbuddy/internal/deeplink"
	"textbuddy/internal/domain"
)

// sign key=value...: print the canonical query with its signature appended.
func signCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "sign key=value...",
		Short:       "Print a signed query string",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{offline: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := keyFor()
			if err != nil {
				return err
			}
			q := make(domain.Query, len(args))
			for _, a := range args {
				k, v, ok := strings.Cut(a, "=")
				if !ok || k == "" {
					return fmt.Errorf("bad pair %q, want key=value", a)
				}
				q[k] = v
			}
			canonical, err := crypto.Canonical(q, crypto.DefaultSignatureKey)
			if err != nil {
				return err
			}
			sig, err := crypto.Sign(q, key, crypto.DefaultSignatureKey)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s&%s=%s\n", canonical, crypto.DefaultSignatureKey, sig)
			return nil
		},
	}
	cmd.Flags().StringVar(&apiKey, "key", "", "signing key (default $TEXTBUDDY_API_KEY)")
	return cmd
}

func verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "verify <url>",
		Short:       "Check a deep link's signature",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{offline: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := keyFor()
			if err != nil {
				return err
			}
			link := deeplink.Parse(args[0])
			if !link.Valid() {
				return fmt.Errorf("not an absolute URL: %q", args[0])
			}
			q, ok := link.Query()
			if !ok {
				return fmt.Errorf("link has no usable query")
			}
			if err := crypto.Verify(q, key, crypto.DefaultSignatureKey); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "signature valid")
			return nil
		},
	}
	cmd.Flags().StringVar(&apiKey, "key", "", "signing key (default $TEXTBUDDY_API_KEY)")
	return cmd
}

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "parse <url>",
		Short:       "Print the parts of a deep link",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{offline: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			link := deeplink.Parse(args[0])
			if !link.Valid() {
				return fmt.Errorf("not an absolute URL: %q", args[0])
			}
			out := cmd.OutOrStdout()
			scheme, _ := link.Scheme()
			host, _ := link.Host()
			path, _ := link.Path()
			fmt.Fprintf(out, "scheme: %s\nhost: %s\npath: %s\n", scheme, host, path)

			q, ok := link.Query()
			if !ok {
				fmt.Fprintln(out, "query: none")
				return nil
			}
			keys := make([]string, 0, len(q))
			for k := range q {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintln(out, "query:")
			for _, k := range keys {
				fmt.Fprintf(out, "  %s = %q\n", k, q[k])
			}
			return nil
		},
	}
}
