package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newVaultCommand(ctx *commandContext) *cobra.Command {
	vaultCmd := &cobra.Command{
		Use:   "vault",
		Short: "Read cookies from the encrypted Cookie Vault",
	}

	vaultCmd.AddCommand(newVaultDomainsCommand(ctx))
	vaultCmd.AddCommand(newVaultCookiesCommand(ctx))

	return vaultCmd
}

func newVaultDomainsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "domains",
		Short: "List domains with synced cookies",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.vaultClient()
			if err != nil {
				return err
			}

			domains, err := client.Domains(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(domains))
			for _, entry := range domains {
				rows = append(rows, []string{
					entry.Domain,
					strconv.Itoa(entry.CookieCount),
					yesNo(entry.HasAuthCookies),
					entry.SyncedAt,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Domain", "Cookies", "Auth", "Synced"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newVaultCookiesCommand(ctx *commandContext) *cobra.Command {
	var (
		domain string
		maxAge time.Duration
		header bool
	)

	cmd := &cobra.Command{
		Use:   "cookies",
		Short: "Decrypt and print cookies for a domain",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(domain) == "" {
				return fmt.Errorf("--domain is required")
			}

			client, err := ctx.vaultClient()
			if err != nil {
				return err
			}

			if header {
				value, err := client.CookieHeader(cmd.Context(), domain, maxAge)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			}

			cookies, err := client.Cookies(cmd.Context(), domain, maxAge)
			if err != nil {
				return err
			}
			return writeJSON(cmd, cookies)
		},
	}

	cmd.Flags().StringVar(&domain, "domain", "", "Domain to fetch cookies for (partial match)")
	cmd.Flags().DurationVar(&maxAge, "max-age", 0, "Skip entries synced longer ago than this (e.g. 24h)")
	cmd.Flags().BoolVar(&header, "header", false, "Print a Cookie header value instead of JSON")

	return cmd
}
