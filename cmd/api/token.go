package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"crm-commerce/internal/auth"
	"crm-commerce/internal/config"
)

// tokenCommand mints bearer tokens for operators and local testing.
func tokenCommand(cfg *config.Config) *cobra.Command {
	var (
		sub   string
		name  string
		role  string
		perms []string
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "issue a signed bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer)
			token, err := tokens.Generate(auth.Principal{
				UserID:      sub,
				Name:        name,
				Role:        auth.Role(strings.ToUpper(role)),
				Permissions: perms,
			}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&sub, "sub", "", "user id carried in the sub claim")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&role, "role", string(auth.RoleCustomer), "CUSTOMER or ADMIN")
	cmd.Flags().StringSliceVar(&perms, "perm", nil, "admin permission, repeatable (use * for all)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("sub")
	return cmd
}
