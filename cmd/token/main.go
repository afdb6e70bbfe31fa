// Package main issues access tokens signed with the configured secret,
// for development and service accounts.
// Usage: token --user u1 --company <uuid> --perm "catalog:*" --perm "document:*"
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"saletype/internal/config"
	appctx "saletype/internal/core/context"
	"saletype/internal/domain/auth"
)

var (
	configPath  string
	userID      string
	email       string
	companyID   string
	companyIDs  []string
	permissions []string
	lang        string
	admin       bool
	ttl         time.Duration
)

var rootCmd = &cobra.Command{
	Use:          "token",
	Short:        "Issue an API access token",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		jwtCfg := auth.JWTConfig{
			Secret:         cfg.JWT.Secret,
			Issuer:         cfg.JWT.Issuer,
			AccessTokenTTL: cfg.JWT.AccessTokenTTL,
		}
		if ttl > 0 {
			jwtCfg.AccessTokenTTL = ttl
		}

		ids := companyIDs
		if companyID != "" && len(ids) == 0 {
			ids = []string{companyID}
		}

		token, expiresAt, err := auth.NewJWTService(jwtCfg).GenerateAccessToken(appctx.UserContext{
			UserID:      userID,
			Email:       email,
			Permissions: permissions,
			CompanyID:   companyID,
			CompanyIDs:  ids,
			Lang:        lang,
			IsAdmin:     admin,
		})
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format(time.RFC3339))
		return nil
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "directory holding config.toml")
	flags.StringVar(&userID, "user", "", "user id (subject)")
	flags.StringVar(&email, "email", "", "user email")
	flags.StringVar(&companyID, "company", "", "working company id")
	flags.StringSliceVar(&companyIDs, "companies", nil, "companies the user may switch to")
	flags.StringArrayVar(&permissions, "perm", nil, "granted permission, repeatable (e.g. catalog:*)")
	flags.StringVar(&lang, "lang", "", "preferred locale, e.g. fr_FR")
	flags.BoolVar(&admin, "admin", false, "grant every permission")
	flags.DurationVar(&ttl, "ttl", 0, "token lifetime (default from config)")
	_ = rootCmd.MarkFlagRequired("user")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
