package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gigindia/marketplace/internal/core/domain"
	"github.com/gigindia/marketplace/internal/core/service"
	"github.com/gigindia/marketplace/internal/infrastructure/config"
	"github.com/gigindia/marketplace/internal/infrastructure/db/postgres"
	"github.com/gigindia/marketplace/pkg/logger"
)

func provisionCmd() *cobra.Command {
	var (
		userID      string
		userType    string
		fullName    string
		displayName string
		attrs       []string
	)

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Create the profile row of an existing user",
		Long: `Create the profile row of an existing user.

Runs the same idempotent provisioning the registration flow uses. Calling
it for a user that already has a profile succeeds without writing.

Examples:
  gigindia provision --user-id 6f1c... --type freelancer --full-name "Asha Rao" --display-name asha
  gigindia provision --user-id 8d2e... --type employer --full-name "Ravi" --display-name ravi --attr company_name=Acme`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := parseAttrs(attrs)
			if err != nil {
				return err
			}
			data["full_name"] = fullName
			data["display_name"] = displayName

			ctx := cmd.Context()
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "gigindia", Output: os.Stderr})

			pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL, MaxConns: 2})
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := service.NewProfileService(postgres.NewProfileRepository(pool), nil, log)
			res := svc.Provision(ctx, userID, data, domain.UserType(userType))
			if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !res.Success {
				return fmt.Errorf("provisioning failed: %s", res.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user-id", "", "User id to provision for")
	cmd.Flags().StringVar(&userType, "type", "", "Profile type (freelancer or employer)")
	cmd.Flags().StringVar(&fullName, "full-name", "", "Full name")
	cmd.Flags().StringVar(&displayName, "display-name", "", "Display name")
	cmd.Flags().StringArrayVar(&attrs, "attr", nil, "Extra profile attribute as key=value (repeatable)")
	_ = cmd.MarkFlagRequired("user-id")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

// parseAttrs turns key=value pairs into profile data.
func parseAttrs(pairs []string) (domain.ProfileData, error) {
	data := make(domain.ProfileData, len(pairs)+2)
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --attr %q, want key=value", p)
		}
		data[k] = v
	}
	return data, nil
}
