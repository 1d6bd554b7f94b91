package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gigindia/marketplace/internal/core/domain"
	"github.com/gigindia/marketplace/internal/core/service"
	"github.com/gigindia/marketplace/internal/infrastructure/config"
)

func sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Mint or inspect session tokens",
		Long: `Mint or inspect session tokens with the configured SESSION_SECRET.

Examples:
  gigindia session mint --id 6f1c... --email asha@example.com --name Asha --role freelancer
  gigindia session verify <token>`,
	}
	cmd.AddCommand(sessionMintCmd(), sessionVerifyCmd())
	return cmd
}

func sessionMintCmd() *cobra.Command {
	var s domain.Session

	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Sign a session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := loadCodec(cmd)
			if err != nil {
				return err
			}
			token, err := codec.Create(s)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&s.ID, "id", "", "User id")
	cmd.Flags().StringVar(&s.Email, "email", "", "User email")
	cmd.Flags().StringVar(&s.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&s.Role, "role", domain.RoleFreelancer, "Role (freelancer, employer, admin)")

	return cmd
}

func sessionVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <token>",
		Short: "Verify a session token and print its payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := loadCodec(cmd)
			if err != nil {
				return err
			}
			session, err := codec.Verify(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("token rejected (%s): %w", domain.VerifyReason(err), err)
			}
			return writeJSON(cmd.OutOrStdout(), session)
		},
	}
}

func loadCodec(cmd *cobra.Command) (*service.SessionCodec, error) {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return nil, err
	}
	codec, err := service.NewSessionCodec(cfg.Session.Secret, cfg.Session.TTL, cfg.Session.Issuer)
	if errors.Is(err, domain.ErrSigningKeyMissing) {
		return nil, fmt.Errorf("SESSION_SECRET is empty: %w", err)
	}
	return codec, err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
