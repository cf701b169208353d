package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	jwttoken "confcentral/internal/jwt_token"
	"confcentral/internal/platform/config"
	"confcentral/internal/platform/logger"
	"confcentral/internal/platform/postgres"
	profileservice "confcentral/internal/profile/service"
	registrationservice "confcentral/internal/registration/service"
	"confcentral/internal/seed"
	pgstore "confcentral/internal/storage/postgres"
	wishlistservice "confcentral/internal/wishlist/service"
)

var cfg config.Config

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "seed",
		Short:        "Seed conference data and mint development tokens",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.FromEnv()
			return err
		},
	}
	root.AddCommand(loadCmd(), tokenCmd())
	return root
}

func loadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <fixture.yaml>...",
		Short: "Apply fixtures to the PostgreSQL store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logger.New(cfg.Server.LogLevel)

			db, err := postgres.Open(ctx, cfg.Postgres)
			if err != nil {
				return err
			}
			if db == nil {
				return errors.New("CONFCENTRAL_POSTGRES_DSN is required")
			}
			defer db.Close()

			store := pgstore.New(db, pgstore.WithTxTimeout(cfg.Store.TxTimeout))
			if cfg.Postgres.Migrate {
				if err := store.Migrate(ctx); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
			}
			profiles := profileservice.New(store, profileservice.WithLogger(log))
			runner := seed.NewRunner(store,
				registrationservice.New(store, profiles, registrationservice.WithLogger(log)),
				wishlistservice.New(store, profiles, wishlistservice.WithLogger(log)),
				log,
			)

			for _, path := range args {
				f, err := seed.LoadFile(path)
				if err != nil {
					return err
				}
				sum, err := runner.Apply(ctx, f)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d profiles, %d conferences, %d sessions, %d registrations, %d wishes\n",
					path, sum.Profiles, sum.Conferences, sum.Sessions, sum.Registrations, sum.Wishes)
			}
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	var (
		email string
		name  string
		ttl   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Mint a bearer token signed with the configured JWT key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
			token, err := svc.GenerateAccessToken(args[0], email, name, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().StringVar(&name, "name", "", "display name claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
