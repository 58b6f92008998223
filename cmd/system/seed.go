package system

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ceprunsa/consultorio_backend/config"
	"github.com/ceprunsa/consultorio_backend/internal/model"
	"github.com/ceprunsa/consultorio_backend/internal/service/settings"
	"github.com/ceprunsa/consultorio_backend/internal/store"
	"github.com/ceprunsa/consultorio_backend/pkg/authorize"
	redispkg "github.com/ceprunsa/consultorio_backend/pkg/redis"
)

// NewSeedCommand seeds the settings document and the first admin user so a
// fresh deployment has someone who can manage everything else.
func NewSeedCommand() *cobra.Command {
	var adminEmail string
	var adminName string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed default settings and the first admin user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return err
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return err
			}

			rdb, err := redispkg.New(cfg.Redis)
			if err != nil {
				return err
			}
			defer rdb.Close()

			ctx := context.Background()
			db := store.NewStores(rdb)

			if _, err := settings.New(db).Get(ctx); err != nil {
				return fmt.Errorf("seed settings: %w", err)
			}
			fmt.Println("Settings document in place.")

			if adminEmail == "" {
				return nil
			}

			existing, err := db.Users.List(ctx, func(u model.User) bool { return u.Email == adminEmail })
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				fmt.Printf("User %s already exists, skipping.\n", adminEmail)
				return nil
			}

			u, err := db.Users.Create(ctx, model.User{
				Email:       adminEmail,
				DisplayName: adminName,
				Role:        authorize.RoleAdmin,
				CreatedAt:   model.NowISO(),
				CreatedBy:   "system",
			})
			if err != nil {
				return fmt.Errorf("create admin user: %w", err)
			}
			fmt.Printf("Admin user created: %s (%s)\n", u.Email, u.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&adminEmail, "admin-email", "", "email of the first admin user to create")
	cmd.Flags().StringVar(&adminName, "admin-name", "", "display name of the first admin user")

	return cmd
}
