package system

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ceprunsa/consultorio_backend/config"
	"github.com/ceprunsa/consultorio_backend/internal/service/user"
	"github.com/ceprunsa/consultorio_backend/internal/store"
	pasetotoken "github.com/ceprunsa/consultorio_backend/pkg/paseto"
	redispkg "github.com/ceprunsa/consultorio_backend/pkg/redis"
)

// NewTokenCommand issues an access token for an existing user. Identity
// provisioning happens outside this service, so this is how operators and
// integration tests obtain credentials.
func NewTokenCommand() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a PASETO access token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("--email is required")
			}

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

			u, err := user.New(store.NewStores(rdb)).ByEmail(context.Background(), email)
			if err != nil {
				return err
			}

			mgr, err := pasetotoken.NewPasetoManager(cfg)
			if err != nil {
				return err
			}
			token, err := mgr.IssueAccess(u.ID, u.Email)
			if err != nil {
				return err
			}

			fmt.Println(token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email of the user to issue a token for")

	return cmd
}
