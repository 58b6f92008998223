package system

import (
	"fmt"

	"github.com/spf13/cobra"

	pasetotoken "github.com/ceprunsa/consultorio_backend/pkg/paseto"
)

// NewKeygenCommand prints fresh PASETO key material for the configured mode.
func NewKeygenCommand() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate PASETO key material",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch pasetotoken.Mode(mode) {
			case pasetotoken.ModeLocal:
				fmt.Printf("local_key_hex: %s\n", pasetotoken.GenerateLocalKeyHex())
			case pasetotoken.ModePublic:
				secretHex, publicHex := pasetotoken.GeneratePublicKeyPairHex()
				fmt.Printf("secret_key_hex: %s\n", secretHex)
				fmt.Printf("public_key_hex: %s\n", publicHex)
			default:
				return fmt.Errorf("--mode must be local or public")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "local", "key mode: local (symmetric) or public (ed25519)")

	return cmd
}
