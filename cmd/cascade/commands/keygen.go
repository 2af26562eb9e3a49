package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mosaicnetworks/cascade/pki"
)

// NewKeygenCmd produces a KeygenCmd which generates a new Ed25519 key pair
// under --datadir, the cascade counterpart of the teacher's own keygen
// command (cmd/babble/commands/keygen.go), swapped from an ECDSA key
// written by hand to the PKCS8 PEM pki.PemKey already used by run.
func NewKeygenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Create a new key pair",
		RunE:  keygen,
	}

	cmd.Flags().StringVar(&config.Node.DataDir, "datadir", config.Node.DataDir, "Directory to write the key pair into")

	return cmd
}

func keygen(cmd *cobra.Command, args []string) error {
	kp, err := pki.LoadOrGenerate(config.Node.DataDir)
	if err != nil {
		return fmt.Errorf("cascade: generating key pair: %w", err)
	}

	fmt.Println("AccountKey:", kp.AccountKey().ToHexString(32))
	fmt.Println("Written to:", config.Node.DataDir)

	return nil
}
