package cli

import (
	"fmt"

	"github.com/SscSPs/smb_books/internal/utils"
	"github.com/spf13/cobra"
)

func newKeygenCmd() *cobra.Command {
	var size int
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Print a hex encoded random secret",
		Long: `keygen prints hex encoded random bytes. The default of 32 bytes is
the size ACCOUNT_NUMBER_KEY expects and is also suitable for JWT_SECRET.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if size < 16 {
				return fmt.Errorf("--bytes must be at least 16, got %d", size)
			}
			secret, err := utils.GenerateSecureRandomString(size)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), secret)
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "bytes", 32, "number of random bytes")
	return cmd
}
