package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// NewUploadCmd builds the one-shot document upload subcommand.
func NewUploadCmd(configPath, serverURL, token *string) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a study PDF for remote indexing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, _, err := buildSession(*configPath, *serverURL, *token)
			if err != nil {
				return err
			}
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			if err := session.UploadDocument(cmd.Context(), filepath.Base(args[0]), file); err != nil {
				return err
			}
			fmt.Println("Document uploaded and indexed.")
			return nil
		},
	}
}
