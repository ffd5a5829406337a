package cli

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/terraincognita07/lunacycle/internal/config"
	"github.com/terraincognita07/lunacycle/internal/models"
)

func newImportCommand(options *rootOptions) *cobra.Command {
	var (
		userKey string
		path    string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace a user's periods with the ones in a period document file",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			cfg, err := config.Load(options.configPath)
			if err != nil {
				return err
			}

			document, err := readDocumentFile(cmd, path)
			if err != nil {
				return err
			}

			documents, closeStore, err := openDocumentStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() {
				err = multierr.Append(err, closeStore())
			}()

			imported, err := newPeriodService(cfg, documents).ImportPeriods(cmd.Context(), userKey, document.Periods)
			if err != nil {
				return err
			}

			log.WithField("user", userKey).Debugf("imported %d periods", len(imported))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d periods for %s\n", len(imported), userKey)
			return err
		},
	}

	cmd.Flags().StringVarP(&userKey, "user", "u", "", "user key")
	cmd.Flags().StringVarP(&path, "file", "f", "-", "period document JSON file, - for stdin")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func readDocumentFile(cmd *cobra.Command, path string) (models.PeriodDocument, error) {
	var (
		payload []byte
		err     error
	)
	if path == "-" {
		payload, err = io.ReadAll(cmd.InOrStdin())
	} else {
		payload, err = os.ReadFile(path)
	}
	if err != nil {
		return models.PeriodDocument{}, fmt.Errorf("read %s: %w", path, err)
	}
	return models.DecodePeriodDocument(payload)
}
