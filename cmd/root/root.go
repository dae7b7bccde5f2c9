// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/revolut-ocr/internal/common"
	"fjacquet/revolut-ocr/internal/config"
	"fjacquet/revolut-ocr/internal/container"
	"fjacquet/revolut-ocr/internal/logging"
	"fjacquet/revolut-ocr/internal/validation"

	"github.com/spf13/cobra"
)

// Cmd is the root command
var Cmd = NewCommand()

// NewCommand builds the root command. opts are passed to the dependency
// container, which lets tests swap the OCR engine or the archive.
func NewCommand(opts ...container.Option) *cobra.Command {
	return &cobra.Command{
		Use:   "revolut-ocr <image>...",
		Short: "Extract dated transactions from Revolut statement screenshots.",
		Long: `revolut-ocr reads Revolut app screenshots with OCR, recognizes the date
headers, stock trades and payments in them and prints one
date;category;amount row per transaction.

Files are processed in the order given; a date header in one screenshot
applies to the transactions at the top of the next one.`,
		Example:       "  revolut-ocr screenshots/*.png > transactions.csv",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return run(cmd, args, opts)
		},
	}
}

func run(cmd *cobra.Command, files []string, opts []container.Option) error {
	if err := validation.ValidateInputFiles(files); err != nil {
		return err
	}

	cfg, err := config.InitializeConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	opts = append([]container.Option{container.WithProgress(cmd.ErrOrStderr())}, opts...)
	c, err := container.NewContainer(cfg, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			c.GetLogger().WithError(err).Warn("Failed to close container")
		}
	}()

	res, err := c.GetSession().Run(cmd.Context(), files)
	if err != nil {
		return err
	}

	if err := common.WriteLedgerCSV(cmd.OutOrStdout(), res.Ledger, c.CSVOptions()); err != nil {
		return err
	}

	c.GetLogger().Debug("Ledger written",
		logging.F(logging.FieldCount, res.Ledger.Len()),
		logging.F("files", res.Files),
		logging.F("archived", res.Archived))
	return nil
}
