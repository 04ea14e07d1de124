package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/narvas12/mercor-assessment/internal/applicants"
	"github.com/narvas12/mercor-assessment/internal/document"
	"github.com/narvas12/mercor-assessment/internal/pipeline"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var decompressCmd = &cobra.Command{
	Use:   "decompress <applicant-id>",
	Short: "Write the compressed JSON document back into the applicant's child tables",
	Long: "Write the compressed JSON document back into the applicant's child tables. " +
		"The document comes from the applicant's Compressed JSON field, or from a file with --json-file. " +
		"Existing work experience rows are replaced with the document's entries.",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		decompress(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(decompressCmd)

	decompressCmd.Flags().String("json-file", "", "read the document from a file instead of the stored field")
	decompressCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation before replacing child records")
}

func decompress(cmd *cobra.Command, applicantID string) {
	ctx := context.Background()
	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	store, err := newStore(config, logger)
	if err != nil {
		logger.Fatal("building the store", zap.Error(err))
	}

	doc, err := loadDocument(ctx, cmd, store, applicantID)
	if err != nil {
		logger.Fatal("loading the document", zap.String("applicant_id", applicantID), zap.Error(err))
	}

	if cmd.Flag("yes").Value.String() == "false" {
		prompt := promptui.Select{
			Label: fmt.Sprintf("Replace the child records of applicant %s with the document's %d experience entries?",
				applicantID, len(doc.Experience)),
			Items: []string{PromptYes, PromptNo},
		}

		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if action != PromptYes {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	decompressor := pipeline.NewDecompressor(store, logger)
	if err := decompressor.Decompress(ctx, applicantID, doc); err != nil {
		logger.Fatal("decompressing applicant", zap.String("applicant_id", applicantID), zap.Error(err))
	}
}

// loadDocument resolves the document source: a file when --json-file is set,
// otherwise the applicant's stored Compressed JSON field.
func loadDocument(ctx context.Context, cmd *cobra.Command, store *applicants.Store, applicantID string) (*document.Document, error) {
	if file := cmd.Flag("json-file").Value.String(); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading document file: %w", err)
		}
		return document.Parse(data)
	}

	applicant, err := store.FindApplicant(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	if applicant.CompressedJSON == "" {
		return nil, fmt.Errorf("applicant %s has no compressed json to decompress", applicantID)
	}

	return document.Parse([]byte(applicant.CompressedJSON))
}
