/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/docqa-be/config"
	"github.com/tieubaoca/docqa-be/utils"
)

// uploadDocumentCmd represents the upload-document command
var uploadDocumentCmd = &cobra.Command{
	Use:   "upload-document",
	Short: "Process and index documents from the command line",
	Long: `Reads one or more local files (docx, pdf), runs the full
extract/chunk/embed pipeline and indexes the chunks. Already processed
files are detected by content fingerprint and skipped.`,
	Run: func(cmd *cobra.Command, args []string) {
		files, _ := cmd.Flags().GetStringArray("file")
		if len(files) == 0 {
			log.Fatal("at least one --file is required")
		}

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		ctx := context.Background()
		p, err := buildPipeline(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to build pipeline: %v", err)
		}

		for _, path := range files {
			filename := filepath.Base(path)
			format, err := utils.FormatFromFilename(filename)
			if err != nil {
				log.Fatalf("%s: %v", filename, err)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				log.Fatalf("failed to read %s: %v", path, err)
			}

			stats, err := p.documentService.ProcessDocument(ctx, data, format, filename)
			if err != nil {
				log.Fatalf("failed to process %s: %v", filename, err)
			}

			if stats.Cached {
				fmt.Printf("%s: already processed (%d chunks, fingerprint %s)\n", filename, stats.ChunkCount, stats.Fingerprint)
				continue
			}
			fmt.Printf("%s: %d chunks indexed in %s", filename, stats.ChunkCount, stats.Duration)
			if len(stats.FailedPages) > 0 {
				fmt.Printf(", %d of %d pages failed", len(stats.FailedPages), stats.TotalPages)
			}
			fmt.Println()
			for _, failure := range stats.FailedPages {
				fmt.Printf("  page %d: %s\n", failure.Page, failure.Reason)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(uploadDocumentCmd)

	uploadDocumentCmd.Flags().StringArrayP("file", "f", []string{}, "Path to a file to upload (repeatable)")
}
