/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/docqa-be/config"
)

// clearCmd represents the clear command
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Evict the whole document cache and reset the vector index",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		ctx := context.Background()
		p, err := buildPipeline(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to build pipeline: %v", err)
		}

		if err := p.documentService.ClearAll(ctx); err != nil {
			log.Fatalf("Failed to clear: %v", err)
		}
		fmt.Println("Cache and index cleared")
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
