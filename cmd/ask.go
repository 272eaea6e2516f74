/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/docqa-be/config"
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question against the indexed documents",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		question := strings.Join(args, " ")
		topK, _ := cmd.Flags().GetInt("top-k")
		maxContext, _ := cmd.Flags().GetInt("max-context")

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		ctx := context.Background()
		p, err := buildPipeline(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to build pipeline: %v", err)
		}

		answer, err := p.ragService.AnswerWithOptions(ctx, question, topK, maxContext)
		if err != nil {
			log.Fatalf("Failed to answer: %v", err)
		}

		fmt.Println(answer.Text)
		if len(answer.Sources) == 0 {
			fmt.Println("\n(no document sources, answered from model knowledge)")
			return
		}
		fmt.Println("\nSources:")
		for _, source := range answer.Sources {
			if source.Page > 0 {
				fmt.Printf("  %s, page %d, chunk %d (score %.3f)\n", source.Filename, source.Page, source.Index, source.Score)
			} else {
				fmt.Printf("  %s, chunk %d (score %.3f)\n", source.Filename, source.Index, source.Score)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().Int("top-k", 0, "Number of chunks to retrieve (default from config)")
	askCmd.Flags().Int("max-context", 0, "Context budget in characters (default from config)")
}
