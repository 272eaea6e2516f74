/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/tieubaoca/docqa-be/config"
	"github.com/tieubaoca/docqa-be/handler"
	"github.com/tieubaoca/docqa-be/service"
)

// startServerCmd represents the start command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the document QA server",
	Long:  `Starts a server that ingests documents and answers questions against them`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		p, err := buildPipeline(context.Background(), cfg)
		if err != nil {
			log.Fatalf("Failed to build pipeline: %v", err)
		}

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		uploadHandler := handler.NewUploadHandler(p.documentService, cfg.UploadDir)
		askHandler := handler.NewAskHandler(p.ragService)
		documentHandler := handler.NewDocumentHandler(p.documentService)
		wsService := service.NewWebSocketService(p.ragService)

		// Setup Gin router
		router := gin.Default()
		router.Use(corsHandler.CorsMiddleware)

		apiV1 := router.Group("/api/v1")
		{
			apiV1.POST("/documents/upload", uploadHandler.UploadDocumentHandler)
			apiV1.GET("/documents", documentHandler.HandleListDocuments)
			apiV1.GET("/documents/stats", documentHandler.HandleStats)
			apiV1.DELETE("/documents/:fingerprint", documentHandler.HandleDeleteDocument)
			apiV1.POST("/ask", askHandler.HandleAsk)
		}
		router.GET("/ws/chat", func(c *gin.Context) {
			wsService.HandleChat(c.Writer, c.Request)
		})

		log.Printf("Starting server on port %s...\n", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}
