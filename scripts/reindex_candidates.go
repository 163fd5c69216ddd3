package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/app"
	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/models"
)

// Rebuilds the candidate search index from the records in the database.
func main() {
	configFile := pflag.StringP("config", "c", "", "path to a config file")
	jobTitle := pflag.StringP("job-title", "t", "", "only reindex candidates for this job title")
	pflag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to initialize application", zap.Error(err))
	}

	if application.Index == nil {
		log.Fatal("candidate index is not configured, set QDRANT_URL and GEMINI_API_KEY")
	}

	var records []models.CandidateRecord
	if *jobTitle != "" {
		records, err = application.Records.ListByJobTitle(*jobTitle)
	} else {
		records, err = application.Records.ListAll()
	}
	if err != nil {
		log.Fatal("failed to load candidate records", zap.Error(err))
	}

	log.Info("starting reindex", zap.Int("records", len(records)))

	successCount := 0
	failCount := 0

	for i, record := range records {
		recordLog := log.With(
			zap.String(logger.FieldRecordID, record.ID.String()),
			zap.String(logger.FieldFilename, record.Filename),
		)

		if err := application.Index.RemoveCandidate(ctx, record.ID); err != nil {
			recordLog.Warn("failed to remove stale entries", zap.Error(err))
		}

		if err := application.Index.IndexCandidate(ctx, record); err != nil {
			recordLog.Error("failed to index candidate", zap.Error(err))
			failCount++
			continue
		}
		successCount++

		if (i+1)%10 == 0 || i == len(records)-1 {
			log.Info("progress", zap.Int("done", i+1), zap.Int("total", len(records)))
		}
	}

	log.Info(strings.Repeat("=", 40))
	log.Info("reindex summary", zap.Int("successful", successCount), zap.Int("failed", failCount))

	application.Close()
	if failCount > 0 {
		os.Exit(1)
	}
}
