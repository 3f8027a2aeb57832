package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"

	"prospect-crm-api/internal/config"
	"prospect-crm-api/internal/migration"
	"prospect-crm-api/internal/services"
	"prospect-crm-api/pkg/server"

	"github.com/sirupsen/logrus"
)

func main() {
	var (
		jsonPath = flag.String("json", "./data/seed", "Directory holding users.json, workspaces.json and prospectos.json")
		action   = flag.String("action", "import", "Action: import, check")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	logger := config.NewLogger(cfg.Logging)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	absJSONPath, err := filepath.Abs(*jsonPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to get absolute JSON path")
	}

	logger.WithFields(logrus.Fields{
		"json_path": absJSONPath,
		"action":    *action,
	}).Info("Starting JSON import tool")

	switch *action {
	case "check":
		importer := migration.NewJSONImporter(services.ServiceContainer{}, absJSONPath, logger)
		hasFiles, files := importer.CheckJSONFilesExist()
		if !hasFiles {
			fmt.Println("No seed files found in the specified directory.")
			return
		}
		fmt.Println("Seed files found:")
		for _, f := range files {
			fmt.Printf("  - %s\n", f)
		}
	case "import":
		if err := runImport(cfg, absJSONPath, logger); err != nil {
			logger.WithError(err).Fatal("Import failed")
		}
	default:
		logger.WithField("action", *action).Fatal("Unknown action. Use: import, check")
	}
}

func runImport(cfg *config.Config, jsonPath string, logger *logrus.Logger) error {
	ctx := context.Background()

	cfg.Database.AutoMigrate = true
	container, err := server.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	result, err := migration.NewJSONImporter(container.Services(), jsonPath, logger).Import(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Users imported:      %d\n", result.UsersImported)
	fmt.Printf("Workspaces imported: %d\n", result.WorkspacesImported)
	fmt.Printf("Prospects imported:  %d\n", result.ProspectsImported)
	fmt.Printf("Already present:     %d\n", result.Skipped)
	for _, w := range result.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}
	for _, e := range result.Errors {
		fmt.Printf("Error: %s\n", e)
	}
	return nil
}
