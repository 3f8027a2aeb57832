package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"prospect-crm-api/internal/config"
	"prospect-crm-api/internal/database"

	"github.com/sirupsen/logrus"
)

func main() {
	var (
		printDDL = flag.Bool("print", false, "Print the DDL for the configured driver instead of applying it")
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

	if *printDDL {
		dialect, err := database.DialectFor(cfg.Database.Driver)
		if err != nil {
			logger.WithError(err).Fatal("Unsupported driver")
		}
		ddl, err := database.Schema(dialect)
		if err != nil {
			logger.WithError(err).Fatal("Failed to read schema")
		}
		fmt.Print(ddl)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// Connect applies the bundled schema when AutoMigrate is set
	cfg.Database.AutoMigrate = true
	connections := database.NewConnectionManager(cfg.Database, logger)
	if err := connections.Connect(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to apply schema")
	}
	defer connections.Close()

	logger.WithField("driver", connections.Dialect().Name()).Info("Schema applied")
}
