package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"regexp"

	"blog-service/config"
	"blog-service/database"
	"blog-service/logging"
	"blog-service/server"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

var migrationName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	commandFlag := flag.String("command", "start", "Command to run: start, migrate or create-migration")
	nameFlag := flag.String("name", "", "Migration name (alphanum+underscore only)")
	dirFlag := flag.String("dir", "./database/migrations", "Target directory for the new .sql file")
	cfg.BindFlags(flag.CommandLine)
	flag.Parse()

	if *commandFlag == "" {
		fmt.Println("Usage: go run main.go -command <command-name> [... other options]")
		os.Exit(1)
	}

	logging.Init()
	log := logging.GoUtils()

	switch *commandFlag {
	case "start":
		if err := cfg.Validate(); err != nil {
			log.Error("Invalid configuration", zap.Error(err))
			os.Exit(1)
		}
		server.StartServer(cfg, log, os.Exit)

	case "migrate":
		if err := cfg.Validate(); err != nil {
			log.Error("Invalid configuration", zap.Error(err))
			os.Exit(1)
		}
		dbConn, err := database.InitializeDatabase(context.Background(), cfg, log)
		if err != nil {
			log.Error("Migration failed", zap.Error(err))
			os.Exit(1)
		}
		dbConn.Close()

	case "create-migration":
		if !migrationName.MatchString(*nameFlag) {
			log.Error("Invalid migration name", zap.String("name", *nameFlag))
			os.Exit(1)
		}
		if err := goose.Create(nil, *dirFlag, *nameFlag, "sql"); err != nil {
			log.Error("Failed to create migration", zap.Error(err))
			os.Exit(1)
		}

	default:
		log.Error("Unknown command", zap.String("command", *commandFlag))
		os.Exit(1)
	}
}
