package main

import (
	"bufio"
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/diegoclair/shift-board/internal/api"
	"github.com/diegoclair/shift-board/internal/config"
	"github.com/diegoclair/shift-board/internal/database"
	"github.com/diegoclair/shift-board/internal/domain/service"
	"github.com/diegoclair/shift-board/migrator/sqlite"
	"github.com/joho/godotenv"
	"github.com/slack-go/slack"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Printf("Invalid configuration: %v", err)
		return 1
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Printf("Invalid configuration: %v", err)
		return 1
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Printf("Failed to initialize database: %v", err)
		return 1
	}
	defer db.Close()

	if err := sqlite.Migrate(db.DB()); err != nil {
		log.Printf("Failed to prepare local store: %v", err)
		return 1
	}

	cli := &commandLine{
		client: api.New(cfg.APIBaseURL, cfg.HTTPTimeout),
		dm:     database.NewInstance(db),
		loc:    loc,
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		now:    timeNow,
	}
	if cfg.SlackEnabled() {
		cli.slackClient = slack.New(cfg.SlackBotToken)
		cli.slackChannelID = cfg.SlackChannelID
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.run(ctx, os.Args); err != nil {
		if err != errHelp && !service.Notified(err) {
			log.Printf("error: %s", err)
		}
		return 1
	}
	return 0
}
