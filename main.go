package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/project-showcase-backend/api"
	"github.com/rpupo63/project-showcase-backend/config"
	"github.com/rpupo63/project-showcase-backend/database"
	"github.com/rpupo63/project-showcase-backend/models"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()
	configureLogging(c)

	db, err := database.Open(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		log.Fatal().Err(err).Msg("Error testing database connection")
	}

	currentDB := database.New(db)
	defer currentDB.Close()

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		fmt.Println("Generating models and query helpers...")
		if err := models.GenerateModels(db); err != nil {
			log.Fatal().Err(err).Msg("Model generation failed")
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		fmt.Println("Generating column mismatch report...")
		if _, err := models.GenerateColumnMismatchReport(db); err != nil {
			log.Fatal().Err(err).Msg("Column report failed")
		}
		return
	}

	if config.GetBool(c, "AUTO_MIGRATE", false) {
		log.Info().Msg("Migrating schema...")
		if err := currentDB.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("Migration failed")
		}
	}

	// Seed an author and print a session token for it, then exit
	if email := config.GetString(c, "SEED_AUTHOR_EMAIL", ""); email != "" {
		if err := seedAuthor(currentDB, c, email); err != nil {
			log.Fatal().Err(err).Msg("Seeding author failed")
		}
		return
	}

	// Buffered so the server goroutine can still report after shutdown begins
	errChannel := make(chan error, 2)

	server, err := api.NewServer(currentDB, c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// configureLogging applies LOG_LEVEL and, when LOG_PRETTY is set, switches the
// global logger to console output.
func configureLogging(c map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(c, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.GetBool(c, "LOG_PRETTY", false) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// seedAuthor upserts the author named by SEED_AUTHOR_EMAIL/SEED_AUTHOR_NAME
// and prints a session token so the author can create projects.
func seedAuthor(db database.Database, c map[string]string, email string) error {
	sessionConfig, err := api.SessionConfigFromEnv(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	author, err := db.AuthorRepo().UpsertByEmail(ctx, &models.Author{
		Name:  config.GetString(c, "SEED_AUTHOR_NAME", email),
		Email: email,
	})
	if err != nil {
		return err
	}

	token, expiresAt, err := api.IssueSessionToken(sessionConfig, author.ID, author.Email, author.Name, time.Now())
	if err != nil {
		return err
	}

	fmt.Printf("Author: %s <%s>\n", author.ID, author.Email)
	fmt.Printf("Session token (expires %s):\n%s\n", expiresAt.Format(time.RFC3339), token)
	return nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
