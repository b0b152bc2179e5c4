package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"carsearch/internal/config"
	"carsearch/internal/llm"
	"carsearch/internal/repository"
	"carsearch/internal/service"
	"carsearch/pkg/logger"

	"go.uber.org/zap"
)

// Interactive terminal agent: the same conversation loop the WebSocket
// gateway runs, driven from stdin. Useful for exercising extraction and
// search without a client.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Logging.Level, "console")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer repo.Close()

	generator := llm.New(llm.Options{
		Provider:    cfg.LLM.Provider,
		OllamaURL:   cfg.LLM.OllamaURL,
		OllamaModel: cfg.LLM.OllamaModel,
		Timeout:     time.Duration(cfg.LLM.Timeout) * time.Second,
	}, zlog)

	extractor := service.NewExtractor(generator, zlog)
	session := service.NewSession(extractor, repo, zlog)

	fmt.Println("Car search agent. Describe the car you're looking for; 'quit' to exit.")
	fmt.Printf("Generation backend: %s\n\n", generator.Name())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "quit" || input == "exit" {
			break
		}

		reply := session.Process(context.Background(), input)
		fmt.Printf("\nagent> %s\n\n", reply)
	}

	fmt.Println("Goodbye!")
}
