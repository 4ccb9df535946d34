package main

import (
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/Lucifer7355/approval-checks/internal/checks"
	"github.com/Lucifer7355/approval-checks/internal/config"
	"github.com/Lucifer7355/approval-checks/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := logging.MustBuild(cfg.LogLevel, cfg.Env)
	defer logger.Sync()

	h := checks.NewHandler(logger)
	lambda.Start(h.Address)
}
