package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/imrishuroy/bakery-storefront/internal/aws"
	"github.com/imrishuroy/bakery-storefront/internal/config"
	"github.com/imrishuroy/bakery-storefront/internal/logger"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		logger.Log.Fatal("failed to load config", zap.Error(err))
	}
	defer logger.Sync()

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		logger.Log.Fatal("failed to init aws clients", zap.Error(err))
	}
	p := NewProcessor(clients, cfg.CloudWatchNamespace)

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if cfg.RunLocal {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"type":"order.placed","order_id":"local-order-1","grand_total":553}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{MessageId: "local-1", Body: testBody},
			},
		}
		if err := p.Handle(context.Background(), event); err != nil {
			logger.Log.Fatal("local handler error", zap.Error(err))
		}
		return
	}

	lambda.Start(p.Handle)
}

// loadConfig reads configuration and initializes the logger for cfg.Env. When loading
// fails the logger is still initialized (development) so the error can be reported.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		logger.Initialize("development")
		return nil, err
	}
	logger.Initialize(cfg.Env)
	return cfg, nil
}
