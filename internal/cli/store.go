package cli

import (
	"context"
	"fmt"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"storefront/internal/config"
	"storefront/retail"
	"storefront/store"
)

// openStore builds the document store the command will run against: the
// in-memory store with --memory, otherwise a DynamoDB client from the
// ambient AWS configuration.
func openStore(ctx context.Context, opts *RootOptions, cfg config.Config) (store.Store, error) {
	if opts.Memory {
		return store.NewMemory(), nil
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.AWSRegion != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.AWSRegion))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoEndpoint != "" {
			o.BaseEndpoint = &cfg.DynamoEndpoint
		}
	})
	return store.NewDynamo(client), nil
}

// openRepository opens the store and wires the repository over it.
func openRepository(ctx context.Context, opts *RootOptions, cfg config.Config, log *slog.Logger) (*retail.Repository, error) {
	s, err := openStore(ctx, opts, cfg)
	if err != nil {
		return nil, err
	}
	return retail.NewRepository(s, cfg.Tables(), log), nil
}
