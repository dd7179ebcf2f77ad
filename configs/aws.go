package configs

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/catalog"
)

// NewProductCatalog returns nil when no catalog table is configured.
func NewProductCatalog(ctx context.Context, cfg CatalogConfig) (catalog.ProductCatalog, error) {
	if cfg.Table == "" {
		return nil, nil
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	products, err := catalog.NewDynamoCatalog(dynamodb.NewFromConfig(awsCfg), cfg.Table)
	if err != nil {
		return nil, err
	}
	return products, nil
}
