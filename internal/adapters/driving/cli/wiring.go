package cli

import (
	"context"

	"github.com/policyatlas/atlas-cli/internal/adapters/driven/auth"
	s3store "github.com/policyatlas/atlas-cli/internal/adapters/driven/objectstore/s3"
	"github.com/policyatlas/atlas-cli/internal/adapters/driven/storage/sqlite"
	"github.com/policyatlas/atlas-cli/internal/connectors/corpusapi"
	"github.com/policyatlas/atlas-cli/internal/core/ports/driven"
)

// newTokenProvider builds the token provider the config asks for. A static
// token wins over OAuth client credentials; with neither, requests are
// unauthenticated.
func newTokenProvider(ctx context.Context) (driven.TokenProvider, error) {
	if cfg.Auth.Token != "" {
		return auth.NewStaticTokenProvider(cfg.Auth.Token), nil
	}
	if cfg.Auth.ClientID != "" {
		return auth.NewClientCredentialsProvider(ctx,
			cfg.Auth.ClientID, cfg.Auth.ClientSecret, cfg.Auth.TokenURL, cfg.Auth.Scopes)
	}
	return auth.NewNullTokenProvider(), nil
}

// newStore opens the local SQLite store.
func newStore() (*sqlite.Store, error) {
	return sqlite.NewStore(cfg.Storage.DataDir)
}

// newObjectStore builds the S3 object store when caching is enabled; nil
// otherwise.
func newObjectStore(ctx context.Context) (*s3store.Store, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	return s3store.NewStore(ctx, s3store.Config{
		Bucket:         cfg.Cache.Bucket,
		Region:         cfg.Cache.Region,
		Endpoint:       cfg.Cache.Endpoint,
		ForcePathStyle: cfg.Cache.ForcePathStyle,
	})
}

// newConnector builds the corpus API connector backed by the given
// checkpoint store.
func newConnector(ctx context.Context, checkpoints driven.CheckpointStore) (*corpusapi.Connector, error) {
	tokenProvider, err := newTokenProvider(ctx)
	if err != nil {
		return nil, err
	}
	return corpusapi.New(cfg.ConnectorConfig(), tokenProvider, checkpoints)
}
