package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"casinobot/models"

	"github.com/elastic/go-elasticsearch/v8"
)

// ElasticsearchConfig configures the search index decorator
type ElasticsearchConfig struct {
	Addresses []string
	Username  string
	Password  string
	Index     string

	// Transport replaces the HTTP transport, mostly for tests
	Transport http.RoundTripper
}

// ElasticsearchSink saves to a base sink and then indexes the result for search
type ElasticsearchSink struct {
	base   Sink
	client *elasticsearch.Client
	index  string
}

func NewElasticsearchSink(base Sink, config ElasticsearchConfig) (*ElasticsearchSink, error) {
	cfg := elasticsearch.Config{
		Addresses: config.Addresses,
		Transport: config.Transport,
	}
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}

	index := config.Index
	if index == "" {
		index = "game-results"
	}
	return &ElasticsearchSink{base: base, client: client, index: index}, nil
}

func (s *ElasticsearchSink) Save(ctx context.Context, result *models.GameResult) error {
	if err := s.base.Save(ctx, result); err != nil {
		return fmt.Errorf("error saving game result to base sink: %w", err)
	}
	return s.Index(ctx, result)
}

// Index writes the result under its session ID so a retry overwrites
// rather than duplicates
func (s *ElasticsearchSink) Index(ctx context.Context, result *models.GameResult) error {
	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("error marshaling game result: %w", err)
	}

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(body),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(result.SessionID.String()),
		s.client.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("error indexing game result: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing game result: %s", res.String())
	}
	return nil
}
