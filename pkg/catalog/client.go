package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// Connection submits mutations to the catalog.
type Connection interface {
	ApplyMutation(ctx context.Context, mutation *Mutation) error
}

// HTTPConnection submits mutations to a catalog HTTP endpoint as JSON.
type HTTPConnection struct {
	endpoint string
	client   *retryablehttp.Client
}

// NewHTTPConnection creates a connection posting mutations to
// <baseURL>/entities with transient-failure retries.
func NewHTTPConnection(baseURL string, logger *zap.SugaredLogger) *HTTPConnection {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.Logger = &leveledLogger{logger: logger}

	return &HTTPConnection{
		endpoint: fmt.Sprintf("%s/entities", baseURL),
		client:   client,
	}
}

// ApplyMutation posts one mutation to the catalog endpoint.
func (c *HTTPConnection) ApplyMutation(ctx context.Context, mutation *Mutation) error {
	body, err := json.Marshal(mutation)
	if err != nil {
		return fmt.Errorf("failed to marshal mutation: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to build mutation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to apply mutation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain a little of the body for the error message.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("catalog rejected mutation: %s: %s", resp.Status, snippet)
	}

	return nil
}

// leveledLogger adapts a zap.SugaredLogger to the retryablehttp logging
// interface.
type leveledLogger struct {
	logger *zap.SugaredLogger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, keysAndValues...)
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warnw(msg, keysAndValues...)
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Infow(msg, keysAndValues...)
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}
