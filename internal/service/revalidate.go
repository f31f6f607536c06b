package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"facility-admin-backend/internal/logger"
)

type webhookRevalidator struct {
	url    string
	token  string
	client *http.Client
}

// NewWebhookRevalidator posts {"paths": [...]} to the dashboard's revalidation endpoint.
func NewWebhookRevalidator(url, token string, timeout time.Duration) Revalidator {
	return &webhookRevalidator{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: timeout},
	}
}

func (r *webhookRevalidator) Revalidate(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	body, err := json.Marshal(map[string][]string{"paths": paths})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build revalidate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	logger.ExternalServiceCall("revalidate", "Revalidate", "paths", paths)
	resp, err := r.client.Do(req)
	if err != nil {
		err = fmt.Errorf("failed to call revalidate webhook: %w", err)
		logger.ExternalServiceResult("revalidate", "Revalidate", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		err = fmt.Errorf("revalidate webhook returned status %d", resp.StatusCode)
		logger.ExternalServiceResult("revalidate", "Revalidate", err)
		return err
	}
	logger.ExternalServiceResult("revalidate", "Revalidate", nil)
	return nil
}

// NoopRevalidator leaves cache invalidation to the caller.
type NoopRevalidator struct{}

func (NoopRevalidator) Revalidate(ctx context.Context, paths ...string) error {
	return nil
}
