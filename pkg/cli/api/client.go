/*
Copyright © 2026 masteryyh <yyh991013@163.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/masteryyh/scaffold/pkg/models"
	"github.com/masteryyh/scaffold/pkg/services"
	"github.com/masteryyh/scaffold/pkg/utils/pagination"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	username   string
	password   string
	token      string
}

type Option func(*Client)

func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

func WithBearerToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) doRequest(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	switch {
	case c.token != "":
		req.Header.Set("Authorization", "Bearer "+c.token)
	case c.username != "" && c.password != "":
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp.StatusCode, respBody)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

func (c *Client) ListExamples(ctx context.Context) ([]models.ExampleDto, error) {
	var result []models.ExampleDto
	if err := c.doRequest(ctx, http.MethodGet, "/api/examples", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) ListExamplesPaginated(ctx context.Context, q pagination.Query) (*pagination.PagedResponse[models.ExampleDto], error) {
	values := url.Values{}
	for key, value := range map[string]string{
		"page":      q.Page,
		"limit":     q.Limit,
		"sortBy":    q.SortBy,
		"sortOrder": q.SortOrder,
	} {
		if value != "" {
			values.Set(key, value)
		}
	}

	path := "/api/examples/paginated"
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var result pagination.PagedResponse[models.ExampleDto]
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetExample(ctx context.Context, id string) (*models.ExampleDto, error) {
	var example models.ExampleDto
	if err := c.doRequest(ctx, http.MethodGet, "/api/examples/"+url.PathEscape(id), nil, &example); err != nil {
		return nil, err
	}
	return &example, nil
}

func (c *Client) CreateExample(ctx context.Context, dto *models.CreateExampleDto) (*models.ExampleDto, error) {
	var example models.ExampleDto
	if err := c.doRequest(ctx, http.MethodPost, "/api/examples", dto, &example); err != nil {
		return nil, err
	}
	return &example, nil
}

func (c *Client) UpdateExample(ctx context.Context, id uuid.UUID, dto *models.UpdateExampleDto) (*models.ExampleDto, error) {
	var example models.ExampleDto
	if err := c.doRequest(ctx, http.MethodPut, "/api/examples/"+id.String(), dto, &example); err != nil {
		return nil, err
	}
	return &example, nil
}

func (c *Client) DeleteExample(ctx context.Context, id uuid.UUID) error {
	return c.doRequest(ctx, http.MethodDelete, "/api/examples/"+id.String(), nil, nil)
}

func (c *Client) Health(ctx context.Context) (*services.HealthReport, error) {
	var report services.HealthReport
	err := c.doRequest(ctx, http.MethodGet, "/api/health/detailed", nil, &report)
	if err != nil {
		// An unhealthy server still answers with a report.
		apiErr, ok := AsError(err)
		if !ok || apiErr.StatusCode != http.StatusServiceUnavailable || apiErr.raw == nil {
			return nil, err
		}
		if jsonErr := json.Unmarshal(apiErr.raw, &report); jsonErr != nil {
			return nil, err
		}
	}
	return &report, nil
}
