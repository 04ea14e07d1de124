package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/narvas12/mercor-assessment/internal/retry"

	"go.uber.org/zap"
)

const contentType = "application/json"

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

// fieldsEnvelope wraps field payloads the way the API expects them on
// create and update.
type fieldsEnvelope struct {
	Fields map[string]any `json:"fields"`
}

// List returns every record of the table, transparently following the
// store's offset pagination until exhausted. Records keep server order. An
// empty filterFormula lists the whole table.
func (c *Client) List(ctx context.Context, table, filterFormula string) ([]Record, error) {
	var records []Record

	params := url.Values{}
	if filterFormula != "" {
		params.Set("filterByFormula", filterFormula)
	}

	for {
		var page listResponse
		if err := c.doJSON(ctx, http.MethodGet, table, params, nil, &page); err != nil {
			return nil, err
		}

		records = append(records, page.Records...)

		if page.Offset == "" {
			break
		}

		c.logger.Debug("following pagination offset",
			zap.String("table", table),
			zap.Int("records_so_far", len(records)),
		)
		params.Set("offset", page.Offset)
	}

	return records, nil
}

// Get fetches a single record by its internal identifier.
func (c *Client) Get(ctx context.Context, table, id string) (*Record, error) {
	var record Record
	if err := c.doJSON(ctx, http.MethodGet, table+"/"+id, nil, nil, &record); err != nil {
		return nil, notFoundOn404(err)
	}
	return &record, nil
}

// Create inserts a record with the given fields and returns the stored row.
func (c *Client) Create(ctx context.Context, table string, fields map[string]any) (*Record, error) {
	var record Record
	if err := c.doJSON(ctx, http.MethodPost, table, nil, &fieldsEnvelope{Fields: fields}, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Update patches the given fields of a record and returns the stored row.
func (c *Client) Update(ctx context.Context, table, id string, fields map[string]any) (*Record, error) {
	var record Record
	if err := c.doJSON(ctx, http.MethodPatch, table+"/"+id, nil, &fieldsEnvelope{Fields: fields}, &record); err != nil {
		return nil, notFoundOn404(err)
	}
	return &record, nil
}

// Delete removes a record by its internal identifier.
func (c *Client) Delete(ctx context.Context, table, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, table+"/"+id, nil, nil, nil); err != nil {
		return notFoundOn404(err)
	}
	return nil
}

// FindOneByField returns the first record whose field equals the given value,
// or ErrNotFound when no row matches. The store does not guarantee order, so
// multiple matches select an arbitrary first element.
func (c *Client) FindOneByField(ctx context.Context, table, field, value string) (*Record, error) {
	records, err := c.List(ctx, table, EqualsFormula(field, value))
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s %q in table %s", ErrNotFound, field, value, table)
	}

	return &records[0], nil
}

// doJSON performs one API call with rate limiting and the client's retry
// policy, decoding the JSON reply into target when target is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, params url.Values, payload, target any) error {
	endpoint := fmt.Sprintf("%s/%s/%s", c.APIURL, c.BaseID, path)

	var body []byte
	if payload != nil {
		var err error
		if body, err = json.Marshal(payload); err != nil {
			return fmt.Errorf("marshal request payload: %w", err)
		}
	}

	return retry.Do(ctx, c.Retry, Retryable, func() error {
		if err := c.Limiter.Wait(ctx); err != nil {
			return err
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return err
		}

		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Content-Type", contentType)
		if params != nil {
			req.URL.RawQuery = params.Encode()
		}

		c.logger.Debug("make request",
			zap.String("method", method),
			zap.String("url", req.URL.String()),
		)

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			return &StatusError{
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				Body:       string(data),
			}
		}

		if target == nil {
			return nil
		}

		if err := json.Unmarshal(data, target); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}

		return nil
	})
}

func notFoundOn404(err error) error {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, statusErr.Status)
	}
	return err
}
