package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
)

// Get fetches rawURL and decodes a 200 response body into D.
func Get[D any](ctx context.Context, c *Client, rawURL string, opts ...CallOption) (D, error) {
	return send[D](ctx, c, MethodGet, rawURL, opts)
}

// Delete issues a DELETE to rawURL and decodes a 200 response body into D.
func Delete[D any](ctx context.Context, c *Client, rawURL string, opts ...CallOption) (D, error) {
	return send[D](ctx, c, MethodDelete, rawURL, opts)
}

// Post sends payload as JSON to rawURL and decodes a 200 response body into D.
// The payload is encoded before anything touches the network.
func Post[D, E any](ctx context.Context, c *Client, rawURL string, payload E, opts ...CallOption) (D, error) {
	var zero D
	settings := callSettings(opts)

	u, err := parseURL(rawURL)
	if err != nil {
		return zero, newError(ErrInvalidURL, err)
	}

	if settings.validate {
		if err := check(payload); err != nil {
			return zero, newError(ErrEncoding, err)
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return zero, newError(ErrEncoding, err)
	}

	return do[D](ctx, c, MethodPost, u, body, settings)
}

// GetAsync runs [Get] on a new goroutine.
func GetAsync[D any](ctx context.Context, c *Client, rawURL string, opts ...CallOption) *Task[D] {
	return startTask(func() (D, error) {
		return Get[D](ctx, c, rawURL, opts...)
	})
}

// DeleteAsync runs [Delete] on a new goroutine.
func DeleteAsync[D any](ctx context.Context, c *Client, rawURL string, opts ...CallOption) *Task[D] {
	return startTask(func() (D, error) {
		return Delete[D](ctx, c, rawURL, opts...)
	})
}

// PostAsync runs [Post] on a new goroutine.
func PostAsync[D, E any](ctx context.Context, c *Client, rawURL string, payload E, opts ...CallOption) *Task[D] {
	return startTask(func() (D, error) {
		return Post[D](ctx, c, rawURL, payload, opts...)
	})
}

// send handles the verbs without a body.
func send[D any](ctx context.Context, c *Client, method Method, rawURL string, opts []CallOption) (D, error) {
	u, err := parseURL(rawURL)
	if err != nil {
		var zero D
		return zero, newError(ErrInvalidURL, err)
	}

	return do[D](ctx, c, method, u, nil, callSettings(opts))
}

// do runs once the url is parsed and the payload encoded. The connectivity
// gate comes first; nothing is sent while the network is down.
func do[D any](ctx context.Context, c *Client, method Method, u *url.URL, body []byte, settings callOpts) (D, error) {
	var zero D

	if err := c.gate(method, u); err != nil {
		return zero, err
	}

	req, err := newRequest(ctx, method, u, body, settings)
	if err != nil {
		return zero, newError(ErrInvalidURL, err)
	}

	var out D
	decode := func(r io.Reader) error {
		raw, err := readValue(r)
		if err != nil {
			return fmt.Errorf("decoding body: %w", err)
		}

		d := json.NewDecoder(bytes.NewReader(raw))
		if settings.useJSONNum {
			d.UseNumber()
		}

		if err := d.Decode(&out); err != nil {
			return fmt.Errorf("decoding body: %w", err)
		}

		if settings.validate {
			if err := check(out); err != nil {
				return fmt.Errorf("validating body: %w", err)
			}
		}

		return nil
	}

	if err := c.exec(req, decode); err != nil {
		return zero, err
	}

	return out, nil
}

// readValue reads exactly one JSON value from r. Trailing data after the
// value and a top-level null are rejected.
func readValue(r io.Reader) (json.RawMessage, error) {
	d := json.NewDecoder(r)

	var raw json.RawMessage
	if err := d.Decode(&raw); err != nil {
		return nil, err
	}

	if _, err := d.Token(); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}

	if bytes.Equal(raw, jsonNull) {
		return nil, errNullBody
	}

	return raw, nil
}

func callSettings(opts []CallOption) callOpts {
	var settings callOpts
	for _, opt := range opts {
		opt(&settings)
	}

	return settings
}
