package client_test

import (
	"errors"
	"io"
	"net/http"
	"slices"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"github.com/adamwoolhether/mkapi/client"
)

func TestProperty_MalformedURLNeverSends(t *testing.T) {
	var calls atomic.Int32
	c := build(t, client.WithTransport(stubTransport(http.StatusOK, `{}`, &calls)))

	ctx := t.Context()
	rapid.Check(t, func(t *rapid.T) {
		rawURL := rapid.StringMatching(`[a-zA-Z0-9 ._~-]{0,30}`).Draw(t, "rawURL")
		method := rapid.SampledFrom([]string{http.MethodGet, http.MethodPost, http.MethodDelete}).Draw(t, "method")

		var err error
		switch method {
		case http.MethodGet:
			_, err = client.Get[user](ctx, c, rawURL)
		case http.MethodPost:
			_, err = client.Post[user](ctx, c, rawURL, newUser{Name: "Bo"})
		case http.MethodDelete:
			_, err = client.Delete[user](ctx, c, rawURL)
		}

		if !errors.Is(err, client.ErrInvalidURL) {
			t.Fatalf("%s %q: expected ErrInvalidURL, got: %v", method, rawURL, err)
		}
	})

	if calls.Load() != 0 {
		t.Errorf("expected transport never to be called, got %d calls", calls.Load())
	}
}

func TestProperty_OnlyOKSucceeds(t *testing.T) {
	redirects := []int{
		http.StatusMovedPermanently,
		http.StatusFound,
		http.StatusSeeOther,
		http.StatusTemporaryRedirect,
		http.StatusPermanentRedirect,
	}

	ctx := t.Context()
	rapid.Check(t, func(t *rapid.T) {
		status := rapid.IntRange(201, 599).Filter(func(s int) bool {
			return !slices.Contains(redirects, s)
		}).Draw(t, "status")

		c, err := client.Build(
			client.WithReachability(online),
			client.WithTransport(stubTransport(status, `{"id":1,"name":"Ann"}`, nil)),
		)
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}
		defer c.Close()

		_, err = client.Get[user](ctx, c, "https://api.example.com/users/1")
		if !errors.Is(err, client.ErrInvalidResponse) {
			t.Fatalf("status %d: expected ErrInvalidResponse, got: %v", status, err)
		}

		var netErr *client.NetworkError
		if !errors.As(err, &netErr) || netErr.StatusCode != status {
			t.Fatalf("status %d: expected status to be reported, got: %v", status, err)
		}
	})
}

func TestProperty_EchoRoundTrip(t *testing.T) {
	echo := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     make(http.Header),
			Body:       r.Body,
			Request:    r,
		}, nil
	})

	c := build(t, client.WithTransport(echo))

	ctx := t.Context()
	rapid.Check(t, func(t *rapid.T) {
		sent := user{
			ID:   rapid.Int().Draw(t, "id"),
			Name: rapid.String().Draw(t, "name"),
		}

		got, err := client.Post[user](ctx, c, "https://api.example.com/echo", sent)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}

		if diff := cmp.Diff(sent, got); diff != "" {
			t.Fatalf("echo mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestProperty_OfflineNeverSends(t *testing.T) {
	var calls atomic.Int32

	c, err := client.Build(
		client.WithReachability(offline),
		client.WithTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
			calls.Add(1)
			return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(http.NoBody), Request: r}, nil
		})),
	)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	defer c.Close()

	ctx := t.Context()
	rapid.Check(t, func(t *rapid.T) {
		path := rapid.StringMatching(`[a-z0-9/]{0,20}`).Draw(t, "path")
		rawURL := rapid.SampledFrom([]string{"http", "https"}).Draw(t, "scheme") + "://api.example.com/" + path
		name := rapid.String().Draw(t, "name")

		_, getErr := client.Get[user](ctx, c, rawURL)
		_, postErr := client.Post[user](ctx, c, rawURL, newUser{Name: name})
		_, deleteErr := client.Delete[user](ctx, c, rawURL)

		for _, err := range []error{getErr, postErr, deleteErr} {
			if !errors.Is(err, client.ErrNoInternet) {
				t.Fatalf("expected ErrNoInternet, got: %v", err)
			}
		}
	})

	if calls.Load() != 0 {
		t.Errorf("expected transport never to be called, got %d calls", calls.Load())
	}
}
