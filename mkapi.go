// Package mkapi exposes the client builder.
package mkapi

import (
	"github.com/adamwoolhether/mkapi/client"
)

// NewClient instantiates a new *Client with the provided options.
// Unless a Reachability is supplied, the returned Client owns a running
// network monitor and must be closed.
func NewClient(opts ...client.Option) (*client.Client, error) {
	return client.Build(opts...)
}
