package repository

import (
	"context"
	"net/url"
)

// BackendClient is the subset of the backend client the repositories need.
type BackendClient interface {
	Get(ctx context.Context, path string, query url.Values, out interface{}) error
	Post(ctx context.Context, path string, body, out interface{}) error
	Patch(ctx context.Context, path string, body, out interface{}) error
	Delete(ctx context.Context, path string) error
}
