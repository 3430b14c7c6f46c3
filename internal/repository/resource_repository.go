package repository

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/noah-isme/campus-portal/internal/models"
)

// ResourceRepository is the CRUD passthrough for backend collections.
type ResourceRepository struct {
	client BackendClient
}

// NewResourceRepository constructs a resource repository.
func NewResourceRepository(client BackendClient) *ResourceRepository {
	return &ResourceRepository{client: client}
}

// List decodes the whole collection into out.
func (r *ResourceRepository) List(ctx context.Context, kind models.EntityKind, query url.Values, out interface{}) error {
	if err := r.client.Get(ctx, kind.BackendPath(), query, out); err != nil {
		return fmt.Errorf("list %s: %w", kind, err)
	}
	return nil
}

// Get decodes a single record into out.
func (r *ResourceRepository) Get(ctx context.Context, kind models.EntityKind, id string, out interface{}) error {
	if err := r.client.Get(ctx, itemPath(kind, id), nil, out); err != nil {
		return fmt.Errorf("get %s %s: %w", kind, id, err)
	}
	return nil
}

// Create posts body to the collection.
func (r *ResourceRepository) Create(ctx context.Context, kind models.EntityKind, body, out interface{}) error {
	if err := r.client.Post(ctx, kind.BackendPath(), body, out); err != nil {
		return fmt.Errorf("create %s: %w", kind, err)
	}
	return nil
}

// Update patches a single record.
func (r *ResourceRepository) Update(ctx context.Context, kind models.EntityKind, id string, body, out interface{}) error {
	if err := r.client.Patch(ctx, itemPath(kind, id), body, out); err != nil {
		return fmt.Errorf("update %s %s: %w", kind, id, err)
	}
	return nil
}

// Delete removes a single record.
func (r *ResourceRepository) Delete(ctx context.Context, kind models.EntityKind, id string) error {
	if err := r.client.Delete(ctx, itemPath(kind, id)); err != nil {
		return fmt.Errorf("delete %s %s: %w", kind, id, err)
	}
	return nil
}

func itemPath(kind models.EntityKind, id string) string {
	return kind.BackendPath() + "/" + url.PathEscape(strings.TrimSpace(id))
}
