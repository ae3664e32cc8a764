package client

import (
	"context"
	"errors"
	"testing"

	mongostore "medassist/pkg/db/mongo"
	"medassist/pkg/logger"
)

func TestDatabase_WithoutConnection(t *testing.T) {
	c := NewClient()

	db, err := c.Database("medical_center")

	if db != nil {
		t.Errorf("expected nil database, got %v", db)
	}
	if !errors.Is(err, mongostore.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestDatabase_NilClient(t *testing.T) {
	var c *Client

	if _, err := c.Database("medical_center"); !errors.Is(err, mongostore.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestGracefulShutdown_NoConnections(t *testing.T) {
	c := NewClient()

	c.GracefulShutdown(logger.Nop())

	if c.Mongo != nil || c.Redis != nil {
		t.Error("expected handles to stay nil")
	}
	if _, err := c.Database("medical_center"); !errors.Is(err, mongostore.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable after shutdown, got %v", err)
	}
}

func TestPing_WithoutConnection(t *testing.T) {
	if err := NewClient().Ping(context.Background()); !errors.Is(err, mongostore.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
}
