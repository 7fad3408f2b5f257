// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package store implements the durable-store repositories for the attendance
// service on top of NATS JetStream Key-Value buckets.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go/jetstream"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/logging"
)

// NATS Key-Value store bucket names
const (
	KVStoreNameSessions            = "sessions"
	KVStoreNameSessionParticipants = "session-participants"
)

// tracerName is the instrumentation name for the store package.
const tracerName = "github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/infrastructure/store"

// INatsKeyValue is the subset of the NATS KV interface the repositories need.
// It allows for mocking in tests.
type INatsKeyValue interface {
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
	Create(ctx context.Context, key string, value []byte, opts ...jetstream.KVCreateOpt) (uint64, error)
	Update(ctx context.Context, key string, value []byte, revision uint64) (uint64, error)
}

// NatsBaseRepository provides common NATS KV operations that can be reused
// across the attendance repositories.
type NatsBaseRepository[T any] struct {
	kvStore    INatsKeyValue
	entityName string // Used in error messages (e.g., "session", "participant")
}

// NewNatsBaseRepository creates a new base repository for NATS KV operations
func NewNatsBaseRepository[T any](kvStore INatsKeyValue, entityName string) *NatsBaseRepository[T] {
	return &NatsBaseRepository[T]{
		kvStore:    kvStore,
		entityName: entityName,
	}
}

// IsReady checks if the repository is ready for use
func (r *NatsBaseRepository[T]) IsReady() bool {
	return r.kvStore != nil
}

// GetWithRevision retrieves an entity with its revision from NATS KV store
func (r *NatsBaseRepository[T]) GetWithRevision(ctx context.Context, key string) (*T, uint64, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "nats.kv.get",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "nats"),
			attribute.String("db.operation", "get"),
			attribute.String("db.nats.key", key),
			attribute.String("db.nats.entity", r.entityName),
		),
	)
	defer span.End()

	if !r.IsReady() {
		err := domain.NewUnavailableError(fmt.Sprintf("%s repository is not available", r.entityName))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	entry, err := r.kvStore.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			err = domain.NewNotFoundError(
				fmt.Sprintf("%s with key '%s' not found", r.entityName, key), err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "not found")
			return nil, 0, err
		}
		slog.ErrorContext(ctx, fmt.Sprintf("error getting %s from NATS KV", r.entityName),
			logging.ErrKey, err, "key", key)
		err = domain.NewInternalError(
			fmt.Sprintf("failed to retrieve %s from store", r.entityName), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	var entity T
	if err := json.Unmarshal(entry.Value(), &entity); err != nil {
		slog.ErrorContext(ctx, fmt.Sprintf("error unmarshaling %s", r.entityName),
			logging.ErrKey, err, "key", key)
		err = domain.NewInternalError(
			fmt.Sprintf("failed to unmarshal %s data", r.entityName), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	span.SetStatus(codes.Ok, "")
	return &entity, entry.Revision(), nil
}

// Get retrieves and unmarshals an entity from NATS KV store
func (r *NatsBaseRepository[T]) Get(ctx context.Context, key string) (*T, error) {
	entity, _, err := r.GetWithRevision(ctx, key)
	return entity, err
}

// Create creates a new entity in the store. It fails with a conflict error
// when the key already exists.
func (r *NatsBaseRepository[T]) Create(ctx context.Context, key string, entity *T) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "nats.kv.create",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "nats"),
			attribute.String("db.operation", "create"),
			attribute.String("db.nats.key", key),
			attribute.String("db.nats.entity", r.entityName),
		),
	)
	defer span.End()

	if !r.IsReady() {
		err := domain.NewUnavailableError(fmt.Sprintf("%s repository is not available", r.entityName))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	data, err := json.Marshal(entity)
	if err != nil {
		err = domain.NewInternalError(fmt.Sprintf("failed to marshal %s", r.entityName), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	_, err = r.kvStore.Create(ctx, key, data)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyExists) {
			err = domain.NewConflictError(fmt.Sprintf("%s already exists", r.entityName), err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "conflict")
			return err
		}
		slog.ErrorContext(ctx, fmt.Sprintf("error creating %s in NATS KV", r.entityName),
			logging.ErrKey, err, "key", key)
		err = domain.NewInternalError(fmt.Sprintf("failed to create %s in store", r.entityName), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Update updates an existing entity in the store with optimistic concurrency control
func (r *NatsBaseRepository[T]) Update(ctx context.Context, key string, entity *T, revision uint64) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "nats.kv.update",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "nats"),
			attribute.String("db.operation", "update"),
			attribute.String("db.nats.key", key),
			attribute.String("db.nats.entity", r.entityName),
			attribute.Int64("db.nats.revision", int64(revision)),
		),
	)
	defer span.End()

	if !r.IsReady() {
		err := domain.NewUnavailableError(fmt.Sprintf("%s repository is not available", r.entityName))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	data, err := json.Marshal(entity)
	if err != nil {
		err = domain.NewInternalError(fmt.Sprintf("failed to marshal %s", r.entityName), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	_, err = r.kvStore.Update(ctx, key, data, revision)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			err = domain.NewNotFoundError(fmt.Sprintf("%s not found", r.entityName), err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "not found")
			return err
		}
		if strings.Contains(err.Error(), "wrong last sequence") {
			err = domain.NewConflictError(fmt.Sprintf("%s has been modified", r.entityName), err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "conflict")
			return err
		}
		slog.ErrorContext(ctx, fmt.Sprintf("error updating %s in NATS KV", r.entityName),
			logging.ErrKey, err, "key", key, "revision", revision)
		err = domain.NewInternalError(fmt.Sprintf("failed to update %s in store", r.entityName), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}
