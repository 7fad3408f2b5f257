// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/infrastructure/forwarder"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/infrastructure/store"
	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/logging"
)

const natsDrainTimeout = 10 * time.Second

// repositories bundles the durable-store dependencies of the service.
type repositories struct {
	Session     domain.SessionRepository
	Participant domain.ParticipantRepository
}

// setupNATS connects to the NATS server configured in the environment. A nil
// connection with no error means persistence is intentionally disabled.
func setupNATS(_ context.Context, env environment, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) (*nats.Conn, error) {
	if env.NatsURL == "" {
		slog.Warn("NATS_URL not set, running without persistence")
		return nil, nil
	}

	natsConn, err := nats.Connect(
		env.NatsURL,
		nats.DrainTimeout(natsDrainTimeout),
		nats.ConnectHandler(func(_ *nats.Conn) {
			slog.With("nats_url", env.NatsURL).Info("NATS connection established")
		}),
		nats.ErrorHandler(func(_ *nats.Conn, s *nats.Subscription, err error) {
			if s != nil {
				slog.With(logging.ErrKey, err, "subject", s.Subject, "queue", s.Queue).Error("async NATS error")
				return
			}
			slog.With(logging.ErrKey, err).Error("async NATS error outside subscription")
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			handleNatsClose(nc.LastError(), gracefulCloseWG, done)
		}),
	)
	if err != nil {
		return nil, err
	}

	// Balanced by the ClosedHandler during graceful shutdown.
	gracefulCloseWG.Add(1)
	return natsConn, nil
}

// handleNatsClose runs when the NATS connection closes for any reason. The
// wait group is released on every path: shutdown waits on it after draining,
// and a handler that skipped Done would wedge the process on an unexpected
// close. An unexpected close also interrupts the process so the orchestrator
// restarts it with a fresh connection.
func handleNatsClose(lastErr error, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) {
	defer gracefulCloseWG.Done()

	if lastErr != nil {
		slog.With(logging.ErrKey, lastErr).Error("NATS connection closed unexpectedly")
		done <- os.Interrupt
		return
	}
	slog.Info("NATS connection closed")
}

// getKeyValueStores creates or binds the JetStream KV buckets backing the
// session and participant repositories. A nil connection yields no-op
// repositories.
func getKeyValueStores(ctx context.Context, natsConn *nats.Conn) (repositories, error) {
	if natsConn == nil {
		return repositories{
			Session:     store.NewNoOpSessionRepository(),
			Participant: store.NewNoOpParticipantRepository(),
		}, nil
	}

	js, err := jetstream.New(natsConn)
	if err != nil {
		return repositories{}, err
	}

	sessionsKV, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:  store.KVStoreNameSessions,
		History: 1,
	})
	if err != nil {
		return repositories{}, err
	}

	participantsKV, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:  store.KVStoreNameSessionParticipants,
		History: 1,
	})
	if err != nil {
		return repositories{}, err
	}

	return repositories{
		Session:     store.NewNatsSessionRepository(sessionsKV),
		Participant: store.NewNatsParticipantRepository(participantsKV),
	}, nil
}

// setupForwarder selects the forward sink implementation from the environment.
func setupForwarder(env environment) domain.EventForwarder {
	if env.SheetsWebhookURL == "" {
		slog.Warn("SHEETS_WEBHOOK_URL not set, events will not be forwarded")
		return forwarder.NewNoOpForwarder()
	}
	return forwarder.NewHTTPForwarder(env.SheetsWebhookURL, env.SheetsAuthToken)
}
