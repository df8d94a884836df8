package stream

import (
	"context"
	"time"

	"github.com/crozier-io/crozier/catalog"
	"github.com/crozier-io/crozier/log"
)

// Connector opens a new catalog session.
type Connector func(ctx context.Context) (catalog.Session, error)

// ConnManager hands out the current catalog session and rotates it once
// its lifetime exceeds the configured maximum, bounding how long one
// connection holds server-side resources during a long stream.
type ConnManager struct {
	connect     Connector
	clock       Clock
	maxLifetime time.Duration
	logger      *log.Logger

	sess     catalog.Session
	openedAt time.Time
	reopened bool
}

// NewConnManager creates a connection manager. A non-positive
// maxLifetime disables rotation. A nil clock uses the wall clock.
func NewConnManager(connect Connector, maxLifetime time.Duration, clock Clock, logger *log.Logger) *ConnManager {
	if clock == nil {
		clock = SystemClock()
	}
	return &ConnManager{
		connect:     connect,
		clock:       clock,
		maxLifetime: maxLifetime,
		logger:      logger,
	}
}

// Session returns the current session, opening a fresh one if none is
// open. Open failures are fatal to the caller's run.
func (m *ConnManager) Session(ctx context.Context) (catalog.Session, error) {
	if m.sess != nil {
		return m.sess, nil
	}

	sess, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	m.sess = sess
	m.openedAt = m.clock.Now()

	if m.reopened {
		m.logger.Info("re-connected to the catalog", nil)
	} else {
		m.logger.Info("connected to the catalog", nil)
	}
	m.reopened = true

	return sess, nil
}

// Rotate closes the current session when it has outlived the maximum,
// so the next item triggers a reconnect.
func (m *ConnManager) Rotate() error {
	if m.maxLifetime <= 0 || m.sess == nil {
		return nil
	}
	elapsed := m.clock.Now().Sub(m.openedAt)
	if elapsed < m.maxLifetime {
		return nil
	}

	m.logger.Debug("connection lifetime exceeded, closing", map[string]any{
		"elapsed_seconds": elapsed.Seconds(),
		"max_seconds":     m.maxLifetime.Seconds(),
	})

	err := m.sess.Close()
	m.sess = nil
	return err
}

// Close closes the current session, if any open.
func (m *ConnManager) Close() error {
	if m.sess == nil {
		return nil
	}
	err := m.sess.Close()
	m.sess = nil
	return err
}
