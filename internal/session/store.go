package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/KevinKickass/OpenPanelIO/internal/iotable"
	"github.com/KevinKickass/OpenPanelIO/internal/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is the result of one upload. Its snapshot is replaced, never
// mutated, so readers always see a consistent table.
type Session struct {
	ID         uuid.UUID
	SourceFile string
	CreatedAt  time.Time
	Extracted  time.Time

	snapshot *iotable.Snapshot
}

func (s *Session) Snapshot() *iotable.Snapshot {
	return s.snapshot
}

// Result renders the session in the upload response shape.
func (s *Session) Result() *types.IOResult {
	return &types.IOResult{
		Devices:    s.snapshot.Devices(),
		Channels:   s.snapshot.Channels(),
		Timestamp:  s.Extracted,
		SourceFile: s.SourceFile,
	}
}

// Store owns every live session. All mutation goes through it.
type Store struct {
	mu          sync.RWMutex
	sessions    map[uuid.UUID]*Session
	order       []uuid.UUID
	maxSessions int
	logger      *zap.Logger
}

func NewStore(maxSessions int, logger *zap.Logger) *Store {
	if maxSessions <= 0 {
		maxSessions = 1
	}
	return &Store{
		sessions:    make(map[uuid.UUID]*Session),
		order:       make([]uuid.UUID, 0, maxSessions),
		maxSessions: maxSessions,
		logger:      logger,
	}
}

// Create indexes result into a new session and makes it the latest one.
func (st *Store) Create(result *types.IOResult) Session {
	sess := &Session{
		ID:         uuid.New(),
		SourceFile: result.SourceFile,
		CreatedAt:  time.Now(),
		Extracted:  result.Timestamp,
		snapshot:   iotable.NewSnapshot(result.Devices, result.Channels),
	}

	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.order = append(st.order, sess.ID)
	for len(st.order) > st.maxSessions {
		evicted := st.order[0]
		st.order = st.order[1:]
		delete(st.sessions, evicted)
		st.logger.Debug("Session evicted", zap.String("session_id", evicted.String()))
	}
	created := *sess
	st.mu.Unlock()

	st.logger.Info("Session created",
		zap.String("session_id", sess.ID.String()),
		zap.String("source_file", sess.SourceFile),
		zap.Int("devices", len(result.Devices)),
		zap.Int("channels", len(result.Channels)))

	return created
}

// Get returns a copy of the session so callers hold a stable snapshot.
func (st *Store) Get(id uuid.UUID) (Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	sess, ok := st.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return *sess, nil
}

func (st *Store) Latest() (Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	if len(st.order) == 0 {
		return Session{}, fmt.Errorf("%w: no results available", ErrSessionNotFound)
	}
	return *st.sessions[st.order[len(st.order)-1]], nil
}

// Resolve accepts a session id or the alias "latest".
func (st *Store) Resolve(ref string) (Session, error) {
	if ref == "latest" {
		return st.Latest()
	}
	id, err := uuid.Parse(ref)
	if err != nil {
		return Session{}, fmt.Errorf("%w: invalid id %q", ErrSessionNotFound, ref)
	}
	return st.Get(id)
}

// Reassign applies a controller number edit to one device of a session. The
// new snapshot replaces the old one in a single step.
func (st *Store) Reassign(id uuid.UUID, deviceIndex int, raw string) (Session, iotable.Outcome, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[id]
	if !ok {
		return Session{}, iotable.Outcome{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	next, outcome, err := iotable.Reassign(sess.snapshot, deviceIndex, raw)
	if err != nil {
		return Session{}, iotable.Outcome{}, err
	}
	sess.snapshot = next

	fields := []zap.Field{
		zap.String("session_id", id.String()),
		zap.String("device_key", outcome.DeviceKey),
		zap.Int("controller", outcome.ControllerNumber),
		zap.Int("previous", outcome.Previous),
		zap.Int("rows", outcome.RowsRewritten),
	}
	if outcome.Defaulted {
		st.logger.Warn("Unparseable controller number, defaulted", append(fields, zap.String("raw", raw))...)
	} else {
		st.logger.Info("Controller number reassigned", fields...)
	}

	return *sess, outcome, nil
}

func (st *Store) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
