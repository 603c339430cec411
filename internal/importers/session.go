package importers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/commlog/internal/entities"
)

type SessionState string

const (
	StateIdle       SessionState = "idle"
	StateParsing    SessionState = "parsing"
	StatePreviewed  SessionState = "previewed"
	StateCommitting SessionState = "committing"
	StateComplete   SessionState = "complete"
)

var (
	ErrNothingToCommit  = errors.New("no file has been loaded")
	ErrCommitInProgress = errors.New("import is already being committed")
	ErrSessionComplete  = errors.New("import already completed, select a new file")
)

// FileReadError is the only message shown when a file cannot be parsed at all.
const FileReadError = "file could not be read; please check the format."

// sampleSize is how many valid rows are shown for confirmation.
const sampleSize = 3

// EntryCreator persists a single entry.
type EntryCreator interface {
	CreateEntry(ctx context.Context, entry *entities.Entry) error
}

// ImportResult is the final outcome of a commit. It is never modified once set.
type ImportResult struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

// Snapshot is a read-only copy of a session for callers outside the package.
type Snapshot struct {
	ID        string                 `json:"id"`
	Filename  string                 `json:"filename"`
	State     SessionState           `json:"state"`
	Preview   ImportPreview          `json:"preview"`
	Sample    []ParsedEntryCandidate `json:"sample"`
	Processed int                    `json:"processed"`
	Result    *ImportResult          `json:"result,omitempty"`
}

// Session drives one uploaded file from parsing through preview to commit.
// Rows are committed strictly one after another in file order.
type Session struct {
	id      string
	creator EntryCreator
	now     func() time.Time

	mu         sync.Mutex
	state      SessionState
	filename   string
	preview    ImportPreview
	processed  int
	result     *ImportResult
	lastActive time.Time
}

// NewSession creates an idle session that persists through creator.
func NewSession(id string, creator EntryCreator) *Session {
	return &Session{
		id:         id,
		creator:    creator,
		now:        time.Now,
		state:      StateIdle,
		lastActive: time.Now(),
	}
}

func (s *Session) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Load parses a file and replaces any previous preview or result. A file that
// cannot be parsed still yields a preview, holding a single error.
func (s *Session) Load(ctx context.Context, filename string, r io.Reader) (ImportPreview, error) {
	if err := ctx.Err(); err != nil {
		return ImportPreview{}, err
	}

	s.mu.Lock()
	if s.state == StateCommitting {
		s.mu.Unlock()
		return ImportPreview{}, ErrCommitInProgress
	}
	s.state = StateParsing
	s.filename = filename
	s.result = nil
	s.processed = 0
	s.lastActive = s.now()
	s.mu.Unlock()

	var preview ImportPreview
	rows, err := ReadRows(filename, r)
	if err != nil {
		zap.L().Warn("import file could not be parsed",
			zap.String("session", s.id),
			zap.String("filename", filename),
			zap.Error(err))
		preview = ImportPreview{
			ValidRows: []RawRow{},
			Errors:    []string{FileReadError},
			Warnings:  []string{},
		}
	} else {
		preview = ValidateRows(rows)
	}

	s.mu.Lock()
	s.preview = preview
	s.state = StatePreviewed
	s.mu.Unlock()

	zap.L().Info("import file previewed",
		zap.String("session", s.id),
		zap.String("filename", filename),
		zap.Int("valid", preview.ValidCount),
		zap.Int("invalid", preview.InvalidCount))

	return preview, nil
}

// Preview returns the current preview and the first few valid rows as they
// would be stored.
func (s *Session) Preview() (ImportPreview, []ParsedEntryCandidate) {
	snap := s.Snapshot()
	return snap.Preview, snap.Sample
}

// Commit persists every valid row in order as entries owned by userID. A
// failing row is counted and reported but never stops the rows after it, and
// persisted rows are not rolled back.
func (s *Session) Commit(ctx context.Context, userID uint) (ImportResult, error) {
	s.mu.Lock()
	switch s.state {
	case StateIdle, StateParsing:
		s.mu.Unlock()
		return ImportResult{}, ErrNothingToCommit
	case StateCommitting:
		s.mu.Unlock()
		return ImportResult{}, ErrCommitInProgress
	case StateComplete:
		s.mu.Unlock()
		return ImportResult{}, ErrSessionComplete
	}
	s.state = StateCommitting
	s.lastActive = s.now()
	rows := s.preview.ValidRows
	s.mu.Unlock()

	result := ImportResult{Errors: []string{}}
	for _, row := range rows {
		now := s.now()
		candidate := BuildCandidate(row, now)
		entry := candidate.ToEntry(userID, now)

		err := ctx.Err()
		if err == nil {
			err = s.creator.CreateEntry(ctx, entry)
		}
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("failed to import %q: %v", candidate.Title, err))
			zap.L().Warn("import row failed",
				zap.String("session", s.id),
				zap.String("title", candidate.Title),
				zap.Error(err))
		} else {
			result.Success++
		}

		s.mu.Lock()
		s.processed++
		s.lastActive = s.now()
		s.mu.Unlock()
	}

	s.mu.Lock()
	s.result = &result
	s.state = StateComplete
	s.mu.Unlock()

	zap.L().Info("import committed",
		zap.String("session", s.id),
		zap.Uint("user_id", userID),
		zap.Int("success", result.Success),
		zap.Int("failed", result.Failed))

	return result, nil
}

// Snapshot copies the externally visible state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:        s.id,
		Filename:  s.filename,
		State:     s.state,
		Preview:   s.preview,
		Processed: s.processed,
		Sample:    []ParsedEntryCandidate{},
	}
	if snap.Preview.Errors == nil {
		snap.Preview.Errors = []string{}
	}
	if snap.Preview.Warnings == nil {
		snap.Preview.Warnings = []string{}
	}
	if s.state == StatePreviewed {
		now := s.now()
		for i := 0; i < len(s.preview.ValidRows) && i < sampleSize; i++ {
			snap.Sample = append(snap.Sample, BuildCandidate(s.preview.ValidRows[i], now))
		}
	}
	if s.result != nil {
		result := *s.result
		result.Errors = append([]string(nil), s.result.Errors...)
		snap.Result = &result
	}
	return snap
}

func (s *Session) idleSince() (time.Time, SessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive, s.state
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = s.now()
	s.mu.Unlock()
}
