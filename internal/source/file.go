package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"pulsefeed/internal/config"
	"pulsefeed/internal/logger"
	"pulsefeed/pkg/metrics"
)

type fileState int

const (
	fileStateIdle fileState = iota
	fileStateReading
)

func (s fileState) String() string {
	if s == fileStateReading {
		return "reading"
	}
	return "idle"
}

// FileSource tails an append-only feed file from a persisted byte offset.
// Each complete line is one RawMessage. The cursor advances in memory as
// lines are yielded and is persisted on a bounded cadence; a restart
// resumes at-or-before the last processed position (at-least-once).
type FileSource struct {
	cfg    config.FileSourceConfig
	logger logger.Logger

	cursor   *cursorFile
	offset   int64
	state    fileState
	lastInfo os.FileInfo

	ticker  *time.Ticker
	watcher *fsnotify.Watcher

	sinceFlush  int
	lastFlushAt time.Time
}

func NewFileSource(cfg config.FileSourceConfig, log logger.Logger) *FileSource {
	return &FileSource{
		cfg:    cfg,
		logger: log,
		cursor: newCursorFile(cfg.CursorPath),
	}
}

func (s *FileSource) Name() string {
	return NameFile
}

// State reports the current poll-loop state ("idle" or "reading").
func (s *FileSource) State() string {
	return s.state.String()
}

// Open loads the persisted cursor and prepares the poll ticker and the
// directory watch. A corrupt cursor resets to 0 (re-read over stall).
func (s *FileSource) Open(ctx context.Context) error {
	cur, err := s.cursor.Load()
	if err != nil {
		s.logger.WarnwCtx(ctx, "Cursor unreadable, rereading feed from start",
			"cursor_path", s.cfg.CursorPath,
			"error", err,
		)
		cur = Cursor{}
	}
	if cur.Path != "" && cur.Path != s.cfg.Path {
		s.logger.WarnwCtx(ctx, "Cursor belongs to a different feed file, rereading from start",
			"cursor_path", cur.Path,
			"feed_path", s.cfg.Path,
		)
		cur = Cursor{}
	}
	s.offset = cur.Offset

	s.ticker = time.NewTicker(s.cfg.PollInterval)
	s.lastFlushAt = time.Now()

	// fsnotify wakes the loop early on appends; the ticker stays as the
	// correctness fallback (network filesystems, missed events).
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.logger.WarnwCtx(ctx, "File watcher unavailable, falling back to polling only",
			"error", err,
		)
	} else if err := watcher.Add(filepath.Dir(s.cfg.Path)); err != nil {
		s.logger.WarnwCtx(ctx, "Cannot watch feed directory, falling back to polling only",
			"path", s.cfg.Path,
			"error", err,
		)
		watcher.Close()
	} else {
		s.watcher = watcher
	}

	s.logger.InfowCtx(ctx, "File source opened",
		"path", s.cfg.Path,
		"resume_offset", s.offset,
	)
	return nil
}

// Fetch returns the next batch of appended lines, blocking on the poll
// ticker and the directory watch while the file has no new data.
func (s *FileSource) Fetch(ctx context.Context) ([]RawMessage, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		batch, err := s.readAvailable()
		if err != nil {
			return nil, err
		}
		if len(batch) > 0 {
			s.state = fileStateReading
			s.maybePersistCursor(ctx, len(batch))
			metrics.ObserveSourceBatchSize(NameFile, len(batch))
			return batch, nil
		}

		s.state = fileStateIdle
		var events <-chan fsnotify.Event
		var watchErrs <-chan error
		if s.watcher != nil {
			events = s.watcher.Events
			watchErrs = s.watcher.Errors
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.ticker.C:
		case <-events:
		case err := <-watchErrs:
			s.logger.WarnwCtx(ctx, "File watcher error", "error", err)
		}
	}
}

// readAvailable reads complete lines appended past the cursor. A trailing
// partial line without a newline stays unread until the writer finishes it.
func (s *FileSource) readAvailable() ([]RawMessage, error) {
	info, err := os.Stat(s.cfg.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat feed file %s: %w", s.cfg.Path, err)
	}

	if s.detectRotation(info) {
		s.offset = 0
	}
	s.lastInfo = info

	if info.Size() <= s.offset {
		return nil, nil
	}

	f, err := os.Open(s.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open feed file %s: %w", s.cfg.Path, err)
	}
	defer f.Close()

	if _, err := f.Seek(s.offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek feed file %s to %d: %w", s.cfg.Path, s.offset, err)
	}

	reader := bufio.NewReader(f)
	var batch []RawMessage
	for len(batch) < s.cfg.MaxBatch {
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			break
		}
		if err != nil {
			return batch, fmt.Errorf("read feed file %s: %w", s.cfg.Path, err)
		}

		s.offset += int64(len(line))
		text := strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(text) == "" {
			continue
		}

		batch = append(batch, RawMessage{
			ID:      uuid.NewString(),
			Payload: text,
			Origin:  NameFile,
			Offset:  s.offset,
		})
	}

	return batch, nil
}

// detectRotation reports whether the feed file shrank below the cursor or
// was replaced by a different file. Policy: re-read over silently stalling.
func (s *FileSource) detectRotation(info os.FileInfo) bool {
	if s.offset == 0 {
		return false
	}
	if info.Size() < s.offset {
		s.logger.Warnw("Feed file truncated, rereading from start",
			"path", s.cfg.Path,
			"size", info.Size(),
			"cursor_offset", s.offset,
		)
		return true
	}
	if s.lastInfo != nil && !os.SameFile(s.lastInfo, info) {
		s.logger.Warnw("Feed file rotated, rereading from start",
			"path", s.cfg.Path,
		)
		return true
	}
	return false
}

// maybePersistCursor saves the sidecar after every N yielded records or
// T elapsed, whichever comes first. Persist failures never stall the loop;
// the in-memory cursor keeps advancing and re-processing after a crash is
// accepted.
func (s *FileSource) maybePersistCursor(ctx context.Context, yielded int) {
	s.sinceFlush += yielded
	if s.sinceFlush < s.cfg.CursorFlushCount && time.Since(s.lastFlushAt) < s.cfg.CursorFlushInterval {
		return
	}
	s.persistCursor(ctx)
}

func (s *FileSource) persistCursor(ctx context.Context) {
	if err := s.cursor.Save(Cursor{Path: s.cfg.Path, Offset: s.offset}); err != nil {
		metrics.IncCursorPersistFailure()
		s.logger.WarnwCtx(ctx, "Cursor persist failed, continuing with in-memory cursor",
			"cursor_path", s.cfg.CursorPath,
			"offset", s.offset,
			"error", err,
		)
		return
	}
	s.sinceFlush = 0
	s.lastFlushAt = time.Now()
}

// Close performs a final cursor persist and releases the watcher.
func (s *FileSource) Close() error {
	s.persistCursor(context.Background())
	if s.ticker != nil {
		s.ticker.Stop()
	}
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
