// ABOUTME: Badger key-value backend implementing the Repository interface.
// ABOUTME: Records are JSON values under typed key prefixes with secondary index keys.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/harperreed/lift/internal/models"
)

const (
	prefixEntry    = "entry/"
	prefixSession  = "session/"
	prefixExercise = "exercise/"
	prefixSetLog   = "setlog/"

	// Index keys carry no value; the owned record's ID is the key suffix.
	prefixSessionExercises = "idx/session-exercise/"
	prefixExerciseSetLogs  = "idx/exercise-setlog/"
)

// BadgerStore stores lift data in a Badger database.
type BadgerStore struct {
	db  *badger.DB
	dir string
}

// sessionRecord is the stored form of a session; exercises live under their own keys.
type sessionRecord struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	DateCreated time.Time `json:"date_created"`
	IsCompleted bool      `json:"is_completed"`
}

// OpenBadger opens or creates a Badger database in dir.
func OpenBadger(dir string) (*BadgerStore, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	opts := badger.DefaultOptions(dir).WithLogger(newBadgerLogger(slog.Default()))
	return openBadger(opts, dir)
}

// OpenBadgerInMemory opens a Badger database that lives only in memory.
func OpenBadgerInMemory() (*BadgerStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(newBadgerLogger(slog.Default()))
	return openBadger(opts, "")
}

func openBadger(opts badger.Options, dir string) (*BadgerStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db, dir: dir}, nil
}

// Dir returns the directory the store was opened from; empty when in memory.
func (b *BadgerStore) Dir() string {
	return b.dir
}

// Close closes the underlying Badger database.
func (b *BadgerStore) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

// CreateEntry stores a new entry.
func (b *BadgerStore) CreateEntry(e *models.WorkoutEntry) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("create entry: %w", err)
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return putNewEntry(txn, e)
	})
	if err != nil {
		return fmt.Errorf("create entry: %w", err)
	}
	return nil
}

func putNewEntry(txn *badger.Txn, e *models.WorkoutEntry) error {
	key := prefixEntry + e.ID.String()
	if err := ensureAbsent(txn, key); err != nil {
		return err
	}
	return setJSON(txn, key, e)
}

// GetEntry retrieves an entry by ID or ID prefix.
func (b *BadgerStore) GetEntry(idOrPrefix string) (*models.WorkoutEntry, error) {
	var e models.WorkoutEntry
	err := b.db.View(func(txn *badger.Txn) error {
		id, err := resolveKey(txn, prefixEntry, "entry", idOrPrefix)
		if err != nil {
			return err
		}
		return getJSON(txn, prefixEntry+id, &e)
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListEntries retrieves entries sorted by CreatedAt descending.
func (b *BadgerStore) ListEntries(limit int) ([]*models.WorkoutEntry, error) {
	var entries []*models.WorkoutEntry
	err := b.db.View(func(txn *badger.Txn) error {
		values, err := prefixValues(txn, prefixEntry)
		if err != nil {
			return err
		}
		for _, v := range values {
			var e models.WorkoutEntry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("decode entry: %w", err)
			}
			entries = append(entries, &e)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	slices.SortStableFunc(entries, func(a, c *models.WorkoutEntry) int {
		return c.CreatedAt.Compare(a.CreatedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// DeleteEntry removes an entry by ID or prefix.
func (b *BadgerStore) DeleteEntry(idOrPrefix string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		id, err := resolveKey(txn, prefixEntry, "entry", idOrPrefix)
		if err != nil {
			return err
		}
		return txn.Delete([]byte(prefixEntry + id))
	})
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

// ToggleEntryCompletion flips an entry's completion flag and returns the updated entry.
func (b *BadgerStore) ToggleEntryCompletion(idOrPrefix string) (*models.WorkoutEntry, error) {
	var e models.WorkoutEntry
	err := b.db.Update(func(txn *badger.Txn) error {
		id, err := resolveKey(txn, prefixEntry, "entry", idOrPrefix)
		if err != nil {
			return err
		}
		if err := getJSON(txn, prefixEntry+id, &e); err != nil {
			return err
		}
		e.ToggleCompletion(time.Now())
		return setJSON(txn, prefixEntry+id, &e)
	})
	if err != nil {
		return nil, fmt.Errorf("toggle entry: %w", err)
	}
	return &e, nil
}

// CreateSession stores a new session along with any exercises it already carries.
func (b *BadgerStore) CreateSession(s *models.WorkoutSession) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	err := b.db.Update(func(txn *badger.Txn) error {
		return putNewSession(txn, s)
	})
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	for i := range s.Exercises {
		s.Exercises[i].SessionID = s.ID
		s.Exercises[i].Position = i
	}
	return nil
}

// putNewSession writes the session record and its exercises at positions 0..n-1.
func putNewSession(txn *badger.Txn, s *models.WorkoutSession) error {
	key := prefixSession + s.ID.String()
	if err := ensureAbsent(txn, key); err != nil {
		return err
	}
	rec := sessionRecord{ID: s.ID, Name: s.Name, DateCreated: s.DateCreated, IsCompleted: s.IsCompleted}
	if err := setJSON(txn, key, rec); err != nil {
		return err
	}
	for i := range s.Exercises {
		ex := s.Exercises[i]
		ex.SessionID = s.ID
		ex.Position = i
		if err := ensureAbsent(txn, prefixExercise+ex.ID.String()); err != nil {
			return err
		}
		if err := putExercise(txn, &ex); err != nil {
			return err
		}
	}
	return nil
}

// GetSession retrieves a session by ID or ID prefix, with exercises ordered by position.
func (b *BadgerStore) GetSession(idOrPrefix string) (*models.WorkoutSession, error) {
	var s *models.WorkoutSession
	err := b.db.View(func(txn *badger.Txn) error {
		id, err := resolveKey(txn, prefixSession, "session", idOrPrefix)
		if err != nil {
			return err
		}
		s, err = loadBadgerSession(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListSessions retrieves sessions sorted by DateCreated descending, each with its exercises.
func (b *BadgerStore) ListSessions(limit int) ([]*models.WorkoutSession, error) {
	var sessions []*models.WorkoutSession
	err := b.db.View(func(txn *badger.Txn) error {
		values, err := prefixValues(txn, prefixSession)
		if err != nil {
			return err
		}
		var records []sessionRecord
		for _, v := range values {
			var rec sessionRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decode session: %w", err)
			}
			records = append(records, rec)
		}

		slices.SortStableFunc(records, func(a, c sessionRecord) int {
			return c.DateCreated.Compare(a.DateCreated)
		})
		if limit > 0 && len(records) > limit {
			records = records[:limit]
		}

		for _, rec := range records {
			exercises, err := loadBadgerExercises(txn, rec.ID.String())
			if err != nil {
				return err
			}
			sessions = append(sessions, rec.session(exercises))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// DeleteSession removes a session, its exercises, and their set logs.
func (b *BadgerStore) DeleteSession(idOrPrefix string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		id, err := resolveKey(txn, prefixSession, "session", idOrPrefix)
		if err != nil {
			return err
		}
		exerciseIDs, err := prefixSuffixes(txn, prefixSessionExercises+id+"/")
		if err != nil {
			return err
		}
		for _, exID := range exerciseIDs {
			if err := deleteBadgerExercise(txn, id, exID); err != nil {
				return err
			}
		}
		return txn.Delete([]byte(prefixSession + id))
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ToggleSessionCompletion flips the session-level completion flag.
func (b *BadgerStore) ToggleSessionCompletion(idOrPrefix string) (*models.WorkoutSession, error) {
	var s *models.WorkoutSession
	err := b.db.Update(func(txn *badger.Txn) error {
		id, err := resolveKey(txn, prefixSession, "session", idOrPrefix)
		if err != nil {
			return err
		}
		var rec sessionRecord
		if err := getJSON(txn, prefixSession+id, &rec); err != nil {
			return err
		}
		rec.IsCompleted = !rec.IsCompleted
		if err := setJSON(txn, prefixSession+id, rec); err != nil {
			return err
		}
		s, err = loadBadgerSession(txn, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("toggle session: %w", err)
	}
	return s, nil
}

// AddExercise appends an exercise to the end of a session.
func (b *BadgerStore) AddExercise(sessionIDOrPrefix string, ex *models.WorkoutExercise) error {
	if err := ex.Validate(); err != nil {
		return fmt.Errorf("add exercise: %w", err)
	}

	row := *ex
	err := b.db.Update(func(txn *badger.Txn) error {
		sessionID, err := resolveKey(txn, prefixSession, "session", sessionIDOrPrefix)
		if err != nil {
			return err
		}
		existing, err := prefixSuffixes(txn, prefixSessionExercises+sessionID+"/")
		if err != nil {
			return err
		}
		if err := ensureAbsent(txn, prefixExercise+row.ID.String()); err != nil {
			return err
		}
		row.SessionID, _ = uuid.Parse(sessionID)
		row.Position = len(existing)
		return putExercise(txn, &row)
	})
	if err != nil {
		return fmt.Errorf("add exercise: %w", err)
	}

	ex.SessionID = row.SessionID
	ex.Position = row.Position
	return nil
}

// GetExercise retrieves an exercise by ID or ID prefix.
func (b *BadgerStore) GetExercise(idOrPrefix string) (*models.WorkoutExercise, error) {
	var ex models.WorkoutExercise
	err := b.db.View(func(txn *badger.Txn) error {
		id, err := resolveKey(txn, prefixExercise, "exercise", idOrPrefix)
		if err != nil {
			return err
		}
		return getJSON(txn, prefixExercise+id, &ex)
	})
	if err != nil {
		return nil, err
	}
	return &ex, nil
}

// ListExercises retrieves a session's exercises ordered by position.
func (b *BadgerStore) ListExercises(sessionID uuid.UUID) ([]*models.WorkoutExercise, error) {
	var exercises []*models.WorkoutExercise
	err := b.db.View(func(txn *badger.Txn) error {
		var err error
		exercises, err = loadBadgerExercises(txn, sessionID.String())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	return exercises, nil
}

// RemoveExercise deletes the exercise at position and shifts later exercises down by one.
func (b *BadgerStore) RemoveExercise(sessionIDOrPrefix string, position int) (*models.WorkoutExercise, error) {
	var removed *models.WorkoutExercise
	err := b.db.Update(func(txn *badger.Txn) error {
		sessionID, err := resolveKey(txn, prefixSession, "session", sessionIDOrPrefix)
		if err != nil {
			return err
		}
		exercises, err := loadBadgerExercises(txn, sessionID)
		if err != nil {
			return err
		}
		if position < 0 || position >= len(exercises) {
			return &models.IndexError{Position: position, Length: len(exercises)}
		}

		removed = exercises[position]
		if err := deleteBadgerExercise(txn, sessionID, removed.ID.String()); err != nil {
			return err
		}
		for _, ex := range exercises[position+1:] {
			ex.Position--
			if err := putExercise(txn, ex); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("remove exercise: %w", err)
	}
	return removed, nil
}

// ToggleExerciseCompletion flips an exercise's completion flag.
func (b *BadgerStore) ToggleExerciseCompletion(idOrPrefix string) (*models.WorkoutExercise, error) {
	var ex models.WorkoutExercise
	err := b.db.Update(func(txn *badger.Txn) error {
		id, err := resolveKey(txn, prefixExercise, "exercise", idOrPrefix)
		if err != nil {
			return err
		}
		if err := getJSON(txn, prefixExercise+id, &ex); err != nil {
			return err
		}
		ex.IsCompleted = !ex.IsCompleted
		return setJSON(txn, prefixExercise+id, &ex)
	})
	if err != nil {
		return nil, fmt.Errorf("toggle exercise: %w", err)
	}
	return &ex, nil
}

// GetExerciseSession follows an exercise's back-reference to its owning session.
func (b *BadgerStore) GetExerciseSession(exerciseIDOrPrefix string) (*models.WorkoutSession, error) {
	var s *models.WorkoutSession
	err := b.db.View(func(txn *badger.Txn) error {
		id, err := resolveKey(txn, prefixExercise, "exercise", exerciseIDOrPrefix)
		if err != nil {
			return err
		}
		var ex models.WorkoutExercise
		if err := getJSON(txn, prefixExercise+id, &ex); err != nil {
			return err
		}
		s, err = loadBadgerSession(txn, ex.SessionID.String())
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// LogSet records a performed set with the next set number for its exercise.
func (b *BadgerStore) LogSet(sl *models.SetLog) error {
	if err := sl.Validate(); err != nil {
		return fmt.Errorf("log set: %w", err)
	}

	var n int
	err := b.db.Update(func(txn *badger.Txn) error {
		var err error
		n, err = putNewSetLog(txn, sl)
		return err
	})
	if err != nil {
		return fmt.Errorf("log set: %w", err)
	}
	sl.SetNumber = n
	return nil
}

// putNewSetLog writes sl with the next set number for its exercise and returns that number.
func putNewSetLog(txn *badger.Txn, sl *models.SetLog) (int, error) {
	exerciseID := sl.ExerciseID.String()
	if _, err := txn.Get([]byte(prefixExercise + exerciseID)); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return 0, models.NotFound("exercise", exerciseID)
		}
		return 0, err
	}
	existing, err := prefixSuffixes(txn, prefixExerciseSetLogs+exerciseID+"/")
	if err != nil {
		return 0, err
	}
	row := *sl
	if err := ensureAbsent(txn, prefixSetLog+row.ID.String()); err != nil {
		return 0, err
	}
	row.SetNumber = len(existing) + 1
	if err := setJSON(txn, prefixSetLog+row.ID.String(), &row); err != nil {
		return 0, err
	}
	if err := txn.Set([]byte(prefixExerciseSetLogs+exerciseID+"/"+row.ID.String()), []byte{}); err != nil {
		return 0, err
	}
	return row.SetNumber, nil
}

// ListSetLogs retrieves an exercise's set logs ordered by set number.
func (b *BadgerStore) ListSetLogs(exerciseID uuid.UUID) ([]*models.SetLog, error) {
	var logs []*models.SetLog
	err := b.db.View(func(txn *badger.Txn) error {
		ids, err := prefixSuffixes(txn, prefixExerciseSetLogs+exerciseID.String()+"/")
		if err != nil {
			return err
		}
		for _, id := range ids {
			var sl models.SetLog
			if err := getJSON(txn, prefixSetLog+id, &sl); err != nil {
				return err
			}
			logs = append(logs, &sl)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list set logs: %w", err)
	}
	slices.SortFunc(logs, func(a, c *models.SetLog) int {
		return a.SetNumber - c.SetNumber
	})
	return logs, nil
}

// GetAllData retrieves all data for export.
func (b *BadgerStore) GetAllData() (*ExportData, error) {
	return collectAll(b)
}

// ImportData imports data from an export file in a single transaction.
// Any invalid or duplicate record aborts the import with nothing written.
func (b *BadgerStore) ImportData(data *ExportData) error {
	if err := validateImport(data); err != nil {
		return err
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		for _, e := range data.Entries {
			if err := putNewEntry(txn, e); err != nil {
				return fmt.Errorf("import entry: %w", err)
			}
		}
		for _, s := range data.Sessions {
			if err := putNewSession(txn, s); err != nil {
				return fmt.Errorf("import session: %w", err)
			}
			for _, sl := range importSetLogs(s) {
				if _, err := putNewSetLog(txn, sl); err != nil {
					return fmt.Errorf("import set log: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("import data: %w", err)
	}
	return nil
}

func (r sessionRecord) session(exercises []*models.WorkoutExercise) *models.WorkoutSession {
	return &models.WorkoutSession{
		ID:          r.ID,
		Name:        r.Name,
		DateCreated: r.DateCreated,
		IsCompleted: r.IsCompleted,
		Exercises:   derefExercises(exercises),
	}
}

func loadBadgerSession(txn *badger.Txn, id string) (*models.WorkoutSession, error) {
	var rec sessionRecord
	if err := getJSON(txn, prefixSession+id, &rec); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, models.NotFound("session", id)
		}
		return nil, err
	}
	exercises, err := loadBadgerExercises(txn, id)
	if err != nil {
		return nil, err
	}
	return rec.session(exercises), nil
}

func loadBadgerExercises(txn *badger.Txn, sessionID string) ([]*models.WorkoutExercise, error) {
	ids, err := prefixSuffixes(txn, prefixSessionExercises+sessionID+"/")
	if err != nil {
		return nil, err
	}
	exercises := make([]*models.WorkoutExercise, 0, len(ids))
	for _, id := range ids {
		var ex models.WorkoutExercise
		if err := getJSON(txn, prefixExercise+id, &ex); err != nil {
			return nil, err
		}
		exercises = append(exercises, &ex)
	}
	slices.SortFunc(exercises, func(a, c *models.WorkoutExercise) int {
		return a.Position - c.Position
	})
	return exercises, nil
}

// putExercise writes the exercise record and its session index key.
func putExercise(txn *badger.Txn, ex *models.WorkoutExercise) error {
	stored := *ex
	stored.SetLogs = nil
	if err := setJSON(txn, prefixExercise+ex.ID.String(), &stored); err != nil {
		return err
	}
	return txn.Set([]byte(prefixSessionExercises+ex.SessionID.String()+"/"+ex.ID.String()), []byte{})
}

// deleteBadgerExercise removes an exercise, its set logs, and all index keys pointing at them.
func deleteBadgerExercise(txn *badger.Txn, sessionID, exerciseID string) error {
	setLogIDs, err := prefixSuffixes(txn, prefixExerciseSetLogs+exerciseID+"/")
	if err != nil {
		return err
	}
	for _, id := range setLogIDs {
		if err := txn.Delete([]byte(prefixSetLog + id)); err != nil {
			return err
		}
		if err := txn.Delete([]byte(prefixExerciseSetLogs + exerciseID + "/" + id)); err != nil {
			return err
		}
	}
	if err := txn.Delete([]byte(prefixExercise + exerciseID)); err != nil {
		return err
	}
	return txn.Delete([]byte(prefixSessionExercises + sessionID + "/" + exerciseID))
}

// resolveKey finds the full ID under prefix from an ID or unique ID prefix.
func resolveKey(txn *badger.Txn, prefix, kind, idOrPrefix string) (string, error) {
	idOrPrefix = strings.ToLower(strings.TrimSpace(idOrPrefix))
	if idOrPrefix == "" {
		return "", models.NotFound(kind, idOrPrefix)
	}

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(prefix + idOrPrefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	var matches []string
	for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix) && len(matches) < 2; it.Next() {
		matches = append(matches, strings.TrimPrefix(string(it.Item().Key()), prefix))
	}

	switch len(matches) {
	case 0:
		return "", models.NotFound(kind, idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return "", models.Ambiguous(idOrPrefix)
	}
}

// prefixValues returns copies of every value stored under prefix.
func prefixValues(txn *badger.Txn, prefix string) ([][]byte, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	var values [][]byte
	for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
		v, err := it.Item().ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// prefixSuffixes returns the key remainder after prefix for every key under it.
func prefixSuffixes(txn *badger.Txn, prefix string) ([]string, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	var out []string
	for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
		out = append(out, strings.TrimPrefix(string(it.Item().Key()), prefix))
	}
	return out, nil
}

func getJSON(txn *badger.Txn, key string, v any) error {
	item, err := txn.Get([]byte(key))
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func setJSON(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return txn.Set([]byte(key), data)
}

func ensureAbsent(txn *badger.Txn, key string) error {
	_, err := txn.Get([]byte(key))
	if err == nil {
		return fmt.Errorf("%s already exists", key)
	}
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	return err
}

// badgerLogger routes Badger's internal logging through slog.
type badgerLogger struct {
	log *slog.Logger
}

func newBadgerLogger(l *slog.Logger) *badgerLogger {
	return &badgerLogger{log: l.With("component", "badger")}
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Infof is demoted to debug; Badger is chatty at info level.
func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
