package storage

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/hailam/chess88/internal/game"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	gamePrefix     = "game/"
)

// ErrNotFound is returned when a saved game does not exist.
var ErrNotFound = errors.New("storage: not found")

// Preferences stores engine settings that persist between runs.
type Preferences struct {
	Depth      int           `json:"depth"`
	MoveTime   time.Duration `json:"move_time"`
	Difficulty string        `json:"difficulty"`
	LogLevel   string        `json:"log_level"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// DefaultPreferences returns default preferences
func DefaultPreferences() *Preferences {
	return &Preferences{
		Depth:      5,
		MoveTime:   2 * time.Second,
		Difficulty: "medium",
		LogLevel:   "info",
	}
}

// Stats counts finished games by result.
type Stats struct {
	GamesPlayed   int            `json:"games_played"`
	WhiteWins     int            `json:"white_wins"`
	BlackWins     int            `json:"black_wins"`
	Draws         int            `json:"draws"`
	ByTermination map[string]int `json:"by_termination"`
}

// NewStats returns empty statistics
func NewStats() *Stats {
	return &Stats{ByTermination: make(map[string]int)}
}

// DrawRate returns the share of drawn games as a percentage (0-100)
func (s *Stats) DrawRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Draws) / float64(s.GamesPlayed) * 100
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db       *badger.DB
	inMemory bool
}

// Open opens (creating if needed) a database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "storage: open %s", dir)
	}
	return &Storage{db: db}, nil
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "storage: open in-memory")
	}
	return &Storage{db: db, inMemory: true}, nil
}

// OpenDefault opens the database in the platform data directory.
func OpenDefault() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, errors.Wrap(err, "storage: data directory")
	}
	return Open(dbDir)
}

// Close flushes and closes the database
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}

	var result *multierror.Error
	if !s.inMemory {
		if err := s.db.Sync(); err != nil {
			result = multierror.Append(result, errors.Wrap(err, "storage: sync"))
		}
	}
	if err := s.db.Close(); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "storage: close"))
	}
	s.db = nil
	return result.ErrorOrNil()
}

func (s *Storage) put(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "storage: encode %s", key)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes the value under key into v. found is false if the key is absent.
func (s *Storage) get(key string, v interface{}) (found bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, errors.Wrapf(err, "storage: read %s", key)
}

// SavePreferences saves engine preferences
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.UpdatedAt = time.Now()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences loads preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	if _, err := s.get(keyPreferences, prefs); err != nil {
		return DefaultPreferences(), err
	}
	return prefs, nil
}

func validName(name string) error {
	if name == "" || strings.ContainsAny(name, "/\x00") {
		return errors.Errorf("storage: invalid game name %q", name)
	}
	return nil
}

// SaveGame stores a game record under its name, replacing any previous one.
func (s *Storage) SaveGame(rec game.Record) error {
	if err := validName(rec.Name); err != nil {
		return err
	}
	if rec.SavedAt.IsZero() {
		rec.SavedAt = time.Now()
	}
	return s.put(gamePrefix+rec.Name, rec)
}

// LoadGame returns the record saved under name.
func (s *Storage) LoadGame(name string) (game.Record, error) {
	var rec game.Record
	if err := validName(name); err != nil {
		return rec, err
	}

	found, err := s.get(gamePrefix+name, &rec)
	if err != nil {
		return rec, err
	}
	if !found {
		return rec, errors.Wrapf(ErrNotFound, "game %q", name)
	}
	return rec, nil
}

// ListGames returns the names of all saved games in sorted order.
func (s *Storage) ListGames() ([]string, error) {
	var names []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(gamePrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			names = append(names, strings.TrimPrefix(string(it.Item().Key()), gamePrefix))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "storage: list games")
	}

	slices.Sort(names)
	return names, nil
}

// DeleteGame removes a saved game.
func (s *Storage) DeleteGame(name string) error {
	if err := validName(name); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(gamePrefix + name)
		if _, err := txn.Get(key); err == badger.ErrKeyNotFound {
			return errors.Wrapf(ErrNotFound, "game %q", name)
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// LoadStats loads result statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*Stats, error) {
	stats := NewStats()
	if _, err := s.get(keyStats, stats); err != nil {
		return NewStats(), err
	}
	if stats.ByTermination == nil {
		stats.ByTermination = make(map[string]int)
	}
	return stats, nil
}

// RecordResult adds a finished game to the statistics.
func (s *Storage) RecordResult(g *game.Game) error {
	status := g.Status()
	if !status.IsOver() {
		return errors.New("storage: game is not over")
	}

	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.ByTermination[status.String()]++
	switch g.Outcome() {
	case "1-0":
		stats.WhiteWins++
	case "0-1":
		stats.BlackWins++
	default:
		stats.Draws++
	}

	return s.put(keyStats, stats)
}
