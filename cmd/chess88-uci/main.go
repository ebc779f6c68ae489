package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chess88/internal/engine"
	"github.com/hailam/chess88/internal/storage"
	"github.com/hailam/chess88/internal/uci"
)

var (
	depth      = flag.Int("depth", 0, "default search depth for a bare go (overrides saved preference)")
	moveTime   = flag.Duration("movetime", 0, "default time budget for a bare go (overrides saved preference)")
	difficulty = flag.String("difficulty", "", "easy, medium or hard")
	dbDir      = flag.String("db", "", "database directory (default: platform data dir)")
	logLevel   = flag.String("log-level", "", "zerolog level: debug, info, warn, error")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", profilePath).Msg("CPU profiling enabled")
	}

	prefs, store := loadPreferences(log)
	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				log.Error().Err(err).Msg("closing database")
			}
		}()
	}

	level, err := zerolog.ParseLevel(prefs.LogLevel)
	if err != nil {
		log.Warn().Err(err).Msg("using info level")
		level = zerolog.InfoLevel
	}
	log = log.Level(level)

	eng := engine.NewEngine()
	eng.SetLogger(log)
	if d, err := engine.ParseDifficulty(prefs.Difficulty); err == nil {
		eng.SetDifficulty(d)
	} else {
		log.Warn().Err(err).Msg("keeping default difficulty")
	}

	protocol := uci.New(eng, os.Stdout, log)
	protocol.SetDefaultLimits(engine.SearchLimits{Depth: prefs.Depth, MoveTime: prefs.MoveTime})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := protocol.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("uci loop")
	}
}

// loadPreferences reads saved preferences and applies any flag given on
// the command line. Explicit flags are saved back. A database that cannot
// be opened is not fatal; defaults are used instead.
func loadPreferences(log zerolog.Logger) (*storage.Preferences, *storage.Storage) {
	var store *storage.Storage
	var err error
	if *dbDir != "" {
		store, err = storage.Open(*dbDir)
	} else {
		store, err = storage.OpenDefault()
	}

	prefs := storage.DefaultPreferences()
	if err != nil {
		log.Warn().Err(err).Msg("preferences unavailable")
		store = nil
	} else if prefs, err = store.LoadPreferences(); err != nil {
		log.Warn().Err(err).Msg("using default preferences")
		prefs = storage.DefaultPreferences()
	}

	var o overrides
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "depth":
			o.depth = depth
		case "movetime":
			o.moveTime = moveTime
		case "difficulty":
			o.difficulty = difficulty
		case "log-level":
			o.logLevel = logLevel
		}
	})
	changed := o.apply(prefs)

	if changed && store != nil {
		if err := store.SavePreferences(prefs); err != nil {
			log.Warn().Err(err).Msg("saving preferences")
		}
	}
	return prefs, store
}

// overrides holds the flags given on the command line; nil means unset.
type overrides struct {
	depth      *int
	moveTime   *time.Duration
	difficulty *string
	logLevel   *string
}

// apply merges the overrides into prefs and reports whether any was set.
// A difficulty preset goes first so explicit depth and movetime win.
func (o overrides) apply(prefs *storage.Preferences) bool {
	changed := false
	if o.difficulty != nil {
		prefs.Difficulty = *o.difficulty
		if d, err := engine.ParseDifficulty(*o.difficulty); err == nil {
			limits := engine.DifficultySettings[d]
			prefs.Depth, prefs.MoveTime = limits.Depth, limits.MoveTime
		}
		changed = true
	}
	if o.depth != nil {
		prefs.Depth = *o.depth
		changed = true
	}
	if o.moveTime != nil {
		prefs.MoveTime = *o.moveTime
		changed = true
	}
	if o.logLevel != nil {
		prefs.LogLevel = *o.logLevel
		changed = true
	}
	return changed
}
