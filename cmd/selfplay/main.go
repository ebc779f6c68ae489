// Command selfplay lets the engine play both sides of a game and prints
// the result as PGN. Finished games can be saved to the database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/hailam/chess88/internal/board"
	"github.com/hailam/chess88/internal/engine"
	"github.com/hailam/chess88/internal/game"
	"github.com/hailam/chess88/internal/storage"
)

var (
	fen      = flag.String("fen", board.StartFEN, "starting position")
	depth    = flag.Int("depth", 4, "search depth per move (0 = time only)")
	moveTime = flag.Duration("movetime", 500*time.Millisecond, "time budget per move (0 = depth only)")
	maxMoves = flag.Int("max-moves", 200, "stop after this many plies")
	save     = flag.String("save", "", "save the game under this name")
	dbDir    = flag.String("db", "", "database directory (default: platform data dir)")
	logLevel = flag.String("log-level", "info", "zerolog level")
)

func main() {
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
	if level, err := zerolog.ParseLevel(*logLevel); err == nil {
		log = log.Level(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g, err := play(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("self-play")
	}

	pgn, err := g.PGN(map[string]string{
		"Event": "chess88 self-play",
		"Date":  time.Now().Format("2006.01.02"),
		"White": "chess88",
		"Black": "chess88",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("export")
	}
	fmt.Println(pgn)

	if *save != "" {
		if err := persist(g); err != nil {
			log.Fatal().Err(err).Msg("save")
		}
		log.Info().Str("name", *save).Msg("game saved")
	}
}

// play alternates engine searches until the game ends, the ply limit is
// reached or ctx is cancelled.
func play(ctx context.Context, log zerolog.Logger) (*game.Game, error) {
	g, err := game.FromFEN(*fen)
	if err != nil {
		return nil, err
	}

	eng := engine.NewEngine()
	eng.SetLogger(log.With().Str("component", "engine").Logger())
	limits := engine.SearchLimits{Depth: *depth, MoveTime: *moveTime}

	for ply := 0; ply < *maxMoves && !g.Status().IsOver(); ply++ {
		pos := g.Position()
		res, err := eng.Search(ctx, pos, limits)
		if err != nil {
			return nil, err
		}
		if ctx.Err() != nil {
			log.Warn().Msg("interrupted")
			break
		}
		if err := g.PlayMove(res.Move); err != nil {
			return nil, errors.Wrapf(err, "engine move at ply %d", ply+1)
		}
		log.Info().
			Int("ply", ply+1).
			Str("move", res.Move.String()).
			Str("score", engine.ScoreToString(res.Score)).
			Int("depth", res.Depth).
			Msg("played")
	}

	log.Info().Str("status", g.Status().String()).Str("result", g.Outcome()).Msg("game over")
	return g, nil
}

// persist saves the game and, when it has finished, adds it to the stats.
func persist(g *game.Game) error {
	var store *storage.Storage
	var err error
	if *dbDir != "" {
		store, err = storage.Open(*dbDir)
	} else {
		store, err = storage.OpenDefault()
	}
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveGame(g.Record(*save)); err != nil {
		return err
	}
	if g.Status().IsOver() {
		return store.RecordResult(g)
	}
	return nil
}
