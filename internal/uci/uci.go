package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/hailam/chess88/internal/board"
	"github.com/hailam/chess88/internal/engine"
)

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine   *engine.Engine
	position *board.Position
	defaults engine.SearchLimits

	out   io.Writer
	outMu sync.Mutex
	log   zerolog.Logger

	// Search state
	cancel     context.CancelFunc
	searchDone chan struct{}
	infinite   bool
}

// New creates a new UCI protocol handler writing responses to out.
func New(eng *engine.Engine, out io.Writer, log zerolog.Logger) *UCI {
	u := &UCI{
		engine:   eng,
		position: board.NewPosition(),
		defaults: engine.DifficultySettings[eng.Difficulty()],
		out:      out,
		log:      log,
	}
	eng.OnInfo = u.sendInfo
	return u
}

// SetDefaultLimits sets the limits used by a bare "go".
func (u *UCI) SetDefaultLimits(limits engine.SearchLimits) {
	u.defaults = limits
}

// DefaultLimits returns the limits used by a bare "go".
func (u *UCI) DefaultLimits() engine.SearchLimits {
	return u.defaults
}

// Run reads commands from in until "quit" or end of input. Searches
// started by "go" inherit ctx. At end of input a bounded search is
// allowed to finish; an infinite one is stopped.
func (u *UCI) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			u.handleStop()
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(ctx, args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleStop()
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.handleDisplay()
		case "eval":
			u.printf("Eval: %s\n", engine.ScoreToString(u.engine.Evaluate(u.position)))
		case "perft":
			u.handlePerft(args)
		default:
			u.log.Warn().Str("command", cmd).Msg("unknown command")
		}
	}

	if u.infinite {
		u.handleStop()
	} else {
		u.wait()
	}
	return errors.Wrap(scanner.Err(), "uci: read input")
}

func (u *UCI) printf(format string, args ...interface{}) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	fmt.Fprintf(u.out, format, args...)
}

func (u *UCI) println(s string) {
	u.printf("%s\n", s)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name chess88")
	u.println("id author chess88 authors")
	u.println("")
	u.printf("option name Depth type spin default %d min 0 max %d\n", u.defaults.Depth, engine.MaxPly)
	u.printf("option name MoveTime type spin default %d min 0 max 3600000\n", u.defaults.MoveTime.Milliseconds())
	u.printf("option name Difficulty type combo default %s var easy var medium var hard\n", u.engine.Difficulty())
	u.println("uciok")
}

// handleNewGame resets the position for a new game.
func (u *UCI) handleNewGame() {
	u.handleStop()
	u.position = board.NewPosition()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
//
// A bad descriptor leaves the current position unchanged. Moves are
// applied up to the first one that does not parse or is illegal.
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var pos *board.Position
	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
	case "fen":
		fen := strings.Join(args[1:movesAt], " ")
		var err error
		pos, err = board.ParseFEN(fen)
		if err != nil {
			u.log.Error().Err(err).Str("fen", fen).Msg("rejected position")
			u.printf("info string %s\n", strings.ReplaceAll(err.Error(), "\n", " "))
			return
		}
	default:
		u.log.Warn().Str("arg", args[0]).Msg("position needs startpos or fen")
		return
	}

	if movesAt < len(args) {
		for _, s := range args[movesAt+1:] {
			m, err := pos.ParseMove(s)
			if err != nil {
				u.log.Error().Err(err).Str("fen", pos.ToFEN()).Msg("rejected move")
				u.printf("info string %v\n", err)
				break
			}
			pos.Apply(m)
		}
	}

	u.position = pos
}

// GoOptions holds parsed "go" command parameters.
type GoOptions struct {
	Depth     int
	MoveTime  time.Duration
	Infinite  bool
	WTime     time.Duration
	BTime     time.Duration
	WInc      time.Duration
	BInc      time.Duration
	MovesToGo int
}

// handleGo starts a search with the given parameters. The search owns a
// copy of the position; bestmove is printed when it returns.
func (u *UCI) handleGo(ctx context.Context, args []string) {
	u.handleStop()

	opts := parseGoOptions(args)
	limits := u.calculateLimits(opts)

	searchCtx, cancel := context.WithCancel(ctx)
	u.cancel = cancel
	u.infinite = opts.Infinite
	u.searchDone = make(chan struct{})

	pos := u.position.Copy()
	done := u.searchDone

	go func() {
		defer close(done)
		defer cancel()

		result, err := u.engine.Search(searchCtx, pos, limits)
		if err != nil {
			u.log.Error().Err(err).Interface("limits", limits).Msg("search rejected")
			u.println("bestmove 0000")
			return
		}
		if !result.HasMove() {
			u.println("bestmove 0000")
			return
		}
		u.printf("bestmove %s\n", result.Move)
	}()
}

// parseGoOptions parses "go" command arguments. Unknown tokens and
// malformed numbers are ignored.
func parseGoOptions(args []string) GoOptions {
	opts := GoOptions{}

	millis := func(s string) time.Duration {
		ms, _ := strconv.Atoi(s)
		return time.Duration(ms) * time.Millisecond
	}

	for i := 0; i < len(args); i++ {
		if args[i] == "infinite" {
			opts.Infinite = true
			continue
		}
		if i+1 >= len(args) {
			break
		}
		val := args[i+1]
		switch args[i] {
		case "depth":
			opts.Depth, _ = strconv.Atoi(val)
		case "movetime":
			opts.MoveTime = millis(val)
		case "wtime":
			opts.WTime = millis(val)
		case "btime":
			opts.BTime = millis(val)
		case "winc":
			opts.WInc = millis(val)
		case "binc":
			opts.BInc = millis(val)
		case "movestogo":
			opts.MovesToGo, _ = strconv.Atoi(val)
		default:
			continue
		}
		i++
	}

	return opts
}

// calculateLimits converts GoOptions to engine.SearchLimits. Without any
// bound the configured defaults apply.
func (u *UCI) calculateLimits(opts GoOptions) engine.SearchLimits {
	if opts.Infinite {
		return engine.SearchLimits{Depth: engine.MaxPly}
	}

	limits := engine.SearchLimits{}
	if opts.Depth > 0 {
		limits.Depth = opts.Depth
	}

	if opts.MoveTime > 0 {
		limits.MoveTime = opts.MoveTime
	} else if opts.WTime > 0 || opts.BTime > 0 {
		clock := engine.ClockLimits{
			Time:      [2]time.Duration{opts.WTime, opts.BTime},
			Inc:       [2]time.Duration{opts.WInc, opts.BInc},
			MovesToGo: opts.MovesToGo,
		}
		ply := (u.position.FullMoveNumber-1)*2 + int(u.position.SideToMove)
		limits.MoveTime = engine.AllocateMoveTime(clock, u.position.SideToMove, ply)
		u.log.Debug().
			Dur("allocated", limits.MoveTime).
			Dur("wtime", opts.WTime).
			Dur("btime", opts.BTime).
			Int("movestogo", opts.MovesToGo).
			Msg("time allocated")
	}

	if limits.Depth == 0 && limits.MoveTime == 0 {
		return u.defaults
	}
	return limits
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	var parts []string

	parts = append(parts, fmt.Sprintf("depth %d", info.Depth))

	if n, ok := engine.MateDistance(info.Score); ok {
		parts = append(parts, fmt.Sprintf("score mate %d", n))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %d", info.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))

	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}

	if len(info.PV) > 0 {
		pv := make([]string, len(info.PV))
		for i, m := range info.PV {
			pv[i] = m.String()
		}
		parts = append(parts, "pv "+strings.Join(pv, " "))
	}

	u.printf("info %s\n", strings.Join(parts, " "))
}

// handleStop stops the current search and waits for its bestmove.
func (u *UCI) handleStop() {
	if u.cancel != nil {
		u.cancel()
	}
	u.wait()
}

// wait blocks until the running search, if any, has printed bestmove.
func (u *UCI) wait() {
	if u.searchDone != nil {
		<-u.searchDone
		u.searchDone = nil
		u.cancel = nil
		u.infinite = false
	}
}

// handleSetOption processes "setoption name <name> value <value>".
func (u *UCI) handleSetOption(args []string) {
	var name, value []string
	var target *[]string

	for _, arg := range args {
		switch arg {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			if target != nil {
				*target = append(*target, arg)
			}
		}
	}

	val := strings.Join(value, " ")
	switch strings.ToLower(strings.Join(name, " ")) {
	case "depth":
		if d, err := strconv.Atoi(val); err == nil && d >= 0 && d <= engine.MaxPly {
			u.defaults.Depth = d
		}
	case "movetime":
		if ms, err := strconv.Atoi(val); err == nil && ms >= 0 {
			u.defaults.MoveTime = time.Duration(ms) * time.Millisecond
		}
	case "difficulty":
		d, err := engine.ParseDifficulty(val)
		if err != nil {
			u.log.Warn().Err(err).Msg("setoption ignored")
			return
		}
		u.engine.SetDifficulty(d)
		u.defaults = engine.DifficultySettings[d]
	default:
		u.log.Warn().Strs("name", name).Msg("unknown option")
	}
}

// handleDisplay prints the board, its descriptor and the evaluation.
func (u *UCI) handleDisplay() {
	u.println(u.position.String())
	u.printf("Fen: %s\n", u.position.ToFEN())
	u.printf("Eval: %s\n", engine.ScoreToString(u.engine.Evaluate(u.position)))
}

// handlePerft prints the node count below each root move and the total.
func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			u.log.Warn().Str("depth", args[0]).Msg("perft needs a positive depth")
			return
		}
		depth = d
	}

	start := time.Now()
	var nodes uint64
	for _, e := range u.position.Divide(depth) {
		u.printf("%s: %d\n", e.Move, e.Nodes)
		nodes += e.Nodes
	}
	elapsed := time.Since(start)

	u.println("")
	u.printf("Nodes: %d\n", nodes)
	u.printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		u.printf("NPS: %.0f\n", nps)
	}
}
