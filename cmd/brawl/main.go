// Package main provides the brawl binary that runs one match between two
// classes and records its battle log.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/brawl/internal/battlelog"
	"github.com/cory-johannsen/brawl/internal/config"
	"github.com/cory-johannsen/brawl/internal/game/ai"
	"github.com/cory-johannsen/brawl/internal/game/class"
	"github.com/cory-johannsen/brawl/internal/game/combat"
	"github.com/cory-johannsen/brawl/internal/game/decider"
	"github.com/cory-johannsen/brawl/internal/game/dice"
	"github.com/cory-johannsen/brawl/internal/game/match"
	"github.com/cory-johannsen/brawl/internal/observability"
	"github.com/cory-johannsen/brawl/internal/scripting"
	"github.com/cory-johannsen/brawl/internal/storage/postgres"
)

const (
	botRandom = "random"
	botHuman  = "human"
)

// side is one entrant as named on the command line.
type side struct {
	class string
	level int
	bot   string
}

type options struct {
	configPath string
	mode       string
	// seed overrides match.seed when non-zero.
	seed  uint64
	sides [2]side
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("brawl", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "configs/dev.yaml", "path to configuration file")
	fs.StringVar(&o.mode, "mode", "gemgrab", "objective mode: gemgrab or showdown")
	fs.Uint64Var(&o.seed, "seed", 0, "random seed; 0 = use match.seed from config")
	fs.StringVar(&o.sides[0].class, "p1", "brute", "class id of player 1")
	fs.IntVar(&o.sides[0].level, "p1-level", 1, "level of player 1 (1-10)")
	fs.StringVar(&o.sides[0].bot, "p1-bot", botHuman, "player 1 controller: random, human or an AI domain id")
	fs.StringVar(&o.sides[1].class, "p2", "sniper", "class id of player 2")
	fs.IntVar(&o.sides[1].level, "p2-level", 1, "level of player 2 (1-10)")
	fs.StringVar(&o.sides[1].bot, "p2-bot", "aggressor", "player 2 controller: random, human or an AI domain id")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return o, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("brawl: %v", err)
	}
}

// run plays one match as described by opts, reading human moves from in and
// writing the transcript and summary to out.
func run(ctx context.Context, opts options, in io.Reader, out io.Writer) error {
	start := time.Now()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	seed := cfg.Match.Seed
	if opts.seed != 0 {
		seed = opts.seed
	}
	src := dice.NewSource(seed)

	classes, err := class.LoadRegistry(cfg.Content.ClassesDir)
	if err != nil {
		return fmt.Errorf("loading classes: %w", err)
	}
	logger.Info("classes loaded", zap.Strings("classes", classes.IDs()))

	var entrants [2]match.Entrant
	for i, s := range opts.sides {
		c, err := classes.Lookup(s.class)
		if err != nil {
			return fmt.Errorf("player %d: %w", i+1, err)
		}
		entrants[i] = match.Entrant{ID: combat.ID(i + 1), Class: c, Level: s.level}
	}

	deciders := &deciderFactory{
		cfg:    cfg.Content,
		src:    src,
		logger: logger,
		in:     in,
		out:    out,
	}
	defer deciders.close()

	routes := make(map[combat.ID]combat.Decider, 2)
	for i, s := range opts.sides {
		d, err := deciders.build(s.bot)
		if err != nil {
			return fmt.Errorf("player %d: %w", i+1, err)
		}
		routes[entrants[i].ID] = d
	}

	m, err := match.New(match.Config{
		Mode:   opts.mode,
		Rules:  cfg.Match.Rules(),
		Source: src,
		Logger: logger,
	}, entrants[0], entrants[1], decider.NewRouter(routes))
	if err != nil {
		return fmt.Errorf("creating match: %w", err)
	}

	res, err := m.Run(ctx)
	if err != nil {
		return err
	}

	entry := battlelog.FromResult(res)
	recorders := battlelog.Multi{battlelog.NewLogRecorder(logger)}
	if cfg.Database.Enabled {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()
		if err := pool.Ready(ctx, 5*time.Second); err != nil {
			return fmt.Errorf("checking database: %w", err)
		}
		recorders = append(recorders, pool.BattleLogs())
	}
	if err := recorders.Save(ctx, entry); err != nil {
		return fmt.Errorf("recording battle log: %w", err)
	}

	printSummary(out, entry)
	logger.Info("brawl finished", zap.Duration("elapsed", time.Since(start)))
	return nil
}

// deciderFactory builds one decider per controller name. Scripted bots share
// one scripting manager, loaded on first use.
type deciderFactory struct {
	cfg    config.ContentConfig
	src    dice.Source
	logger *zap.Logger
	in     io.Reader
	out    io.Writer

	console *decider.Console
	scripts *scripting.Manager
	bots    *ai.Registry
	board   *ai.Board
}

func (f *deciderFactory) build(bot string) (combat.Decider, error) {
	switch bot {
	case botRandom:
		return decider.NewRandom(f.src, f.logger), nil
	case botHuman:
		if f.console == nil {
			f.console = decider.NewConsole(f.in, f.out)
		}
		return f.console, nil
	}

	if f.bots == nil {
		if err := f.loadBots(); err != nil {
			return nil, err
		}
	}
	planner, ok := f.bots.PlannerFor(bot)
	if !ok {
		return nil, fmt.Errorf("unknown controller %q: want %s, %s or one of %v", bot, botRandom, botHuman, f.bots.IDs())
	}
	return ai.NewDecider(planner, f.board, f.logger), nil
}

func (f *deciderFactory) loadBots() error {
	start := time.Now()
	domains, err := ai.LoadDomains(f.cfg.AIDir)
	if err != nil {
		return fmt.Errorf("loading ai domains: %w", err)
	}

	f.board = ai.NewBoard()
	f.scripts = scripting.NewManager(dice.NewLoggedRoller(f.src, f.logger), f.logger)
	f.scripts.GetCombatant = f.board.Lookup
	f.bots = ai.NewRegistry()
	for _, d := range domains {
		if err := f.scripts.Load(d.ID, f.cfg.AIScriptsDir, f.cfg.ScriptInstructionLimit); err != nil {
			return fmt.Errorf("loading ai scripts for %q: %w", d.ID, err)
		}
		if err := f.bots.Register(d, f.scripts); err != nil {
			return err
		}
	}
	f.logger.Info("ai domains loaded",
		zap.Strings("domains", f.bots.IDs()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func (f *deciderFactory) close() {
	if f.scripts != nil {
		f.scripts.Close()
	}
}

func printSummary(out io.Writer, e *battlelog.Entry) {
	fmt.Fprintf(out, "%s: %s after %d rounds\n", e.Mode, e.Outcome, e.Rounds)
	for _, p := range e.Players {
		result := "lost"
		switch {
		case e.Draw:
			result = "drew"
		case p.Won:
			result = "won"
		}
		fmt.Fprintf(out, "  player %s (%s, level %d): %d collected, %s\n", p.CombatantID, p.Class, p.Level, p.Resources, result)
	}
}
