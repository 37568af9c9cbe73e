// Command game plays bot-vs-bot matches in the terminal, either locally or
// against a running API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/pefman/orlog-duel/internal/api"
	"github.com/pefman/orlog-duel/internal/bot"
	"github.com/pefman/orlog-duel/internal/config"
	"github.com/pefman/orlog-duel/internal/engine"
	"github.com/pefman/orlog-duel/internal/favors"
	"github.com/pefman/orlog-duel/internal/game"
	"github.com/pefman/orlog-duel/internal/logging"
	"github.com/pefman/orlog-duel/internal/models"
)

// Build metadata injected via -ldflags at build time
var (
	buildVersion = "dev"
	buildTime    = ""
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "game:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("game", flag.ContinueOnError)
	remote := fs.String("remote", "", "base URL of an API server to simulate on")
	quiet := fs.Bool("quiet", false, "only print the result")
	version := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *version {
		fmt.Fprintf(out, "orlog-duel %s %s\n", buildVersion, buildTime)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *remote != "" {
		return simulateRemote(ctx, cfg, *remote, out)
	}
	return simulateLocal(cfg, log, *quiet, out)
}

func seatFavors(cfg config.Config) [2][]string {
	picks := cfg.Favors()
	for i := range picks {
		if len(picks[i]) == 0 {
			picks[i] = favors.Names()[:engine.MaxFavors]
		}
	}
	return picks
}

func simulateLocal(cfg config.Config, log *zap.Logger, quiet bool, out io.Writer) error {
	seed := cfg.Seed
	if seed == 0 {
		s, err := engine.NewSeed()
		if err != nil {
			return err
		}
		seed = s
	}
	r, err := engine.NewRNG(seed)
	if err != nil {
		return err
	}

	var notifier engine.Notifier = logging.NewNotifier(log)
	if !quiet {
		notifier = logging.Tee{notifier, engine.NotifierFunc(func(n engine.Notice) {
			fmt.Fprintf(out, "  %s\n", n.Text)
		})}
	}
	g := game.New(game.Options{Names: cfg.Names(), Rand: r, Notifier: notifier})
	for seat, names := range seatFavors(cfg) {
		if err := g.ChooseFavors(game.Seat(seat), names); err != nil {
			return fmt.Errorf("seat %d favors: %w", seat+1, err)
		}
	}
	fmt.Fprintf(out, "seed %d: %s vs %s\n", seed, g.Player(game.SeatOne).Name, g.Player(game.SeatTwo).Name)

	bots := [2]*bot.Bot{bot.New(game.SeatOne, r), bot.New(game.SeatTwo, r)}
	start := time.Now()
	res, err := bot.Play(g, bots, cfg.MaxRounds, func(step game.Step) {
		if quiet || step.Summary == nil {
			return
		}
		fmt.Fprintln(out, formatSummary(g, step.Summary))
	})
	if err != nil {
		return err
	}
	log.Info("match simulated",
		zap.Int64("seed", seed),
		zap.Int("rounds", g.Round()),
		zap.Duration("elapsed", time.Since(start)))
	fmt.Fprintln(out, formatResult(cfg.Names(), res))
	return nil
}

func simulateRemote(ctx context.Context, cfg config.Config, base string, out io.Writer) error {
	c := api.NewClient(base)
	if err := c.Health(ctx); err != nil {
		return fmt.Errorf("server %s: %w", base, err)
	}
	picks := seatFavors(cfg)
	if err := checkFavors(ctx, c, picks); err != nil {
		return err
	}
	resp, err := c.SimMatch(ctx, models.SimRequest{
		Names:     cfg.Names(),
		Favors:    picks,
		Seed:      cfg.Seed,
		MaxRounds: cfg.MaxRounds,
	})
	if err != nil {
		return err
	}
	if resp.Error != "" {
		return errors.New(resp.Error)
	}
	fmt.Fprintf(out, "seed %d: match %s, %d rounds\n", resp.Seed, resp.ID, len(resp.Rounds))
	if tally, err := c.MatchStats(ctx, resp.ID); err == nil {
		fmt.Fprintf(out, "  damage %d/%d, favors cast %d/%d\n",
			tally.DamageDealt[0], tally.DamageDealt[1], tally.FavorsCast[0], tally.FavorsCast[1])
	}
	if resp.Result != nil {
		fmt.Fprintln(out, formatResult(cfg.Names(), *resp.Result))
	}
	return nil
}

// checkFavors fails early on favor names the server does not offer.
func checkFavors(ctx context.Context, c *api.Client, picks [2][]string) error {
	catalog, err := c.Favors(ctx)
	if err != nil {
		return fmt.Errorf("favor catalog: %w", err)
	}
	for seat, names := range picks {
		for _, name := range names {
			found := false
			for _, f := range catalog {
				if strings.EqualFold(f.Name, name) {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("seat %d: %w: %q", seat+1, game.ErrUnknownFavor, name)
			}
		}
	}
	return nil
}

func formatSummary(g *game.Game, sum *game.RoundSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "round %d:", sum.Round)
	for i := range sum.Health {
		fmt.Fprintf(&b, " %s hp %d (-%d) tokens %d (+%d);",
			g.Player(game.Seat(i)).Name, sum.Health[i], sum.DamageTaken[i], sum.Tokens[i], sum.TokensGain[i])
	}
	for _, f := range sum.Favors {
		state := "cast"
		if !f.Executed {
			state = "forfeited"
		}
		fmt.Fprintf(&b, " %s %s;", f.Favor, state)
	}
	return strings.TrimSuffix(b.String(), ";")
}

func formatResult(names [2]string, res game.Result) string {
	if res.Draw {
		return "result: draw"
	}
	return "result: " + names[res.Winner] + " wins"
}
