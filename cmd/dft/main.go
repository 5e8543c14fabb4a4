// Package main provides the dft command: build a dropsuit fitting for a
// character and print its slots, resource budget, and statistics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/markwingerd/dft-old/internal/app"
	"github.com/markwingerd/dft-old/internal/config"
	"github.com/markwingerd/dft-old/internal/game/catalog"
	"github.com/markwingerd/dft-old/internal/game/fitting"
	"github.com/markwingerd/dft-old/internal/game/stacking"
	"github.com/markwingerd/dft-old/internal/observability"
	"github.com/markwingerd/dft-old/internal/report"
	"github.com/markwingerd/dft-old/internal/storage"
	"github.com/markwingerd/dft-old/internal/storage/filestore"
	"github.com/markwingerd/dft-old/internal/storage/postgres"
)

// listFlag collects a repeatable string flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

type options struct {
	character   string
	dropsuit    string
	skills      listFlag
	weapons     listFlag
	modules     listFlag
	removes     listFlag
	save        string
	load        string
	deleteFit   string
	list        string
	color       bool
	metricsFile string
}

func main() {
	start := time.Now()

	var opts options
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.StringVar(&opts.character, "character", app.UntrainedName, "character to resolve the fitting for")
	flag.StringVar(&opts.dropsuit, "dropsuit", "", "dropsuit to fit")
	flag.Var(&opts.skills, "skill", "train a skill on -character as Name=Level (repeatable)")
	flag.Var(&opts.weapons, "weapon", "weapon to fit (repeatable)")
	flag.Var(&opts.modules, "module", "module to fit (repeatable)")
	flag.Var(&opts.removes, "remove", "item to remove after fitting (repeatable)")
	flag.StringVar(&opts.save, "save", "", "save the fitting under this name")
	flag.StringVar(&opts.load, "load", "", "load a saved fitting by name")
	flag.StringVar(&opts.deleteFit, "delete", "", "delete a saved fitting by name")
	flag.StringVar(&opts.list, "list", "", "list dropsuits, modules, weapons, skills, characters, or fittings")
	flag.BoolVar(&opts.color, "color", true, "colorize output")
	flag.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, cfg, opts, logger, os.Stdout); err != nil {
		logger.Error("dft failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		fmt.Fprintf(os.Stderr, "dft: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("dft finished", zap.Duration("elapsed", time.Since(start)))
}

func run(ctx context.Context, cfg config.Config, opts options, logger *zap.Logger, out io.Writer) error {
	order, err := stacking.ParseOrder(cfg.Engine.StackingOrder)
	if err != nil {
		return err
	}

	loadStart := time.Now()
	lib, err := catalog.LoadDir(ctx, cfg.Catalog.Dir)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	logger.Info("catalog loaded",
		zap.String("dir", cfg.Catalog.Dir),
		zap.Int("skills", lib.Skills.Len()),
		zap.Int("modules", lib.Modules.Len()),
		zap.Int("weapons", lib.Weapons.Len()),
		zap.Int("dropsuits", lib.Dropsuits.Len()),
		zap.Duration("elapsed", time.Since(loadStart)),
	)

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	svc := app.NewService(lib, store, logger,
		app.WithMetrics(observability.NewMetrics(reg)),
		app.WithStackingOrder(order),
	)
	if opts.metricsFile != "" {
		defer func() {
			if err := prometheus.WriteToTextfile(opts.metricsFile, reg); err != nil {
				logger.Warn("writing metrics file", zap.String("path", opts.metricsFile), zap.Error(err))
			}
		}()
	}

	r := report.NewRenderer(out, opts.color)
	if opts.list != "" {
		return list(ctx, svc, r, opts.list)
	}
	if opts.deleteFit != "" {
		return svc.DeleteFitting(ctx, opts.deleteFit)
	}
	if len(opts.skills) > 0 {
		if err := train(ctx, svc, opts.character, opts.skills); err != nil {
			return err
		}
	}
	return fit(ctx, svc, r, opts)
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		if err := pool.Health(ctx, 5*time.Second); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("database health check: %w", err)
		}
		if err := pool.CheckSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return postgres.NewStore(pool.DB()), pool.Close, nil
	default:
		s, err := filestore.New(cfg.Storage.Dir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
}

func list(ctx context.Context, svc *app.Service, r *report.Renderer, what string) error {
	switch what {
	case "dropsuits":
		return r.Names("Dropsuits", svc.DropsuitNames())
	case "modules":
		for _, cat := range svc.ModuleCategories() {
			if err := r.Members(cat, svc.ModulesIn(cat)); err != nil {
				return err
			}
		}
		return nil
	case "weapons":
		for _, cat := range svc.WeaponCategories() {
			if err := r.Members(cat, svc.WeaponsIn(cat)); err != nil {
				return err
			}
		}
		return nil
	case "skills":
		return r.Names("Skills", svc.Library().Skills.Names())
	case "characters":
		names, err := svc.CharacterNames(ctx)
		if err != nil {
			return err
		}
		return r.Names("Characters", names)
	case "fittings":
		names, err := svc.FittingNames(ctx)
		if err != nil {
			return err
		}
		return r.Names("Fittings", names)
	}
	return fmt.Errorf("-list must be one of dropsuits, modules, weapons, skills, characters, fittings; got %q", what)
}

// train applies Name=Level assignments to character, creating it when missing.
func train(ctx context.Context, svc *app.Service, character string, assignments []string) error {
	if character == "" || character == app.UntrainedName {
		return errors.New("-skill requires a named -character")
	}
	if _, err := svc.Character(ctx, character); errors.Is(err, storage.ErrUnknownCharacter) {
		if _, err := svc.CreateCharacter(ctx, character); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	for _, a := range assignments {
		name, levelStr, ok := strings.Cut(a, "=")
		if !ok {
			return fmt.Errorf("-skill %q: expected Name=Level", a)
		}
		level, err := strconv.Atoi(strings.TrimSpace(levelStr))
		if err != nil {
			return fmt.Errorf("-skill %q: %w", a, err)
		}
		if _, err := svc.SetSkill(ctx, character, strings.TrimSpace(name), level); err != nil {
			return err
		}
	}
	return nil
}

func fit(ctx context.Context, svc *app.Service, r *report.Renderer, opts options) error {
	if opts.load == "" && opts.dropsuit == "" {
		return errors.New("one of -dropsuit or -load is required")
	}

	f, err := buildFitting(ctx, svc, opts)
	if err != nil {
		return err
	}

	for _, name := range opts.weapons {
		res, err := svc.AddWeapon(f, name)
		if err != nil {
			return err
		}
		if !res.Accepted {
			if err := r.Rejected(name, res); err != nil {
				return err
			}
		}
	}
	for _, name := range opts.modules {
		res, err := svc.AddModule(f, name)
		if err != nil {
			return err
		}
		if !res.Accepted {
			if err := r.Rejected(name, res); err != nil {
				return err
			}
		}
	}
	for _, name := range opts.removes {
		if !svc.RemoveModule(f, name) {
			return fmt.Errorf("-remove %q: not fitted", name)
		}
	}

	if err := r.Slots(f); err != nil {
		return err
	}
	if err := r.Summary(f.Summary()); err != nil {
		return err
	}
	if opts.save != "" {
		return svc.SaveFitting(ctx, opts.save, f)
	}
	return nil
}

// buildFitting loads the saved fitting named by -load, resolved for
// -character when it names someone, or starts an empty fitting on -dropsuit.
func buildFitting(ctx context.Context, svc *app.Service, opts options) (*fitting.Fitting, error) {
	if opts.load == "" {
		return svc.NewFitting(ctx, opts.character, opts.dropsuit)
	}
	character := opts.character
	if character == app.UntrainedName {
		character = ""
	}
	return svc.LoadFittingAs(ctx, opts.load, character)
}
