package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/engager/pkg/automation"
	"github.com/umputun/engager/pkg/browser"
	"github.com/umputun/engager/pkg/config"
	"github.com/umputun/engager/pkg/content"
	"github.com/umputun/engager/pkg/domain"
	"github.com/umputun/engager/pkg/llm"
	"github.com/umputun/engager/pkg/repository"
	"github.com/umputun/engager/pkg/settings"
	"github.com/umputun/engager/pkg/snapshot"
	"github.com/umputun/engager/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" description:"configuration file, defaults are used if empty"`
	Listen string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides config"`

	Replay      string `long:"replay" description:"dry run one pass against a saved feed html file"`
	ReplayReply string `long:"replay-reply" default:"Great point!" description:"reply text used in replay instead of the llm"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	setupLog(opts.Debug, opts.NoColor, cfg.LLM.APIKey)
	log.Printf("[INFO] starting engager version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	if opts.Replay != "" {
		err = replay(ctx, cfg, opts.Replay, opts.ReplayReply, os.Stdout)
	} else {
		err = run(ctx, cfg, opts.Debug)
	}
	cancel()

	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
	log.Print("[INFO] shutdown complete")
}

func loadConfig(opts Opts) (*config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		var err error
		if cfg, err = config.Load(opts.Config); err != nil {
			return nil, err
		}
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}
	return cfg, nil
}

// run starts the browser, the automation loop and the control server, blocks until ctx is done
func run(ctx context.Context, cfg *config.Config, debug bool) error {
	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			log.Printf("[WARN] failed to close database: %v", err)
		}
	}()

	store := settings.NewStore(repos.Setting)
	if _, err := store.Seed(ctx, cfg.InitialSettings()); err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}

	gateway := llm.NewGateway(cfg.LLM)
	queue := llm.NewQueue(gateway, cfg.LLM.MinInterval)
	defer queue.Close()

	b, err := browser.New(ctx, cfg.Browser)
	if err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer b.Close()

	session := automation.NewSession(cfg.Automation.BlockedAuthors)
	params := automation.ExecutorParams{
		Session:   session,
		Generator: llm.NewGenerator(queue, cfg.LLM),
		Journal:   repos.Action,
		Timings:   automation.NewTimings(cfg.Automation),
		Own:       automation.OwnRules{SelfMarker: cfg.Automation.SelfMarker, MaxAge: cfg.Automation.OwnPostAge},
	}
	if cfg.Extraction.Enabled {
		params.Links = content.NewExtractor(cfg.Extraction)
	}
	executor := automation.NewExecutor(params)

	loop := automation.NewLoop(automation.LoopParams{
		Page:          b.Page(),
		Store:         store,
		Executor:      executor,
		Session:       session,
		Notifier:      b.Page(),
		ScanInterval:  cfg.Automation.ScanInterval,
		MutationDelay: cfg.Automation.MutationDelay,
		ErrorDelay:    cfg.Automation.ErrorDelay,
	})

	srv := server.New(server.Params{
		Store:   store,
		Status:  loop,
		Journal: repos.Action,
		Prober:  queue,
		DB:      repos,
		Listen:  cfg.Server.Listen,
		Timeout: cfg.Server.Timeout,
		BaseURL: cfg.Server.BaseURL,
		Version: revision,
		Debug:   debug,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loop.Start(gctx) })
	g.Go(func() error { return srv.Run(gctx) })
	return g.Wait()
}

// replay runs one pass against a saved feed with all waits zeroed and prints what was done.
// Replies use a fixed text, the reply dialog is emulated by the snapshot page.
func replay(ctx context.Context, cfg *config.Config, file, reply string, out io.Writer) error {
	fh, err := os.Open(file) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return fmt.Errorf("open replay file: %w", err)
	}
	defer fh.Close()

	page, err := snapshot.New(fh, cfg.Browser.StartURL)
	if err != nil {
		return err
	}
	if err := emulateCompose(page); err != nil {
		return err
	}

	repos, err := repository.NewRepositories(ctx, repository.Config{DSN: ":memory:", MaxOpenConns: 1})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer repos.Close()

	store := settings.NewStore(repos.Setting)
	s := cfg.InitialSettings()
	s.AutomationEnabled = true
	if s.APIKey == "" {
		s.APIKey = "replay"
	}
	if err := store.Set(ctx, s); err != nil {
		return fmt.Errorf("failed to save replay settings: %w", err)
	}

	session := automation.NewSession(cfg.Automation.BlockedAuthors)
	executor := automation.NewExecutor(automation.ExecutorParams{
		Session:   session,
		Generator: fixedReply(reply),
		Journal:   repos.Action,
		Own:       automation.OwnRules{SelfMarker: cfg.Automation.SelfMarker, MaxAge: cfg.Automation.OwnPostAge},
	})
	loop := automation.NewLoop(automation.LoopParams{Page: page, Store: store, Executor: executor, Session: session})
	if _, err := loop.Init(ctx); err != nil {
		return err
	}

	res := loop.Pass(ctx)
	fmt.Fprintf(out, "pass: %s, post: %s, candidates: %d\n", res.Outcome, res.PostID, res.Candidates)
	if res.Error != "" {
		fmt.Fprintf(out, "error: %s\n", res.Error)
	}
	for _, c := range page.Clicks() {
		fmt.Fprintf(out, "click: <%s> %s %q\n", c.Node.Tag, c.Node.Attr("data-testid"), c.Node.Label())
	}
	for _, e := range page.Events() {
		if e.Data != "" {
			fmt.Fprintf(out, "event: %s %q\n", e.Type, e.Data)
		}
	}

	actions, err := repos.Action.Recent(ctx, "", 100)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}
	for i := len(actions) - 1; i >= 0; i-- {
		a := actions[i]
		fmt.Fprintf(out, "journal: %s %s @%s %s%s\n", a.Kind, a.PostID, a.Author, a.Text, a.Detail)
	}
	return nil
}

// replayCompose is the minimal reply dialog mounted on reply click in replay
const replayCompose = `<div aria-labelledby="modal-header" role="dialog">` +
	`<div contenteditable="true" data-testid="tweetTextarea_0" role="textbox"></div>` +
	`<div role="button" data-testid="tweetButton"><span>Reply</span></div>` +
	`<div role="button" data-testid="app-bar-close" aria-label="Close"></div></div>`

func emulateCompose(page *snapshot.Page) error {
	closeDialog := func(p *snapshot.Page) error { return p.Remove(`[aria-labelledby="modal-header"]`) }
	hooks := []struct {
		selector string
		fn       func(p *snapshot.Page) error
	}{
		{`[data-testid="reply"]`, func(p *snapshot.Page) error { return p.Append("body", replayCompose) }},
		{`[data-testid="tweetButton"]`, closeDialog},
		{`[data-testid="app-bar-close"]`, closeDialog},
	}
	for _, h := range hooks {
		if err := page.OnClick(h.selector, h.fn); err != nil {
			return fmt.Errorf("set replay hook %s: %w", h.selector, err)
		}
	}
	return nil
}

// fixedReply is a comment generator returning the same text for every post
type fixedReply string

func (f fixedReply) Generate(context.Context, domain.Settings, string, string) (string, error) {
	if f == "" {
		return "", errors.New("empty replay reply")
	}
	return string(f), nil
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}

	var secrets []string
	for _, s := range secs {
		if s != "" {
			secrets = append(secrets, s)
		}
	}
	if len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
