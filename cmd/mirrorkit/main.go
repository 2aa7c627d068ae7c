package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mirrorkit/mirrorkit/config"
	"github.com/mirrorkit/mirrorkit/fetch"
	"github.com/mirrorkit/mirrorkit/history"
	"github.com/mirrorkit/mirrorkit/mirror"
	"github.com/mirrorkit/mirrorkit/publish"
)

func main() {
	var (
		seedURL = flag.String("url", "", "Seed URL to mirror (required)")
		outDir  = flag.String("o", "", "Mirror root directory (defaults to the host name)")
		depth   = flag.Int("depth", 3, "Maximum crawl depth (seed is depth 0)")
		delay   = flag.Duration("delay", time.Second, "Pause after each page")
		images  = flag.Bool("images", true, "Download images")
		css     = flag.Bool("css", true, "Download stylesheets")
		js      = flag.Bool("js", true, "Download scripts")
		remote  = flag.String("remote", "", "Git remote to push the mirror to after a successful run")
		message = flag.String("message", "", "Commit message for -remote")
		verbose = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if *seedURL == "" {
		fmt.Println("Usage: mirrorkit -url=<URL> [-o=<dir>] [-depth=<n>] [-delay=<dur>] [-images] [-css] [-js] [-remote=<git-url>]")
		fmt.Println("Example: mirrorkit -url=https://example.com -depth=2 -delay=500ms")
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := config.Load()

	root := *outDir
	if root == "" {
		u, err := url.Parse(*seedURL)
		if err != nil || u.Host == "" {
			slog.Error("invalid seed URL", "url", *seedURL)
			os.Exit(1)
		}
		root = strings.ReplaceAll(strings.ReplaceAll(u.Host, ".", "_"), ":", "_")
	}

	client, err := fetch.NewClient(fetch.Config{
		Timeout:   cfg.Fetch.Timeout,
		UserAgent: cfg.Fetch.UserAgent,
	})
	if err != nil {
		slog.Error("failed to initialise fetch client", "error", err)
		os.Exit(1)
	}

	run, err := mirror.StartRun(client, *seedURL, root, mirror.Options{
		MaxDepth: *depth,
		Delay:    *delay,
		Images:   *images,
		CSS:      *css,
		JS:       *js,
	})
	if err != nil {
		slog.Error("failed to start run", "error", err)
		os.Exit(1)
	}

	if err := history.NewStore(cfg.History.Path).Append(*seedURL); err != nil {
		slog.Warn("history append failed", "error", err)
	}

	// First interrupt requests a cooperative stop; a second one exits
	// immediately.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		fmt.Println("\nStop requested, finishing current fetch...")
		run.RequestStop()
		<-sigc
		os.Exit(130)
	}()

	for msg := range run.Events() {
		fmt.Println(msg)
	}

	res, err := run.Wait()
	if err != nil {
		os.Exit(1)
	}
	if res.Stopped {
		// A stopped run reports zero per the stopped contract.
		os.Exit(0)
	}

	if *remote != "" && res.Visited > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		p := &publish.Publisher{Dir: root, Remote: *remote, Message: *message}
		if err := p.Push(ctx); err != nil {
			slog.Error("publish failed", "error", err)
			os.Exit(1)
		}
		fmt.Println("✓ Mirror pushed to", *remote)
	}
}
