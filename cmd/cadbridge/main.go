// Command cadbridge serves CAD verification and generation tools to a
// conversational host. By default it speaks line-delimited JSON on
// stdin/stdout, one invocation per line; -http additionally serves the same
// surface on a port.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/printforge/cadbridge/internal/config"
	"github.com/printforge/cadbridge/internal/dispatch"
	"github.com/printforge/cadbridge/internal/httpapi"
	"github.com/printforge/cadbridge/internal/provider"
	"github.com/printforge/cadbridge/internal/resolve"
	"github.com/printforge/cadbridge/internal/telemetry"
	"github.com/printforge/cadbridge/tools"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to cadbridge.yaml (optional)")
		httpAddr   = flag.String("http", "", "serve the tool surface on this address instead of stdio")
	)
	flag.Parse()

	if err := run(*configPath, *httpAddr); err != nil {
		fmt.Fprintf(os.Stderr, "cadbridge: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, httpAddr string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if httpAddr != "" {
		cfg.HTTP.Addr = httpAddr
	}

	log, err := telemetry.Open("cadbridge", cfg.LogFile)
	if err != nil {
		return err
	}
	defer log.Close()
	log.SetMinLevel(parseLevel(cfg.LogLevel))

	// Graceful shutdown on Ctrl-C (SIGINT) / SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)
	go func() {
		<-sigch
		log.Infof("👋 shutting down")
		cancel()
	}()

	resolver, err := resolve.New(cfg.Workdir, cfg.ScriptExtension)
	if err != nil {
		return err
	}

	gen, err := provider.FromName(ctx, cfg.Generation.Provider, cfg.Generation.Model)
	if err != nil {
		return err
	}
	var verdict tools.Verdict
	if strings.EqualFold(cfg.Verification.Backend, "model") {
		verdict = provider.NewModelVerdict(gen)
	}

	d, err := dispatch.New(
		log.Named("dispatch"),
		tools.Registry(tools.Deps{
			Resolver:  resolver,
			Logger:    log.Named("tools"),
			Generator: gen,
			Verdict:   verdict,
		}),
		dispatch.WithPreviewer(func(path string) string {
			r := resolver.Resolve(path)
			if !r.Exists {
				return ""
			}
			p, err := resolve.ContentPreview(r.AbsPath, 0)
			if err != nil {
				return ""
			}
			return p.Snippet
		}),
	)
	if err != nil {
		return err
	}

	log.Infof("🚀 cadbridge ready: workdir=%s ext=%s provider=%s",
		resolver.Workdir(), resolver.Ext(), cfg.Generation.Provider)

	if cfg.HTTP.Addr != "" {
		return serveHTTP(ctx, cfg.HTTP.Addr, d, log)
	}
	return serveStdio(ctx, d, os.Stdin, os.Stdout)
}

// serveStdio processes one JSON invocation per input line, writing one JSON
// result per line. Synchronous, request-per-call.
func serveStdio(ctx context.Context, d *dispatch.Dispatcher, in io.Reader, out io.Writer) error {
	enc := json.NewEncoder(out)

	// stdin reader goroutine -> lines into channel
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return nil
		case line, ok = <-lines:
			if !ok {
				return nil
			}
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		var inv tools.Invocation
		if err := json.Unmarshal([]byte(line), &inv); err != nil {
			res := &tools.Result{
				Status:  tools.StatusError,
				Message: "invalid invocation: " + err.Error(),
			}
			if err := enc.Encode(res); err != nil {
				return err
			}
			continue
		}

		res, err := d.Dispatch(ctx, inv)
		if err != nil {
			res = dispatch.ResultFromError(err)
		}
		if err := enc.Encode(res); err != nil {
			return err
		}
	}
}

func serveHTTP(ctx context.Context, addr string, d *dispatch.Dispatcher, log *telemetry.Logger) error {
	srv := &http.Server{Addr: addr, Handler: httpapi.NewServer(d, log.Named("http"))}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	log.Infof("🌐 listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func parseLevel(s string) telemetry.Level {
	switch strings.ToLower(s) {
	case "debug":
		return telemetry.LevelDebug
	case "error":
		return telemetry.LevelError
	default:
		return telemetry.LevelInfo
	}
}
