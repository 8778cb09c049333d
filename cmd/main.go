package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"todoapp/internal/client"
	"todoapp/internal/config"
	"todoapp/internal/result"
	"todoapp/internal/server"
	"todoapp/internal/store"
	"todoapp/internal/ui"
	"todoapp/pkg/events"
)

func main() {
	mode := flag.String("mode", "help", "help|server|tui|export")
	httpAddr := flag.String("http-addr", "", "http listen address (server mode)")
	dsn := flag.String("dsn", "", "MySQL DSN (overrides config)")
	serverURL := flag.String("server-url", "", "server base URL (tui mode)")
	local := flag.Bool("local", false, "tui mode: run against an in-memory store, no MySQL needed")
	format := flag.String("format", "json", "export format: json|csv|pdf")
	out := flag.String("out", "todos.json", "export output path")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}
	if *dsn != "" {
		cfg.DSN = *dsn
	}
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}

	logger := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "server":
		st, err := store.New(cfg.DSN)
		if err != nil {
			logger.Fatal("store", "err", err)
		}
		defer st.Close()
		srv := server.New(st, server.Options{
			CacheTTL:  time.Duration(cfg.CacheTTLSeconds) * time.Second,
			Publisher: events.LogPublisher{Logger: logger},
			Logger:    logger,
		})
		if err := srv.ListenAndServe(ctx, cfg.HTTPAddr); err != nil {
			logger.Fatal("server", "err", err)
		}

	case "tui":
		base := cfg.ServerURL
		if *local {
			base, err = startLocalServer(ctx, logger)
			if err != nil {
				logger.Fatal("local server", "err", err)
			}
		}
		st := client.NewState(client.New(base))
		if err := ui.Run(st); err != nil {
			logger.Fatal("tui", "err", err)
		}

	case "export":
		st, err := store.New(cfg.DSN)
		if err != nil {
			logger.Fatal("store", "err", err)
		}
		defer st.Close()
		ex := result.NewExporter(st)
		b, err := ex.Export(ctx, *format)
		if err != nil {
			logger.Fatal("export", "err", err)
		}
		if err := os.WriteFile(*out, b, 0644); err != nil {
			logger.Fatal("write", "err", err)
		}
		fmt.Printf("Exported -> %s\n", *out)

	default:
		fmt.Println("Usage examples:")
		fmt.Println("  go run ./cmd --mode server --http-addr :8080")
		fmt.Println("  go run ./cmd --mode tui --server-url http://127.0.0.1:8080")
		fmt.Println("  go run ./cmd --mode tui --local")
		fmt.Println("  go run ./cmd --mode export --format pdf --out ./todos.pdf")
	}
}

func newLogger(level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:  lvl,
		Prefix: "todoapp",
	})
}

// startLocalServer runs the full HTTP stack over an in-memory store on
// a loopback port, so the TUI exercises the same wire path it uses
// against a real deployment.
func startLocalServer(ctx context.Context, logger *log.Logger) (string, error) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	srv := server.New(store.NewMemStore(), server.Options{Logger: logger})
	httpSrv := &http.Server{Handler: srv.Router()}
	go func() {
		<-ctx.Done()
		_ = httpSrv.Shutdown(context.Background())
	}()
	go func() {
		_ = httpSrv.Serve(lis)
	}()
	return "http://" + lis.Addr().String(), nil
}
