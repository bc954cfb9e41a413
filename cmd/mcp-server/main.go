package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shahidain/mcp-server/llm"
	"github.com/shahidain/mcp-server/plugin/appstatus"
	"github.com/shahidain/mcp-server/plugin/catalog"
	"github.com/shahidain/mcp-server/plugin/jira"
	"github.com/shahidain/mcp-server/profile"
	"github.com/shahidain/mcp-server/server"
	"github.com/shahidain/mcp-server/server/mcptools"
	"github.com/shahidain/mcp-server/store"
	"github.com/shahidain/mcp-server/store/db"
)

const shutdownTimeout = 10 * time.Second

// app wires the shared collaborators once so both serve modes use the
// same construction path.
type app struct {
	profile    profile.Profile
	driver     store.Driver
	store      *store.Store
	completer  llm.Completer
	translator *llm.Translator
	jira       *jira.Client
	catalog    *catalog.Client
	apps       *appstatus.Registry
}

func buildApp(ctx context.Context) (*app, error) {
	p := profile.Load()

	driver, err := db.NewDriver(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := driver.EnsureSchema(ctx); err != nil {
		driver.Close()
		return nil, err
	}

	completer := llm.New(p)
	examples := llm.NewExampleStore(p.DataDir)

	return &app{
		profile:    p,
		driver:     driver,
		store:      store.New(driver),
		completer:  completer,
		translator: llm.NewTranslator(completer, examples),
		jira:       jira.NewClient(p),
		catalog:    catalog.NewClient(p),
		apps:       appstatus.NewRegistry(p.BuildInfoURL),
	}, nil
}

func (a *app) toolDeps() mcptools.Deps {
	return mcptools.Deps{
		Store:      a.store,
		Jira:       a.jira,
		Catalog:    a.catalog,
		Apps:       a.apps,
		Translator: a.translator,
	}
}

func (a *app) close() {
	if err := a.driver.Close(); err != nil {
		slog.Warn("database close failed", "err", err)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	dispatcher := server.NewDispatcher(
		llm.NewRouter(a.completer),
		llm.NewRenderer(a.completer),
		a.translator,
		a.store,
		a.jira,
		a.catalog,
		a.apps,
	)
	srv := server.New(a.profile, dispatcher, mcptools.NewServer(a.profile, a.toolDeps()), server.NewRegistry())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("shutdown did not finish cleanly", "err", err)
	}
	return nil
}

func runStdio(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	return mcptools.Run(ctx, a.profile, a.toolDeps())
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "mcp-server",
		Short: "SQL, Jira and catalog lookup tools behind an LLM routing pipeline",
	}
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server with the SSE streaming surface",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "stdio",
			Short: "Serve the tool set to an MCP client over stdio",
			RunE:  runStdio,
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("startup failed", "err", err)
		os.Exit(1)
	}
}
