package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/ridloal/retail-admin-console/internal/console"
	"github.com/ridloal/retail-admin-console/internal/platform/config"
	"github.com/ridloal/retail-admin-console/internal/platform/logger"
	"github.com/ridloal/retail-admin-console/internal/rate"
	"go.uber.org/zap"
)

func main() {
	_ = config.LoadEnvFile()
	cfg := config.LoadConsoleConfig()

	// The terminal owns stdout, so logs go to a file or nowhere.
	if path := config.GetEnv("POS_LOG_FILE", ""); path != "" {
		zc := zap.NewDevelopmentConfig()
		zc.OutputPaths = []string{path}
		zc.ErrorOutputPaths = []string{path}
		if l, err := zc.Build(zap.AddCallerSkip(1)); err == nil {
			logger.SetOutput(l.Sugar())
		} else {
			logger.SetOutput(nil)
		}
	} else {
		logger.SetOutput(nil)
	}
	defer logger.Sync()

	rates := rate.NewProvider(cfg.Rate.URL, cfg.Rate.Currency, cfg.Backend.Timeout)
	ctx := context.Background()
	_ = rates.Refresh(ctx)

	ws := console.NewWorkspace(uuid.NewString(), console.Deps{Config: cfg, Rates: rates})
	defer ws.Close()

	email := config.GetEnv("POS_EMAIL", "")
	password := config.GetEnv("POS_PASSWORD", "")
	if err := ws.Auth.Login(ctx, email, password); err != nil {
		fmt.Fprintln(os.Stderr, "Login failed:", err)
		os.Exit(1)
	}
	defer ws.Auth.Logout(context.Background())

	if err := ws.Load(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Could not load catalog:", err)
		os.Exit(1)
	}

	p := tea.NewProgram(newModel(ws, cfg.Backend.Timeout))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
