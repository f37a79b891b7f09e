package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/jaskmods/internal/catalog"
	"github.com/jask/jaskmods/internal/config"
	"github.com/jask/jaskmods/internal/database"
	"github.com/jask/jaskmods/internal/database/repository"
	"github.com/jask/jaskmods/internal/secrets"
	"github.com/jask/jaskmods/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	if err := database.RunMigrations(cfg.Database.Path, cfg.Database.MigrationsPath); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := database.SeedDefaults(ctx, db); err != nil {
		log.Fatalf("seed defaults: %v", err)
	}

	sources, err := catalog.LoadSources(cfg.Catalog.SourcesPath)
	if err != nil {
		log.Fatalf("sources: %v", err)
	}

	session := catalog.NewSession(secrets.NewStore(""))
	store := catalog.NewStore(sources, cfg.Catalog.DefaultScope, session)

	addonRepo := repository.NewAddonRepo(db)

	p := tea.NewProgram(
		tui.New(ctx, cfg, tui.Repos{Addons: addonRepo}, store),
		tea.WithAltScreen(),
		tea.WithReportFocus(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
