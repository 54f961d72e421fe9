// Command notifyprefs is a terminal client for browsing the notification
// types an account can receive, localized and annotated with their
// availability and deprecation state.
package main

import (
	"flag"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/notifyprefs/internal/api"
	"github.com/nhle/notifyprefs/internal/app"
	"github.com/nhle/notifyprefs/internal/credential"
	"github.com/nhle/notifyprefs/internal/fetch"
	"github.com/nhle/notifyprefs/internal/model"
	"github.com/nhle/notifyprefs/internal/store"
)

func main() {
	cfgPath := flag.String("config", model.DefaultConfigPath(), "path to the config file")
	flag.Parse()

	cfg, err := model.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	st, err := store.NewSQLiteStore(cfg.CachePath)
	if err != nil {
		log.Fatalf("opening cache at %s: %v", cfg.CachePath, err)
	}
	defer st.Close()

	// The real token is attached once the app resolves authentication.
	timeout := time.Duration(cfg.Server.TimeoutSec) * time.Second
	client := api.NewClient(cfg.Server.BaseURL, "", timeout)
	fetcher := fetch.New(client, st, timeout)

	m := app.New(cfg, *cfgPath, st, fetcher, credential.Token)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("running program: %v", err)
	}
}
