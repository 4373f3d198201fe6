package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/jamcha/go-admin-client/auth"
	"github.com/jamcha/go-admin-client/client"
	"github.com/jamcha/go-admin-client/internal/config"
	"github.com/jamcha/go-admin-client/sessions"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}

func run() error {
	app, err := newApp()
	if err != nil {
		return err
	}
	return newRootCmd(app).Execute()
}

// app wires the session store, auth service, guard, and API client together.
type app struct {
	cfg   config.Config
	repo  sessions.Repo
	svc   *auth.Service
	guard *auth.Guard
	api   *client.Client
	log   zerolog.Logger
}

func newApp() (*app, error) {
	cfg := config.New()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(zerolog.WarnLevel)

	repo, err := newSessionRepo(cfg)
	if err != nil {
		return nil, err
	}

	refresher, err := auth.NewRefresher(repo, cfg.GetAPIBaseURL(), auth.WithRefreshLogger(logger))
	if err != nil {
		return nil, err
	}

	svc, err := auth.NewService(repo, cfg.GetAPIBaseURL(),
		auth.WithLogger(logger),
		auth.WithLoginTimeout(cfg.GetLoginTimeout()),
		auth.WithHealthTimeout(cfg.GetHealthTimeout()),
		auth.WithGracePeriod(cfg.GetGracePeriod()),
	)
	if err != nil {
		return nil, err
	}

	nav := &cliNavigator{}
	guard, err := auth.NewGuard(svc, nav, auth.WithGuardLogger(logger))
	if err != nil {
		return nil, err
	}

	api, err := client.New(cfg.GetAPIBaseURL(), repo, refresher,
		client.WithNavigator(nav),
		client.WithTimeout(cfg.GetRequestTimeout()),
		client.WithExpiryBuffer(cfg.GetExpiryBuffer()),
		client.WithClientLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, repo: repo, svc: svc, guard: guard, api: api, log: logger}, nil
}

func newSessionRepo(cfg config.Config) (sessions.Repo, error) {
	var opts []sessions.FileRepoOption
	if keyHex := cfg.GetSessionKey(); keyHex != "" {
		raw, err := hex.DecodeString(keyHex)
		if err != nil || len(raw) != 32 {
			return nil, fmt.Errorf("SESSION_KEY must be 64 hex characters (32 bytes)")
		}
		var key [32]byte
		copy(key[:], raw)
		opts = append(opts, sessions.WithEncryptionKey(key))
	}
	return sessions.NewFileRepo(cfg.GetSessionFile(), opts...)
}

// cliNavigator logs where the admin UI would have routed the user.
type cliNavigator struct{}

func (cliNavigator) ToLogin() {
	fmt.Println(color.YellowString("session required: run `jamchactl login`"))
}

func (cliNavigator) ToForbidden() {
	fmt.Println(color.RedString("forbidden: your role does not permit this view"))
}

func (cliNavigator) ToDashboard() {
	fmt.Println(color.GreenString("already signed in"))
}

func displayAppName(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
