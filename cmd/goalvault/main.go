package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/atlaslife/goalvault/internal/config"
	"github.com/atlaslife/goalvault/internal/crypto"
	"github.com/atlaslife/goalvault/internal/logger"
	"github.com/atlaslife/goalvault/internal/service"
	"github.com/atlaslife/goalvault/internal/store"
	"github.com/atlaslife/goalvault/internal/utils"
	"github.com/atlaslife/goalvault/internal/workers"
	"github.com/atlaslife/goalvault/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("goalvault")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	if cfg.App.LogPath != "" {
		log = logger.NewFileLogger("goalvault", cfg.App.LogPath)
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = log.WithContext(ctx)

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	keyChain := crypto.NewKeyChainService(cfg.App.KDFIterations)
	services := service.NewServices(*storages, keyChain, *cfg, log)

	session, err := openSession(ctx, services.AuthService)
	if err != nil {
		log.Fatal().Err(err).Msg("could not open a session")
	}
	ctx = context.WithValue(ctx, utils.SessionCtxKey, session)

	if err := printSummary(ctx, services.GoalService); err != nil {
		log.Fatal().Err(err).Msg("could not load the vault")
	}

	auditor := workers.NewAuditWorker(services.GoalService, cfg.Workers, log)
	auditor.Watch(session)

	fmt.Println("\nconsistency auditor running, press Ctrl+C to exit")
	workers.NewWorkers(auditor).Run(ctx)
}

// openSession asks for credentials on the terminal and either signs in or
// registers a new account.
func openSession(ctx context.Context, auth service.AuthService) (models.Session, error) {
	in := bufio.NewReader(os.Stdin)

	fmt.Print("login or register? [l/r]: ")
	mode, err := in.ReadString('\n')
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to read mode: %w", err)
	}

	fmt.Print("username: ")
	username, err := in.ReadString('\n')
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to read username: %w", err)
	}

	fmt.Print("password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to read password: %w", err)
	}

	creds := models.Credentials{
		Username: strings.TrimSpace(username),
		Password: string(password),
	}

	if strings.HasPrefix(strings.TrimSpace(strings.ToLower(mode)), "r") {
		return auth.Register(ctx, creds)
	}

	session, err := auth.Authenticate(ctx, creds)
	if errors.Is(err, service.ErrAuthenticationFailed) {
		return models.Session{}, errors.New("unknown username or wrong password")
	}
	return session, err
}

func printSummary(ctx context.Context, goals service.GoalService) error {
	session, ok := utils.GetSessionFromContext(ctx)
	if !ok {
		return service.ErrSessionRequired
	}

	loaded, err := goals.LoadGoals(ctx, session)
	if err != nil {
		return err
	}

	fmt.Printf("\n%s's goals\n", session.Owner)
	if len(loaded) == 0 {
		fmt.Println("  (none yet)")
	}
	for _, goal := range loaded {
		fmt.Printf("  %-30s %12s / %-12s %5.1f%%\n",
			goal.Name, goal.Balance.StringFixed(2), goal.Target.StringFixed(2), goal.Progress()*100)
	}

	netWorth, err := goals.NetWorth(ctx, session)
	if err != nil {
		return err
	}
	info, err := goals.LevelInfo(ctx, session)
	if err != nil {
		return err
	}

	fmt.Printf("\nnet worth: %s\n", netWorth.StringFixed(2))
	fmt.Printf("level %d (%.0f%% to level %d, %s to go)\n",
		info.Level, info.Progress*100, info.Level+1, info.AmountToNext.StringFixed(2))

	return nil
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
