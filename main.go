package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"asistente/internal/commands"
	"asistente/internal/config"
	"asistente/internal/database"
	"asistente/internal/gcal"
	"asistente/internal/intent"
	"asistente/internal/notify"
	"asistente/internal/ollama"
	"asistente/internal/processor"
	"asistente/internal/reminders"
	"asistente/internal/summary"
	"asistente/internal/temporal"
	"asistente/internal/tools"
	"asistente/internal/whatsapp"
)

func main() {
	cfg := config.LoadFromEnv()

	db, err := database.New(cfg.DBPath)
	if err != nil {
		fatal("creating database", err)
	}
	defer db.Close()

	llm := initOllama(db, cfg)
	gcalClient := initGCal(cfg)

	if cfg.SetupMode && gcalClient != nil && !gcalClient.IsAuthenticated() {
		fmt.Printf("Google Calendar auth URL:\n%s\n", gcalClient.AuthURL())
		fmt.Println("Autoriza y luego corre: asistentectl gcal code <código>")
	}

	resolver := temporal.NewResolver()
	svc := reminders.NewService(db, resolver)
	extractor := initExtractor(llm, resolver)

	handler := whatsapp.NewHandler(cfg.DebugAllMessages)
	waClient, err := whatsapp.NewClient(handler, cfg.WhatsAppDBPath)
	if err != nil {
		fatal("creating whatsapp client", err)
	}

	ctx := context.Background()
	if err := waClient.Connect(ctx); err != nil {
		fatal("connecting to whatsapp", err)
	}
	defer waClient.Disconnect()

	notifier := initNotifier(db, cfg)
	sched := reminders.NewScheduler(db, db, llm, waClient, notifier, reminders.SchedulerConfig{
		PollIntervalSeconds: cfg.ReminderPollSeconds,
	})
	sched.Start()

	proc := processor.New(
		db,
		commands.NewHandler(db, svc, llm),
		extractor,
		svc,
		reminders.NewPostponeResolver(db, resolver, llm),
		llm,
		tools.NewDispatcher(svc, gcalClient),
		waClient,
		handler.MessageChan(),
	)
	proc.Start()

	stoppers := []stopper{proc, sched}
	if gcalClient != nil {
		summaryWorker := summary.NewWorker(db, gcalClient, waClient)
		summaryWorker.Start()
		stoppers = append(stoppers, summaryWorker)
	}

	fmt.Println("Asistente running. Ctrl+C to stop.")
	waitForShutdown(stoppers...)
}

func initOllama(db *database.DB, cfg *config.Config) *ollama.Client {
	llm := ollama.NewClient(cfg.OllamaURL, cfg.OllamaModel, time.Duration(cfg.OllamaTimeout)*time.Second)

	// A model picked at runtime via /modelo survives restarts.
	if saved, err := db.GetConfig(database.ConfigKeyModel); err == nil && saved != "" {
		llm.SetModel(saved)
	}
	fmt.Printf("Ollama configured: %s (%s)\n", llm.Model(), cfg.OllamaURL)
	return llm
}

func initExtractor(llm *ollama.Client, resolver *temporal.Resolver) intent.Extractor {
	if llm != nil {
		return intent.NewAIExtractor(llm, resolver)
	}
	return intent.NewRegexExtractor(resolver)
}

func initGCal(cfg *config.Config) *gcal.Client {
	client, err := gcal.NewClient(cfg.GoogleCredentialsFile, cfg.GoogleTokenFile)
	if err != nil {
		fmt.Printf("Google Calendar not configured: %v\n", err)
		return nil
	}
	if !client.IsAuthenticated() {
		fmt.Println("Google Calendar: not authenticated, run `asistentectl gcal auth` to connect")
	}
	return client
}

func initNotifier(db *database.DB, cfg *config.Config) reminders.Notifier {
	notifier := notify.NewResendNotifier(cfg.ResendAPIKey, cfg.EmailFrom, db)
	if notifier == nil {
		// Typed nil in a non-nil interface would dodge the scheduler's nil
		// check, so return an explicit nil interface here.
		return nil
	}
	fmt.Println("Email copy of reminders configured (Resend)")
	return notifier
}

type stopper interface {
	Stop()
}

func waitForShutdown(stoppers ...stopper) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\nShutting down...")
	for _, s := range stoppers {
		s.Stop()
	}
}

func fatal(what string, err error) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", what, err)
	os.Exit(1)
}
