package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"grocery-engine/bot"
	"grocery-engine/config"
	"grocery-engine/db"
	"grocery-engine/models"
	"grocery-engine/realtime"
	"grocery-engine/server"
	"grocery-engine/services"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			runMigrate(cfg)
			return
		case "addstaff":
			runAddStaff(cfg, os.Args[2:])
			return
		}
	}

	if err := db.Init(cfg.DB); err != nil {
		fmt.Fprintln(os.Stderr, "db:", err)
		os.Exit(1)
	}
	defer db.Close()

	// Optional auto-migration (useful in production and for fresh DBs).
	// Set AUTO_MIGRATE=1 (or "true") to enable.
	if v := strings.TrimSpace(os.Getenv("AUTO_MIGRATE")); v == "1" || strings.EqualFold(v, "true") {
		if err := applyMigrations(context.Background(), false); err != nil {
			fmt.Fprintln(os.Stderr, "migrate:", err)
			os.Exit(1)
		}
	}

	hub := realtime.NewHub(cfg.Redis.Addr)
	defer hub.Close()

	var staffBot *bot.Bot
	if cfg.Telegram.Token != "" {
		staffBot, err = bot.New(cfg.Telegram.Token, cfg.Telegram.StaffChatID)
		if err != nil {
			fmt.Fprintln(os.Stderr, "bot:", err)
			os.Exit(1)
		}
	}

	reminders := realtime.NewReminderLoop(
		time.Duration(cfg.Engine.ReminderIntervalSeconds)*time.Second,
		func(n models.StaffNotification) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			ev := realtime.Event{
				Type:           realtime.EventReminder,
				OrderID:        n.OrderID,
				NotificationID: n.ID,
				At:             time.Now(),
			}
			if err := hub.Publish(ctx, realtime.StaffChannel, ev); err != nil {
				slog.Error("publish reminder", "notification_id", n.ID, "error", err)
			}
			if staffBot != nil {
				o, err := services.GetOrder(ctx, n.OrderID)
				if err != nil {
					slog.Error("load order for reminder", "order_id", n.OrderID, "error", err)
					return
				}
				staffBot.Remind(n, o)
			}
		},
	)
	defer reminders.Shutdown()

	if staffBot != nil {
		staffBot.SetOnAck(func(id string) bool {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			acked, err := services.AcknowledgeNotification(ctx, id)
			if err != nil {
				slog.Error("acknowledge notification", "notification_id", id, "error", err)
				return false
			}
			reminders.Ack(id)
			return acked
		})
		go staffBot.Start()
		defer staffBot.Stop()
		fmt.Println("Personel bildirim botu başlatıldı.")
	}

	// Re-arm reminders that were pending before a restart.
	if pending, err := services.ListUnacknowledgedNotifications(context.Background()); err != nil {
		slog.Error("load pending notifications", "error", err)
	} else {
		for _, n := range pending {
			reminders.Add(n)
		}
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go runSweeper(sweepCtx, time.Duration(cfg.Engine.SweepIntervalSeconds)*time.Second)

	var notifier server.StaffNotifier
	if staffBot != nil {
		notifier = staffBot
	}
	handler := server.NewHandler(hub, reminders, notifier)

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      server.NewRouter(handler),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // SSE streams stay open
		IdleTimeout:  60 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		<-c
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("http shutdown", "error", err)
		}
		close(idleConnsClosed)
	}()

	fmt.Println("Sunucu başlatıldı:", cfg.HTTP.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintln(os.Stderr, "listen:", err)
		os.Exit(1)
	}

	<-idleConnsClosed
	fmt.Println("Sunucu durduruldu.")
}

// runSweeper is the authoritative flash-sale cleanup, decoupled from reads.
func runSweeper(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			sweepCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			n, err := services.SweepExpiredFlashSales(sweepCtx, now)
			cancel()
			if err != nil {
				slog.Error("flash sale sweep", "error", err)
			} else if n > 0 {
				slog.Info("flash sale sweep", "deleted", n)
			}
		}
	}
}

func runMigrate(cfg *config.Config) {
	if err := db.Init(cfg.DB); err != nil {
		fmt.Fprintln(os.Stderr, "db:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := applyMigrations(context.Background(), true); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

// runAddStaff creates or updates a staff login. With no password argument a
// secure one is generated and printed once.
func runAddStaff(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: grocery-engine addstaff <username> [password]")
		os.Exit(1)
	}
	username := args[0]
	password := ""
	if len(args) > 1 {
		password = args[1]
	} else {
		var err error
		password, err = services.GenerateSecurePassword()
		if err != nil {
			fmt.Fprintln(os.Stderr, "generate password:", err)
			os.Exit(1)
		}
	}

	if err := db.Init(cfg.DB); err != nil {
		fmt.Fprintln(os.Stderr, "db:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := services.UpsertStaffCredential(context.Background(), username, password); err != nil {
		fmt.Fprintln(os.Stderr, "addstaff:", err)
		os.Exit(1)
	}
	fmt.Printf("Personel %q eklendi. Şifre: %s\n", username, password)
}
