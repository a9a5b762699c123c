package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/jyothri/mailclean/constants"
	"github.com/jyothri/mailclean/db"
	"github.com/jyothri/mailclean/session"
	"github.com/jyothri/mailclean/web"
)

func init() {
	options := &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Value = slog.StringValue(a.Value.Time().Format("2006-01-02 15:04:05.999"))
			}
			return a
		},
		Level: slog.LevelDebug,
	}

	handler := slog.NewTextHandler(os.Stdout, options)
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(slog.LevelDebug)
}

func main() {
	flag.Parse()

	if constants.DbHost != "" {
		if err := db.SetupDatabase(); err != nil {
			slog.Error("Failed to set up database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
	} else {
		slog.Info("No db_host configured, cleanup history disabled.")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := session.NewStore()
	store.StartSweeper(ctx)

	web.Server(store)
}
