package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bekirdag/task-report/internal/document"
	"github.com/bekirdag/task-report/internal/status"
)

type runOptions struct {
	configPath    string
	serverURL     string
	database      string
	logPath       string
	pixelsPerCell int
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:           "task-report",
		Short:         "Interactive terminal view of the task compliance report",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("url") {
				cfg.ServerURL = opts.serverURL
			}
			if flags.Changed("db") {
				cfg.Database = opts.database
			}
			if flags.Changed("log") {
				cfg.LogPath = opts.logPath
			}
			if flags.Changed("pixels-per-cell") {
				cfg.PixelsPerCell = opts.pixelsPerCell
			}
			cfg.normalize()
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default <config dir>/task-report/config.yaml)")
	cmd.Flags().StringVar(&opts.serverURL, "url", defaultServerURL, "report server address")
	cmd.Flags().StringVar(&opts.database, "db", "", "read the report from a SQLite database instead of the server")
	cmd.Flags().StringVar(&opts.logPath, "log", "", "session log file (default <config dir>/task-report/session.log)")
	cmd.Flags().IntVar(&opts.pixelsPerCell, "pixels-per-cell", defaultPixelsPerCell, "pixels represented by one terminal cell")
	return cmd
}

func run(ctx context.Context, cfg appConfig) error {
	log, closer, err := newSessionLogger(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("open session log: %w", err)
	}
	defer closer.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	client := &http.Client{Timeout: cfg.RequestTimeout}
	deps := modelDeps{
		ctx:           ctx,
		log:           log,
		pixelsPerCell: cfg.PixelsPerCell,
		copy:          clipboard.WriteAll,
	}

	var doc document.Document
	if cfg.Database != "" {
		doc, err = document.LoadSQLite(ctx, cfg.Database)
		if err != nil {
			log.WithError(err).WithField("database", cfg.Database).Error("load report failed")
			return err
		}
		deps.title = cfg.Database
	} else {
		doc, err = document.Fetch(ctx, client, cfg.ServerURL)
		if err != nil {
			log.WithError(err).WithField("url", cfg.ServerURL).Error("load report failed")
			return err
		}
		deps.title = cfg.ServerURL
		if err := connectServer(ctx, cfg.ServerURL, client, log, &deps); err != nil {
			return err
		}
	}
	log.WithFields(logrus.Fields{
		"columns": len(doc.Headers),
		"rows":    len(doc.Rows),
		"source":  deps.title,
	}).Info("report loaded")

	deps.session = doc.Session()
	deps.toggles = doc.Toggles

	_, err = tea.NewProgram(
		newModel(deps),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	).Run()
	return err
}

// connectServer wires the push channel and the run trigger for a live page.
func connectServer(ctx context.Context, pageURL string, client *http.Client, log logrus.FieldLogger, deps *modelDeps) error {
	wsURL, err := status.ChannelURL(pageURL)
	if err != nil {
		return err
	}
	trigger, err := status.NewTrigger(pageURL, client, log)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"channel": wsURL,
		"trigger": trigger.Endpoint(),
	}).Info("connecting")
	deps.channel = status.NewChannel(wsURL, log).Subscribe(ctx)
	deps.trigger = trigger
	return nil
}
