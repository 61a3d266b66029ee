package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"github.com/pavelanni/greeting/internal/content"
	"github.com/pavelanni/greeting/internal/effects"
	"github.com/pavelanni/greeting/internal/handler"
	appI18n "github.com/pavelanni/greeting/internal/i18n"
	"github.com/pavelanni/greeting/internal/model"
	"github.com/pavelanni/greeting/internal/store"
	"github.com/pavelanni/greeting/internal/tui"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "greeting",
		Short: "A personal greeting page with a little relationship quiz",
	}

	serve := serveCmd()
	root.AddCommand(serve, playCmd(), wakeUpCmd(), validateCmd(), hashPassphraseCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `greeting --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func addCommonFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("content", "c", "", "Path to a content YAML file (default: built-in content)")
	f.StringP("lang", "l", "en", "UI language (en, ru)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
	addCommonFlags(cmd)
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("base-path", "", "URL prefix for sub-path deployments (e.g. /love)")
	f.Bool("secure-cookies", true, "Set Secure flag on cookies")
	f.String("passphrase-hash", "", "bcrypt hash of the passphrase that unlocks the page (empty = open)")
	f.Duration("session-ttl", store.DefaultTTL, "Idle time after which a visitor's quiz state is dropped")
	f.Duration("cleanup-interval", store.DefaultCleanupInterval, "How often expired visitors are removed")
	f.Int("hearts", 15, "Number of floating hearts")
	return cmd
}

func playCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the quiz in the terminal",
		RunE:  runPlay,
	}
	addCommonFlags(cmd)
	cmd.Flags().Bool("no-color", false, "Disable colors")
	cmd.Flags().Bool("confetti", true, "Play the opening confetti show")
	return cmd
}

func wakeUpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wakeup",
		Short: "Run the wake-up widget in the terminal",
		RunE:  runWakeUp,
	}
	addCommonFlags(cmd)
	cmd.Flags().Bool("no-color", false, "Disable colors")
	return cmd
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a content file",
		RunE:  runValidate,
	}
	addCommonFlags(cmd)
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func hashPassphraseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash-passphrase [passphrase]",
		Short: "Print the bcrypt hash for --passphrase-hash (reads stdin without an argument)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHashPassphrase,
	}
	cmd.Flags().Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("GREETING")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("greeting")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/greeting")
	v.AddConfigPath("/etc/greeting")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

// normalizeBasePath turns "love/" into "/love"; "" and "/" mean no prefix.
func normalizeBasePath(p string) string {
	p = strings.TrimRight(p, "/")
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	c, err := content.Load(v.GetString("content"))
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	cfg := model.SiteConfig{
		BasePath:       normalizeBasePath(v.GetString("base-path")),
		SecureCookies:  v.GetBool("secure-cookies"),
		PassphraseHash: v.GetString("passphrase-hash"),
		SessionTTL:     v.GetDuration("session-ttl"),
		Hearts:         v.GetInt("hearts"),
	}
	cleanupInterval := v.GetDuration("cleanup-interval")
	if cleanupInterval <= 0 {
		return fmt.Errorf("cleanup-interval must be positive, got %s", cleanupInterval)
	}
	if cfg.PassphraseHash != "" {
		if _, err := bcrypt.Cost([]byte(cfg.PassphraseHash)); err != nil {
			return fmt.Errorf("passphrase-hash is not a bcrypt hash: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	visitors := store.New(c.Quiz, c.WakeUp.Messages, cfg.SessionTTL)
	janitorDone := visitors.StartJanitor(ctx, cleanupInterval)

	h, err := handler.New(visitors, c, cfg)
	if err != nil {
		return fmt.Errorf("create handler: %w", err)
	}

	addr := v.GetString("addr")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler.NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("starting server",
		"addr", addr,
		"lang", lang,
		"recipient", c.Recipient,
		"questions", len(c.Quiz),
		"base_path", cfg.BasePath,
		"passphrase", cfg.PassphraseHash != "",
		"session_ttl", cfg.SessionTTL,
	)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		stop()
		<-janitorDone
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	<-janitorDone
	return err
}

// terminalOptions prepares i18n for a terminal command.
func terminalOptions(v *viper.Viper) (tui.Options, error) {
	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return tui.Options{}, fmt.Errorf("init i18n: %w", err)
	}
	ctx := appI18n.WithLocalizer(context.Background(), appI18n.NewLocalizer(appI18n.Match(lang)))
	return tui.Options{Context: ctx, NoColor: v.GetBool("no-color")}, nil
}

func runPlay(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	c, err := content.Load(v.GetString("content"))
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}
	opts, err := terminalOptions(v)
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewQuizModel(c.Quiz, c.QuizIntro, opts), tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	showDone := make(chan struct{})
	go func() {
		defer close(showDone)
		if !v.GetBool("confetti") {
			return
		}
		if err := tui.PlayShow(ctx, effects.OpeningShow, p.Send); err != nil {
			slog.Debug("confetti show stopped", "error", err)
		}
	}()

	_, err = p.Run()
	cancel()
	<-showDone
	if err != nil {
		return fmt.Errorf("run quiz: %w", err)
	}
	return nil
}

func runWakeUp(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	c, err := content.Load(v.GetString("content"))
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}
	opts, err := terminalOptions(v)
	if err != nil {
		return err
	}

	if _, err := tea.NewProgram(tui.NewWakeUpModel(c.WakeUp, opts), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run wake-up widget: %w", err)
	}
	return nil
}

func runValidate(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)
	path := v.GetString("content")

	c, err := content.Load(path)
	if err != nil {
		var ve *content.ValidationError
		if errors.As(err, &ve) {
			color.Red("%s: %d problem(s)", path, len(ve.Fields))
			for _, f := range ve.Fields {
				color.Red("  - %s", f)
			}
			return fmt.Errorf("content is invalid")
		}
		color.Red("%v", err)
		return err
	}

	color.Green("%s is valid", path)
	bold := color.New(color.Bold)
	_, _ = bold.Printf("  recipient: ")
	fmt.Println(c.Recipient)
	_, _ = bold.Printf("  quiz:      ")
	fmt.Printf("%d questions\n", len(c.Quiz))
	_, _ = bold.Printf("  timeline:  ")
	fmt.Printf("%d events\n", len(c.Timeline))
	_, _ = bold.Printf("  wake-up:   ")
	fmt.Printf("%d messages, %d fun facts\n", len(c.WakeUp.Messages), len(c.WakeUp.FunFacts))
	return nil
}

func runHashPassphrase(cmd *cobra.Command, args []string) error {
	var passphrase string
	if len(args) == 1 {
		passphrase = args[0]
	} else {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read passphrase: %w", err)
		}
		passphrase = strings.TrimRight(line, "\r\n")
	}
	if passphrase == "" {
		return fmt.Errorf("passphrase must not be empty")
	}

	cost, _ := cmd.Flags().GetInt("cost")
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), cost)
	if err != nil {
		return fmt.Errorf("hash passphrase: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(hash))
	return nil
}
