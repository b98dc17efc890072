package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/careerbot/ai/observability/logging"
	"github.com/hrygo/careerbot/internal/profile"
	"github.com/hrygo/careerbot/internal/version"
	"github.com/hrygo/careerbot/server"
)

// instanceProfile is filled in by PersistentPreRunE before any command runs.
var instanceProfile *profile.Profile

var (
	rootCmd = &cobra.Command{
		Use:           "careerbot",
		Short:         `A rule-based IT career consultant for Telegram and the web.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Systemd units provide their environment through EnvironmentFile.
			if !isRunningAsSystemdService() {
				_ = godotenv.Load()
			}

			p, err := loadProfile()
			if err != nil {
				return err
			}
			instanceProfile = p
			logging.Setup(p.LogFormat, logging.ParseLevel(p.LogLevel))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), terminationSignals...)
			defer stop()
			return runServer(ctx, instanceProfile)
		},
	}
)

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("port", profile.DefaultPort)

	flags := rootCmd.PersistentFlags()
	flags.String("mode", "dev", `mode of the bot, can be "prod" or "dev" or "demo"`)
	flags.String("addr", "", "address of the HTTP server")
	flags.Int("port", profile.DefaultPort, "port of the HTTP server")
	flags.String("data", "", "data directory for the sqlite audit log")
	flags.Bool("audit", false, "record every classification in the audit log")
	flags.String("driver", "sqlite", "audit log database driver (sqlite, postgres)")
	flags.String("dsn", "", "database source name(aka. DSN)")
	flags.String("knowledge", "", "path to a knowledge YAML file, the embedded payload is used when empty")
	flags.Int("threshold", 0, "minimum intent score, 0 keeps the knowledge payload's threshold")
	flags.Uint64("seed", 0, "seed for reply selection, 0 picks replies at random")
	flags.Int("cache-size", 1024, "classification cache entries, 0 disables the cache")
	flags.String("telegram-mode", "polling", `how Telegram updates arrive, "polling" or "webhook"`)
	flags.String("webhook-url", "", "public URL Telegram posts updates to in webhook mode")
	flags.Float64("send-rate", profile.DefaultSendRatePerSecond, "maximum outbound messages per second")
	flags.Int("max-concurrent", profile.DefaultMaxConcurrentMessages, "messages handled concurrently per channel")
	flags.String("log-level", profile.DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.String("log-format", profile.DefaultLogFormat, `log format, "json" or "text"`)

	for _, name := range []string{
		"mode", "addr", "port", "data", "audit", "driver", "dsn", "knowledge", "threshold", "seed", "cache-size",
		"telegram-mode", "webhook-url", "send-rate", "max-concurrent", "log-level", "log-format",
	} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("careerbot")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	rootCmd.AddCommand(chatCmd, askCmd, mcpCmd, validateCmd, versionCmd)
}

func loadProfile() (*profile.Profile, error) {
	p := &profile.Profile{
		Mode:                  viper.GetString("mode"),
		Addr:                  viper.GetString("addr"),
		Port:                  viper.GetInt("port"),
		Data:                  viper.GetString("data"),
		AuditEnabled:          viper.GetBool("audit"),
		Driver:                viper.GetString("driver"),
		DSN:                   viper.GetString("dsn"),
		KnowledgePath:         viper.GetString("knowledge"),
		Threshold:             viper.GetInt("threshold"),
		Seed:                  viper.GetUint64("seed"),
		CacheSize:             viper.GetInt("cache-size"),
		TelegramMode:          viper.GetString("telegram-mode"),
		WebhookURL:            viper.GetString("webhook-url"),
		SendRatePerSecond:     viper.GetFloat64("send-rate"),
		MaxConcurrentMessages: viper.GetInt("max-concurrent"),
		LogLevel:              viper.GetString("log-level"),
		LogFormat:             viper.GetString("log-format"),
		Version:               version.GetCurrentVersion(viper.GetString("mode")),
	}
	p.FromEnv()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func runServer(ctx context.Context, p *profile.Profile) error {
	advisor, err := newAdvisor(p)
	if err != nil {
		return err
	}

	audit, closeAudit, err := openAuditStore(ctx, p)
	if err != nil {
		printDatabaseError(err, p)
		return err
	}
	defer closeAudit()

	router, err := newChannelRouter(p)
	if err != nil {
		return err
	}

	opts := server.Options{
		Channels: router,
		Exporter: newExporter(),
	}
	if audit != nil {
		opts.Audit = audit
	}
	s := server.NewServer(p, advisor, opts)

	printGreetings(p, len(router.Channels()))
	return s.Run(ctx)
}

func printGreetings(p *profile.Profile, channelCount int) {
	fmt.Printf("CareerBot %s started successfully!\n", p.Version)
	if p.IsDev() {
		fmt.Fprint(os.Stderr, "Development mode is enabled\n")
	}

	fmt.Printf("Mode: %s\n", p.Mode)
	if p.KnowledgePath != "" {
		fmt.Printf("Knowledge: %s\n", p.KnowledgePath)
	} else {
		fmt.Println("Knowledge: embedded")
	}
	if p.AuditEnabled {
		fmt.Printf("Audit log: %s\n", p.Driver)
	}
	if p.HasTelegram() {
		fmt.Printf("Telegram: %s\n", p.TelegramMode)
	} else {
		fmt.Println("Telegram: disabled (set CAREERBOT_TELEGRAM_TOKEN to enable)")
	}
	fmt.Printf("Chat channels: %d\n", channelCount)

	host := p.Addr
	if host == "" {
		host = "localhost"
	}
	fmt.Printf("HTTP API at: http://%s:%d/api/v1/chat\n", host, p.Port)
	fmt.Println()
}

// isRunningAsSystemdService detects if the process is running under systemd.
func isRunningAsSystemdService() bool {
	return os.Getenv("INVOCATION_ID") != "" || os.Getenv("WATCHDOG_USEC") != ""
}

// printDatabaseError explains the common audit database failures.
func printDatabaseError(err error, p *profile.Profile) {
	fmt.Fprintln(os.Stderr, "\nAudit log database unavailable")

	errMsg := err.Error()
	switch {
	case strings.Contains(errMsg, "connection refused") || strings.Contains(errMsg, "no such host"):
		fmt.Fprintln(os.Stderr, "PostgreSQL is not reachable. Check the DSN host and port, or use sqlite:")
		fmt.Fprintln(os.Stderr, "  careerbot --audit --driver=sqlite --data=./data")
	case strings.Contains(errMsg, "sslmode") || strings.Contains(errMsg, "SSL is not enabled"):
		fmt.Fprintln(os.Stderr, "PostgreSQL SSL configuration mismatch. Add ?sslmode=disable to the DSN.")
	case strings.Contains(errMsg, "password authentication failed"):
		fmt.Fprintln(os.Stderr, "PostgreSQL authentication failed. Check the credentials in the DSN.")
	case strings.Contains(errMsg, "permission denied") || strings.Contains(errMsg, "unable to open database"):
		fmt.Fprintf(os.Stderr, "Cannot write the database file. Check permissions on %q.\n", p.Data)
	default:
		fmt.Fprintln(os.Stderr, "Error:", errMsg)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
