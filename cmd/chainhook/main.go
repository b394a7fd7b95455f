package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"

	"github.com/mattjoyce/chainhook/internal/config"
	"github.com/mattjoyce/chainhook/internal/doctor"
	"github.com/mattjoyce/chainhook/internal/log"
	"github.com/mattjoyce/chainhook/internal/registrar"
	"github.com/mattjoyce/chainhook/internal/webhook"
)

const version = "0.1.0"

const usage = `receives HMAC-signed blockchain address notifications and registers the subscriptions that produce them`

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)
	if err := app.Run(args); err != nil {
		errStyle := lipgloss.NewRenderer(stderr).NewStyle().Bold(true).Foreground(lipgloss.Color("#FF0000"))
		fmt.Fprintf(stderr, "%s %v\n", errStyle.Render("Error:"), err)

		var ec cli.ExitCoder
		if errors.As(err, &ec) {
			return ec.ExitCode()
		}
		return 1
	}
	return 0
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "chainhook",
		Usage:     usage,
		Version:   version,
		Writer:    stdout,
		ErrWriter: stderr,
		// Exit codes are mapped by run; never call os.Exit from inside the app.
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE` (environment variables still override it)",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "Load environment variables from `FILE` if it exists",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the webhook receiver until interrupted",
				Action: runServe,
			},
			{
				Name:  "register",
				Usage: "Create the address-transaction subscription and print its id",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "quiet",
						Aliases: []string{"q"},
						Usage:   "Print only the subscription id",
					},
				},
				Action: runRegister,
			},
			{
				Name:  "sign",
				Usage: "Print the signature header value for a body (file or stdin)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Read the body from `FILE` instead of stdin",
					},
				},
				Action: runSign,
			},
			{
				Name:  "version",
				Usage: "Show version information",
				Action: func(c *cli.Context) error {
					fmt.Fprintf(c.App.Writer, "chainhook version %s\n", version)
					return nil
				},
			},
			{
				Name:  "config",
				Usage: "Inspect configuration",
				Subcommands: []*cli.Command{
					{
						Name:  "check",
						Usage: "Validate configuration without network access",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "role", Value: string(doctor.RoleAll), Usage: "all, receiver or registrar"},
							&cli.StringFlag{Name: "format", Value: "human", Usage: "Output format (human, json)"},
							&cli.BoolFlag{Name: "strict", Usage: "Treat warnings as errors"},
						},
						Action: runConfigCheck,
					},
				},
			},
		},
	}
}

// loadConfig resolves .env, the optional YAML file and the environment, then
// initializes logging. It performs no network I/O.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if err := config.LoadDotEnv(c.String("env-file")); err != nil {
		return nil, err
	}
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	log.Setup(cfg.Service.LogLevel, cfg.Service.LogFormat)
	return cfg, nil
}

func runServe(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.ValidateReceiver(); err != nil {
		return err
	}

	webhookConfig, err := webhook.FromConfig(cfg.Receiver)
	if err != nil {
		return err
	}

	logger := log.WithComponent("main")
	logger.Info("chainhook starting", "version", version)

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sink := webhook.NewLogSink(log.WithComponent("payload"))
	server := webhook.New(webhookConfig, sink, log.WithComponent("webhook"))

	if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("chainhook stopped")
	return nil
}

func runRegister(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.ValidateRegistrar(); err != nil {
		return err
	}

	progress := c.App.Writer
	if c.Bool("quiet") {
		progress = io.Discard
	}

	client := registrar.New(cfg.Provider.BaseURL, nil, progress, log.WithComponent("registrar"))
	id, err := client.Register(c.Context, registrar.FromConfig(cfg))
	if err != nil {
		return err
	}

	if c.Bool("quiet") {
		fmt.Fprintln(c.App.Writer, id)
	}
	return nil
}

func runSign(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.Receiver.ValidateSecret(); err != nil {
		return err
	}

	var body []byte
	if path := c.String("file"); path != "" {
		body, err = os.ReadFile(path)
	} else {
		body, err = io.ReadAll(c.App.Reader)
	}
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}

	fmt.Fprintln(c.App.Writer, webhook.Sign(cfg.Receiver.HMACSecret, body))
	return nil
}

func runConfigCheck(c *cli.Context) error {
	if err := config.LoadDotEnv(c.String("env-file")); err != nil {
		return err
	}
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("config load error: %v", err), 1)
	}

	role := doctor.Role(c.String("role"))
	switch role {
	case doctor.RoleAll, doctor.RoleReceiver, doctor.RoleRegistrar:
	default:
		return cli.Exit(fmt.Sprintf("unknown role %q", role), 1)
	}

	result := doctor.New(cfg, role).Validate()

	switch c.String("format") {
	case "json":
		out, err := doctor.FormatJSON(result)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, out)
	default:
		fmt.Fprint(c.App.Writer, doctor.FormatHuman(result))
	}

	if !result.Valid {
		return cli.Exit("configuration invalid", 1)
	}
	if c.Bool("strict") && len(result.Warnings) > 0 {
		return cli.Exit("configuration has warnings", 2)
	}
	return nil
}
