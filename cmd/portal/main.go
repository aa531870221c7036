// Command portal is the terminal front end of the hackathon portal. Every
// screen is reached through the route table, so the same guard applies as
// when navigating interactively.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Dosada05/hackathon-portal/client"
	"github.com/Dosada05/hackathon-portal/config"
	"github.com/Dosada05/hackathon-portal/router"
	"github.com/Dosada05/hackathon-portal/session"
	"github.com/Dosada05/hackathon-portal/views"
	"github.com/spf13/cobra"
)

var version = "dev"

type rootOptions struct {
	configPath  string
	apiURL      string
	sessionFile string
	verbose     bool
}

// app is what every command works with.
type app struct {
	cfg     *config.ClientConfig
	session *session.Session
	client  *client.Client
	router  *router.Router
	logger  *slog.Logger
	out     io.Writer
}

func newApp(ctx context.Context, opts *rootOptions, out io.Writer) (*app, error) {
	cfg, err := config.LoadClient(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.apiURL != "" {
		cfg.APIURL = opts.apiURL
	}
	if opts.sessionFile != "" {
		cfg.SessionFile = opts.sessionFile
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	sess, err := session.New(session.NewFileStore(cfg.SessionFile))
	if err != nil {
		return nil, err
	}
	c := client.New(cfg.BaseURL(), sess, client.WithLogger(logger))
	r, err := router.New(ctx, views.Deps{Client: c, Session: sess, Logger: logger}, router.Table())
	if err != nil {
		return nil, err
	}
	logger.Debug("portal ready", slog.String("api", cfg.BaseURL()), slog.String("session", cfg.SessionFile))
	return &app{cfg: cfg, session: sess, client: c, router: r, logger: logger, out: out}, nil
}

// open navigates to path and waits for the screen to load.
func (a *app) open(path string) (views.View, string) {
	a.router.Navigate(path)
	return a.router.Settle()
}

// render shows whatever screen is mounted now.
func (a *app) render() error {
	v, path := a.router.Settle()
	if v == nil {
		return nil
	}
	a.logger.Debug("render", slog.String("path", path))
	return v.Render(a.out)
}

func (a *app) close() { a.router.Close() }

// screen opens path and returns its view as T. A guard redirect shows up as
// an error naming where the router went instead.
func screen[T views.View](a *app, path string) (T, error) {
	v, at := a.open(path)
	typed, ok := v.(T)
	if !ok {
		var zero T
		if at != path {
			return zero, fmt.Errorf("%s is not available for this session (redirected to %s)", path, at)
		}
		return zero, fmt.Errorf("unexpected screen at %s", at)
	}
	return typed, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	var current *app

	root := &cobra.Command{
		Use:           "portal",
		Short:         "Terminal client for the hackathon portal",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations["standalone"] == "true" {
				return nil
			}
			a, err := newApp(cmd.Context(), opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			current = a
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if current != nil {
				current.close()
			}
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "client config file (default ~/.hackportal/config.yaml)")
	root.PersistentFlags().StringVar(&opts.apiURL, "api", "", "backend API base URL, overrides config")
	root.PersistentFlags().StringVar(&opts.sessionFile, "session", "", "session file, overrides config")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging to stderr")

	get := func() *app { return current }
	root.AddCommand(
		newOpenCmd(get),
		newLoginCmd(get),
		newLogoutCmd(get),
		newSignUpCmd(get),
		newHostCmd(get),
		newRegisterCmd(get),
		newDecisionCmd(get, "approve"),
		newDecisionCmd(get, "reject"),
		newReportCmd(get),
		newWatchCmd(get),
		newVersionCmd(),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
