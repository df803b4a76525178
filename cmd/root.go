package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bz888/roastbattle/internal/api"
	"github.com/bz888/roastbattle/internal/api/server"
	"github.com/bz888/roastbattle/internal/api/server/client"
	"github.com/bz888/roastbattle/internal/config"
	"github.com/bz888/roastbattle/internal/logger"
	"github.com/bz888/roastbattle/internal/roast"
	"github.com/bz888/roastbattle/internal/ui"
	"github.com/rivo/tview"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	flags      config.Flags
	withServer bool
)

var rootCmd = &cobra.Command{
	Use:   "roastbattle",
	Short: "Manglish Roast Battle - share your tragedy, get roasted",
	Long: `roastbattle collects a short tragedy and returns a roast.

Run without arguments to open the form. Submissions go to the local backend
(--mode backend, the default) or straight to the hosted model (--mode direct).`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return runForm(cmd.Context(), cfg)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the roast backend (POST /api/roast)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := logger.InitLogger(cfg.Dev, cfg.LogPath, nil); err != nil {
			return err
		}
		defer logger.Close()

		return server.New(cmd.Context(), cfg).Run(cmd.Context())
	},
}

var roastCmd = &cobra.Command{
	Use:   "roast <tragedy...>",
	Short: "Submit one tragedy and print the roast",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := logger.InitLogger(cfg.Dev, cfg.LogPath, nil); err != nil {
			return err
		}
		defer logger.Close()

		transport, err := newTransport(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		res := roast.NewClient(transport).Submit(cmd.Context(), strings.Join(args, " "))
		if !res.OK() {
			return fmt.Errorf("%s: %s", res.Kind, res.Message)
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Text)
		return nil
	},
}

func init() {
	flags.BindPersistent(rootCmd.PersistentFlags())
	flags.BindServer(rootCmd.PersistentFlags())
	rootCmd.Flags().BoolVar(&withServer, "with-server", false, "Start the backend in this process as well")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(roastCmd)
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	flags.Apply(cmd.Flags(), &cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newTransport picks where submissions go. A direct client without an API
// key still gets a transport; it reports ConfigError on every submission.
func newTransport(ctx context.Context, cfg config.Config) (roast.Transport, error) {
	switch cfg.Mode {
	case config.ModeDirect:
		generator, err := client.NewGenerator(ctx, cfg)
		if err != nil {
			var re *roast.Error
			if errors.As(err, &re) && re.Kind == roast.KindConfig {
				return roast.Unconfigured(err), nil
			}
			return nil, err
		}
		return roast.FromGenerator(generator), nil
	default:
		backend, err := api.NewBackend(cfg.APIURL)
		if err != nil {
			return nil, err
		}
		return backend, nil
	}
}

func runForm(ctx context.Context, cfg config.Config) error {
	form := ui.NewForm(cfg.Dev)

	var view *tview.TextView
	if cfg.Dev {
		view = form.DebugConsole()
	}
	if err := logger.InitLogger(cfg.Dev, cfg.LogPath, view); err != nil {
		return err
	}
	defer logger.Close()

	transport, err := newTransport(ctx, cfg)
	if err != nil {
		return err
	}
	session := roast.NewSession(roast.NewClient(transport))

	if !withServer {
		return form.Run(ctx, session)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.New(ctx, cfg).Run(ctx)
	})
	g.Go(func() error {
		// closing the form stops the in-process backend too
		defer cancel()
		return form.Run(ctx, session)
	})
	return g.Wait()
}
