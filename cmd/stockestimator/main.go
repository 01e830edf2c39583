package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StockEstimator/internal/chart"
	"StockEstimator/internal/collector"
	"StockEstimator/internal/config"
	"StockEstimator/internal/discovery"
	"StockEstimator/internal/logger"
	"StockEstimator/internal/recorder"
	"StockEstimator/internal/scheduler"
	"StockEstimator/internal/screen"
	"StockEstimator/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "stockestimator",
	Short: "stockestimator charts estimated future stock prices",
	Long: `Discovers a reachable StockEstimator backend, fetches the price series for a
ticker and date range, and renders it as an SVG chart with the estimated price.`,
	SilenceUsage: true,
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Fetch once and write the chart to a file",
	RunE:  runRender,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chart screen over HTTP",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $CONFIG_PATH or configs/config.yaml)")

	renderCmd.Flags().String("ticker", "", "ticker symbol (msft, googl, amzn, aapl)")
	renderCmd.Flags().String("since", "", "first date of the series (YYYY-MM-DD or MM/DD/YYYY)")
	renderCmd.Flags().String("till", "", "last date of the series (YYYY-MM-DD or MM/DD/YYYY)")
	renderCmd.Flags().StringP("out", "o", "", "output SVG path, - for stdout (default chart.output)")

	serveCmd.Flags().StringP("listen", "l", "", "host and port to listen on (default server.listen)")

	rootCmd.AddCommand(renderCmd, serveCmd)
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// app holds everything built from config that both subcommands share.
type app struct {
	cfg *config.Config
	log *zap.Logger
	rec recorder.Recorder
}

func newApp() (*app, error) {
	path := cfgFile
	if path == "" {
		path = "configs/config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		return nil, err
	}

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn("init sqlite recorder failed, using noop", zap.Error(err))
		} else {
			rec = sr
		}
	}
	return &app{cfg: cfg, log: log, rec: rec}, nil
}

func (a *app) Close() {
	if err := a.rec.Close(); err != nil {
		a.log.Warn("close recorder", zap.Error(err))
	}
	_ = a.log.Sync()
}

// newScreen resolves the backend and constructs the screen without loading data.
func (a *app) newScreen(ctx context.Context, opts ...screen.Option) *screen.PriceChartScreen {
	client := collector.NewHTTPClient(a.cfg.HTTP.Proxy, a.cfg.HTTP.Timeout)

	probeClient := *client
	probeClient.Timeout = a.cfg.Discovery.ProbeTimeout
	endpoint := discovery.Discover(ctx, a.cfg.Discovery.Candidates, discovery.NewHTTPProber(&probeClient), a.log)

	fetcher := collector.NewEstimatorFetcher(endpoint, client, a.log)
	a.log.Info("data source", zap.String("fetcher", fetcher.Name()), zap.String("endpoint", endpoint.String()))

	base := []screen.Option{
		screen.WithLogger(a.log),
		screen.WithRecorder(a.rec),
		screen.WithSelection(a.cfg.Selection(time.Now())),
	}
	return screen.New(endpoint, fetcher, append(base, opts...)...)
}

func runRender(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = a.cfg.Chart.Output
	}
	var opts []screen.Option
	if out != "-" {
		opts = append(opts, screen.WithMount(chart.FileMount{Path: out}))
	}
	s := a.newScreen(ctx, opts...)

	ticker, _ := cmd.Flags().GetString("ticker")
	since, _ := cmd.Flags().GetString("since")
	till, _ := cmd.Flags().GetString("till")
	if err := s.Apply(screen.SelectionInput{Ticker: ticker, Since: since, Till: till}); err != nil {
		return fmt.Errorf("selection: %w", err)
	}

	if err := s.Mount(ctx); err != nil {
		return err
	}

	if out == "-" {
		return chart.RenderSVG(cmd.OutOrStdout(), s.Scene())
	}
	v := s.View()
	a.log.Info("chart written", zap.String("path", out))
	fmt.Fprintf(cmd.OutOrStdout(), "%s: estimated %s price %s\n", v.Heading, v.Selection.Ticker, v.Headline)
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listen, _ := cmd.Flags().GetString("listen")
	if listen == "" {
		listen = a.cfg.Server.Listen
	}

	gin.SetMode(gin.ReleaseMode)
	s := a.newScreen(ctx)
	if err := s.Mount(ctx); err != nil {
		a.log.Warn("initial load failed, serving without data", zap.Error(err))
	}

	sched := scheduler.NewScheduler(ctx, s, a.log)
	sched.Timeout = a.cfg.HTTP.Timeout
	if err := sched.Register(a.cfg.Schedule.RefreshCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	var history recorder.HistoryReader
	if hr, ok := a.rec.(recorder.HistoryReader); ok {
		history = hr
	}

	a.log.Info("stockestimator is running, press Ctrl+C to stop")
	if err := server.NewHandler(s, history, a.log).Serve(ctx, listen); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	a.log.Info("stockestimator stopped")
	return nil
}
