package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"SizeWise/internal/config"
	"SizeWise/internal/engine"
)

var (
	configPath string
	logLevel   string
	eng        *engine.Engine
)

var rootCmd = &cobra.Command{
	Use:   "ductcalc",
	Short: "HVAC duct airflow calculations",
	Long: `ductcalc computes air properties, velocity pressure and friction loss
for HVAC ducts. Results are written to stdout as JSON.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	// .env is optional
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&configPath, "config", getEnv("DUCTCALC_CONFIG", ""), "INI file with materials, limits and standard air")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", getEnv("DUCTCALC_LOG_LEVEL", "warn"), "log level (debug, info, warn, error)")
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	log.SetOutput(os.Stderr)
	log.SetLevel(level)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	eng, err = engine.New(cfg)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"config": configPath}).Debug("engine ready")
	return nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
