package main

import (
	"os"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/eliseohh/sagebot/internal/canvas"
	"github.com/eliseohh/sagebot/internal/config"
	"github.com/eliseohh/sagebot/internal/index"
	"github.com/eliseohh/sagebot/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "sage",
	Short: "Course assistant bot backed by Canvas",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogger() {
	log.Setup(config.Config().LogLevel)
}

func buildCanvasClient() *canvas.Client {
	cfg := config.Config().CanvasConfig
	return canvas.NewClient(cfg.BaseURL, cfg.Token, canvas.WithPerPage(cfg.PerPage))
}

func buildDB() (*index.DB, error) {
	db, err := index.NewDB(config.Config().DBPath)
	if err != nil {
		return nil, err
	}
	if err := db.InitSchema(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "schema init failed")
	}
	return db, nil
}
