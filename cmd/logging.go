package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/vibast-solutions/ms-go-hydration/config"

	"github.com/sirupsen/logrus"
)

func configureLogging(cfg *config.Config) error {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.Log.Level, err)
	}

	switch strings.ToLower(cfg.Log.Format) {
	case "", "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q: expected json or text", cfg.Log.Format)
	}

	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(level)
	return nil
}
