package main

import (
	"os"

	"taxintake/internal/platform/logger"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		logger.Get().Error().Err(err).Msg("estimate failed")
		os.Exit(1)
	}
}
