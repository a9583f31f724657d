package main

import (
	"os"

	"fxconv/internal/app"

	"github.com/sirupsen/logrus"
)

// @title fxconv API
// @version 1.0
// @description Currency converter backend: live and offline exchange rates, tracked currencies, history and display settings.
// @BasePath /api/v1
func main() {
	if err := app.Run(); err != nil {
		logrus.WithError(err).Error("application stopped")
		os.Exit(1)
	}
}
