package main

import (
	"os"

	"github.com/vetrovs/mediabot/internal/app"
)

func main() {
	os.Exit(app.Run("worker", run))
}
