// Package env loads dotenv files before configuration is read.
package env

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Load reads .env and then overlays .env.<APP_ENV> when present. Missing
// files are fine; the process environment always wins in the config layer.
func Load() {
	_ = godotenv.Load(".env")

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}
	_ = godotenv.Overload(fmt.Sprintf(".env.%s", appEnv))
}
