package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads dotenv files for the given environment, most specific first:
// .env.<env>.local, .env.<env>, .env.local, .env.
// godotenv never overwrites variables that are already set, so real process
// env always wins and earlier files win over later ones.
// Returns the files that were actually loaded.
func LoadDotEnv(env string) []string {
	var candidates []string
	if env != "" {
		candidates = append(candidates, ".env."+env+".local", ".env."+env)
	}
	candidates = append(candidates, ".env.local", ".env")

	var loaded []string
	for _, f := range candidates {
		if _, err := os.Stat(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}

// AppEnv returns APP_ENV, defaulting to "local".
func AppEnv() string {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}
	return "local"
}
