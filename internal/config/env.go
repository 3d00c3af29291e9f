package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Env holds settings read from the process environment.
type Env struct {
	AppEnv        string // APP_ENV: "production" switches to JSON logs
	LogLevel      string // LOG_LEVEL
	ListenAddr    string // LISTEN_ADDR
	RedisAddress  string // REDIS_ADDRESS
	RedisPassword string // REDIS_PASSWORD
	Location      string // RAMADAN_LOCATION
	BaseURL       string // ALADHAN_BASE_URL
}

// LoadEnv loads the given .env files (".env" when none) without overriding
// variables already set, then reads the environment. Missing files are
// ignored; a file that exists but cannot be parsed is an error.
func LoadEnv(files ...string) (Env, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Env{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	return Env{
		AppEnv:        os.Getenv("APP_ENV"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		ListenAddr:    os.Getenv("LISTEN_ADDR"),
		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		Location:      os.Getenv("RAMADAN_LOCATION"),
		BaseURL:       os.Getenv("ALADHAN_BASE_URL"),
	}, nil
}
