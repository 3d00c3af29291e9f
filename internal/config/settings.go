package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/smokyabdulrahman/ramadan-live/internal/calendar"
)

// Settings is the effective configuration after merging every layer except
// CLI flags, which commands apply on top.
type Settings struct {
	AppEnv        string
	Location      string `validate:"required"`
	TimeFormat    string `validate:"oneof=12h 24h"`
	CacheDir      string
	StartDate     string `validate:"datetime=2006-01-02"`
	TotalDays     int    `validate:"min=1,max=60"`
	Match         string `validate:"oneof=dates hijri"`
	ListenAddr    string `validate:"required"`
	RedisAddr     string
	RedisPassword string
	LogLevel      string
	BaseURL       string `validate:"omitempty,url"`
}

var validate = validator.New()

// Resolve merges env over file over defaults. file may be nil.
func Resolve(file *Config, env Env) Settings {
	d := Defaults()
	if file == nil {
		file = &Config{}
	}

	return Settings{
		AppEnv:        first(env.AppEnv, "development"),
		Location:      first(env.Location, file.Location, d.Location),
		TimeFormat:    first(file.TimeFormat, d.TimeFormat),
		CacheDir:      file.CacheDir,
		StartDate:     first(file.StartDate, d.StartDate),
		TotalDays:     firstInt(file.TotalDays, d.TotalDays),
		Match:         first(file.Match, d.Match),
		ListenAddr:    first(env.ListenAddr, file.ListenAddr, d.ListenAddr),
		RedisAddr:     first(env.RedisAddress, file.RedisAddr),
		RedisPassword: env.RedisPassword,
		LogLevel:      first(env.LogLevel, file.LogLevel),
		BaseURL:       env.BaseURL,
	}
}

// Validate checks the merged values.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Season builds the Ramadan window from the settings.
func (s Settings) Season() (calendar.Season, error) {
	start, err := time.Parse("2006-01-02", s.StartDate)
	if err != nil {
		return calendar.Season{}, fmt.Errorf("invalid start_date %q: %w", s.StartDate, err)
	}
	match, err := calendar.ParseMatchMode(s.Match)
	if err != nil {
		return calendar.Season{}, err
	}
	return calendar.Season{Start: start, TotalDays: s.TotalDays, Match: match}, nil
}

// TimeLayout returns the Go layout for the configured time format.
func (s Settings) TimeLayout() string {
	if s.TimeFormat == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstInt(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
