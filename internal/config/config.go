package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env         string        `yaml:"env" env:"ENV" env-default:"local"`
	StoragePath string        `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true"`
	Discord     DiscordConfig `yaml:"discord"`
	Poll        PollConfig    `yaml:"poll"`
	Vote        VoteConfig    `yaml:"vote"`
	HTTP        HTTPConfig    `yaml:"http"`
}

type DiscordConfig struct {
	Token    string `yaml:"token" env:"DISCORD_TOKEN" env-required:"true"`
	Prefix   string `yaml:"prefix" env:"DISCORD_PREFIX" env-default:"!"`
	Timezone string `yaml:"timezone" env:"TIMEZONE" env-default:"Europe/Berlin"`
}

type PollConfig struct {
	Duration          time.Duration `yaml:"duration" env-default:"72h"`
	DefaultWeeks      int           `yaml:"default_weeks" env-default:"3"`
	DefaultMinPlayers int           `yaml:"default_min_players" env-default:"2"`
	DefaultMaxPlayers int           `yaml:"default_max_players" env-default:"6"`
}

type VoteConfig struct {
	Duration time.Duration `yaml:"duration" env-default:"48h"`
}

type HTTPConfig struct {
	Port      int           `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	JWTSecret string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	TokenTTL  time.Duration `yaml:"token_ttl" env-default:"24h"`

	// AdminPasswordHash is the bcrypt hash accepted by /api/auth/login. Empty disables login.
	AdminPasswordHash string `yaml:"admin_password_hash" env:"ADMIN_PASSWORD_HASH"`
}

// Location resolves the configured timezone.
func (c DiscordConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load reads a .env file if present, then the yaml file at path with environment
// overrides.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("cannot read .env: %w", err)
	}

	var config Config
	if err := cleanenv.ReadConfig(path, &config); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}
	return &config, nil
}

type ctxKey string

const configContextKey ctxKey = "lfgbot.config"

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}
