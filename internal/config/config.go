package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env-default:"8080"`
	SocketPort string `yaml:"socket-port" env-default:"8081"`
	Redis      Redis  `yaml:"redis"`
	Game       Game   `yaml:"game"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Game holds the lifecycle timings. Durations are set through environment
// variables because the yaml decoder does not parse duration strings.
type Game struct {
	StartDelay    time.Duration `env:"GAME_START_DELAY" env-default:"3s"`
	CloseGrace    time.Duration `env:"GAME_CLOSE_GRACE" env-default:"30s"`
	IdleTTL       time.Duration `env:"GAME_IDLE_TTL" env-default:"1h"`
	SweepInterval time.Duration `env:"GAME_SWEEP_INTERVAL" env-default:"10s"`
	ArchiveTTL    time.Duration `env:"GAME_ARCHIVE_TTL" env-default:"24h"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// GetRedisAddr returns the redis address, or an empty string when no host is
// configured and the match archive should stay disabled.
func (that *Redis) GetRedisAddr() string {
	if that.Host == "" {
		return ""
	}

	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
