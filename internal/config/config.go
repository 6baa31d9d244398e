package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr      string `env:"HTTP_ADDR" envDefault:":8080"`
	TriviaAPIBase string `env:"TRIVIA_API_BASE" envDefault:"https://rithm-jeopardy.herokuapp.com/api"`

	// RedisAddr empty means game records stay in process memory only.
	RedisAddr string `env:"REDIS_ADDR"`

	// Countdown durations for the buzz-in protocol.
	BuzzWindow            time.Duration `env:"BUZZ_WINDOW" envDefault:"5s"`
	AnswerWindow          time.Duration `env:"ANSWER_WINDOW" envDefault:"5s"`
	RevealDelay           time.Duration `env:"REVEAL_DELAY" envDefault:"3s"`
	DailyDoubleCloseDelay time.Duration `env:"DAILY_DOUBLE_CLOSE_DELAY" envDefault:"2s"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
