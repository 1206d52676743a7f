package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config is the full configuration of the benchmark driver, populated
// from environment variables.
type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	HTTP        struct {
		Port            int           `env:"HTTP_PORT" envDefault:"8080"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	}
	Logging struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
		Output string `env:"LOG_OUTPUT" envDefault:"stderr"`
	}
	Experiment struct {
		Functions  []string `env:"BBOB_FUNCTIONS" envSeparator:"," envDefault:"sphere,rosenbrock,rastrigin,ackley"`
		Methods    []string `env:"BBOB_METHODS" envSeparator:"," envDefault:"Nelder-Mead,BFGS,CG,L-BFGS-B"`
		Dimensions []int    `env:"BBOB_DIMENSIONS" envSeparator:"," envDefault:"2,5"`
		Instances  int      `env:"BBOB_INSTANCES" envDefault:"1"`
		Precision  float64  `env:"BBOB_PRECISION" envDefault:"1e-8"`
		DataDir    string   `env:"BBOB_DATA_DIR" envDefault:"data"`
	}
	Hopping struct {
		Restarts    int     `env:"BBOB_RESTARTS" envDefault:"20"`
		StepSize    float64 `env:"BBOB_STEP_SIZE" envDefault:"0.5"`
		Temperature float64 `env:"BBOB_TEMPERATURE" envDefault:"1.0"`
		Seed        int64   `env:"BBOB_SEED" envDefault:"0"`
	}
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Development runs default to debug logging
	if cfg.Environment == "development" && !isSet("LOG_LEVEL") {
		cfg.Logging.Level = "debug"
	}

	if err := os.MkdirAll(cfg.Experiment.DataDir, 0o755); err != nil {
		return nil, err
	}

	return cfg, nil
}

func isSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}
