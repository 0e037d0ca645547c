package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	DatabaseURL string `env:"DATABASE_URL"`

	JWT        JWT        `envPrefix:"JWT_"`
	Classifier Classifier `envPrefix:"CLASSIFIER_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

type JWT struct {
	Secret string        `env:"SECRET"`
	Expiry time.Duration `env:"EXPIRY" envDefault:"24h"`
}

// Classifier points at an OpenAI-compatible chat completions endpoint with
// vision support. The default gateway/model pair matches the hosted setup the
// payment screenshots were tuned against.
type Classifier struct {
	BaseURL string        `env:"BASE_URL" envDefault:"https://ai.gateway.lovable.dev/v1/chat/completions"`
	APIKey  string        `env:"API_KEY"`
	Model   string        `env:"MODEL" envDefault:"google/gemini-2.5-flash"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}
