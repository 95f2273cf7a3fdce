package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// Config holds the settings of one batch run. The zero-configuration defaults
// read input.txt, write output.txt and save covers under images/.
type Config struct {
	InputFile  string
	OutputFile string
	ImageDir   string

	Renderer         string
	RenderTimeout    time.Duration
	ImageTimeout     time.Duration // zero means no timeout
	ChromeDriverPath string
	UserAgent        string

	AWSRegion     string
	AWSBucketName string
	AWSPrefix     string

	LogLevel string
}

// LoadConfig loads environment variables from an optional .env file and
// applies defaults for anything unset.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using default values or system environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() *Config {
	return &Config{
		InputFile:        getEnv("INPUT_FILE", "input.txt"),
		OutputFile:       getEnv("OUTPUT_FILE", "output.txt"),
		ImageDir:         getEnv("IMAGE_DIR", "images"),
		Renderer:         strings.ToLower(getEnv("RENDERER", "chromedp")),
		RenderTimeout:    getDuration("RENDER_TIMEOUT", 2*time.Minute),
		ImageTimeout:     getDuration("IMAGE_TIMEOUT", 0),
		ChromeDriverPath: getEnv("CHROMEDRIVER_PATH", "/usr/local/bin/chromedriver"),
		UserAgent:        getEnv("USER_AGENT", defaultUserAgent),
		AWSRegion:        os.Getenv("AWS_REGION"),
		AWSBucketName:    os.Getenv("AWS_S3_BUCKET"),
		AWSPrefix:        getEnv("AWS_S3_PREFIX", "covers"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid duration, using default")
		return def
	}
	return d
}
