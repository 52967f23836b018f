package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/ldutos/market_reporter/internal/model"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	API      API
	Scraper  Scraper
	SMTP     SMTP
	Cache    Cache
	Redis    Redis
	Jobs     Jobs
	Run      Run
}

type API struct {
	Debug   bool          `env:"API_DEBUG" envDefault:"false"`
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
	Url     string        `env:"QUOTE_API_URL"`
	Workers int           `env:"QUOTE_API_WORKERS" envDefault:"4"`
}

type Scraper struct {
	Url       string        `env:"ECON_PAGE_URL"`
	Timeout   time.Duration `env:"ECON_PAGE_TIMEOUT" envDefault:"15s"`
	UserAgent string        `env:"ECON_USER_AGENT" envDefault:"Mozilla/5.0"`
}

type SMTP struct {
	Host       string        `env:"SMTP_HOST"`
	Port       int           `env:"SMTP_PORT" envDefault:"587"`
	User       string        `env:"SMTP_USER"`
	Password   string        `env:"SMTP_PASS"`
	From       string        `env:"SMTP_FROM"`
	Recipients []string      `env:"REPORT_TO" envSeparator:","`
	Timeout    time.Duration `env:"SMTP_TIMEOUT" envDefault:"30s"`
}

type Cache struct {
	Backend    string        `env:"CACHE_BACKEND" envDefault:"memory"`
	Expiration time.Duration `env:"CACHE_EXPIRATION" envDefault:"168h"`
}

type Redis struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type Jobs struct {
	ReportCrontab string `env:"REPORT_CRONTAB" envDefault:"0 7 * * 1-5"`
}

type Run struct {
	RetryAttempts   int           `env:"FETCH_RETRY_ATTEMPTS" envDefault:"1"`
	RetryBackoff    time.Duration `env:"FETCH_RETRY_BACKOFF" envDefault:"2s"`
	MinCompleteness float64       `env:"MIN_COMPLETENESS" envDefault:"0.5"`
	OutputDir       string        `env:"OUTPUT_DIR" envDefault:""`
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	if len(cfg.SMTP.Recipients) == 0 {
		log.Fatal("config error: REPORT_TO must list at least one recipient")
	}

	return cfg
}

// Symbols is the static watchlist. The report's display order follows the
// order here, quotes first, then scraped indicators.
func Symbols() []model.Symbol {
	return []model.Symbol{
		{Ticker: "KC=F", Name: "Arabica Coffee", Category: model.CategoryCommodity, Unit: "¢/lb"},
		{Ticker: "CC=F", Name: "Cocoa", Category: model.CategoryCommodity, Unit: "USD/tonne"},
		{Ticker: "ZC=F", Name: "Corn", Category: model.CategoryCommodity, Unit: "USD/bushel"},
		{Ticker: "ZS=F", Name: "Soybeans", Category: model.CategoryCommodity, Unit: "USD/bushel"},
		{Ticker: "^GSPC", Name: "S&P 500", Category: model.CategoryIndex, Unit: ""},
		{Ticker: "EURUSD=X", Name: "EUR/USD", Category: model.CategoryFX, Unit: ""},
	}
}

// Indicators is the static list of scraped figures, in display order.
func Indicators() []model.IndicatorKey {
	return []model.IndicatorKey{
		{Indicator: "Robusta Coffee", Region: "World"},
		{Indicator: "Vanilla", Region: "World"},
		{Indicator: "Dry Beans", Region: "World"},
		{Indicator: "Onions", Region: "World"},
		{Indicator: "Pineapples", Region: "World"},
		{Indicator: "Bananas", Region: "World"},
	}
}
