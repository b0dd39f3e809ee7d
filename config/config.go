package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"casinobot/database"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Ledger backends
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

// Admission backends
const (
	AdmissionMemory = "memory"
	AdmissionRedis  = "redis"
)

// GameLimits caps concurrent sessions for a single game kind
type GameLimits struct {
	PerUser int
	Global  int
}

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string
	DiscordGuildID string
	HouseAccountID int64   // Falls back to the bot user when zero
	OwnerIDs       []int64 // Accounts allowed to set and give balances

	// Database configuration
	DatabaseURL   string
	DatabaseName  string
	LedgerBackend string
	SQLitePath    string

	// Economy
	StartingBalance decimal.Decimal

	// Admission control
	AdmissionBackend  string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	CupsLimits        GameLimits
	SlotsLimits       GameLimits
	ConnectFourLimits GameLimits

	// Game timeouts
	CupsTimeout             time.Duration
	SlotsTimeout            time.Duration
	ConnectFourLobbyTimeout time.Duration
	ConnectFourTurnTimeout  time.Duration

	// Archive
	ElasticsearchAddresses []string
	ElasticsearchUsername  string
	ElasticsearchPassword  string
	ElasticsearchIndex     string

	// Stocks
	StockPrices          map[string]decimal.Decimal
	StockPriceMultiplier decimal.Decimal
	StockSellFee         decimal.Decimal

	// Environment
	Environment string // "development", "production" or "test"
	LogLevel    string
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL returns the database URL including the database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// IsOwner reports whether the account may run administrative commands
func (c *Config) IsOwner(discordID int64) bool {
	for _, id := range c.OwnerIDs {
		if id == discordID {
			return true
		}
	}
	return false
}

// load loads configuration from environment variables
func load() (*Config, error) {
	// A missing .env file is normal outside local development
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Failed to load .env file")
	}

	config := &Config{
		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID: os.Getenv("DISCORD_GUILD_ID"),

		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DatabaseName:  os.Getenv("DATABASE_NAME"),
		LedgerBackend: getEnvWithDefault("LEDGER_BACKEND", BackendPostgres),
		SQLitePath:    getEnvWithDefault("SQLITE_PATH", "casinobot.db"),

		StartingBalance: decimal.NewFromInt(500),

		AdmissionBackend:  getEnvWithDefault("ADMISSION_BACKEND", AdmissionMemory),
		RedisAddr:         getEnvWithDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		CupsLimits:        GameLimits{PerUser: 1, Global: 5},
		SlotsLimits:       GameLimits{PerUser: 1, Global: 2},
		ConnectFourLimits: GameLimits{PerUser: 1, Global: 4},

		CupsTimeout:             60 * time.Second,
		SlotsTimeout:            60 * time.Second,
		ConnectFourLobbyTimeout: 60 * time.Second,
		ConnectFourTurnTimeout:  90 * time.Second,

		ElasticsearchUsername: os.Getenv("ELASTICSEARCH_USERNAME"),
		ElasticsearchPassword: os.Getenv("ELASTICSEARCH_PASSWORD"),
		ElasticsearchIndex:    getEnvWithDefault("ELASTICSEARCH_INDEX", "game-results"),

		StockPrices:          map[string]decimal.Decimal{},
		StockPriceMultiplier: decimal.NewFromInt(100),
		StockSellFee:         decimal.RequireFromString("0.04"),

		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
	}

	if balance := os.Getenv("STARTING_BALANCE"); balance != "" {
		parsed, err := decimal.NewFromString(balance)
		if err != nil {
			return nil, fmt.Errorf("invalid STARTING_BALANCE %q: %w", balance, err)
		}
		config.StartingBalance = parsed
	}
	if house := os.Getenv("HOUSE_ACCOUNT_ID"); house != "" {
		parsed, err := strconv.ParseInt(house, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid HOUSE_ACCOUNT_ID %q: %w", house, err)
		}
		config.HouseAccountID = parsed
	}
	if db := os.Getenv("REDIS_DB"); db != "" {
		if parsed, err := strconv.Atoi(db); err == nil {
			config.RedisDB = parsed
		}
	}
	if multiplier := os.Getenv("STOCK_PRICE_MULTIPLIER"); multiplier != "" {
		if parsed, err := decimal.NewFromString(multiplier); err == nil {
			config.StockPriceMultiplier = parsed
		}
	}

	if fee := os.Getenv("STOCK_SELL_FEE"); fee != "" {
		if parsed, err := decimal.NewFromString(fee); err == nil {
			config.StockSellFee = parsed
		}
	}

	config.OwnerIDs = parseIDList(os.Getenv("OWNER_IDS"))
	config.ElasticsearchAddresses = splitList(os.Getenv("ELASTICSEARCH_ADDRESSES"))

	prices, err := parseStockPrices(os.Getenv("STOCK_PRICES"))
	if err != nil {
		return nil, err
	}
	config.StockPrices = prices

	config.CupsTimeout = getDurationWithDefault("CUPS_TIMEOUT", config.CupsTimeout)
	config.SlotsTimeout = getDurationWithDefault("SLOTS_TIMEOUT", config.SlotsTimeout)
	config.ConnectFourLobbyTimeout = getDurationWithDefault("CONNECT4_LOBBY_TIMEOUT", config.ConnectFourLobbyTimeout)
	config.ConnectFourTurnTimeout = getDurationWithDefault("CONNECT4_TURN_TIMEOUT", config.ConnectFourTurnTimeout)

	if config.Environment != "test" {
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.LedgerBackend == BackendPostgres && config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	switch config.LedgerBackend {
	case BackendPostgres, BackendSQLite, BackendMemory:
	default:
		return nil, fmt.Errorf("unknown LEDGER_BACKEND %q", config.LedgerBackend)
	}

	return config, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.WithFields(log.Fields{"key": key, "value": value}).Warn("Ignoring invalid duration")
		return defaultValue
	}
	return parsed
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseIDList(value string) []int64 {
	var ids []int64
	for _, part := range splitList(value) {
		if id, err := strconv.ParseInt(part, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// parseStockPrices reads "AAPL=190.5,MSFT=410" into a price table
func parseStockPrices(value string) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal)
	for _, pair := range splitList(value) {
		symbol, price, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid STOCK_PRICES entry %q", pair)
		}
		parsed, err := decimal.NewFromString(strings.TrimSpace(price))
		if err != nil {
			return nil, fmt.Errorf("invalid price for %s: %w", symbol, err)
		}
		prices[strings.ToUpper(strings.TrimSpace(symbol))] = parsed
	}
	return prices, nil
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig clears the global config so the next Get reloads it
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:             "test",
		DiscordToken:            "test-token",
		LedgerBackend:           BackendMemory,
		AdmissionBackend:        AdmissionMemory,
		HouseAccountID:          1,
		OwnerIDs:                []int64{999999},
		StartingBalance:         decimal.NewFromInt(500),
		CupsLimits:              GameLimits{PerUser: 1, Global: 5},
		SlotsLimits:             GameLimits{PerUser: 1, Global: 2},
		ConnectFourLimits:       GameLimits{PerUser: 1, Global: 4},
		CupsTimeout:             60 * time.Second,
		SlotsTimeout:            60 * time.Second,
		ConnectFourLobbyTimeout: 60 * time.Second,
		ConnectFourTurnTimeout:  90 * time.Second,
		StockPrices:             map[string]decimal.Decimal{},
		StockPriceMultiplier:    decimal.NewFromInt(100),
		StockSellFee:            decimal.Zero,
		ElasticsearchIndex:      "game-results",
		LogLevel:                "debug",
	}
}
