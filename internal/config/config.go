package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	ProviderLocal  = "local"
	ProviderHosted = "hosted"
)

type ServerConfig struct {
	Port           int    `mapstructure:"port"`
	AppName        string `mapstructure:"app_name"`
	AllowedOrigins string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Provider string `mapstructure:"provider"` // local | hosted
	Path     string `mapstructure:"path"`     // sqlite file for the local provider
	URL      string `mapstructure:"url"`      // full DSN for the hosted provider
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`
	LogMode  bool   `mapstructure:"log_mode"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	Issuer      string `mapstructure:"issuer"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

// AuthConfig controls sign-up and the first-run bootstrap login.
type AuthConfig struct {
	AllowSignup       bool   `mapstructure:"allow_signup"`
	SignupRole        string `mapstructure:"signup_role"`
	BootstrapEnabled  bool   `mapstructure:"bootstrap_enabled"`
	BootstrapEmail    string `mapstructure:"bootstrap_email"`
	BootstrapPassword string `mapstructure:"bootstrap_password"`
	AdminUsername     string `mapstructure:"admin_username"`
	AdminEmail        string `mapstructure:"admin_email"`
	AdminPassword     string `mapstructure:"admin_password"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CondoConfig struct {
	ApartmentCount int `mapstructure:"apartment_count"`
}

type InventoryConfig struct {
	LowStockThreshold int `mapstructure:"low_stock_threshold"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Security  SecurityConfig  `mapstructure:"security"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
	Condo     CondoConfig     `mapstructure:"condo"`
	Inventory InventoryConfig `mapstructure:"inventory"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.app_name", "Estoque Condo API")
	v.SetDefault("server.allowed_origins", "*")

	v.SetDefault("database.provider", ProviderLocal)
	v.SetDefault("database.path", "data/estoque.db")
	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "estoque")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "America/Sao_Paulo")
	v.SetDefault("database.log_mode", false)

	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "go-estoque-condo")
	v.SetDefault("jwt.expire_hours", 24)

	v.SetDefault("security.bcrypt_cost", 10)

	v.SetDefault("auth.allow_signup", true)
	v.SetDefault("auth.signup_role", "OPERATOR")
	v.SetDefault("auth.bootstrap_enabled", false)
	v.SetDefault("auth.bootstrap_email", "admin@condo.com")
	v.SetDefault("auth.bootstrap_password", "admin")
	v.SetDefault("auth.admin_username", "admin")
	v.SetDefault("auth.admin_email", "admin@condo.com")
	v.SetDefault("auth.admin_password", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("condo.apartment_count", 24)
	v.SetDefault("inventory.low_stock_threshold", 10)
}

// Load reads configuration from defaults, an optional YAML file at path and
// ESTOQUE_* environment variables, in increasing order of precedence.
// ESTOQUE_DATABASE_PROVIDER overrides database.provider, and so on.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("ESTOQUE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	switch c.Database.Provider {
	case ProviderLocal:
		if c.Database.Path == "" {
			return errors.New("config: database.path is required for the local provider")
		}
	case ProviderHosted:
		if c.Database.URL == "" && c.Database.Host == "" {
			return errors.New("config: database.url or database.host is required for the hosted provider")
		}
	default:
		return fmt.Errorf("config: unknown database.provider %q", c.Database.Provider)
	}
	if c.Condo.ApartmentCount <= 0 {
		return errors.New("config: condo.apartment_count must be positive")
	}
	if c.JWT.Secret == "" {
		return errors.New("config: jwt.secret is required")
	}
	if c.JWT.ExpireHours <= 0 {
		return errors.New("config: jwt.expire_hours must be positive")
	}
	return nil
}

// PostgresDSN builds a libpq style DSN unless a URL was given.
func (d DatabaseConfig) PostgresDSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.TimeZone,
	)
}

// Roster returns the apartment numbers 1..ApartmentCount.
func (c CondoConfig) Roster() []int {
	roster := make([]int, c.ApartmentCount)
	for i := range roster {
		roster[i] = i + 1
	}
	return roster
}
