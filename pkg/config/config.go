package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Drivers de almacenamiento soportados.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Niveles de aislamiento aceptados en DB_ISOLATION.
var isolationLevels = map[string]bool{
	"read committed":  true,
	"repeatable read": true,
	"serializable":    true,
}

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	Store     StoreConfig
	DB        DBConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	Throttle  ThrottleConfig
	Bootstrap BootstrapConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	Timezone string // zona de negocio para fechas de documentos y filtros (IANA)
	LogLevel string
}

// Location carga la zona horaria configurada.
func (c AppConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// StoreConfig selecciona la implementación de persistencia.
type StoreConfig struct {
	Driver string // postgres | memory
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	Isolation   string // read committed | repeatable read | serializable
	TxRetries   int    // reintentos ante conflictos de concurrencia
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ThrottleConfig límite de peticiones por IP. Limit 0 lo desactiva.
type ThrottleConfig struct {
	TTL   int // segundos
	Limit int
}

// Enabled indica si el rate limiting está activo.
func (c ThrottleConfig) Enabled() bool {
	return c.Limit > 0 && c.TTL > 0
}

// BootstrapConfig administrador inicial. Username vacío lo desactiva.
type BootstrapConfig struct {
	Username string
	Password string
	Name     string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, DB_PORT, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "inventario-ledger"),
			Timezone: getString(v, "APP_TIMEZONE", "America/Bogota"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getString(v, "STORE_DRIVER", StorePostgres)),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "inventario"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
			Isolation:   strings.ToLower(getString(v, "DB_ISOLATION", "read committed")),
			TxRetries:   getInt(v, "DB_TX_RETRIES", 3),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "inventario-ledger"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Throttle: ThrottleConfig{
			TTL:   getInt(v, "THROTTLE_TTL", 60),
			Limit: getInt(v, "THROTTLE_LIMIT", 100),
		},
		Bootstrap: BootstrapConfig{
			Username: getString(v, "BOOTSTRAP_ADMIN_USERNAME", ""),
			Password: getString(v, "BOOTSTRAP_ADMIN_PASSWORD", ""),
			Name:     getString(v, "BOOTSTRAP_ADMIN_NAME", "Administrador"),
		},
	}

	return cfg, nil
}

// Validate rechaza combinaciones que impedirían arrancar de forma segura.
func (c *Config) Validate() error {
	var errs []error
	switch c.Store.Driver {
	case StorePostgres, StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER %q no soportado (postgres|memory)", c.Store.Driver))
	}
	if !isolationLevels[c.DB.Isolation] {
		errs = append(errs, fmt.Errorf("DB_ISOLATION %q no soportado", c.DB.Isolation))
	}
	if c.DB.TxRetries < 0 {
		errs = append(errs, errors.New("DB_TX_RETRIES no puede ser negativo"))
	}
	if _, err := c.App.Location(); err != nil {
		errs = append(errs, fmt.Errorf("APP_TIMEZONE %q: %w", c.App.Timezone, err))
	}
	if c.JWT.Secret == "" && c.App.Env == "production" {
		errs = append(errs, errors.New("JWT_SECRET es obligatorio en production"))
	}
	if c.Bootstrap.Username != "" && len(c.Bootstrap.Password) < 8 {
		errs = append(errs, errors.New("BOOTSTRAP_ADMIN_PASSWORD debe tener al menos 8 caracteres"))
	}
	return errors.Join(errs...)
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
