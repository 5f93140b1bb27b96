package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // APP_TIMEZONE debe resolverse también en imágenes sin zoneinfo

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/agenda-api/pkg/jwt"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	DB       DBConfig
	Supabase SupabaseConfig
	HTTP     HTTPConfig
	Docs     DocsConfig
	Agenda   AgendaConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
	Timezone string // zona para fechas de visita sin zona horaria
}

// Location resuelve Timezone; UTC si está vacío.
func (c AppConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

// DBConfig configuración de PostgreSQL. DatabaseURL es el connection string completo
// (ej. DATABASE_URL de Supabase).
type DBConfig struct {
	DatabaseURL    string
	MaxConns       int32
	SimpleProtocol bool // necesario detrás de poolers en modo transacción
}

// SupabaseConfig credenciales del almacén gestionado.
type SupabaseConfig struct {
	URL string
	Key string // service_role key (JWT)
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	CORSOrigins string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DocsConfig configuración de la UI de Swagger.
type DocsConfig struct {
	FilePath string
}

// AgendaConfig configuración del cliente de terminal (cmd/agenda).
type AgendaConfig struct {
	APIBaseURL string
}

// ValidationError lista las variables faltantes o mal formadas.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "configuración inválida: " + strings.Join(e.Problems, "; ")
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. No valida; ver Validate.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo .env o config.env
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	port := getInt(v, "HTTP_PORT", 3001)
	// PORT (Render, Heroku) tiene prioridad sobre HTTP_PORT.
	if v.IsSet("PORT") {
		port = getInt(v, "PORT", port)
	}

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "agenda-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
			Timezone: getString(v, "APP_TIMEZONE", "UTC"),
		},
		DB: DBConfig{
			DatabaseURL:    getString(v, "DATABASE_URL", ""),
			MaxConns:       int32(getInt(v, "DB_MAX_CONNS", 10)),
			SimpleProtocol: getBool(v, "DB_SIMPLE_PROTOCOL", false),
		},
		Supabase: SupabaseConfig{
			URL: getString(v, "SUPABASE_URL", ""),
			Key: getString(v, "SUPABASE_KEY", ""),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        port,
			CORSOrigins: getString(v, "CORS_ORIGINS", "*"),
		},
		Docs: DocsConfig{
			FilePath: getString(v, "DOCS_PATH", "./docs/swagger.json"),
		},
		Agenda: AgendaConfig{
			APIBaseURL: getString(v, "AGENDA_API_URL", "http://localhost:3001/api"),
		},
	}
	return cfg, nil
}

// Validate comprueba las credenciales obligatorias. Devuelve *ValidationError con todos los problemas.
func (c *Config) Validate() error {
	var problems []string

	if c.DB.DatabaseURL == "" {
		problems = append(problems, "DATABASE_URL no definida")
	} else if _, err := pgxpool.ParseConfig(c.DB.DatabaseURL); err != nil {
		problems = append(problems, "DATABASE_URL mal formada")
	}

	if c.Supabase.URL == "" {
		problems = append(problems, "SUPABASE_URL no definida")
	} else if u, err := url.Parse(c.Supabase.URL); err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
		problems = append(problems, "SUPABASE_URL debe ser una URL http(s) absoluta")
	}

	if c.Supabase.Key == "" {
		problems = append(problems, "SUPABASE_KEY no definida")
	} else if _, err := jwt.InspectServiceKey(c.Supabase.Key); err != nil {
		problems = append(problems, "SUPABASE_KEY inválida: debe ser un JWT con tres partes separadas por puntos")
	}

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		problems = append(problems, "PORT fuera de rango")
	}
	if _, err := c.App.Location(); err != nil {
		problems = append(problems, "APP_TIMEZONE desconocida")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
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

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
