package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings" // strings splits list-valued variables
	"time"    // time parses duration-valued variables
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations
// and counts.
type Config struct {
	Env                 string   // application environment (e.g. "dev", "prod")
	Port                string   // HTTP port to listen on
	DBUser              string   // database username
	DBPass              string   // database password (optional)
	DBHost              string   // database host address
	DBPort              string   // database port number
	DBName              string   // database name
	JWTSecret           string   // secret used to sign access tokens
	RefreshSecret       string   // secret used to sign refresh tokens; falls back to JWTSecret
	AccessTTLMin        int      // access token time-to-live in minutes
	RefreshTTLDays      int      // refresh token time-to-live in days
	AdminTokenTTLDays   int      // lifetime of tokens issued by the admin login
	BcryptCost          int      // bcrypt cost for password hashing
	ChapterPreviewLimit int      // max questions shown to unauthenticated callers
	AdminEmails         []string // emails granted the admin role at registration
	AllowedOrigins      []string // CORS origins; empty means allow any
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Token lifetimes,
// the preview limit and the admin list have defaults so a dev environment
// only needs the database and secret variables.
func Load() Config {
	return Config{
		Env:                 getenv("APP_ENV", "dev"),
		Port:                getenv("APP_PORT", "5000"),
		DBUser:              must("DB_USER"),
		DBPass:              os.Getenv("DB_PASS"), // empty allowed
		DBHost:              must("DB_HOST"),
		DBPort:              must("DB_PORT"),
		DBName:              must("DB_NAME"),
		JWTSecret:           must("JWT_SECRET"),
		RefreshSecret:       os.Getenv("REFRESH_TOKEN_SECRET"), // optional dedicated secret
		AccessTTLMin:        intDefault("ACCESS_TOKEN_TTL_MIN", 15),
		RefreshTTLDays:      intDefault("REFRESH_TOKEN_TTL_DAYS", 7),
		AdminTokenTTLDays:   intDefault("ADMIN_TOKEN_TTL_DAYS", 30),
		BcryptCost:          intDefault("BCRYPT_COST", 10),
		ChapterPreviewLimit: intDefault("CHAPTER_PREVIEW_LIMIT", 6),
		AdminEmails:         splitList(os.Getenv("ADMIN_EMAILS")),
		AllowedOrigins:      splitList(os.Getenv("ALLOWED_ORIGINS")),
	}
}

// RefreshSigningSecret returns the secret used to sign and verify refresh
// tokens.  A dedicated secret may be configured; otherwise the access token
// secret is reused.
func (c Config) RefreshSigningSecret() string {
	if c.RefreshSecret != "" {
		return c.RefreshSecret
	}
	return c.JWTSecret
}

// IsAdminEmail reports whether the given normalized email is in the
// configured admin bootstrap list.
func (c Config) IsAdminEmail(email string) bool {
	for _, a := range c.AdminEmails {
		if a == email {
			return true
		}
	}
	return false
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// getenv returns the value of an optional environment variable, or def
// when it is unset or empty.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// durDefault converts an optional environment variable into a duration,
// returning def when the variable is unset or malformed.
func durDefault(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

// intDefault converts an optional environment variable into an integer,
// returning def when the variable is unset.  A malformed value is fatal.
func intDefault(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// splitList parses a comma-separated, lower-cased list value.  Empty
// entries are dropped.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
