package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jinzhu/configor"
	"github.com/joho/godotenv"
)

type Config struct {
	AppConfig   AppConfig   `env:"APPCONFIG"`
	IRCConfig   IRCConfig   `env:"IRCCONFIG"`
	DBConfig    DBConfig    `env:"DBCONFIG"`
	StatsConfig StatsConfig `env:"STATSCONFIG"`
}

type AppConfig struct {
	APPName           string `default:"statbot"`
	Version           string `default:"x.x.x" env:"VERSION"`
	Port              int    `default:"8080" env:"APP_PORT"`
	LogLevel          string `default:"info" env:"LOG_LEVEL"`
	CorsOriginsString string `default:"http://localhost:3000" env:"CORS_ORIGINS"`
	CorsOrigins       []string
	// AdminToken guards the HTTP admin routes; empty disables them.
	AdminToken string `env:"ADMIN_TOKEN" default:""`
}

type IRCConfig struct {
	Host              string `env:"HOST"`
	Port              int    `env:"PORT"`
	SSL               bool   `env:"SSL"`
	Nick              string `env:"NICK"`
	ChannelsString    string `env:"CHANNELS"`
	Channels          []string
	Network           string `env:"NETWORK"`
	NickservCommand   string `env:"NICKSERV_COMMAND" default:"PRIVMSG NickServ IDENTIFY %s"`
	NickservPassword  string `env:"NICKSERV_PASSWORD" default:""`
	AdminsString      string `env:"ADMINS" default:""`
	Admins            []string
	IgnoreNicksString string `env:"IGNORE_NICKS" default:""`
	IgnoreNicks       []string
}

type DBConfig struct {
	Host     string `default:"localhost" env:"DBHOST"`
	DataBase string `default:"statbot" env:"DBNAME"`
	User     string `default:"postgres" env:"DBUSERNAME"`
	Password string `required:"true" env:"DBPASSWORD" default:"mysecretpassword"`
	Port     uint   `default:"5432" env:"DBPORT"`
	SSLMode  string `default:"disable" env:"DBSSL"`
	LogLevel string `default:"silent" env:"DBLOGLEVEL"`
}

// StatsConfig tunes ingestion and the global XP cache sync.
type StatsConfig struct {
	CooldownSeconds      int  `default:"3" env:"XP_COOLDOWN_SECONDS"`
	XPPerMessage         int  `default:"1" env:"XP_PER_MESSAGE"`
	SyncIntervalMinutes  int  `default:"5" env:"XP_SYNC_INTERVAL_MINUTES"`
	SyncMinDelaySeconds  int  `default:"5" env:"XP_SYNC_MIN_DELAY_SECONDS"`
	AtomicUpsert         bool `default:"true" env:"XP_ATOMIC_UPSERT"`
	PruneIntervalSeconds int  `default:"60" env:"XP_GATE_PRUNE_SECONDS"`
}

func (c StatsConfig) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds) * time.Second
}

func (c StatsConfig) SyncInterval() time.Duration {
	return time.Duration(c.SyncIntervalMinutes) * time.Minute
}

func (c StatsConfig) SyncMinDelay() time.Duration {
	return time.Duration(c.SyncMinDelaySeconds) * time.Second
}

func (c StatsConfig) PruneInterval() time.Duration {
	return time.Duration(c.PruneIntervalSeconds) * time.Second
}

// DSN is the gorm/pgx connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.Host, c.User, c.Password, c.DataBase, c.Port, c.SSLMode)
}

// URL is the connection string in the form golang-migrate expects.
func (c DBConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DataBase,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

func LoadConfigOrPanic() Config {
	// .env is optional, real environment wins
	_ = godotenv.Load()

	var config = Config{}
	if err := configor.Load(&config, "config/config.dev.json"); err != nil {
		panic(err)
	}

	config.IRCConfig.Channels = splitList(config.IRCConfig.ChannelsString)
	config.IRCConfig.Admins = lowerAll(splitList(config.IRCConfig.AdminsString))
	config.IRCConfig.IgnoreNicks = lowerAll(splitList(config.IRCConfig.IgnoreNicksString))
	config.AppConfig.CorsOrigins = splitList(config.AppConfig.CorsOriginsString)

	return config
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func lowerAll(in []string) []string {
	for i := range in {
		in[i] = strings.ToLower(in[i])
	}
	return in
}
