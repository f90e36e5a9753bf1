package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "DEADNUMBER_"

// Config is the complete server configuration
type Config struct {
	Server   ServerSettings
	Accounts AccountSettings
	Game     GameSettings
	Log      LogSettings
}

// ServerSettings configures the listeners
type ServerSettings struct {
	Host          string
	Port          int
	AdminAddr     string
	OutboxSize    int
	WriteTimeout  time.Duration
	MaxLineLength int
	// AllowedOrigins lists extra browser origins accepted by /ws
	AllowedOrigins []string
}

// AccountSettings configures the account directory and its credential file
type AccountSettings struct {
	// Storage selects the credential store, "file" or "memory"
	Storage    string
	File       string
	BcryptCost int
}

// GameSettings configures rooms and the turn watchdog
type GameSettings struct {
	Capacity    int
	MinPlayers  int
	TurnTimeout time.Duration
}

// LogSettings configures the process logger
type LogSettings struct {
	Level  string
	Format string
}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Host:          "",
			Port:          9000,
			AdminAddr:     ":8080",
			OutboxSize:    256,
			WriteTimeout:  10 * time.Second,
			MaxLineLength: 4096,
		},
		Accounts: AccountSettings{
			Storage:    "file",
			File:       "data/users.txt",
			BcryptCost: bcrypt.DefaultCost,
		},
		Game: GameSettings{
			Capacity:    4,
			MinPlayers:  2,
			TurnTimeout: 15 * time.Second,
		},
		Log: LogSettings{
			Level:  "info",
			Format: "json",
		},
	}
}

// fileConfig mirrors the HCL file layout. Every block and attribute is optional.
type fileConfig struct {
	Server   *fileServer   `hcl:"server,block"`
	Accounts *fileAccounts `hcl:"accounts,block"`
	Game     *fileGame     `hcl:"game,block"`
	Log      *fileLog      `hcl:"log,block"`
}

type fileServer struct {
	Host           *string   `hcl:"host,optional"`
	Port           *int      `hcl:"port,optional"`
	AdminAddr      *string   `hcl:"admin_addr,optional"`
	OutboxSize     *int      `hcl:"outbox_size,optional"`
	WriteTimeout   *string   `hcl:"write_timeout,optional"`
	MaxLineLength  *int      `hcl:"max_line_length,optional"`
	AllowedOrigins *[]string `hcl:"allowed_origins,optional"`
}

type fileAccounts struct {
	Storage    *string `hcl:"storage,optional"`
	File       *string `hcl:"file,optional"`
	BcryptCost *int    `hcl:"bcrypt_cost,optional"`
}

type fileGame struct {
	Capacity    *int    `hcl:"capacity,optional"`
	MinPlayers  *int    `hcl:"min_players,optional"`
	TurnTimeout *string `hcl:"turn_timeout,optional"`
}

type fileLog struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are ignored and existing variables win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load builds the configuration from defaults, then the HCL file at path
// (skipped when path is empty or missing), then DEADNUMBER_* environment
// variables. The result is validated.
func Load(path string) (*Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &fc)
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if s := fc.Server; s != nil {
		setString(&c.Server.Host, s.Host)
		setInt(&c.Server.Port, s.Port)
		setString(&c.Server.AdminAddr, s.AdminAddr)
		setInt(&c.Server.OutboxSize, s.OutboxSize)
		setInt(&c.Server.MaxLineLength, s.MaxLineLength)
		if s.AllowedOrigins != nil {
			c.Server.AllowedOrigins = *s.AllowedOrigins
		}
		if err := setDuration(&c.Server.WriteTimeout, s.WriteTimeout, "server.write_timeout"); err != nil {
			return err
		}
	}
	if a := fc.Accounts; a != nil {
		setString(&c.Accounts.Storage, a.Storage)
		setString(&c.Accounts.File, a.File)
		setInt(&c.Accounts.BcryptCost, a.BcryptCost)
	}
	if g := fc.Game; g != nil {
		setInt(&c.Game.Capacity, g.Capacity)
		setInt(&c.Game.MinPlayers, g.MinPlayers)
		if err := setDuration(&c.Game.TurnTimeout, g.TurnTimeout, "game.turn_timeout"); err != nil {
			return err
		}
	}
	if l := fc.Log; l != nil {
		setString(&c.Log.Level, l.Level)
		setString(&c.Log.Format, l.Format)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"HOST":       &c.Server.Host,
		"ADMIN_ADDR": &c.Server.AdminAddr,
		"STORAGE":    &c.Accounts.Storage,
		"USERS_FILE": &c.Accounts.File,
		"LOG_LEVEL":  &c.Log.Level,
		"LOG_FORMAT": &c.Log.Format,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"PORT":            &c.Server.Port,
		"OUTBOX_SIZE":     &c.Server.OutboxSize,
		"MAX_LINE_LENGTH": &c.Server.MaxLineLength,
		"BCRYPT_COST":     &c.Accounts.BcryptCost,
		"CAPACITY":        &c.Game.Capacity,
		"MIN_PLAYERS":     &c.Game.MinPlayers,
	}
	for key, dst := range ints {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err)
		}
		*dst = n
	}

	if v, ok := lookup(EnvPrefix + "ALLOWED_ORIGINS"); ok {
		c.Server.AllowedOrigins = splitList(v)
	}

	durations := map[string]*time.Duration{
		"WRITE_TIMEOUT": &c.Server.WriteTimeout,
		"TURN_TIMEOUT":  &c.Game.TurnTimeout,
	}
	for key, dst := range durations {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		if err := setDuration(dst, &v, EnvPrefix+key); err != nil {
			return err
		}
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Server.OutboxSize < 1 {
		return fmt.Errorf("outbox_size must be positive, got %d", c.Server.OutboxSize)
	}
	if c.Server.MaxLineLength < 64 {
		return fmt.Errorf("max_line_length must be at least 64, got %d", c.Server.MaxLineLength)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("write_timeout must be positive, got %s", c.Server.WriteTimeout)
	}
	switch c.Accounts.Storage {
	case "memory":
	case "file":
		if c.Accounts.File == "" {
			return errors.New("accounts file must be set for file storage")
		}
	default:
		return fmt.Errorf("unknown account storage %q", c.Accounts.Storage)
	}
	if c.Accounts.BcryptCost < bcrypt.MinCost || c.Accounts.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt_cost must be between %d and %d, got %d",
			bcrypt.MinCost, bcrypt.MaxCost, c.Accounts.BcryptCost)
	}
	if c.Game.MinPlayers < 2 {
		return fmt.Errorf("min_players must be at least 2, got %d", c.Game.MinPlayers)
	}
	if c.Game.Capacity < c.Game.MinPlayers {
		return fmt.Errorf("capacity (%d) must not be below min_players (%d)", c.Game.Capacity, c.Game.MinPlayers)
	}
	if c.Game.TurnTimeout <= 0 {
		return fmt.Errorf("turn_timeout must be positive, got %s", c.Game.TurnTimeout)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// ParseLevel converts a level name into a slog level
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
	return l, nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *string, name string) error {
	if v == nil {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(*v))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = d
	return nil
}
