package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

var (
	cfgFile   = "junglequest/config.json"
	envPrefix = "JUNGLE"
)

// Storage backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

// Colors are indexes into the 256-color terminal palette.
type ConfigColors struct {
	LandColor       int `json:"land" mapstructure:"land"`
	WaterColor      int `json:"water" mapstructure:"water"`
	TrapColor       int `json:"trap" mapstructure:"trap"`
	DenColor        int `json:"den" mapstructure:"den"`
	Player1Color    int `json:"player1" mapstructure:"player1"`
	Player2Color    int `json:"player2" mapstructure:"player2"`
	CursorColorFG   int `json:"cursor_fg" mapstructure:"cursor_fg"`
	CursorColorBG   int `json:"cursor_bg" mapstructure:"cursor_bg"`
	LastMoveColorBG int `json:"last_move_bg" mapstructure:"last_move_bg"`
}

type ConfigSymbols struct {
	Water rune `json:"water" mapstructure:"water"`
	Trap  rune `json:"trap" mapstructure:"trap"`
	Den   rune `json:"den" mapstructure:"den"`
}

type Theme struct {
	DrawCursorBackground   bool          `json:"draw_cursor_bg" mapstructure:"draw_cursor_bg"`
	DrawLastMoveBackground bool          `json:"draw_last_move_bg" mapstructure:"draw_last_move_bg"`
	Colors                 ConfigColors  `json:"colors" mapstructure:"colors"`
	Symbols                ConfigSymbols `json:"symbols" mapstructure:"symbols"`
}

// RulesConfig holds per-session rule settings.
type RulesConfig struct {
	MaxUndos int `json:"max_undos" mapstructure:"max_undos"`
}

// StorageConfig selects where saves and records are kept.
type StorageConfig struct {
	Backend       string `json:"backend" mapstructure:"backend"`
	Dir           string `json:"dir" mapstructure:"dir"`
	RedisURL      string `json:"redis_url" mapstructure:"redis_url"`
	MongoURI      string `json:"mongo_uri" mapstructure:"mongo_uri"`
	MongoDatabase string `json:"mongo_database" mapstructure:"mongo_database"`
}

// RecordConfig controls live recording of games.
type RecordConfig struct {
	Auto bool   `json:"auto" mapstructure:"auto"`
	Dir  string `json:"dir" mapstructure:"dir"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `json:"level" mapstructure:"level"`
	File  string `json:"file" mapstructure:"file"`
}

type Config struct {
	Theme   Theme         `json:"theme" mapstructure:"theme"`
	Rules   RulesConfig   `json:"rules" mapstructure:"rules"`
	Storage StorageConfig `json:"storage" mapstructure:"storage"`
	Record  RecordConfig  `json:"record" mapstructure:"record"`
	Log     LogConfig     `json:"log" mapstructure:"log"`
}

// InitConfig loads the user's config file if there is one.
func InitConfig() (*Config, error) {
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err != nil {
		absPath = ""
	}
	return Load(absPath)
}

// Load layers the defaults, the JSON file at path (if path is not empty), and
// JUNGLE_* environment variables, e.g. JUNGLE_STORAGE_BACKEND=redis.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("json")

	defaults, err := json.Marshal(DefaultConfig)
	if err != nil {
		return nil, err
	}
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
			return nil, &InvalidConfig{fmt.Sprintf("%s: %v", path, err)}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, &InvalidConfig{err.Error()}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	for _, r := range []rune{c.Theme.Symbols.Water, c.Theme.Symbols.Trap, c.Theme.Symbols.Den} {
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	colors := c.Theme.Colors
	for _, col := range []int{colors.LandColor, colors.WaterColor, colors.TrapColor, colors.DenColor,
		colors.Player1Color, colors.Player2Color, colors.CursorColorFG, colors.CursorColorBG, colors.LastMoveColorBG} {
		if col < 0 || col > 255 {
			return &InvalidConfig{fmt.Sprintf("color %d is outside the 256-color palette", col)}
		}
	}
	if c.Rules.MaxUndos < 0 {
		return &InvalidConfig{"rules.max_undos must not be negative"}
	}
	switch c.Storage.Backend {
	case BackendFile:
	case BackendRedis:
		if c.Storage.RedisURL == "" {
			return &InvalidConfig{"storage.redis_url is required for the redis backend"}
		}
	case BackendMongo:
		if c.Storage.MongoURI == "" {
			return &InvalidConfig{"storage.mongo_uri is required for the mongo backend"}
		}
	default:
		return &InvalidConfig{fmt.Sprintf("unknown storage backend %q", c.Storage.Backend)}
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return &InvalidConfig{fmt.Sprintf("unknown log level %q", c.Log.Level)}
	}
	return nil
}

// Save writes the config to the user's config directory.
func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return err
	}
	return c.SaveTo(absPath)
}

// SaveTo writes the config as indented JSON to path.
func (c *Config) SaveTo(path string) error {
	jsonData, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, jsonData, 0664)
}
