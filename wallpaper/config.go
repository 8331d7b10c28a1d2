package wallpaper

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"

	"windwall/logger"
)

// Source types.
const (
	SourceFile = "file"
	SourceHTTP = "http"
)

// Environment overrides, read after the optional .env next to the config.
const (
	EnvImagePath = "WINDWALL_IMAGE_PATH"
	EnvStyle     = "WINDWALL_STYLE"
	EnvSourceURL = "WINDWALL_SOURCE_URL"
	EnvInterval  = "WINDWALL_INTERVAL"
)

// Config is everything the updater and scheduler need. Paths are absolute.
type Config struct {
	Path string
	Dir  string

	ImagePath     string
	Style         Style
	ConvertBMP    bool
	BMPPath       string
	ShellFallback bool
	ShellTimeout  time.Duration

	SourceType    string
	SourceURL     string
	SourceTimeout time.Duration

	Interval time.Duration
	Watch    bool

	LogFile       string
	Verbose       bool
	LogMaxSizeMB  int
	LogMaxBackups int

	StatusPath string
}

// DefaultConfigPath is config.ini next to the executable.
func DefaultConfigPath() string {
	exe, err := os.Executable()
	if err != nil {
		return "config.ini"
	}
	return filepath.Join(filepath.Dir(exe), "config.ini")
}

// LoadConfig reads path. A missing file is created with the defaults.
func LoadConfig(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	_, statErr := os.Stat(abs)
	missing := errors.Is(statErr, fs.ErrNotExist)

	file, err := ini.LooseLoad(abs)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", abs, err)
	}

	c := &Config{Path: abs, Dir: filepath.Dir(abs)}
	if err := c.parse(file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", abs, err)
	}

	if missing {
		logger.Printf("[info config] %s not found, writing defaults", abs)
		if err := c.Save(); err != nil {
			logger.Printf("[err config] save defaults: %v", err)
		}
	}

	if err := godotenv.Load(filepath.Join(c.Dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Printf("[err config] .env: %v", err)
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) parse(file *ini.File) error {
	w := file.Section("wallpaper")
	c.ImagePath = c.resolve(w.Key("imagePath").MustString("wind_wallpaper.png"))
	style, err := ParseStyle(w.Key("style").String())
	if err != nil {
		return err
	}
	c.Style = style
	c.ConvertBMP = w.Key("convertBMP").MustBool(true)
	c.BMPPath = w.Key("bmpPath").String()
	if c.BMPPath != "" {
		c.BMPPath = c.resolve(c.BMPPath)
	}
	c.ShellFallback = w.Key("shellFallback").MustBool(true)
	if c.ShellTimeout, err = duration(w.Key("shellTimeout"), 30*time.Second); err != nil {
		return err
	}

	s := file.Section("source")
	switch t := strings.ToLower(strings.TrimSpace(s.Key("type").String())); t {
	case "":
		c.SourceType = SourceFile
	case SourceFile, SourceHTTP:
		c.SourceType = t
	default:
		return fmt.Errorf("unknown source type %q (want %s or %s)", t, SourceFile, SourceHTTP)
	}
	c.SourceURL = s.Key("url").String()
	if c.SourceTimeout, err = duration(s.Key("timeout"), time.Minute); err != nil {
		return err
	}

	sch := file.Section("schedule")
	if c.Interval, err = duration(sch.Key("interval"), 30*time.Minute); err != nil {
		return err
	}
	c.Watch = sch.Key("watch").MustBool(false)

	l := file.Section("log")
	c.LogFile = c.resolve(l.Key("file").MustString("windwall.log"))
	c.Verbose = l.Key("verbose").MustBool(false)
	c.LogMaxSizeMB = l.Key("maxSizeMB").RangeInt(10, 1, 1024)
	c.LogMaxBackups = l.Key("maxBackups").RangeInt(2, 0, 100)

	c.StatusPath = c.resolve(file.Section("status").Key("path").MustString("status.json"))
	return nil
}

// duration reads k, or def when k is empty. A value that does not parse is
// an error rather than a silent default.
func duration(k *ini.Key, def time.Duration) (time.Duration, error) {
	if strings.TrimSpace(k.String()) == "" {
		return def, nil
	}
	d, err := k.Duration()
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", k.Name(), k.String())
	}
	return d, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvImagePath); v != "" {
		c.ImagePath = c.resolve(v)
	}
	if v := os.Getenv(EnvStyle); v != "" {
		style, err := ParseStyle(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvStyle, err)
		}
		c.Style = style
	}
	if v := os.Getenv(EnvSourceURL); v != "" {
		c.SetSourceURL(v)
	}
	if v := os.Getenv(EnvInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvInterval, err)
		}
		c.Interval = d
	}
	return nil
}

// SetSourceURL switches the source to downloading url.
func (c *Config) SetSourceURL(url string) {
	c.SourceURL = url
	c.SourceType = SourceHTTP
}

// Validate reports settings that cannot work together. Call it again after
// changing a loaded config.
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("schedule interval must be positive, got %s", c.Interval)
	}
	if c.SourceType == SourceHTTP && c.SourceURL == "" {
		return errors.New("source type http needs a url")
	}
	return nil
}

// resolve makes p absolute relative to the config directory.
func (c *Config) resolve(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// BMPTarget is where the BMP copy of src goes, or "" when conversion is off.
// bmpPath only applies to the configured image.
func (c *Config) BMPTarget(src string) string {
	if !c.ConvertBMP {
		return ""
	}
	if c.BMPPath != "" && src == c.ImagePath {
		return c.BMPPath
	}
	return strings.TrimSuffix(src, filepath.Ext(src)) + ".bmp"
}

// Mechanisms returns the mechanism options the config selects.
func (c *Config) Mechanisms() MechanismOptions {
	return MechanismOptions{ShellFallback: c.ShellFallback, ShellTimeout: c.ShellTimeout}
}

// Logger returns the logger options the config selects.
func (c *Config) Logger() logger.Options {
	return logger.Options{
		File:       c.LogFile,
		Verbose:    c.Verbose,
		MaxSizeMB:  c.LogMaxSizeMB,
		MaxBackups: c.LogMaxBackups,
	}
}

// Save writes c back to c.Path.
func (c *Config) Save() error {
	file := ini.Empty()
	w := file.Section("wallpaper")
	w.Key("imagePath").SetValue(c.ImagePath)
	w.Key("style").SetValue(string(c.Style))
	w.Key("convertBMP").SetValue(fmt.Sprint(c.ConvertBMP))
	w.Key("bmpPath").SetValue(c.BMPPath)
	w.Key("shellFallback").SetValue(fmt.Sprint(c.ShellFallback))
	w.Key("shellTimeout").SetValue(c.ShellTimeout.String())

	s := file.Section("source")
	s.Key("type").SetValue(c.SourceType)
	s.Key("url").SetValue(c.SourceURL)
	s.Key("timeout").SetValue(c.SourceTimeout.String())

	sch := file.Section("schedule")
	sch.Key("interval").SetValue(c.Interval.String())
	sch.Key("watch").SetValue(fmt.Sprint(c.Watch))

	l := file.Section("log")
	l.Key("file").SetValue(c.LogFile)
	l.Key("verbose").SetValue(fmt.Sprint(c.Verbose))
	l.Key("maxSizeMB").SetValue(fmt.Sprint(c.LogMaxSizeMB))
	l.Key("maxBackups").SetValue(fmt.Sprint(c.LogMaxBackups))

	file.Section("status").Key("path").SetValue(c.StatusPath)

	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return err
	}
	return file.SaveTo(c.Path)
}
