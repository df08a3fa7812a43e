package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fruitcast/dashboard/charts"
	"github.com/fruitcast/dashboard/consts"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DataFolder string `yaml:"-"`
	APIKey     string `yaml:"-"`

	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Dashboard struct {
		DefaultTab string   `yaml:"defaultTab"`
		Width      string   `yaml:"width"`
		Height     string   `yaml:"height"`
		Palette    []string `yaml:"palette"`
	} `yaml:"dashboard"`
}

// Load reads the optional YAML file named by DASHBOARD_CONFIG and applies the
// environment on top of it.
func Load() (Config, error) {
	var cfg Config
	if path := os.Getenv("DASHBOARD_CONFIG"); path != "" {
		var err error
		cfg, err = loadFile(path)
		if err != nil {
			return cfg, err
		}
	}

	cfg.DataFolder = os.Getenv("DATA_FOLDER")
	cfg.APIKey = os.Getenv("API_KEY")
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = consts.DefaultPort
	}
	if cfg.Dashboard.DefaultTab == "" {
		cfg.Dashboard.DefaultTab = consts.DefaultTab
	}
	return cfg, nil
}

func loadFile(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.Dashboard.DefaultTab = strings.ToLower(strings.TrimSpace(cfg.Dashboard.DefaultTab))
	return cfg, nil
}

// ChartDataDir is where exported chart files are written and served from.
func (c Config) ChartDataDir() string {
	return filepath.Join(c.DataFolder, consts.ChartDataDir)
}

// DatabasePath is the SQLite file inside the data folder.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataFolder, consts.DatabaseFile)
}

// Style returns the chart style, falling back to the defaults for unset fields.
func (c Config) Style() charts.Style {
	s := charts.DefaultStyle()
	if c.Dashboard.Width != "" {
		s.Width = c.Dashboard.Width
	}
	if c.Dashboard.Height != "" {
		s.Height = c.Dashboard.Height
	}
	if len(c.Dashboard.Palette) > 0 {
		s.Palette = c.Dashboard.Palette
	}
	return s
}

func (c Config) DashboardOptions() charts.Options {
	return charts.Options{
		BasePath:   "/dashboard",
		DefaultTab: c.Dashboard.DefaultTab,
		Style:      c.Style(),
	}
}
