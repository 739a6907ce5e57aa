// Package config implements the process-wide settings object: CLI flags
// layered over an optional settings file, backed by viper.
package config

import (
	"github.com/spf13/viper"

	"github.com/sarat-asymmetrica/saxscore/internal/intensity"
)

// Settings holds every process-wide tunable: thread count, output
// directory, log file path, and the active excluded-volume model. Constructed once at process start and passed
// down explicitly rather than read from a package-level global, so tests
// never fight over shared state.
type Settings struct {
	v *viper.Viper

	Threads      int
	OutputDir    string
	LogFilePath  string
	ExvModelKind intensity.ExvModelKind
}

// DefaultSettings returns the built-in defaults: hardware-concurrency
// thread count sentinel (0 means "let the thread pool decide"), current
// directory output, no log file, the default exv model.
func DefaultSettings() *Settings {
	v := viper.New()
	v.SetDefault("threads", 0)
	v.SetDefault("output_dir", ".")
	v.SetDefault("log_file", "")
	v.SetDefault("exv_model", "default")

	return &Settings{
		v:            v,
		Threads:      0,
		OutputDir:    ".",
		LogFilePath:  "",
		ExvModelKind: intensity.ExvModelDefault,
	}
}

// LoadFile layers a settings file (see settingsfile.go for its format) on
// top of the current defaults, then re-derives the typed fields.
func (s *Settings) LoadFile(path string) error {
	entries, err := parseSettingsFile(path)
	if err != nil {
		return err
	}
	for _, e := range entries {
		s.v.Set(e.fullKey(), e.value)
	}
	s.refresh()
	return nil
}

// BindThreads, BindOutputDir, BindLogFile, BindExvModel let the CLI layer
// override a setting from a parsed flag value; zero/empty values are
// treated as "flag not set" and left at their current value.
func (s *Settings) BindThreads(n int) {
	if n > 0 {
		s.Threads = n
		s.v.Set("threads", n)
	}
}

func (s *Settings) BindOutputDir(dir string) {
	if dir != "" {
		s.OutputDir = dir
		s.v.Set("output_dir", dir)
	}
}

func (s *Settings) BindLogFile(path string) {
	if path != "" {
		s.LogFilePath = path
		s.v.Set("log_file", path)
	}
}

func (s *Settings) BindExvModel(name string) {
	if name == "" {
		return
	}
	s.v.Set("exv_model", name)
	s.refresh()
}

func (s *Settings) refresh() {
	s.Threads = s.v.GetInt("threads")
	s.OutputDir = s.v.GetString("output_dir")
	s.LogFilePath = s.v.GetString("log_file")
	s.ExvModelKind = parseExvModelName(s.v.GetString("exv_model"))
}

func parseExvModelName(name string) intensity.ExvModelKind {
	switch name {
	case "fraser":
		return intensity.ExvModelFraser
	case "crysol":
		return intensity.ExvModelCRYSOL
	case "foxs":
		return intensity.ExvModelFoXS
	case "pepsi":
		return intensity.ExvModelPepsi
	default:
		return intensity.ExvModelDefault
	}
}
