package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// settingEntry is one parsed line of a settings file: a namespaced key
// and its value, already typed.
type settingEntry struct {
	namespace string
	name      string
	value     interface{}
}

func (e settingEntry) fullKey() string {
	if e.namespace == "" {
		return e.name
	}
	return e.namespace + "_" + e.name
}

// parseSettingsFile reads a settings file: one `<namespace>::<name>
// value` entry per line, `#`-prefixed comments and blank lines skipped.
// Values are typed by trying bool, then int, then float, falling back to
// string; a value containing commas is parsed as a vector of floats.
func parseSettingsFile(path string) ([]settingEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening settings file")
	}
	defer f.Close()

	var entries []settingEntry
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.SplitN(line, " ", 2)
		if len(fields) != 2 {
			return nil, errors.Errorf("settings file line %d: expected '<namespace>::<name> value'", lineNo)
		}
		key, rawValue := fields[0], strings.TrimSpace(fields[1])

		namespace, name, ok := strings.Cut(key, "::")
		if !ok {
			namespace, name = "", key
		}

		entries = append(entries, settingEntry{
			namespace: namespace,
			name:      name,
			value:     parseSettingValue(rawValue),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading settings file")
	}
	return entries, nil
}

func parseSettingValue(raw string) interface{} {
	if strings.Contains(raw, ",") {
		parts := strings.Split(raw, ",")
		vec := make([]float64, 0, len(parts))
		for _, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return raw
			}
			vec = append(vec, v)
		}
		return vec
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if i, err := strconv.Atoi(raw); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}
