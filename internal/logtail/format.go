package logtail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Entry is one decoded line of the pulsar JSON log.
type Entry struct {
	Time    time.Time
	RawTime string
	Level   string
	Message string
	Fields  []Field
}

// Field is a structured key/value attached to an entry, in key order.
type Field struct {
	Key   string
	Value string
}

const isoLayout = "2006-01-02T15:04:05.000Z0700"

// keys rendered elsewhere or too noisy for the log view
var skipKeys = map[string]bool{
	"ts":         true,
	"level":      true,
	"msg":        true,
	"caller":     true,
	"stacktrace": true,
}

// Parse decodes a zap JSON line. ok is false for anything that is not a
// JSON object, so plain text lines can be passed through untouched.
func Parse(line string) (Entry, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return Entry{}, false
	}
	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return Entry{}, false
	}

	var entry Entry
	if ts, ok := raw["ts"].(string); ok {
		entry.RawTime = ts
		if parsed, err := time.Parse(isoLayout, ts); err == nil {
			entry.Time = parsed
		}
	}
	if level, ok := raw["level"].(string); ok {
		entry.Level = strings.ToUpper(level)
	}
	if msg, ok := raw["msg"].(string); ok {
		entry.Message = msg
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		if !skipKeys[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		entry.Fields = append(entry.Fields, Field{Key: k, Value: renderValue(raw[k])})
	}
	return entry, true
}

// FormatLine renders a zap JSON line as "2006-01-02 15:04:05 LEVEL msg k=v".
// Lines that are not JSON are returned unchanged.
func FormatLine(line string) string {
	entry, ok := Parse(line)
	if !ok {
		return line
	}
	return entry.String()
}

// FormatLines applies FormatLine to every line.
func FormatLines(lines []string) []string {
	if len(lines) == 0 {
		return nil
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = FormatLine(line)
	}
	return out
}

func (e Entry) String() string {
	parts := make([]string, 0, 3+len(e.Fields))
	switch {
	case !e.Time.IsZero():
		parts = append(parts, e.Time.Format("2006-01-02 15:04:05"))
	case e.RawTime != "":
		parts = append(parts, e.RawTime)
	}
	level := e.Level
	if level == "" {
		level = "INFO"
	}
	parts = append(parts, level)
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	for _, f := range e.Fields {
		parts = append(parts, f.Key+"="+f.Value)
	}
	return strings.Join(parts, " ")
}

func renderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		if strings.ContainsAny(val, " \t\"=") {
			return fmt.Sprintf("%q", val)
		}
		return val
	case json.Number:
		return val.String()
	case bool:
		return fmt.Sprint(val)
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(val); err != nil {
			return fmt.Sprint(val)
		}
		return strings.TrimSpace(buf.String())
	}
}
