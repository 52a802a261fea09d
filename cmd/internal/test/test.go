// Package test provides helpers to execute buildergen commands in tests and
// to parse their JSON log output.
package test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"github.com/spf13/cobra"

	"ocm.software/open-component-model/buildergen/cmd"
	"ocm.software/open-component-model/buildergen/internal/flags/log"
)

// Options holds the configuration of a command execution.
type Options struct {
	args   []string
	out    io.Writer
	logs   io.Writer
	format string
}

// Option configures Options.
type Option func(*Options)

// WithArgs sets the command line arguments.
func WithArgs(args ...string) Option {
	return func(o *Options) {
		o.args = args
	}
}

// WithOutput captures the command output.
func WithOutput(out io.Writer) Option {
	return func(o *Options) {
		o.out = out
	}
}

// WithLogs captures the log output, which is written to stderr by default.
func WithLogs(logs io.Writer) Option {
	return func(o *Options) {
		o.logs = logs
	}
}

// WithLogFormat sets the log format, json by default.
func WithLogFormat(format string) Option {
	return func(o *Options) {
		o.format = format
	}
}

// Buildergen executes the root command with the given options.
func Buildergen(tb testing.TB, opts ...Option) (*cobra.Command, error) {
	tb.Helper()

	opt := Options{}
	for _, o := range opts {
		o(&opt)
	}

	instance := cmd.New()
	if len(opt.args) == 0 {
		opt.args = []string{"help"}
	}
	instance.SetOut(io.Discard)
	if opt.out != nil {
		instance.SetOut(opt.out)
	}
	instance.SetErr(io.Discard)
	if opt.logs != nil {
		instance.SetErr(opt.logs)
	}

	if opt.format == "" {
		opt.format = log.FormatJSON
	}
	f := instance.PersistentFlags().Lookup(log.FormatFlagName)
	if err := f.Value.Set(opt.format); err != nil {
		return nil, fmt.Errorf("failed to set format: %w", err)
	}

	instance.SetArgs(opt.args)
	return instance.ExecuteContextC(tb.Context())
}

// JSONLogReader collects JSON log output. Lines that are not JSON are
// moved to Discarded when listing.
type JSONLogReader struct {
	*bytes.Buffer
	Discarded *bytes.Buffer
}

func NewJSONLogReader() *JSONLogReader {
	return &JSONLogReader{
		Buffer:    bytes.NewBuffer(make([]byte, 0, 1024)),
		Discarded: bytes.NewBuffer(make([]byte, 0, 1024)),
	}
}

// JSONLogEntry is a single log line.
type JSONLogEntry struct {
	Time  string `json:"time"`
	Level string `json:"level"`
	Msg   string `json:"msg"`

	// Extras holds all other attributes.
	Extras map[string]any `json:"-"`
}

func (l *JSONLogEntry) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["time"].(string); ok {
		l.Time = v
	}
	if v, ok := raw["level"].(string); ok {
		l.Level = v
	}
	if v, ok := raw["msg"].(string); ok {
		l.Msg = v
	}

	delete(raw, "time")
	delete(raw, "level")
	delete(raw, "msg")
	l.Extras = raw

	return nil
}

// List parses all collected log lines.
func (logs *JSONLogReader) List() ([]*JSONLogEntry, error) {
	scanner := bufio.NewScanner(logs.Buffer)
	var entries []*JSONLogEntry
	for scanner.Scan() {
		data := scanner.Bytes()
		entry := JSONLogEntry{}
		if err := json.Unmarshal(data, &entry); err == nil {
			entries = append(entries, &entry)
		} else if _, err := logs.Discarded.Write(append(data, '\n')); err != nil {
			return nil, err
		}
	}
	return entries, scanner.Err()
}

// FindEntry returns the first entry with the given message, or nil.
func FindEntry(entries []*JSONLogEntry, msg string) *JSONLogEntry {
	for _, entry := range entries {
		if entry.Msg == msg {
			return entry
		}
	}
	return nil
}
