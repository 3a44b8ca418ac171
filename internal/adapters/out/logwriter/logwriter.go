// Package logwriter persists container output to size-rotated files.
package logwriter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bnema/zerowrap"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/bnema/ephemera/internal/boundaries/out"
	"github.com/bnema/ephemera/internal/domain"
)

// Config holds the configuration for the log writer.
type Config struct {
	// Dir is the directory where container logs are stored.
	Dir string `mapstructure:"dir"`
	// MaxSize is the maximum size in megabytes before rotation.
	MaxSize int `mapstructure:"max_size"`
	// MaxBackups is the number of old log files to retain.
	MaxBackups int `mapstructure:"max_backups"`
	// MaxAge is the maximum number of days to retain old log files.
	MaxAge int `mapstructure:"max_age"`
	// SplitStreams writes stderr to <name>.err.log instead of <name>.log.
	SplitStreams bool `mapstructure:"split_streams"`
}

var _ out.ContainerLogWriter = (*LogWriter)(nil)

// LogWriter hands out output consumers backed by rotating log files.
type LogWriter struct {
	config    Config
	consumers map[string]*FileConsumer
	mu        sync.Mutex
}

// New creates a new LogWriter.
func New(config Config) (*LogWriter, error) {
	if config.Dir == "" {
		return nil, fmt.Errorf("%w: log directory is required", domain.ErrInvalidConfig)
	}
	if err := os.MkdirAll(config.Dir, 0700); err != nil {
		return nil, err
	}

	return &LogWriter{
		config:    config,
		consumers: make(map[string]*FileConsumer),
	}, nil
}

// Open returns the consumer for the named container. Opening the same name
// twice returns the same consumer; files are appended to, never truncated.
func (w *LogWriter) Open(ctx context.Context, name string) (domain.OutputConsumer, error) {
	return w.open(ctx, name)
}

func (w *LogWriter) open(ctx context.Context, name string) (*FileConsumer, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "adapter",
		zerowrap.FieldAdapter: "logwriter",
		zerowrap.FieldAction:  "Open",
		"name":                name,
	})
	log := zerowrap.FromCtx(ctx)

	base := sanitizeName(name)
	if base == "" {
		return nil, fmt.Errorf("%w: empty log name", domain.ErrInvalidConfig)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if c, ok := w.consumers[base]; ok {
		return c, nil
	}

	c := &FileConsumer{stdout: w.rotating(base + ".log")}
	c.stderr = c.stdout
	if w.config.SplitStreams {
		c.stderr = w.rotating(base + ".err.log")
	}
	w.consumers[base] = c

	log.Info().Str("path", c.stdout.Filename).Msg("writing container output to file")
	return c, nil
}

func (w *LogWriter) rotating(filename string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filepath.Join(w.config.Dir, filename),
		MaxSize:    w.config.MaxSize,
		MaxBackups: w.config.MaxBackups,
		MaxAge:     w.config.MaxAge,
		Compress:   true,
	}
}

// Close closes every consumer handed out so far.
func (w *LogWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var errs []error
	for name, c := range w.consumers {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
		delete(w.consumers, name)
	}
	return errors.Join(errs...)
}

// FileConsumer is an OutputConsumer writing to rotating files. Writes from
// both streams are serialized by lumberjack.
type FileConsumer struct {
	stdout *lumberjack.Logger
	stderr *lumberjack.Logger
}

func (c *FileConsumer) Stdout() io.Writer { return c.stdout }
func (c *FileConsumer) Stderr() io.Writer { return c.stderr }

// Path is the file receiving stdout.
func (c *FileConsumer) Path() string { return c.stdout.Filename }

// Close closes the underlying files. Later writes reopen them.
func (c *FileConsumer) Close() error {
	err := c.stdout.Close()
	if c.stderr != c.stdout {
		err = errors.Join(err, c.stderr.Close())
	}
	return err
}

// sanitizeName converts a container name or image reference to a safe filename.
func sanitizeName(name string) string {
	name = strings.TrimLeft(strings.TrimSpace(name), "/")
	return strings.NewReplacer(".", "_", "/", "_", ":", "_", "@", "_", " ", "_").Replace(name)
}
