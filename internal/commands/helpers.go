package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/gerunddev/roampages/internal/config"
	"github.com/gerunddev/roampages/internal/logger"
	"github.com/gerunddev/roampages/internal/styles"
)

const defaultWidth = 100

// ParseLogFile reads the last N lines from the log file and extracts the
// time and page count of the most recent build
func ParseLogFile(logPath string, maxLines int) ([]string, time.Time, int) {
	content, err := os.ReadFile(logPath)
	if err != nil {
		return []string{"Unable to read log file"}, time.Time{}, 0
	}

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")

	startIdx := 0
	if len(lines) > maxLines {
		startIdx = len(lines) - maxLines
	}
	recentLines := lines[startIdx:]

	var lastBuild time.Time
	pagesWritten := 0

	for i := len(recentLines) - 1; i >= 0; i-- {
		line := recentLines[i]
		if !strings.Contains(line, "build completed") {
			continue
		}
		// Format: 2026-10-19 14:11:57 INFO build completed pages=3 pages_written=2
		if len(line) > 19 {
			if t, err := time.ParseInLocation(time.DateTime, line[:19], time.Local); err == nil {
				lastBuild = t
			}
		}
		if idx := strings.Index(line, "pages_written="); idx != -1 {
			_, _ = fmt.Sscanf(line[idx:], "pages_written=%d", &pagesWritten) //nolint:errcheck // best effort parsing
		}
		break
	}

	return recentLines, lastBuild, pagesWritten
}

// loadConfig loads the config at path or exits
func loadConfig(path string) *config.Config {
	cfg, err := config.LoadFile(path)
	if err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Error loading config: " + err.Error()))
		os.Exit(1)
	}
	return cfg
}

// setupLogger opens the configured log file. With verbose set the log also
// goes to stderr at debug level. The returned cleanup closes the file.
func setupLogger(cfg *config.Config, verbose bool) (*logger.Logger, func()) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}

	if !verbose {
		if cfg.LogFile == "" {
			return logger.Discard(), func() {}
		}
		l, cleanup, err := logger.NewFileLogger(cfg.LogFile, level)
		if err != nil {
			fmt.Fprintln(os.Stderr, styles.WarningStyle.Render("⚠ Could not open log file: "+err.Error()))
			return logger.Discard(), func() {}
		}
		return l, cleanup
	}

	writers := []io.Writer{os.Stderr}
	cleanup := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			writers = append(writers, f)
			cleanup = func() { f.Close() }
		}
	}
	return logger.NewMultiLogger(log.DebugLevel, writers...), cleanup
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	return defaultWidth
}
