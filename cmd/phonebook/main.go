package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	resources "github.com/smileynet/phonebook"
	"github.com/smileynet/phonebook/internal/config"
	"github.com/smileynet/phonebook/internal/logger"
	"github.com/smileynet/phonebook/internal/menu"
	"github.com/smileynet/phonebook/internal/phonebook"
	"github.com/smileynet/phonebook/internal/tui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// projectConfig is the project-level config path, relative to the working directory.
const projectConfig = ".phonebook/config.yaml"

// CLI is the top-level command structure for phonebook.
type CLI struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`
	Menu    MenuCmd          `cmd:"" default:"1" help:"Run the interactive phone book menu (default)."`
	Browse  BrowseCmd        `cmd:"" help:"Browse a phone book file in a terminal UI."`
	Init    InitCmd          `cmd:"" help:"Write a starter project config to .phonebook/config.yaml."`
}

// loadConfig loads layered config from user and project paths with env overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/phonebook/config.yaml"),
		projectConfig,
	)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MenuCmd runs the interactive numbered menu.
type MenuCmd struct{}

// Run executes the menu command against stdin and stdout.
func (m *MenuCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("menu: %w", err)
	}
	log := logger.New(cfg.Log)
	return m.run(context.Background(), cfg, log, os.Stdin, os.Stdout, os.Stderr)
}

// run builds the book and shell from cfg, enabling testable wiring.
func (m *MenuCmd) run(ctx context.Context, cfg *config.Config, log *slog.Logger, in io.Reader, out, errOut io.Writer) error {
	book := phonebook.New()
	autoload(errOut, log, book, cfg.Storage)

	shell := menu.New(book, in, out,
		menu.WithErrWriter(errOut),
		menu.WithLogger(log),
		menu.WithDefaultFile(cfg.Storage.DefaultFile),
	)
	log.Debug("menu started", "default_file", cfg.Storage.DefaultFile, "contacts", book.Len())
	return shell.Run(ctx)
}

// autoload loads the default file at startup when configured.
// A missing file is not an error: the book simply starts empty.
func autoload(w io.Writer, log *slog.Logger, book *phonebook.Book, st config.Storage) {
	if !st.Autoload || st.DefaultFile == "" {
		return
	}
	if _, err := os.Stat(st.DefaultFile); errors.Is(err, os.ErrNotExist) {
		log.Info("autoload file does not exist yet", "path", st.DefaultFile)
		return
	}
	if err := book.LoadFile(st.DefaultFile); err != nil {
		log.Warn("autoload failed", "path", st.DefaultFile, "err", err)
		_, _ = fmt.Fprintf(w, "warning: could not load %s: %v\n", st.DefaultFile, err)
		return
	}
	log.Info("autoloaded contacts", "path", st.DefaultFile, "contacts", book.Len())
}

// --- Browse command ---

// BrowseCmd opens a phone book file in the read-only terminal browser.
type BrowseCmd struct {
	File string `arg:"" optional:"" help:"Phone book file (defaults to storage.default_file)."`
}

// teaRunner abstracts Bubble Tea program execution for testing.
type teaRunner interface {
	Run() (tea.Model, error)
}

// Run loads the file and launches the browser TUI.
func (b *BrowseCmd) Run() error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("browse: requires a terminal (TTY)")
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}

	book, err := b.load(cfg)
	if err != nil {
		return err
	}

	prog := tea.NewProgram(tui.NewModel(book.List()), tea.WithAltScreen())
	return b.run(true, prog)
}

// load resolves the file to browse and reads it into a new book.
func (b *BrowseCmd) load(cfg *config.Config) (*phonebook.Book, error) {
	path := b.File
	if path == "" {
		path = cfg.Storage.DefaultFile
	}
	if path == "" {
		return nil, errors.New("browse: no file given and storage.default_file is not set")
	}

	book := phonebook.New()
	if err := book.LoadFile(path); err != nil {
		return nil, fmt.Errorf("browse: %w", err)
	}
	return book, nil
}

// run executes the tea program, enabling testable wiring.
func (b *BrowseCmd) run(isTTY bool, prog teaRunner) error {
	if !isTTY {
		return fmt.Errorf("browse: requires a terminal (TTY)")
	}
	_, err := prog.Run()
	return err
}

// --- Init command ---

// InitCmd writes the default config template into the project.
type InitCmd struct {
	Force bool `help:"Overwrite an existing config file." default:"false"`
}

// Run writes .phonebook/config.yaml from the template. A local templates/
// directory overrides the embedded copy.
func (c *InitCmd) Run() error {
	return c.run(os.Stdout, projectConfig, resources.OverlayFS("templates", resources.Templates))
}

// run writes the template from fsys to dest, enabling testable wiring.
func (c *InitCmd) run(w io.Writer, dest string, fsys fs.FS) error {
	if !c.Force {
		if _, err := os.Stat(dest); err == nil {
			return fmt.Errorf("init: %s already exists (use --force to overwrite)", dest)
		}
	}

	data, err := fs.ReadFile(fsys, resources.ConfigTemplate)
	if err != nil {
		return fmt.Errorf("init: reading template: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("init: creating directory: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("init: writing %s: %w", dest, err)
	}

	_, _ = fmt.Fprintf(w, "Wrote %s\n", dest)
	return nil
}

// Exit codes.
const (
	exitSuccess = 0
	exitRuntime = 1
	exitSetup   = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	// Phone book file and output problems are runtime failures, not setup errors.
	var ioErr *phonebook.IOError
	if errors.As(err, &ioErr) || errors.Is(err, phonebook.ErrFormat) || errors.Is(err, menu.ErrOutput) {
		return exitRuntime
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("phonebook"),
		kong.Description("A single-user contact manager."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
