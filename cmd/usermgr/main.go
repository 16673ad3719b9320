package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/smileynet/usermgr"
	"github.com/smileynet/usermgr/internal/audit"
	"github.com/smileynet/usermgr/internal/config"
	"github.com/smileynet/usermgr/internal/directory"
	"github.com/smileynet/usermgr/internal/shell"
	"github.com/smileynet/usermgr/internal/store"
	"github.com/smileynet/usermgr/internal/tui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Globals holds flags shared by every command.
type Globals struct {
	Config string `help:"Extra config file applied after the user and project layers." type:"path" placeholder:"PATH"`
}

// CLI is the top-level command structure for usermgr.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version." short:"V"`
	Shell   ShellCmd         `cmd:"" default:"withargs" help:"Start the interactive menu (default)."`
	Browse  BrowseCmd        `cmd:"" help:"Browse saved users in a terminal UI."`
}

// ShellCmd runs the interactive add/list/find/delete/update/save/load menu.
type ShellCmd struct {
	File    string `help:"User file for save and load (default: users.txt)." placeholder:"PATH"`
	NoColor bool   `help:"Disable colored output." default:"false"`
	NoClear bool   `help:"Do not clear the screen between actions." default:"false"`
	NoPause bool   `help:"Do not wait for Enter after each action." default:"false"`
}

// Run executes the shell command.
func (s *ShellCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g.Config)
	if err != nil {
		return fmt.Errorf("shell: %w", err)
	}

	// Apply CLI flag overrides.
	if s.File != "" {
		cfg.Storage.File = s.File
	}
	if s.NoColor {
		cfg.Display.Color = false
	}
	if s.NoClear {
		cfg.Display.Clear = false
	}
	if s.NoPause {
		cfg.Display.Pause = false
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("shell: %w", err)
	}

	lg, err := audit.Open(cfg.Audit.Path)
	if err != nil {
		return fmt.Errorf("shell: %w", err)
	}
	defer func() { _ = lg.Close() }()

	return s.run(os.Stdin, os.Stdout, cfg, lg)
}

// run wires the shell to in and out, enabling testable wiring.
func (s *ShellCmd) run(in io.Reader, out io.Writer, cfg *config.Config, lg *audit.Logger) error {
	sh := shell.New(directory.New(), store.NewFileStore(cfg.Storage.File), in, out,
		shell.WithBanner(usermgr.Banner),
		shell.WithColor(cfg.Display.Color),
		shell.WithClear(cfg.Display.Clear),
		shell.WithPause(cfg.Display.Pause),
		shell.WithAudit(lg),
	)
	return sh.Run()
}

// BrowseCmd loads the user file and shows it read-only.
type BrowseCmd struct {
	File  string `help:"User file to browse (default: users.txt)." placeholder:"PATH"`
	NoTUI bool   `help:"Force plain text output even if stdout is a TTY." default:"false"`
}

// Run executes the browse command.
func (b *BrowseCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g.Config)
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	if b.File != "" {
		cfg.Storage.File = b.File
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("browse: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return b.run(ctx, os.Stdout, store.NewFileStore(cfg.Storage.File))
}

// run loads records from st and hands them to a browser writing to w.
func (b *BrowseCmd) run(ctx context.Context, w io.Writer, st *store.FileStore) error {
	dir := directory.New()
	if _, err := st.Load(dir); err != nil {
		return fmt.Errorf("browse: %w", err)
	}

	browser := tui.NewBrowser(tui.BrowserOptions{
		Writer:     w,
		ForcePlain: b.NoTUI,
		Directory:  dir,
		Source:     st.Path(),
	})
	return browser.Run(ctx)
}

// loadConfig loads layered config from user and project paths with env overrides.
// extra, when set, must exist and is applied last.
func loadConfig(extra string) (*config.Config, error) {
	paths := []string{
		os.ExpandEnv("$HOME/.config/usermgr/config.yaml"),
		".usermgr.yaml",
	}
	if extra != "" {
		if _, err := os.Stat(extra); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		paths = append(paths, extra)
	}

	cfg, err := config.LoadLayered(paths...)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Exit codes.
const (
	exitSuccess = 0
	exitIO      = 1
	exitSetup   = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) || errors.Is(err, store.ErrInvalidPath) {
		return exitIO
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("usermgr"),
		kong.Description("Keep a list of users and save it to a flat file."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
