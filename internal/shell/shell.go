// Package shell implements the interactive menu loop that drives a directory
// from line-oriented console input.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/smileynet/usermgr/internal/audit"
	"github.com/smileynet/usermgr/internal/directory"
	"github.com/smileynet/usermgr/internal/tui"
)

// Menu choices.
const (
	choiceAdd    = "1"
	choiceList   = "2"
	choiceFind   = "3"
	choiceDelete = "4"
	choiceUpdate = "5"
	choiceSave   = "6"
	choiceLoad   = "7"
	choiceExit   = "8"
)

var menuItems = []string{
	"1. Add new user",
	"2. Show all users",
	"3. Show user by name/email",
	"4. Delete user",
	"5. Update user",
	"6. Save to file",
	"7. Read from file",
	"8. Exit",
}

// Persister saves and loads a whole directory.
type Persister interface {
	Save(d *directory.Directory) error
	Load(d *directory.Directory) (int, error)
	Path() string
}

// Shell reads menu choices and field values line by line and applies them to
// a directory. Every action runs to completion before the menu is shown again.
type Shell struct {
	dir    *directory.Directory
	store  Persister
	in     *bufio.Reader
	out    io.Writer
	audit  *audit.Logger
	banner string
	color  bool
	clear  bool
	pause  bool
	styles styles
}

// Option configures a Shell.
type Option func(*Shell)

// WithAudit records every action to l.
func WithAudit(l *audit.Logger) Option {
	return func(s *Shell) { s.audit = l }
}

// WithBanner sets the text printed above the menu.
func WithBanner(banner string) Option {
	return func(s *Shell) { s.banner = banner }
}

// WithColor enables or disables colored output. Color is only emitted when
// the output is a terminal.
func WithColor(on bool) Option {
	return func(s *Shell) { s.color = on }
}

// WithClear enables clearing the terminal between actions.
func WithClear(on bool) Option {
	return func(s *Shell) { s.clear = on }
}

// WithPause makes the shell wait for Enter after each action.
func WithPause(on bool) Option {
	return func(s *Shell) { s.pause = on }
}

// New creates a Shell over dir and store reading from in and writing to out.
// Color, clearing and pausing are off unless enabled with options.
func New(dir *directory.Directory, store Persister, in io.Reader, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		dir:   dir,
		store: store,
		in:    bufio.NewReader(in),
		out:   out,
		audit: audit.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.styles = newStyles(out, s.color)
	s.clear = s.clear && tui.IsTTY(out)
	return s
}

// Run shows the menu and dispatches choices until Exit is chosen or input
// ends. Validation, pattern and I/O failures are reported and the loop goes
// on; only a failure to read input is returned.
func (s *Shell) Run() error {
	for {
		s.displayMenu()

		choice, err := s.readLine()
		if err != nil {
			return endOfInput(err)
		}

		exit, err := s.dispatch(strings.TrimSpace(choice))
		if exit {
			return nil
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			s.printf("\nError occurred: %v\n", err)
		}

		if err := s.waitForEnter(); err != nil {
			return endOfInput(err)
		}
		s.clearScreen()
	}
}

// dispatch runs the action for choice. exit is true only for the Exit choice.
func (s *Shell) dispatch(choice string) (exit bool, err error) {
	switch choice {
	case choiceAdd:
		return false, s.add()
	case choiceList:
		s.list()
		return false, nil
	case choiceFind:
		return false, s.find()
	case choiceDelete:
		return false, s.delete()
	case choiceUpdate:
		return false, s.update()
	case choiceSave:
		return false, s.save()
	case choiceLoad:
		return false, s.load()
	case choiceExit:
		return true, nil
	default:
		s.printf("Wrong choice!!!\n")
		return false, nil
	}
}

func (s *Shell) displayMenu() {
	if s.banner != "" {
		s.printf("\n%s\n", s.styles.banner.Render(s.banner))
	}
	for _, item := range menuItems {
		s.printf("%s\n", item)
	}
	s.printf("\n%s", s.styles.accent.Render("Enter your choice: "))
}

func (s *Shell) add() error {
	first, err := s.promptName("\nEnter user first name: ", directory.FieldFirstName)
	if err != nil {
		return s.fail("add", err)
	}
	last, err := s.promptName("\nEnter user last name: ", directory.FieldLastName)
	if err != nil {
		return s.fail("add", err)
	}
	email, err := s.promptEmail("\nEnter user email: ")
	if err != nil {
		return s.fail("add", err)
	}
	phone, err := s.prompt("\nEnter user phone: ")
	if err != nil {
		return err
	}

	r, err := s.dir.Add(first, last, email, phone)
	if err != nil {
		return s.fail("add", err)
	}
	s.audit.Added(r)
	s.printf("\nUser added successfully.\n")
	return nil
}

func (s *Shell) list() {
	records := s.dir.List()
	if len(records) == 0 {
		s.printf("\nNO USERS HERE!\n")
		return
	}
	for _, r := range records {
		s.printf("%s\n", r)
	}
}

func (s *Shell) find() error {
	pattern, err := s.prompt("\nEnter user name or email: ")
	if err != nil {
		return err
	}

	found, err := s.dir.FindByNameOrEmail(pattern)
	if err != nil {
		return s.fail("find", err)
	}
	if len(found) == 0 {
		s.printf("\nUser not found.\n")
		return nil
	}
	for _, r := range found {
		s.printf("%s\n", r)
	}
	return nil
}

func (s *Shell) delete() error {
	pattern, err := s.prompt("\nEnter user name, email, or phone to delete: ")
	if err != nil {
		return err
	}

	removed, found, err := s.dir.DeleteByFreeText(pattern)
	if err != nil {
		return s.fail("delete", err)
	}
	if !found {
		s.printf("\nUser not found.\n")
		return nil
	}
	s.audit.Deleted(pattern, removed)
	s.printf("\nUser deleted successfully.\n")
	return nil
}

func (s *Shell) update() error {
	term, err := s.prompt("\nEnter user name, email, or phone to update: ")
	if err != nil {
		return err
	}

	before, found := s.dir.FirstContaining(term)
	if !found {
		s.printf("\nUser not found.\n")
		return nil
	}

	first, err := s.promptName("\nEnter new user first name: ", directory.FieldFirstName)
	if err != nil {
		return s.fail("update", err)
	}
	last, err := s.promptName("\nEnter new user last name: ", directory.FieldLastName)
	if err != nil {
		return s.fail("update", err)
	}
	email, err := s.promptEmail("\nEnter new user email: ")
	if err != nil {
		return s.fail("update", err)
	}
	phone, err := s.prompt("\nEnter new user phone: ")
	if err != nil {
		return err
	}

	after, found, err := s.dir.UpdateByFreeText(term, first, last, email, phone)
	if err != nil {
		return s.fail("update", err)
	}
	if !found {
		s.printf("\nUser not found.\n")
		return nil
	}
	s.audit.Updated(term, before, after)
	s.printf("\nUser updated successfully.\n")
	return nil
}

func (s *Shell) save() error {
	if err := s.store.Save(s.dir); err != nil {
		return s.fail("save", err)
	}
	s.audit.Saved(s.store.Path(), s.dir.Len())
	s.printf("\nUsers saved to file successfully.\n")
	return nil
}

func (s *Shell) load() error {
	n, err := s.store.Load(s.dir)
	if err != nil {
		return s.fail("load", err)
	}
	s.audit.Loaded(s.store.Path(), n)
	s.printf("\nUsers read from file successfully.\n")
	return nil
}

// promptName reads a value and rejects it immediately if blank, so the
// operator is not asked for the remaining fields.
func (s *Shell) promptName(label, field string) (string, error) {
	v, err := s.prompt(label)
	if err != nil {
		return "", err
	}
	if err := directory.CheckName(field, v); err != nil {
		return "", err
	}
	return v, nil
}

func (s *Shell) promptEmail(label string) (string, error) {
	v, err := s.prompt(label)
	if err != nil {
		return "", err
	}
	if err := directory.CheckEmail(v); err != nil {
		return "", err
	}
	return v, nil
}

func (s *Shell) prompt(label string) (string, error) {
	s.printf("%s", label)
	return s.readLine()
}

// readLine returns the next input line without its line terminator,
// or io.EOF once input is exhausted. Lines have no length limit.
func (s *Shell) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("shell: reading input: %w", err)
		}
		if line == "" {
			return "", io.EOF
		}
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

func (s *Shell) waitForEnter() error {
	if !s.pause {
		return nil
	}
	s.printf("\nPRESS ENTER TO CONTINUE...")
	_, err := s.readLine()
	return err
}

func (s *Shell) clearScreen() {
	if s.clear {
		s.printf("%s", clearSequence)
	}
}

// fail records a failed action unless it was caused by input ending.
func (s *Shell) fail(action string, err error) error {
	if !errors.Is(err, io.EOF) {
		s.audit.Failed(action, err)
	}
	return err
}

func (s *Shell) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

// endOfInput maps exhausted input to a clean exit.
func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
