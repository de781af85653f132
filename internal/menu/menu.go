// Package menu implements the interactive numbered phone book menu.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/smileynet/phonebook/internal/contact"
	"github.com/smileynet/phonebook/internal/phonebook"
)

// Book is the phone book the shell drives.
type Book interface {
	Add(c contact.Contact)
	Remove(name string) bool
	Search(name string) (contact.Contact, error)
	ListAll(w io.Writer) error
	SaveFile(path string) error
	LoadFile(path string) error
}

// Compile-time check: *phonebook.Book satisfies Book.
var _ Book = (*phonebook.Book)(nil)

// Menu options.
const (
	optAdd = iota + 1
	optRemove
	optSearch
	optShowAll
	optSave
	optLoad
	optExit
)

const menuText = "\nPhone Book Menu:\n" +
	"1. Add Contact\n" +
	"2. Remove Contact\n" +
	"3. Search Contact\n" +
	"4. Show All Contacts\n" +
	"5. Save to File\n" +
	"6. Load from File\n" +
	"7. Exit\n" +
	"Choose an option: "

// errInputClosed ends the loop when the input runs out mid-prompt.
var errInputClosed = errors.New("menu: input closed")

// ErrOutput reports that the contact listing could not be written.
var ErrOutput = errors.New("menu: write output")

// Shell reads one command at a time from its input and applies it to a Book.
type Shell struct {
	book        Book
	in          *contact.LineReader
	out         io.Writer
	errOut      io.Writer
	logger      *slog.Logger
	defaultFile string
}

// Option configures a Shell.
type Option func(*Shell)

// New creates a Shell reading commands from in and printing to out.
func New(book Book, in io.Reader, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		book:   book,
		in:     contact.NewLineReader(in),
		out:    out,
		errOut: out,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithErrWriter sets where file errors are reported. Defaults to the output writer.
func WithErrWriter(w io.Writer) Option {
	return func(s *Shell) { s.errOut = w }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Shell) { s.logger = l }
}

// WithDefaultFile sets the file used when a save/load prompt is left empty.
func WithDefaultFile(path string) Option {
	return func(s *Shell) { s.defaultFile = path }
}

// Run displays the menu and dispatches commands until Exit is chosen or the
// input ends. Only a cancelled context or an output failure returns an error;
// phone book errors are reported and the loop resumes.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.printf("%s", menuText)

		line, err := s.in.ReadLine()
		if err != nil {
			s.logger.Debug("input closed", "err", err)
			return nil
		}

		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || choice < optAdd || choice > optExit {
			s.logger.Debug("invalid menu option", "input", line)
			s.printf("Invalid option. Try again.\n")
			continue
		}
		if choice == optExit {
			s.logger.Debug("exit chosen")
			return nil
		}

		if err := s.dispatch(choice); err != nil {
			if errors.Is(err, errInputClosed) {
				s.logger.Debug("input closed during prompt")
				return nil
			}
			return err
		}
	}
}

func (s *Shell) dispatch(choice int) error {
	switch choice {
	case optAdd:
		return s.add()
	case optRemove:
		return s.remove()
	case optSearch:
		return s.search()
	case optShowAll:
		if err := s.book.ListAll(s.out); err != nil {
			return fmt.Errorf("%w: %w", ErrOutput, err)
		}
	case optSave:
		return s.save()
	case optLoad:
		return s.load()
	}
	return nil
}

func (s *Shell) add() error {
	prompts := [contact.FieldCount]string{
		"Enter full name: ",
		"Enter home phone: ",
		"Enter work phone: ",
		"Enter mobile phone: ",
		"Enter additional info: ",
	}
	var fields [contact.FieldCount]string
	for i, p := range prompts {
		v, err := s.prompt(p)
		if err != nil {
			return err
		}
		fields[i] = v
	}

	c := contact.New(fields[0], fields[1], fields[2], fields[3], fields[4])
	s.book.Add(c)
	s.logger.Debug("contact added", "name", c.Name)
	s.printf("Contact added.\n")
	return nil
}

func (s *Shell) remove() error {
	name, err := s.prompt("Enter full name of contact to remove: ")
	if err != nil {
		return err
	}
	if s.book.Remove(name) {
		s.logger.Debug("contact removed", "name", name)
		s.printf("Contact removed.\n")
	} else {
		s.logger.Debug("contact not found", "op", "remove", "name", name)
		s.printf("Contact not found.\n")
	}
	return nil
}

func (s *Shell) search() error {
	name, err := s.prompt("Enter full name of contact to search: ")
	if err != nil {
		return err
	}
	c, err := s.book.Search(name)
	if err != nil {
		if errors.Is(err, phonebook.ErrNotFound) {
			s.logger.Debug("contact not found", "op", "search", "name", name)
			s.printf("Contact not found.\n")
			return nil
		}
		return err
	}
	s.printf("%s", c.Render())
	return nil
}

func (s *Shell) save() error {
	path, err := s.filePrompt("Enter filename to save contacts: ")
	if err != nil {
		return err
	}
	if err := s.book.SaveFile(path); err != nil {
		s.logger.Warn("save failed", "path", path, "err", err)
		var ioErr *phonebook.IOError
		switch {
		case errors.As(err, &ioErr):
			s.errorf("Error opening file for writing.\n")
		case errors.Is(err, phonebook.ErrLineBreak):
			s.errorf("Cannot save contacts: %v\n", err)
		default:
			s.errorf("Error saving contacts: %v\n", err)
		}
		return nil
	}
	s.logger.Info("contacts saved", "path", path)
	s.printf("Contacts saved to file.\n")
	return nil
}

func (s *Shell) load() error {
	path, err := s.filePrompt("Enter filename to load contacts: ")
	if err != nil {
		return err
	}
	if err := s.book.LoadFile(path); err != nil {
		s.logger.Warn("load failed", "path", path, "err", err)
		var ioErr *phonebook.IOError
		switch {
		case errors.As(err, &ioErr):
			s.errorf("Error opening file for reading.\n")
		case errors.Is(err, phonebook.ErrFormat):
			s.errorf("Invalid contacts file: %v\n", err)
		default:
			s.errorf("Error loading contacts: %v\n", err)
		}
		return nil
	}
	s.logger.Info("contacts loaded", "path", path)
	s.printf("Contacts loaded from file.\n")
	return nil
}

// filePrompt reads a filename, substituting the default file for an empty answer.
func (s *Shell) filePrompt(p string) (string, error) {
	if s.defaultFile != "" {
		p = fmt.Sprintf("%s[%s] ", p, s.defaultFile)
	}
	path, err := s.prompt(p)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = s.defaultFile
	}
	return path, nil
}

func (s *Shell) prompt(p string) (string, error) {
	s.printf("%s", p)
	line, err := s.in.ReadLine()
	if err != nil {
		return "", errInputClosed
	}
	return line, nil
}

func (s *Shell) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) errorf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.errOut, format, args...)
}
