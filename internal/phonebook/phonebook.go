// Package phonebook implements the ordered in-memory contact collection and
// its flat-file persistence.
package phonebook

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/smileynet/phonebook/internal/contact"
)

// Separator is printed after each contact by ListAll.
const Separator = "--------------------------"

var (
	// ErrNotFound indicates no contact has the requested name.
	ErrNotFound = errors.New("phonebook: contact not found")

	// ErrFormat is contact.ErrFormat, re-exported for callers of Load.
	ErrFormat = contact.ErrFormat

	// ErrLineBreak is contact.ErrLineBreak, re-exported for callers of Save.
	ErrLineBreak = contact.ErrLineBreak
)

// Book is an ordered collection of contacts. Insertion order is the display
// and search order. Every method holds a single lock for its duration.
type Book struct {
	mu       sync.Mutex
	contacts []contact.Contact
}

// New creates a Book holding cs in order.
func New(cs ...contact.Contact) *Book {
	return &Book{contacts: slices.Clone(cs)}
}

// Add appends c to the end of the book.
func (b *Book) Add(c contact.Contact) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.contacts = append(b.contacts, c)
}

// Remove deletes every contact whose name equals name exactly and reports
// whether any were removed. Unlike Search, this is not first-match.
func (b *Book) Remove(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	before := len(b.contacts)
	b.contacts = slices.DeleteFunc(b.contacts, func(c contact.Contact) bool {
		return c.Name == name
	})
	return len(b.contacts) != before
}

// Search returns the first contact named name, or ErrNotFound.
func (b *Book) Search(name string) (contact.Contact, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.IndexFunc(b.contacts, func(c contact.Contact) bool {
		return c.Name == name
	})
	if i < 0 {
		return contact.Contact{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return b.contacts[i], nil
}

// List returns a copy of the contacts in insertion order.
func (b *Book) List() []contact.Contact {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.contacts)
}

// Len returns the number of contacts.
func (b *Book) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.contacts)
}

// ListAll writes every contact's rendering followed by a Separator line.
func (b *Book) ListAll(w io.Writer) error {
	for _, c := range b.List() {
		if _, err := fmt.Fprintf(w, "%s%s\n", c.Render(), Separator); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the count line followed by each serialized contact.
// A contact containing a line break aborts the save before anything is
// written.
func (b *Book) Save(w io.Writer) error {
	contacts := b.List()
	for _, c := range contacts {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("phonebook: save: %w", err)
		}
	}

	var sb strings.Builder
	sb.WriteString(strconv.Itoa(len(contacts)))
	sb.WriteByte('\n')
	for _, c := range contacts {
		sb.WriteString(c.Serialize())
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("phonebook: save: %w", err)
	}
	return nil
}

// Load replaces the book's contents with the contacts read from r.
// The input is fully parsed before the swap; on error the book is unchanged.
func (b *Book) Load(r io.Reader) error {
	contacts, err := Decode(r)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.contacts = contacts
	return nil
}

// maxPrealloc bounds the capacity reserved from an untrusted count line.
const maxPrealloc = 1024

// Decode parses a phone book stream: a non-negative decimal count line then
// that many five-line contacts. Lines after the last contact are ignored.
func Decode(r io.Reader) ([]contact.Contact, error) {
	lr := contact.NewLineReader(r)
	line, err := lr.ReadLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("phonebook: load: %w: missing count line", ErrFormat)
		}
		return nil, fmt.Errorf("phonebook: load: %w", err)
	}

	count, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || count < 0 {
		return nil, fmt.Errorf("phonebook: load: %w: invalid count %q", ErrFormat, line)
	}

	contacts := make([]contact.Contact, 0, min(count, maxPrealloc))
	for i := 0; i < count; i++ {
		c, err := contact.Deserialize(lr)
		if err != nil {
			return nil, fmt.Errorf("phonebook: load: contact %d of %d: %w", i+1, count, err)
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}
