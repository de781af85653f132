// Package contact defines the Contact value type and its line-oriented
// text encoding.
package contact

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// FieldCount is the number of lines one contact occupies in a phone book file.
const FieldCount = 5

// FieldNames lists the human-readable field labels in serialization order.
var FieldNames = [FieldCount]string{
	"Name",
	"Home Phone",
	"Work Phone",
	"Mobile Phone",
	"Additional Info",
}

var (
	// ErrFormat indicates persisted contact data is malformed or truncated.
	ErrFormat = errors.New("contact: malformed data")

	// ErrLineBreak indicates a field contains a line break and cannot be
	// written to the line-delimited format.
	ErrLineBreak = errors.New("contact: field contains a line break")
)

// Contact is one person's name, three phone numbers and free-text notes.
// Name is the lookup key within a phone book but is not required to be unique.
type Contact struct {
	Name   string
	Home   string
	Work   string
	Mobile string
	Info   string
}

// New builds a Contact from its five fields. No validation is performed.
func New(name, home, work, mobile, info string) Contact {
	return Contact{Name: name, Home: home, Work: work, Mobile: mobile, Info: info}
}

// Fields returns the field values in serialization order.
func (c Contact) Fields() [FieldCount]string {
	return [FieldCount]string{c.Name, c.Home, c.Work, c.Mobile, c.Info}
}

// Render returns the five-line display block for the contact.
func (c Contact) Render() string {
	var b strings.Builder
	for i, v := range c.Fields() {
		fmt.Fprintf(&b, "%s: %s\n", FieldNames[i], v)
	}
	return b.String()
}

// String implements fmt.Stringer.
func (c Contact) String() string {
	return c.Render()
}

// Validate reports ErrLineBreak if any field holds a CR or LF.
func (c Contact) Validate() error {
	for i, v := range c.Fields() {
		if strings.ContainsAny(v, "\r\n") {
			return fmt.Errorf("%w: %s of %q", ErrLineBreak, FieldNames[i], firstLine(c.Name))
		}
	}
	return nil
}

// Serialize returns the five field values, each terminated by a newline.
// Fields are not escaped; call Validate first when the input is untrusted.
func (c Contact) Serialize() string {
	var b strings.Builder
	for _, v := range c.Fields() {
		b.WriteString(v)
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteTo writes the serialized contact to w. Nothing is written when the
// contact fails Validate.
func (c Contact) WriteTo(w io.Writer) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	n, err := io.WriteString(w, c.Serialize())
	return int64(n), err
}

// Deserialize reads exactly FieldCount lines from r and builds a Contact.
// Running out of lines yields an error wrapping ErrFormat.
func Deserialize(r *LineReader) (Contact, error) {
	var fields [FieldCount]string
	for i := range fields {
		line, err := r.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Contact{}, fmt.Errorf("%w: line %d: missing %s", ErrFormat, r.Line()+1, strings.ToLower(FieldNames[i]))
			}
			return Contact{}, err
		}
		fields[i] = line
	}
	return New(fields[0], fields[1], fields[2], fields[3], fields[4]), nil
}

func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}
