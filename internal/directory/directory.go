// Package directory holds the in-memory, ordered list of user records and the
// add, search, update and delete operations performed on it.
//
// Matching is intentionally asymmetric: FindByNameOrEmail and DeleteByFreeText
// treat the search term as a case-insensitive regular expression, while
// UpdateByFreeText and FirstContaining use a case-insensitive substring test.
package directory

import (
	"fmt"
	"regexp"
	"strings"
)

// Record is one user's stored details.
type Record struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// String renders the record in the multi-line form shown to the operator.
func (r Record) String() string {
	return fmt.Sprintf("Name: %s %s, \nEmail: %s, \nPhone: %s\n", r.FirstName, r.LastName, r.Email, r.Phone)
}

// Directory is an ordered sequence of records. Insertion order is preserved
// and no field is required to be unique, so duplicate emails are accepted.
// A Directory is not safe for concurrent use.
type Directory struct {
	records []Record
}

// New returns a Directory holding a copy of records.
func New(records ...Record) *Directory {
	d := &Directory{}
	d.Replace(records)
	return d
}

// Len returns the number of records.
func (d *Directory) Len() int {
	return len(d.records)
}

// List returns a copy of all records in insertion order.
func (d *Directory) List() []Record {
	return append([]Record(nil), d.records...)
}

// Replace discards every record and installs a copy of records in their place.
func (d *Directory) Replace(records []Record) {
	d.records = append([]Record(nil), records...)
}

// Add validates the fields and appends a new record to the end of the directory.
// A *ValidationError is returned and nothing is appended if first or last name
// is blank or the email is malformed.
func (d *Directory) Add(first, last, email, phone string) (Record, error) {
	r := Record{FirstName: first, LastName: last, Email: email, Phone: phone}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	d.records = append(d.records, r)
	return r, nil
}

// FindByNameOrEmail returns every record whose first name, last name or email
// matches pattern anywhere, ignoring case. An invalid pattern yields a
// *PatternError.
func (d *Directory) FindByNameOrEmail(pattern string) ([]Record, error) {
	re, err := compileSearch(pattern)
	if err != nil {
		return nil, err
	}
	var found []Record
	for _, r := range d.records {
		if re.MatchString(r.FirstName) || re.MatchString(r.LastName) || re.MatchString(r.Email) {
			found = append(found, r)
		}
	}
	return found, nil
}

// DeleteByFreeText removes the first record whose first name, last name, email
// or phone matches pattern, ignoring case. found is false when nothing matched;
// that is a normal outcome, not an error.
func (d *Directory) DeleteByFreeText(pattern string) (removed Record, found bool, err error) {
	re, err := compileSearch(pattern)
	if err != nil {
		return Record{}, false, err
	}
	for i, r := range d.records {
		if re.MatchString(r.FirstName) || re.MatchString(r.LastName) ||
			re.MatchString(r.Email) || re.MatchString(r.Phone) {
			d.records = append(d.records[:i], d.records[i+1:]...)
			return r, true, nil
		}
	}
	return Record{}, false, nil
}

// FirstContaining returns the record UpdateByFreeText would modify for term.
func (d *Directory) FirstContaining(term string) (Record, bool) {
	i := d.indexContaining(term)
	if i < 0 {
		return Record{}, false
	}
	return d.records[i], true
}

// UpdateByFreeText overwrites all four fields of the first record where any
// field contains term as a case-insensitive substring. The new values are
// validated as in Add; on a *ValidationError the record is left untouched.
// found is false when nothing matched.
func (d *Directory) UpdateByFreeText(term, first, last, email, phone string) (updated Record, found bool, err error) {
	i := d.indexContaining(term)
	if i < 0 {
		return Record{}, false, nil
	}
	next := Record{FirstName: first, LastName: last, Email: email, Phone: phone}
	if err := next.Validate(); err != nil {
		return Record{}, true, err
	}
	d.records[i] = next
	return next, true, nil
}

func (d *Directory) indexContaining(term string) int {
	needle := strings.ToLower(term)
	for i, r := range d.records {
		if containsFold(r.FirstName, needle) || containsFold(r.LastName, needle) ||
			containsFold(r.Email, needle) || containsFold(r.Phone, needle) {
			return i
		}
	}
	return -1
}

// containsFold reports whether s contains the already lower-cased needle.
func containsFold(s, needle string) bool {
	return strings.Contains(strings.ToLower(s), needle)
}

// compileSearch compiles pattern as an unanchored, case-insensitive regexp.
func compileSearch(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, &PatternError{Pattern: pattern, Err: err}
	}
	return re, nil
}
