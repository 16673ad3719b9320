package directory

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func seeded(t *testing.T) *Directory {
	t.Helper()
	d := New()
	mustAdd(t, d, "Ann", "Lee", "ann@x.com", "555-1")
	mustAdd(t, d, "Bob", "Roe", "bob@x.com", "555-2")
	mustAdd(t, d, "Cid", "Smith", "cid@corp.org", "555-3")
	return d
}

func mustAdd(t *testing.T, d *Directory, first, last, email, phone string) Record {
	t.Helper()
	r, err := d.Add(first, last, email, phone)
	if err != nil {
		t.Fatalf("Add(%q, %q, %q, %q) error = %v", first, last, email, phone, err)
	}
	return r
}

func TestAdd_AppendsAtEnd(t *testing.T) {
	// Given a directory with one record
	d := New(Record{FirstName: "Ann", LastName: "Lee", Email: "ann@x.com"})

	// When a valid record is added
	got, err := d.Add("Bob", "Roe", "bob@x.com", "")

	// Then it is returned and listed last with the exact values
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	want := Record{FirstName: "Bob", LastName: "Roe", Email: "bob@x.com", Phone: ""}
	if got != want {
		t.Errorf("Add() = %+v, want %+v", got, want)
	}
	list := d.List()
	if len(list) != 2 {
		t.Fatalf("List() len = %d, want 2", len(list))
	}
	if list[1] != want {
		t.Errorf("List()[1] = %+v, want %+v", list[1], want)
	}
}

func TestAdd_PhoneIsFreeForm(t *testing.T) {
	d := New()
	r, err := d.Add("Ann", "Lee", "ann@x.com", "call me, maybe?")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if r.Phone != "call me, maybe?" {
		t.Errorf("Phone = %q, want it stored unchanged", r.Phone)
	}
}

func TestAdd_DuplicateEmailsAllowed(t *testing.T) {
	d := New()
	mustAdd(t, d, "Ann", "Lee", "same@x.com", "1")
	mustAdd(t, d, "Ann", "Lee", "same@x.com", "1")
	if d.Len() != 2 {
		t.Errorf("Len() = %d, want 2", d.Len())
	}
}

func TestAdd_ValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		first     string
		last      string
		email     string
		wantField string
	}{
		{name: "empty first", first: "", last: "Lee", email: "a@b.com", wantField: FieldFirstName},
		{name: "space first", first: " ", last: "Lee", email: "a@b.com", wantField: FieldFirstName},
		{name: "tab first", first: "\t", last: "Lee", email: "a@b.com", wantField: FieldFirstName},
		{name: "empty last", first: "Ann", last: "", email: "a@b.com", wantField: FieldLastName},
		{name: "space last", first: "Ann", last: " ", email: "a@b.com", wantField: FieldLastName},
		{name: "tab last", first: "Ann", last: "\t", email: "a@b.com", wantField: FieldLastName},
		{name: "no at sign", first: "Ann", last: "Lee", email: "bad", wantField: FieldEmail},
		{name: "no tld", first: "Ann", last: "Lee", email: "a@b", wantField: FieldEmail},
		{name: "one letter tld", first: "Ann", last: "Lee", email: "a@b.c", wantField: FieldEmail},
		{name: "long tld", first: "Ann", last: "Lee", email: "a@b.toolong", wantField: FieldEmail},
		{name: "empty email", first: "Ann", last: "Lee", email: "", wantField: FieldEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			_, err := d.Add(tt.first, tt.last, tt.email, "555")

			if !errors.Is(err, ErrValidation) {
				t.Fatalf("Add() error = %v, want ErrValidation", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Add() error type = %T, want *ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", ve.Field, tt.wantField)
			}
			if d.Len() != 0 {
				t.Errorf("Len() = %d after failed Add, want 0", d.Len())
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@b.com", true},
		{"first.last@sub.example.org", true},
		{"under_score-dash@x.io", true},
		{"a@b.info", true},
		{"bad", false},
		{"a@b", false},
		{"a@b.c", false},
		{"a@b.toolong", false},
		{"plus+tag@x.com", false},
		{"a@b.c0m", false},
		{" a@b.com", false},
	}
	for _, tt := range tests {
		if got := ValidateEmail(tt.email); got != tt.want {
			t.Errorf("ValidateEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Ann", true},
		{" Ann ", true},
		{"", false},
		{" ", false},
		{"\t", false},
		{" \t\n", false},
	}
	for _, tt := range tests {
		if got := ValidateName(tt.text); got != tt.want {
			t.Errorf("ValidateName(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestList_Empty(t *testing.T) {
	if got := New().List(); len(got) != 0 {
		t.Errorf("List() = %v, want empty", got)
	}
}

func TestList_ReturnsCopy(t *testing.T) {
	d := seeded(t)
	list := d.List()
	list[0].FirstName = "Mutated"

	if d.List()[0].FirstName != "Ann" {
		t.Error("modifying List() result changed the directory")
	}
}

func TestFindByNameOrEmail_CaseInsensitiveUnanchored(t *testing.T) {
	d := seeded(t)

	for _, pattern := range []string{"mit", "SMITH", "sMiTh", "^smi", "corp"} {
		got, err := d.FindByNameOrEmail(pattern)
		if err != nil {
			t.Fatalf("FindByNameOrEmail(%q) error = %v", pattern, err)
		}
		if len(got) != 1 || got[0].LastName != "Smith" {
			t.Errorf("FindByNameOrEmail(%q) = %v, want only Smith", pattern, got)
		}
	}
}

func TestFindByNameOrEmail_MultipleMatchesInOrder(t *testing.T) {
	d := seeded(t)

	got, err := d.FindByNameOrEmail(`@x\.com$`)
	if err != nil {
		t.Fatalf("FindByNameOrEmail() error = %v", err)
	}
	want := []Record{
		{FirstName: "Ann", LastName: "Lee", Email: "ann@x.com", Phone: "555-1"},
		{FirstName: "Bob", LastName: "Roe", Email: "bob@x.com", Phone: "555-2"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FindByNameOrEmail() mismatch (-want +got):\n%s", diff)
	}
}

func TestFindByNameOrEmail_IgnoresPhone(t *testing.T) {
	d := seeded(t)

	got, err := d.FindByNameOrEmail("555-1")
	if err != nil {
		t.Fatalf("FindByNameOrEmail() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("FindByNameOrEmail(phone) = %v, want no matches", got)
	}
}

func TestFindByNameOrEmail_InvalidPattern(t *testing.T) {
	d := seeded(t)

	_, err := d.FindByNameOrEmail("[unclosed")

	if !errors.Is(err, ErrPattern) {
		t.Fatalf("error = %v, want ErrPattern", err)
	}
	var pe *PatternError
	if !errors.As(err, &pe) {
		t.Fatalf("error type = %T, want *PatternError", err)
	}
	if pe.Pattern != "[unclosed" {
		t.Errorf("Pattern = %q, want %q", pe.Pattern, "[unclosed")
	}
	if errors.Unwrap(err) == nil {
		t.Error("PatternError should wrap the regexp error")
	}
}

func TestDeleteByFreeText_Scenario(t *testing.T) {
	// Given Ann and Bob
	d := New()
	mustAdd(t, d, "Ann", "Lee", "ann@x.com", "555-1")
	mustAdd(t, d, "Bob", "Roe", "bob@x.com", "555-2")

	// When deleting by Ann's phone
	removed, found, err := d.DeleteByFreeText("555-1")

	// Then Ann is removed and only Bob remains
	if err != nil {
		t.Fatalf("DeleteByFreeText() error = %v", err)
	}
	if !found {
		t.Fatal("found = false, want true")
	}
	if removed.FirstName != "Ann" {
		t.Errorf("removed = %+v, want Ann", removed)
	}
	want := []Record{{FirstName: "Bob", LastName: "Roe", Email: "bob@x.com", Phone: "555-2"}}
	if diff := cmp.Diff(want, d.List()); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteByFreeText_RemovesOnlyFirstMatch(t *testing.T) {
	d := seeded(t)

	removed, found, err := d.DeleteByFreeText("555")
	if err != nil || !found {
		t.Fatalf("DeleteByFreeText() = found %v, err %v", found, err)
	}
	if removed.FirstName != "Ann" {
		t.Errorf("removed %q, want first match Ann", removed.FirstName)
	}
	if d.Len() != 2 {
		t.Errorf("Len() = %d, want 2", d.Len())
	}
}

func TestDeleteByFreeText_NotFound(t *testing.T) {
	tests := []struct {
		name string
		dir  *Directory
	}{
		{name: "empty directory", dir: New()},
		{name: "no match", dir: seeded(t)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.dir.List()
			_, found, err := tt.dir.DeleteByFreeText("zzz")
			if err != nil {
				t.Fatalf("DeleteByFreeText() error = %v", err)
			}
			if found {
				t.Error("found = true, want false")
			}
			if diff := cmp.Diff(before, tt.dir.List()); diff != "" {
				t.Errorf("directory changed (-before +after):\n%s", diff)
			}
		})
	}
}

func TestDeleteByFreeText_InvalidPattern(t *testing.T) {
	d := seeded(t)

	_, found, err := d.DeleteByFreeText("(")

	if !errors.Is(err, ErrPattern) {
		t.Fatalf("error = %v, want ErrPattern", err)
	}
	if found {
		t.Error("found = true, want false")
	}
	if d.Len() != 3 {
		t.Errorf("Len() = %d, want 3", d.Len())
	}
}

func TestUpdateByFreeText_UpdatesFirstSubstringMatch(t *testing.T) {
	d := seeded(t)

	updated, found, err := d.UpdateByFreeText("X.COM", "Anna", "Lee-Roe", "anna@y.net", "555-9")

	if err != nil || !found {
		t.Fatalf("UpdateByFreeText() = found %v, err %v", found, err)
	}
	want := Record{FirstName: "Anna", LastName: "Lee-Roe", Email: "anna@y.net", Phone: "555-9"}
	if updated != want {
		t.Errorf("updated = %+v, want %+v", updated, want)
	}
	list := d.List()
	if list[0] != want {
		t.Errorf("List()[0] = %+v, want %+v", list[0], want)
	}
	if list[1].FirstName != "Bob" {
		t.Errorf("List()[1] = %+v, want Bob untouched", list[1])
	}
}

func TestUpdateByFreeText_SubstringNotRegex(t *testing.T) {
	d := seeded(t)

	// "." is a literal here; no record contains "a.n".
	_, found, err := d.UpdateByFreeText("a.n", "X", "Y", "x@y.com", "")
	if err != nil {
		t.Fatalf("UpdateByFreeText() error = %v", err)
	}
	if found {
		t.Error("found = true, want false for literal substring")
	}

	// An invalid regexp is just text for update.
	_, found, err = d.UpdateByFreeText("[", "X", "Y", "x@y.com", "")
	if err != nil {
		t.Fatalf("UpdateByFreeText(\"[\") error = %v", err)
	}
	if found {
		t.Error("found = true, want false")
	}
}

func TestUpdateByFreeText_InvalidValuesLeaveRecordUnchanged(t *testing.T) {
	tests := []struct {
		name                      string
		first, last, email, phone string
	}{
		{name: "bad email", first: "New", last: "Name", email: "a@b.c", phone: "1"},
		{name: "blank first", first: " ", last: "Name", email: "ok@ok.com", phone: "1"},
		{name: "blank last", first: "New", last: "", email: "ok@ok.com", phone: "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := seeded(t)
			before := d.List()

			_, found, err := d.UpdateByFreeText("bob", tt.first, tt.last, tt.email, tt.phone)

			if !errors.Is(err, ErrValidation) {
				t.Fatalf("error = %v, want ErrValidation", err)
			}
			if !found {
				t.Error("found = false, want true")
			}
			if diff := cmp.Diff(before, d.List()); diff != "" {
				t.Errorf("directory changed (-before +after):\n%s", diff)
			}
		})
	}
}

func TestUpdateByFreeText_NotFound(t *testing.T) {
	d := New()
	_, found, err := d.UpdateByFreeText("anyone", "A", "B", "a@b.com", "")
	if err != nil {
		t.Fatalf("UpdateByFreeText() error = %v", err)
	}
	if found {
		t.Error("found = true, want false")
	}
}

func TestFirstContaining(t *testing.T) {
	d := seeded(t)

	r, ok := d.FirstContaining("ROE")
	if !ok || r.FirstName != "Bob" {
		t.Errorf("FirstContaining(ROE) = %+v, %v; want Bob", r, ok)
	}
	if _, ok := d.FirstContaining("nobody"); ok {
		t.Error("FirstContaining(nobody) ok = true, want false")
	}
}

func TestReplace_CopiesInput(t *testing.T) {
	in := []Record{{FirstName: "Ann", LastName: "Lee", Email: "ann@x.com"}}
	d := New()
	d.Replace(in)
	in[0].FirstName = "Changed"

	if d.List()[0].FirstName != "Ann" {
		t.Error("Replace should copy its input")
	}
}

func TestRecord_String(t *testing.T) {
	r := Record{FirstName: "Ann", LastName: "Lee", Email: "ann@x.com", Phone: "555-1"}
	want := "Name: Ann Lee, \nEmail: ann@x.com, \nPhone: 555-1\n"
	if got := r.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
