// Package rowedit models the view state of one editable list row: a row is
// either displaying its name or editing a draft of it. The transitions carry
// no rendering and no I/O; the UI layer renders the phases and performs the
// actual update/delete requests between BeginSave/BeginDelete and the
// corresponding completion call.
package rowedit

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyName blocks a save before any request is made.
	ErrEmptyName = errors.New("name is required")
	// ErrInFlight blocks a second submission while one is pending.
	ErrInFlight = errors.New("request already in flight")
)

type Phase int

const (
	Viewing Phase = iota
	Editing
)

func (p Phase) String() string {
	if p == Editing {
		return "editing"
	}
	return "viewing"
}

// Row is one entity row. Rows are independent: any number of rows in a list
// may be editing at the same time, each with its own draft.
type Row struct {
	ID   int64
	Name string

	phase   Phase
	draft   string
	pending bool
}

func NewRow(id int64, name string) Row {
	return Row{ID: id, Name: name}
}

func (r *Row) Phase() Phase  { return r.phase }
func (r *Row) Draft() string { return r.draft }
func (r *Row) Pending() bool { return r.pending }

// BeginEdit enters editing with the draft seeded from the current name.
// Editing an already-editing row keeps the existing draft.
func (r *Row) BeginEdit() {
	if r.phase == Editing {
		return
	}
	r.phase = Editing
	r.draft = r.Name
}

// CancelEdit discards the draft and returns to viewing. In-flight saves are
// not cancelled; their completion calls still apply.
func (r *Row) CancelEdit() {
	r.phase = Viewing
	r.draft = ""
}

func (r *Row) SetDraft(s string) {
	if r.phase == Editing {
		r.draft = s
	}
}

// BeginSave validates the draft and marks the row pending. It returns the
// trimmed name to submit. There is no dirty check: saving an unchanged name
// still submits. Empty drafts and double submissions are refused before any
// request happens.
func (r *Row) BeginSave() (string, error) {
	if r.phase != Editing {
		return "", errors.New("row is not editing")
	}
	if r.pending {
		return "", ErrInFlight
	}
	name := strings.TrimSpace(r.draft)
	if name == "" {
		return "", ErrEmptyName
	}
	r.pending = true
	return name, nil
}

// SaveOK applies the saved name in place and returns to viewing.
func (r *Row) SaveOK(name string) {
	r.Name = name
	r.phase = Viewing
	r.draft = ""
	r.pending = false
}

// SaveFailed clears the pending flag; the row stays editing with its draft
// so the user can retry or cancel.
func (r *Row) SaveFailed() {
	r.pending = false
}

// BeginDelete marks the row pending for deletion. Deletion happens from
// viewing (the confirmation prompt is the UI's concern).
func (r *Row) BeginDelete() error {
	if r.pending {
		return ErrInFlight
	}
	r.pending = true
	return nil
}

// DeleteFailed clears the pending flag; the row is unchanged. There is no
// DeleteOK: a successful delete removes the row by re-fetching the list.
func (r *Row) DeleteFailed() {
	r.pending = false
}

// Rows builds a fresh slice of viewing rows from ids and names.
func Rows(ids []int64, names []string) []Row {
	out := make([]Row, 0, len(ids))
	for i := range ids {
		out = append(out, NewRow(ids[i], names[i]))
	}
	return out
}

// ByID returns a pointer to the row with the given id, or nil.
func ByID(rows []Row, id int64) *Row {
	for i := range rows {
		if rows[i].ID == id {
			return &rows[i]
		}
	}
	return nil
}
