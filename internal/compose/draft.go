package compose

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Field identifies one of the draft's structured fields, in navigation order.
type Field int

const (
	FieldTo Field = iota
	FieldFrom
	FieldSubject
	FieldBody

	// FieldCount is the number of navigable fields.
	FieldCount
)

// Label returns the display label for the field.
func (f Field) Label() string {
	switch f {
	case FieldTo:
		return "To"
	case FieldFrom:
		return "From"
	case FieldSubject:
		return "Subject"
	case FieldBody:
		return "Body"
	default:
		return ""
	}
}

// Snapshot is an immutable copy of the draft's field values, taken at
// submission time. The send path only ever sees a Snapshot, never the
// live draft.
type Snapshot struct {
	To      string
	From    string
	Subject string
	Body    string
}

// Draft holds the in-progress outgoing message. Exactly one field is
// focused at a time; character input only applies while that field is in
// the editing sub-state.
type Draft struct {
	headers [3]textinput.Model // to, from, subject
	body    textarea.Model
	focus   Field
	editing bool
}

// New creates an empty draft with focus on the To field, not editing.
func New() *Draft {
	d := &Draft{}

	placeholders := [3]string{"recipient@example.com", "you@example.com", "subject"}
	for i := range d.headers {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[i]
		d.headers[i] = ti
	}

	ta := textarea.New()
	ta.Placeholder = "write your message..."
	ta.ShowLineNumbers = false
	d.body = ta

	return d
}

// Focused returns the field that currently has navigation focus.
func (d *Draft) Focused() Field {
	return d.focus
}

// Editing reports whether the focused field accepts character input.
func (d *Draft) Editing() bool {
	return d.editing
}

// AdvanceFocus moves focus to the next field, wrapping to the first after
// the last. Advancing always leaves the editing sub-state; an active edit
// is never carried to the next field.
func (d *Draft) AdvanceFocus() {
	d.EndEdit()
	d.focus = (d.focus + 1) % FieldCount
}

// BeginEdit puts the focused field into the editing sub-state. It is a
// no-op when the field is already being edited.
func (d *Draft) BeginEdit() tea.Cmd {
	if d.editing {
		return nil
	}
	d.editing = true
	if d.focus == FieldBody {
		return d.body.Focus()
	}
	return d.headers[d.focus].Focus()
}

// EndEdit leaves the editing sub-state. Typed text is kept.
func (d *Draft) EndEdit() {
	if !d.editing {
		return
	}
	d.editing = false
	if d.focus == FieldBody {
		d.body.Blur()
		return
	}
	d.headers[d.focus].Blur()
}

// HandleKey forwards a key press to the focused field. Input is dropped
// unless the draft is in the editing sub-state.
func (d *Draft) HandleKey(msg tea.KeyMsg) tea.Cmd {
	if !d.editing {
		return nil
	}

	var cmd tea.Cmd
	if d.focus == FieldBody {
		d.body, cmd = d.body.Update(msg)
		return cmd
	}
	d.headers[d.focus], cmd = d.headers[d.focus].Update(msg)
	return cmd
}

// Value returns the current text of the given field.
func (d *Draft) Value(f Field) string {
	if f == FieldBody {
		return d.body.Value()
	}
	return d.headers[f].Value()
}

// FieldView renders the given field's input widget.
func (d *Draft) FieldView(f Field) string {
	if f == FieldBody {
		return d.body.View()
	}
	return d.headers[f].View()
}

// SetSize adjusts the input widths to the available content width.
func (d *Draft) SetSize(width, height int) {
	if width < 20 {
		width = 20
	}
	for i := range d.headers {
		d.headers[i].Width = width
	}
	d.body.SetWidth(width)
	if bodyHeight := height - 8; bodyHeight > 2 {
		d.body.SetHeight(bodyHeight)
	}
}

// Snapshot copies the current field values for submission.
func (d *Draft) Snapshot() Snapshot {
	return Snapshot{
		To:      d.Value(FieldTo),
		From:    d.Value(FieldFrom),
		Subject: d.Value(FieldSubject),
		Body:    d.Value(FieldBody),
	}
}
