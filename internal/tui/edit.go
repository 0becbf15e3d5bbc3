package tui

import (
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/contacts/internal/database/repository"
)

var editFields = []struct {
	name, label, placeholder string
}{
	{"first", "First", "First"},
	{"last", "Last", "Last"},
	{"twitter", "Twitter", "@jack"},
	{"avatar", "Avatar", "https://example.com/avatar.jpg"},
}

// editForm is the contact edit page. The last focus slot is the notes area.
type editForm struct {
	id     string
	inputs []textinput.Model
	notes  textarea.Model
	focus  int
}

func newEditForm(c repository.Contact, width int) *editForm {
	values := []string{c.First, c.Last, c.Twitter, c.Avatar}
	f := &editForm{id: c.ID}
	for i, field := range editFields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = field.placeholder
		ti.Cursor.SetMode(cursor.CursorStatic)
		ti.SetValue(values[i])
		f.inputs = append(f.inputs, ti)
	}
	f.notes = textarea.New()
	f.notes.Placeholder = "Notes (markdown)"
	f.notes.ShowLineNumbers = false
	f.notes.Cursor.SetMode(cursor.CursorStatic)
	f.notes.SetValue(c.Notes)
	f.resize(width)
	f.setFocus(0)
	return f
}

func (f *editForm) resize(width int) {
	w := max(20, width-labelWidth)
	for i := range f.inputs {
		f.inputs[i].Width = w
	}
	f.notes.SetWidth(w)
	f.notes.SetHeight(6)
}

func (f *editForm) setFocus(i int) {
	n := len(f.inputs) + 1
	f.focus = ((i % n) + n) % n
	for j := range f.inputs {
		if j == f.focus {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	if f.focus == len(f.inputs) {
		f.notes.Focus()
	} else {
		f.notes.Blur()
	}
}

func (f *editForm) next() { f.setFocus(f.focus + 1) }
func (f *editForm) prev() { f.setFocus(f.focus - 1) }

func (f *editForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.focus == len(f.inputs) {
		f.notes, cmd = f.notes.Update(msg)
		return cmd
	}
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// values is the submitted form.
func (f *editForm) values() url.Values {
	form := url.Values{}
	for i, field := range editFields {
		form.Set(field.name, f.inputs[i].Value())
	}
	form.Set("notes", f.notes.Value())
	return form
}

func (f *editForm) view() string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Edit contact"))
	b.WriteString("\n\n")
	for i, field := range editFields {
		b.WriteString(labelStyle.Render(field.label))
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render("Notes"))
	b.WriteString("\n")
	b.WriteString(f.notes.View())
	return b.String()
}
