package tui

import (
	"errors"
	"fmt"
	"strings"

	"curator-cli/internal/api"
	"curator-cli/internal/model"
	"curator-cli/internal/taxonomy"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type formField int

const (
	fieldTitle formField = iota
	fieldContent
	fieldAction
	fieldCategory
	fieldTopic
	fieldGroup
	fieldCount
)

const formLabelW = 10

// taxonomyField is one level of the linked category/topic/group controls.
// In existing mode the user cycles through options; in new mode a free-text
// name is entered instead.
type taxonomyField struct {
	label   string
	mode    string
	options []formOption
	idx     int
	input   textinput.Model
}

type formOption struct {
	id   int64
	name string
}

func newTaxonomyField(label string) taxonomyField {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 120
	return taxonomyField{label: label, mode: api.ModeExisting, input: ti}
}

// setOptions replaces the option list. preferID moves the cursor onto a known
// id (edit form opening on the post's current taxonomy); otherwise the first
// entry is selected. Empty options force new mode: there is nothing to pick.
func (f *taxonomyField) setOptions(opts []formOption, preferID int64) {
	f.options = opts
	f.idx = 0
	if preferID != 0 {
		for i, o := range opts {
			if o.id == preferID {
				f.idx = i
				break
			}
		}
	}
	if len(opts) == 0 {
		f.mode = api.ModeNew
	}
}

func (f *taxonomyField) current() (formOption, bool) {
	if len(f.options) == 0 || f.idx < 0 || f.idx >= len(f.options) {
		return formOption{}, false
	}
	return f.options[f.idx], true
}

type postForm struct {
	editingID int64
	catalog   model.Catalog

	title   textinput.Model
	content textarea.Model
	publish bool

	category taxonomyField
	topic    taxonomyField
	group    taxonomyField

	focus   formField
	saving  bool
	errText string
}

func newPostForm(catalog model.Catalog, p *model.Post) *postForm {
	f := &postForm{catalog: catalog}

	f.title = textinput.New()
	f.title.Prompt = ""
	f.title.Placeholder = "title"
	f.title.CharLimit = 300

	f.content = textarea.New()
	f.content.Placeholder = "markdown content"
	f.content.ShowLineNumbers = false
	f.content.CharLimit = 0

	f.category = newTaxonomyField("category")
	f.topic = newTaxonomyField("topic")
	f.group = newTaxonomyField("group")

	var wantCat, wantTopic, wantGroup int64
	if p != nil {
		f.editingID = p.ID
		f.title.SetValue(p.Title)
		f.content.SetValue(p.Content)
		f.publish = p.Status == model.StatusPublic
		if p.CategoryID != nil {
			wantCat = *p.CategoryID
		}
		if p.TopicID != nil {
			wantTopic = *p.TopicID
		}
		if p.GroupID != nil {
			wantGroup = *p.GroupID
		}
	}

	opts := make([]formOption, len(catalog.Categories))
	for i, c := range catalog.Categories {
		opts[i] = formOption{id: c.ID, name: c.Name}
	}
	f.category.setOptions(opts, wantCat)
	f.repopulateTopics(wantTopic, wantGroup)

	f.focus = fieldTitle
	f.title.Focus()
	return f
}

// repopulateTopics refills the topic options for the chosen category, then
// the group options from whatever topic ends up selected. This is the linked
// cascade: category changes ripple through both lower levels.
func (f *postForm) repopulateTopics(preferTopic, preferGroup int64) {
	var opts []formOption
	if f.category.mode == api.ModeExisting {
		if cat, ok := f.category.current(); ok {
			for _, t := range taxonomy.TopicsFor(cat.id, f.catalog.Topics) {
				opts = append(opts, formOption{id: t.ID, name: t.Name})
			}
		}
	}
	f.topic.setOptions(opts, preferTopic)
	f.repopulateGroups(preferGroup)
}

func (f *postForm) repopulateGroups(preferGroup int64) {
	var opts []formOption
	if f.topic.mode == api.ModeExisting {
		if t, ok := f.topic.current(); ok {
			for _, g := range taxonomy.GroupsFor(t.id, f.catalog.Groups) {
				opts = append(opts, formOption{id: g.ID, name: g.Name})
			}
		}
	}
	f.group.setOptions(opts, preferGroup)
}

func (f *postForm) fieldFor(level formField) *taxonomyField {
	switch level {
	case fieldTopic:
		return &f.topic
	case fieldGroup:
		return &f.group
	default:
		return &f.category
	}
}

func (f *postForm) cascadeFrom(level formField) {
	switch level {
	case fieldCategory:
		f.repopulateTopics(0, 0)
	case fieldTopic:
		f.repopulateGroups(0)
	}
}

func (f *postForm) cycleFocus(delta int) tea.Cmd {
	f.blurFocused()
	n := int(fieldCount)
	f.focus = formField((int(f.focus) + delta + n) % n)
	return f.focusFocused()
}

func (f *postForm) blurFocused() {
	switch f.focus {
	case fieldTitle:
		f.title.Blur()
	case fieldContent:
		f.content.Blur()
	case fieldCategory, fieldTopic, fieldGroup:
		f.fieldFor(f.focus).input.Blur()
	}
}

func (f *postForm) focusFocused() tea.Cmd {
	switch f.focus {
	case fieldTitle:
		return f.title.Focus()
	case fieldContent:
		return f.content.Focus()
	case fieldCategory, fieldTopic, fieldGroup:
		fld := f.fieldFor(f.focus)
		if fld.mode == api.ModeNew {
			return fld.input.Focus()
		}
	}
	return nil
}

// draft validates and assembles the submit payload. No request goes out while
// any of these checks fail.
func (f *postForm) draft() (api.PostDraft, error) {
	d := api.PostDraft{
		Title:   strings.TrimSpace(f.title.Value()),
		Content: f.content.Value(),
		Publish: f.publish,
	}
	if d.Title == "" {
		return d, errors.New("title is required")
	}

	d.CategoryMode = f.category.mode
	if f.category.mode == api.ModeNew {
		d.NewCategoryName = strings.TrimSpace(f.category.input.Value())
		if d.NewCategoryName == "" {
			return d, errors.New("category name is required")
		}
	} else {
		opt, ok := f.category.current()
		if !ok {
			return d, errors.New("pick a category")
		}
		d.CategoryID = opt.id
	}

	d.TopicMode = f.topic.mode
	if f.topic.mode == api.ModeNew {
		d.NewTopicName = strings.TrimSpace(f.topic.input.Value())
		if d.NewTopicName == "" {
			return d, errors.New("topic name is required")
		}
	} else {
		opt, ok := f.topic.current()
		if !ok {
			return d, errors.New("pick a topic")
		}
		d.TopicID = opt.id
	}

	d.GroupMode = f.group.mode
	if f.group.mode == api.ModeNew {
		d.NewGroupName = strings.TrimSpace(f.group.input.Value())
		if d.NewGroupName == "" {
			return d, errors.New("group name is required")
		}
	} else {
		opt, ok := f.group.current()
		if !ok {
			return d, errors.New("pick a group")
		}
		d.GroupID = opt.id
	}
	return d, nil
}

func (f *postForm) usedNewTaxonomy() bool {
	return f.category.mode == api.ModeNew || f.topic.mode == api.ModeNew || f.group.mode == api.ModeNew
}

func (m appModel) updatePostForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	if f == nil {
		m.view = m.formReturn
		return m, nil
	}

	switch msg.String() {
	case "esc", "ctrl+g":
		// Leaving does not cancel an in-flight save; its result surfaces in
		// the minibuffer.
		m.form = nil
		m.view = m.formReturn
		return m, nil
	case "tab":
		return m, f.cycleFocus(1)
	case "shift+tab":
		return m, f.cycleFocus(-1)
	case "ctrl+s":
		if f.saving {
			return m, nil
		}
		draft, err := f.draft()
		if err != nil {
			f.errText = err.Error()
			return m, nil
		}
		f.saving = true
		f.errText = ""
		m.taxonomyDirty = f.usedNewTaxonomy()
		return m, m.savePostCmd(f.editingID, draft)
	}

	switch f.focus {
	case fieldTitle:
		var cmd tea.Cmd
		f.title, cmd = f.title.Update(msg)
		return m, cmd
	case fieldContent:
		var cmd tea.Cmd
		f.content, cmd = f.content.Update(msg)
		return m, cmd
	case fieldAction:
		switch msg.String() {
		case " ", "enter", "left", "right", "h", "l":
			f.publish = !f.publish
		}
		return m, nil
	default:
		return m.updateFormTaxonomy(f.focus, msg)
	}
}

func (m appModel) updateFormTaxonomy(level formField, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	fld := f.fieldFor(level)
	key := msg.String()

	if key == "ctrl+t" {
		if fld.mode == api.ModeExisting {
			fld.mode = api.ModeNew
			cmd := fld.input.Focus()
			f.cascadeFrom(level)
			return m, cmd
		}
		if len(fld.options) > 0 {
			fld.mode = api.ModeExisting
			fld.input.Blur()
			f.cascadeFrom(level)
		}
		return m, nil
	}

	if fld.mode == api.ModeExisting {
		switch key {
		case "left", "h", "up", "k":
			if fld.idx > 0 {
				fld.idx--
				f.cascadeFrom(level)
			}
		case "right", "l", "down", "j":
			if fld.idx < len(fld.options)-1 {
				fld.idx++
				f.cascadeFrom(level)
			}
		case "n":
			fld.mode = api.ModeNew
			cmd := fld.input.Focus()
			f.cascadeFrom(level)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	fld.input, cmd = fld.input.Update(msg)
	return m, cmd
}

// Rendering.

func (m appModel) renderPostFormBody(width, height int) string {
	f := m.form
	if f == nil {
		return normalizePane("", width, height)
	}

	var b strings.Builder
	heading := "new post"
	if f.editingID != 0 {
		heading = fmt.Sprintf("edit post #%d", f.editingID)
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(heading))
	b.WriteString("\n\n")

	b.WriteString(f.renderLine(fieldTitle, "TITLE", f.title.View()))
	b.WriteString("\n")
	b.WriteString(f.renderLabel(fieldContent, "CONTENT"))
	b.WriteString("\n")
	b.WriteString(f.content.View())
	b.WriteString("\n")
	b.WriteString(f.renderLine(fieldAction, "ACTION", f.renderAction()))
	b.WriteString("\n")
	b.WriteString(f.renderTaxonomyLine(fieldCategory))
	b.WriteString("\n")
	b.WriteString(f.renderTaxonomyLine(fieldTopic))
	b.WriteString("\n")
	b.WriteString(f.renderTaxonomyLine(fieldGroup))
	b.WriteString("\n\n")

	switch {
	case f.saving:
		b.WriteString(styleMuted().Render("saving " + glyphPending()))
	case f.errText != "":
		b.WriteString(styleError().Render(f.errText))
	case f.editingID != 0:
		b.WriteString(styleMuted().Render("saved edits return to draft until re-published"))
	}

	return normalizePane(b.String(), width, height)
}

func (f *postForm) renderLabel(field formField, label string) string {
	st := styleMuted().Bold(true)
	if f.focus == field {
		st = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	}
	return st.Render(fmt.Sprintf("%-*s", formLabelW, label))
}

func (f *postForm) renderLine(field formField, label, value string) string {
	return f.renderLabel(field, label) + " " + value
}

func (f *postForm) renderAction() string {
	if f.publish {
		return "public on save  (space flips)"
	}
	return "draft on save  (space flips)"
}

func (f *postForm) renderTaxonomyLine(level formField) string {
	fld := f.fieldFor(level)
	focused := f.focus == level

	var val string
	switch {
	case fld.mode == api.ModeNew:
		if focused {
			val = "new: " + fld.input.View()
		} else {
			val = "new: " + fld.input.Value()
		}
	default:
		opt, ok := fld.current()
		if !ok {
			val = styleMuted().Render("(none)")
			break
		}
		name := displayName(opt.name)
		if focused {
			val = fmt.Sprintf("%s  (%d/%d)", name, fld.idx+1, len(fld.options))
		} else {
			val = name
		}
	}
	return f.renderLine(level, strings.ToUpper(fld.label), val)
}
