package tui

import (
	"strings"
	"time"

	"curator-cli/internal/api"
	"curator-cli/internal/model"
	"curator-cli/internal/rowedit"
	"curator-cli/internal/store"
	"curator-cli/internal/taxonomy"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	minibufferAutoClearAfter = 4 * time.Second
	columnGapW               = 2
	// header + gap + minibuffer + footer
	chromeLines = 4

	defaultSort = "created_desc"
)

type postsState struct {
	list    list.Model
	query   api.PostQuery
	page    api.PostPage
	loading bool
	loadSeq int
	errText string

	search    textinput.Model
	searching bool
	// scopeLabel names the taxonomy filter the table was opened with, for
	// the status line. The ids live in query.
	scopeLabel string

	// togglePending holds the prior status of posts whose optimistic status
	// change is awaiting confirmation. Further toggles on those posts are
	// ignored until the confirmation lands.
	togglePending map[int64]model.Status
}

type appModel struct {
	client  *api.Client
	journal store.Journal

	width  int
	height int
	// We treat the very first WindowSizeMsg as "initial sizing" rather than a
	// user-driven resize.
	seenWindowSize bool

	view viewKind

	// Taxonomy browser state.
	catalog       model.Catalog
	catalogLoaded bool
	taxonomyErr   string
	sel           taxonomy.Selection
	focusedCol    columnKind

	catRows   []rowedit.Row
	topicRows []rowedit.Row
	groupRows []rowedit.Row
	catIdx    int
	topicIdx  int
	groupIdx  int

	topics        []model.Topic
	groups        []model.Group
	topicsLoading bool
	groupsLoading bool

	// rowInput carries the live draft of the editing row under the cursor.
	// Other editing rows keep their drafts in rowedit.Row; the input is
	// re-seeded whenever the cursor lands on a different editing row.
	rowInput      textinput.Model
	activeEditCol columnKind
	activeEditID  int64
	hasActiveEdit bool

	// Selection to re-apply once the catalog arrives (state restore).
	restoreCategoryID int64
	restoreTopicID    int64

	// Modal state.
	modal        modalKind
	modalCol     columnKind
	modalRowID   int64
	modalRowName string
	modalPostID  int64
	// modalPending blocks a second submit while the modal's request is in
	// flight; the modal stays open on failure so the typed name survives.
	modalPending bool
	input        textinput.Model
	confirmFocus confirmModalFocus

	posts postsState

	openPostID int64
	openPost   *model.Post
	detail     viewport.Model
	detailErr  string
	// formAfterLoad opens the edit form once the full post (the table rows
	// omit content) arrives.
	formAfterLoad bool
	// formReturn is where ESC from the form goes back to.
	formReturn viewKind

	form *postForm
	// taxonomyDirty is set when a submitted post draft created taxonomy rows,
	// so the catalog is reloaded after the save lands.
	taxonomyDirty bool

	minibufferText  string
	minibufferIsErr bool
	minibufferSetAt time.Time
}

func newAppModel(client *api.Client, journal store.Journal, st *store.TUIState) appModel {
	m := appModel{
		client:  client,
		journal: journal,
		view:    viewTaxonomy,
	}

	m.rowInput = textinput.New()
	m.rowInput.Prompt = ""

	m.input = textinput.New()
	m.input.Prompt = ""
	m.input.CharLimit = 200

	m.posts.list = newList(nil)
	m.posts.search = textinput.New()
	m.posts.search.Prompt = "/"
	m.posts.search.CharLimit = 200
	m.posts.togglePending = map[int64]model.Status{}
	m.posts.query = api.PostQuery{Sort: defaultSort, Page: 1}

	m.detail = viewport.New(0, 0)

	if st != nil {
		m.applyRestoredState(st)
	}
	if m.view == viewPosts {
		m.posts.loading = true
		m.posts.loadSeq = 1
	}
	return m
}

// applyRestoredState re-opens the last screen. Selection ids are kept aside
// and applied when the catalog load lands; a vanished id degrades to the
// default view state.
func (m *appModel) applyRestoredState(st *store.TUIState) {
	m.restoreCategoryID = st.SelectedCategoryID
	m.restoreTopicID = st.SelectedTopicID

	if st.PostsQuery != "" {
		m.posts.query.Q = st.PostsQuery
	}
	if st.PostsSort != "" {
		m.posts.query.Sort = st.PostsSort
	}
	if st.PostsPage > 1 {
		m.posts.query.Page = st.PostsPage
	}
	if s, err := model.ParseStatus(st.PostsStatus); err == nil {
		m.posts.query.Status = &s
	}

	switch st.View {
	case "posts", "form":
		m.view = viewPosts
	case "post":
		if st.OpenPostID > 0 {
			m.view = viewPostDetail
			m.openPostID = st.OpenPostID
		}
	}
}

func (m appModel) snapshotState() *store.TUIState {
	st := &store.TUIState{
		Version: 1,
		View:    m.view.String(),
	}
	if cat, ok := m.sel.Category(); ok {
		st.SelectedCategoryID = cat.ID
	}
	if t, ok := m.sel.Topic(); ok {
		st.SelectedTopicID = t.ID
	}
	st.OpenPostID = m.openPostID
	st.PostsQuery = m.posts.query.Q
	st.PostsSort = m.posts.query.Sort
	st.PostsPage = m.posts.query.Page
	if m.posts.query.Status != nil {
		st.PostsStatus = m.posts.query.Status.String()
	}
	return st
}

func (m appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadTaxonomyCmd(), tick()}
	switch m.view {
	case viewPosts:
		cmds = append(cmds, m.fetchPostsCmd(m.posts.loadSeq))
	case viewPostDetail:
		cmds = append(cmds, m.loadPostCmd(m.openPostID))
	}
	return tea.Batch(cmds...)
}

func tick() tea.Cmd {
	return tea.Tick(750*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m *appModel) showMinibuffer(text string) {
	m.minibufferText = text
	m.minibufferIsErr = false
	m.minibufferSetAt = time.Now()
}

func (m *appModel) showMinibufferError(text string) {
	m.minibufferText = text
	m.minibufferIsErr = true
	m.minibufferSetAt = time.Now()
}

func (m appModel) bodyHeight() int {
	h := m.height - chromeLines
	if h < 6 {
		h = 6
	}
	return h
}

func (m appModel) bodyWidth() int {
	w := m.width
	if w < 40 {
		w = 40
	}
	return w
}

func (m *appModel) resizeLists() {
	m.posts.list.SetSize(m.bodyWidth()-2, m.bodyHeight()-2)
	m.detail.Width = m.bodyWidth()
	m.detail.Height = m.bodyHeight()
	if m.openPost != nil {
		// Word wrap depends on the pane width.
		m.detail.SetContent(m.renderDetailContent())
	}
	m.sizeForm()
}

func (m *appModel) sizeForm() {
	if m.form == nil {
		return
	}
	w := m.bodyWidth() - formLabelW - 4
	if w > 100 {
		w = 100
	}
	if w < 20 {
		w = 20
	}
	m.form.title.Width = w
	m.form.content.SetWidth(w)
	h := m.bodyHeight() - 12
	if h < 4 {
		h = 4
	}
	if h > 16 {
		h = 16
	}
	m.form.content.SetHeight(h)
}

// Column row accessors. The focused column's rows/cursor drive edit, delete
// and create key handling; mutation results address columns directly.

func (m *appModel) rowsFor(col columnKind) *[]rowedit.Row {
	switch col {
	case columnTopics:
		return &m.topicRows
	case columnGroups:
		return &m.groupRows
	default:
		return &m.catRows
	}
}

func (m *appModel) idxFor(col columnKind) *int {
	switch col {
	case columnTopics:
		return &m.topicIdx
	case columnGroups:
		return &m.groupIdx
	default:
		return &m.catIdx
	}
}

func (m *appModel) focusedRows() *[]rowedit.Row { return m.rowsFor(m.focusedCol) }
func (m *appModel) focusedIdx() *int            { return m.idxFor(m.focusedCol) }

func (m *appModel) focusedRow() *rowedit.Row {
	rows := *m.focusedRows()
	idx := *m.focusedIdx()
	if idx < 0 || idx >= len(rows) {
		return nil
	}
	return &rows[idx]
}

func rowsFromCategories(cats []model.Category) []rowedit.Row {
	ids := make([]int64, len(cats))
	names := make([]string, len(cats))
	for i, c := range cats {
		ids[i] = c.ID
		names[i] = c.Name
	}
	return rowedit.Rows(ids, names)
}

func rowsFromTopics(ts []model.Topic) []rowedit.Row {
	ids := make([]int64, len(ts))
	names := make([]string, len(ts))
	for i, t := range ts {
		ids[i] = t.ID
		names[i] = t.Name
	}
	return rowedit.Rows(ids, names)
}

func rowsFromGroups(gs []model.Group) []rowedit.Row {
	ids := make([]int64, len(gs))
	names := make([]string, len(gs))
	for i, g := range gs {
		ids[i] = g.ID
		names[i] = g.Name
	}
	return rowedit.Rows(ids, names)
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "(unnamed)"
	}
	return name
}

func clampIdx(idx, n int) int {
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}
