package tui

import (
	"curator-cli/internal/api"
	"curator-cli/internal/model"
)

type viewKind int

const (
	viewTaxonomy viewKind = iota
	viewPosts
	viewPostDetail
	viewPostForm
)

func (v viewKind) String() string {
	switch v {
	case viewPosts:
		return "posts"
	case viewPostDetail:
		return "post"
	case viewPostForm:
		return "form"
	default:
		return "taxonomy"
	}
}

type columnKind int

const (
	columnCategories columnKind = iota
	columnTopics
	columnGroups
)

// entityKind returns the journal/history kind for a column.
func (c columnKind) entityKind() string {
	switch c {
	case columnTopics:
		return "topic"
	case columnGroups:
		return "group"
	default:
		return "category"
	}
}

func (c columnKind) label() string {
	switch c {
	case columnTopics:
		return "topic"
	case columnGroups:
		return "group"
	default:
		return "category"
	}
}

type modalKind int

const (
	modalNone modalKind = iota
	modalNewRow
	modalConfirmDeleteRow
	modalConfirmDeletePost
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

type mutationOp int

const (
	opCreate mutationOp = iota
	opRename
	opDelete
)

// tickMsg drives periodic chores (minibuffer auto-clear).
type tickMsg struct{}

// taxonomyLoadedMsg carries the full catalog (categories + topics + groups).
type taxonomyLoadedMsg struct {
	catalog model.Catalog
	err     error
}

// topicsLoadedMsg carries the topics fetched for one category. The categoryID
// lets the update loop drop responses for a category that is no longer
// selected (last selection wins).
type topicsLoadedMsg struct {
	categoryID int64
	topics     []model.Topic
	err        error
}

type groupsLoadedMsg struct {
	topicID int64
	groups  []model.Group
	err     error
}

// mutationDoneMsg reports a taxonomy create/rename/delete round trip.
type mutationDoneMsg struct {
	op       mutationOp
	column   columnKind
	entityID int64
	name     string
	err      error
}

// statusSavedMsg reports the status-confirmation round trip for one post.
// prior is the state to restore when the server refuses.
type statusSavedMsg struct {
	postID int64
	target model.Status
	prior  model.Status
	err    error
}

// postsLoadedMsg carries one page of the post table. seq guards against a
// response for an outdated query overwriting a newer one.
type postsLoadedMsg struct {
	page api.PostPage
	seq  int
	err  error
}

type postLoadedMsg struct {
	post model.Post
	err  error
}

type postSavedMsg struct {
	id      int64
	created bool
	err     error
}

type postDeletedMsg struct {
	id  int64
	err error
}
