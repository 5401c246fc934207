package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"curator-cli/internal/model"
)

// Taxonomy level modes on the post form: pick an existing entity or name a
// new one. These are the wire values of the *_mode form fields.
const (
	ModeExisting = "existing"
	ModeNew      = "new"
)

// PostQuery mirrors the admin post table's query parameters. Zero values
// mean "no filter" and are omitted from the request.
type PostQuery struct {
	Q          string
	CategoryID int64
	TopicID    int64
	GroupID    int64
	Status     *model.Status
	Sort       string // created_desc (default) | created_asc
	Page       int    // 1-based
	Limit      int
}

func (q PostQuery) values() url.Values {
	v := url.Values{}
	if q.Q != "" {
		v.Set("q", q.Q)
	}
	if q.CategoryID > 0 {
		v.Set("category_id", strconv.FormatInt(q.CategoryID, 10))
	}
	if q.TopicID > 0 {
		v.Set("topic_id", strconv.FormatInt(q.TopicID, 10))
	}
	if q.GroupID > 0 {
		v.Set("group_id", strconv.FormatInt(q.GroupID, 10))
	}
	if q.Status != nil {
		v.Set("status", q.Status.String())
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

type PostPage struct {
	Posts []model.Post `json:"posts"`
	Page  int          `json:"page"`
	Pages int          `json:"pages"`
	Total int          `json:"total"`
}

func (c *Client) Posts(ctx context.Context, q PostQuery) (PostPage, error) {
	path := "/admin/api/posts"
	if enc := q.values().Encode(); enc != "" {
		path += "?" + enc
	}
	var out PostPage
	if err := c.getJSON(ctx, path, &out); err != nil {
		return PostPage{}, err
	}
	return out, nil
}

// Post fetches one post including its content.
func (c *Client) Post(ctx context.Context, id int64) (model.Post, error) {
	var out model.Post
	if err := c.getJSON(ctx, fmt.Sprintf("/admin/api/posts/%d", id), &out); err != nil {
		return model.Post{}, err
	}
	return out, nil
}

// PostDraft is the create/edit form payload. Each taxonomy level carries a
// mode plus either a picked id or a new name; all fields are posted, the
// server reads the side the mode selects.
type PostDraft struct {
	Title   string
	Content string
	// Publish posts action=public, otherwise action=draft. The server stores
	// action=draft as private on create, and resets any edited post to draft
	// regardless of the action sent.
	Publish bool

	CategoryMode    string
	CategoryID      int64
	NewCategoryName string

	TopicMode    string
	TopicID      int64
	NewTopicName string

	GroupMode    string
	GroupID      int64
	NewGroupName string
}

func modeOr(m string) string {
	if m == ModeNew {
		return ModeNew
	}
	return ModeExisting
}

func (d PostDraft) formFields() url.Values {
	f := url.Values{}
	f.Set("title", d.Title)
	f.Set("content", d.Content)
	if d.Publish {
		f.Set("action", "public")
	} else {
		f.Set("action", "draft")
	}
	f.Set("category_mode", modeOr(d.CategoryMode))
	f.Set("category_id", idField(d.CategoryID))
	f.Set("new_category_name", d.NewCategoryName)
	f.Set("topic_mode", modeOr(d.TopicMode))
	f.Set("topic_id", idField(d.TopicID))
	f.Set("new_topic_name", d.NewTopicName)
	f.Set("group_mode", modeOr(d.GroupMode))
	f.Set("group_id", idField(d.GroupID))
	f.Set("new_group_name", d.NewGroupName)
	return f
}

// CreatePost returns the created post's id from the envelope.
func (c *Client) CreatePost(ctx context.Context, d PostDraft) (int64, error) {
	env, err := c.postForm(ctx, "/admin/api/posts/new", d.formFields())
	if err != nil {
		return 0, err
	}
	return env.ID, nil
}

func (c *Client) UpdatePost(ctx context.Context, id int64, d PostDraft) error {
	_, err := c.postForm(ctx, fmt.Sprintf("/admin/api/posts/%d/edit", id), d.formFields())
	return err
}

func (c *Client) DeletePost(ctx context.Context, id int64) error {
	_, err := c.postForm(ctx, fmt.Sprintf("/admin/api/posts/%d/delete", id), url.Values{})
	return err
}
