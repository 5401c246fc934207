// Package api is the HTTP client for the blog admin API. Mutations POST
// form fields and share one JSON success envelope ({"status":"ok", ...});
// list endpoints are plain JSON GETs; the post status confirmation endpoint
// POSTs JSON and answers {"ok":true}.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"curator-cli/internal/model"
)

const (
	sessionCookie  = "admin_session"
	defaultTimeout = 15 * time.Second

	// Responses are small JSON documents; cap reads so a misbehaving server
	// cannot balloon memory.
	maxBodyBytes   = 1 << 20
	bodySnippetLen = 200
)

type Client struct {
	BaseURL string
	// Session is the pre-acquired admin session cookie value. The client
	// never performs a login flow.
	Session    string
	HTTPClient *http.Client
}

func New(baseURL, session string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		Session:    session,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

func (c *Client) httpc() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.Session != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: c.Session})
	}
	return req, nil
}

// envelope is the uniform mutation response. Creates also return the new id.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
	ID      int64  `json:"id"`
}

// postForm submits form fields and checks the envelope. The body is read as
// text first and then parsed, so an unparseable body surfaces as a
// DecodeError regardless of HTTP status, while a parsed failure carries the
// server's message/detail.
func (c *Client) postForm(ctx context.Context, path string, fields url.Values) (envelope, error) {
	req, err := c.newRequest(ctx, http.MethodPost, path, strings.NewReader(fields.Encode()))
	if err != nil {
		return envelope{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpc().Do(req)
	if err != nil {
		return envelope{}, fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return envelope{}, fmt.Errorf("read %s response: %w", path, err)
	}

	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return envelope{}, &DecodeError{Endpoint: path, Status: resp.StatusCode, Body: snippet(b)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || env.Status != "ok" {
		return envelope{}, &Error{Endpoint: path, Status: resp.StatusCode, Message: env.Message, Detail: env.Detail}
	}
	return env, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc().Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env envelope
		if json.Unmarshal(b, &env) != nil {
			return &DecodeError{Endpoint: path, Status: resp.StatusCode, Body: snippet(b)}
		}
		return &Error{Endpoint: path, Status: resp.StatusCode, Message: env.Message, Detail: env.Detail}
	}
	if err := json.Unmarshal(b, out); err != nil {
		return &DecodeError{Endpoint: path, Status: resp.StatusCode, Body: snippet(b)}
	}
	return nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > bodySnippetLen {
		s = s[:bodySnippetLen] + "..."
	}
	return s
}

func idField(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

// Taxonomy fetches the full catalog backing the post form's static filter
// and the taxonomy screen's category list.
func (c *Client) Taxonomy(ctx context.Context) (model.Catalog, error) {
	var out model.Catalog
	if err := c.getJSON(ctx, "/admin/api/taxonomy", &out); err != nil {
		return model.Catalog{}, err
	}
	return out, nil
}

// Topics fetches the child topics of one category. Child lists are always
// fetched fresh on selection; nothing is cached client-side.
func (c *Client) Topics(ctx context.Context, categoryID int64) ([]model.Topic, error) {
	q := url.Values{}
	q.Set("category_id", strconv.FormatInt(categoryID, 10))
	var out []model.Topic
	if err := c.getJSON(ctx, "/admin/api/topics?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Groups(ctx context.Context, topicID int64) ([]model.Group, error) {
	q := url.Values{}
	q.Set("topic_id", strconv.FormatInt(topicID, 10))
	var out []model.Group
	if err := c.getJSON(ctx, "/admin/api/groups?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCategory creates a category, optionally chain-creating a first topic
// and group under it when their names are non-empty. The empty fields are
// still posted; the server ignores blanks.
func (c *Client) CreateCategory(ctx context.Context, name, topicName, groupName string) error {
	f := url.Values{}
	f.Set("category_name", name)
	f.Set("topic_name", topicName)
	f.Set("group_name", groupName)
	_, err := c.postForm(ctx, "/admin/api/category_create", f)
	return err
}

func (c *Client) RenameCategory(ctx context.Context, id int64, name string) error {
	f := url.Values{}
	f.Set("category_id", strconv.FormatInt(id, 10))
	f.Set("name", name)
	_, err := c.postForm(ctx, "/admin/api/category_update", f)
	return err
}

// DeleteCategory deletes a category; the server cascades to its topics and
// groups, or refuses with a message when posts still use them.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	f := url.Values{}
	f.Set("category_id", strconv.FormatInt(id, 10))
	_, err := c.postForm(ctx, "/admin/api/category_delete", f)
	return err
}

func (c *Client) CreateTopic(ctx context.Context, categoryID int64, name string) error {
	f := url.Values{}
	f.Set("category_id", strconv.FormatInt(categoryID, 10))
	f.Set("name", name)
	_, err := c.postForm(ctx, "/admin/api/topic_create", f)
	return err
}

func (c *Client) RenameTopic(ctx context.Context, id int64, name string) error {
	f := url.Values{}
	f.Set("topic_id", strconv.FormatInt(id, 10))
	f.Set("name", name)
	_, err := c.postForm(ctx, "/admin/api/topic_update", f)
	return err
}

func (c *Client) DeleteTopic(ctx context.Context, id int64) error {
	f := url.Values{}
	f.Set("topic_id", strconv.FormatInt(id, 10))
	_, err := c.postForm(ctx, "/admin/api/topic_delete", f)
	return err
}

func (c *Client) CreateGroup(ctx context.Context, topicID int64, name string) error {
	f := url.Values{}
	f.Set("topic_id", strconv.FormatInt(topicID, 10))
	f.Set("name", name)
	_, err := c.postForm(ctx, "/admin/api/group_create", f)
	return err
}

func (c *Client) RenameGroup(ctx context.Context, id int64, name string) error {
	f := url.Values{}
	f.Set("group_id", strconv.FormatInt(id, 10))
	f.Set("name", name)
	_, err := c.postForm(ctx, "/admin/api/group_update", f)
	return err
}

func (c *Client) DeleteGroup(ctx context.Context, id int64) error {
	f := url.Values{}
	f.Set("group_id", strconv.FormatInt(id, 10))
	_, err := c.postForm(ctx, "/admin/api/group_delete", f)
	return err
}

// SetPostStatus confirms an optimistic toggle. This endpoint's success shape
// is {"ok":true}, not the form envelope. Targets outside public/private are
// refused locally.
func (c *Client) SetPostStatus(ctx context.Context, id int64, target model.Status) error {
	if !target.Toggleable() {
		return fmt.Errorf("set post %d status to %s: %w", id, target, ErrInvalidStatus)
	}
	path := fmt.Sprintf("/admin/api/posts/%d/status", id)

	body, err := json.Marshal(map[string]string{"status": target.String()})
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc().Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}
	var out struct {
		OK      bool   `json:"ok"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return &DecodeError{Endpoint: path, Status: resp.StatusCode, Body: snippet(b)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || !out.OK {
		return &Error{Endpoint: path, Status: resp.StatusCode, Message: out.Message, Detail: out.Detail}
	}
	return nil
}
