package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"curator-cli/internal/model"
)

func TestRenameCategory_PostsFormWithSessionCookie(t *testing.T) {
	t.Parallel()

	var got struct {
		method, path, contentType, cookie string
		form                              map[string]string
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		got.contentType = r.Header.Get("Content-Type")
		if ck, err := r.Cookie("admin_session"); err == nil {
			got.cookie = ck.Value
		}
		_ = r.ParseForm()
		got.form = map[string]string{
			"category_id": r.PostFormValue("category_id"),
			"name":        r.PostFormValue("name"),
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "sess-123")
	if err := c.RenameCategory(context.Background(), 7, "Technology"); err != nil {
		t.Fatalf("RenameCategory: %v", err)
	}

	if got.method != http.MethodPost || got.path != "/admin/api/category_update" {
		t.Fatalf("request = %s %s, want POST /admin/api/category_update", got.method, got.path)
	}
	if !strings.HasPrefix(got.contentType, "application/x-www-form-urlencoded") {
		t.Fatalf("content type = %q", got.contentType)
	}
	if got.cookie != "sess-123" {
		t.Fatalf("session cookie = %q, want sess-123", got.cookie)
	}
	if got.form["category_id"] != "7" || got.form["name"] != "Technology" {
		t.Fatalf("form = %#v", got.form)
	}
}

func TestPostForm_FailureMessagePrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		httpStatus int
		body       string
		wantText   string
	}{
		{
			name:       "message wins over detail",
			httpStatus: http.StatusBadRequest,
			body:       `{"status":"error","message":"in use","detail":"category 7 has posts"}`,
			wantText:   "in use",
		},
		{
			name:       "detail when no message",
			httpStatus: http.StatusBadRequest,
			body:       `{"status":"error","detail":"category 7 has posts"}`,
			wantText:   "category 7 has posts",
		},
		{
			name:       "generic when neither",
			httpStatus: http.StatusInternalServerError,
			body:       `{"status":"error"}`,
			wantText:   genericFailure,
		},
		{
			name:       "http ok but envelope not ok",
			httpStatus: http.StatusOK,
			body:       `{"status":"error","message":"duplicate name"}`,
			wantText:   "duplicate name",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.httpStatus)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := New(srv.URL, "").DeleteCategory(context.Background(), 7)
			if err == nil {
				t.Fatalf("expected error")
			}
			var ae *Error
			if !errors.As(err, &ae) {
				t.Fatalf("error type = %T, want *Error", err)
			}
			if got := UserMessage(err); got != tt.wantText {
				t.Fatalf("UserMessage = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestPostForm_NonJSONBodyIsDecodeError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html><body>Bad Gateway</body></html>"))
	}))
	defer srv.Close()

	err := New(srv.URL, "").CreateCategory(context.Background(), "Tech", "", "")
	if err == nil {
		t.Fatalf("expected error")
	}
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("error type = %T, want *DecodeError", err)
	}
	if !strings.Contains(de.Body, "Bad Gateway") {
		t.Fatalf("decode error must carry a body snippet, got %q", de.Body)
	}
	if got := UserMessage(err); got != genericFailure {
		t.Fatalf("UserMessage = %q, want generic fallback", got)
	}
}

func TestTopics_QueryAndDecode(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/api/topics" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("category_id"); got != "1" {
			t.Errorf("category_id = %q, want 1", got)
		}
		_, _ = w.Write([]byte(`[{"id":10,"name":"T1","category_id":1}]`))
	}))
	defer srv.Close()

	topics, err := New(srv.URL, "").Topics(context.Background(), 1)
	if err != nil {
		t.Fatalf("Topics: %v", err)
	}
	if len(topics) != 1 || topics[0].ID != 10 || topics[0].Name != "T1" {
		t.Fatalf("topics = %#v", topics)
	}
}

func TestSetPostStatus(t *testing.T) {
	t.Parallel()

	t.Run("sends string status and accepts ok true", func(t *testing.T) {
		t.Parallel()

		var gotPath, gotBody string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			b := make([]byte, r.ContentLength)
			_, _ = r.Body.Read(b)
			gotBody = string(b)
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		defer srv.Close()

		if err := New(srv.URL, "").SetPostStatus(context.Background(), 5, model.StatusPrivate); err != nil {
			t.Fatalf("SetPostStatus: %v", err)
		}
		if gotPath != "/admin/api/posts/5/status" {
			t.Fatalf("path = %q", gotPath)
		}
		if gotBody != `{"status":"private"}` {
			t.Fatalf("body = %q", gotBody)
		}
	})

	t.Run("server rejection carries message", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"invalid status"}`))
		}))
		defer srv.Close()

		err := New(srv.URL, "").SetPostStatus(context.Background(), 5, model.StatusPublic)
		if got := UserMessage(err); got != "invalid status" {
			t.Fatalf("UserMessage = %q, want %q", got, "invalid status")
		}
	})

	t.Run("draft target refused before any request", func(t *testing.T) {
		t.Parallel()

		requests := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
		}))
		defer srv.Close()

		err := New(srv.URL, "").SetPostStatus(context.Background(), 5, model.StatusDraft)
		if !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("err = %v, want ErrInvalidStatus", err)
		}
		if requests != 0 {
			t.Fatalf("requests = %d, want 0", requests)
		}
	})
}

func TestCreatePost_FormFieldsAndID(t *testing.T) {
	t.Parallel()

	var form map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		form = map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostFormValue(k)
		}
		_, _ = w.Write([]byte(`{"status":"ok","id":42}`))
	}))
	defer srv.Close()

	d := PostDraft{
		Title:        "Hello",
		Content:      "# Hi",
		Publish:      true,
		CategoryMode: ModeExisting,
		CategoryID:   1,
		TopicMode:    ModeNew,
		NewTopicName: "Fresh",
		GroupMode:    ModeExisting,
	}
	id, err := New(srv.URL, "").CreatePost(context.Background(), d)
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if id != 42 {
		t.Fatalf("id = %d, want 42", id)
	}

	want := map[string]string{
		"title":             "Hello",
		"content":           "# Hi",
		"action":            "public",
		"category_mode":     "existing",
		"category_id":       "1",
		"new_category_name": "",
		"topic_mode":        "new",
		"topic_id":          "",
		"new_topic_name":    "Fresh",
		"group_mode":        "existing",
		"group_id":          "",
		"new_group_name":    "",
	}
	for k, v := range want {
		if form[k] != v {
			t.Fatalf("form[%q] = %q, want %q (full form %#v)", k, form[k], v, form)
		}
	}
}

func TestPosts_QueryEncoding(t *testing.T) {
	t.Parallel()

	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"posts":[],"page":1,"pages":1,"total":0}`))
	}))
	defer srv.Close()

	st := model.StatusPublic
	_, err := New(srv.URL, "").Posts(context.Background(), PostQuery{
		Q:          "go",
		CategoryID: 1,
		Status:     &st,
		Sort:       "created_asc",
		Page:       2,
		Limit:      20,
	})
	if err != nil {
		t.Fatalf("Posts: %v", err)
	}
	for _, part := range []string{"q=go", "category_id=1", "status=public", "sort=created_asc", "page=2", "limit=20"} {
		if !strings.Contains(gotQuery, part) {
			t.Fatalf("query %q missing %q", gotQuery, part)
		}
	}
	if strings.Contains(gotQuery, "topic_id") || strings.Contains(gotQuery, "group_id") {
		t.Fatalf("zero filters must be omitted, got %q", gotQuery)
	}
}

func TestUserMessage_TransportFailureIsGeneric(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	err := New(srv.URL, "").DeleteGroup(context.Background(), 1)
	if err == nil {
		t.Fatalf("expected transport error")
	}
	if got := UserMessage(err); got != genericFailure {
		t.Fatalf("UserMessage = %q, want generic fallback", got)
	}
}
