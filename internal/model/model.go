package model

import (
	"fmt"
	"strings"
	"time"
)

// Status is the publish state of a post. The server stores it as an integer
// and accepts/returns the string form on the status confirmation endpoint.
type Status int

const (
	StatusPublic  Status = 0
	StatusPrivate Status = 1
	StatusDraft   Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusPublic:
		return "public"
	case StatusPrivate:
		return "private"
	case StatusDraft:
		return "draft"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

func (s Status) Valid() bool {
	return s == StatusPublic || s == StatusPrivate || s == StatusDraft
}

// Toggleable reports whether s is a legal target for the status toggle.
// The toggle is binary; draft is a source state only.
func (s Status) Toggleable() bool {
	return s == StatusPublic || s == StatusPrivate
}

func ParseStatus(v string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "public":
		return StatusPublic, nil
	case "private":
		return StatusPrivate, nil
	case "draft":
		return StatusDraft, nil
	default:
		return 0, fmt.Errorf("unknown status: %q", v)
	}
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Topic struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CategoryID int64  `json:"category_id"`
}

type Group struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	TopicID int64  `json:"topic_id"`
}

// Catalog is the full taxonomy as served by /admin/api/taxonomy. The post
// form filters it locally; nothing refetches during form interaction.
type Catalog struct {
	Categories []Category `json:"categories"`
	Topics     []Topic    `json:"topics"`
	Groups     []Group    `json:"groups"`
}

func (c Catalog) CategoryByID(id int64) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

func (c Catalog) TopicByID(id int64) (Topic, bool) {
	for _, t := range c.Topics {
		if t.ID == id {
			return t, true
		}
	}
	return Topic{}, false
}

func (c Catalog) GroupByID(id int64) (Group, bool) {
	for _, g := range c.Groups {
		if g.ID == id {
			return g, true
		}
	}
	return Group{}, false
}

type Post struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
	Status  Status `json:"status"`

	CategoryID *int64 `json:"category_id,omitempty"`
	TopicID    *int64 `json:"topic_id,omitempty"`
	GroupID    *int64 `json:"group_id,omitempty"`

	// Decorated names from the post feed; empty when the post is
	// uncategorized at that level.
	CategoryName string `json:"category_name,omitempty"`
	TopicName    string `json:"topic_name,omitempty"`
	GroupName    string `json:"group_name,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
