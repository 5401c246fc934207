// Package taxonomy holds the pure pieces of hierarchy navigation: the
// order-preserving child filters used by the post form, and the selection
// context that drives cascading child-list loads in the TUI.
package taxonomy

import "curator-cli/internal/model"

// TopicsFor returns the topics belonging to categoryID, preserving input order.
func TopicsFor(categoryID int64, topics []model.Topic) []model.Topic {
	var out []model.Topic
	for _, t := range topics {
		if t.CategoryID == categoryID {
			out = append(out, t)
		}
	}
	return out
}

// GroupsFor returns the groups belonging to topicID, preserving input order.
func GroupsFor(topicID int64, groups []model.Group) []model.Group {
	var out []model.Group
	for _, g := range groups {
		if g.TopicID == topicID {
			out = append(out, g)
		}
	}
	return out
}

// Selection is the current cascade position: which category and topic child
// lists are being shown. It is held by the UI model and passed around
// explicitly; there is no ambient selection state.
//
// Invariants: a topic selection implies a category selection; selecting a
// category clears any topic selection; selecting a topic keeps the category.
type Selection struct {
	category *model.Category
	topic    *model.Topic
}

func (s *Selection) SelectCategory(c model.Category) {
	cc := c
	s.category = &cc
	s.topic = nil
}

func (s *Selection) SelectTopic(t model.Topic) {
	tt := t
	s.topic = &tt
}

func (s *Selection) Clear() {
	s.category = nil
	s.topic = nil
}

func (s *Selection) Category() (model.Category, bool) {
	if s.category == nil {
		return model.Category{}, false
	}
	return *s.category, true
}

func (s *Selection) Topic() (model.Topic, bool) {
	if s.topic == nil {
		return model.Topic{}, false
	}
	return *s.topic, true
}

// CategoryIs reports whether the selected category has the given id.
func (s *Selection) CategoryIs(id int64) bool {
	return s.category != nil && s.category.ID == id
}

// TopicIs reports whether the selected topic has the given id.
func (s *Selection) TopicIs(id int64) bool {
	return s.topic != nil && s.topic.ID == id
}

// RenameCategory updates the cached name when the renamed row is the current
// selection, so labels derived from the selection stay in sync.
func (s *Selection) RenameCategory(id int64, name string) {
	if s.category != nil && s.category.ID == id {
		s.category.Name = name
	}
}

func (s *Selection) RenameTopic(id int64, name string) {
	if s.topic != nil && s.topic.ID == id {
		s.topic.Name = name
	}
}

// DropCategory clears the selection if the deleted row was selected.
// Clearing the category clears the topic with it.
func (s *Selection) DropCategory(id int64) {
	if s.category != nil && s.category.ID == id {
		s.category = nil
		s.topic = nil
	}
}

func (s *Selection) DropTopic(id int64) {
	if s.topic != nil && s.topic.ID == id {
		s.topic = nil
	}
}
