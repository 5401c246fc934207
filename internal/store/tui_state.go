package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

const tuiStateFileName = "tui_state.json"

// TUIState stores small, user-facing UI state for restoring the last screen on relaunch.
//
// The file lives in the config directory. It is intentionally "best effort":
// callers should tolerate missing/invalid data.
type TUIState struct {
	Version int `json:"version"`

	// View is one of: taxonomy|posts|post|form
	View string `json:"view,omitempty"`

	SelectedCategoryID int64 `json:"selectedCategoryId,omitempty"`
	SelectedTopicID    int64 `json:"selectedTopicId,omitempty"`
	SelectedGroupID    int64 `json:"selectedGroupId,omitempty"`

	// OpenPostID is used when View == "post".
	OpenPostID int64 `json:"openPostId,omitempty"`

	// Posts listing controls.
	PostsQuery  string `json:"postsQuery,omitempty"`
	PostsStatus string `json:"postsStatus,omitempty"`
	PostsSort   string `json:"postsSort,omitempty"`
	PostsPage   int    `json:"postsPage,omitempty"`
}

func tuiStatePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, tuiStateFileName), nil
}

func LoadTUIState() (*TUIState, error) {
	path, err := tuiStatePath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &TUIState{Version: 1}, nil
		}
		return nil, err
	}
	var st TUIState
	if err := json.Unmarshal(b, &st); err != nil {
		// Best-effort; if corrupted, treat as missing.
		return &TUIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func SaveTUIState(st *TUIState) error {
	if st == nil {
		return nil
	}
	path, err := tuiStatePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
