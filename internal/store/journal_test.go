package store

import (
	"context"
	"errors"
	"testing"
)

func TestJournal_RecordAndReadNewestFirst(t *testing.T) {
	j := Journal{Dir: t.TempDir()}
	ctx := context.Background()

	if err := j.Record(ctx, "http://srv", "category_create", "category", 1,
		map[string]any{"name": "Tech"}, nil); err != nil {
		t.Fatalf("Record(1): %v", err)
	}
	if err := j.Record(ctx, "http://srv", "category_delete", "category", 1,
		nil, errors.New("in use")); err != nil {
		t.Fatalf("Record(2): %v", err)
	}
	if err := j.Record(ctx, "http://srv", "post_status", "post", 9,
		map[string]any{"status": "private"}, nil); err != nil {
		t.Fatalf("Record(3): %v", err)
	}

	all, err := j.Actions(ctx, "", 0)
	if err != nil {
		t.Fatalf("Actions: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if all[0].Op != "post_status" {
		t.Fatalf("newest first: first op = %q", all[0].Op)
	}
	if all[2].Op != "category_create" || all[2].Outcome != OutcomeOK {
		t.Fatalf("oldest = %+v", all[2])
	}

	failed := all[1]
	if failed.Outcome != OutcomeError || failed.Error != "in use" {
		t.Fatalf("failed action = %+v", failed)
	}
}

func TestJournal_KindFilterAndLimit(t *testing.T) {
	j := Journal{Dir: t.TempDir()}
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		if err := j.Record(ctx, "", "topic_rename", "topic", i, nil, nil); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := j.Record(ctx, "", "group_create", "group", 4, nil, nil); err != nil {
		t.Fatalf("Record: %v", err)
	}

	topics, err := j.Actions(ctx, "topic", 2)
	if err != nil {
		t.Fatalf("Actions: %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("len = %d, want 2", len(topics))
	}
	for _, a := range topics {
		if a.Kind != "topic" {
			t.Fatalf("kind = %q", a.Kind)
		}
	}
}

func TestJournal_DeviceIDStableAcrossOpens(t *testing.T) {
	j := Journal{Dir: t.TempDir()}
	ctx := context.Background()

	if err := j.Record(ctx, "", "post_create", "post", 1, nil, nil); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := j.Record(ctx, "", "post_delete", "post", 1, nil, nil); err != nil {
		t.Fatalf("Record: %v", err)
	}

	all, err := j.Actions(ctx, "", 0)
	if err != nil {
		t.Fatalf("Actions: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2", len(all))
	}
	if all[0].DeviceID == "" || all[0].DeviceID != all[1].DeviceID {
		t.Fatalf("device ids differ: %q vs %q", all[0].DeviceID, all[1].DeviceID)
	}
}

func TestJournal_RecordRequiresOpAndKind(t *testing.T) {
	j := Journal{Dir: t.TempDir()}
	if err := j.Record(context.Background(), "", "", "post", 1, nil, nil); err == nil {
		t.Fatalf("empty op should fail")
	}
	if err := j.Record(context.Background(), "", "post_create", "", 1, nil, nil); err == nil {
		t.Fatalf("empty kind should fail")
	}
}

func TestJournal_EmptyReadsReturnEmptySlice(t *testing.T) {
	j := Journal{Dir: t.TempDir()}
	all, err := j.Actions(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("Actions: %v", err)
	}
	if all == nil || len(all) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", all)
	}
}
