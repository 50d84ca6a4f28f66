package queue

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/amaumene/catalogarr/internal/models"
)

func TestSyncTask_Due(t *testing.T) {
	now := time.Now()

	task := &SyncTask{NotBefore: now.Add(time.Minute)}
	if task.Due(now) {
		t.Error("task before NotBefore must not be due")
	}
	if !task.Due(now.Add(time.Minute)) {
		t.Error("task at NotBefore must be due")
	}
	if !task.Due(now.Add(2 * time.Minute)) {
		t.Error("task past NotBefore must be due")
	}
}

func TestSyncTask_PayloadFields(t *testing.T) {
	task := SyncTask{
		TaskID:    "a-task",
		Kind:      models.MediaKindShow,
		MediaID:   42,
		NotBefore: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	// Wire field names are a contract with already-queued tasks.
	for _, field := range []string{"task_id", "kind", "media_id", "not_before"} {
		if _, ok := decoded[field]; !ok {
			t.Errorf("payload missing field %q", field)
		}
	}
	if decoded["kind"] != "show" {
		t.Errorf("kind should serialize as its string value, got %v", decoded["kind"])
	}
}
