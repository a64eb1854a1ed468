package service

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestAuditRecentLogsNewestFirstWithLimit(t *testing.T) {
	gdb, cleanup := setupCatalogTestDB(t)
	defer cleanup()

	svc := NewAuditService(gdb)
	base := time.Unix(1_700_000_000, 0)
	for i := 0; i < recentLimit+5; i++ {
		svc.SetClock(fixedClock(base.Add(time.Duration(i) * time.Minute)))
		if err := svc.Log("update", fmt.Sprintf("entry %d", i)); err != nil {
			t.Fatalf("log entry %d: %v", i, err)
		}
	}

	logs, err := svc.RecentLogs()
	if err != nil {
		t.Fatalf("recent logs: %v", err)
	}
	if len(logs) != recentLimit {
		t.Fatalf("expected %d logs, got %d", recentLimit, len(logs))
	}
	if logs[0].Details != fmt.Sprintf("entry %d", recentLimit+4) {
		t.Fatalf("expected newest entry first, got %q", logs[0].Details)
	}
}

func TestAuditCommentValidation(t *testing.T) {
	gdb, cleanup := setupCatalogTestDB(t)
	defer cleanup()

	svc := NewAuditService(gdb)
	if err := svc.AddComment("   "); !errors.Is(err, ErrEmptyComment) {
		t.Fatalf("expected ErrEmptyComment, got %v", err)
	}

	if err := svc.AddComment("  the scale drifts after noon  "); err != nil {
		t.Fatalf("add comment: %v", err)
	}
	comments, err := svc.RecentComments()
	if err != nil {
		t.Fatalf("recent comments: %v", err)
	}
	if len(comments) != 1 || comments[0].Comment != "the scale drifts after noon" {
		t.Fatalf("unexpected comments: %+v", comments)
	}
}
