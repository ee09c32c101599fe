package object

import (
	"strings"
	"testing"
)

func TestBuildKey(t *testing.T) {
	key, err := BuildKey("user-1", "abc", "my cv.pdf")
	if err != nil {
		t.Fatalf("BuildKey: %v", err)
	}
	if !strings.HasPrefix(key, "uploads/") || !strings.HasSuffix(key, "/abc_my cv.pdf") {
		t.Fatalf("unexpected key %q", key)
	}
	other, _ := BuildKey("user-2", "abc", "my cv.pdf")
	if other == key {
		t.Fatalf("expected owner namespace to differ")
	}
}

func TestBuildKeyRejectsTraversal(t *testing.T) {
	if _, err := BuildKey("user-1", "abc", "../../etc/passwd"); err == nil {
		t.Fatalf("expected traversal to be rejected")
	}
}
