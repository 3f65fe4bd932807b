package main

import (
	"context"
	"strings"
	"testing"
)

func TestRunUsage(t *testing.T) {
	var out strings.Builder
	if err := run(context.Background(), strings.NewReader(""), &out, &out, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "Usage: maia") {
		t.Errorf("usage output = %q", out.String())
	}
}

func TestRunUnknownCommand(t *testing.T) {
	var out strings.Builder
	err := run(context.Background(), strings.NewReader(""), &out, &out, []string{"dance"})
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("error = %v", err)
	}
}

func TestRunUnknownFlag(t *testing.T) {
	var out strings.Builder
	err := run(context.Background(), strings.NewReader(""), &out, &out, []string{"-verbose"})
	if err == nil || !strings.Contains(err.Error(), "unknown flag") {
		t.Errorf("error = %v", err)
	}
}
