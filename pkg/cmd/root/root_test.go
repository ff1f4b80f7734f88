package root

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Paintersrp/m3urel/internal/config"
	"github.com/Paintersrp/m3urel/internal/logging"
	"github.com/Paintersrp/m3urel/internal/state"
)

func setupLibrary(t *testing.T, content string) string {
	t.Helper()
	root := t.TempDir()
	song := filepath.Join(root, "music", "rock", "song.mp3")
	if err := os.MkdirAll(filepath.Dir(song), 0o755); err != nil {
		t.Fatalf("failed to create library: %v", err)
	}
	if err := os.WriteFile(song, nil, 0o644); err != nil {
		t.Fatalf("failed to write song: %v", err)
	}

	list := filepath.Join(root, "list.m3u")
	if err := os.WriteFile(list, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write playlist: %v", err)
	}
	return list
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	s := state.New(t.TempDir(), config.Default(), logging.New(io.Discard, logging.LevelError))
	cmd, err := NewCmdRoot(s)
	if err != nil {
		t.Fatalf("NewCmdRoot returned error: %v", err)
	}

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), err
}

func TestRootRewritesPlaylist(t *testing.T) {
	list := setupLibrary(t, "#EXTM3U\n/other/root/rock/song.mp3\n/gone/track.mp3\n")

	if _, err := execute(t, "--depth", "2", list); err != nil {
		t.Fatalf("execute returned error: %v", err)
	}

	data, err := os.ReadFile(list)
	if err != nil {
		t.Fatalf("failed to read playlist: %v", err)
	}
	want := "#EXTM3U\n" + filepath.Join("music", "rock", "song.mp3") + "\n"
	if string(data) != want {
		t.Fatalf("expected %q, got %q", want, data)
	}
}

func TestRootDryRunPrintsWithoutWriting(t *testing.T) {
	input := "/other/root/rock/song.mp3\n"
	list := setupLibrary(t, input)

	out, err := execute(t, "-d", "2", "--dry-run", list)
	if err != nil {
		t.Fatalf("execute returned error: %v", err)
	}
	if out != filepath.Join("music", "rock", "song.mp3")+"\n" {
		t.Fatalf("unexpected dry-run output %q", out)
	}

	data, _ := os.ReadFile(list)
	if string(data) != input {
		t.Fatalf("expected playlist to be untouched, got %q", data)
	}
}

func TestRootStrictFlag(t *testing.T) {
	list := setupLibrary(t, "rock/song.flac\n")

	if _, err := execute(t, "-d", "2", "--strict", list); err != nil {
		t.Fatalf("execute returned error: %v", err)
	}
	data, _ := os.ReadFile(list)
	if len(data) != 0 {
		t.Fatalf("expected strict matching to drop the entry, got %q", data)
	}
}

func TestRootRejectsInvalidDepth(t *testing.T) {
	list := setupLibrary(t, "song.mp3\n")

	_, err := execute(t, "--depth", "300", list)
	if err == nil || !strings.Contains(err.Error(), "invalid depth") {
		t.Fatalf("expected invalid depth error, got %v", err)
	}
}

func TestRootMissingPlaylist(t *testing.T) {
	_, err := execute(t, filepath.Join(t.TempDir(), "missing.m3u"))
	if err == nil {
		t.Fatal("expected an error for a missing playlist")
	}
}

func TestCheckListsMisses(t *testing.T) {
	list := setupLibrary(t, "/other/root/rock/song.mp3\n/gone/track.mp3\n")

	out, err := execute(t, "check", "--depth", "2", list)
	if err != nil {
		t.Fatalf("execute returned error: %v", err)
	}
	if !strings.Contains(out, "line 2: /gone/track.mp3 (not indexed)") {
		t.Fatalf("expected miss to be listed, got %q", out)
	}
	if !strings.Contains(out, "1 resolved, 1 dropped") {
		t.Fatalf("expected summary, got %q", out)
	}
}

func TestIndexPrintsYAML(t *testing.T) {
	list := setupLibrary(t, "")

	out, err := execute(t, "index", "--depth", "2", "--format", "yaml", filepath.Dir(list))
	if err != nil {
		t.Fatalf("execute returned error: %v", err)
	}
	if !strings.Contains(out, "key: rock/song") {
		t.Fatalf("expected key in output, got %q", out)
	}
	if !strings.Contains(out, "ignore_extension: true") {
		t.Fatalf("expected options in output, got %q", out)
	}
}

func TestIndexRejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, "index", "--format", "xml", t.TempDir())
	if err == nil {
		t.Fatal("expected unknown format to be rejected")
	}
}
