package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

var (
	docvaultBin string
	projRoot    string
)

func TestMain(m *testing.M) {
	// Build the docvault binary once for all tests
	tmpBinDir, err := os.MkdirTemp("", "docvault-bin")
	if err != nil {
		panic(err)
	}

	docvaultBin = filepath.Join(tmpBinDir, "docvault")

	// Determine project root
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		panic("cannot determine current file path")
	}
	projRoot = filepath.Join(filepath.Dir(thisFile), "..", "..")

	cmd := exec.Command("go", "build", "-o", docvaultBin, "./cmd")
	cmd.Dir = projRoot
	if out, err := cmd.CombinedOutput(); err != nil {
		panic(string(out))
	}

	code := m.Run()
	if err := os.RemoveAll(tmpBinDir); err != nil {
		panic(err)
	}
	os.Exit(code)
}

// vaultEnv runs the binary against one data directory.
type vaultEnv struct {
	t       *testing.T
	dataDir string
}

func newVaultEnv(t *testing.T) *vaultEnv {
	return &vaultEnv{t: t, dataDir: filepath.Join(t.TempDir(), "data")}
}

func (e *vaultEnv) run(args ...string) (string, error) {
	e.t.Helper()
	full := append([]string{"--data-dir", e.dataDir, "-v", "1"}, args...)
	cmd := exec.Command(docvaultBin, full...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		e.t.Logf("docvault %s\nstderr: %s", strings.Join(args, " "), stderr.String())
	}
	return stdout.String(), err
}

func (e *vaultEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	if err != nil {
		e.t.Fatalf("docvault %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func asRoot(args ...string) []string {
	return append([]string{"--user", "rootadmin", "--password", "rootpass"}, args...)
}

func TestE2EInitCreatesLayout(t *testing.T) {
	env := newVaultEnv(t)
	env.mustRun("init")

	for _, p := range []string{"users/root/username", "users/root/password_hash", "users/root/admin", "event_logs.jsonl"} {
		if _, err := os.Stat(filepath.Join(env.dataDir, p)); err != nil {
			t.Errorf("expected %s: %v", p, err)
		}
	}
	admin, err := os.ReadFile(filepath.Join(env.dataDir, "users", "root", "admin"))
	if err != nil {
		t.Fatal(err)
	}
	if string(admin) != "true" {
		t.Errorf("root admin flag = %q, want \"true\"", admin)
	}
	if fi, err := os.Stat(filepath.Join(env.dataDir, "scrolls")); err != nil || !fi.IsDir() {
		t.Errorf("documents directory missing: %v", err)
	}
}

func TestE2EUploadDownloadAcrossRuns(t *testing.T) {
	env := newVaultEnv(t)
	src := filepath.Join(t.TempDir(), "report.txt")
	if err := os.WriteFile(src, []byte("quarterly numbers"), 0o644); err != nil {
		t.Fatal(err)
	}

	env.mustRun("register", "alice", "alice", "--new-password", "secret")
	out := env.mustRun("--user", "alice", "--password", "secret", "docs", "upload", "Report", src)
	fields := strings.Fields(out)
	id := fields[len(fields)-1]

	blob := filepath.Join(env.dataDir, "scrolls", id, "scroll_blob")
	if b, err := os.ReadFile(blob); err != nil || string(b) != "quarterly numbers" {
		t.Fatalf("blob = %q, %v", b, err)
	}
	uploader, _ := os.ReadFile(filepath.Join(env.dataDir, "scrolls", id, "uploader_id"))
	if string(uploader) != "alice" {
		t.Errorf("uploader_id = %q, want alice", uploader)
	}

	dst := filepath.Join(t.TempDir(), "copy.txt")
	env.mustRun("--user", "alice", "--password", "secret", "docs", "download", id, dst)
	if b, err := os.ReadFile(dst); err != nil || string(b) != "quarterly numbers" {
		t.Fatalf("download = %q, %v", b, err)
	}

	list := env.mustRun("docs", "list")
	if !strings.Contains(list, "Report") || !strings.Contains(list, "alice") {
		t.Errorf("list output missing document:\n%s", list)
	}
}

func TestE2EOwnership(t *testing.T) {
	env := newVaultEnv(t)
	src := filepath.Join(t.TempDir(), "a.txt")
	if err := os.WriteFile(src, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	env.mustRun("register", "alice", "alice", "--new-password", "pw")
	env.mustRun("register", "bob", "bob", "--new-password", "pw")
	out := env.mustRun("--user", "alice", "--password", "pw", "docs", "upload", "Mine", src)
	fields := strings.Fields(out)
	id := fields[len(fields)-1]

	if _, err := env.run("--user", "bob", "--password", "pw", "docs", "delete", id); err == nil {
		t.Fatal("bob deleted a document uploaded by alice")
	}
	env.mustRun(asRoot("docs", "delete", id)...)
	if _, err := os.Stat(filepath.Join(env.dataDir, "scrolls", id)); !os.IsNotExist(err) {
		t.Errorf("document directory still present: %v", err)
	}
}

func TestE2EAuditLog(t *testing.T) {
	env := newVaultEnv(t)
	if _, err := env.run("--user", "rootadmin", "--password", "wrong", "docs", "list"); err == nil {
		t.Fatal("login with wrong password succeeded")
	}

	out := env.mustRun(asRoot("audit", "--action", "LOGIN_FAILED")...)
	if !strings.Contains(out, "userId=root user=rootadmin action=LOGIN_FAILED") {
		t.Errorf("audit output:\n%s", out)
	}
}
