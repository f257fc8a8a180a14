package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/omeyang/xip/internal/convert"
)

type runResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) runResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"ipconv"}, args...), strings.NewReader(stdin), &stdout, &stderr)
	return runResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  []string
	}{
		{
			name:     "both families",
			args:     []string{"validate", "1.1.1.1", "::1"},
			wantCode: exitOK,
			wantOut:  []string{"1.1.1.1: valid IPv4 (strict)", "::1: valid IPv6 (strict)"},
		},
		{
			name:     "strict rejects wide octets",
			args:     []string{"validate", "1337.1337.1337.1337"},
			wantCode: exitFailure,
			wantOut:  []string{"1337.1337.1337.1337: invalid (strict)"},
		},
		{
			name:     "lenient accepts wide octets",
			args:     []string{"validate", "--lenient", "1337.1337.1337.1337"},
			wantCode: exitOK,
			wantOut:  []string{"1337.1337.1337.1337: valid IPv4 (lenient)"},
		},
		{
			name:     "no args",
			args:     []string{"validate"},
			wantCode: exitUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := runCLI(t, "", tt.args...)
			if r.code != tt.wantCode {
				t.Fatalf("code = %d, want %d (stderr: %s)", r.code, tt.wantCode, r.stderr)
			}
			for _, want := range tt.wantOut {
				if !strings.Contains(r.stdout, want) {
					t.Errorf("stdout missing %q, got:\n%s", want, r.stdout)
				}
			}
		})
	}
}

func TestValidateCommand_JSON(t *testing.T) {
	r := runCLI(t, "", "-o", "json", "validate", "::1")
	if r.code != exitOK {
		t.Fatalf("code = %d (stderr: %s)", r.code, r.stderr)
	}
	var got []convert.Verdict
	if err := json.Unmarshal([]byte(r.stdout), &got); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, r.stdout)
	}
	if len(got) != 1 || !got[0].IPv6 || got[0].IPv4 || got[0].Mode != "strict" {
		t.Errorf("verdicts = %+v", got)
	}
}

func TestSingleValueCommands(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
	}{
		{"tonum v4", []string{"tonum", "1.134.165.160"}, exitOK, "25601440\n"},
		{"tonum v6", []string{"tonum", "::FFFF"}, exitOK, "65535\n"},
		{"tonum invalid", []string{"tonum", "1.2.3"}, exitFailure, ""},
		{"tonum two args", []string{"tonum", "1.1.1.1", "2.2.2.2"}, exitUsage, ""},
		{"fromnum auto", []string{"fromnum", "25601440"}, exitOK, "1.134.165.160\n"},
		{"fromnum hex input", []string{"fromnum", "0xDEADBEEF"}, exitOK, "222.173.190.239\n"},
		{"fromnum v6", []string{"fromnum", "--family", "6", "25601440"}, exitOK, "0:0:0:0:0:0:186:A5A0\n"},
		{"fromnum compress", []string{"fromnum", "--family", "6", "--compress", "25601440"}, exitOK, "::186:A5A0\n"},
		{"fromnum full", []string{"fromnum", "--family", "6", "--full", "25601440"}, exitOK, "0000:0000:0000:0000:0000:0000:0186:A5A0\n"},
		{"fromnum v6 port", []string{"fromnum", "--family", "6", "--compress", "--port", "80", "25601440"}, exitOK, "[::186:A5A0]:80\n"},
		{"fromnum v4 port", []string{"fromnum", "--port", "8080", "25601440"}, exitOK, "1.134.165.160:8080\n"},
		{"fromnum auto wide", []string{"fromnum", "0x100000000"}, exitOK, "0:0:0:0:0:1:0:0\n"},
		{"fromnum v4 overflow", []string{"fromnum", "--family", "4", "0x100000000"}, exitFailure, ""},
		{"fromnum bad family", []string{"fromnum", "--family", "7", "1"}, exitUsage, ""},
		{"fromnum bad port", []string{"fromnum", "--port", "70000", "1"}, exitUsage, ""},
		{"fromnum no args", []string{"fromnum"}, exitUsage, ""},
		{"hex address", []string{"hex", "222.173.190.239"}, exitOK, "0xDEADBEEF\n"},
		{"hex number", []string{"hex", "3735928559"}, exitOK, "0xDEADBEEF\n"},
		{"hex zero", []string{"hex", "::"}, exitOK, "0x0\n"},
		{"hex garbage", []string{"hex", "zz"}, exitFailure, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := runCLI(t, "", tt.args...)
			if r.code != tt.wantCode {
				t.Fatalf("code = %d, want %d (stderr: %s)", r.code, tt.wantCode, r.stderr)
			}
			if r.stdout != tt.wantOut {
				t.Errorf("stdout = %q, want %q", r.stdout, tt.wantOut)
			}
		})
	}
}

func TestFailureReportsInputOnStderr(t *testing.T) {
	r := runCLI(t, "", "fromnum", "--family", "4", "0x100000000")
	if r.code != exitFailure {
		t.Fatalf("code = %d, want %d", r.code, exitFailure)
	}
	if !strings.Contains(r.stderr, "0x100000000") {
		t.Errorf("stderr = %q, want input echoed", r.stderr)
	}
}

func TestParseCommand(t *testing.T) {
	r := runCLI(t, "", "parse", "222.173.190.239:80")
	if r.code != exitOK {
		t.Fatalf("code = %d (stderr: %s)", r.code, r.stderr)
	}
	for _, want := range []string{"IPv4", "3735928559", "0xDEADBEEF", "::DEAD:BEEF", "80"} {
		if !strings.Contains(r.stdout, want) {
			t.Errorf("stdout missing %q, got:\n%s", want, r.stdout)
		}
	}

	r = runCLI(t, "", "parse", "::1", "bogus")
	if r.code != exitFailure {
		t.Fatalf("code = %d, want %d", r.code, exitFailure)
	}
	if !strings.Contains(r.stdout, "bogus") || !strings.Contains(r.stdout, "error:") {
		t.Errorf("stdout = %s", r.stdout)
	}
}

func TestParseCommand_JSON(t *testing.T) {
	r := runCLI(t, "", "--output", "json", "parse", "[::1337:1337:1337:1337]:25565")
	if r.code != exitOK {
		t.Fatalf("code = %d (stderr: %s)", r.code, r.stderr)
	}
	var got []convert.Result
	if err := json.Unmarshal([]byte(r.stdout), &got); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, r.stdout)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Family != "IPv6" || got[0].Port == nil || *got[0].Port != 25565 {
		t.Errorf("result = %+v", got[0])
	}
}

func TestBatchCommand(t *testing.T) {
	input := "1.1.1.1\n# comment\n\n  ::1  \n"

	r := runCLI(t, input, "batch")
	if r.code != exitOK {
		t.Fatalf("code = %d (stderr: %s)", r.code, r.stderr)
	}
	lines := strings.Split(strings.TrimRight(r.stdout, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.HasPrefix(lines[0], "1.1.1.1") || !strings.Contains(lines[0], "16843009") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "::1") || !strings.Contains(lines[1], "IPv6") {
		t.Errorf("line 1 = %q", lines[1])
	}
	if !strings.Contains(r.stderr, "batch done") {
		t.Errorf("stderr missing batch log: %s", r.stderr)
	}
}

func TestBatchCommand_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addrs.txt")
	if err := os.WriteFile(path, []byte("10.0.0.1\nnot-an-ip\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	r := runCLI(t, "", "batch", "--workers", "2", path)
	if r.code != exitFailure {
		t.Fatalf("code = %d, want %d (stderr: %s)", r.code, exitFailure, r.stderr)
	}
	if !strings.Contains(r.stdout, "10.0.0.1") || !strings.Contains(r.stdout, "not-an-ip") {
		t.Errorf("stdout = %s", r.stdout)
	}
}

func TestBatchCommand_Errors(t *testing.T) {
	r := runCLI(t, "", "batch", filepath.Join(t.TempDir(), "missing.txt"))
	if r.code != exitFailure {
		t.Errorf("missing file: code = %d, want %d", r.code, exitFailure)
	}

	r = runCLI(t, "1.1.1.1\n", "batch", "--workers", "0", "-")
	if r.code != exitUsage {
		t.Errorf("zero workers: code = %d, want %d", r.code, exitUsage)
	}

	r = runCLI(t, "", "batch", "a", "b")
	if r.code != exitUsage {
		t.Errorf("two files: code = %d, want %d", r.code, exitUsage)
	}
}

func TestGlobalFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{"unknown flag", []string{"--bogus", "tonum", "1.1.1.1"}, exitUsage},
		{"bad output", []string{"-o", "xml", "tonum", "1.1.1.1"}, exitUsage},
		{"bad log level", []string{"--log-level", "loud", "tonum", "1.1.1.1"}, exitUsage},
		{"bad log format", []string{"--log-format", "xml", "tonum", "1.1.1.1"}, exitUsage},
		{"missing config", []string{"-c", "/nonexistent/ipconv.yaml", "tonum", "1.1.1.1"}, exitFailure},
		{"debug level", []string{"--log-level", "debug", "tonum", "1.1.1.1"}, exitOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := runCLI(t, "", tt.args...)
			if r.code != tt.wantCode {
				t.Errorf("code = %d, want %d (stderr: %s)", r.code, tt.wantCode, r.stderr)
			}
		})
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ipconv.yaml")
	logFile := filepath.Join(dir, "ipconv.log")
	data := "output: json\nlog:\n  level: debug\n  format: json\n  file: " + logFile + "\nrender:\n  remove_zeroes: true\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	r := runCLI(t, "", "-c", path, "tonum", "1.1.1.1")
	if r.code != exitOK {
		t.Fatalf("code = %d (stderr: %s)", r.code, r.stderr)
	}
	var got convert.Result
	if err := json.Unmarshal([]byte(r.stdout), &got); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, r.stdout)
	}
	if got.Decimal != "16843009" || got.IPv6 != "::101:101" {
		t.Errorf("result = %+v", got)
	}

	// 命令行覆盖配置文件
	r = runCLI(t, "", "-c", path, "-o", "text", "tonum", "1.1.1.1")
	if r.code != exitOK || r.stdout != "16843009\n" {
		t.Errorf("override: code = %d, stdout = %q", r.code, r.stdout)
	}

	// 解析失败写入 debug 日志到轮转文件
	r = runCLI(t, "", "-c", path, "tonum", "bogus")
	if r.code != exitFailure {
		t.Errorf("bogus: code = %d, want %d", r.code, exitFailure)
	}
	if _, err := os.Stat(logFile); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestReadLines(t *testing.T) {
	got, err := readLines(strings.NewReader("a\n\n# skip\n  b \r\n#\nc"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a", "b", "c"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("readLines = %q, want %q", got, want)
	}
}

func TestRenderedAddress(t *testing.T) {
	port := uint16(53)
	tests := []struct {
		r    convert.Result
		want string
	}{
		{convert.Result{Family: "IPv4", Address: "1.1.1.1:53", Port: &port}, "1.1.1.1:53"},
		{convert.Result{Family: "IPv6", Address: "[0:0:0:0:0:0:0:1]:53", IPv6: "::1", Port: &port}, "[::1]:53"},
		{convert.Result{Family: "IPv6", IPv6: "::1"}, "::1"},
	}
	for _, tt := range tests {
		if got := renderedAddress(tt.r); got != tt.want {
			t.Errorf("renderedAddress(%+v) = %q, want %q", tt.r, got, tt.want)
		}
	}
}

func TestExitError(t *testing.T) {
	err := &exitError{code: 3}
	if err.Error() != "exit status 3" {
		t.Errorf("Error() = %q", err.Error())
	}
}
