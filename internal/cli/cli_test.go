package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nayna-import-api/internal/importer"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestParseCmd_Summary(t *testing.T) {
	path := writeFile(t, "guests.csv", "name,email\nAsha,asha@x.com\n,b@x.com\nRavi,ravi@x.com\n")

	out, err := runCmd(t, "parse", "--file", path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, "2 accepted, 1 skipped") {
		t.Errorf("Expected summary, got:\n%s", out)
	}
	if !strings.Contains(out, "line 3: name is required") {
		t.Errorf("Expected skip reason for line 3, got:\n%s", out)
	}
}

func TestParseCmd_JSON(t *testing.T) {
	path := writeFile(t, "rooms.csv", "roomnumber,hotelname,guestids\r\n101,Grand,g1;g2\r\n")

	out, err := runCmd(t, "parse", "--kind", "rooms", "--file", path, "--json")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var res importer.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, out)
	}
	if len(res.Records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(res.Records))
	}
	if res.Records[0][importer.RoomNumber] != "101" {
		t.Errorf("Expected room 101, got %v", res.Records[0][importer.RoomNumber])
	}
}

func TestParseCmd_MaxRows(t *testing.T) {
	path := writeFile(t, "guests.csv", "name\nA\nB\nC\n")

	out, err := runCmd(t, "parse", "--file", path, "--max-rows", "2")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, "2 accepted, 1 skipped") {
		t.Errorf("Expected capped summary, got:\n%s", out)
	}
}

func TestParseCmd_NothingToImport(t *testing.T) {
	path := writeFile(t, "guests.csv", "name,email\n")

	out, err := runCmd(t, "parse", "--file", path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, "No valid guest data found in CSV file") {
		t.Errorf("Expected empty notice, got:\n%s", out)
	}
}

func TestParseCmd_Rejections(t *testing.T) {
	csvPath := writeFile(t, "guests.csv", "name\nA\n")
	txtPath := writeFile(t, "guests.txt", "name\nA\n")

	tests := []struct {
		name string
		args []string
	}{
		{"missing file flag", []string{"parse"}},
		{"unknown kind", []string{"parse", "--kind", "tables", "--file", csvPath}},
		{"not csv", []string{"parse", "--file", txtPath}},
		{"file does not exist", []string{"parse", "--file", filepath.Join(t.TempDir(), "missing.csv")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCmd(t, tt.args...); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestSchemasCmd(t *testing.T) {
	out, err := runCmd(t, "schemas")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, want := range []string{"guests", "rooms", "countryCode", "guestIds"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestSchemasCmd_Template(t *testing.T) {
	out, err := runCmd(t, "schemas", "guests", "--template")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := strings.Join(importer.GuestSchema.Headers(), ",") + "\n"
	if out != want {
		t.Errorf("Expected %q, got %q", want, out)
	}

	if _, err := runCmd(t, "schemas", "tables"); err == nil {
		t.Error("Expected error for unknown kind")
	}
}

func TestMigrateCmd_InvalidVersion(t *testing.T) {
	if _, err := runCmd(t, "migrate", "to"); err == nil {
		t.Error("Expected error when version is missing")
	}
}
