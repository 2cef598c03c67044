package testsupport

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// ScenarioPath returns the path of a scenario table in the testdata
// directory of the package under test.
func ScenarioPath(name string) string {
	return filepath.Join("testdata", name)
}

// LoadJSON decodes the JSON file at path into dest and fails the test on any
// read or decode error.
func LoadJSON(t testing.TB, path string, dest any) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		t.Fatalf("failed to decode %s: %v", path, err)
	}
}

// Scenarios loads a table of page scenarios from testdata, such as the
// descriptor and reader walks. The file holds either a bare JSON array or an
// object with the array under "scenarios". An empty table fails the test.
func Scenarios[S any](t testing.TB, name string) []S {
	t.Helper()

	path := ScenarioPath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}

	var table struct {
		Scenarios []S `json:"scenarios"`
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &table.Scenarios)
	} else {
		err = json.Unmarshal(trimmed, &table)
	}
	if err != nil {
		t.Fatalf("failed to decode scenarios in %s: %v", path, err)
	}
	if len(table.Scenarios) == 0 {
		t.Fatalf("no scenarios in %s", path)
	}
	return table.Scenarios
}
