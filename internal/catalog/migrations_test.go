package catalog

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestReadSchemaStepsOrdersByNumber(t *testing.T) {
	fsys := fstest.MapFS{
		"schema/010_sessions_index.sql": {Data: []byte("CREATE INDEX x ON t(a);")},
		"schema/002_builds.sql":         {Data: []byte("CREATE TABLE t (a INTEGER);")},
		"schema/README.md":              {Data: []byte("notes")},
	}
	steps, err := readSchemaSteps(fsys, "schema")
	if err != nil {
		t.Fatalf("readSchemaSteps failed: %v", err)
	}
	if len(steps) != 2 || steps[0].version() != "002_builds" || steps[1].version() != "010_sessions_index" {
		t.Fatalf("unexpected steps: %+v", steps)
	}
}

func TestReadSchemaStepsRejectsBadNames(t *testing.T) {
	cases := map[string]fstest.MapFS{
		"no number": {"schema/initial.sql": {Data: []byte("SELECT 1;")}},
		"duplicate": {
			"schema/001_a.sql": {Data: []byte("SELECT 1;")},
			"schema/1_b.sql":   {Data: []byte("SELECT 1;")},
		},
	}
	for name, fsys := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := readSchemaSteps(fsys, "schema"); err == nil || !strings.Contains(err.Error(), "catalog schema") {
				t.Fatalf("expected naming error, got %v", err)
			}
		})
	}
}

func TestEmbeddedSchemaSteps(t *testing.T) {
	steps, err := readSchemaSteps(migrationFS, "migrations")
	if err != nil {
		t.Fatalf("readSchemaSteps failed: %v", err)
	}
	if len(steps) == 0 || steps[0].version() != "001_initial" {
		t.Fatalf("unexpected embedded steps: %+v", steps)
	}
}
