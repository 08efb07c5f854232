package testutil

import "testing"

func TestCoreImportForbidden(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"trackcore/internal/core", true},
		{"trackcore/internal/core@v1", true},
		{"trackcore/internal/infra/persistence/memory", false},
		{"trackcore/pkg/domain", false},
	}
	for _, tc := range cases {
		if got := CoreImportForbidden(tc.path); got != tc.want {
			t.Fatalf("CoreImportForbidden(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestInternalImportForbidden(t *testing.T) {
	if !InternalImportForbidden("trackcore/internal/core") {
		t.Fatalf("expected internal paths to be forbidden")
	}
	if InternalImportForbidden("trackcore/pkg/domain") {
		t.Fatalf("expected public paths to be allowed")
	}
}

func TestAssertNoDirectImportsOnSelf(t *testing.T) {
	// The testutil package itself must not reach into internal packages.
	AssertNoDirectImports(t, ".", InternalImportForbidden, "testutil stays independent of internal packages")
}
