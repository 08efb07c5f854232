package persistence

import (
	"testing"

	"trackcore/testutil"
)

func TestStoresStayFreeOfCorePackage(t *testing.T) {
	// Stores are capabilities consumed by the core, never the other way
	// around.
	for _, dir := range []string{".", "./memory", "./sqlite", "./postgres"} {
		testutil.AssertNoDirectImports(t, dir, testutil.CoreImportForbidden,
			"sequence stores must not depend on the value-generation core")
	}
}
