// Package all wires every built-in storage backend into the storage factory.
//
// It exists purely for side effects: a blank import of this package runs the
// init functions of each backend, which register their factories with the
// storage package. Binaries that only need a subset can blank-import the
// specific backends instead.
package all

import (
	_ "contactetl/internal/storage/csvfile"
	_ "contactetl/internal/storage/postgres"
	_ "contactetl/internal/storage/sqlite"
)
