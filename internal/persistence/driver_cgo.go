//go:build sqlite_cgo

package persistence

// mattn/go-sqlite3 is a cgo binding; selected explicitly via the
// sqlite_cgo build tag for deployments where cgo is available and the
// faster driver is preferred (spec.md does not mandate either driver —
// both appear across the teacher repo's schema evolutions).
import _ "github.com/mattn/go-sqlite3"

const driverName = "sqlite3"
