//go:build !sqlite_cgo

package persistence

// modernc.org/sqlite is a pure-Go driver; the default so the module builds
// without cgo. Pass -tags sqlite_cgo to switch to mattn/go-sqlite3 instead.
import _ "modernc.org/sqlite"

const driverName = "sqlite"
