package sqlite

import (
	"database/sql"
	"strings"

	gosqlite3 "github.com/mattn/go-sqlite3"
)

// DriverName is go-sqlite3 with LOWER replaced by a Unicode aware version,
// so title and description filters fold non-ASCII text.
const DriverName = "sqlite3_taskapp"

func init() {
	sql.Register(DriverName, &gosqlite3.SQLiteDriver{
		ConnectHook: func(conn *gosqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", unicodeLower, true)
		},
	})
}

// NULL arrives as a nil []byte.
func unicodeLower(value any) any {
	switch v := value.(type) {
	case string:
		return strings.ToLower(v)
	case []byte:
		if v == nil {
			return nil
		}

		return strings.ToLower(string(v))
	default:
		return v
	}
}
