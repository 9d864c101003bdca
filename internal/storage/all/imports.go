// Package all wires every built-in storage backend into the storage factory.
// It exists purely for side effects: a blank import runs each backend's init,
// which registers its kind:
//
//   - "mysql"              (mysqlupdate/internal/storage/mysql)
//   - "postgres"           (mysqlupdate/internal/storage/postgres)
//   - "sqlserver", "mssql" (mysqlupdate/internal/storage/mssql)
//   - "sqlite"             (mysqlupdate/internal/storage/sqlite)
package all

import (
	_ "mysqlupdate/internal/storage/mssql"
	_ "mysqlupdate/internal/storage/mysql"
	_ "mysqlupdate/internal/storage/postgres"
	_ "mysqlupdate/internal/storage/sqlite"
)
