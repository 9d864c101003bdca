// Command mysqlupdate updates one column of one table for every line of a
// delimited source file, matching rows on another column.
//
//	mysqlupdate [flags] <credentials> <table> <match column> <update column> \
//	    <source> <match field #> <update field #> <delimiter> [quote] [escape]
//
// main stays tiny; run() holds the flow and takes its side effects from Deps
// so tests can drive it end to end.
package main

import (
	"context"
	"io"
	"os"

	"mysqlupdate/internal/config"
	"mysqlupdate/internal/datasource/file"
	"mysqlupdate/internal/storage"
	_ "mysqlupdate/internal/storage/all"
)

// Deps holds the boundaries run() crosses.
type Deps struct {
	LoadCredentials func(path string) (config.Credentials, error)
	NewUpdater      func(ctx context.Context, cfg storage.Config) (storage.Updater, error)
	OpenSource      func(ctx context.Context, path string) (io.ReadCloser, error)

	Stdout io.Writer
	Stderr io.Writer
}

func defaultDeps() Deps {
	return Deps{
		LoadCredentials: config.LoadCredentials,
		NewUpdater:      storage.New,
		OpenSource: func(ctx context.Context, path string) (io.ReadCloser, error) {
			return file.NewLocal(path).Open(ctx)
		},
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], defaultDeps()))
}
