package config

import (
	"fmt"
	"os"
	"strings"

	"mysqlupdate/internal/parser/delimited"
)

// CredentialLines is the number of lines a credentials file must provide.
const CredentialLines = 4

// Credentials is the content of the connection file: one value per line, in
// this order.
type Credentials struct {
	Server   string // host, host:port, or a file path for sqlite
	User     string
	Password string // may be empty
	Database string
}

// Redacted returns a copy safe to log.
func (c Credentials) Redacted() Credentials {
	if c.Password != "" {
		c.Password = "*****"
	}
	return c
}

// String renders the credentials with the password masked.
func (c Credentials) String() string {
	r := c.Redacted()
	return fmt.Sprintf("server=%s user=%s password=%s database=%s", r.Server, r.User, r.Password, r.Database)
}

// LoadCredentials reads the first four lines of the file at path. Double
// quotes are stripped from path first, so a Windows-style quoted argument
// that reached us intact still resolves. Lines past the fourth are ignored.
// Line endings and a leading UTF-8 byte order mark are handled as for source
// files; nothing else is trimmed.
func LoadCredentials(path string) (Credentials, error) {
	path = strings.ReplaceAll(path, `"`, "")

	f, err := os.Open(path)
	if err != nil {
		return Credentials{}, &ConfigError{Path: path, Err: err}
	}
	defer f.Close()

	lines := make([]string, 0, CredentialLines)
	lr := delimited.NewLineReader(f)
	for len(lines) < CredentialLines && lr.Next() {
		lines = append(lines, lr.Text())
	}
	if err := lr.Err(); err != nil {
		return Credentials{}, &ConfigError{Path: path, Err: err}
	}

	if len(lines) < CredentialLines {
		return Credentials{}, &ConfigError{
			Path: path,
			Reason: fmt.Sprintf("found %d of %d lines; the file needs the server URL/IP, user id, password (may be blank) and database name on separate lines",
				len(lines), CredentialLines),
		}
	}

	return Credentials{
		Server:   lines[0],
		User:     lines[1],
		Password: lines[2],
		Database: lines[3],
	}, nil
}
