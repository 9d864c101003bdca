package config

import (
	"fmt"
	"io"
)

// Usage enumerates the positional parameters and the credentials file format.
const Usage = `You must enter all parameters when calling this program:
	1. Path/name to file containing connection info.
	2. Name of table to use.
	3. Column name to match on.
	4. Column name to update.
	5. Path/name to csv/txt source file.
	6. Field # (int) in source file to match on.
	7. Field # (int) in source file to update from.
	8. Delimiter for source file.
	(Optional) 9. Enclosing character.
	(Optional if #9 provided) 10. Escape character.
Arguments must be in order, separated by space; if an argument contains a space enclose it with quotes.

Connection file should contain 4 lines that give in order: URL/IP of server, Userid, Password, and DB name.
No action taken.
`

// WriteUsage prints Usage to w.
func WriteUsage(w io.Writer) {
	fmt.Fprint(w, Usage)
}
