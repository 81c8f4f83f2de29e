package shell

import (
	"fmt"
	"strconv"
	"strings"
)

// arg is a single word of a command line. Quoted words always stay strings.
type arg struct {
	text   string
	quoted bool
}

// value converts the word to the value stored by the client: integers become
// int64, floats float64, true/false bool and "nil" nil. Everything else and
// every quoted word is a string.
func (a arg) value() any {
	if a.quoted {
		return a.text
	}
	if n, err := strconv.ParseInt(a.text, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(a.text, 64); err == nil {
		return f
	}
	switch a.text {
	case "true":
		return true
	case "false":
		return false
	case "nil":
		return nil
	}
	return a.text
}

// splitArgs splits a line at whitespace. Double quoted words may contain
// whitespace and Go escape sequences.
func splitArgs(line string) ([]arg, error) {
	var args []arg
	rest := strings.TrimSpace(line)

	for rest != "" {
		if rest[0] == '"' {
			quoted, err := strconv.QuotedPrefix(rest)
			if err != nil {
				return nil, fmt.Errorf("unterminated string: %s", rest)
			}
			text, _ := strconv.Unquote(quoted)
			args = append(args, arg{text: text, quoted: true})
			rest = strings.TrimSpace(rest[len(quoted):])
			continue
		}

		end := strings.IndexAny(rest, " \t")
		if end < 0 {
			end = len(rest)
		}
		args = append(args, arg{text: rest[:end]})
		rest = strings.TrimSpace(rest[end:])
	}
	return args, nil
}
