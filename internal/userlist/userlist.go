package userlist

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// FileError is returned when a user list file cannot be read.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("read userlist %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

var ErrNoSelector = errors.New("need a template, a userlist, or both")

// Load reads a newline separated list of usernames. Lines are trimmed and
// blank lines are skipped. Order and duplicates are preserved.
func Load(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	return Parse(string(b)), nil
}

// Parse splits raw file contents into usernames.
func Parse(data string) []string {
	users := []string{}
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		users = append(users, line)
	}
	return users
}

// ComposeIdentifier builds the pod name the server uses for a user's clone
// of a template.
func ComposeIdentifier(template, user string) string {
	return template + "_" + user
}

// ComposeIdentifiers applies ComposeIdentifier to every user, in order.
func ComposeIdentifiers(template string, users []string) []string {
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = ComposeIdentifier(template, u)
	}
	return ids
}

// DeleteFilters picks the bulk delete filter set:
//
//	template only  -> [template]
//	users only     -> users
//	both           -> template_user for every user
func DeleteFilters(template string, users []string, haveUsers bool) ([]string, error) {
	switch {
	case template != "" && !haveUsers:
		return []string{template}, nil
	case template == "" && haveUsers:
		out := make([]string, len(users))
		copy(out, users)
		return out, nil
	case template != "" && haveUsers:
		return ComposeIdentifiers(template, users), nil
	default:
		return nil, ErrNoSelector
	}
}
