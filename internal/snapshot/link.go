package snapshot

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

// LinkKey is the query parameter that carries the ids.
const LinkKey = "stack"

// ErrEmptySelection is the EmptySelectionError returned by EncodeLink.
var ErrEmptySelection = &EmptySelectionError{}

// EmptySelectionError is returned when a link is requested for an empty stack.
type EmptySelectionError struct{}

func (*EmptySelectionError) Error() string { return "snapshot: cannot share an empty stack" }

// Is matches any *EmptySelectionError.
func (*EmptySelectionError) Is(target error) bool {
	_, ok := target.(*EmptySelectionError)
	return ok
}

// EncodeLink returns the query string "stack=1,2,3". Only ids are carried.
func EncodeLink(ids []int) (string, error) {
	if len(ids) == 0 {
		return "", ErrEmptySelection
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	// Commas stay literal so links remain readable.
	return LinkKey + "=" + strings.Join(parts, ","), nil
}

// ShareURL appends the encoded ids to base, replacing any existing stack key.
func ShareURL(base string, ids []int) (string, error) {
	q, err := EncodeLink(ids)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", errors.New("snapshot: invalid base URL: " + err.Error())
	}
	values := u.Query()
	values.Del(LinkKey)
	u.RawQuery = values.Encode()
	if u.RawQuery == "" {
		u.RawQuery = q
	} else {
		u.RawQuery += "&" + q
	}
	return u.String(), nil
}

// DecodeLink extracts ids from a query string, "?query", or full URL.
// Unknown keys and non-integer tokens are ignored; a missing key yields an empty slice.
func DecodeLink(s string) []int {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[i+1:]
	}

	values, _ := url.ParseQuery(s) // keeps the pairs that did parse
	raw := values.Get(LinkKey)
	ids := []int{}
	if raw == "" {
		return ids
	}
	for _, tok := range strings.Split(raw, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
