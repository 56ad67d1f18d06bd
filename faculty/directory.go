// Package faculty serves the staff list behind the form's autocomplete.
package faculty

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// MaxResults caps how many members one search returns.
const MaxResults = 10

type Member struct {
	Name        string `json:"name"`
	Prefix      string `json:"prefix"`
	Designation string `json:"designation"`
}

// NameWithTitle is the form's faculty_name_with_title value for m.
func (m Member) NameWithTitle() string {
	if m.Prefix == "" {
		return m.Name
	}
	return m.Prefix + " " + m.Name
}

type Directory struct {
	members []Member
	lowered []string
	cache   *cache.Cache
	sfGroup singleflight.Group
}

func NewDirectory(members []Member) *Directory {
	lowered := make([]string, len(members))
	for i, m := range members {
		lowered[i] = strings.ToLower(m.Name)
	}
	return &Directory{
		members: members,
		lowered: lowered,
		cache:   cache.New(5*time.Minute, 10*time.Minute),
	}
}

// LoadFile reads a directory from a JSON Lines file, one member per line.
func LoadFile(path string) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open faculty file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func Load(r io.Reader) (*Directory, error) {
	var members []Member
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var m Member
		if err := json.Unmarshal([]byte(text), &m); err != nil {
			return nil, fmt.Errorf("failed to parse faculty line %d: %w", line, err)
		}
		if m.Name == "" {
			return nil, fmt.Errorf("faculty line %d has no name", line)
		}
		members = append(members, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read faculty file: %w", err)
	}
	return NewDirectory(members), nil
}

func (d *Directory) Len() int {
	return len(d.members)
}

// Search returns up to MaxResults members whose name contains query,
// ignoring case, in file order. A blank query matches nothing.
func (d *Directory) Search(query string) []Member {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	if cached, found := d.cache.Get(q); found {
		return cached.([]Member)
	}

	v, _, _ := d.sfGroup.Do(q, func() (interface{}, error) {
		var found []Member
		for i, name := range d.lowered {
			if strings.Contains(name, q) {
				found = append(found, d.members[i])
				if len(found) == MaxResults {
					break
				}
			}
		}
		d.cache.SetDefault(q, found)
		return found, nil
	})
	return v.([]Member)
}
