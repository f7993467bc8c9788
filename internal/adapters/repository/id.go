package repository

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category partitions the store.
type Category string

// Document categories.
const (
	CategoryConfiguration Category = "configuration"
	CategoryBehavior      Category = "behavior"
	CategoryStimulus      Category = "stimulus"
)

var fullNamePattern = regexp.MustCompile(`^(.+)/(.+)$`)

var nameReplacer = strings.NewReplacer(" ", "-", "/", "-")

// NormalizeName makes s usable as a group or name part.
func NormalizeName(s string) string { return nameReplacer.Replace(s) }

// ID addresses one document.
type ID struct {
	Category Category
	Group    string
	Name     string
}

// NewID normalizes group and name.
func NewID(category Category, group, name string) ID {
	return ID{Category: category, Group: NormalizeName(group), Name: NormalizeName(name)}
}

// ParseID splits a "group/name" full name. The last '/' separates the name.
func ParseID(category Category, fullName string) (ID, error) {
	m := fullNamePattern.FindStringSubmatch(fullName)
	if m == nil {
		return ID{}, fmt.Errorf("%w: '%s' is not group/name", ErrInvalidName, fullName)
	}
	return NewID(category, m[1], m[2]), nil
}

// FullName is "group/name", the form trackers use.
func (id ID) FullName() string { return id.Group + "/" + id.Name }

func (id ID) String() string { return path.Join(string(id.Category), id.Group, id.Name) }

// MarshalYAML writes the full name; the category is implied by the field.
func (id ID) MarshalYAML() (interface{}, error) { return id.FullName(), nil }

// UnmarshalYAML reads a full name. The caller sets Category.
func (id *ID) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseID(id.Category, s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
