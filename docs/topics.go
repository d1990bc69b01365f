// Package docs holds the user documentation, one markdown topic per file.
package docs

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

//go:embed *.md
var docs embed.FS

// Index is the topic listing every other topic.
const Index = "readme"

// ErrUnknownTopic is returned for a topic without documentation.
var ErrUnknownTopic = errors.New("unknown topic")

// Topic returns the markdown content of a topic.
func Topic(name string) (string, error) {
	content, err := docs.ReadFile(name + ".md")
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w %q, see 'folio topic' for the list", ErrUnknownTopic, name)
	}
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// Topics concatenates topics. "*" stands for every topic but the index.
func Topics(names ...string) (string, error) {
	var b strings.Builder
	for _, name := range names {
		expanded := []string{name}
		if name == "*" {
			expanded = All()
		}
		for _, n := range expanded {
			content, err := Topic(n)
			if err != nil {
				return "", err
			}
			b.WriteString(content)
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// All lists the topics, index excluded, in alphabetical order.
func All() []string {
	files, _ := fs.Glob(docs, "*.md")
	var topics []string
	for _, file := range files {
		if name := strings.TrimSuffix(file, ".md"); name != Index {
			topics = append(topics, name)
		}
	}
	slices.Sort(topics)
	return topics
}
