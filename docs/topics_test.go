package docs

import (
	"bufio"
	"os"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func TestTopics(t *testing.T) {
	// Every topic listed in readme.md loads, and every topic is listed.
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var listed []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if m := topicRegex.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			listed = append(listed, strings.TrimSpace(m[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}

	for _, topic := range listed {
		if _, err := Topic(topic); err != nil {
			t.Errorf("Topic(%q) error = %v", topic, err)
		}
	}
	for _, topic := range All() {
		if !slices.Contains(listed, topic) {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}
	if _, err := Topic("nope"); err == nil {
		t.Error("Topic(nope) error = nil")
	}
}

func TestTopic_All(t *testing.T) {
	all, err := Topic("*")
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range All() {
		content, _ := Topic(topic)
		if !strings.Contains(all, content) {
			t.Errorf("Topic(*) misses %q", topic)
		}
	}
}

// Every topic opens with a level one heading.
func TestTopic_Heading(t *testing.T) {
	for _, topic := range All() {
		content, err := Topic(topic)
		if err != nil {
			t.Fatal(err)
		}
		source := []byte(content)
		root := goldmark.DefaultParser().Parse(text.NewReader(source))
		h, ok := root.FirstChild().(*ast.Heading)
		if !ok || h.Level != 1 {
			t.Errorf("topic %q does not start with a level 1 heading", topic)
		}
	}
}
