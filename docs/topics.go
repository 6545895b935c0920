// Package docs holds the user manual of tb, one markdown file per topic.
package docs

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed *.md
var manual embed.FS

// Index is the topic listing every other topic.
const Index = "readme"

// All is the topic name that stands for every topic but the index.
const All = "*"

// GetTopic returns the markdown of a topic.
func GetTopic(topic string) (string, error) {
	if topic == All {
		topics, err := GetAllTopics()
		if err != nil {
			return "", err
		}
		return GetTopics(topics...)
	}
	content, err := manual.ReadFile(topic + ".md")
	if err != nil {
		return "", fmt.Errorf("unknown topic %q: %w", topic, err)
	}
	return string(content), nil
}

// GetTopics concatenates the markdown of topics, in order.
func GetTopics(topics ...string) (string, error) {
	var sb strings.Builder
	for _, topic := range topics {
		content, err := GetTopic(topic)
		if err != nil {
			return "", err
		}
		fmt.Fprintln(&sb, content)
	}
	return sb.String(), nil
}

// GetAllTopics lists the topics in alphabetical order, without the index.
func GetAllTopics() ([]string, error) {
	files, err := fs.Glob(manual, "*.md")
	if err != nil {
		return nil, err
	}
	topics := make([]string, 0, len(files))
	for _, file := range files {
		if topic := strings.TrimSuffix(file, ".md"); topic != Index {
			topics = append(topics, topic)
		}
	}
	return topics, nil
}
