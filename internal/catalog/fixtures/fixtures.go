// Package fixtures embeds the static content snapshot used when no relational
// store is configured. The data mirrors what the production database seeds
// with, so local development and demos exercise the same shapes.
package fixtures

import (
	"embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"neuroportal/internal/catalog"
)

//go:embed *.yaml
var files embed.FS

// Raw fixture records carry string IDs; uuid parsing happens at load time so a
// malformed fixture fails loudly at startup instead of surfacing later as a
// zero ID.
type eventDoc struct {
	ID       string    `yaml:"id"`
	Title    string    `yaml:"title"`
	Date     time.Time `yaml:"date"`
	Location string    `yaml:"location"`
	Category string    `yaml:"category"`
	Type     string    `yaml:"type"`
}

type webinarDoc struct {
	ID       string    `yaml:"id"`
	Title    string    `yaml:"title"`
	Date     time.Time `yaml:"date"`
	Status   string    `yaml:"status"`
	Tags     []string  `yaml:"tags"`
	Speakers []string  `yaml:"speakers"`
}

type publicationDoc struct {
	ID       string   `yaml:"id"`
	Title    string   `yaml:"title"`
	Authors  []string `yaml:"authors"`
	Abstract string   `yaml:"abstract"`
	Year     int      `yaml:"year"`
	Keywords []string `yaml:"keywords"`
}

type resourceDoc struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
}

type videoDoc struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
}

// Content is the full fixture snapshot.
type Content struct {
	Events       []catalog.Event
	Webinars     []catalog.Webinar
	Publications []catalog.Publication
	Resources    []catalog.Resource
	Videos       []catalog.Video
}

// Load decodes every embedded fixture file.
func Load() (*Content, error) {
	var content Content

	var events []eventDoc
	if err := decode("events.yaml", &events); err != nil {
		return nil, err
	}
	for _, doc := range events {
		eventID, err := parseID("events.yaml", doc.ID)
		if err != nil {
			return nil, err
		}
		content.Events = append(content.Events, catalog.Event{
			ID: eventID, Title: doc.Title, Date: doc.Date,
			Location: doc.Location, Category: doc.Category, Type: doc.Type,
		})
	}

	var webinars []webinarDoc
	if err := decode("webinars.yaml", &webinars); err != nil {
		return nil, err
	}
	for _, doc := range webinars {
		webinarID, err := parseID("webinars.yaml", doc.ID)
		if err != nil {
			return nil, err
		}
		content.Webinars = append(content.Webinars, catalog.Webinar{
			ID: webinarID, Title: doc.Title, Date: doc.Date,
			Status: doc.Status, Tags: doc.Tags, Speakers: doc.Speakers,
		})
	}

	var publications []publicationDoc
	if err := decode("publications.yaml", &publications); err != nil {
		return nil, err
	}
	for _, doc := range publications {
		publicationID, err := parseID("publications.yaml", doc.ID)
		if err != nil {
			return nil, err
		}
		content.Publications = append(content.Publications, catalog.Publication{
			ID: publicationID, Title: doc.Title, Authors: doc.Authors,
			Abstract: doc.Abstract, Year: doc.Year, Keywords: doc.Keywords,
		})
	}

	var resources []resourceDoc
	if err := decode("resources.yaml", &resources); err != nil {
		return nil, err
	}
	for _, doc := range resources {
		resourceID, err := parseID("resources.yaml", doc.ID)
		if err != nil {
			return nil, err
		}
		content.Resources = append(content.Resources, catalog.Resource{
			ID: resourceID, Title: doc.Title, Type: doc.Type, Description: doc.Description,
		})
	}

	var videos []videoDoc
	if err := decode("videos.yaml", &videos); err != nil {
		return nil, err
	}
	for _, doc := range videos {
		videoID, err := parseID("videos.yaml", doc.ID)
		if err != nil {
			return nil, err
		}
		content.Videos = append(content.Videos, catalog.Video{
			ID: videoID, Title: doc.Title, Category: doc.Category, Description: doc.Description,
		})
	}

	return &content, nil
}

func decode(name string, dst any) error {
	raw, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read fixture %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("parse fixture %s: %w", name, err)
	}
	return nil
}

func parseID(file, raw string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("fixture %s: invalid id %q: %w", file, raw, err)
	}
	return parsed, nil
}
