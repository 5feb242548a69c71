// Package catalog holds the association's published content: events,
// webinars, publications, resources, and videos. Listing endpoints compose the
// directory engine over store snapshots; records are immutable within one
// request and replaced wholesale on refresh, never patched in place.
package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Event is a conference, training, or meeting listing.
type Event struct {
	ID       uuid.UUID `json:"id" yaml:"id"`
	Title    string    `json:"title" yaml:"title"`
	Date     time.Time `json:"date" yaml:"date"`
	Location string    `json:"location" yaml:"location"`
	Category string    `json:"category" yaml:"category"`
	Type     string    `json:"type" yaml:"type"`
}

// Webinar is a scheduled or recorded online session.
type Webinar struct {
	ID       uuid.UUID `json:"id" yaml:"id"`
	Title    string    `json:"title" yaml:"title"`
	Date     time.Time `json:"date" yaml:"date"`
	Status   string    `json:"status" yaml:"status"`
	Tags     []string  `json:"tags" yaml:"tags"`
	Speakers []string  `json:"speakers" yaml:"speakers"`
}

// Publication is a journal article or report authored by members.
type Publication struct {
	ID       uuid.UUID `json:"id" yaml:"id"`
	Title    string    `json:"title" yaml:"title"`
	Authors  []string  `json:"authors" yaml:"authors"`
	Abstract string    `json:"abstract" yaml:"abstract"`
	Year     int       `json:"year" yaml:"year"`
	Keywords []string  `json:"keywords" yaml:"keywords"`
}

// Resource is a downloadable guideline, form, or teaching aid.
type Resource struct {
	ID          uuid.UUID `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Type        string    `json:"type" yaml:"type"`
	Description string    `json:"description" yaml:"description"`
}

// Video is a recorded lecture or awareness piece.
type Video struct {
	ID          uuid.UUID `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Category    string    `json:"category" yaml:"category"`
	Description string    `json:"description" yaml:"description"`
}
