package domain

import "time"

// EventType defines the type of event that occurred.
type EventType string

const (
	EventContainerState EventType = "container.state"
	EventImagePulled    EventType = "image.pulled"
)

// Event represents a domain event that occurred in the system.
type Event struct {
	ID          string
	Type        EventType
	Timestamp   time.Time
	ContainerID string
	Data        any
}

// ContainerStatePayload contains data for container.state events.
type ContainerStatePayload struct {
	ContainerID string
	Name        string
	Image       string
	From        State
	To          State
	Err         error
}

// ImagePulledPayload contains data for image.pulled events.
type ImagePulledPayload struct {
	Image    string
	Duration time.Duration
}
