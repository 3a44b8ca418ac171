package domain

// Label keys set on every container created by ephemera.
const (
	LabelManaged = "ephemera.managed"
	LabelSession = "ephemera.session"
	LabelImage   = "ephemera.image"
	LabelName    = "ephemera.name"
)

// ManagedLabels returns the labels identifying a container of the given session.
func ManagedLabels(sessionID, image string) map[string]string {
	return map[string]string{
		LabelManaged: "true",
		LabelSession: sessionID,
		LabelImage:   image,
	}
}
