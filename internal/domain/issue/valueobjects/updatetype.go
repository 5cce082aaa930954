package valueobjects

import "fmt"

type UpdateType string

const (
	UpdateTypeStatusChange UpdateType = "status_change"
	UpdateTypeComment      UpdateType = "comment"
	UpdateTypeAssignment   UpdateType = "assignment"
	UpdateTypeResolution   UpdateType = "resolution"
)

func (t UpdateType) String() string {
	return string(t)
}

func (t UpdateType) IsValid() bool {
	switch t {
	case UpdateTypeStatusChange, UpdateTypeComment, UpdateTypeAssignment, UpdateTypeResolution:
		return true
	}
	return false
}

func NewUpdateType(s string) (UpdateType, error) {
	t := UpdateType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid update type: %s", s)
	}
	return t, nil
}
