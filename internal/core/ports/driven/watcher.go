package driven

import "context"

// FileEventType describes a change to a watched file.
type FileEventType int

const (
	FileCreated FileEventType = iota
	FileModified
	FileRemoved
)

// FileEvent is a single change notification.
type FileEvent struct {
	Path string
	Type FileEventType
}

// FileWatcher reports changes under a directory tree.
type FileWatcher interface {
	// Watch starts watching root recursively. Events are delivered on the
	// returned channel until ctx is cancelled, after which it is closed.
	Watch(ctx context.Context, root string) (<-chan FileEvent, error)

	// Close stops watching and releases resources.
	Close() error
}
