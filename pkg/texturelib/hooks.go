package texturelib

import "sort"

// Hook system allows extending library behavior without modifying core
// code. Extension points are typed callback lists held by an explicit
// Registry passed into the service; there is no ambient global
// registration. Callbacks run in ascending priority order, and within one
// priority in registration order.

// Badge is a decoration rendered next to a user, contributed by hooks.
type Badge struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

// BeforeUploadHook runs before an upload is processed. Returning an error
// rejects the upload; the error surfaces to the caller unchanged.
type BeforeUploadHook func(req *UploadRequest) error

// BeforeDeleteHook runs before a texture is deleted. Returning an error
// aborts the deletion.
type BeforeDeleteHook func(texture *Texture) error

// UserBadgeHook contributes badges for a user. It receives the badges
// collected so far and returns the new list.
type UserBadgeHook func(user *User, badges []Badge) []Badge

type hookEntry[T any] struct {
	priority int
	seq      int
	fn       T
}

type hookList[T any] struct {
	entries []hookEntry[T]
	nextSeq int
}

func (l *hookList[T]) add(priority int, fn T) {
	l.entries = append(l.entries, hookEntry[T]{priority: priority, seq: l.nextSeq, fn: fn})
	l.nextSeq++
	sort.SliceStable(l.entries, func(i, j int) bool {
		if l.entries[i].priority != l.entries[j].priority {
			return l.entries[i].priority < l.entries[j].priority
		}
		return l.entries[i].seq < l.entries[j].seq
	})
}

// Registry holds the registered extension points. The zero value is ready
// to use. Registry is not safe for concurrent registration; register
// everything during startup, before the service handles requests.
type Registry struct {
	beforeUpload hookList[BeforeUploadHook]
	beforeDelete hookList[BeforeDeleteHook]
	userBadges   hookList[UserBadgeHook]
}

// NewRegistry creates an empty hook registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// OnBeforeUpload registers a hook consulted before every upload.
func (r *Registry) OnBeforeUpload(priority int, fn BeforeUploadHook) {
	r.beforeUpload.add(priority, fn)
}

// OnBeforeDelete registers a hook consulted before every deletion.
func (r *Registry) OnBeforeDelete(priority int, fn BeforeDeleteHook) {
	r.beforeDelete.add(priority, fn)
}

// AddUserBadge registers a badge contributor resolved at render time.
func (r *Registry) AddUserBadge(priority int, fn UserBadgeHook) {
	r.userBadges.add(priority, fn)
}

func (r *Registry) runBeforeUpload(req *UploadRequest) error {
	for _, e := range r.beforeUpload.entries {
		if err := e.fn(req); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) runBeforeDelete(t *Texture) error {
	for _, e := range r.beforeDelete.entries {
		if err := e.fn(t); err != nil {
			return err
		}
	}
	return nil
}

// UserBadges resolves the badge list for a user by folding every
// registered contributor over the accumulated list.
func (r *Registry) UserBadges(u *User) []Badge {
	var badges []Badge
	for _, e := range r.userBadges.entries {
		badges = e.fn(u, badges)
	}
	return badges
}
