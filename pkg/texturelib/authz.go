package texturelib

import "github.com/google/uuid"

// Actor identifies the caller of a service operation. It is supplied by the
// authentication layer and trusted as given.
type Actor struct {
	ID        uuid.UUID
	Admin     bool
	Anonymous bool
}

// AnonymousActor is the actor for unauthenticated requests.
var AnonymousActor = Actor{Anonymous: true}

// CanModify reports whether the actor may mutate the texture. Only the
// uploader and admins may; this is the single authorization predicate every
// mutating operation consults.
func (a Actor) CanModify(t *Texture) bool {
	if a.Anonymous {
		return false
	}
	return a.Admin || a.ID == t.UploaderID
}

// CanView reports whether the actor may see the texture. Public textures
// are visible to everyone; private ones only to their uploader and admins.
func (a Actor) CanView(t *Texture) bool {
	return t.Public || a.CanModify(t)
}

// SearchScope returns the visibility scope search applies for this actor.
func (a Actor) SearchScope() VisibilityScope {
	switch {
	case a.Anonymous:
		return ScopePublicOnly
	case a.Admin:
		return ScopeAll
	default:
		return ScopeViewer
	}
}
