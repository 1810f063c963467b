package texturelib_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/skinloft/texture-library/pkg/texturelib"
)

func TestActorAuthorization(t *testing.T) {
	ownerID := uuid.New()
	owner := texturelib.Actor{ID: ownerID}
	stranger := texturelib.Actor{ID: uuid.New()}
	admin := texturelib.Actor{ID: uuid.New(), Admin: true}

	public := &texturelib.Texture{UploaderID: ownerID, Public: true}
	private := &texturelib.Texture{UploaderID: ownerID, Public: false}

	tests := []struct {
		name      string
		actor     texturelib.Actor
		texture   *texturelib.Texture
		canView   bool
		canModify bool
	}{
		{"owner views own private", owner, private, true, true},
		{"owner views own public", owner, public, true, true},
		{"stranger views public", stranger, public, true, false},
		{"stranger views private", stranger, private, false, false},
		{"admin views private", admin, private, true, true},
		{"anonymous views public", texturelib.AnonymousActor, public, true, false},
		{"anonymous views private", texturelib.AnonymousActor, private, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.canView, tt.actor.CanView(tt.texture))
			assert.Equal(t, tt.canModify, tt.actor.CanModify(tt.texture))
		})
	}
}

func TestSearchScope(t *testing.T) {
	assert.Equal(t, texturelib.ScopePublicOnly, texturelib.AnonymousActor.SearchScope())
	assert.Equal(t, texturelib.ScopeViewer, texturelib.Actor{ID: uuid.New()}.SearchScope())
	assert.Equal(t, texturelib.ScopeAll, texturelib.Actor{ID: uuid.New(), Admin: true}.SearchScope())
}
