package domain

import (
	"time"

	"github.com/google/uuid"
)

// App is a namespace owned by one owner. Licenses and sub-users are
// scoped to an app; deleting the app cascades to both.
type App struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	// Name is unique within the owner's namespace, not globally.
	Name string
	// Secret is presented by downstream consuming software to prove it
	// calls on behalf of a genuine registered app.
	Secret    string
	Version   string
	Active    bool
	CreatedAt time.Time
}
