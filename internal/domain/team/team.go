package team

import (
	"context"
	"strings"

	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LogoVariant selects one of the team's two logos
type LogoVariant string

const (
	LogoColored LogoVariant = "colored"
	LogoBW      LogoVariant = "bw"
)

// IsValid checks if the variant is known
func (v LogoVariant) IsValid() bool {
	return v == LogoColored || v == LogoBW
}

const (
	AggregateTypeTeam    = "Team"
	EventTypeLogoChanged = "TeamLogoChanged"
)

// LogoChangedEvent is published when a logo is uploaded or replaced
type LogoChangedEvent struct {
	shared.BaseDomainEvent
	Variant LogoVariant `json:"variant"`
	Path    string      `json:"path"`
}

// Team is the tenant boundary. Only logo handling lives in this service;
// team membership and switching belong to the identity provider.
type Team struct {
	shared.BaseAggregateRoot
	Name        string
	ColoredLogo string
	BWLogo      string
}

// NewTeam creates a team row with a caller supplied id
func NewTeam(id uuid.UUID, name string) (*Team, error) {
	if id == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_TEAM_ID", "Team ID cannot be empty")
	}
	t := &Team{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	t.ID = id
	t.Name = strings.TrimSpace(name)
	return t, nil
}

// Logo returns the blob key of a logo variant
func (t *Team) Logo(v LogoVariant) string {
	if v == LogoBW {
		return t.BWLogo
	}
	return t.ColoredLogo
}

// SetLogo sets a logo variant and returns the previous blob key
func (t *Team) SetLogo(v LogoVariant, path string) (string, error) {
	if !v.IsValid() {
		return "", shared.NewValidationError("INVALID_LOGO_VARIANT", "Logo variant must be colored or bw")
	}
	old := t.Logo(v)
	if v == LogoBW {
		t.BWLogo = path
	} else {
		t.ColoredLogo = path
	}
	t.MarkChanged(&LogoChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLogoChanged, AggregateTypeTeam, t.ID, t.ID),
		Variant:         v,
		Path:            path,
	})
	return old, nil
}

// Repository defines team persistence
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Team, error)
	Save(ctx context.Context, team *Team) error
}
