package commands

import (
	command "github.com/goliatone/go-command"
	internalcommands "github.com/goliatone/go-groupbadges/internal/commands"
	"github.com/goliatone/go-groupbadges/pkg/activity"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/logger"
	"github.com/goliatone/go-groupbadges/pkg/storage"
	"github.com/goliatone/go-groupbadges/pkg/title"
)

// Re-export request types so consumers need not import internal packages.
type (
	DefineGroup  = internalcommands.DefineGroup
	CreateUser   = internalcommands.CreateUser
	AssignGroup  = internalcommands.AssignGroup
	RevokeGroup  = internalcommands.RevokeGroup
	RegisterFile = internalcommands.RegisterFile
)

var (
	ErrUnknownUser  = internalcommands.ErrUnknownUser
	ErrUnknownGroup = internalcommands.ErrUnknownGroup
)

// Registry exposes go-command compatible handlers backed by the module stores.
type Registry struct {
	Catalog      *internalcommands.Catalog
	DefineGroup  command.Commander[DefineGroup]
	CreateUser   command.Commander[CreateUser]
	AssignGroup  command.Commander[AssignGroup]
	RevokeGroup  command.Commander[RevokeGroup]
	RegisterFile command.Commander[RegisterFile]
}

// Dependencies mirror the internal command dependencies but keep them public.
type Dependencies struct {
	Storage    storage.Providers
	Namespaces *title.Namespaces
	Activity   activity.Hooks
	Logger     logger.Logger
}

// New builds the registry using the provided dependencies.
func New(deps Dependencies) (*Registry, error) {
	catalog, err := internalcommands.NewCatalog(internalcommands.Dependencies{
		Users:       deps.Storage.Users,
		Groups:      deps.Storage.Groups,
		Memberships: deps.Storage.Memberships,
		Files:       deps.Storage.Files,
		Transaction: deps.Storage.Transaction,
		Namespaces:  deps.Namespaces,
		Activity:    deps.Activity,
		Logger:      deps.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &Registry{
		Catalog:      catalog,
		DefineGroup:  catalog.DefineGroup,
		CreateUser:   catalog.CreateUser,
		AssignGroup:  catalog.AssignGroup,
		RevokeGroup:  catalog.RevokeGroup,
		RegisterFile: catalog.RegisterFile,
	}, nil
}

// Commanders returns every handler so callers can register them with go-command registries.
func (r *Registry) Commanders() []any {
	if r == nil {
		return nil
	}
	return []any{
		r.DefineGroup,
		r.CreateUser,
		r.AssignGroup,
		r.RevokeGroup,
		r.RegisterFile,
	}
}
