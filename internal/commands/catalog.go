package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-groupbadges/pkg/activity"
	"github.com/goliatone/go-groupbadges/pkg/domain"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/logger"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/store"
	"github.com/goliatone/go-groupbadges/pkg/title"
)

var (
	ErrUnknownUser  = errors.New("commands: unknown user")
	ErrUnknownGroup = errors.New("commands: unknown group")
)

// Catalog exposes go-command compatible handlers that maintain the
// reference host directory.
type Catalog struct {
	DefineGroup  command.Commander[DefineGroup]
	CreateUser   command.Commander[CreateUser]
	AssignGroup  command.Commander[AssignGroup]
	RevokeGroup  command.Commander[RevokeGroup]
	RegisterFile command.Commander[RegisterFile]
}

// Dependencies wires repositories into the command catalog.
type Dependencies struct {
	Users       store.UserRepository
	Groups      store.GroupRepository
	Memberships store.MembershipRepository
	Files       store.FileRepository
	Transaction store.TransactionManager
	Namespaces  *title.Namespaces
	Activity    activity.Hooks
	Logger      logger.Logger
}

// NewCatalog builds the command catalog using the supplied dependencies.
func NewCatalog(deps Dependencies) (*Catalog, error) {
	if deps.Users == nil {
		return nil, errors.New("commands: user repository is required")
	}
	if deps.Groups == nil {
		return nil, errors.New("commands: group repository is required")
	}
	if deps.Memberships == nil {
		return nil, errors.New("commands: membership repository is required")
	}
	if deps.Files == nil {
		return nil, errors.New("commands: file repository is required")
	}
	if deps.Transaction == nil {
		deps.Transaction = &store.NopTransactionManager{}
	}
	if deps.Namespaces == nil {
		deps.Namespaces = title.DefaultNamespaces()
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}

	return &Catalog{
		DefineGroup:  groupDefineCommand{deps: deps},
		CreateUser:   userCreateCommand{deps: deps},
		AssignGroup:  groupAssignCommand{deps: deps},
		RevokeGroup:  groupRevokeCommand{deps: deps},
		RegisterFile: fileRegisterCommand{deps: deps},
	}, nil
}

// DefineGroup adds a group to the catalog. A zero Position appends the
// group after the existing ones.
type DefineGroup struct {
	Name        string `json:"name"`
	Position    int    `json:"position"`
	ActorID     string `json:"actor_id"`
	AllowUpdate bool   `json:"allow_update"`
}

type groupDefineCommand struct {
	deps Dependencies
}

func (c groupDefineCommand) Execute(ctx context.Context, msg DefineGroup) error {
	name := strings.TrimSpace(msg.Name)
	if name == "" {
		return errors.New("commands: group name is required")
	}

	existing, err := c.deps.Groups.GetByName(ctx, name)
	switch {
	case err == nil:
		if !msg.AllowUpdate {
			return fmt.Errorf("commands: group %s already exists: %w", name, store.ErrDuplicate)
		}
		existing.Position = msg.Position
		if err := c.deps.Groups.Update(ctx, existing); err != nil {
			return err
		}
		c.notify(ctx, msg, existing)
		return nil
	case !errors.Is(err, store.ErrNotFound):
		return err
	}

	position := msg.Position
	if position == 0 {
		groups, err := c.deps.Groups.ListOrdered(ctx)
		if err != nil {
			return err
		}
		position = len(groups)
	}
	group := &domain.Group{Name: name, Position: position}
	if err := c.deps.Groups.Create(ctx, group); err != nil {
		return err
	}
	c.notify(ctx, msg, group)
	return nil
}

func (c groupDefineCommand) notify(ctx context.Context, msg DefineGroup, group *domain.Group) {
	c.deps.Activity.Notify(ctx, activity.Event{
		Verb:       activity.VerbGroupDefined,
		ActorID:    msg.ActorID,
		ObjectType: activity.ObjectGroup,
		ObjectID:   group.ID.String(),
		Metadata: map[string]any{
			"group":    group.Name,
			"position": group.Position,
		},
	})
}

// CreateUser registers an account. The name is normalized like a title.
type CreateUser struct {
	Name    string `json:"name"`
	ActorID string `json:"actor_id"`
}

type userCreateCommand struct {
	deps Dependencies
}

func (c userCreateCommand) Execute(ctx context.Context, msg CreateUser) error {
	name := title.Normalize(msg.Name)
	if name == "" {
		return errors.New("commands: user name is required")
	}
	user := &domain.User{Name: name}
	if err := c.deps.Users.Create(ctx, user); err != nil {
		return err
	}
	c.deps.Activity.Notify(ctx, activity.Event{
		Verb:       activity.VerbUserCreated,
		ActorID:    msg.ActorID,
		UserID:     user.ID.String(),
		ObjectType: activity.ObjectUser,
		ObjectID:   user.ID.String(),
		Metadata:   map[string]any{"user": user.Name},
	})
	return nil
}

// AssignGroup adds a user to a group. Assigning an existing membership is
// a no-op.
type AssignGroup struct {
	User    string `json:"user"`
	Group   string `json:"group"`
	ActorID string `json:"actor_id"`
}

type groupAssignCommand struct {
	deps Dependencies
}

func (c groupAssignCommand) Execute(ctx context.Context, msg AssignGroup) error {
	return c.deps.Transaction.WithinTransaction(ctx, func(ctx context.Context) error {
		user, group, err := resolveMembership(ctx, c.deps, msg.User, msg.Group)
		if err != nil {
			return err
		}

		if _, err := c.deps.Memberships.GetByUserAndGroup(ctx, user.ID, group.Name); err == nil {
			return nil
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		current, err := c.deps.Memberships.ListByUser(ctx, user.ID)
		if err != nil {
			return err
		}
		membership := &domain.GroupMembership{
			UserID:   user.ID,
			Group:    group.Name,
			Position: len(current),
		}
		if err := c.deps.Memberships.Create(ctx, membership); err != nil {
			return err
		}
		c.deps.Logger.Debug("commands: group assigned", logger.F("user", user.Name), logger.F("group", group.Name))
		c.deps.Activity.Notify(ctx, activity.Event{
			Verb:       activity.VerbGroupAssigned,
			ActorID:    msg.ActorID,
			UserID:     user.ID.String(),
			ObjectType: activity.ObjectMembership,
			ObjectID:   membership.ID.String(),
			Metadata:   map[string]any{"user": user.Name, "group": group.Name},
		})
		return nil
	})
}

// RevokeGroup removes a user from a group. Revoking a missing membership is
// a no-op.
type RevokeGroup struct {
	User    string `json:"user"`
	Group   string `json:"group"`
	ActorID string `json:"actor_id"`
}

type groupRevokeCommand struct {
	deps Dependencies
}

func (c groupRevokeCommand) Execute(ctx context.Context, msg RevokeGroup) error {
	return c.deps.Transaction.WithinTransaction(ctx, func(ctx context.Context) error {
		user, group, err := resolveMembership(ctx, c.deps, msg.User, msg.Group)
		if err != nil {
			return err
		}
		membership, err := c.deps.Memberships.GetByUserAndGroup(ctx, user.ID, group.Name)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := c.deps.Memberships.SoftDelete(ctx, membership.ID); err != nil {
			return err
		}
		c.deps.Activity.Notify(ctx, activity.Event{
			Verb:       activity.VerbGroupRevoked,
			ActorID:    msg.ActorID,
			UserID:     user.ID.String(),
			ObjectType: activity.ObjectMembership,
			ObjectID:   membership.ID.String(),
			Metadata:   map[string]any{"user": user.Name, "group": group.Name},
		})
		return nil
	})
}

func resolveMembership(ctx context.Context, deps Dependencies, userName, groupName string) (*domain.User, *domain.Group, error) {
	name := title.Normalize(userName)
	user, err := deps.Users.GetByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownUser, name)
	}
	if err != nil {
		return nil, nil, err
	}
	group, err := deps.Groups.GetByName(ctx, strings.TrimSpace(groupName))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownGroup, groupName)
	}
	if err != nil {
		return nil, nil, err
	}
	return user, group, nil
}

// RegisterFile adds a media file. Name may carry a file namespace prefix.
// Foreign files (Local false) are always available.
type RegisterFile struct {
	Name        string         `json:"name"`
	URL         string         `json:"url"`
	Local       bool           `json:"local"`
	Exists      bool           `json:"exists"`
	Metadata    map[string]any `json:"metadata"`
	ActorID     string         `json:"actor_id"`
	AllowUpdate bool           `json:"allow_update"`
}

type fileRegisterCommand struct {
	deps Dependencies
}

func (c fileRegisterCommand) Execute(ctx context.Context, msg RegisterFile) error {
	parsed, err := c.deps.Namespaces.Parse(msg.Name, title.NamespaceFile)
	if err != nil {
		return fmt.Errorf("commands: invalid file name %q: %w", msg.Name, err)
	}
	if parsed.Namespace != title.NamespaceFile {
		return fmt.Errorf("commands: %q is not a file title", msg.Name)
	}
	url := strings.TrimSpace(msg.URL)
	if url == "" {
		return errors.New("commands: file url is required")
	}

	file := &domain.File{
		Name:     parsed.Text,
		URL:      url,
		Local:    msg.Local,
		Exists:   msg.Exists,
		Metadata: domain.JSONMap(activity.CloneMetadata(msg.Metadata)),
	}
	existing, err := c.deps.Files.GetByName(ctx, parsed.Text)
	switch {
	case err == nil:
		if !msg.AllowUpdate {
			return fmt.Errorf("commands: file %s already exists: %w", parsed.Text, store.ErrDuplicate)
		}
		existing.URL = file.URL
		existing.Local = file.Local
		existing.Exists = file.Exists
		existing.Metadata = file.Metadata
		if err := c.deps.Files.Update(ctx, existing); err != nil {
			return err
		}
		file = existing
	case errors.Is(err, store.ErrNotFound):
		if err := c.deps.Files.Create(ctx, file); err != nil {
			return err
		}
	default:
		return err
	}

	c.deps.Activity.Notify(ctx, activity.Event{
		Verb:       activity.VerbFileRegistered,
		ActorID:    msg.ActorID,
		ObjectType: activity.ObjectFile,
		ObjectID:   file.ID.String(),
		Metadata: map[string]any{
			"file":      file.Name,
			"local":     file.Local,
			"available": file.Available(),
		},
	})
	return nil
}
