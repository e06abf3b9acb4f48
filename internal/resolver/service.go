package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-groupbadges/pkg/activity"
	"github.com/goliatone/go-groupbadges/pkg/datauri"
	"github.com/goliatone/go-groupbadges/pkg/domain"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/host"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/logger"
	"github.com/goliatone/go-groupbadges/pkg/title"
	"github.com/jaytaylor/html2text"
)

var (
	ErrCatalogRequired  = errors.New("resolver: group catalog is required")
	ErrFilesRequired    = errors.New("resolver: file repository is required")
	ErrMessagesRequired = errors.New("resolver: message source is required")
)

// Dependencies wires host services into the resolver.
type Dependencies struct {
	Groups     host.GroupCatalog
	Files      host.FileRepository
	Messages   host.MessageSource
	Namespaces *title.Namespaces
	Logger     logger.Logger
	Activity   activity.Hooks
	// TitleKey and BadgeKey are fmt formats taking the group name.
	TitleKey    string
	BadgeKey    string
	PlainTitles bool
}

// Service resolves badges from messages and files. It keeps no state; use
// ForRequest to get the memoized table for one render.
type Service struct {
	groups      host.GroupCatalog
	files       host.FileRepository
	messages    host.MessageSource
	namespaces  *title.Namespaces
	logger      logger.Logger
	activity    activity.Hooks
	titleKey    string
	badgeKey    string
	plainTitles bool
}

// New validates dependencies and builds the service.
func New(deps Dependencies) (*Service, error) {
	if deps.Groups == nil {
		return nil, ErrCatalogRequired
	}
	if deps.Files == nil {
		return nil, ErrFilesRequired
	}
	if deps.Messages == nil {
		return nil, ErrMessagesRequired
	}
	if deps.Namespaces == nil {
		deps.Namespaces = title.DefaultNamespaces()
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	if deps.TitleKey == "" {
		deps.TitleKey = "group-%s"
	}
	if deps.BadgeKey == "" {
		deps.BadgeKey = "group-%s-badge"
	}
	return &Service{
		groups:      deps.Groups,
		files:       deps.Files,
		messages:    deps.Messages,
		namespaces:  deps.Namespaces,
		logger:      deps.Logger,
		activity:    deps.Activity,
		titleKey:    deps.TitleKey,
		badgeKey:    deps.BadgeKey,
		plainTitles: deps.PlainTitles,
	}, nil
}

// Build resolves a fresh table. Groups whose icon cannot be resolved are
// left out; host failures are logged and degrade the same way.
func (s *Service) Build(ctx context.Context) *domain.BadgeTable {
	table := domain.NewBadgeTable()

	groups, err := s.groups.ListAllGroups(ctx)
	if err != nil {
		s.logger.Warn("resolver: list groups failed", logger.F("error", err))
		return table
	}

	skipped := 0
	for _, group := range groups {
		icon := s.Icon(ctx, group)
		if !icon.Found() {
			skipped++
			continue
		}
		table.Set(group, domain.Badge{
			Title:   s.Title(group),
			IconURL: icon.URL,
		})
	}

	s.logger.Debug("resolver: badge table built",
		logger.F("groups", len(groups)),
		logger.F("badges", table.Len()),
	)
	s.activity.Notify(ctx, activity.Event{
		Verb:       activity.VerbTableResolved,
		ObjectType: activity.ObjectBadgeTable,
		Metadata: map[string]any{
			"groups":  table.Groups(),
			"badges":  table.Len(),
			"skipped": skipped,
		},
	})
	return table
}

// Title returns the plain group label from the title message.
func (s *Service) Title(group string) string {
	label := s.messages.Plain(fmt.Sprintf(s.titleKey, group))
	if !s.plainTitles {
		return label
	}
	plain, err := html2text.FromString(label, html2text.Options{OmitLinks: true})
	if err != nil {
		return label
	}
	if plain = strings.TrimSpace(plain); plain == "" {
		return label
	}
	return plain
}

// Icon resolves the badge message of group: a data URI first, then a file.
func (s *Service) Icon(ctx context.Context, group string) domain.IconSource {
	key := fmt.Sprintf(s.badgeKey, group)
	if !s.messages.Exists(key) {
		return domain.IconSource{}
	}
	value := s.messages.Plain(key)

	if parts, ok := datauri.Match(value); ok {
		return domain.IconSource{Kind: domain.IconDataURI, URL: datauri.Encode(parts)}
	}

	name := s.fileName(value)
	file, err := s.files.FindFile(ctx, name)
	if err != nil {
		if !errors.Is(err, host.ErrNotFound) {
			s.logger.Warn("resolver: file lookup failed",
				logger.F("group", group),
				logger.F("file", name),
				logger.F("error", err),
			)
		}
		return domain.IconSource{}
	}
	if !file.Available() || file.URL == "" {
		s.logger.Debug("resolver: badge file missing", logger.F("group", group), logger.F("file", name))
		return domain.IconSource{}
	}
	return domain.IconSource{Kind: domain.IconFile, URL: file.URL}
}

// fileName strips a File: (or alias) prefix. Values that do not parse as
// a title are used as they are.
func (s *Service) fileName(value string) string {
	t, err := s.namespaces.Parse(value, title.NamespaceFile)
	if err != nil {
		return value
	}
	return t.Text
}

// ForRequest returns a table memo bound to one render.
func (s *Service) ForRequest() *Memo {
	return &Memo{service: s}
}

// Memo computes the badge table on first use and returns the same table
// for the rest of the request.
type Memo struct {
	service *Service
	once    sync.Once
	table   *domain.BadgeTable
}

// Groups returns the request's badge table.
func (m *Memo) Groups(ctx context.Context) *domain.BadgeTable {
	m.once.Do(func() {
		m.table = m.service.Build(ctx)
	})
	return m.table
}
