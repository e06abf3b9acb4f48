package badges

import (
	"context"

	"github.com/goliatone/go-groupbadges/internal/di"
	"github.com/goliatone/go-groupbadges/internal/hooks"
	"github.com/goliatone/go-groupbadges/internal/resolver"
	"github.com/goliatone/go-groupbadges/internal/styles"
	"github.com/goliatone/go-groupbadges/pkg/domain"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/host"
)

// Request holds the state of one page render.
type Request struct {
	memo   *resolver.Memo
	link   *hooks.LinkHook
	page   *hooks.PageHook
	styles *styles.Module
}

func newRequest(c *di.Container) (*Request, error) {
	memo := c.Resolver.ForRequest()
	module := styles.NewModule(c.Config.Styles.ModuleName, c.Styles, memo)

	link, err := hooks.NewLinkHook(hooks.LinkDependencies{
		Users:       c.Directory,
		Memberships: c.Directory,
		Table:       memo,
		Markup: hooks.Markup{
			Element:       c.Config.Badges.Element,
			BaseClass:     c.Config.Badges.BaseClass,
			ClassPrefix:   c.Config.Badges.ClassPrefix,
			UserLinkClass: c.Config.Badges.UserLinkClass,
		},
		Logger: c.Logger,
	})
	if err != nil {
		return nil, err
	}

	page, err := hooks.NewPageHook(hooks.PageDependencies{
		Table:      memo,
		Styles:     module,
		Mode:       c.Config.Styles.Mode,
		ModuleName: c.Config.Styles.ModuleName,
		Logger:     c.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &Request{memo: memo, link: link, page: page, styles: module}, nil
}

// OnLinkRender decorates links to user pages with the user's badges.
func (r *Request) OnLinkRender(ctx context.Context, link *domain.LinkRender) {
	if r == nil {
		return
	}
	r.link.OnLinkRender(ctx, link)
}

// OnBeforePageDisplay attaches the badge styles to the page.
func (r *Request) OnBeforePageDisplay(ctx context.Context, out host.Output) {
	if r == nil {
		return
	}
	r.page.OnBeforePageDisplay(ctx, out)
}

// Table returns the request's badge table.
func (r *Request) Table(ctx context.Context) *domain.BadgeTable {
	if r == nil {
		return domain.NewBadgeTable()
	}
	return r.memo.Groups(ctx)
}

// StyleModule returns the style module bound to this request's table.
func (r *Request) StyleModule() *styles.Module {
	if r == nil {
		return nil
	}
	return r.styles
}
