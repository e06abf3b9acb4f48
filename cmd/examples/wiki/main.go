package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/goliatone/go-groupbadges/pkg/activity"
	"github.com/goliatone/go-groupbadges/pkg/activity/usersink"
	"github.com/goliatone/go-groupbadges/pkg/badges"
	"github.com/goliatone/go-groupbadges/pkg/commands"
	"github.com/goliatone/go-groupbadges/pkg/config"
	"github.com/goliatone/go-groupbadges/pkg/domain"
	"github.com/goliatone/go-groupbadges/pkg/interfaces/logger"
	"github.com/goliatone/go-groupbadges/pkg/messages"
	"github.com/goliatone/go-groupbadges/pkg/storage"
	i18n "github.com/goliatone/go-i18n"
	"github.com/goliatone/go-users/pkg/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type printSink struct{}

func (printSink) Log(_ context.Context, rec types.ActivityRecord) error {
	fmt.Printf("activity %s %s %v\n", rec.Verb, rec.ObjectType, rec.Data)
	return nil
}

type page struct {
	modules []string
	inline  []string
}

func (p *page) AddModuleStyles(modules ...string) { p.modules = append(p.modules, modules...) }
func (p *page) AddInlineStyle(css string)         { p.inline = append(p.inline, css) }

func main() {
	ctx := context.Background()

	sqldb, err := sql.Open(sqliteshim.DriverName(), "file:wiki?mode=memory&cache=shared")
	if err != nil {
		log.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	if err := storage.CreateSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	cfg, err := config.Load(map[string]any{
		"localization": map[string]any{"content_locale": "de"},
		"styles":       map[string]any{"mode": config.StyleModeInline},
		"namespaces":   map[string]any{"file_aliases": []any{"Datei"}, "user_aliases": []any{"Benutzer"}},
	})
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	store := i18n.NewStaticStore(messages.Translations(map[string]map[string]string{
		"en": {
			"group-sysop":            "Administrators",
			"group-sysop-badge":      "File:Sysop badge.svg",
			"group-rollbacker":       "Rollbackers",
			"group-rollbacker-badge": `data:image/svg+xml,<svg xmlns="http://www.w3.org/2000/svg"><circle r="4" fill="#c00"/></svg>`,
		},
		"de": {
			"group-sysop":       "Administratoren",
			"group-sysop-badge": "Datei:Sysop_badge.svg",
		},
	}))

	module, err := badges.NewModule(badges.ModuleOptions{
		Config:   cfg,
		Storage:  storage.NewBunProviders(db),
		Logger:   logger.New(),
		Messages: store,
		Activity: activity.Hooks{usersink.Hook{Sink: printSink{}}},
	})
	if err != nil {
		log.Fatalf("module: %v", err)
	}

	if err := seed(ctx, module.Commands()); err != nil {
		log.Fatalf("seed: %v", err)
	}

	req := module.NewRequest()
	for _, target := range []string{"Benutzer:Alice", "User:Alice/Sandbox", "User:Bob"} {
		parsed, err := module.Namespaces().Parse(target, 0)
		if err != nil {
			log.Fatalf("parse %s: %v", target, err)
		}
		link := &domain.LinkRender{
			Target:     parsed,
			Text:       domain.PlainText(parsed.Text),
			Attributes: map[string]string{"class": "mw-userlink"},
		}
		req.OnLinkRender(ctx, link)
		fmt.Printf("%-20s -> %s\n", target, link.Text.HTML())
	}

	out := &page{}
	req.OnBeforePageDisplay(ctx, out)
	for _, css := range out.inline {
		fmt.Printf("\n<style>\n%s</style>\n", css)
	}
}

func seed(ctx context.Context, reg *commands.Registry) error {
	for _, group := range []string{"sysop", "rollbacker", "autoconfirmed"} {
		if err := reg.DefineGroup.Execute(ctx, commands.DefineGroup{Name: group}); err != nil {
			return err
		}
	}
	if err := reg.RegisterFile.Execute(ctx, commands.RegisterFile{
		Name:   "File:Sysop badge.svg",
		URL:    "https://wiki.example/images/4/4a/Sysop_badge.svg",
		Local:  true,
		Exists: true,
	}); err != nil {
		return err
	}
	for _, user := range []string{"Alice", "Bob"} {
		if err := reg.CreateUser.Execute(ctx, commands.CreateUser{Name: user}); err != nil {
			return err
		}
	}
	for _, group := range []string{"sysop", "autoconfirmed", "rollbacker"} {
		if err := reg.AssignGroup.Execute(ctx, commands.AssignGroup{User: "Alice", Group: group}); err != nil {
			return err
		}
	}
	return reg.AssignGroup.Execute(ctx, commands.AssignGroup{User: "Bob", Group: "autoconfirmed"})
}
