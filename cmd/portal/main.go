// Package main provides the portal command-line tool for maintaining the
// announcement posts (portal.json).
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"runde/internal/config"
	"runde/internal/logger"
	"runde/internal/models"
	"runde/internal/portal"
	"runde/internal/store"
	"runde/pkg/textfmt"
)

const toolName = "portal-cli"

var errUsage = errors.New("usage")

type app struct {
	cfg   *config.Config
	log   *logger.Logger
	store *store.Store
	chlog *store.Changelog
}

func newApp(configPath string) (*app, error) {
	cfg := config.Default()

	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	return &app{
		cfg:   cfg,
		log:   logger.New(cfg.Logging.Level),
		store: store.New(cfg.Data.CreateBackup),
		chlog: store.NewChangelog(cfg.Data.ChangelogPath, toolName),
	}, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	code, err := run(os.Args[1], os.Args[2:])
	if err != nil {
		if errors.Is(err, errUsage) {
			printUsage()
		} else {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		}

		if code == 0 {
			code = 1
		}
	}

	os.Exit(code)
}

func printUsage() {
	fmt.Println("Usage: portal <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  list    [-q QUERY] [-status draft|published]")
	fmt.Println("  add     -title T [-category C] [-tags a,b] [-summary S] [-status S] [-pinned] ...")
	fmt.Println("  publish -id ID")
	fmt.Println("  remove  -id ID")
	fmt.Println()
	fmt.Println("All commands accept -config <file> (YAML).")
}

func run(cmd string, args []string) (int, error) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML configuration file")

	switch cmd {
	case "list":
		query := fs.String("q", "", "Filter by title/summary/category/tags")
		status := fs.String("status", "", "Filter by status (draft|published)")

		if err := fs.Parse(args); err != nil {
			return 2, err
		}

		a, err := newApp(*configPath)
		if err != nil {
			return 2, err
		}

		return a.list(*query, *status)

	case "add":
		title := fs.String("title", "", "Post title (required)")
		category := fs.String("category", "", "Category")
		tags := fs.String("tags", "", "Comma-separated tags")
		summary := fs.String("summary", "", "Summary")
		status := fs.String("status", models.StatusDraft, "draft or published")
		pinned := fs.Bool("pinned", false, "Pin the post")
		cover := fs.String("cover", "", "Cover image path")
		share := fs.String("share", "", "Share URL")
		body := fs.String("body", "", "Body HTML")

		if err := fs.Parse(args); err != nil {
			return 2, err
		}

		if *title == "" {
			return 2, fmt.Errorf("%w: 标题不能为空", errUsage)
		}

		a, err := newApp(*configPath)
		if err != nil {
			return 2, err
		}

		return a.add(*title, *category, *tags, *summary, *status, *pinned, *cover, *share, *body)

	case "publish":
		id := fs.String("id", "", "Post id (required)")

		if err := fs.Parse(args); err != nil {
			return 2, err
		}

		if *id == "" {
			return 2, fmt.Errorf("%w: publish requires -id", errUsage)
		}

		a, err := newApp(*configPath)
		if err != nil {
			return 2, err
		}

		return a.publish(*id)

	case "remove":
		id := fs.String("id", "", "Post id (required)")

		if err := fs.Parse(args); err != nil {
			return 2, err
		}

		if *id == "" {
			return 2, fmt.Errorf("%w: remove requires -id", errUsage)
		}

		a, err := newApp(*configPath)
		if err != nil {
			return 2, err
		}

		return a.remove(*id)

	default:
		return 1, errUsage
	}
}

func (a *app) list(query, status string) (int, error) {
	posts, err := a.store.LoadPosts(a.cfg.Data.PortalPath)
	if err != nil {
		return 2, err
	}

	filtered := portal.Filter(posts, query, status)
	portal.SortForDisplay(filtered)

	var rows [][]string

	for _, p := range filtered {
		pin := ""
		if p.Pinned {
			pin = "置顶"
		}

		rows = append(rows, []string{
			p.ID, p.Status, pin, p.Title, p.Category,
			portalTime(p),
		})
	}

	for _, line := range textfmt.RenderColumns(rows) {
		fmt.Println(line)
	}

	return 0, nil
}

func portalTime(p models.Post) string {
	if p.PublishedAt != "" {
		return p.PublishedAt
	}

	return p.UpdatedAt
}

func (a *app) add(title, category, tags, summary, status string, pinned bool, cover, share, body string) (int, error) {
	posts, err := a.store.LoadPosts(a.cfg.Data.PortalPath)
	if err != nil {
		return 2, err
	}

	now := portal.NowISO()
	st := portal.NormalizeStatus(status)

	publishedAt := ""
	if st == models.StatusPublished {
		publishedAt = now
	}

	post := models.Post{
		ID:          portal.NewID(),
		Title:       title,
		Category:    category,
		Tags:        portal.NormalizeTags(tags),
		Status:      st,
		Pinned:      pinned,
		CoverImage:  cover,
		ShareURL:    share,
		Summary:     summary,
		PublishedAt: publishedAt,
		UpdatedAt:   now,
		BodyHTML:    body,
	}

	posts = append(posts, post)

	if err := a.store.SavePosts(a.cfg.Data.PortalPath, posts); err != nil {
		return 2, err
	}

	if err := a.chlog.Append("创建公告: " + title + " id=" + post.ID); err != nil {
		a.log.Warn("changelog append failed", "error", err)
	}

	fmt.Println("已创建:", post.ID)

	return 0, nil
}

func (a *app) publish(id string) (int, error) {
	posts, err := a.store.LoadPosts(a.cfg.Data.PortalPath)
	if err != nil {
		return 2, err
	}

	post := portal.Find(posts, id)
	if post == nil {
		fmt.Println("未找到公告:", id)

		return 1, nil
	}

	now := portal.NowISO()
	post.Status = models.StatusPublished
	post.UpdatedAt = now

	if post.PublishedAt == "" {
		post.PublishedAt = now
	}

	if err := a.store.SavePosts(a.cfg.Data.PortalPath, posts); err != nil {
		return 2, err
	}

	if err := a.chlog.Append("发布公告: " + post.Title + " id=" + post.ID); err != nil {
		a.log.Warn("changelog append failed", "error", err)
	}

	fmt.Println("已发布:", post.ID)

	return 0, nil
}

func (a *app) remove(id string) (int, error) {
	posts, err := a.store.LoadPosts(a.cfg.Data.PortalPath)
	if err != nil {
		return 2, err
	}

	kept := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}

	if len(kept) == len(posts) {
		fmt.Println("未找到公告:", id)

		return 1, nil
	}

	if err := a.store.SavePosts(a.cfg.Data.PortalPath, kept); err != nil {
		return 2, err
	}

	if err := a.chlog.Append("删除公告 id=" + id); err != nil {
		a.log.Warn("changelog append failed", "error", err)
	}

	fmt.Println("已删除:", id)

	return 0, nil
}
