package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/elsanchez/social-dashboard/internal/daemon"
	"github.com/elsanchez/social-dashboard/pkg/client"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	c := client.NewDefaultClient()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "health":
		err = handleHealth(ctx, c)
	case "seed":
		err = handleSeed(ctx, c)
	case "dashboard":
		err = handleDashboard(ctx, c)
	case "trends":
		err = handleTrends(ctx, c, os.Args[2:])
	case "platforms":
		err = handlePlatforms(ctx, c)
	case "top":
		err = handleTop(ctx, c, os.Args[2:])
	case "accounts":
		err = handleAccounts(ctx, c, os.Args[2:])
	case "posts":
		err = handlePosts(ctx, c, os.Args[2:])
	case "scheduled":
		err = handleScheduled(ctx, c)
	case "publish":
		err = handlePublish(ctx, c, os.Args[2:])
	case "version":
		fmt.Printf("socialdashctl v%s\n", daemon.Version)
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Social Media Dashboard CLI (socialdashctl) v` + daemon.Version + `

Usage: socialdashctl <command> [args]

Commands:
  health                 Check daemon and database
  seed                   Load demo data (only on an empty database)
  dashboard              Show global totals
  trends [--days N]      Engagement per day (default: 30)
  platforms              Per-account summary
  top [--limit N]        Top posts by engagement (default: 10)
  accounts [--limit N]   List active accounts
  posts [options]        List posts
  scheduled              List scheduled posts
  publish <id>           Publish a post
  version                Show version
  help                   Show this help

Posts Options:
  --account <id>         Filter by account
  --status <status>      draft, scheduled, published or failed
  --limit <n>            Max results (default: 20)

Environment:
  SOCIALDASH_URL         Daemon base URL (default: ` + client.DefaultBaseURL + `)`)
}

func handleHealth(ctx context.Context, c *client.Client) error {
	status, err := c.Health(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Status: %s\n", status)
	return nil
}

func handleSeed(ctx context.Context, c *client.Client) error {
	res, err := c.Seed(ctx)
	if err != nil {
		return err
	}
	fmt.Println(res.Message)
	if res.Accounts > 0 {
		fmt.Printf("  Accounts: %d\n  Posts:    %d\n", res.Accounts, res.Posts)
	}
	return nil
}

func handleDashboard(ctx context.Context, c *client.Client) error {
	s, err := c.Dashboard(ctx)
	if err != nil {
		return err
	}

	fmt.Println("📊 Dashboard")
	fmt.Printf("  Followers:       %d\n", s.TotalFollowers)
	fmt.Printf("  Published posts: %d\n", s.TotalPosts)
	fmt.Printf("  Engagement:      %d\n", s.TotalEngagement)
	fmt.Printf("  Engagement rate: %.2f\n", s.EngagementRate)
	fmt.Printf("  Growth (7d):     %.2f%%\n", s.GrowthRate)
	return nil
}

func handleTrends(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("trends", flag.ExitOnError)
	days := fs.Int("days", 30, "Days to include (1-365)")
	fs.Parse(args)

	trends, err := c.Trends(ctx, *days)
	if err != nil {
		return err
	}
	if len(trends) == 0 {
		fmt.Println("No published posts in range")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tLIKES\tCOMMENTS\tSHARES\tVIEWS")
	for _, t := range trends {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n", t.Date, t.Likes, t.Comments, t.Shares, t.Views)
	}
	return w.Flush()
}

func handlePlatforms(ctx context.Context, c *client.Client) error {
	stats, err := c.Platforms(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PLATFORM\tACCOUNT\tFOLLOWERS\tPOSTS\tENGAGEMENT")
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n", s.Platform, s.AccountName, s.Followers, s.Posts, s.Engagement)
	}
	return w.Flush()
}

func handleTop(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("top", flag.ExitOnError)
	limit := fs.Int("limit", 10, "Number of posts (1-100)")
	fs.Parse(args)

	posts, err := c.TopPosts(ctx, *limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPLATFORM\tTOTAL\tCONTENT")
	for _, p := range posts {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", p.ID, p.Platform, p.TotalEngagement, p.Content)
	}
	return w.Flush()
}

func handleAccounts(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("accounts", flag.ExitOnError)
	limit := fs.Int("limit", 100, "Max results")
	fs.Parse(args)

	accounts, err := c.Accounts(ctx, 0, *limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPLATFORM\tNAME\tEXTERNAL ID\tCREATED")
	for _, a := range accounts {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", a.ID, a.Platform, a.AccountName, a.ExternalID,
			a.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

func handlePosts(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("posts", flag.ExitOnError)
	account := fs.Int64("account", 0, "Filter by account id")
	status := fs.String("status", "", "Filter by status")
	limit := fs.Int("limit", 20, "Max results")
	fs.Parse(args)

	posts, err := c.Posts(ctx, client.PostsFilter{AccountID: *account, Status: *status, Limit: *limit})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tACCOUNT\tSTATUS\tTYPE\tENGAGEMENT\tCONTENT")
	for _, p := range posts {
		var total int64
		if p.Engagement != nil {
			total = p.Engagement.Total()
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%d\t%s\n", p.ID, p.AccountID, p.Status, p.PostType, total, shorten(p.Content, 60))
	}
	return w.Flush()
}

func handleScheduled(ctx context.Context, c *client.Client) error {
	posts, err := c.Scheduled(ctx)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		fmt.Println("No scheduled posts")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tACCOUNT\tSCHEDULED\tCONTENT")
	for _, p := range posts {
		when := "-"
		if p.ScheduledTime != nil {
			when = p.ScheduledTime.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", p.ID, p.AccountID, when, shorten(p.Content, 60))
	}
	return w.Flush()
}

func handlePublish(ctx context.Context, c *client.Client, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("post id is required")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid post id: %s", args[0])
	}

	post, err := c.Publish(ctx, id)
	if err != nil {
		return err
	}

	if post.PublishedTime != nil {
		fmt.Printf("✓ Post %d published at %s\n", post.ID, post.PublishedTime.Local().Format(time.RFC3339))
	} else {
		fmt.Printf("✓ Post %d published\n", post.ID)
	}
	return nil
}

func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
