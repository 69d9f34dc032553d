package main

import (
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/darkkaiser/rss-feed-reader/articles"
	"github.com/darkkaiser/rss-feed-reader/model"
	"github.com/darkkaiser/rss-feed-reader/utils"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

func newSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "원격 서비스와 한번 동기화한다",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, closeFn, err := newApp(true)
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if a.connectivity.Probe(ctx) == false {
				return fmt.Errorf("원격 서비스(%s)에 접속할 수 없습니다", a.config.Miniflux.Url)
			}

			res, err := a.syncService.Sync(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			color.New(color.FgGreen, color.Bold).Fprintln(out, "동기화가 완료되었습니다.")
			fmt.Fprintf(out, "  카테고리: %s\n", utils.FormatCommas(res.Categories))
			fmt.Fprintf(out, "  피드:     %s\n", utils.FormatCommas(res.Feeds))
			fmt.Fprintf(out, "  게시글:   %s\n", utils.FormatCommas(res.Articles))
			fmt.Fprintf(out, "  읽지 않음: %s\n", utils.FormatCommas(a.counters.TotalUnread()))

			return nil
		},
	}
}

type articlesOptions struct {
	scope  string
	filter string
	limit  int
}

func newArticlesCommand() *cobra.Command {
	o := articlesOptions{}

	cmd := &cobra.Command{
		Use:   "articles",
		Short: "로컬 저장소의 게시글 첫 페이지를 출력한다",
		Example: `  rss-feed-reader articles
  rss-feed-reader articles --scope category:3 --filter unread`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scope, err := parseScopeFlag(o.scope)
			if err != nil {
				return err
			}
			filter := model.Filter(o.filter)
			if filter.Valid() == false {
				return fmt.Errorf("지원하지 않는 필터입니다(%s)", o.filter)
			}

			a, closeFn, err := newApp(true)
			if err != nil {
				return err
			}
			defer closeFn()

			ctx := cmd.Context()
			if err := a.syncService.LoadCounters(ctx); err != nil {
				return err
			}

			a.state.SetScope(scope)
			a.state.SetFilter(filter)
			res, err := a.engine.Refresh(ctx)
			if err != nil {
				return err
			}

			printArticles(cmd.OutOrStdout(), scope, res, a.counters, o.limit)

			return nil
		},
	}

	cmd.Flags().StringVar(&o.scope, "scope", "all", "조회 범위(all, category:<ID>, feed:<ID>)")
	cmd.Flags().StringVar(&o.filter, "filter", string(model.FilterAll), "필터(all, unread, starred)")
	cmd.Flags().IntVar(&o.limit, "title-width", 60, "제목의 최대 길이")

	return cmd
}

func parseScopeFlag(s string) (model.Scope, error) {
	scopeType, id, _ := strings.Cut(strings.TrimSpace(s), ":")
	return model.ParseScope(scopeType, id)
}

func printArticles(w io.Writer, scope model.Scope, res articles.LoadResult, counters *articles.Counters, titleWidth int) {
	bold := color.New(color.Bold)
	unread := color.New(color.FgCyan)
	starred := color.New(color.FgYellow)

	bold.Fprintf(w, "범위: %s, 게시글: %s개 (읽지 않음 %s개)\n\n", scope, utils.FormatCommas(res.Total), utils.FormatCommas(counters.TotalUnread()))

	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)

	rows := make([][]string, 0, len(res.Articles))
	for _, a := range res.Articles {
		status := "  "
		if a.IsRead() == false {
			status = unread.Sprint("●")
		}
		star := "  "
		if a.Starred == true {
			star = starred.Sprint("★")
		}

		rows = append(rows, []string{
			strconv.FormatInt(a.ID, 10),
			strconv.FormatInt(a.FeedID, 10),
			status,
			star,
			utils.Ellipsis(a.Title, titleWidth),
			a.PublishedAt.Local().Format("2006-01-02 15:04"),
		})
	}

	table.Header([]string{"ID", "Feed", "Unread", "Star", "Title", "Published"})
	_ = table.Bulk(rows)
	_ = table.Render()

	if res.IsMore == true {
		fmt.Fprintln(w)
		color.New(color.Faint).Fprintln(w, "다음 페이지가 더 있습니다.")
	}
}
