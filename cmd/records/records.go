// Package records implements the record listing command.
package records

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/merchwatch/merchwatch/internal/bootstrap"
	"github.com/merchwatch/merchwatch/internal/database"
	"github.com/merchwatch/merchwatch/internal/domain"
)

const titleColumnWidth = 48

type listFlags struct {
	category  string
	sources   []string
	hours     int
	search    string
	status    string
	hasImages bool
	limit     int
	restocks  bool
}

// Command returns the records command for use in the root command.
func Command() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "records",
		Short: "List collected records",
		Long:  `Records prints collected records, newest first, as a table.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.category, "category", "", "filter by category (merchandise, lottery, event, comic, animation, other)")
	cmd.Flags().StringSliceVar(&flags.sources, "source", nil, "filter by source (social, storefront, news)")
	cmd.Flags().IntVar(&flags.hours, "hours", 0, "only records published within the last N hours")
	cmd.Flags().StringVar(&flags.search, "search", "", "substring match on title and content")
	cmd.Flags().StringVar(&flags.status, "status", "", "filter by status (new, restock)")
	cmd.Flags().BoolVar(&flags.hasImages, "has-images", false, "only records carrying images")
	cmd.Flags().IntVar(&flags.limit, "limit", 20, "maximum rows to print")
	cmd.Flags().BoolVar(&flags.restocks, "restocks", false, "list recent restock events instead of records")

	return cmd
}

func run(cmd *cobra.Command, flags *listFlags) error {
	deps, err := bootstrap.NewDeps(viper.GetViper())
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	store, err := bootstrap.OpenStore(deps)
	if err != nil {
		return err
	}
	defer store.Close()

	if flags.restocks {
		return printRestocks(cmd, store, flags.limit)
	}

	filter, err := buildFilter(flags)
	if err != nil {
		return err
	}

	records, err := store.Records.List(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}

	printRecords(cmd, records)
	return nil
}

func buildFilter(flags *listFlags) (database.RecordFilter, error) {
	filter := database.RecordFilter{
		Search:    flags.search,
		HasImages: flags.hasImages,
		Limit:     flags.limit,
	}

	if flags.category != "" {
		category := domain.Category(flags.category)
		if !category.Valid() {
			return filter, fmt.Errorf("unknown category %q", flags.category)
		}
		filter.Category = category
	}
	for _, raw := range flags.sources {
		source := domain.Source(strings.TrimSpace(raw))
		if !source.Valid() {
			return filter, fmt.Errorf("unknown source %q", raw)
		}
		filter.Sources = append(filter.Sources, source)
	}
	if flags.status != "" {
		status := domain.Status(flags.status)
		if !status.Valid() {
			return filter, fmt.Errorf("unknown status %q", flags.status)
		}
		filter.Status = status
	}
	if flags.hours > 0 {
		since := time.Now().In(domain.JST).Add(-time.Duration(flags.hours) * time.Hour)
		filter.Since = &since
	}

	return filter, nil
}

func printRecords(cmd *cobra.Command, records []domain.InformationRecord) {
	writer := table.NewWriter()
	writer.SetOutputMirror(cmd.OutOrStdout())
	writer.SetStyle(table.StyleLight)
	writer.AppendHeader(table.Row{"ID", "Source", "Category", "Status", "Title", "Price", "Event Date", "Published"})
	writer.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Title", WidthMax: titleColumnWidth, WidthMaxEnforcer: text.Trim},
	})

	for i := range records {
		record := &records[i]
		writer.AppendRow(table.Row{
			record.ID,
			record.Source,
			record.Category,
			record.Status,
			record.Title,
			formatPrice(record.Price),
			formatDate(record.EventDate),
			formatTime(record.PublishedAt),
		})
	}

	writer.Render()
	fmt.Fprintf(cmd.OutOrStdout(), "%d records\n", len(records))
}

func printRestocks(cmd *cobra.Command, store *bootstrap.Store, limit int) error {
	events, err := store.Restocks.Recent(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("list restock events: %w", err)
	}

	writer := table.NewWriter()
	writer.SetOutputMirror(cmd.OutOrStdout())
	writer.SetStyle(table.StyleLight)
	writer.AppendHeader(table.Row{"Detected", "Title", "Previous", "Restock", "Notified"})
	writer.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Title", WidthMax: titleColumnWidth, WidthMaxEnforcer: text.Trim},
	})

	for i := range events {
		event := &events[i]
		writer.AppendRow(table.Row{
			formatTime(event.DetectedAt),
			event.ProductTitle,
			formatDate(event.PreviousEventDate),
			formatDate(event.NewEventDate),
			event.Notified,
		})
	}

	writer.Render()
	fmt.Fprintf(cmd.OutOrStdout(), "%d restock events\n", len(events))
	return nil
}

func formatPrice(price *int64) string {
	if price == nil {
		return "-"
	}
	return fmt.Sprintf("¥%d", *price)
}

func formatDate(date *time.Time) string {
	if date == nil {
		return "-"
	}
	return date.Format("2006-01-02")
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.In(domain.JST).Format("2006-01-02 15:04")
}
