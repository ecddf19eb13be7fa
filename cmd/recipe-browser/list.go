package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cookbookd/recipe-browser/pkg/browse"
	"github.com/cookbookd/recipe-browser/pkg/query"
)

func newListCmd(a *app) *cobra.Command {
	var (
		search   string
		mode     string
		sortBy   string
		order    string
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Fetch the collection and print one page of results as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			searchMode, ok := query.ParseSearchMode(mode)
			if !ok {
				return fmt.Errorf("invalid mode %q (title|ingredient)", mode)
			}
			sortField, ok := query.ParseSortField(sortBy)
			if !ok {
				return fmt.Errorf("invalid sort %q (id|title)", sortBy)
			}
			sortOrder, ok := query.ParseSortOrder(order)
			if !ok {
				return fmt.Errorf("invalid order %q (asc|desc)", order)
			}

			s, err := a.newStore()
			if err != nil {
				return err
			}
			if err := s.FetchAll(cmd.Context()); err != nil {
				return err
			}

			matched := query.Search(s.All(), search, searchMode)
			sorted := query.Sort(matched, sortField, sortOrder)
			window := query.Page(sorted, page, pageSize)

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(window); err != nil {
				return fmt.Errorf("encode results: %w", err)
			}

			fmt.Fprintf(os.Stderr, "page %d/%d, %d matching records\n",
				page+1, query.PageCount(len(sorted), pageSize), len(sorted))
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Search text")
	cmd.Flags().StringVar(&mode, "mode", "title", "Search mode (title|ingredient)")
	cmd.Flags().StringVar(&sortBy, "sort", "id", "Sort field (id|title)")
	cmd.Flags().StringVar(&order, "order", "asc", "Sort order (asc|desc)")
	cmd.Flags().IntVar(&page, "page", 0, "Page number (0-based)")
	cmd.Flags().IntVar(&pageSize, "page-size", browse.DefaultPageSize, "Records per page")

	return cmd
}
