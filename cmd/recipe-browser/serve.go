package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/cookbookd/recipe-browser/pkg/api"
	"github.com/cookbookd/recipe-browser/pkg/browse"
	"github.com/cookbookd/recipe-browser/pkg/catalog"
	"github.com/cookbookd/recipe-browser/pkg/query"
	"github.com/cookbookd/recipe-browser/pkg/store"
	"github.com/cookbookd/recipe-browser/pkg/viewstate"
)

func newServeCmd(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog browsing API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newStore()
			if err != nil {
				return err
			}

			mux := http.NewServeMux()
			mux.HandleFunc("/health", healthHandler)
			mux.HandleFunc("/browse/list", listViewHandler(s))
			mux.HandleFunc("/browse/gallery", galleryViewHandler(s))
			mux.HandleFunc("/recipes/", recipeHandler(s))
			mux.Handle("/metrics", promhttp.Handler())

			addr := ":" + port
			log.Info().Str("addr", addr).Str("api_url", a.APIURL).Msg("Starting recipe browser server")

			if err := http.ListenAndServe(addr, mux); err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&port, "port", getEnv("PORT", "8080"), "Listen port")

	return cmd
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

// browseResponse is the JSON shape of the browse endpoints. Query carries
// the canonical query string for the applied state, with defaults omitted.
type browseResponse struct {
	Data       []catalog.Record `json:"data"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
	Total      int              `json:"total"`
	Query      string           `json:"query"`
}

func listViewHandler(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.FetchAll(r.Context()); err != nil {
			http.Error(w, fmt.Sprintf("collection fetch failed: %v", err), http.StatusBadGateway)
			return
		}

		state := viewstate.ParseListState(r.URL.Query())
		matched := query.Search(s.All(), state.Search, state.SearchMode)
		sorted := query.Sort(matched, state.SortField, state.SortOrder)

		writeBrowseResponse(w, browseResponse{
			Data:       query.Page(sorted, state.Page, browse.DefaultPageSize),
			Page:       state.Page,
			TotalPages: query.PageCount(len(sorted), browse.DefaultPageSize),
			Total:      len(sorted),
			Query:      state.Encode(),
		})
	}
}

func galleryViewHandler(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.FetchAll(r.Context()); err != nil {
			http.Error(w, fmt.Sprintf("collection fetch failed: %v", err), http.StatusBadGateway)
			return
		}

		state := viewstate.ParseGalleryState(r.URL.Query())
		active := query.FilterByTags(s.All(), state.SelectedTags)

		writeBrowseResponse(w, browseResponse{
			Data:       query.Page(active, state.Page, browse.DefaultPageSize),
			Page:       state.Page,
			TotalPages: query.PageCount(len(active), browse.DefaultPageSize),
			Total:      len(active),
			Query:      state.Encode(),
		})
	}
}

func recipeHandler(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/recipes/")
		if id == "" || strings.Contains(id, "/") {
			http.Error(w, "record id required", http.StatusBadRequest)
			return
		}

		rec, err := s.FetchByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, api.ErrNotFound) {
				http.Error(w, "record not found", http.StatusNotFound)
				return
			}
			http.Error(w, fmt.Sprintf("record fetch failed: %v", err), http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := json.NewEncoder(w).Encode(rec); err != nil {
			log.Error().Err(err).Msg("Failed to encode record response")
		}
	}
}

func writeBrowseResponse(w http.ResponseWriter, resp browseResponse) {
	if resp.Data == nil {
		resp.Data = []catalog.Record{}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("Failed to encode browse response")
	}
}
