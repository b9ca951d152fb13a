package chi

import (
	"time"

	"github.com/bayanapps/dalil/internal/domain"
	"github.com/bayanapps/dalil/internal/domain/job"
	"github.com/bayanapps/dalil/internal/domain/metadata"
	domsearch "github.com/bayanapps/dalil/internal/domain/search"
	"github.com/bayanapps/dalil/internal/usecase/health"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type searchRequest struct {
	Query      string            `json:"query"`
	Filters    map[string]string `json:"filters,omitempty"`
	Platform   string            `json:"platform,omitempty"`
	Category   string            `json:"category,omitempty"`
	Limit      int               `json:"limit,omitempty"`
	Page       int               `json:"page,omitempty"`
	PageSize   int               `json:"page_size,omitempty"`
	// Boost defaults to on; clients opt out explicitly.
	Boost      *bool `json:"boost,omitempty"`
	Rerank     bool  `json:"rerank,omitempty"`
	RerankTopK int   `json:"rerank_top_k,omitempty"`
	Facets     bool  `json:"facets,omitempty"`
}

func (r *searchRequest) toDomain() *domsearch.Request {
	boost := true
	if r.Boost != nil {
		boost = *r.Boost
	}
	return &domsearch.Request{
		Query:      r.Query,
		Filters:    r.Filters,
		Platform:   r.Platform,
		Category:   r.Category,
		Limit:      r.Limit,
		Page:       r.Page,
		PageSize:   r.PageSize,
		RerankTopK: r.RerankTopK,
		Boost:      boost,
		Rerank:     r.Rerank,
		Facets:     r.Facets,
	}
}

type searchResult struct {
	ID           string                 `json:"id"`
	NameEN       string                 `json:"name_en,omitempty"`
	NameAR       string                 `json:"name_ar,omitempty"`
	ShortDescEN  string                 `json:"short_desc_en,omitempty"`
	ShortDescAR  string                 `json:"short_desc_ar,omitempty"`
	Platform     string                 `json:"platform,omitempty"`
	Categories   []string               `json:"categories,omitempty"`
	Rating       float64                `json:"rating,omitempty"`
	Score        float64                `json:"score"`
	Distance     float64                `json:"distance"`
	Boost        float64                `json:"boost"`
	MatchReasons []domsearch.MatchReason `json:"match_reasons,omitempty"`
	Reasoning    string                 `json:"reasoning,omitempty"`
	Reranked     bool                   `json:"reranked,omitempty"`
}

type searchResponse struct {
	Results    []searchResult   `json:"results"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
	Facets     domsearch.Facets `json:"facets,omitempty"`
}

func searchPageToResponse(p domsearch.Page) searchResponse {
	results := make([]searchResult, len(p.Results))
	for i, c := range p.Results {
		results[i] = searchResult{
			ID:           c.ID,
			NameEN:       c.NameEN,
			NameAR:       c.NameAR,
			ShortDescEN:  c.ShortDescEN,
			ShortDescAR:  c.ShortDescAR,
			Platform:     c.Platform,
			Categories:   c.Categories,
			Rating:       c.Rating,
			Score:        c.Score,
			Distance:     c.Distance,
			Boost:        c.Boost,
			MatchReasons: c.MatchReasons,
			Reasoning:    c.Reasoning,
			Reranked:     c.Reranked,
		}
	}
	return searchResponse{
		Results:    results,
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
		Facets:     p.Facets,
	}
}

type categoryDTO struct {
	Slug   string `json:"slug"`
	NameEN string `json:"name_en,omitempty"`
	NameAR string `json:"name_ar,omitempty"`
}

type listingDTO struct {
	Store string `json:"store"`
	URL   string `json:"url"`
}

type entryResponse struct {
	ID                string              `json:"id"`
	NameEN            string              `json:"name_en,omitempty"`
	NameAR            string              `json:"name_ar,omitempty"`
	ShortDescEN       string              `json:"short_desc_en,omitempty"`
	ShortDescAR       string              `json:"short_desc_ar,omitempty"`
	DescEN            string              `json:"desc_en,omitempty"`
	DescAR            string              `json:"desc_ar,omitempty"`
	Categories        []categoryDTO       `json:"categories,omitempty"`
	DeveloperEN       string              `json:"developer_en,omitempty"`
	DeveloperAR       string              `json:"developer_ar,omitempty"`
	DeveloperVerified bool                `json:"developer_verified,omitempty"`
	Platform          string              `json:"platform,omitempty"`
	Listings          []listingDTO        `json:"listings,omitempty"`
	Rating            float64             `json:"rating,omitempty"`
	ReviewCount       int                 `json:"review_count,omitempty"`
	ViewCount         int                 `json:"view_count,omitempty"`
	Featured          bool                `json:"featured,omitempty"`
	Status            string              `json:"status"`
	Metadata          map[string][]string `json:"metadata,omitempty"`
	HasEmbedding      bool                `json:"has_embedding"`
	EnrichedAt        string              `json:"enriched_at,omitempty"`
}

func entryToResponse(e domain.Entry) entryResponse {
	categories := make([]categoryDTO, len(e.Categories))
	for i, c := range e.Categories {
		categories[i] = categoryDTO{Slug: c.Slug, NameEN: c.NameEN, NameAR: c.NameAR}
	}
	listings := make([]listingDTO, len(e.Listings))
	for i, l := range e.Listings {
		listings[i] = listingDTO{Store: l.Store, URL: l.URL}
	}
	resp := entryResponse{
		ID:                e.ID,
		NameEN:            e.NameEN,
		NameAR:            e.NameAR,
		ShortDescEN:       e.ShortDescEN,
		ShortDescAR:       e.ShortDescAR,
		DescEN:            e.DescEN,
		DescAR:            e.DescAR,
		Categories:        categories,
		DeveloperEN:       e.DeveloperEN,
		DeveloperAR:       e.DeveloperAR,
		DeveloperVerified: e.DeveloperVerified,
		Platform:          string(e.Platform),
		Listings:          listings,
		Rating:            e.Rating,
		ReviewCount:       e.ReviewCount,
		ViewCount:         e.ViewCount,
		Featured:          e.Featured,
		Status:            string(e.Status),
		Metadata:          e.MetadataValues,
		HasEmbedding:      e.HasEmbedding(),
	}
	if !e.EnrichedAt.IsZero() {
		resp.EnrichedAt = e.EnrichedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

type metadataOptionDTO struct {
	Value     string `json:"value"`
	LabelEN   string `json:"label_en,omitempty"`
	LabelAR   string `json:"label_ar,omitempty"`
	SortOrder int    `json:"sort_order,omitempty"`
	Color     string `json:"color,omitempty"`
	Icon      string `json:"icon,omitempty"`
}

type metadataTypeDTO struct {
	Name        string              `json:"name"`
	LabelEN     string              `json:"label_en,omitempty"`
	LabelAR     string              `json:"label_ar,omitempty"`
	MultiValued bool                `json:"multi_valued,omitempty"`
	SortOrder   int                 `json:"sort_order,omitempty"`
	Options     []metadataOptionDTO `json:"options"`
}

type metadataResponse struct {
	Types []metadataTypeDTO `json:"types"`
}

func registryToResponse(reg metadata.Registry) metadataResponse {
	types := reg.Types()
	out := metadataResponse{Types: make([]metadataTypeDTO, len(types))}
	for i, t := range types {
		options := reg.Options(t.Name)
		dto := metadataTypeDTO{
			Name:        t.Name,
			LabelEN:     t.LabelEN,
			LabelAR:     t.LabelAR,
			MultiValued: t.MultiValued,
			SortOrder:   t.SortOrder,
			Options:     make([]metadataOptionDTO, len(options)),
		}
		for j, o := range options {
			dto.Options[j] = metadataOptionDTO{
				Value:     o.Value,
				LabelEN:   o.LabelEN,
				LabelAR:   o.LabelAR,
				SortOrder: o.SortOrder,
				Color:     o.Color,
				Icon:      o.Icon,
			}
		}
		out.Types[i] = dto
	}
	return out
}

type metadataTypeRequest struct {
	Name        string `json:"name"`
	LabelEN     string `json:"label_en,omitempty"`
	LabelAR     string `json:"label_ar,omitempty"`
	MultiValued bool   `json:"multi_valued,omitempty"`
	SortOrder   int    `json:"sort_order,omitempty"`
	Active      *bool  `json:"active,omitempty"`
}

func (r *metadataTypeRequest) toDomain() metadata.Type {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return metadata.Type{
		Name:        r.Name,
		LabelEN:     r.LabelEN,
		LabelAR:     r.LabelAR,
		MultiValued: r.MultiValued,
		SortOrder:   r.SortOrder,
		Active:      active,
	}
}

type metadataOptionRequest struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	LabelEN   string `json:"label_en,omitempty"`
	LabelAR   string `json:"label_ar,omitempty"`
	SortOrder int    `json:"sort_order,omitempty"`
	Color     string `json:"color,omitempty"`
	Icon      string `json:"icon,omitempty"`
	Active    *bool  `json:"active,omitempty"`
}

func (r *metadataOptionRequest) toDomain() metadata.Option {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return metadata.Option{
		TypeName:  r.Type,
		Value:     r.Value,
		LabelEN:   r.LabelEN,
		LabelAR:   r.LabelAR,
		SortOrder: r.SortOrder,
		Color:     r.Color,
		Icon:      r.Icon,
		Active:    active,
	}
}

type reindexRequest struct {
	EntryIDs  []string `json:"entry_ids,omitempty"`
	Crawl     bool     `json:"crawl,omitempty"`
	Force     bool     `json:"force,omitempty"`
	Quick     bool     `json:"quick,omitempty"`
	BatchSize int      `json:"batch_size,omitempty"`
}

type jobResponse struct {
	ID           string `json:"id"`
	State        string `json:"state"`
	Total        int    `json:"total"`
	Processed    int    `json:"processed"`
	Errors       int    `json:"errors"`
	Enriched     int    `json:"enriched"`
	Percent      int    `json:"percent"`
	CurrentEntry string `json:"current_entry,omitempty"`
	Message      string `json:"message,omitempty"`
	StartedAt    string `json:"started_at,omitempty"`
	FinishedAt   string `json:"finished_at,omitempty"`
}

func jobToResponse(j *job.Job) jobResponse {
	resp := jobResponse{
		ID:           j.ID,
		State:        string(j.State),
		Total:        j.Total,
		Processed:    j.Processed,
		Errors:       j.Errors,
		Enriched:     j.Enriched,
		Percent:      j.Percent(),
		CurrentEntry: j.CurrentEntry,
		Message:      j.Message,
	}
	if !j.StartedAt.IsZero() {
		resp.StartedAt = j.StartedAt.UTC().Format(time.RFC3339)
	}
	if !j.FinishedAt.IsZero() {
		resp.FinishedAt = j.FinishedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

type healthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Entries int               `json:"entries,omitempty"`
}

func healthToResponse(r health.Report) healthResponse {
	checks := make(map[string]string, len(r.Checks))
	for name, result := range r.Checks {
		checks[name] = string(result)
	}
	return healthResponse{Status: string(r.Status), Checks: checks, Entries: r.Entries}
}
