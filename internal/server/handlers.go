package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fieldnotes/guidepost/internal/lint"
	"github.com/fieldnotes/guidepost/internal/models"
	"github.com/fieldnotes/guidepost/internal/storage"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("search request", zap.String("query", query.Query), zap.Int("limit", query.Limit))
	response, err := s.engine.Search(r.Context(), &query)
	if err != nil {
		if query.Query == "" {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleListGuides(w http.ResponseWriter, r *http.Request) {
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 50)
	if limit > 200 {
		limit = 200
	}
	docs, err := s.storage.ListDocuments(r.Context(), offset, limit)
	if err != nil {
		s.logger.Error("list guides failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total, err := s.storage.CountDocuments(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// Content stays out of the listing; it can be megabytes of Markdown.
	type guideSummary struct {
		ID          string   `json:"id"`
		Path        string   `json:"path"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Tags        []string `json:"tags,omitempty"`
	}
	summaries := make([]guideSummary, 0, len(docs))
	for _, d := range docs {
		summaries = append(summaries, guideSummary{
			ID: d.ID, Path: d.Path, Title: d.Title, Description: d.Description, Tags: d.Tags,
		})
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"guides": summaries,
		"total":  total,
		"offset": offset,
		"limit":  limit,
	})
}

func (s *Server) handleGetGuide(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := s.storage.GetDocument(r.Context(), id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "guide not found")
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteGuide(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.storage.GetDocument(r.Context(), id); err != nil {
		s.respondError(w, http.StatusNotFound, "guide not found")
		return
	}
	s.logger.Debug("delete guide request", zap.String("id", id))
	if err := s.indexer.DeleteDocument(r.Context(), id); err != nil {
		s.logger.Error("deletion failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	counts, err := s.storage.ListTags(r.Context())
	if err != nil {
		s.logger.Error("list tags failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	type tagCount struct {
		Tag   string `json:"tag"`
		Count int    `json:"count"`
	}
	tags := make([]tagCount, 0, len(counts))
	for tag, n := range counts {
		tags = append(tags, tagCount{Tag: tag, Count: n})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Tag < tags[j].Tag
	})
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"tags": tags})
}

type lintRequest struct {
	// Path restricts the report to one corpus-relative file. Link targets are
	// still resolved against the whole corpus.
	Path string `json:"path,omitempty"`
}

func (s *Server) handleLint(w http.ResponseWriter, r *http.Request) {
	var req lintRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	report, err := s.linter.Run(r.Context())
	if err != nil {
		s.logger.Error("lint failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if req.Path != "" {
		report = filterReport(report, req.Path)
	}
	s.respondJSON(w, http.StatusOK, report)
}

func filterReport(report *lint.Report, path string) *lint.Report {
	filtered := &lint.Report{Files: report.Files}
	for _, f := range report.Findings {
		if f.Path != path {
			continue
		}
		filtered.Findings = append(filtered.Findings, f)
		switch f.Severity {
		case lint.SeverityError:
			filtered.Errors++
		case lint.SeverityWarning:
			filtered.Warnings++
		}
	}
	return filtered
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docCount, err := s.storage.CountDocuments(ctx)
	if err != nil {
		s.logger.Error("status: count documents failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	chunkCount, err := s.storage.CountChunks(ctx)
	if err != nil {
		s.logger.Error("status: count chunks failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := map[string]interface{}{
		"guides":            docCount,
		"chunks":            chunkCount,
		"vector_index_size": s.vectorIndex.Size(),
	}
	resp["config"] = map[string]interface{}{
		"corpus_root":          s.config.Corpus.Root,
		"vector_index_type":    s.vectorIndex.Type(),
		"embedding_provider":   s.config.Embedding.Provider,
		"embedding_dimensions": s.config.Embedding.Dimensions,
		"chunk_size":           s.config.Search.ChunkSize,
		"chunk_overlap":        s.config.Search.ChunkOverlap,
	}
	diskBytes, err := storage.DiskUsageBytes(
		s.config.Storage.DatabasePath,
		s.config.Storage.BleveIndexPath,
		s.config.Storage.VectorIndexPath,
	)
	if err == nil {
		resp["disk_usage_bytes"] = diskBytes
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
