package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ignite/adreport/internal/config"
	"github.com/ignite/adreport/internal/report"
	"github.com/ignite/adreport/internal/store"
)

// maxUploadBytes bounds one multipart upload request.
const maxUploadBytes = 64 << 20

// Handlers contains all HTTP handlers.
type Handlers struct {
	store   *store.Store
	targets *report.TargetTable
	tagInfo map[string]config.TagInfo
	cfg     *config.Config
}

// NewHandlers creates a Handlers instance wired to the batch store and the
// static reference tables.
func NewHandlers(st *store.Store, cfg *config.Config) *Handlers {
	return &Handlers{
		store:   st,
		targets: report.NewTargetTable(cfg.TargetRevenue, cfg.Thresholds.TargetMultiplierRevenue),
		tagInfo: cfg.TagInfoByName(),
		cfg:     cfg,
	}
}

// HealthCheck reports service liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now(),
		"batches":   len(h.store.Batches()),
	})
}

// UploadResult is the per-file outcome of a report upload.
type UploadResult struct {
	File        string `json:"file"`
	BatchID     string `json:"batch_id,omitempty"`
	Records     int    `json:"records"`
	SkippedRows int    `json:"skipped_rows"`
	Error       string `json:"error,omitempty"`
}

// UploadReports ingests one or more report CSV files from a multipart
// form. A file missing its required columns fails alone; the other files
// in the same request still load.
func (h *Handlers) UploadReports(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		respondError(w, http.StatusBadRequest, "no files provided (field name: files)")
		return
	}

	results := make([]UploadResult, 0, len(files))
	loaded := 0
	for _, fh := range files {
		result := UploadResult{File: fh.Filename}

		f, err := fh.Open()
		if err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		batch, err := report.ParseReportCSV(string(data), fh.Filename)
		if err != nil {
			if errors.Is(err, report.ErrMissingColumns) {
				log.Printf("Upload rejected %s: %v", fh.Filename, err)
			}
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		batch.ID = uuid.NewString()
		h.store.AddBatch(batch)
		loaded++

		result.BatchID = batch.ID
		result.Records = len(batch.Records)
		result.SkippedRows = batch.SkippedRows
		results = append(results, result)
		log.Printf("Loaded %s: %d records, %d rows skipped", fh.Filename, len(batch.Records), batch.SkippedRows)
	}

	status := http.StatusOK
	if loaded == 0 {
		status = http.StatusUnprocessableEntity
	}
	respondJSON(w, status, map[string]interface{}{
		"loaded":  loaded,
		"results": results,
	})
}

// GetDashboard returns the full rollup in one call.
func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	stats := h.store.Stats()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"timestamp":         time.Now(),
		"total_revenue":     stats.TotalRevenue,
		"total_records":     stats.TotalRecords,
		"total_conversions": stats.TotalConversions,
		"campaigns":         stats.Campaigns,
		"tags":              stats.Tags,
		"advertisers":       stats.Advertisers,
		"total_target":      h.targets.Total(stats.TotalRevenue),
		"celebration":       stats.TotalRevenue >= h.cfg.Thresholds.CelebrationRevenue,
	})
}

// GetCampaigns returns all campaign rollups.
func (h *Handlers) GetCampaigns(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Stats().Campaigns)
}

// GetCampaign returns one campaign's rollup by name.
func (h *Handlers) GetCampaign(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	for _, c := range h.store.Stats().Campaigns {
		if strings.EqualFold(c.Name, name) {
			respondJSON(w, http.StatusOK, c)
			return
		}
	}
	respondError(w, http.StatusNotFound, "campaign not found: "+name)
}

// GetTags returns all tag rollups, combined entries included.
func (h *Handlers) GetTags(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Stats().Tags)
}

// tagResponse decorates a tag rollup with its reference-table entries.
type tagResponse struct {
	report.TagStats
	Target   string          `json:"target"`
	Metadata *config.TagInfo `json:"metadata,omitempty"`
}

// GetTag returns one tag's rollup by name. Combined names resolve to the
// combined entry; the static metadata and target value ride along.
func (h *Handlers) GetTag(w http.ResponseWriter, r *http.Request) {
	name := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "name")))
	stats := h.store.Stats()
	for _, tag := range stats.Tags {
		if !strings.EqualFold(tag.Name, name) {
			continue
		}
		resp := tagResponse{
			TagStats: tag,
			Target:   h.targets.Resolve(tag.Name, stats.TotalRevenue),
		}
		if info, ok := h.tagInfo[name]; ok {
			resp.Metadata = &info
		}
		respondJSON(w, http.StatusOK, resp)
		return
	}
	respondError(w, http.StatusNotFound, "tag not found: "+name)
}

// GetAdvertisers returns all advertiser rollups.
func (h *Handlers) GetAdvertisers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Stats().Advertisers)
}

// GetFilters returns the distinct campaign/tag/creative/advertiser names
// seen across all batches, for populating filter dropdowns.
func (h *Handlers) GetFilters(w http.ResponseWriter, r *http.Request) {
	campaigns, tags, creatives, advertisers := h.store.Names()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"campaigns":   campaigns,
		"tags":        tags,
		"creatives":   creatives,
		"advertisers": advertisers,
	})
}

// Search groups records by creative name for a substring query.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	groups := report.SearchCreatives(h.store.Records(), query)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"count":   len(groups),
		"results": groups,
	})
}

// GetTarget resolves one tag's target revenue against the current batch
// total. Unknown tags resolve to "NA", not an error.
func (h *Handlers) GetTarget(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tag":    strings.ToUpper(strings.TrimSpace(tag)),
		"target": h.targets.Resolve(tag, h.store.TotalRevenue()),
	})
}

// GetTargetTotal returns the aggregate target revenue across the table.
func (h *Handlers) GetTargetTotal(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"total_target": h.targets.Total(h.store.TotalRevenue()),
	})
}

// Reset drops all uploaded batches.
func (h *Handlers) Reset(w http.ResponseWriter, r *http.Request) {
	h.store.Reset()
	log.Printf("Store reset")
	respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
