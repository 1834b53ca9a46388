// Package http provides http transport for feature extraction
package http

import (
	stdhttp "net/http"

	"bugsift/internal/modkit/httpkit"
	"bugsift/internal/services/features/domain"
)

// Register mounts the features endpoints; maxBytes bounds request bodies
func Register(r httpkit.Router, p domain.ExtractorPort, maxBytes int64) {
	h := &handlers{svc: p}
	// numbers inside bug records decode as json.Number
	opts := httpkit.JSONOptions{MaxBytes: maxBytes, DisallowUnknown: true, UseNumber: true}

	httpkit.PostJSON(r, "/extract", h.extract, opts)
	httpkit.PostJSON(r, "/labels", h.labels, opts)
	httpkit.Get(r, "/extractors", h.extractors)
}

type handlers struct{ svc domain.ExtractorPort }

// swagger:route POST /features/extract Features featuresExtract
// @Summary Extract features from a batch of bugs
// @Description Runs the selected extractors over each bug, then cleans titles and comments
// @Tags Features
// @Accept json
// @Produce json
// @Param payload body domain.ExtractInput true "Bugs and extractor selection"
// @Success 200 {object} domain.ExtractOutput "ok"
// @Failure 400 {object} httpkit.Envelope "invalid payload"
// @Failure 422 {object} httpkit.Envelope "malformed bug record"
// @Failure 503 {object} httpkit.Envelope "commits or persistence not configured"
// @Router /features/extract [post]
func (h *handlers) extract(r *stdhttp.Request, in domain.ExtractInput) (any, error) {
	return h.svc.Extract(r.Context(), in)
}

// swagger:route POST /features/labels Features featuresLabels
// @Summary Label bugs by product and component
// @Tags Features
// @Accept json
// @Produce json
// @Param payload body domain.LabelsInput true "Bugs"
// @Success 200 {object} domain.LabelsOutput "ok"
// @Failure 400 {object} httpkit.Envelope "invalid payload"
// @Router /features/labels [post]
func (h *handlers) labels(r *stdhttp.Request, in domain.LabelsInput) (any, error) {
	return h.svc.Labels(r.Context(), in)
}

// swagger:route GET /features/extractors Features featuresExtractors
// @Summary List extractor names, presets and cleanup passes
// @Tags Features
// @Produce json
// @Success 200 {object} domain.ExtractorInfo "ok"
// @Router /features/extractors [get]
func (h *handlers) extractors(_ *stdhttp.Request) (any, error) {
	return h.svc.Info(), nil
}
