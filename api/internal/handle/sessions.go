package handle

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/imageprep"
)

// TransformRequest is a partial update: absent fields keep their current
// value. Values outside their range are clamped, not rejected.
type TransformRequest struct {
	RotateDegrees *int `json:"rotate_degrees,omitempty"`
	CropPercent   *int `json:"crop_percent,omitempty"`
	ResizePercent *int `json:"resize_percent,omitempty"`
	MaxKilobytes  *int `json:"max_kilobytes,omitempty"`
	MaxDimension  *int `json:"max_dimension,omitempty"`
}

func (d *Handle) UpdateTransform(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req TransformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
		return
	}

	sess := d.sessions.Get(id)
	spec := sess.Spec()
	apply := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	apply(&spec.RotateDegrees, req.RotateDegrees)
	apply(&spec.CropPercent, req.CropPercent)
	apply(&spec.ResizePercent, req.ResizePercent)
	apply(&spec.MaxKilobytes, req.MaxKilobytes)
	apply(&spec.MaxDimension, req.MaxDimension)
	sess.SetSpec(spec)

	writeJSON(w, http.StatusOK, map[string]imageprep.Spec{"transform": sess.Spec()})
}

func (d *Handle) ResetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if sess, ok := d.sessions.Lookup(id); ok {
		sess.Reset()
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
