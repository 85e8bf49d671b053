package handle

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/util"
)

type AskRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Manual    string `json:"manual,omitempty"`
	Question  string `json:"question"`
	Image     string `json:"image,omitempty"` // base64 or data URL
}

type PageRef struct {
	Page     int    `json:"page"`
	Found    bool   `json:"found"`
	ImageURL string `json:"image_url,omitempty"`
}

type ImageInfo struct {
	SizeBytes    int  `json:"size_bytes"`
	WithinBudget bool `json:"within_budget"`
	Fallback     bool `json:"fallback"`
}

type AskResponse struct {
	SessionID string     `json:"session_id"`
	Answer    string     `json:"answer"`
	Failed    bool       `json:"failed"`
	Pages     []PageRef  `json:"pages"`
	Image     *ImageInfo `json:"image,omitempty"`
}

func (d *Handle) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	id := strings.TrimSpace(req.SessionID)
	if id == "" {
		id = uuid.NewString()
	}
	sess := d.sessions.Get(id)
	if m := strings.TrimSpace(req.Manual); m != "" {
		sess.SetManual(m)
	}

	var photo []byte
	if req.Image != "" {
		b, _, err := util.DecodeBase64MaybeDataURL(req.Image)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad image: "+err.Error())
			return
		}
		photo = b
	}

	out, err := d.svc.Ask(r.Context(), sess, req.Question, photo)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	resp := AskResponse{
		SessionID: id,
		Answer:    out.Answer,
		Failed:    out.Failed,
		Pages:     []PageRef{},
	}
	for _, p := range out.Pages {
		ref := PageRef{Page: p.Page, Found: p.Found}
		if p.Found {
			ref.ImageURL = fmt.Sprintf("/v1/manuals/%s/pages/%d/image", sess.Manual(), p.Page)
		}
		resp.Pages = append(resp.Pages, ref)
	}
	if out.Image != nil {
		resp.Image = &ImageInfo{
			SizeBytes:    len(out.Image.Bytes),
			WithinBudget: out.Image.WithinBudget,
			Fallback:     out.Image.Fallback,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
