package handler

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"foodbridge/internal/foodai"
	"foodbridge/internal/llm"
	"foodbridge/internal/session"
	"foodbridge/internal/types"
)

func (h *Handler) SetForm(w http.ResponseWriter, r *http.Request) {
	var f types.DonationForm
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	sessionFrom(r).SetForm(f)
	writeJSON(w, http.StatusOK, f)
}

// UploadImage accepts a multipart "image" file or a JSON body
// {"image": "data:image/...;base64,..."} and selects it for analysis.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	var dataURL string
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		dataURL, err = readMultipartImage(r)
	} else {
		dataURL, err = readJSONImage(r)
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "image exceeds upload limit")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sessionFrom(r).SelectImage(dataURL)
	writeJSON(w, http.StatusOK, map[string]any{"selected": true, "bytes": len(dataURL)})
}

func readMultipartImage(r *http.Request) (string, error) {
	file, _, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", err
		}
		return "", errors.New("multipart field \"image\" is required")
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errors.New("image is empty")
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", errors.New("file is not an image: " + mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func readJSONImage(r *http.Request) (string, error) {
	var in struct {
		Image string `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", err
		}
		return "", errors.New("invalid json body")
	}
	img := strings.TrimSpace(in.Image)
	if img == "" {
		return "", errors.New("image is required")
	}
	if _, err := foodai.DecodeImage(img); err != nil {
		return "", err
	}
	return img, nil
}

type analysisResponse struct {
	Result types.AnalysisResult `json:"result"`
	Form   types.DonationForm   `json:"form"`
}

// Analyze sends the selected image to the vision model and prefills the form.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	img := sess.SelectedImage()
	if img == "" {
		writeError(w, http.StatusBadRequest, "no image selected")
		return
	}
	if !sess.Begin(session.ActionAnalysis) {
		writeError(w, http.StatusConflict, "analysis already in progress")
		return
	}
	defer sess.End(session.ActionAnalysis)

	ctx := llm.WithHook(r.Context(), sess)
	res, err := h.gateway.AnalyzeImage(ctx, img)
	if err != nil {
		h.log.Error().Err(err).Str("session_id", sess.ID()).Msg("image analysis unavailable")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	form, err := sess.ApplyAnalysis(img, res)
	if errors.Is(err, session.ErrStaleAnalysis) {
		h.log.Warn().Str("session_id", sess.ID()).Msg("analysis dropped, image replaced")
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if res.Failed() {
		writeJSON(w, http.StatusBadGateway, analysisResponse{Result: res, Form: form})
		return
	}
	writeJSON(w, http.StatusOK, analysisResponse{Result: res, Form: form})
}
