package handlers

import (
	"net/http"

	"github.com/dmitrijs2005/remember/internal/server/models"
)

const videoResource = "Video"

// ListVideos accepts the optional query filter watchStatus.
func (h *Handlers) ListVideos(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	filter := models.VideoFilter{WatchStatus: models.WatchStatus(r.URL.Query().Get("watchStatus"))}

	videos, err := h.videos.List(r.Context(), userID, filter)
	if err != nil {
		h.rw.HandleError(w, r, err, videoResource, "Error fetching videos")
		return
	}

	h.rw.List(w, r, videos, len(videos))
}

func (h *Handlers) GetVideo(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	video, err := h.videos.Get(r.Context(), userID, h.id(r))
	if err != nil {
		h.rw.HandleError(w, r, err, videoResource, "Error fetching video")
		return
	}

	h.rw.Data(w, r, http.StatusOK, "", video)
}

func (h *Handlers) CreateVideo(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req models.CreateVideoRequest
	if !h.decode(w, r, &req) {
		return
	}

	video, err := h.videos.Create(r.Context(), userID, req)
	if err != nil {
		h.rw.HandleError(w, r, err, videoResource, "Error saving video")
		return
	}

	h.rw.Data(w, r, http.StatusCreated, "Video saved successfully", video)
}

func (h *Handlers) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req models.UpdateVideoRequest
	if !h.decode(w, r, &req) {
		return
	}

	video, err := h.videos.Update(r.Context(), userID, h.id(r), req)
	if err != nil {
		h.rw.HandleError(w, r, err, videoResource, "Error updating video")
		return
	}

	h.rw.Data(w, r, http.StatusOK, "Video updated successfully", video)
}

func (h *Handlers) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.videos.Delete(r.Context(), userID, h.id(r)); err != nil {
		h.rw.HandleError(w, r, err, videoResource, "Error deleting video")
		return
	}

	h.rw.Message(w, r, http.StatusOK, "Video deleted successfully")
}

// FetchVideoInfo scrapes the title for a YouTube URL. A failed scrape still
// answers 200 with a fallback title and an explanatory message.
func (h *Handlers) FetchVideoInfo(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.userID(w, r); !ok {
		return
	}

	var req models.FetchVideoInfoRequest
	if !h.decode(w, r, &req) {
		return
	}

	info, err := h.videos.FetchInfo(r.Context(), req.URL)
	if err != nil {
		h.rw.HandleError(w, r, err, videoResource, "Error fetching video info")
		return
	}

	h.rw.Data(w, r, http.StatusOK, info.Message, info)
}
