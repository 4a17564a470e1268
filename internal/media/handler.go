package media

import (
	"io"
	"log/slog"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gatehouse-api/gatehouse/internal/auth"
	"github.com/gatehouse-api/gatehouse/internal/platform/httpx"
)

const (
	pathUploadImage = "/api/media/images"

	// maxUploadSize caps accepted files at 1 MB.
	maxUploadSize = 1 << 20
)

// Handler wires the image upload endpoint.
type Handler struct {
	logger *slog.Logger
	client *Client
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, client *Client) *Handler {
	return &Handler{logger: logger, client: client}
}

// MountRoutes registers the media routes.
func (h *Handler) MountRoutes(r chi.Router, public *auth.PublicRoutes) {
	r.Post(pathUploadImage, h.uploadImage)
	public.Mark(http.MethodPost, pathUploadImage)
}

type uploadData struct {
	URL string `json:"url"`
}

func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		httpx.BadRequest(w, "file exceeds the 1 MB limit or the form is malformed")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.BadRequest(w, "file field is required")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		httpx.BadRequest(w, "could not read uploaded file")
		return
	}

	ext := detectImageExt(data)
	if ext == "" {
		httpx.BadRequest(w, "only jpeg and png images are accepted")
		return
	}

	fileName := uuid.NewString() + ext
	url, err := h.client.Upload(r.Context(), fileName, data)
	if err != nil {
		h.logger.Error("upload image",
			slog.String("file", path.Base(header.Filename)),
			slog.Any("error", err))
		httpx.Internal(w)
		return
	}

	httpx.Success(w, http.StatusCreated, "File uploaded successfully", uploadData{URL: url})
}

// detectImageExt sniffs the payload and returns the extension for the
// accepted image types, or empty when the content is anything else. The
// client-supplied file name and content type are not trusted.
func detectImageExt(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	default:
		return ""
	}
}
