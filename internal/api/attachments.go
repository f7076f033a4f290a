// ABOUTME: Event attachment upload, listing, download, and deletion
// ABOUTME: Uploads are multipart; downloads stream the stored bytes with original metadata

package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/convene-hq/convene/internal/store"
)

// maxAttachmentSize caps uploads at 10MB. Attachments live in the database,
// so oversized files hurt every query touching the table.
const maxAttachmentSize = 10 << 20

// AttachmentResponse is the JSON shape for attachment metadata.
type AttachmentResponse struct {
	ID         int64  `json:"attachment_id"`
	EventID    int64  `json:"event_id"`
	FileName   string `json:"file_name"`
	MimeType   string `json:"mime_type"`
	FileSize   int64  `json:"file_size"`
	UploadedOn string `json:"uploaded_on"`
}

func attachmentResponse(a *store.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:         a.ID,
		EventID:    a.EventID,
		FileName:   a.FileName,
		MimeType:   a.MimeType,
		FileSize:   a.FileSize,
		UploadedOn: a.UploadedOn.Format(time.RFC3339),
	}
}

// handleUploadAttachment handles POST /events/{id}/attachments. Expects a
// multipart form with a "file" part.
func (s *Server) handleUploadAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendJSONError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAttachmentSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		sendJSONError(w, http.StatusBadRequest, "multipart form with a \"file\" part is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		sendJSONError(w, http.StatusBadRequest, "reading uploaded file failed")
		return
	}

	attachment := &store.Attachment{
		EventID:  id,
		FileName: header.Filename,
		MimeType: detectMimeType(header, content),
		FileSize: int64(len(content)),
		Content:  content,
	}
	if err := s.store.CreateAttachment(r.Context(), attachment); err != nil {
		s.storeError(w, err, "event not found")
		return
	}

	writeJSON(w, http.StatusCreated, attachmentResponse(attachment))
}

// detectMimeType prefers the declared part content type, falling back to
// sniffing the payload.
func detectMimeType(header *multipart.FileHeader, content []byte) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return http.DetectContentType(content)
}

// handleListAttachments handles GET /events/{id}/attachments. Returns
// metadata only; bytes come from the download endpoint.
func (s *Server) handleListAttachments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendJSONError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	attachments, err := s.store.ListAttachmentsByEvent(r.Context(), id)
	if err != nil {
		s.logger.Error("listing attachments", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	out := make([]AttachmentResponse, 0, len(attachments))
	for _, a := range attachments {
		out = append(out, attachmentResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleDownloadAttachment handles GET /attachments/{id}.
func (s *Server) handleDownloadAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendJSONError(w, http.StatusBadRequest, "invalid attachment id")
		return
	}

	attachment, err := s.store.GetAttachment(r.Context(), id)
	if err != nil {
		s.storeError(w, err, "attachment not found")
		return
	}

	w.Header().Set("Content-Type", attachment.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.FileName))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(attachment.Content)))
	w.Write(attachment.Content)
}

// handleDeleteAttachment handles DELETE /attachments/{id}. The store clears
// any cover reference pointing at the attachment.
func (s *Server) handleDeleteAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendJSONError(w, http.StatusBadRequest, "invalid attachment id")
		return
	}

	if err := s.store.DeleteAttachment(r.Context(), id); err != nil {
		s.storeError(w, err, "attachment not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
