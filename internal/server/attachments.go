package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/staffdesk/internal/events"
	"github.com/jonathan/staffdesk/internal/storage"
	"github.com/jonathan/staffdesk/internal/types"
)

// maxUploadBytes bounds a single uploaded file.
const maxUploadBytes = 10 << 20

// resumeTypes are the accepted resume extensions.
var resumeTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

var ownerTypes = map[string]bool{
	types.OwnerSubmission:  true,
	types.OwnerRequirement: true,
	types.OwnerClient:      true,
	types.OwnerEmployee:    true,
}

// AttachmentStore is the persistence used by uploads and downloads.
type AttachmentStore interface {
	CreateAttachment(ctx context.Context, a *types.Attachment) (uuid.UUID, error)
	GetAttachment(ctx context.Context, id uuid.UUID) (*types.Attachment, error)
	ListAttachments(ctx context.Context, ownerType string, ownerID uuid.UUID) ([]types.Attachment, error)
	GetSubmission(ctx context.Context, id uuid.UUID) (*types.Submission, error)
	SetSubmissionResume(ctx context.Context, id, attachmentID uuid.UUID) error
}

// upload is a file read from a multipart request.
type upload struct {
	name        string
	contentType string
	size        int64
	body        io.Reader
	closer      io.Closer
}

// readUpload opens the "file" part of a multipart request of at most maxUploadBytes.
func readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	// the envelope may exceed the file by the size of the other form fields
	const maxEnvelope = maxUploadBytes + 64<<10
	if r.ContentLength > maxEnvelope {
		return nil, &http.MaxBytesError{Limit: maxUploadBytes}
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxEnvelope)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, &ErrValidation{Field: "file", Message: "expected a multipart/form-data upload"}
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, &ErrValidation{Field: "file", Message: "is required"}
	}
	if header.Size > maxUploadBytes {
		_ = file.Close()
		return nil, &http.MaxBytesError{Limit: maxUploadBytes}
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(header.Filename))); byExt != "" {
			contentType = byExt
		} else {
			contentType = "application/octet-stream"
		}
	}

	return &upload{
		name:        filepath.Base(header.Filename),
		contentType: contentType,
		size:        header.Size,
		body:        file,
		closer:      file,
	}, nil
}

// store saves u under a new attachment of owner and records it.
func (s *Server) store(ctx context.Context, ownerType string, ownerID uuid.UUID, u *upload) (*types.Attachment, error) {
	a := &types.Attachment{
		ID:          uuid.New(),
		OwnerType:   ownerType,
		OwnerID:     ownerID,
		FileName:    u.name,
		ContentType: u.contentType,
		Size:        u.size,
	}
	a.StorageKey = storage.Key(ownerType, ownerID, a.ID, u.name)

	if err := s.files.Save(ctx, a.StorageKey, a.ContentType, u.body); err != nil {
		return nil, fmt.Errorf("failed to store %s: %w", u.name, err)
	}
	if _, err := s.attachments.CreateAttachment(ctx, a); err != nil {
		if derr := s.files.Delete(ctx, a.StorageKey); derr != nil {
			log.Printf("[attachments] failed to remove orphaned file %s: %v", a.StorageKey, derr)
		}
		return nil, fmt.Errorf("failed to record attachment: %w", err)
	}
	return a, nil
}

// handleUploadAttachment stores a supporting document for any owner.
func (s *Server) handleUploadAttachment(w http.ResponseWriter, r *http.Request) {
	u, err := readUpload(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	defer func() { _ = u.closer.Close() }()

	ownerType := r.FormValue("owner_type")
	if !ownerTypes[ownerType] {
		s.fail(w, &ErrValidation{Field: "owner_type", Message: "must be one of: submission, requirement, client, employee"})
		return
	}
	ownerID, err := uuid.Parse(r.FormValue("owner_id"))
	if err != nil {
		s.fail(w, &ErrValidation{Field: "owner_id", Message: "must be a UUID"})
		return
	}

	a, err := s.store(r.Context(), ownerType, ownerID, u)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, a)
}

// handleUploadResume stores a candidate resume and links it to the submission.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	submission, err := s.attachments.GetSubmission(r.Context(), id)
	if err != nil {
		s.fail(w, fmt.Errorf("failed to get submission: %w", err))
		return
	}
	if submission == nil {
		s.errorResponse(w, http.StatusNotFound, fmt.Sprintf("submission %s not found", id))
		return
	}

	u, err := readUpload(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	defer func() { _ = u.closer.Close() }()

	ext := strings.ToLower(filepath.Ext(u.name))
	contentType, accepted := resumeTypes[ext]
	if !accepted {
		s.fail(w, &ErrUnsupportedMedia{FileName: u.name})
		return
	}
	u.contentType = contentType

	a, err := s.store(r.Context(), types.OwnerSubmission, id, u)
	if err != nil {
		s.fail(w, err)
		return
	}
	if err := s.attachments.SetSubmissionResume(r.Context(), id, a.ID); err != nil {
		s.fail(w, fmt.Errorf("failed to link resume: %w", err))
		return
	}

	submission.ResumeID = &a.ID
	s.publish(r, types.ResourceSubmissions, events.ActionUpdated, id, submission)
	s.jsonResponse(w, http.StatusCreated, a)
}

// handleListAttachments lists the attachments of one owner.
func (s *Server) handleListAttachments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ownerType := q.Get("owner_type")
	if !ownerTypes[ownerType] {
		s.fail(w, &ErrValidation{Field: "owner_type", Message: "must be one of: submission, requirement, client, employee"})
		return
	}
	ownerID, err := uuid.Parse(q.Get("owner_id"))
	if err != nil {
		s.fail(w, &ErrValidation{Field: "owner_id", Message: "must be a UUID"})
		return
	}

	items, err := s.attachments.ListAttachments(r.Context(), ownerType, ownerID)
	if err != nil {
		s.fail(w, fmt.Errorf("failed to list attachments: %w", err))
		return
	}
	if items == nil {
		items = []types.Attachment{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

// handleDownloadAttachment streams an attachment body.
func (s *Server) handleDownloadAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	a, err := s.attachments.GetAttachment(r.Context(), id)
	if err != nil {
		s.fail(w, fmt.Errorf("failed to get attachment: %w", err))
		return
	}
	if a == nil {
		s.errorResponse(w, http.StatusNotFound, fmt.Sprintf("attachment %s not found", id))
		return
	}

	body, err := s.files.Open(r.Context(), a.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Printf("[server] attachment %s has no stored file at %s", id, a.StorageKey)
			s.errorResponse(w, http.StatusNotFound, fmt.Sprintf("attachment %s has no file", id))
			return
		}
		s.fail(w, fmt.Errorf("failed to open attachment: %w", err))
		return
	}
	defer func() { _ = body.Close() }()

	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.FileName}))
	if a.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(a.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		log.Printf("[server] download of attachment %s interrupted: %v", id, err)
	}
}
