package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jonathan/staffdesk/internal/types"
)

// MaxUploadBytes mirrors the server upload limit so oversized files fail before sending.
const MaxUploadBytes = 10 << 20

// ErrTooLarge is returned for files over MaxUploadBytes.
var ErrTooLarge = fmt.Errorf("file exceeds %d MiB", MaxUploadBytes>>20)

// multipartBody encodes fields and one file part named "file".
func multipartBody(fields map[string]string, fileName string, r io.Reader) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", k, err)
		}
	}
	part, err := mw.CreateFormFile("file", filepath.Base(fileName))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create file part: %w", err)
	}
	n, err := io.Copy(part, io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", fileName, err)
	}
	if n > MaxUploadBytes {
		return nil, "", ErrTooLarge
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish upload: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

// upload posts a multipart body and decodes the JSON response into out.
func (c *Client) upload(ctx context.Context, path string, fields map[string]string, fileName string, r io.Reader, out any) error {
	body, contentType, err := multipartBody(fields, fileName, r)
	if err != nil {
		return err
	}
	resp, err := c.send(ctx, request{method: http.MethodPost, path: path, body: body, contentType: contentType})
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RequestError{Method: http.MethodPost, Path: path, Status: resp.StatusCode, Message: "invalid response body", Cause: err}
	}
	return nil
}

// UploadResume attaches a resume (.pdf, .doc or .docx) to a submission.
func (c *Client) UploadResume(ctx context.Context, submissionID uuid.UUID, fileName string, r io.Reader) (*types.Attachment, error) {
	var a types.Attachment
	path := "/api/submissions/" + submissionID.String() + "/resume"
	if err := c.upload(ctx, path, nil, fileName, r, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// UploadAttachment stores a supporting document for any owner.
func (c *Client) UploadAttachment(ctx context.Context, ownerType string, ownerID uuid.UUID, fileName string, r io.Reader) (*types.Attachment, error) {
	var a types.Attachment
	fields := map[string]string{"owner_type": ownerType, "owner_id": ownerID.String()}
	if err := c.upload(ctx, "/api/attachments", fields, fileName, r, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Attachments lists the attachments of one owner.
func (c *Client) Attachments(ctx context.Context, ownerType string, ownerID uuid.UUID) ([]types.Attachment, error) {
	var resp struct {
		Items []types.Attachment `json:"items"`
	}
	q := url.Values{"owner_type": {ownerType}, "owner_id": {ownerID.String()}}
	if err := c.do(ctx, http.MethodGet, "/api/attachments", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Download writes an attachment body to w and returns its file name.
func (c *Client) Download(ctx context.Context, id uuid.UUID, w io.Writer) (string, error) {
	resp, err := c.send(ctx, request{method: http.MethodGet, path: "/api/attachments/" + id.String() + "/download", accept: "*/*"})
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	name := id.String()
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		name = filepath.Base(params["filename"])
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return name, nil
}

// ImportTimesheets uploads an XLSX timesheet workbook.
func (c *Client) ImportTimesheets(ctx context.Context, fileName string, r io.Reader) (*types.ImportResult, error) {
	var result types.ImportResult
	if err := c.upload(ctx, "/api/timesheets/import", nil, fileName, r, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
