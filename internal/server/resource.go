package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/staffdesk/internal/events"
	"github.com/jonathan/staffdesk/internal/export"
	"github.com/jonathan/staffdesk/internal/schemas"
	"github.com/jonathan/staffdesk/internal/server/middleware"
	"github.com/jonathan/staffdesk/internal/table"
	"github.com/jonathan/staffdesk/internal/types"
	"github.com/jonathan/staffdesk/internal/validation"
	"github.com/jonathan/staffdesk/internal/views"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Resource adapts one entity's persistence to the generic CRUD endpoints.
type Resource[T any] struct {
	Name   string
	List   func(ctx context.Context) ([]T, error)
	Get    func(ctx context.Context, id uuid.UUID) (*T, error)
	Create func(ctx context.Context, rec *T) (uuid.UUID, error)
	Update func(ctx context.Context, rec *T) error
	Delete func(ctx context.Context, id uuid.UUID) error

	// Prepare runs after validation and before Create or Update.
	Prepare func(ctx context.Context, rec *T) error
	// WriteRoles, when set, restricts create, update and delete to these roles.
	WriteRoles []string
}

// recordPtr is satisfied by pointers to the entity types.
type recordPtr[T any] interface {
	*T
	types.Record
}

// resourceHandler is the type-erased form of an endpoint, keyed by resource name.
type resourceHandler interface {
	name() string
	list(s *Server, w http.ResponseWriter, r *http.Request)
	get(s *Server, w http.ResponseWriter, r *http.Request, id uuid.UUID)
	create(s *Server, w http.ResponseWriter, r *http.Request)
	update(s *Server, w http.ResponseWriter, r *http.Request, id uuid.UUID)
	remove(s *Server, w http.ResponseWriter, r *http.Request, id uuid.UUID)
	export(s *Server, w http.ResponseWriter, r *http.Request)
}

type endpoint[T any, P recordPtr[T]] struct {
	res Resource[T]
}

// newResource wraps res for registration with the server.
func newResource[T any, P recordPtr[T]](res Resource[T]) resourceHandler {
	return &endpoint[T, P]{res: res}
}

func (e *endpoint[T, P]) name() string { return e.res.Name }

// ListResponse is the body of GET /api/{resource}.
type ListResponse struct {
	Items     []table.Row    `json:"items"`
	Count     int            `json:"count"`
	Total     int            `json:"total"`
	Page      int            `json:"page"`
	Size      int            `json:"size"`
	PageCount int            `json:"page_count"`
	Filters   []table.Filter `json:"filters"`
}

// stateFromQuery reads search, filter.<key>, page and size. Without a size every
// matching row is returned on page 0.
func stateFromQuery(q url.Values) (table.State, bool, error) {
	st := table.NewState()
	st.SetSearch(q.Get("search"))
	for key, values := range q {
		if field, ok := strings.CutPrefix(key, "filter."); ok && field != "" && len(values) > 0 {
			st.SetFilter(field, values[0])
		}
	}

	sized := false
	if v := q.Get("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size <= 0 {
			return st, false, &ErrValidation{Field: "size", Message: "must be a positive integer"}
		}
		st.SetPageSize(size)
		sized = true
	}
	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 0 {
			return st, false, &ErrValidation{Field: "page", Message: "must be a non-negative integer"}
		}
		st.SetPage(page)
	}
	return st, sized, nil
}

// view loads every record and applies the query. It returns the records alongside their
// rows so exports can map matched rows back to typed records.
func (e *endpoint[T, P]) view(r *http.Request, all bool) ([]T, table.View, error) {
	st, sized, err := stateFromQuery(r.URL.Query())
	if err != nil {
		return nil, table.View{}, err
	}

	records, err := e.res.List(r.Context())
	if err != nil {
		return nil, table.View{}, fmt.Errorf("failed to list %s: %w", e.res.Name, err)
	}
	rows, err := table.RowsOf(records)
	if err != nil {
		return nil, table.View{}, fmt.Errorf("failed to convert %s: %w", e.res.Name, err)
	}

	if all || !sized {
		st.Page = 0
		st.Size = len(rows)
	}
	return records, table.Apply(rows, views.Columns(e.res.Name), st), nil
}

func (e *endpoint[T, P]) list(s *Server, w http.ResponseWriter, r *http.Request) {
	_, v, err := e.view(r, false)
	if err != nil {
		s.fail(w, err)
		return
	}

	items := v.Rows
	if items == nil {
		items = []table.Row{}
	}
	s.jsonResponse(w, http.StatusOK, ListResponse{
		Items:     items,
		Count:     len(items),
		Total:     v.Total,
		Page:      v.Page,
		Size:      v.Size,
		PageCount: v.PageCount,
		Filters:   v.Filters,
	})
}

func (e *endpoint[T, P]) get(s *Server, w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	rec, err := e.res.Get(r.Context(), id)
	if err != nil {
		s.fail(w, fmt.Errorf("failed to get %s: %w", e.res.Name, err))
		return
	}
	if rec == nil {
		s.errorResponse(w, http.StatusNotFound, fmt.Sprintf("%s %s not found", e.res.Name, id))
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

// decode reads a body, checks it against the resource schema, decodes it and runs the
// field rules.
func (e *endpoint[T, P]) decode(w http.ResponseWriter, r *http.Request) (*T, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if err := schemas.ValidateDocument(e.res.Name, body); err != nil {
		return nil, err
	}

	rec := new(T)
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(rec); err != nil {
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	if err := validation.Validate(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (e *endpoint[T, P]) authorize(r *http.Request, action string) error {
	if len(e.res.WriteRoles) == 0 || middleware.HasRole(r, e.res.WriteRoles...) {
		return nil
	}
	return &ErrForbidden{Action: action + " " + e.res.Name}
}

func (e *endpoint[T, P]) prepare(ctx context.Context, rec *T) error {
	if e.res.Prepare == nil {
		return nil
	}
	return e.res.Prepare(ctx, rec)
}

func (e *endpoint[T, P]) create(s *Server, w http.ResponseWriter, r *http.Request) {
	if err := e.authorize(r, "create"); err != nil {
		s.fail(w, err)
		return
	}
	rec, err := e.decode(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	if err := e.prepare(r.Context(), rec); err != nil {
		s.fail(w, err)
		return
	}

	id, err := e.res.Create(r.Context(), rec)
	if err != nil {
		s.fail(w, fmt.Errorf("failed to create %s: %w", e.res.Name, err))
		return
	}
	P(rec).SetID(id)

	s.publish(r, e.res.Name, events.ActionCreated, id, rec)
	s.jsonResponse(w, http.StatusCreated, map[string]string{"id": id.String()})
}

func (e *endpoint[T, P]) update(s *Server, w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := e.authorize(r, "update"); err != nil {
		s.fail(w, err)
		return
	}
	rec, err := e.decode(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	P(rec).SetID(id)
	if err := e.prepare(r.Context(), rec); err != nil {
		s.fail(w, err)
		return
	}

	if err := e.res.Update(r.Context(), rec); err != nil {
		s.fail(w, fmt.Errorf("failed to update %s: %w", e.res.Name, err))
		return
	}

	s.publish(r, e.res.Name, events.ActionUpdated, id, rec)
	s.jsonResponse(w, http.StatusOK, rec)
}

func (e *endpoint[T, P]) remove(s *Server, w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := e.authorize(r, "delete"); err != nil {
		s.fail(w, err)
		return
	}
	if err := e.res.Delete(r.Context(), id); err != nil {
		s.fail(w, fmt.Errorf("failed to delete %s: %w", e.res.Name, err))
		return
	}

	s.publish(r, e.res.Name, events.ActionDeleted, id, nil)
	s.jsonResponse(w, http.StatusOK, map[string]string{"id": id.String()})
}

// export writes every row matching the query. CSV exports the typed records; XLSX
// exports the displayed columns of the view.
func (e *endpoint[T, P]) export(s *Server, w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatCSV
	}
	if format != export.FormatCSV && format != export.FormatXLSX {
		s.fail(w, &ErrValidation{Field: "format", Message: "must be csv or xlsx"})
		return
	}

	records, v, err := e.view(r, true)
	if err != nil {
		s.fail(w, err)
		return
	}

	var buf bytes.Buffer
	switch format {
	case export.FormatXLSX:
		err = export.WriteXLSX(&buf, e.res.Name, v.Rows, v.Columns)
	default:
		err = export.WriteCSV(&buf, matchedRecords[T, P](records, v.Rows))
	}
	if err != nil {
		s.fail(w, fmt.Errorf("failed to export %s: %w", e.res.Name, err))
		return
	}

	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, e.res.Name, format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// matchedRecords keeps the records whose id appears in rows, in row order.
func matchedRecords[T any, P recordPtr[T]](records []T, rows []table.Row) []T {
	byID := make(map[string]int, len(records))
	for i := range records {
		byID[P(&records[i]).GetID().String()] = i
	}
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		id, _ := row["id"].(string)
		if i, ok := byID[id]; ok {
			out = append(out, records[i])
		}
	}
	return out
}
