package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/staffdesk/internal/types"
	"github.com/jonathan/staffdesk/internal/validation"
)

// Status is the load status of a Store.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// ErrPending is returned when a change is requested while another is still in flight.
var ErrPending = errors.New("another change is still pending")

// record is satisfied by pointers to the entity types.
type record[T any] interface {
	*T
	types.Record
}

// Store holds the loaded list of one entity. Create and Update check the field rules
// before any request is sent; failed requests set Err and raise an error notice. Nothing
// is retried.
type Store[T any, P record[T]] struct {
	client   *Client
	resource string
	notifier *Notifier

	mu      sync.Mutex
	items   []T
	status  Status
	err     string
	pending bool
}

// NewStore creates an idle store for resource. notifier may be nil.
func NewStore[T any, P record[T]](c *Client, resource string, notifier *Notifier) *Store[T, P] {
	return &Store[T, P]{client: c, resource: resource, notifier: notifier}
}

// Resource returns the REST resource name.
func (s *Store[T, P]) Resource() string { return s.resource }

// Items returns a copy of the loaded list.
func (s *Store[T, P]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.items...)
}

// Find returns the loaded record with id.
func (s *Store[T, P]) Find(id uuid.UUID) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if P(&item).GetID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Status returns the current load status.
func (s *Store[T, P]) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err returns the message of the last failure, or "".
func (s *Store[T, P]) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Pending reports whether a change is in flight.
func (s *Store[T, P]) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *Store[T, P]) collection() string {
	return "/api/" + s.resource
}

func (s *Store[T, P]) item(id uuid.UUID) string {
	return "/api/" + s.resource + "/" + id.String()
}

// FetchAll replaces the list with every record on the server.
func (s *Store[T, P]) FetchAll(ctx context.Context) error {
	s.mu.Lock()
	s.status = StatusLoading
	s.err = ""
	s.mu.Unlock()

	var resp struct {
		Items []T `json:"items"`
	}
	err := s.client.do(ctx, http.MethodGet, s.collection(), nil, nil, &resp)

	s.mu.Lock()
	if err != nil {
		msg := s.failLocked(err)
		s.mu.Unlock()
		s.notifier.Error(msg)
		return err
	}
	s.items = resp.Items
	s.status = StatusSucceeded
	s.mu.Unlock()
	return nil
}

// begin marks a change as in flight, failing with ErrPending when one already is.
func (s *Store[T, P]) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending {
		return ErrPending
	}
	s.pending = true
	s.status = StatusLoading
	s.err = ""
	return nil
}

// finish records the outcome of a change. apply runs under the lock on success and
// returns the info notice, which is pushed once the lock is released so that notice
// hooks may read the store.
func (s *Store[T, P]) finish(err error, apply func() string) error {
	s.mu.Lock()
	s.pending = false
	if err != nil {
		msg := s.failLocked(err)
		s.mu.Unlock()
		s.notifier.Error(msg)
		return err
	}
	info := apply()
	s.status = StatusSucceeded
	s.mu.Unlock()
	s.notifier.Info(info)
	return nil
}

// failLocked marks the store failed and returns the error notice. Callers hold mu.
func (s *Store[T, P]) failLocked(err error) string {
	s.status = StatusFailed
	s.err = err.Error()
	var rerr *RequestError
	if errors.As(err, &rerr) && rerr.Status > 0 {
		s.err = rerr.Message
	}
	return s.resource + ": " + s.err
}

// Create validates rec, posts it and appends it with its new id.
func (s *Store[T, P]) Create(ctx context.Context, rec *T) error {
	if err := validation.Validate(rec); err != nil {
		return err
	}
	if err := s.begin(); err != nil {
		return err
	}

	var resp struct {
		ID uuid.UUID `json:"id"`
	}
	err := s.client.do(ctx, http.MethodPost, s.collection(), nil, rec, &resp)
	return s.finish(err, func() string {
		P(rec).SetID(resp.ID)
		s.items = append(s.items, *rec)
		return s.resource + ": created " + resp.ID.String()
	})
}

// Update validates rec, replaces it on the server and swaps the matching loaded record
// for the stored version.
func (s *Store[T, P]) Update(ctx context.Context, rec *T) error {
	if err := validation.Validate(rec); err != nil {
		return err
	}
	id := P(rec).GetID()
	if id == uuid.Nil {
		return errors.New("record has no id")
	}
	if err := s.begin(); err != nil {
		return err
	}

	stored := new(T)
	err := s.client.do(ctx, http.MethodPut, s.item(id), nil, rec, stored)
	return s.finish(err, func() string {
		for i := range s.items {
			if P(&s.items[i]).GetID() == id {
				s.items[i] = *stored
				break
			}
		}
		return s.resource + ": updated " + id.String()
	})
}

// Remove deletes id on the server and drops it from the list.
func (s *Store[T, P]) Remove(ctx context.Context, id uuid.UUID) error {
	if err := s.begin(); err != nil {
		return err
	}

	err := s.client.do(ctx, http.MethodDelete, s.item(id), nil, nil, nil)
	return s.finish(err, func() string {
		kept := s.items[:0]
		for _, item := range s.items {
			if P(&item).GetID() != id {
				kept = append(kept, item)
			}
		}
		s.items = kept
		return s.resource + ": deleted " + id.String()
	})
}

// CreateJSON decodes a record from data and creates it, returning its new id.
func (s *Store[T, P]) CreateJSON(ctx context.Context, data []byte) (uuid.UUID, error) {
	rec := new(T)
	if err := json.Unmarshal(data, rec); err != nil {
		return uuid.Nil, fmt.Errorf("failed to decode %s record: %w", s.resource, err)
	}
	if err := s.Create(ctx, rec); err != nil {
		return uuid.Nil, err
	}
	return P(rec).GetID(), nil
}

// UpdateJSON decodes a record from data and replaces id with it.
func (s *Store[T, P]) UpdateJSON(ctx context.Context, id uuid.UUID, data []byte) error {
	rec := new(T)
	if err := json.Unmarshal(data, rec); err != nil {
		return fmt.Errorf("failed to decode %s record: %w", s.resource, err)
	}
	P(rec).SetID(id)
	return s.Update(ctx, rec)
}

// Mutator is a Store whose entity type is chosen at run time.
type Mutator interface {
	Resource() string
	CreateJSON(ctx context.Context, data []byte) (uuid.UUID, error)
	UpdateJSON(ctx context.Context, id uuid.UUID, data []byte) error
	Remove(ctx context.Context, id uuid.UUID) error
}

// Stores bundles one store per entity, sharing a client and a notifier.
type Stores struct {
	Requirements *Store[types.Requirement, *types.Requirement]
	Submissions  *Store[types.Submission, *types.Submission]
	Interviews   *Store[types.Interview, *types.Interview]
	Clients      *Store[types.Client, *types.Client]
	Employees    *Store[types.Employee, *types.Employee]
	Timesheets   *Store[types.Timesheet, *types.Timesheet]
}

// For returns the store of resource, or nil for an unknown resource.
func (s *Stores) For(resource string) Mutator {
	switch resource {
	case types.ResourceRequirements:
		return s.Requirements
	case types.ResourceSubmissions:
		return s.Submissions
	case types.ResourceInterviews:
		return s.Interviews
	case types.ResourceClients:
		return s.Clients
	case types.ResourceEmployees:
		return s.Employees
	case types.ResourceTimesheets:
		return s.Timesheets
	}
	return nil
}

// NewStores creates every entity store.
func NewStores(c *Client, notifier *Notifier) *Stores {
	return &Stores{
		Requirements: NewStore[types.Requirement](c, types.ResourceRequirements, notifier),
		Submissions:  NewStore[types.Submission](c, types.ResourceSubmissions, notifier),
		Interviews:   NewStore[types.Interview](c, types.ResourceInterviews, notifier),
		Clients:      NewStore[types.Client](c, types.ResourceClients, notifier),
		Employees:    NewStore[types.Employee](c, types.ResourceEmployees, notifier),
		Timesheets:   NewStore[types.Timesheet](c, types.ResourceTimesheets, notifier),
	}
}
