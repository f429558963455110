package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jonathan/staffdesk/internal/client"
	"github.com/jonathan/staffdesk/internal/config"
	"github.com/jonathan/staffdesk/internal/types"
	"github.com/jonathan/staffdesk/internal/validation"
)

// console is the loaded config file plus a client for the backend it points at.
type console struct {
	path   string
	file   *config.Config
	cfg    config.Config
	client *client.Client
}

// loadConsole reads the config file, applies --api-url and the defaults, and creates a
// client carrying the saved token.
func loadConsole() (*console, error) {
	path := configPathFlag
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	file, err := config.LoadOrEmpty(path)
	if err != nil {
		return nil, err
	}
	if apiURLFlag != "" {
		file.APIURL = apiURLFlag
	}
	if err := file.Validate(); err != nil {
		return nil, err
	}
	cfg := file.MergeWithDefaults(config.Config{
		APIURL:   config.DefaultAPIURL,
		PageSize: config.DefaultPageSize,
	})

	opts := client.DefaultOptions()
	opts.Token = cfg.Token
	c, err := client.New(cfg.APIURL, opts)
	if err != nil {
		return nil, err
	}
	return &console{path: path, file: file, cfg: cfg, client: c}, nil
}

// save writes the file config back, keeping defaults out of it.
func (c *console) save() error {
	return c.file.Save(c.path)
}

func checkResource(name string) error {
	if !types.IsResource(name) {
		return fmt.Errorf("unknown resource %q (one of %v)", name, types.Resources)
	}
	return nil
}

// newRecord returns an empty record of resource for decoding.
func newRecord(resource string) any {
	switch resource {
	case types.ResourceRequirements:
		return &types.Requirement{}
	case types.ResourceSubmissions:
		return &types.Submission{}
	case types.ResourceInterviews:
		return &types.Interview{}
	case types.ResourceClients:
		return &types.Client{}
	case types.ResourceEmployees:
		return &types.Employee{}
	case types.ResourceTimesheets:
		return &types.Timesheet{}
	}
	return nil
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// printFieldErrors lists field problems from the server or the local rules.
func printFieldErrors(w io.Writer, err error) bool {
	var verrs *validation.Errors
	if errors.As(err, &verrs) {
		for _, f := range verrs.Fields {
			_, _ = fmt.Fprintf(w, "  %s: %s\n", f.Field, f.Message)
		}
		return true
	}
	var rerr *client.RequestError
	if errors.As(err, &rerr) && len(rerr.Fields) > 0 {
		for _, f := range rerr.Fields {
			_, _ = fmt.Fprintf(w, "  %s: %s\n", f.Field, f.Message)
		}
		return true
	}
	return false
}
