package client

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/staffdesk/internal/table"
	"github.com/jonathan/staffdesk/internal/types"
)

// statusKeys names the status field summarized for each resource.
var statusKeys = map[string]string{
	types.ResourceRequirements: "status",
	types.ResourceSubmissions:  "interview_status",
	types.ResourceInterviews:   "status",
	types.ResourceClients:      "status",
	types.ResourceEmployees:    "status",
	types.ResourceTimesheets:   "status",
}

// Summary counts the records of one resource.
type Summary struct {
	Resource string
	Total    int
	ByStatus map[string]int
}

// Statuses returns the status names in alphabetical order.
func (s Summary) Statuses() []string {
	out := make([]string, 0, len(s.ByStatus))
	for k := range s.ByStatus {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Dashboard is the landing overview: one summary per resource.
type Dashboard struct {
	Summaries []Summary
}

// LoadDashboard fetches every resource concurrently. The first failure cancels the rest.
func LoadDashboard(ctx context.Context, c *Client) (*Dashboard, error) {
	summaries := make([]Summary, len(types.Resources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(3)
	for i, resource := range types.Resources {
		g.Go(func() error {
			page, err := c.List(ctx, resource, Query{})
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", resource, err)
			}
			summaries[i] = summarize(resource, page.Items)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Dashboard{Summaries: summaries}, nil
}

func summarize(resource string, rows []table.Row) Summary {
	s := Summary{Resource: resource, Total: len(rows), ByStatus: map[string]int{}}
	key := statusKeys[resource]
	for _, row := range rows {
		if v := table.Format(row[key]); v != "" {
			s.ByStatus[v]++
		}
	}
	return s
}
