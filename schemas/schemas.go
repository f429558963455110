// Package schemas embeds the JSON Schemas of the REST request bodies.
package schemas

import "embed"

// FS holds every *.schema.json file of this directory.
//
//go:embed *.schema.json
var FS embed.FS

// Login is the schema of POST /api/auth/login bodies.
const Login = "login.schema.json"

var files = map[string]string{
	"requirements": "requirement.schema.json",
	"submissions":  "submission.schema.json",
	"interviews":   "interview.schema.json",
	"employees":    "employee.schema.json",
	"clients":      "client.schema.json",
	"timesheets":   "timesheet.schema.json",
}

// FileFor returns the schema file of a resource, or "" when it has none.
func FileFor(resource string) string {
	return files[resource]
}

// Files lists every schema file name.
func Files() []string {
	out := make([]string, 0, len(files)+1)
	for _, f := range files {
		out = append(out, f)
	}
	return append(out, Login)
}
