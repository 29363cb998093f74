// Package printer is the storage collaborator for derived resume documents:
// it renders printable and preview artifacts into the object store and
// removes them when a resume is deleted.
package printer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"path"
	"strings"

	"resume-vault/internal/resumes"
	"resume-vault/internal/shared/storage/object"
	"resume-vault/internal/shared/util"
)

// Printer renders resume artifacts into an ObjectStore and addresses them
// under a public base URL.
type Printer struct {
	Store   object.ObjectStore
	BaseURL string
}

// New constructs a Printer.
func New(store object.ObjectStore, baseURL string) *Printer {
	return &Printer{Store: store, BaseURL: baseURL}
}

// RenderPrintable renders the print artifact and returns its URL.
func (p *Printer) RenderPrintable(ctx context.Context, r resumes.Resume) (string, error) {
	return p.render(ctx, r, resumes.ArtifactPrintable)
}

// RenderPreview renders the preview artifact and returns its URL.
func (p *Printer) RenderPreview(ctx context.Context, r resumes.Resume) (string, error) {
	return p.render(ctx, r, resumes.ArtifactPreview)
}

// Delete removes one artifact kind for a resume.
func (p *Printer) Delete(ctx context.Context, userID, kind, resumeID string) error {
	return p.Store.Delete(ctx, artifactKey(userID, kind, resumeID))
}

func (p *Printer) render(ctx context.Context, r resumes.Resume, kind string) (string, error) {
	html, err := renderHTML(r)
	if err != nil {
		return "", fmt.Errorf("render %s artifact id=%s: %w", kind, r.ID, err)
	}

	key := artifactKey(r.UserID, kind, r.ID)
	if _, err := p.Store.SaveWithKey(ctx, key, "text/html; charset=utf-8", bytes.NewReader(html)); err != nil {
		return "", fmt.Errorf("store %s artifact id=%s: %w", kind, r.ID, err)
	}
	return p.artifactURL(key), nil
}

func (p *Printer) artifactURL(key string) string {
	base := strings.TrimRight(p.BaseURL, "/")
	return base + "/artifacts/" + key
}

// artifactKey namespaces artifacts per user the same way uploaded objects
// are namespaced.
func artifactKey(userID, kind, resumeID string) string {
	return path.Join(util.HashUserKey(userID), kind, resumeID+".html")
}

var pageTemplate = template.Must(template.New("resume").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Name}}<p class="name">{{.Name}}</p>{{end}}
{{if .Email}}<p class="email">{{.Email}}</p>{{end}}
{{if .Summary}}<div class="summary"><p>{{.Summary}}</p></div>{{end}}
<pre class="data">{{.Data}}</pre>
</body>
</html>
`))

type pageModel struct {
	Title   string
	Name    string
	Email   string
	Summary string
	Data    string
}

func renderHTML(r resumes.Resume) ([]byte, error) {
	model := pageModel{Title: r.Title}

	var payload struct {
		Basics struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"basics"`
		Sections struct {
			Summary struct {
				Content string `json:"content"`
			} `json:"summary"`
		} `json:"sections"`
	}
	if err := json.Unmarshal(r.Data, &payload); err == nil {
		model.Name = payload.Basics.Name
		model.Email = payload.Basics.Email
		model.Summary = payload.Sections.Summary.Content
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, r.Data, "", "  "); err != nil {
		pretty.Write(r.Data)
	}
	model.Data = pretty.String()

	var out bytes.Buffer
	if err := pageTemplate.Execute(&out, model); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
