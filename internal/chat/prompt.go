package chat

import (
	"strings"
	"text/template"

	"github.com/DoyleJ11/portfolio-backend/internal/catalog"
	"github.com/DoyleJ11/portfolio-backend/internal/projects"
	"github.com/DoyleJ11/portfolio-backend/internal/resume"
)

var promptTmpl = template.Must(template.New("prompt").Funcs(template.FuncMap{
	"join":  strings.Join,
	"upper": strings.ToUpper,
}).Parse(`You are the AI assistant on this portfolio website. You help visitors learn about its owner.
{{range .Catalogs}}
{{.Name | upper}}:
{{- range .Items}}
- {{.Label}}{{if .SubItems}}: {{join .SubItems ", "}}{{end}}
{{- end}}
{{end}}
ROLES:
{{- range .Roles}}
- {{.Label}}: {{.Summary}}
{{- end}}

PROJECTS:
{{- range .Projects}}
- {{.Title}} ({{.Period}}): {{.Description}} Tech: {{join .Tech ", "}}
{{- end}}

Keep responses concise, friendly, and professional. Guide users to explore the portfolio sections when relevant.
`))

type promptRole struct {
	Label   string
	Summary string
}

// BuildPrompt renders the system prompt from the catalogs, resume content and projects.
func BuildPrompt(set *catalog.Set) (string, error) {
	data := struct {
		Catalogs []catalog.Catalog
		Roles    []promptRole
		Projects []projects.Project
	}{Projects: projects.All()}
	for _, name := range set.Names() {
		c, err := set.Get(name)
		if err != nil {
			return "", err
		}
		data.Catalogs = append(data.Catalogs, c)
	}
	for _, r := range resume.Roles() {
		c, _ := resume.Lookup(r.RoleID)
		data.Roles = append(data.Roles, promptRole{Label: r.Label, Summary: c.Summary})
	}

	var b strings.Builder
	if err := promptTmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
