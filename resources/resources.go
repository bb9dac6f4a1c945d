// Package resources 内嵌的页面模板
package resources

import (
	"embed"
	"html/template"
	"strings"
)

//go:embed views/*.html
var views embed.FS

// Templates 解析全部页面模板
func Templates() *template.Template {
	funcs := template.FuncMap{
		"join": strings.Join,
		"first": func(values []string) string {
			if len(values) == 0 {
				return ""
			}
			return values[0]
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(views, "views/*.html"))
}
