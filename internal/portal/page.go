package portal

import (
	"fmt"
	"html/template"

	"github.com/Masterminds/sprig/v3"

	"devportal/internal/links"
	"devportal/internal/theme"
)

const defaultTitle = "Internal Developer Platform"

const landingTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{ .Title | default "` + defaultTitle + `" }}</title>
<style>{{ .Styles }}</style>
</head>
<body>
<header class="page-header">
<img src="` + assetPrefix + `backstage-icon-color.png" alt="Company Logo">
<h1>{{ .Title | default "` + defaultTitle + `" }}</h1>
</header>
<main>
<form class="search" action="/search" method="get"><input type="search" name="query" placeholder="Search" value="{{ .Query }}"></form>
<section class="toolkit">
<h2>Quick Links</h2>
{{- if and .Query (not .Links) }}
<p class="empty">No quick links match "{{ .Query }}".</p>
{{- end }}
<ul>
{{- range .Links }}
<li class="tool tool-{{ .Label | lower | replace " " "-" }}"><a href="{{ .URL }}">{{ if hasPrefix "/" .IconRef }}<img src="{{ .IconRef }}" alt="{{ .Label }}" width="24" height="24">{{ end }}<span>{{ .Label }}</span></a></li>
{{- end }}
</ul>
</section>
</main>
</body>
</html>
`

type landingView struct {
	Title  string
	Query  string
	Styles template.CSS
	Links  []links.ToolLink
}

func newLandingView(title, query string, th theme.Theme, resolved []links.ToolLink) landingView {
	header := th.Descriptor(theme.CategoryHome)
	p := th.Palette
	styles := fmt.Sprintf(
		"body{margin:0;background:%s;color:%s;font-family:sans-serif}"+
			".page-header{display:flex;align-items:center;justify-content:center;height:92px;background-image:%s;color:%s}"+
			".page-header img{height:64px;margin-right:16px}"+
			".search input{display:block;max-width:60vw;margin:24px auto;padding:8px 16px;border-radius:50px;background:%s}"+
			".toolkit a{color:%s;text-decoration:none}.toolkit a:hover{background:%s}",
		p.Background.Default, p.Banner.Text,
		header.BackgroundImage, header.FontColor,
		p.Background.Paper,
		p.Navigation.Color, p.Navigation.NavItem.HoverBackground,
	)
	return landingView{Title: title, Query: query, Styles: template.CSS(styles), Links: resolved}
}

func parseLandingPage() (*template.Template, error) {
	page, err := template.New("landing").Funcs(sprig.FuncMap()).Parse(landingTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse landing template: %w", err)
	}
	return page, nil
}
