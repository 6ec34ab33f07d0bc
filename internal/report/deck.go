package report

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/reportloom-cli/internal/chart"
	"github.com/KaramelBytes/reportloom-cli/internal/utils"
)

// WriteDeck assembles the document into a self-contained HTML slide deck
// at dir/<name>.html. Chart images are inlined as data URIs so the file
// can be mailed or moved on its own.
func WriteDeck(doc Document, dir, name string) (string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("ensure reports dir: %w", err)
	}

	data := deckData{
		Meta: doc.Meta,
		Date: time.Now().Format("January 2, 2006"),
		Rows: doc.Summary.Rows,
		Cols: len(doc.Summary.Columns),
	}
	for _, col := range doc.Summary.NumericOrder {
		st := doc.Summary.Numeric[col]
		data.Stats = append(data.Stats, deckStat{
			Column: chart.Humanize(col),
			Sum:    formatStat(st.Sum),
			Mean:   formatStat(st.Mean),
			Max:    formatStat(st.Max),
			Min:    formatStat(st.Min),
		})
	}
	for _, art := range doc.Charts {
		uri, err := imageDataURI(art.Path)
		if err != nil {
			return "", fmt.Errorf("inline chart %s: %w", art.Path, err)
		}
		data.Slides = append(data.Slides, deckSlide{
			Title:       art.Title,
			Image:       uri,
			Description: art.Description,
		})
	}

	var b strings.Builder
	if err := deckTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render deck: %w", err)
	}
	path := filepath.Join(dir, name+".html")
	if err := utils.SafeWriteFile(path, []byte(b.String())); err != nil {
		return "", fmt.Errorf("write deck: %w", err)
	}
	return path, nil
}

type deckData struct {
	Meta   Meta
	Date   string
	Rows   int
	Cols   int
	Stats  []deckStat
	Slides []deckSlide
}

type deckStat struct {
	Column, Sum, Mean, Max, Min string
}

type deckSlide struct {
	Title       string
	Image       template.URL
	Description string
}

func imageDataURI(path string) (template.URL, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(b)), nil
}

var deckTmpl = template.Must(template.New("deck").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Meta.Title}}</title>
<style>
  body { margin: 0; font-family: "Segoe UI", Helvetica, Arial, sans-serif; background: #f4f4f4; }
  .slide { box-sizing: border-box; width: 960px; min-height: 540px; margin: 24px auto;
           padding: 48px 64px; background: #fff; box-shadow: 0 2px 8px rgba(0,0,0,.15); }
  .slide.title { display: flex; flex-direction: column; justify-content: center; text-align: center; }
  h1 { font-size: 40px; color: #1f3864; margin: 0 0 12px; }
  h2 { font-size: 28px; color: #1f3864; border-bottom: 3px solid #4472c4; padding-bottom: 8px; }
  .meta { color: #666; font-size: 18px; }
  table { border-collapse: collapse; width: 100%; font-size: 15px; }
  th { background: #4472c4; color: #fff; padding: 8px 12px; text-align: left; }
  td { border: 1px solid #d0d7e5; padding: 6px 12px; }
  td.num { text-align: right; }
  tr:nth-child(even) td { background: #edf1f9; }
  img { max-width: 100%; }
  .desc { color: #555; font-size: 15px; }
</style>
</head>
<body>
<section class="slide title">
  <h1>{{.Meta.Title}}</h1>
  {{if .Meta.Company}}<p class="meta">{{.Meta.Company}}</p>{{end}}
  <p class="meta">Prepared by {{.Meta.Author}}</p>
  <p class="meta">{{.Date}}</p>
</section>
<section class="slide">
  <h2>Data Summary</h2>
  <p>{{.Rows}} rows across {{.Cols}} columns.</p>
  {{if .Stats}}
  <table>
    <tr><th>Column</th><th>Sum</th><th>Mean</th><th>Max</th><th>Min</th></tr>
    {{range .Stats}}
    <tr><td>{{.Column}}</td><td class="num">{{.Sum}}</td><td class="num">{{.Mean}}</td><td class="num">{{.Max}}</td><td class="num">{{.Min}}</td></tr>
    {{end}}
  </table>
  {{else}}<p class="desc">No numeric columns detected.</p>{{end}}
</section>
{{range .Slides}}
<section class="slide">
  <h2>{{.Title}}</h2>
  <img src="{{.Image}}" alt="{{.Title}}">
  {{if .Description}}<p class="desc">{{.Description}}</p>{{end}}
</section>
{{end}}
</body>
</html>
`))
