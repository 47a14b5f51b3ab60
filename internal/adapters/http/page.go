package httpadapter

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/kirillkom/fake-news-detector/internal/core/domain"
)

const (
	bannerReal          = "This news appears to be REAL."
	bannerFake          = "This news appears to be FAKE."
	emptyContentWarning = "Please provide some news content to analyze."
)

//go:embed templates/index.html
var templatesFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

type pageData struct {
	Mode     string
	Title    string
	Body     string
	Filename string
	Accept   string
	Notice   string
	Warning  string
	Error    string
	Result   *resultView
}

type resultView struct {
	Real           bool
	Banner         string
	AnalyzedText   string
	NormalizedText string
	Score          string
}

func newResultView(a *domain.Analysis) *resultView {
	banner := bannerFake
	if a.Verdict == domain.VerdictReal {
		banner = bannerReal
	}
	return &resultView{
		Real:           a.Verdict == domain.VerdictReal,
		Banner:         banner,
		AnalyzedText:   a.AnalyzedText,
		NormalizedText: a.NormalizedText,
		Score:          strconv.FormatFloat(a.Score, 'f', 4, 64),
	}
}

type pageRenderer struct {
	tmpl   *template.Template
	accept string
	logger *slog.Logger
}

func newPageRenderer(logger *slog.Logger) *pageRenderer {
	return &pageRenderer{
		tmpl:   indexTmpl,
		accept: strings.Join(acceptedExtensions(), ","),
		logger: logger,
	}
}

// render executes the page into memory first so template failures still
// produce a clean 500.
func (p *pageRenderer) render(w http.ResponseWriter, status int, data pageData) {
	data.Accept = p.accept

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		p.logger.Error("page_render_failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func acceptedExtensions() []string {
	formats := domain.SupportedFormats()
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		out = append(out, "."+string(f))
	}
	return out
}
