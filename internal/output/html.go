package output

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"sync"

	"github.com/vijay-prabhu/gcgcards/internal/card"
	"github.com/vijay-prabhu/gcgcards/internal/lookup"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// DocumentTitle is the heading of rendered pages
const DocumentTitle = "Gundam GCG 卡片查詢"

// Page is the data for the "document" template and, through embedding,
// for pages that include the "cards" template.
type Page struct {
	Title    string
	Criteria string
	Status   *lookup.Status
	Cards    []CardView

	// AdjustAction is the form action of the per-card adjustment form.
	// Empty hides the form (static documents).
	AdjustAction string
	ReturnQuery  string
}

// Labels returns the captions used by the templates
func (Page) Labels() Labels {
	return labels
}

// Templates parses a fresh copy of the card templates ("assets", "cards",
// "document"). Callers may add their own templates to the returned set.
func Templates() (*template.Template, error) {
	t, err := template.New("gcgcards").ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return t, nil
}

var (
	documentOnce sync.Once
	documentTmpl *template.Template
	documentErr  error
)

// HTML renders page as a standalone HTML document
func HTML(w io.Writer, page Page) error {
	documentOnce.Do(func() {
		documentTmpl, documentErr = Templates()
	})
	if documentErr != nil {
		return documentErr
	}
	if page.Title == "" {
		page.Title = DocumentTitle
	}
	return documentTmpl.ExecuteTemplate(w, "document", page)
}

// HTMLCards renders cards as a standalone HTML document
func HTMLCards(w io.Writer, cards []card.Card, opts Options, criteria string, status *lookup.Status) error {
	return HTML(w, Page{
		Criteria: criteria,
		Status:   status,
		Cards:    NewCardViews(cards, opts),
	})
}
