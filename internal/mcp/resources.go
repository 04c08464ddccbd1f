package mcp

// Resource defines an MCP resource
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// Resource URIs
const (
	ResourceRubric  = "gcgcards://rubric"
	ResourceJournal = "gcgcards://journal"
)

// ResourceDefinitions lists all available resources
var ResourceDefinitions = []Resource{
	{
		URI:         ResourceRubric,
		Name:        "Scoring Rubric",
		Description: "Per-cost AP+HP and level standards and the fixed score adjustments",
		MimeType:    "text/plain",
	},
	{
		URI:         ResourceJournal,
		Name:        "Adjustment Journal",
		Description: "Summary and latest weighted-adjustment save attempts",
		MimeType:    "text/plain",
	},
}

// resources lists the definitions available on this server
func (s *Server) resources() []Resource {
	if s.journal != nil {
		return ResourceDefinitions
	}
	var out []Resource
	for _, r := range ResourceDefinitions {
		if r.URI != ResourceJournal {
			out = append(out, r)
		}
	}
	return out
}

// resourcesListResult is the response for resources/list
type resourcesListResult struct {
	Resources []Resource `json:"resources"`
}

// readResourceParams is the params for resources/read
type readResourceParams struct {
	URI string `json:"uri"`
}

// readResourceResult is the response for resources/read
type readResourceResult struct {
	Contents []resourceContent `json:"contents"`
}

type resourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
}
