package http

import (
	"net/http"

	"summary-lab/internal/handler/http/respond"
)

// ModelsHandler serves the model options for the UI selector.
type ModelsHandler struct {
	// Default is the model used when a request names none.
	Default string

	// Names lists the selectable models in display order. The default is
	// included even when absent from the list.
	Names []string
}

// ServeHTTP returns the model options, default first, duplicates removed.
func (h ModelsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	options := make([]ModelOption, 0, len(h.Names)+1)
	seen := make(map[string]bool, len(h.Names)+1)

	if h.Default != "" {
		options = append(options, ModelOption{Name: h.Default, Default: true})
		seen[h.Default] = true
	}
	for _, name := range h.Names {
		if seen[name] {
			continue
		}
		options = append(options, ModelOption{Name: name})
		seen[name] = true
	}

	respond.JSON(w, http.StatusOK, ModelsResponse{Models: options})
}
