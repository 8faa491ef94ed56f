package catalog

// toolMapping is the index definition for catalog documents.
var toolMapping = map[string]any{
	"settings": map[string]any{
		"number_of_shards":   1,
		"number_of_replicas": 0,
	},
	"mappings": map[string]any{
		"dynamic": "strict",
		"properties": map[string]any{
			"id":    keyword(),
			"ph_id": keyword(),
			"name": map[string]any{
				"type":   "text",
				"fields": map[string]any{"keyword": keyword()},
			},
			"tagline":        searchableText(),
			"description":    searchableText(),
			"url":            map[string]any{"type": "keyword", "index": false},
			"website":        map[string]any{"type": "keyword", "index": false},
			"category":       keyword(),
			"pricing":        keyword(),
			"rating":         map[string]any{"type": "float"},
			"votes":          map[string]any{"type": "integer"},
			"makers":         keyword(),
			"topics":         keyword(),
			"source":         keyword(),
			"trending_score": map[string]any{"type": "integer"},
			"featured_at":    date(),
			"created_at":     date(),
			"updated_at":     date(),
		},
	},
}

func keyword() map[string]any { return map[string]any{"type": "keyword"} }
func date() map[string]any    { return map[string]any{"type": "date"} }

// searchableText is analyzed text with a wildcard subfield for substring search.
func searchableText() map[string]any {
	return map[string]any{
		"type":   "text",
		"fields": map[string]any{"wildcard": map[string]any{"type": "wildcard"}},
	}
}
