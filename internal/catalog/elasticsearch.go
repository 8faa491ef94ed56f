package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/pruthviraj-chavan/happytools1/internal/domain"
	"github.com/pruthviraj-chavan/happytools1/internal/logger"
)

const (
	defaultWriteTimeout  = 10 * time.Second
	defaultSearchTimeout = 10 * time.Second
	maxBuckets           = 500
)

// ErrIndexNotFound is returned when the catalog index has not been created.
var ErrIndexNotFound = errors.New("catalog index not found")

// ElasticsearchStore keeps one document per tool, addressed by DocumentID.
type ElasticsearchStore struct {
	client *es.Client
	index  string
	log    logger.Logger
}

// NewElasticsearchStore wraps client. Call EnsureIndex before first use.
func NewElasticsearchStore(client *es.Client, index string, log logger.Logger) *ElasticsearchStore {
	if index == "" {
		index = defaultIndex
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &ElasticsearchStore{client: client, index: index, log: log}
}

// EnsureIndex creates the catalog index with its mapping when missing.
func (s *ElasticsearchStore) EnsureIndex(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	res, err := s.client.Indices.Exists([]string{s.index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", s.index, err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, err := json.Marshal(toolMapping)
	if err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}
	res, err = s.client.Indices.Create(s.index,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", s.index, err)
	}
	defer res.Body.Close()

	if res.IsError() && !strings.Contains(readBody(res), "resource_already_exists_exception") {
		return fmt.Errorf("create index %s: %s", s.index, res.Status())
	}

	s.log.Info("Created catalog index", logger.String("index", s.index))
	return nil
}

func (s *ElasticsearchStore) FindOne(ctx context.Context, key domain.IdentityKey) (*domain.Tool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultSearchTimeout)
	defer cancel()

	res, err := s.client.Get(s.index, DocumentID(key), s.client.Get.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if res.IsError() {
		return nil, fmt.Errorf("get %s: %s", key, res.Status())
	}

	var doc struct {
		Source domain.Tool `json:"_source"`
	}
	if err = json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &doc.Source, nil
}

func (s *ElasticsearchStore) Insert(ctx context.Context, tool *domain.Tool) error {
	body, err := json.Marshal(tool)
	if err != nil {
		return fmt.Errorf("encode tool: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	res, err := s.client.Create(s.index, DocumentID(tool.Identity()), bytes.NewReader(body),
		s.client.Create.WithContext(ctx),
		s.client.Create.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("insert %s: %w", tool.Identity(), err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusConflict {
		return domain.ErrConflict
	}
	if res.IsError() {
		return fmt.Errorf("insert %s: %s: %s", tool.Identity(), res.Status(), readBody(res))
	}
	return nil
}

func (s *ElasticsearchStore) Update(ctx context.Context, tool *domain.Tool) error {
	body, err := json.Marshal(tool)
	if err != nil {
		return fmt.Errorf("encode tool: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	res, err := s.client.Index(s.index, bytes.NewReader(body),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(DocumentID(tool.Identity())),
		s.client.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", tool.Identity(), err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("update %s: %s: %s", tool.Identity(), res.Status(), readBody(res))
	}
	return nil
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source domain.Tool `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]struct {
		Buckets []struct {
			Key      string `json:"key"`
			DocCount int64  `json:"doc_count"`
		} `json:"buckets"`
	} `json:"aggregations"`
}

func (s *ElasticsearchStore) Find(ctx context.Context, q Query) (*Page, error) {
	q = q.WithDefaults()

	body := map[string]any{
		"query":            buildQuery(q),
		"sort":             sortClause(q.Sort),
		"from":             q.Offset(),
		"size":             q.Limit,
		"track_total_hits": true,
	}
	resp, err := s.search(ctx, body)
	if err != nil {
		return nil, err
	}

	page := &Page{Total: resp.Hits.Total.Value, Page: q.Page, Limit: q.Limit, Tools: make([]*domain.Tool, 0, len(resp.Hits.Hits))}
	for i := range resp.Hits.Hits {
		page.Tools = append(page.Tools, &resp.Hits.Hits[i].Source)
	}
	return page, nil
}

func (s *ElasticsearchStore) Distinct(ctx context.Context, field Field) ([]string, error) {
	buckets, err := s.Aggregate(ctx, field)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, b.Key)
	}
	return out, nil
}

func (s *ElasticsearchStore) Aggregate(ctx context.Context, field Field) ([]Bucket, error) {
	body := map[string]any{
		"size": 0,
		"aggs": map[string]any{
			"groups": map[string]any{
				"terms": map[string]any{"field": string(field), "size": maxBuckets},
			},
		},
	}
	resp, err := s.search(ctx, body)
	if err != nil {
		return nil, err
	}

	groups := resp.Aggregations["groups"]
	out := make([]Bucket, 0, len(groups.Buckets))
	for _, b := range groups.Buckets {
		out = append(out, Bucket{Key: b.Key, Count: b.DocCount})
	}
	return out, nil
}

func (s *ElasticsearchStore) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultSearchTimeout)
	defer cancel()

	res, err := s.client.Count(s.client.Count.WithContext(ctx), s.client.Count.WithIndex(s.index))
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	defer res.Body.Close()

	if err = checkSearchResponse(res, s.index); err != nil {
		return 0, err
	}

	var out struct {
		Count int64 `json:"count"`
	}
	if err = json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode count: %w", err)
	}
	return out.Count, nil
}

func (s *ElasticsearchStore) search(ctx context.Context, body map[string]any) (*searchResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode search: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultSearchTimeout)
	defer cancel()

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()

	if err = checkSearchResponse(res, s.index); err != nil {
		return nil, err
	}

	var out searchResponse
	if err = json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode search: %w", err)
	}
	return &out, nil
}

func checkSearchResponse(res *esapi.Response, index string) error {
	if res.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrIndexNotFound, index)
	}
	if res.IsError() {
		return fmt.Errorf("search %s: %s: %s", index, res.Status(), readBody(res))
	}
	return nil
}

func buildQuery(q Query) map[string]any {
	var filters []any
	if q.Category != "" {
		filters = append(filters, map[string]any{"term": map[string]any{
			"category": map[string]any{"value": q.Category, "case_insensitive": true},
		}})
	}
	if q.Source != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"source": q.Source}})
	}

	boolQuery := map[string]any{}
	if len(filters) > 0 {
		boolQuery["filter"] = filters
	}
	if term := strings.TrimSpace(q.Search); term != "" {
		should := []any{
			map[string]any{"multi_match": map[string]any{
				"query":  term,
				"type":   "phrase_prefix",
				"fields": []string{"name^3", "tagline", "description"},
			}},
		}
		pattern := "*" + escapeWildcard(term) + "*"
		for _, field := range substringFields {
			should = append(should, map[string]any{"wildcard": map[string]any{
				field: map[string]any{"value": pattern, "case_insensitive": true},
			}})
		}
		boolQuery["should"] = should
		boolQuery["minimum_should_match"] = 1
	}
	if len(boolQuery) == 0 {
		return map[string]any{"match_all": map[string]any{}}
	}
	return map[string]any{"bool": boolQuery}
}

func sortClause(sort SortField) []any {
	desc := func(field string) map[string]any {
		return map[string]any{field: map[string]any{"order": "desc"}}
	}
	switch sort {
	case SortVotes:
		return []any{desc("votes")}
	case SortName:
		return []any{map[string]any{"name.keyword": map[string]any{"order": "asc"}}}
	case SortRating:
		return []any{desc("rating")}
	case SortTrending:
		return []any{desc("trending_score"), desc("votes")}
	default:
		return []any{desc("featured_at")}
	}
}

// substringFields back case-insensitive substring search on name, tagline and description.
var substringFields = []string{"name.keyword", "tagline.wildcard", "description.wildcard"}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func escapeWildcard(s string) string {
	return wildcardEscaper.Replace(s)
}

func readBody(res *esapi.Response) string {
	b, err := io.ReadAll(io.LimitReader(res.Body, 4096))
	if err != nil {
		return ""
	}
	return string(b)
}
