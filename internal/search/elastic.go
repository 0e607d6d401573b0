package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/marlanuera/CA1-Code/internal/models"
)

type ESConfig struct {
	URL      string
	User     string
	Password string
	Index    string
}

type ESSearcher struct {
	es    *elasticsearch.Client
	index string
}

// NewESSearcher connects and checks the cluster answers.
func NewESSearcher(cfg ESConfig) (*ESSearcher, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: new client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch: info: %s: %s", res.Status(), body)
	}

	return &ESSearcher{es: client, index: cfg.Index}, nil
}

func (s *ESSearcher) Search(ctx context.Context, q string, limit int) ([]models.Product, error) {
	q = sanitizeQuery(q)
	if q == "" {
		return []models.Product{}, nil
	}

	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"productName^2", "category"},
				"fuzziness": "AUTO",
			},
		},
		"size": clampLimit(limit),
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("elasticsearch: encode query: %w", err)
	}

	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(s.index),
		s.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch: search: %s", res.Status())
	}

	return decodeHits(res.Body)
}

func decodeHits(r io.Reader) ([]models.Product, error) {
	var out struct {
		Hits struct {
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("elasticsearch: decode hits: %w", err)
	}

	prods := make([]models.Product, len(out.Hits.Hits))
	for i, hit := range out.Hits.Hits {
		prods[i] = hit.Source
	}
	return prods, nil
}

func (s *ESSearcher) Index(ctx context.Context, p models.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("elasticsearch: encode product: %w", err)
	}
	res, err := s.es.Index(s.index, bytes.NewReader(data),
		s.es.Index.WithContext(ctx),
		s.es.Index.WithDocumentID(strconv.FormatUint(uint64(p.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: index %d: %w", p.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch: index %d: %s", p.ID, res.Status())
	}
	return nil
}

func (s *ESSearcher) Remove(ctx context.Context, id uint) error {
	res, err := s.es.Delete(s.index, strconv.FormatUint(uint64(id), 10), s.es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch: delete %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("elasticsearch: delete %d: %s", id, res.Status())
	}
	return nil
}
