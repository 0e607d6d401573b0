package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/marlanuera/CA1-Code/internal/events"
	"github.com/marlanuera/CA1-Code/internal/logging"
	"github.com/marlanuera/CA1-Code/internal/models"
	"github.com/marlanuera/CA1-Code/internal/repo"
	"github.com/marlanuera/CA1-Code/internal/search"
	"github.com/marlanuera/CA1-Code/internal/upload"
	"github.com/marlanuera/CA1-Code/internal/util"
)

type ImageStore interface {
	Save(fh *multipart.FileHeader) (string, error)
	Remove(name string) error
}

// ProductInput carries the raw form values of the product editor.
type ProductInput struct {
	ProductName string
	Price       string
	Stock       string
	Category    string
}

func (in ProductInput) parse() (models.Product, error) {
	var p models.Product
	p.ProductName = strings.TrimSpace(in.ProductName)
	p.Category = strings.TrimSpace(in.Category)
	if p.ProductName == "" || p.Category == "" {
		return p, fmt.Errorf("%w: name and category are required", ErrValidation)
	}

	price, err := decimal.NewFromString(strings.TrimSpace(in.Price))
	if err != nil || price.IsNegative() {
		return p, fmt.Errorf("%w: price must be a non-negative number", ErrValidation)
	}
	p.Price = price.Round(2)

	stock, err := strconv.Atoi(strings.TrimSpace(in.Stock))
	if err != nil || stock < 0 {
		return p, fmt.Errorf("%w: stock must be a non-negative integer", ErrValidation)
	}
	p.Stock = stock
	return p, nil
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Search search.Searcher
	Events events.Publisher
	Images ImageStore
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	items, err := s.Repo.ListProducts(ctx)
	if err != nil {
		return nil, dbErr("list products", err)
	}
	return items, nil
}

// InventoryPageSize is the number of rows on one inventory page.
const InventoryPageSize = 25

// ListProductsPage returns one page of products ordered by id.
func (s *CatalogService) ListProductsPage(ctx context.Context, page int) ([]models.Product, util.Page, error) {
	from, limit := util.Calculate(page, InventoryPageSize)
	total, items, err := s.Repo.ListProductsPage(ctx, from, limit)
	if err != nil {
		return nil, util.Page{}, dbErr("list products page", err)
	}
	pg := util.NewPage(page, InventoryPageSize, total)
	if total > 0 && int64(from) >= total {
		from, limit = util.Calculate(pg.Number, InventoryPageSize)
		if _, items, err = s.Repo.ListProductsPage(ctx, from, limit); err != nil {
			return nil, util.Page{}, dbErr("list products page", err)
		}
	}
	return items, pg, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFoundOr("get product", err, ErrProductNotFound)
	}
	return p, nil
}

func (s *CatalogService) saveImage(image *multipart.FileHeader) (string, error) {
	if image == nil || s.Images == nil {
		return "", nil
	}
	name, err := s.Images.Save(image)
	if err != nil {
		if errors.Is(err, upload.ErrUnsupportedType) || errors.Is(err, upload.ErrTooLarge) {
			return "", fmt.Errorf("%w: %w", ErrValidation, err)
		}
		return "", fmt.Errorf("save image: %w", err)
	}
	return name, nil
}

func (s *CatalogService) dropImage(ctx context.Context, name string) {
	if name == "" || s.Images == nil {
		return
	}
	if err := s.Images.Remove(name); err != nil {
		logging.FromContext(ctx).Warn("image_remove_failed", "image", name, "error", err)
	}
}

func (s *CatalogService) index(ctx context.Context, p models.Product) {
	if s.Search == nil {
		return
	}
	if err := s.Search.Index(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "product_id", p.ID, "error", err)
	}
}

func idKey(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput, image *multipart.FileHeader) (*models.Product, error) {
	p, err := in.parse()
	if err != nil {
		return nil, err
	}

	p.Image, err = s.saveImage(image)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.CreateProduct(ctx, &p); err != nil {
		s.dropImage(ctx, p.Image)
		return nil, dbErr("create product", err)
	}

	s.index(ctx, p)
	events.Emit(ctx, s.Events, events.TopicProduct, events.New("product_created", idKey(p.ID), p))
	return &p, nil
}

// UpdateProduct keeps the current image unless a new one is uploaded.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, in ProductInput, image *multipart.FileHeader) (*models.Product, error) {
	current, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	p, err := in.parse()
	if err != nil {
		return nil, err
	}
	p.ID = id
	p.Image = current.Image

	newImage, err := s.saveImage(image)
	if err != nil {
		return nil, err
	}
	if newImage != "" {
		p.Image = newImage
	}

	if err := s.Repo.UpdateProduct(ctx, &p); err != nil {
		s.dropImage(ctx, newImage)
		return nil, notFoundOr("update product", err, ErrProductNotFound)
	}
	if newImage != "" {
		s.dropImage(ctx, current.Image)
	}

	s.index(ctx, p)
	events.Emit(ctx, s.Events, events.TopicProduct, events.New("product_updated", idKey(p.ID), p))
	return &p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	current, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return notFoundOr("delete product", err, ErrProductNotFound)
	}

	s.dropImage(ctx, current.Image)
	if s.Search != nil {
		if err := s.Search.Remove(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_remove_failed", "product_id", id, "error", err)
		}
	}
	events.Emit(ctx, s.Events, events.TopicProduct, events.New("product_deleted", idKey(id), map[string]any{"id": id}))
	return nil
}

// SearchProducts returns fresh rows for the searcher's hits, in hit order.
func (s *CatalogService) SearchProducts(ctx context.Context, q string) ([]models.Product, error) {
	hits, err := s.Search.Search(ctx, q, search.DefaultLimit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	ids := make([]uint, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.ID)
	}
	rows, err := s.Repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, dbErr("load search hits", err)
	}

	byID := make(map[uint]models.Product, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// Reindex pushes every product to the searcher.
func (s *CatalogService) Reindex(ctx context.Context) error {
	items, err := s.ListProducts(ctx)
	if err != nil {
		return err
	}
	for _, p := range items {
		if err := s.Search.Index(ctx, p); err != nil {
			return fmt.Errorf("reindex %d: %w", p.ID, err)
		}
	}
	return nil
}
