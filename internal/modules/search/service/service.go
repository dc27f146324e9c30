package service

import (
	"anoa.com/sanggarseni/internal/entity"
	"anoa.com/sanggarseni/pkg/logger"
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"
)

// SearchService mirrors content into Meilisearch so discovery surfaces can
// query it. Indexing failures are logged, never surfaced: search lag is
// preferable to failing the write path.
type SearchService interface {
	IndexPost(post *entity.Post) error
	IndexGallery(gallery *entity.Gallery) error
	DeletePost(id string) error
	DeleteGallery(id string) error
}

type meiliPostDoc struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	PostType  string `json:"post_type"`
	AuthorID  string `json:"author_id"`
	CreatedAt int64  `json:"created_at"`
}

type meiliGalleryDoc struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	AuthorID    string `json:"author_id"`
	CreatedAt   int64  `json:"created_at"`
}

type searchService struct {
	client meilisearch.ServiceManager
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{client: client}
	s.initIndexes()
	return s
}

func (s *searchService) initIndexes() {
	postFilterable := []string{"post_type", "author_id"}
	postFilterableInterface := make([]any, len(postFilterable))
	for i, v := range postFilterable {
		postFilterableInterface[i] = v
	}
	if _, err := s.client.Index("posts").UpdateFilterableAttributes(&postFilterableInterface); err != nil {
		logger.L().Warn("failed to update posts filterable attributes", zap.Error(err))
	}

	postSortable := []string{"created_at"}
	if _, err := s.client.Index("posts").UpdateSortableAttributes(&postSortable); err != nil {
		logger.L().Warn("failed to update posts sortable attributes", zap.Error(err))
	}

	gallerySortable := []string{"created_at"}
	if _, err := s.client.Index("galleries").UpdateSortableAttributes(&gallerySortable); err != nil {
		logger.L().Warn("failed to update galleries sortable attributes", zap.Error(err))
	}
}

func (s *searchService) IndexPost(post *entity.Post) error {
	doc := meiliPostDoc{
		ID:        post.ID.String(),
		Title:     post.Title,
		Content:   post.Content,
		PostType:  post.PostType,
		AuthorID:  post.AuthorID.String(),
		CreatedAt: post.CreatedAt.Unix(),
	}

	_, err := s.client.Index("posts").AddDocuments([]meiliPostDoc{doc}, strPtr("id"))
	if err != nil {
		logger.L().Warn("failed to index post", zap.String("post_id", doc.ID), zap.Error(err))
	}
	return err
}

func (s *searchService) IndexGallery(gallery *entity.Gallery) error {
	doc := meiliGalleryDoc{
		ID:          gallery.ID.String(),
		Title:       gallery.Title,
		Description: gallery.Description,
		AuthorID:    gallery.AuthorID.String(),
		CreatedAt:   gallery.CreatedAt.Unix(),
	}

	_, err := s.client.Index("galleries").AddDocuments([]meiliGalleryDoc{doc}, strPtr("id"))
	if err != nil {
		logger.L().Warn("failed to index gallery", zap.String("gallery_id", doc.ID), zap.Error(err))
	}
	return err
}

func (s *searchService) DeletePost(id string) error {
	_, err := s.client.Index("posts").DeleteDocument(id)
	if err != nil {
		logger.L().Warn("failed to delete post from index", zap.String("post_id", id), zap.Error(err))
	}
	return err
}

func (s *searchService) DeleteGallery(id string) error {
	_, err := s.client.Index("galleries").DeleteDocument(id)
	if err != nil {
		logger.L().Warn("failed to delete gallery from index", zap.String("gallery_id", id), zap.Error(err))
	}
	return err
}

func strPtr(s string) *string {
	return &s
}
