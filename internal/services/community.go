package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/shikhonhub/shikhon-backend/internal/data/binding"
	"github.com/shikhonhub/shikhon-backend/internal/data/repos"
	types "github.com/shikhonhub/shikhon-backend/internal/domain"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
	"github.com/shikhonhub/shikhon-backend/internal/requestdata"
	"github.com/shikhonhub/shikhon-backend/internal/views"
)

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type PostInput struct {
	CategoryID uuid.UUID          `json:"category_id"`
	Title      string             `json:"title"`
	Content    string             `json:"content"`
	ImageURL   string             `json:"image_url"`
	Files      []types.Attachment `json:"files"`
}

type CommentInput struct {
	Content string `json:"content"`
}

type CommunityService interface {
	ListCategories(ctx context.Context) ([]types.Category, error)
	CreateCategory(ctx context.Context, in CategoryInput) (*types.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, patch map[string]any) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	// ListPosts returns approved posts for students; admins additionally get
	// the pending queue.
	ListPosts(ctx context.Context) (approved, pending []types.Post, err error)
	CreatePost(ctx context.Context, in PostInput) (*types.Post, error)
	ApprovePost(ctx context.Context, postID uuid.UUID) error
	RejectPost(ctx context.Context, postID uuid.UUID) error
	PinPost(ctx context.Context, postID uuid.UUID, pinned bool) error
	DeletePost(ctx context.Context, postID uuid.UUID) error

	ToggleLike(ctx context.Context, postID uuid.UUID) (*types.Post, error)
	AddComment(ctx context.Context, postID uuid.UUID, in CommentInput) (*types.PostComment, error)
	ListComments(ctx context.Context, postID uuid.UUID) ([]*types.PostComment, error)

	WatchPosts(ctx context.Context) (<-chan binding.State[types.Post], func())
}

type communityService struct {
	db         *gorm.DB
	log        *logger.Logger
	categories *binding.Collection[types.Category]
	posts      *binding.Collection[types.Post]
	postRepo   repos.PostRepo
}

func NewCommunityService(db *gorm.DB, bus binding.ChangeBus, log *logger.Logger, postRepo repos.PostRepo) CommunityService {
	serviceLog := log.With("service", "CommunityService")
	return &communityService{
		db:         db,
		log:        serviceLog,
		categories: binding.Bind[types.Category](db, bus, log, "categories", binding.WithOrder("name", true)),
		posts:      binding.Bind[types.Post](db, bus, log, "posts", binding.WithOrder("created_at", false)),
		postRepo:   postRepo,
	}
}

func (cs *communityService) ListCategories(ctx context.Context) ([]types.Category, error) {
	return cs.categories.List(ctx)
}

func (cs *communityService) CreateCategory(ctx context.Context, in CategoryInput) (*types.Category, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}

	category := types.Category{
		Name:        in.Name,
		Description: in.Description,
		Color:       in.Color,
	}
	if _, err := cs.categories.Add(ctx, nil, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (cs *communityService) UpdateCategory(ctx context.Context, id uuid.UUID, patch map[string]any) error {
	return cs.categories.Update(ctx, nil, id, patch)
}

func (cs *communityService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	count, err := cs.postRepo.CountByCategory(ctx, nil, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: category still has %d posts", ErrValidation, count)
	}
	return cs.categories.Remove(ctx, nil, id)
}

func (cs *communityService) ListPosts(ctx context.Context) ([]types.Post, []types.Post, error) {
	all, err := cs.posts.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	approved, pending := views.Partition(all, func(p types.Post) bool { return p.Approved })

	rd := requestdata.GetRequestData(ctx)
	if rd == nil || !rd.IsAdmin {
		// Students only ever see their own pending posts.
		mine := pending[:0:0]
		if rd != nil {
			for _, p := range pending {
				if p.AuthorID == rd.UserID {
					mine = append(mine, p)
				}
			}
		}
		return approved, mine, nil
	}
	return approved, pending, nil
}

func (cs *communityService) CreatePost(ctx context.Context, in PostInput) (*types.Post, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	if in.Title == "" || in.Content == "" {
		return nil, fmt.Errorf("%w: post title and content are required", ErrValidation)
	}
	if in.CategoryID == uuid.Nil {
		return nil, fmt.Errorf("%w: category is required", ErrValidation)
	}

	post := types.Post{
		CategoryID: in.CategoryID,
		AuthorID:   rd.UserID,
		Title:      in.Title,
		Content:    in.Content,
		ImageURL:   in.ImageURL,
		Files:      datatypes.NewJSONSlice(in.Files),
		Likes:      datatypes.NewJSONSlice([]string{}),
	}
	if _, err := cs.posts.Add(ctx, nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (cs *communityService) ApprovePost(ctx context.Context, postID uuid.UUID) error {
	if err := cs.postRepo.SetApproved(ctx, nil, postID, true); err != nil {
		return err
	}
	cs.posts.Notify(ctx)
	return nil
}

// RejectPost removes the pending post entirely; a rejected post is not kept
// around in a hidden state.
func (cs *communityService) RejectPost(ctx context.Context, postID uuid.UUID) error {
	if err := cs.postRepo.DeleteWithComments(ctx, nil, postID); err != nil {
		return err
	}
	cs.posts.Notify(ctx)
	return nil
}

func (cs *communityService) PinPost(ctx context.Context, postID uuid.UUID, pinned bool) error {
	if err := cs.postRepo.SetPinned(ctx, nil, postID, pinned); err != nil {
		return err
	}
	cs.posts.Notify(ctx)
	return nil
}

func (cs *communityService) DeletePost(ctx context.Context, postID uuid.UUID) error {
	if err := cs.postRepo.DeleteWithComments(ctx, nil, postID); err != nil {
		return err
	}
	cs.posts.Notify(ctx)
	return nil
}

func (cs *communityService) ToggleLike(ctx context.Context, postID uuid.UUID) (*types.Post, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}

	post, err := cs.postRepo.GetByID(ctx, nil, postID)
	if err != nil {
		return nil, err
	}

	likes := views.ToggleLike(post.Likes, rd.UserID.String())
	if err := cs.postRepo.SetLikes(ctx, nil, postID, likes); err != nil {
		return nil, err
	}

	post.Likes = datatypes.NewJSONSlice(likes)
	post.LikesCount = len(likes)
	cs.posts.Notify(ctx)
	return post, nil
}

func (cs *communityService) AddComment(ctx context.Context, postID uuid.UUID, in CommentInput) (*types.PostComment, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	if in.Content == "" {
		return nil, fmt.Errorf("%w: comment content is required", ErrValidation)
	}

	comment, err := cs.postRepo.AddComment(ctx, nil, &types.PostComment{
		ID:       uuid.New(),
		PostID:   postID,
		AuthorID: rd.UserID,
		Content:  in.Content,
	})
	if err != nil {
		return nil, err
	}
	cs.posts.Notify(ctx)
	return comment, nil
}

func (cs *communityService) ListComments(ctx context.Context, postID uuid.UUID) ([]*types.PostComment, error) {
	return cs.postRepo.ListComments(ctx, nil, postID)
}

func (cs *communityService) WatchPosts(ctx context.Context) (<-chan binding.State[types.Post], func()) {
	return cs.posts.Watch(ctx)
}
