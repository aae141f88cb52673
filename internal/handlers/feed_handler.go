package handlers

import (
	"net/http"
	"strconv"

	"microfeed/internal/models"
	"microfeed/internal/repositories"

	"github.com/labstack/echo/v4"
)

// feedPageSize is the fixed number of posts per feed page.
const feedPageSize = 10

// FeedHandler renders the chronological feed: posts authored by the
// current user or by accounts they follow.
type FeedHandler struct {
	postRepository    repositories.PostRepository
	userRepository    repositories.UserRepository
	followRepository  repositories.FollowRepository
	likeRepository    repositories.LikeRepository
	commentRepository repositories.CommentRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
) *FeedHandler {
	return &FeedHandler{
		postRepository:    postRepo,
		userRepository:    userRepo,
		followRepository:  followRepo,
		likeRepository:    likeRepo,
		commentRepository: commentRepo,
	}
}

// RegisterFeedRoutes registers the feed route
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/", h.GetFeed)
}

// FeedItem is a post enriched with author info, its like count and its
// comments in reading order.
type FeedItem struct {
	Post     models.Post
	Author   models.User
	NumLikes int64
	Comments []CommentItem
}

// CommentItem is a comment with its author.
type CommentItem struct {
	Comment models.Comment
	Author  models.User
}

type feedPage struct {
	Username   string
	Posts      []FeedItem
	Page       int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
	Flash      string
}

// GetFeed renders one page of the current user's feed, newest-first.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	userID := currentUserID(c)

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	followingIDs, err := h.followRepository.GetFollowingIDs(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	authorIDs := append(followingIDs, userID)

	posts, err := h.postRepository.ListFeedPosts(authorIDs, (page-1)*feedPageSize, feedPageSize)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	totalItems, err := h.postRepository.CountFeedPosts(authorIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	totalPages := int((totalItems + feedPageSize - 1) / feedPageSize)
	if totalPages < 1 {
		totalPages = 1
	}

	items, err := h.enrich(posts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.Render(http.StatusOK, "feed.html", feedPage{
		Username:   currentUsername(c),
		Posts:      items,
		Page:       page,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		PrevPage:   page - 1,
		NextPage:   page + 1,
		Flash:      takeFlash(c),
	})
}

// enrich annotates a page of posts with authors, like counts and
// comments. One like-count query covers the whole page.
func (h *FeedHandler) enrich(posts []models.Post) ([]FeedItem, error) {
	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	likeCounts, err := h.likeRepository.GetLikesCountByPostIDs(postIDs)
	if err != nil {
		return nil, err
	}

	commentsByPost := make(map[uint][]models.Comment, len(posts))
	userIDSet := make(map[uint]bool)
	for _, p := range posts {
		userIDSet[p.AuthorID] = true
		comments, err := h.commentRepository.ListCommentsByPostID(p.ID)
		if err != nil {
			return nil, err
		}
		commentsByPost[p.ID] = comments
		for _, cm := range comments {
			userIDSet[cm.UserID] = true
		}
	}

	userIDs := make([]uint, 0, len(userIDSet))
	for id := range userIDSet {
		userIDs = append(userIDs, id)
	}
	users, err := h.userRepository.ListUsersByIDs(userIDs)
	if err != nil {
		return nil, err
	}
	userMap := make(map[uint]models.User, len(users))
	for _, u := range users {
		userMap[u.ID] = u
	}

	items := make([]FeedItem, len(posts))
	for i, p := range posts {
		comments := commentsByPost[p.ID]
		commentItems := make([]CommentItem, len(comments))
		for j, cm := range comments {
			commentItems[j] = CommentItem{Comment: cm, Author: userMap[cm.UserID]}
		}
		items[i] = FeedItem{
			Post:     p,
			Author:   userMap[p.AuthorID],
			NumLikes: likeCounts[p.ID],
			Comments: commentItems,
		}
	}
	return items, nil
}
