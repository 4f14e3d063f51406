package pg

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/itchan-dev/bloghub/shared/domain"
	"github.com/itchan-dev/bloghub/shared/errors"
	sharedpg "github.com/itchan-dev/bloghub/shared/storage/pg"
)

const postColumns = "p.id, p.title, p.subtitle, p.text, p.cover_image, p.is_public, p.is_updated, p.created_at, p.owner_id, p.blog_id"

func scanPost(row scanner) (domain.Post, error) {
	var p domain.Post
	err := row.Scan(&p.Id, &p.Title, &p.Subtitle, &p.Text, &p.CoverImage, &p.IsPublic, &p.IsUpdated, &p.CreatedAt, &p.OwnerId, &p.BlogId)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return domain.Post{}, errors.NotFound("Post not found")
		}
		return domain.Post{}, fmt.Errorf("failed to scan post: %w", err)
	}
	return p, nil
}

// CreatePost stores p; the cover image name, if any, must already be saved in the file store.
func (s *Storage) CreatePost(ctx context.Context, p domain.Post) (domain.Post, error) {
	created, err := scanPost(s.db.QueryRowContext(ctx, `
		INSERT INTO posts AS p (title, subtitle, text, cover_image, is_public, owner_id, blog_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+postColumns,
		p.Title, p.Subtitle, p.Text, p.CoverImage, p.IsPublic, p.OwnerId, p.BlogId,
	))
	if err != nil && sharedpg.IsUniqueViolation(err) {
		return domain.Post{}, errors.Conflict("Cover image name already in use")
	}
	return created, missingParent(err, "User or blog not found")
}

func (s *Storage) Post(ctx context.Context, id domain.PostId) (domain.Post, error) {
	return scanPost(s.db.QueryRowContext(ctx, "SELECT "+postColumns+" FROM posts p WHERE p.id = $1", id))
}

func (s *Storage) PostByCover(ctx context.Context, name domain.FileName) (domain.Post, error) {
	return scanPost(s.db.QueryRowContext(ctx, "SELECT "+postColumns+" FROM posts p WHERE p.cover_image = $1", name))
}

func (s *Storage) ListPosts(ctx context.Context, filter domain.PostFilter, p domain.Pagination) ([]domain.Post, int, error) {
	where, args := postWhere(filter)
	from := " FROM posts p JOIN blogs b ON b.id = p.blog_id"

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT count(*)"+from+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	query := fmt.Sprintf("SELECT %s%s%s ORDER BY p.created_at DESC, p.id DESC LIMIT $%d OFFSET $%d",
		postColumns, from, where, len(args)+1, len(args)+2)
	rows, err := s.db.QueryContext(ctx, query, append(args, p.Limit(), p.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating posts: %w", err)
	}
	return posts, total, nil
}

func postWhere(filter domain.PostFilter) (string, []any) {
	var conds []string
	var args []any
	if filter.OwnerId != nil {
		args = append(args, *filter.OwnerId)
		conds = append(conds, fmt.Sprintf("p.owner_id = $%d", len(args)))
	}
	if filter.BlogId != nil {
		args = append(args, *filter.BlogId)
		conds = append(conds, fmt.Sprintf("p.blog_id = $%d", len(args)))
	}
	if filter.PublicOnly {
		conds = append(conds, "p.is_public AND b.is_public")
	}
	if filter.Search != "" {
		args = append(args, likePattern(filter.Search))
		conds = append(conds, fmt.Sprintf("(p.title ILIKE $%[1]d OR p.subtitle ILIKE $%[1]d)", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *Storage) UpdatePost(ctx context.Context, p domain.Post) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE posts
		SET title = $1, subtitle = $2, text = $3, cover_image = $4, is_public = $5, is_updated = $6
		WHERE id = $7`,
		p.Title, p.Subtitle, p.Text, p.CoverImage, p.IsPublic, p.IsUpdated, p.Id,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return expectAffected(res, "Post not found")
}

func (s *Storage) DeletePost(ctx context.Context, id domain.PostId) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return expectAffected(res, "Post not found")
}
