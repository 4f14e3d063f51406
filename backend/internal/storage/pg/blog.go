package pg

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/itchan-dev/bloghub/shared/domain"
	"github.com/itchan-dev/bloghub/shared/errors"
)

const blogColumns = "b.id, b.title, b.description, b.header_color, b.title_color, b.is_public, b.owner_id, b.created_at"

func scanBlog(row scanner) (domain.Blog, error) {
	var b domain.Blog
	err := row.Scan(&b.Id, &b.Title, &b.Description, &b.HeaderColor, &b.TitleColor, &b.IsPublic, &b.OwnerId, &b.CreatedAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return domain.Blog{}, errors.NotFound("Blog not found")
		}
		return domain.Blog{}, fmt.Errorf("failed to scan blog: %w", err)
	}
	return b, nil
}

func (s *Storage) CreateBlog(ctx context.Context, data domain.BlogCreationData) (domain.Blog, error) {
	blog, err := scanBlog(s.db.QueryRowContext(ctx, `
		INSERT INTO blogs AS b (title, description, header_color, title_color, is_public, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+blogColumns,
		data.Title, data.Description, data.HeaderColor, data.TitleColor, data.IsPublic, data.OwnerId,
	))
	return blog, missingParent(err, "User not found")
}

func (s *Storage) Blog(ctx context.Context, id domain.BlogId) (domain.Blog, error) {
	return scanBlog(s.db.QueryRowContext(ctx, "SELECT "+blogColumns+" FROM blogs b WHERE b.id = $1", id))
}

func (s *Storage) ListBlogs(ctx context.Context, filter domain.BlogFilter, p domain.Pagination) ([]domain.Blog, int, error) {
	where, args := blogWhere(filter)

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM blogs b"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count blogs: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM blogs b%s ORDER BY b.created_at DESC, b.id DESC LIMIT $%d OFFSET $%d",
		blogColumns, where, len(args)+1, len(args)+2)
	rows, err := s.db.QueryContext(ctx, query, append(args, p.Limit(), p.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query blogs: %w", err)
	}
	defer rows.Close()

	blogs := []domain.Blog{}
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, 0, err
		}
		blogs = append(blogs, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating blogs: %w", err)
	}
	return blogs, total, nil
}

func blogWhere(filter domain.BlogFilter) (string, []any) {
	var conds []string
	var args []any
	if filter.OwnerId != nil {
		args = append(args, *filter.OwnerId)
		conds = append(conds, fmt.Sprintf("b.owner_id = $%d", len(args)))
	}
	if filter.PublicOnly {
		conds = append(conds, "b.is_public")
	}
	if filter.Search != "" {
		args = append(args, likePattern(filter.Search))
		conds = append(conds, fmt.Sprintf("(b.title ILIKE $%[1]d OR b.description ILIKE $%[1]d)", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// likePattern escapes LIKE wildcards in user input and wraps it for a substring match.
func likePattern(search string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(search) + "%"
}

func (s *Storage) UpdateBlog(ctx context.Context, b domain.Blog) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE blogs
		SET title = $1, description = $2, header_color = $3, title_color = $4, is_public = $5
		WHERE id = $6`,
		b.Title, b.Description, b.HeaderColor, b.TitleColor, b.IsPublic, b.Id,
	)
	if err != nil {
		return fmt.Errorf("failed to update blog: %w", err)
	}
	return expectAffected(res, "Blog not found")
}

// DeleteBlog deletes the blog with its posts and comments and returns the
// cover images of the deleted posts.
func (s *Storage) DeleteBlog(ctx context.Context, id domain.BlogId) ([]domain.FileName, error) {
	var released []domain.FileName
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		released, err = collectFileNames(ctx, tx, "SELECT cover_image FROM posts WHERE blog_id = $1 AND cover_image IS NOT NULL", id)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM blogs WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("failed to delete blog: %w", err)
		}
		return expectAffected(res, "Blog not found")
	})
	return released, err
}
