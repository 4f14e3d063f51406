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

const commentColumns = "c.id, c.text, c.is_updated, c.created_at, c.author_id, c.post_id"

func scanComment(row scanner) (domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(&c.Id, &c.Text, &c.IsUpdated, &c.CreatedAt, &c.AuthorId, &c.PostId)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return domain.Comment{}, errors.NotFound("Comment not found")
		}
		return domain.Comment{}, fmt.Errorf("failed to scan comment: %w", err)
	}
	return c, nil
}

func (s *Storage) CreateComment(ctx context.Context, data domain.CommentCreationData) (domain.Comment, error) {
	comment, err := scanComment(s.db.QueryRowContext(ctx, `
		INSERT INTO comments AS c (text, author_id, post_id)
		VALUES ($1, $2, $3)
		RETURNING `+commentColumns,
		data.Text, data.AuthorId, data.PostId,
	))
	return comment, missingParent(err, "User or post not found")
}

func (s *Storage) Comment(ctx context.Context, id domain.CommentId) (domain.Comment, error) {
	return scanComment(s.db.QueryRowContext(ctx, "SELECT "+commentColumns+" FROM comments c WHERE c.id = $1", id))
}

// ListComments returns comments oldest first.
func (s *Storage) ListComments(ctx context.Context, filter domain.CommentFilter, p domain.Pagination) ([]domain.Comment, int, error) {
	where, args := commentWhere(filter)
	from := " FROM comments c"
	if filter.PublicOnly {
		from += " JOIN posts p ON p.id = c.post_id JOIN blogs b ON b.id = p.blog_id"
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT count(*)"+from+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	query := fmt.Sprintf("SELECT %s%s%s ORDER BY c.created_at, c.id LIMIT $%d OFFSET $%d",
		commentColumns, from, where, len(args)+1, len(args)+2)
	rows, err := s.db.QueryContext(ctx, query, append(args, p.Limit(), p.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating comments: %w", err)
	}
	return comments, total, nil
}

func commentWhere(filter domain.CommentFilter) (string, []any) {
	var conds []string
	var args []any
	if filter.AuthorId != nil {
		args = append(args, *filter.AuthorId)
		conds = append(conds, fmt.Sprintf("c.author_id = $%d", len(args)))
	}
	if filter.PostId != nil {
		args = append(args, *filter.PostId)
		conds = append(conds, fmt.Sprintf("c.post_id = $%d", len(args)))
	}
	if filter.PublicOnly {
		conds = append(conds, "p.is_public AND b.is_public")
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *Storage) UpdateComment(ctx context.Context, c domain.Comment) error {
	res, err := s.db.ExecContext(ctx, "UPDATE comments SET text = $1, is_updated = TRUE WHERE id = $2", c.Text, c.Id)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return expectAffected(res, "Comment not found")
}

func (s *Storage) DeleteComment(ctx context.Context, id domain.CommentId) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return expectAffected(res, "Comment not found")
}
