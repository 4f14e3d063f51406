package pg

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/itchan-dev/bloghub/shared/domain"
	"github.com/itchan-dev/bloghub/shared/errors"
	sharedpg "github.com/itchan-dev/bloghub/shared/storage/pg"
	"github.com/lib/pq"
)

// =========================================================================
// Public Methods (satisfy the service.AuthStorage interface)
// =========================================================================

// SaveUser inserts the user and links its roles, creating missing roles on demand.
func (s *Storage) SaveUser(ctx context.Context, user domain.User) (domain.UserId, error) {
	var id domain.UserId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.saveUser(ctx, tx, user)
		if err != nil {
			return err
		}
		return s.setRoles(ctx, tx, id, user.Roles)
	})
	return id, err
}

func (s *Storage) UserByEmail(ctx context.Context, email domain.Email) (domain.User, error) {
	return s.userBy(ctx, s.db, "u.email = $1", email)
}

func (s *Storage) UserById(ctx context.Context, id domain.UserId) (domain.User, error) {
	return s.userBy(ctx, s.db, "u.id = $1", id)
}

func (s *Storage) ListUsers(ctx context.Context, p domain.Pagination) ([]domain.User, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM users").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, userSelect+" ORDER BY u.id LIMIT $1 OFFSET $2", p.Limit(), p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating users: %w", err)
	}
	return users, total, nil
}

// UpdateUser writes every mutable account column. A taken email is a Conflict.
func (s *Storage) UpdateUser(ctx context.Context, user domain.User) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updateUser(ctx, tx, user)
	})
}

func (s *Storage) SetEmailConfirmed(ctx context.Context, email domain.Email) error {
	res, err := s.db.ExecContext(ctx, "UPDATE users SET is_email_confirmed = TRUE WHERE email = $1", email)
	if err != nil {
		return fmt.Errorf("failed to confirm email: %w", err)
	}
	return expectAffected(res, "User not found")
}

func (s *Storage) UpdatePassword(ctx context.Context, email domain.Email, passHash string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE users SET password_hash = $1 WHERE email = $2", passHash, email)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return expectAffected(res, "User not found")
}

// DeleteUser removes the user with everything it owns. It returns the stored
// file names that are no longer referenced: the profile picture and the
// cover images of the user's posts.
func (s *Storage) DeleteUser(ctx context.Context, id domain.UserId) ([]domain.FileName, error) {
	var released []domain.FileName
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		released, err = s.deleteUser(ctx, tx, id)
		return err
	})
	return released, err
}

// SaveAuthorizationCode replaces every earlier code for the same email.
func (s *Storage) SaveAuthorizationCode(ctx context.Context, code domain.AuthorizationCode) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM authorization_codes WHERE email = $1", code.Email); err != nil {
			return fmt.Errorf("failed to delete previous codes: %w", err)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO authorization_codes (email, code_hash, purpose, expires_at)
			VALUES ($1, $2, $3, $4)`,
			code.Email, code.CodeHash, code.Purpose, code.ExpiresAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert authorization code: %w", err)
		}
		return nil
	})
}

func (s *Storage) DeleteAuthorizationCodes(ctx context.Context, email domain.Email) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM authorization_codes WHERE email = $1", email); err != nil {
		return fmt.Errorf("failed to delete authorization codes: %w", err)
	}
	return nil
}

// ConsumeAuthorizationCode locks the latest code for email and purpose and
// passes it to check. The code is deleted when check asks for it; the
// returned error of check is passed through either way. A missing code is
// reported as InvalidCode. Concurrent consumers for one email are serialized
// by the row lock, so a code is consumed at most once.
func (s *Storage) ConsumeAuthorizationCode(ctx context.Context, email domain.Email, purpose domain.CodePurpose, check func(domain.AuthorizationCode) (consume bool, err error)) error {
	var checkErr error
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var code domain.AuthorizationCode
		err := tx.QueryRowContext(ctx, `
			SELECT id, email, code_hash, purpose, expires_at
			FROM authorization_codes
			WHERE email = $1 AND purpose = $2
			ORDER BY created_at DESC, id DESC
			LIMIT 1
			FOR UPDATE`,
			email, purpose,
		).Scan(&code.Id, &code.Email, &code.CodeHash, &code.Purpose, &code.ExpiresAt)
		if err != nil {
			if stderrors.Is(err, sql.ErrNoRows) {
				return errors.InvalidCode("Invalid code.")
			}
			return fmt.Errorf("failed to query authorization code: %w", err)
		}

		var consume bool
		consume, checkErr = check(code)
		if consume {
			if _, err := tx.ExecContext(ctx, "DELETE FROM authorization_codes WHERE id = $1", code.Id); err != nil {
				return fmt.Errorf("failed to delete authorization code: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return checkErr
}

// ProfilePictureExists reports whether some user references the file name.
func (s *Storage) ProfilePictureExists(ctx context.Context, name domain.FileName) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE profile_picture = $1)", name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to query profile picture: %w", err)
	}
	return exists, nil
}

// =========================================================================
// Internal Methods (Core Database Logic)
// These methods accept a Querier and are transaction-agnostic.
// =========================================================================

const userSelect = `
	SELECT u.id, u.name, u.email, u.password_hash, u.is_email_confirmed, u.profile_picture, u.created_at,
		ARRAY(SELECT r.name FROM user_roles ur JOIN roles r ON r.id = ur.role_id WHERE ur.user_id = u.id ORDER BY r.name)
	FROM users u`

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (domain.User, error) {
	var user domain.User
	err := row.Scan(&user.Id, &user.Name, &user.Email, &user.PassHash, &user.IsEmailConfirmed,
		&user.ProfilePicture, &user.CreatedAt, pq.Array(&user.Roles))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return domain.User{}, errors.NotFound("User not found")
		}
		return domain.User{}, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}

func (s *Storage) userBy(ctx context.Context, q Querier, where string, arg any) (domain.User, error) {
	return scanUser(q.QueryRowContext(ctx, userSelect+" WHERE "+where, arg))
}

func (s *Storage) saveUser(ctx context.Context, q Querier, user domain.User) (domain.UserId, error) {
	var id domain.UserId
	err := q.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password_hash, is_email_confirmed, profile_picture)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		user.Name, user.Email, user.PassHash, user.IsEmailConfirmed, user.ProfilePicture,
	).Scan(&id)
	if err != nil {
		if sharedpg.IsUniqueViolation(err) {
			return 0, errors.Conflict("This email is already registered!")
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func (s *Storage) setRoles(ctx context.Context, q Querier, id domain.UserId, roles []domain.RoleName) error {
	for _, role := range roles {
		if _, err := q.ExecContext(ctx, "INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", role); err != nil {
			return fmt.Errorf("failed to ensure role %s: %w", role, err)
		}
		_, err := q.ExecContext(ctx, `
			INSERT INTO user_roles (user_id, role_id)
			SELECT $1, id FROM roles WHERE name = $2
			ON CONFLICT DO NOTHING`, id, role)
		if err != nil {
			return fmt.Errorf("failed to assign role %s: %w", role, err)
		}
	}
	return nil
}

func (s *Storage) updateUser(ctx context.Context, q Querier, user domain.User) error {
	res, err := q.ExecContext(ctx, `
		UPDATE users
		SET name = $1, email = $2, password_hash = $3, is_email_confirmed = $4, profile_picture = $5
		WHERE id = $6`,
		user.Name, user.Email, user.PassHash, user.IsEmailConfirmed, user.ProfilePicture, user.Id,
	)
	if err != nil {
		if sharedpg.IsUniqueViolation(err) {
			return errors.Conflict("This email is already in use!")
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return expectAffected(res, "User not found")
}

func (s *Storage) deleteUser(ctx context.Context, q Querier, id domain.UserId) ([]domain.FileName, error) {
	released, err := collectFileNames(ctx, q, "SELECT cover_image FROM posts WHERE owner_id = $1 AND cover_image IS NOT NULL", id)
	if err != nil {
		return nil, err
	}

	var picture *domain.FileName
	err = q.QueryRowContext(ctx, "DELETE FROM users WHERE id = $1 RETURNING profile_picture", id).Scan(&picture)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("User not found")
		}
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}
	if picture != nil {
		released = append(released, *picture)
	}
	return released, nil
}

func collectFileNames(ctx context.Context, q Querier, query string, args ...any) ([]domain.FileName, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query file names: %w", err)
	}
	defer rows.Close()

	var names []domain.FileName
	for rows.Next() {
		var name domain.FileName
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan file name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file names: %w", err)
	}
	return names, nil
}

func expectAffected(res sql.Result, notFound string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return errors.NotFound("%s", notFound)
	}
	return nil
}
