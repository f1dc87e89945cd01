package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deniz/coursehub/internal/app/models"
	"github.com/deniz/coursehub/internal/pkg/apperrors"
	"github.com/deniz/coursehub/internal/pkg/logger"
)

// CourseRow is a course annotated with its live count of non-deleted lessons,
// as returned by Search.
type CourseRow struct {
	models.Course
	TotalLessons int
}

// ICourseRepository defines the interface for course database operations
type ICourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Search(ctx context.Context, status *models.CourseStatus, offset uint64, limit int) ([]CourseRow, int, error)
}

// CourseRepository handles course database operations
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new course row
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Insert("courses").
		Columns("id", "title", "status", "is_deleted", "created_at", "updated_at").
		Values(course.ID, course.Title, course.Status, course.IsDeleted, course.CreatedAt, course.UpdatedAt).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create course SQL")
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing create course query")
		return fmt.Errorf("error creating course: %w", err)
	}

	return nil
}

// GetByID retrieves a non-deleted course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	sql, args, err := r.sb.Select("id", "title", "status", "is_deleted", "created_at", "updated_at").
		From("courses").
		Where(squirrel.Eq{"id": id, "is_deleted": false}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get course by ID SQL")
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course := &models.Course{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&course.ID, &course.Title, &course.Status, &course.IsDeleted, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Str("courseID", id.String()).Msg("Error scanning course row")
		return nil, fmt.Errorf("error getting course by ID: %w", err)
	}

	return course, nil
}

// Update persists the mutable fields of an existing course.
// Soft deletion goes through here as well: the caller flips IsDeleted and the
// row keeps existing in storage.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Update("courses").
		SetMap(map[string]interface{}{
			"title":      course.Title,
			"status":     course.Status,
			"is_deleted": course.IsDeleted,
			"updated_at": course.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": course.ID}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building update course SQL")
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("courseID", course.ID.String()).Msg("Error executing update course query")
		return fmt.Errorf("error updating course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Exists reports whether a non-deleted course with the given ID exists
func (r *CourseRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("courses").
		Where(squirrel.Eq{"id": id, "is_deleted": false}).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building course exists SQL")
		return false, fmt.Errorf("failed to build course existence query: %w", err)
	}

	var exists bool
	err = r.db.QueryRow(ctx, sql, args...).Scan(&exists)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		logger.Error().Err(err).Str("courseID", id.String()).Msg("Error checking course existence")
		return false, fmt.Errorf("error checking course existence: %w", err)
	}

	return exists, nil
}

// Search retrieves a page of non-deleted courses ordered by most recent
// update, each with its live lesson count, plus the total matching count
// before pagination.
func (r *CourseRepository) Search(ctx context.Context, status *models.CourseStatus, offset uint64, limit int) ([]CourseRow, int, error) {
	where := squirrel.And{squirrel.Eq{"c.is_deleted": false}}
	if status != nil {
		where = append(where, squirrel.Eq{"c.status": *status})
	}

	countSql, countArgs, err := r.sb.Select("COUNT(*)").
		From("courses c").
		Where(where).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count courses SQL")
		return nil, 0, fmt.Errorf("failed to build count courses query: %w", err)
	}

	var total int
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count courses query")
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	if total == 0 {
		return []CourseRow{}, 0, nil
	}

	sql, args, err := r.sb.Select(
		"c.id", "c.title", "c.status", "c.created_at", "c.updated_at",
		"(SELECT COUNT(*) FROM lessons l WHERE l.course_id = c.id AND l.is_deleted = FALSE) AS total_lessons",
	).
		From("courses c").
		Where(where).
		OrderBy("c.updated_at DESC").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building search courses SQL")
		return nil, 0, fmt.Errorf("failed to build search courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing search courses query")
		return nil, 0, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	items := []CourseRow{}
	for rows.Next() {
		var row CourseRow
		if err := rows.Scan(&row.ID, &row.Title, &row.Status, &row.CreatedAt, &row.UpdatedAt, &row.TotalLessons); err != nil {
			logger.Error().Err(err).Msg("Error scanning course row during search")
			return nil, 0, fmt.Errorf("error scanning course row: %w", err)
		}
		items = append(items, row)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating course rows")
		return nil, 0, fmt.Errorf("error iterating course rows: %w", err)
	}

	return items, total, nil
}
