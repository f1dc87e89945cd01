package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deniz/coursehub/internal/app/models"
	"github.com/deniz/coursehub/internal/pkg/apperrors"
	"github.com/deniz/coursehub/internal/pkg/dberrors"
	"github.com/deniz/coursehub/internal/pkg/logger"
)

// tempOrder is the reserved sentinel parked on a lesson mid-swap. It is
// strictly below the minimum legal order of 1, so it can never collide with
// a real slot under the (course_id, "order") unique index.
const tempOrder = -999999

// ILessonRepository defines the interface for lesson database operations
type ILessonRepository interface {
	Create(ctx context.Context, lesson *models.Lesson) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error)
	Update(ctx context.Context, lesson *models.Lesson) error
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Lesson, error)
	OrderTaken(ctx context.Context, courseID uuid.UUID, order int, excludeID uuid.UUID) (bool, error)
	FindByOrder(ctx context.Context, courseID uuid.UUID, order int) (*models.Lesson, error)
	CountActive(ctx context.Context, courseID uuid.UUID) (int, error)
	LastActivityAt(ctx context.Context, courseID uuid.UUID) (*time.Time, error)
	SwapOrders(ctx context.Context, aID, bID uuid.UUID, now time.Time) error
}

// LessonRepository handles lesson database operations
type LessonRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewLessonRepository creates a new LessonRepository
func NewLessonRepository(db *pgxpool.Pool) *LessonRepository {
	return &LessonRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new lesson row. A unique violation on the per-course order
// index is reported as ErrDuplicateOrder; it means a concurrent insert won the
// slot between the caller's uniqueness check and this insert.
func (r *LessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	sql, args, err := r.sb.Insert("lessons").
		Columns("id", "course_id", "title", `"order"`, "is_deleted", "created_at", "updated_at").
		Values(lesson.ID, lesson.CourseID, lesson.Title, lesson.Order, lesson.IsDeleted, lesson.CreatedAt, lesson.UpdatedAt).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create lesson SQL")
		return fmt.Errorf("failed to build create lesson query: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrDuplicateOrder
		}
		logger.Error().Err(err).Msg("Error executing create lesson query")
		return fmt.Errorf("error creating lesson: %w", err)
	}

	return nil
}

// GetByID retrieves a non-deleted lesson by ID
func (r *LessonRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error) {
	sql, args, err := r.sb.Select("id", "course_id", "title", `"order"`, "is_deleted", "created_at", "updated_at").
		From("lessons").
		Where(squirrel.Eq{"id": id, "is_deleted": false}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get lesson by ID SQL")
		return nil, fmt.Errorf("failed to build get lesson query: %w", err)
	}

	lesson := &models.Lesson{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&lesson.ID, &lesson.CourseID, &lesson.Title, &lesson.Order, &lesson.IsDeleted, &lesson.CreatedAt, &lesson.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLessonNotFound
		}
		logger.Error().Err(err).Str("lessonID", id.String()).Msg("Error scanning lesson row")
		return nil, fmt.Errorf("error getting lesson by ID: %w", err)
	}

	return lesson, nil
}

// Update persists the mutable fields of an existing lesson, including the
// soft-delete flag. Same unique-violation-to-conflict mapping as Create.
func (r *LessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	sql, args, err := r.sb.Update("lessons").
		SetMap(map[string]interface{}{
			"title":      lesson.Title,
			`"order"`:    lesson.Order,
			"is_deleted": lesson.IsDeleted,
			"updated_at": lesson.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": lesson.ID}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building update lesson SQL")
		return fmt.Errorf("failed to build update lesson query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrDuplicateOrder
		}
		logger.Error().Err(err).Str("lessonID", lesson.ID.String()).Msg("Error executing update lesson query")
		return fmt.Errorf("error updating lesson: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLessonNotFound
	}

	return nil
}

// ListByCourse retrieves the non-deleted lessons of a course ordered ascending by order
func (r *LessonRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Lesson, error) {
	sql, args, err := r.sb.Select("id", "course_id", "title", `"order"`, "is_deleted", "created_at", "updated_at").
		From("lessons").
		Where(squirrel.Eq{"course_id": courseID, "is_deleted": false}).
		OrderBy(`"order" ASC`).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building list lessons SQL")
		return nil, fmt.Errorf("failed to build list lessons query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list lessons query")
		return nil, fmt.Errorf("error querying lessons: %w", err)
	}
	defer rows.Close()

	lessons := []models.Lesson{}
	for rows.Next() {
		var lesson models.Lesson
		if err := rows.Scan(&lesson.ID, &lesson.CourseID, &lesson.Title, &lesson.Order, &lesson.IsDeleted, &lesson.CreatedAt, &lesson.UpdatedAt); err != nil {
			logger.Error().Err(err).Msg("Error scanning lesson row during list")
			return nil, fmt.Errorf("error scanning lesson row: %w", err)
		}
		lessons = append(lessons, lesson)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating lesson rows")
		return nil, fmt.Errorf("error iterating lesson rows: %w", err)
	}

	return lessons, nil
}

// OrderTaken reports whether an active lesson of the course already holds the
// given order. excludeID skips one lesson (the one being updated); pass
// uuid.Nil to check all.
func (r *LessonRepository) OrderTaken(ctx context.Context, courseID uuid.UUID, order int, excludeID uuid.UUID) (bool, error) {
	where := squirrel.And{
		squirrel.Eq{"course_id": courseID, `"order"`: order, "is_deleted": false},
	}
	if excludeID != uuid.Nil {
		where = append(where, squirrel.NotEq{"id": excludeID})
	}

	sql, args, err := r.sb.Select("1").
		From("lessons").
		Where(where).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building order taken SQL")
		return false, fmt.Errorf("failed to build order existence query: %w", err)
	}

	var exists bool
	err = r.db.QueryRow(ctx, sql, args...).Scan(&exists)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		logger.Error().Err(err).Str("courseID", courseID.String()).Int("order", order).Msg("Error checking order existence")
		return false, fmt.Errorf("error checking order existence: %w", err)
	}

	return exists, nil
}

// FindByOrder looks up the lesson holding the given order slot in a course.
// Soft-deleted lessons are deliberately NOT filtered out here: the move
// operations target whatever row holds the slot, deleted or not.
func (r *LessonRepository) FindByOrder(ctx context.Context, courseID uuid.UUID, order int) (*models.Lesson, error) {
	sql, args, err := r.sb.Select("id", "course_id", "title", `"order"`, "is_deleted", "created_at", "updated_at").
		From("lessons").
		Where(squirrel.Eq{"course_id": courseID, `"order"`: order}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building find lesson by order SQL")
		return nil, fmt.Errorf("failed to build find lesson by order query: %w", err)
	}

	lesson := &models.Lesson{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&lesson.ID, &lesson.CourseID, &lesson.Title, &lesson.Order, &lesson.IsDeleted, &lesson.CreatedAt, &lesson.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLessonNotFound
		}
		logger.Error().Err(err).Str("courseID", courseID.String()).Int("order", order).Msg("Error scanning lesson row by order")
		return nil, fmt.Errorf("error finding lesson by order: %w", err)
	}

	return lesson, nil
}

// CountActive counts the non-deleted lessons of a course
func (r *LessonRepository) CountActive(ctx context.Context, courseID uuid.UUID) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("lessons").
		Where(squirrel.Eq{"course_id": courseID, "is_deleted": false}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building count lessons SQL")
		return 0, fmt.Errorf("failed to build count lessons query: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Str("courseID", courseID.String()).Msg("Error counting lessons")
		return 0, fmt.Errorf("error counting lessons: %w", err)
	}

	return count, nil
}

// LastActivityAt returns the latest updated_at among the non-deleted lessons
// of a course, or nil when the course has none.
func (r *LessonRepository) LastActivityAt(ctx context.Context, courseID uuid.UUID) (*time.Time, error) {
	sql, args, err := r.sb.Select("MAX(updated_at)").
		From("lessons").
		Where(squirrel.Eq{"course_id": courseID, "is_deleted": false}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building last activity SQL")
		return nil, fmt.Errorf("failed to build last activity query: %w", err)
	}

	var last *time.Time
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&last); err != nil {
		logger.Error().Err(err).Str("courseID", courseID.String()).Msg("Error querying last lesson activity")
		return nil, fmt.Errorf("error querying last lesson activity: %w", err)
	}

	return last, nil
}

// SwapOrders exchanges the order values of two lessons of the same course in
// a single transaction.
//
// A direct two-row swap would trip the unique index on (course_id, "order")
// at the first update, so the swap goes through three steps: park lesson A on
// the sentinel, move B into A's old slot, then move A into B's old slot. Both
// rows are locked up front (in id order, so concurrent swaps cannot deadlock)
// and the intermediate states are never visible outside the transaction.
func (r *LessonRepository) SwapOrders(ctx context.Context, aID, bID uuid.UUID, now time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin swap transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	lockSql, lockArgs, err := r.sb.Select("id", `"order"`).
		From("lessons").
		Where(squirrel.Eq{"id": []uuid.UUID{aID, bID}}).
		OrderBy("id").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build swap lock query: %w", err)
	}

	rows, err := tx.Query(ctx, lockSql, lockArgs...)
	if err != nil {
		return fmt.Errorf("error locking lessons for swap: %w", err)
	}

	orders := make(map[uuid.UUID]int, 2)
	for rows.Next() {
		var id uuid.UUID
		var order int
		if err := rows.Scan(&id, &order); err != nil {
			rows.Close()
			return fmt.Errorf("error scanning locked lesson row: %w", err)
		}
		orders[id] = order
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating locked lesson rows: %w", err)
	}

	orderA, okA := orders[aID]
	orderB, okB := orders[bID]
	if !okA || !okB {
		// One of the rows disappeared between lookup and lock.
		return apperrors.ErrLessonNotFound
	}

	steps := []struct {
		id    uuid.UUID
		order int
	}{
		{aID, tempOrder},
		{bID, orderA},
		{aID, orderB},
	}

	for _, step := range steps {
		sql, args, err := r.sb.Update("lessons").
			SetMap(map[string]interface{}{
				`"order"`:    step.order,
				"updated_at": now,
			}).
			Where(squirrel.Eq{"id": step.id}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build swap update query: %w", err)
		}

		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			if dberrors.IsUniqueViolation(err) {
				// Another writer moved a lesson into the slot after we took
				// our locks. That should be impossible for same-course swaps;
				// surface it instead of swallowing it.
				logger.Error().Err(err).Str("lessonID", step.id.String()).Int("order", step.order).Msg("Order swap lost a uniqueness race")
				return fmt.Errorf("lesson order swap violated order uniqueness: %w", err)
			}
			return fmt.Errorf("error applying swap update: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit swap transaction: %w", err)
	}

	return nil
}
