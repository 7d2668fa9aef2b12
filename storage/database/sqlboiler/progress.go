package boiledrepos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/progress"
)

const progressColumns = "id, user_id, course_id, module_id, status, started_at, completed_at, created_at, updated_at"

type progressRow struct {
	ID          string    `boil:"id"`
	UserID      string    `boil:"user_id"`
	CourseID    string    `boil:"course_id"`
	ModuleID    string    `boil:"module_id"`
	Status      string    `boil:"status"`
	StartedAt   null.Time `boil:"started_at"`
	CompletedAt null.Time `boil:"completed_at"`
	CreatedAt   time.Time `boil:"created_at"`
	UpdatedAt   time.Time `boil:"updated_at"`
}

func (r progressRow) unboil() progress.Progress {
	p := progress.Progress{
		ID:        r.ID,
		UserID:    r.UserID,
		CourseID:  r.CourseID,
		ModuleID:  r.ModuleID,
		Status:    progress.State(r.Status),
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
	if r.StartedAt.Valid {
		p.StartedAt = r.StartedAt.Time.UTC()
	}
	if r.CompletedAt.Valid {
		p.CompletedAt = r.CompletedAt.Time.UTC()
	}
	return p
}

func nullTime(t time.Time) null.Time {
	return null.NewTime(t.UTC(), !t.IsZero())
}

type progressRepository struct {
	repo
}

var _ progress.Repository = (*progressRepository)(nil) // interface compliance check

func NewProgressRepository(exec core.DBExecutor, engine string) progress.Repository {
	return &progressRepository{repo: newRepo(exec, engine)}
}

func (repo *progressRepository) GetProgress(ctx context.Context, userID, courseID, moduleID string) (progress.Progress, error) {
	var row progressRow
	err := repo.query(ctx, &row,
		"SELECT "+progressColumns+" FROM progress WHERE user_id = ? AND course_id = ? AND module_id = ?",
		userID, courseID, moduleID,
	)
	if err != nil {
		return progress.Progress{}, trapNoRowsErr(err, progress.ErrNotFound, "getting progress")
	}
	return row.unboil(), nil
}

// stateRankSQL ranks the progress states of col in lifecycle order.
func stateRankSQL(col string) string {
	return fmt.Sprintf("CASE %s WHEN '%s' THEN 1 WHEN '%s' THEN 2 WHEN '%s' THEN 3 ELSE 0 END",
		col, progress.StateUnlocked, progress.StateInProgress, progress.StateCompleted)
}

// SaveProgress upserts on the (user, course, module) key.
// The update is skipped when it would move the stored row to an earlier state.
func (repo *progressRepository) SaveProgress(ctx context.Context, p progress.Progress) (progress.Progress, error) {
	_, err := repo.execute(ctx,
		`INSERT INTO progress (`+progressColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, course_id, module_id) DO UPDATE SET
			status = excluded.status,
			started_at = excluded.started_at,
			completed_at = excluded.completed_at,
			updated_at = excluded.updated_at
		WHERE `+stateRankSQL("excluded.status")+` >= `+stateRankSQL("progress.status"),
		uuid.New().String(), p.UserID, p.CourseID, p.ModuleID, string(p.Status),
		nullTime(p.StartedAt), nullTime(p.CompletedAt), p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
	)
	if err != nil {
		return progress.Progress{}, errors.Wrap(err, "saving progress")
	}
	return repo.GetProgress(ctx, p.UserID, p.CourseID, p.ModuleID)
}

func (repo *progressRepository) QueryProgress(ctx context.Context, userID, courseID string) ([]progress.Progress, error) {
	var rows []progressRow
	err := repo.query(ctx, &rows,
		`SELECT p.id, p.user_id, p.course_id, p.module_id, p.status, p.started_at, p.completed_at, p.created_at, p.updated_at
		FROM progress p JOIN modules m ON m.id = p.module_id
		WHERE p.user_id = ? AND p.course_id = ? ORDER BY m.sort_order ASC`,
		userID, courseID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying progress")
	}
	ps := make([]progress.Progress, 0, len(rows))
	for _, r := range rows {
		ps = append(ps, r.unboil())
	}
	return ps, nil
}
